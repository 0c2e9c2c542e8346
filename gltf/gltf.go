package gltf

// https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html

import (
	"encoding/json"

	"github.com/ksons/gltf-blender-importer/geom"
)

// Accessor component types (GL enum values).
const (
	ComponentByte          = 5120
	ComponentUnsignedByte  = 5121
	ComponentShort         = 5122
	ComponentUnsignedShort = 5123
	ComponentUnsignedInt   = 5125
	ComponentFloat         = 5126
)

// Accessor element types.
const (
	TypeScalar = "SCALAR"
	TypeVec2   = "VEC2"
	TypeVec3   = "VEC3"
	TypeVec4   = "VEC4"
	TypeMat2   = "MAT2"
	TypeMat3   = "MAT3"
	TypeMat4   = "MAT4"
)

// Primitive topology modes.
const (
	ModePoints        = 0
	ModeLines         = 1
	ModeLineLoop      = 2
	ModeLineStrip     = 3
	ModeTriangles     = 4
	ModeTriangleStrip = 5
	ModeTriangleFan   = 6
)

// Well-known primitive attribute names.
const (
	AttrPosition = "POSITION"
	AttrNormal   = "NORMAL"
	AttrTangent  = "TANGENT"
	AttrTexCoord = "TEXCOORD_0"
	AttrColor    = "COLOR_0"
	AttrJoints   = "JOINTS_0"
	AttrWeights  = "WEIGHTS_0"
)

// Material alpha modes.
const (
	AlphaOpaque = "OPAQUE"
	AlphaMask   = "MASK"
	AlphaBlend  = "BLEND"
)

// Animation sampler interpolation modes.
const (
	InterpolationLinear      = "LINEAR"
	InterpolationStep        = "STEP"
	InterpolationCubicSpline = "CUBICSPLINE"
)

// Animation channel target paths.
const (
	PathTranslation = "translation"
	PathRotation    = "rotation"
	PathScale       = "scale"
	PathWeights     = "weights"
)

// Sampler wrap modes and filters (GL enum values).
const (
	WrapRepeat         = 10497
	WrapClampToEdge    = 33071
	WrapMirroredRepeat = 33648

	FilterNearest              = 9728
	FilterLinear               = 9729
	FilterNearestMipmapNearest = 9984
	FilterLinearMipmapNearest  = 9985
	FilterNearestMipmapLinear  = 9986
	FilterLinearMipmapLinear   = 9987
)

// Camera projection types.
const (
	CameraPerspective  = "perspective"
	CameraOrthographic = "orthographic"
)

// Index returns a pointer to v, for filling optional index fields.
func Index(v int) *int {
	return &v
}

// Float returns a pointer to v, for filling optional float fields.
func Float(v float32) *float32 {
	return &v
}

// Document is the parsed top-level glTF asset. Entities reference each
// other by position in these arrays, never by pointer.
type Document struct {
	Asset              Asset           `json:"asset"`
	ExtensionsUsed     []string        `json:"extensionsUsed,omitempty"`
	ExtensionsRequired []string        `json:"extensionsRequired,omitempty"`
	Buffers            []*Buffer       `json:"buffers,omitempty"`
	BufferViews        []*BufferView   `json:"bufferViews,omitempty"`
	Accessors          []*Accessor     `json:"accessors,omitempty"`
	Images             []*Image        `json:"images,omitempty"`
	Samplers           []*Sampler      `json:"samplers,omitempty"`
	Textures           []*Texture      `json:"textures,omitempty"`
	Materials          []*Material     `json:"materials,omitempty"`
	Meshes             []*Mesh         `json:"meshes,omitempty"`
	Skins              []*Skin         `json:"skins,omitempty"`
	Animations         []*Animation    `json:"animations,omitempty"`
	Cameras            []*Camera       `json:"cameras,omitempty"`
	Nodes              []*Node         `json:"nodes,omitempty"`
	Scenes             []*Scene        `json:"scenes,omitempty"`
	Scene              *int            `json:"scene,omitempty"`
	Extensions         Extensions      `json:"extensions,omitempty"`
	Extras             json.RawMessage `json:"extras,omitempty"`
}

type Asset struct {
	Version    string          `json:"version"`
	MinVersion string          `json:"minVersion,omitempty"`
	Generator  string          `json:"generator,omitempty"`
	Copyright  string          `json:"copyright,omitempty"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// Buffer is a raw byte blob. Data is filled from the GLB binary chunk or
// by the caller after resolving the URI; it never round-trips as JSON.
type Buffer struct {
	Name       string          `json:"name,omitempty"`
	URI        string          `json:"uri,omitempty"`
	ByteLength int             `json:"byteLength"`
	Data       []byte          `json:"-"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

type BufferView struct {
	Name       string          `json:"name,omitempty"`
	Buffer     *int            `json:"buffer"`
	ByteOffset int             `json:"byteOffset,omitempty"`
	ByteLength int             `json:"byteLength"`
	ByteStride int             `json:"byteStride,omitempty"`
	Target     int             `json:"target,omitempty"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

type Accessor struct {
	Name          string          `json:"name,omitempty"`
	BufferView    *int            `json:"bufferView,omitempty"`
	ByteOffset    int             `json:"byteOffset,omitempty"`
	ComponentType int             `json:"componentType"`
	Normalized    bool            `json:"normalized,omitempty"`
	Count         int             `json:"count"`
	Type          string          `json:"type"`
	Max           []float32       `json:"max,omitempty"`
	Min           []float32       `json:"min,omitempty"`
	Sparse        *Sparse         `json:"sparse,omitempty"`
	Extensions    Extensions      `json:"extensions,omitempty"`
	Extras        json.RawMessage `json:"extras,omitempty"`
}

// Sparse overrides a mostly-constant accessor at specific element indices.
type Sparse struct {
	Count   int           `json:"count"`
	Indices SparseIndices `json:"indices"`
	Values  SparseValues  `json:"values"`
}

type SparseIndices struct {
	BufferView    *int `json:"bufferView"`
	ByteOffset    int  `json:"byteOffset,omitempty"`
	ComponentType int  `json:"componentType"`
}

type SparseValues struct {
	BufferView *int `json:"bufferView"`
	ByteOffset int  `json:"byteOffset,omitempty"`
}

type Image struct {
	Name       string          `json:"name,omitempty"`
	URI        string          `json:"uri,omitempty"`
	MimeType   string          `json:"mimeType,omitempty"`
	BufferView *int            `json:"bufferView,omitempty"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

type Sampler struct {
	Name       string          `json:"name,omitempty"`
	MagFilter  int             `json:"magFilter,omitempty"`
	MinFilter  int             `json:"minFilter,omitempty"`
	WrapS      *int            `json:"wrapS,omitempty"`
	WrapT      *int            `json:"wrapT,omitempty"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

func (s *Sampler) WrapSOrDefault() int {
	if s.WrapS == nil {
		return WrapRepeat
	}
	return *s.WrapS
}

func (s *Sampler) WrapTOrDefault() int {
	if s.WrapT == nil {
		return WrapRepeat
	}
	return *s.WrapT
}

type Texture struct {
	Name       string          `json:"name,omitempty"`
	Sampler    *int            `json:"sampler,omitempty"`
	Source     *int            `json:"source,omitempty"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// TextureInfo binds a texture to a material slot together with the UV set.
type TextureInfo struct {
	Index      *int            `json:"index"`
	TexCoord   int             `json:"texCoord,omitempty"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

type NormalTexture struct {
	TextureInfo
	Scale *float32 `json:"scale,omitempty"`
}

func (t *NormalTexture) ScaleOrDefault() float32 {
	if t.Scale == nil {
		return 1
	}
	return *t.Scale
}

type OcclusionTexture struct {
	TextureInfo
	Strength *float32 `json:"strength,omitempty"`
}

func (t *OcclusionTexture) StrengthOrDefault() float32 {
	if t.Strength == nil {
		return 1
	}
	return *t.Strength
}

type Material struct {
	Name                 string                `json:"name,omitempty"`
	PBRMetallicRoughness *PBRMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
	NormalTexture        *NormalTexture        `json:"normalTexture,omitempty"`
	OcclusionTexture     *OcclusionTexture     `json:"occlusionTexture,omitempty"`
	EmissiveTexture      *TextureInfo          `json:"emissiveTexture,omitempty"`
	EmissiveFactor       [3]float32            `json:"emissiveFactor,omitempty"`
	AlphaMode            string                `json:"alphaMode,omitempty"`
	AlphaCutoff          *float32              `json:"alphaCutoff,omitempty"`
	DoubleSided          bool                  `json:"doubleSided,omitempty"`
	Extensions           Extensions            `json:"extensions,omitempty"`
	Extras               json.RawMessage       `json:"extras,omitempty"`
}

func (m *Material) AlphaModeOrDefault() string {
	if m.AlphaMode == "" {
		return AlphaOpaque
	}
	return m.AlphaMode
}

func (m *Material) AlphaCutoffOrDefault() float32 {
	if m.AlphaCutoff == nil {
		return 0.5
	}
	return *m.AlphaCutoff
}

type PBRMetallicRoughness struct {
	BaseColorFactor          *[4]float32     `json:"baseColorFactor,omitempty"`
	BaseColorTexture         *TextureInfo    `json:"baseColorTexture,omitempty"`
	MetallicFactor           *float32        `json:"metallicFactor,omitempty"`
	RoughnessFactor          *float32        `json:"roughnessFactor,omitempty"`
	MetallicRoughnessTexture *TextureInfo    `json:"metallicRoughnessTexture,omitempty"`
	Extensions               Extensions      `json:"extensions,omitempty"`
	Extras                   json.RawMessage `json:"extras,omitempty"`
}

func (p *PBRMetallicRoughness) BaseColorFactorOrDefault() [4]float32 {
	if p.BaseColorFactor == nil {
		return [4]float32{1, 1, 1, 1}
	}
	return *p.BaseColorFactor
}

func (p *PBRMetallicRoughness) MetallicFactorOrDefault() float32 {
	if p.MetallicFactor == nil {
		return 1
	}
	return *p.MetallicFactor
}

func (p *PBRMetallicRoughness) RoughnessFactorOrDefault() float32 {
	if p.RoughnessFactor == nil {
		return 1
	}
	return *p.RoughnessFactor
}

type Mesh struct {
	Name       string          `json:"name,omitempty"`
	Primitives []*Primitive    `json:"primitives"`
	Weights    []float32       `json:"weights,omitempty"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// HasMorphTargets reports whether any primitive declares morph targets.
func (m *Mesh) HasMorphTargets() bool {
	for _, p := range m.Primitives {
		if len(p.Targets) > 0 {
			return true
		}
	}
	return false
}

type Primitive struct {
	Attributes map[string]int   `json:"attributes"`
	Indices    *int             `json:"indices,omitempty"`
	Material   *int             `json:"material,omitempty"`
	Mode       *int             `json:"mode,omitempty"`
	Targets    []map[string]int `json:"targets,omitempty"`
	Extensions Extensions       `json:"extensions,omitempty"`
	Extras     json.RawMessage  `json:"extras,omitempty"`
}

func (p *Primitive) ModeOrDefault() int {
	if p.Mode == nil {
		return ModeTriangles
	}
	return *p.Mode
}

type Skin struct {
	Name                string          `json:"name,omitempty"`
	InverseBindMatrices *int            `json:"inverseBindMatrices,omitempty"`
	Skeleton            *int            `json:"skeleton,omitempty"`
	Joints              []int           `json:"joints"`
	Extensions          Extensions      `json:"extensions,omitempty"`
	Extras              json.RawMessage `json:"extras,omitempty"`
}

type Animation struct {
	Name       string              `json:"name,omitempty"`
	Channels   []*Channel          `json:"channels"`
	Samplers   []*AnimationSampler `json:"samplers"`
	Extensions Extensions          `json:"extensions,omitempty"`
	Extras     json.RawMessage     `json:"extras,omitempty"`
}

type Channel struct {
	Sampler    *int            `json:"sampler"`
	Target     ChannelTarget   `json:"target"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

type ChannelTarget struct {
	Node       *int            `json:"node,omitempty"`
	Path       string          `json:"path"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

type AnimationSampler struct {
	Input         *int            `json:"input"`
	Output        *int            `json:"output"`
	Interpolation string          `json:"interpolation,omitempty"`
	Extensions    Extensions      `json:"extensions,omitempty"`
	Extras        json.RawMessage `json:"extras,omitempty"`
}

func (s *AnimationSampler) InterpolationOrDefault() string {
	if s.Interpolation == "" {
		return InterpolationLinear
	}
	return s.Interpolation
}

type Camera struct {
	Name         string          `json:"name,omitempty"`
	Type         string          `json:"type"`
	Perspective  *Perspective    `json:"perspective,omitempty"`
	Orthographic *Orthographic   `json:"orthographic,omitempty"`
	Extensions   Extensions      `json:"extensions,omitempty"`
	Extras       json.RawMessage `json:"extras,omitempty"`
}

type Perspective struct {
	AspectRatio *float32        `json:"aspectRatio,omitempty"`
	YFov        float32         `json:"yfov"`
	ZFar        *float32        `json:"zfar,omitempty"`
	ZNear       float32         `json:"znear"`
	Extensions  Extensions      `json:"extensions,omitempty"`
	Extras      json.RawMessage `json:"extras,omitempty"`
}

type Orthographic struct {
	XMag       float32         `json:"xmag"`
	YMag       float32         `json:"ymag"`
	ZFar       float32         `json:"zfar"`
	ZNear      float32         `json:"znear"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// Node transform is either TRS or a column-major matrix, never both.
type Node struct {
	Name        string          `json:"name,omitempty"`
	Children    []int           `json:"children,omitempty"`
	Matrix      []float32       `json:"matrix,omitempty"`
	Translation []float32       `json:"translation,omitempty"`
	Rotation    []float32       `json:"rotation,omitempty"`
	Scale       []float32       `json:"scale,omitempty"`
	Mesh        *int            `json:"mesh,omitempty"`
	Skin        *int            `json:"skin,omitempty"`
	Camera      *int            `json:"camera,omitempty"`
	Weights     []float32       `json:"weights,omitempty"`
	Extensions  Extensions      `json:"extensions,omitempty"`
	Extras      json.RawMessage `json:"extras,omitempty"`
}

func (n *Node) TranslationOrDefault() *geom.Vector3 {
	if n.Translation == nil {
		return geom.NewVector3(0, 0, 0)
	}
	return geom.NewVector3FromSlice(n.Translation)
}

func (n *Node) RotationOrDefault() *geom.Quaternion {
	if n.Rotation == nil {
		return geom.NewQuaternion(0, 0, 0, 1)
	}
	return geom.NewQuaternionFromSlice(n.Rotation)
}

func (n *Node) ScaleOrDefault() *geom.Vector3 {
	if n.Scale == nil {
		return geom.NewVector3(1, 1, 1)
	}
	return geom.NewVector3FromSlice(n.Scale)
}

// TRS returns the local transform as a translation/rotation/scale triple,
// decomposing the matrix form when that is what the document carries.
func (n *Node) TRS() (*geom.Vector3, *geom.Quaternion, *geom.Vector3) {
	if n.Matrix != nil {
		return geom.NewMatrix4FromSlice(n.Matrix).Decompose()
	}
	return n.TranslationOrDefault(), n.RotationOrDefault(), n.ScaleOrDefault()
}

type Scene struct {
	Name       string          `json:"name,omitempty"`
	Nodes      []int           `json:"nodes,omitempty"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}
