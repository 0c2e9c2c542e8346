package importer

import (
	"github.com/ksons/gltf-blender-importer/geom"
	"github.com/ksons/gltf-blender-importer/gltf"
)

// Handle identifies an object created by the host. The importer never looks
// inside; it only passes handles back when wiring objects together.
type Handle interface{}

// SceneWriter receives the imported scene. The importer drives it in a
// fixed order: materials, meshes, cameras and lights arrive before the node
// that references them, every node arrives after its parent, and skins and
// animations arrive after all nodes.
type SceneWriter interface {
	CreateNode(n *NodeSpec) (Handle, error)
	CreateMesh(m *MeshSpec) (Handle, error)
	CreateMaterial(m *MaterialSpec) (Handle, error)
	CreateCamera(c *CameraSpec) (Handle, error)
	CreateLight(l *LightSpec) (Handle, error)
	CreateSkin(s *SkinSpec) (Handle, error)
	CreateAnimation(a *AnimationSpec) (Handle, error)
}

// NodeSpec is one object in the hierarchy with its local transform already
// converted to the host's axes.
type NodeSpec struct {
	Name        string
	Parent      Handle
	Translation *geom.Vector3
	Rotation    *geom.Quaternion
	Scale       *geom.Vector3
	Mesh        Handle
	Camera      Handle
	Light       Handle
}

type MeshSpec struct {
	Name       string
	Primitives []*PrimitiveSpec
	Weights    []float32
}

// PrimitiveSpec carries one primitive's vertex data decoded to host-ready
// arrays. Optional attributes are nil when absent.
type PrimitiveSpec struct {
	Mode     int
	Material Handle

	Positions []*geom.Vector3
	Normals   []*geom.Vector3
	Tangents  []*geom.Vector4
	TexCoords [][]*geom.Vector2
	Colors    [][4]float32
	Joints    [][4]uint32
	Weights   [][4]float32
	Indices   []uint32

	Targets []*MorphTargetSpec
}

// MorphTargetSpec holds per-vertex deltas relative to the base primitive.
type MorphTargetSpec struct {
	Positions []*geom.Vector3
	Normals   []*geom.Vector3
}

type MaterialSpec struct {
	Name            string
	BaseColorFactor [4]float32
	BaseColorTex    *TextureSpec
	Metallic        float32
	Roughness       float32
	MetallicTex     *TextureSpec
	NormalTex       *TextureSpec
	NormalScale     float32
	OcclusionTex    *TextureSpec
	OcclusionWeight float32
	EmissiveFactor  [3]float32
	EmissiveTex     *TextureSpec
	AlphaMode       string
	AlphaCutoff     float32
	DoubleSided     bool

	Unlit              bool
	SpecularGlossiness *SpecularGlossinessSpec
}

type SpecularGlossinessSpec struct {
	DiffuseFactor    [4]float32
	DiffuseTex       *TextureSpec
	SpecularFactor   [3]float32
	Glossiness       float32
	SpecularGlossTex *TextureSpec
}

// TextureSpec binds an image to a material slot with its sampler state and
// optional UV transform.
type TextureSpec struct {
	Image     *ImageData
	TexCoord  int
	WrapS     int
	WrapT     int
	MagFilter int
	MinFilter int

	Offset   [2]float32
	Rotation float32
	Scale    [2]float32
}

type CameraSpec struct {
	Name         string
	Type         string
	Perspective  *gltf.Perspective
	Orthographic *gltf.Orthographic
}

type LightSpec struct {
	Name      string
	Type      string
	Color     [3]float32
	Intensity float32
	Range     float32
	InnerCone float32
	OuterCone float32
}

type SkinSpec struct {
	Name                string
	Target              Handle
	Skeleton            Handle
	Joints              []Handle
	InverseBindMatrices []*geom.Matrix4
}

type AnimationSpec struct {
	Name     string
	Channels []*ChannelSpec
}

// ChannelSpec is one sampled property track. Values holds Components
// floats per keyframe; Components depends on Path (3 for translation and
// scale, 4 for rotation, morph target count for weights).
type ChannelSpec struct {
	Node          Handle
	Path          string
	Interpolation string
	Times         []float32
	Values        []float32
	Components    int
}

// Recorder is a SceneWriter that keeps everything it is handed. It backs
// the command line checker and the importer's own tests.
type Recorder struct {
	Nodes      []*NodeSpec
	Meshes     []*MeshSpec
	Materials  []*MaterialSpec
	Cameras    []*CameraSpec
	Lights     []*LightSpec
	Skins      []*SkinSpec
	Animations []*AnimationSpec
}

type recorderHandle struct {
	kind  string
	index int
}

func (r *Recorder) CreateNode(n *NodeSpec) (Handle, error) {
	r.Nodes = append(r.Nodes, n)
	return &recorderHandle{"node", len(r.Nodes) - 1}, nil
}

func (r *Recorder) CreateMesh(m *MeshSpec) (Handle, error) {
	r.Meshes = append(r.Meshes, m)
	return &recorderHandle{"mesh", len(r.Meshes) - 1}, nil
}

func (r *Recorder) CreateMaterial(m *MaterialSpec) (Handle, error) {
	r.Materials = append(r.Materials, m)
	return &recorderHandle{"material", len(r.Materials) - 1}, nil
}

func (r *Recorder) CreateCamera(c *CameraSpec) (Handle, error) {
	r.Cameras = append(r.Cameras, c)
	return &recorderHandle{"camera", len(r.Cameras) - 1}, nil
}

func (r *Recorder) CreateLight(l *LightSpec) (Handle, error) {
	r.Lights = append(r.Lights, l)
	return &recorderHandle{"light", len(r.Lights) - 1}, nil
}

func (r *Recorder) CreateSkin(s *SkinSpec) (Handle, error) {
	r.Skins = append(r.Skins, s)
	return &recorderHandle{"skin", len(r.Skins) - 1}, nil
}

func (r *Recorder) CreateAnimation(a *AnimationSpec) (Handle, error) {
	r.Animations = append(r.Animations, a)
	return &recorderHandle{"animation", len(r.Animations) - 1}, nil
}
