package gltf

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Unmarshal parses a glTF document from either bare JSON or a binary
// container, validates it against the schema, and attaches the binary
// chunk to buffer 0 when present. Cross-reference indices are not checked
// here; that is Resolve's job.
func Unmarshal(data []byte) (*Document, error) {
	jsonText := data
	var bin []byte
	if IsBinary(data) {
		var err error
		jsonText, bin, err = ParseGLB(data)
		if err != nil {
			return nil, err
		}
	}

	var doc Document
	if err := json.Unmarshal(jsonText, &doc); err != nil {
		return nil, newError(ErrSchemaViolation, "", -1, "", "invalid JSON: %v", err)
	}
	if err := validateDocument(&doc); err != nil {
		return nil, err
	}
	if bin != nil && len(doc.Buffers) > 0 && doc.Buffers[0].URI == "" {
		doc.Buffers[0].Data = bin
	}
	return &doc, nil
}

func parseVersion(s string) (major, minor int, ok bool) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return 0, 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return major, minor, true
}

func checkVersion(a *Asset) error {
	if a.MinVersion != "" {
		major, minor, ok := parseVersion(a.MinVersion)
		if !ok {
			return newError(ErrSchemaViolation, "asset", -1, "minVersion", "unparseable version %q", a.MinVersion)
		}
		// we implement 2.0
		if major != 2 || minor > 0 {
			return newError(ErrSchemaViolation, "asset", -1, "minVersion", "unsupported minimum version %q", a.MinVersion)
		}
		return nil
	}
	major, _, ok := parseVersion(a.Version)
	if !ok {
		return newError(ErrSchemaViolation, "asset", -1, "version", "unparseable version %q", a.Version)
	}
	if major != 2 {
		return newError(ErrSchemaViolation, "asset", -1, "version", "unsupported version %q", a.Version)
	}
	return nil
}

func validComponentType(t int) bool {
	switch t {
	case ComponentByte, ComponentUnsignedByte, ComponentShort, ComponentUnsignedShort, ComponentUnsignedInt, ComponentFloat:
		return true
	}
	return false
}

func validIndexComponentType(t int) bool {
	switch t {
	case ComponentUnsignedByte, ComponentUnsignedShort, ComponentUnsignedInt:
		return true
	}
	return false
}

func validAccessorType(t string) bool {
	switch t {
	case TypeScalar, TypeVec2, TypeVec3, TypeVec4, TypeMat2, TypeMat3, TypeMat4:
		return true
	}
	return false
}

func validWrapMode(m int) bool {
	switch m {
	case WrapRepeat, WrapClampToEdge, WrapMirroredRepeat:
		return true
	}
	return false
}

func validateDocument(doc *Document) error {
	if err := checkVersion(&doc.Asset); err != nil {
		return err
	}
	if err := validateBuffers(doc); err != nil {
		return err
	}
	if err := validateAccessors(doc); err != nil {
		return err
	}
	if err := validateTextures(doc); err != nil {
		return err
	}
	if err := validateMaterials(doc); err != nil {
		return err
	}
	if err := validateMeshes(doc); err != nil {
		return err
	}
	if err := validateNodes(doc); err != nil {
		return err
	}
	if err := validateSkins(doc); err != nil {
		return err
	}
	if err := validateAnimations(doc); err != nil {
		return err
	}
	return validateCameras(doc)
}

func validateBuffers(doc *Document) error {
	for i, b := range doc.Buffers {
		if b.ByteLength <= 0 {
			return newError(ErrSchemaViolation, "buffers", i, "byteLength", "must be >= 1, got %d", b.ByteLength)
		}
	}
	for i, bv := range doc.BufferViews {
		if bv.Buffer == nil {
			return newError(ErrSchemaViolation, "bufferViews", i, "buffer", "missing required field")
		}
		if bv.ByteLength <= 0 {
			return newError(ErrSchemaViolation, "bufferViews", i, "byteLength", "must be >= 1, got %d", bv.ByteLength)
		}
		if bv.ByteOffset < 0 {
			return newError(ErrSchemaViolation, "bufferViews", i, "byteOffset", "must not be negative")
		}
		if bv.ByteStride != 0 && (bv.ByteStride < 4 || bv.ByteStride > 252 || bv.ByteStride%4 != 0) {
			return newError(ErrSchemaViolation, "bufferViews", i, "byteStride", "must be a multiple of 4 in [4, 252], got %d", bv.ByteStride)
		}
	}
	return nil
}

func validateAccessors(doc *Document) error {
	for i, a := range doc.Accessors {
		if !validComponentType(a.ComponentType) {
			return newError(ErrSchemaViolation, "accessors", i, "componentType", "missing or invalid: %d", a.ComponentType)
		}
		if !validAccessorType(a.Type) {
			return newError(ErrSchemaViolation, "accessors", i, "type", "missing or invalid: %q", a.Type)
		}
		if a.Count <= 0 {
			return newError(ErrSchemaViolation, "accessors", i, "count", "must be >= 1, got %d", a.Count)
		}
		if a.ByteOffset < 0 {
			return newError(ErrSchemaViolation, "accessors", i, "byteOffset", "must not be negative")
		}
		if a.BufferView == nil && a.Sparse == nil {
			return newError(ErrSchemaViolation, "accessors", i, "bufferView", "accessor with no bufferView requires sparse data")
		}
		if s := a.Sparse; s != nil {
			if s.Count <= 0 || s.Count > a.Count {
				return newError(ErrSchemaViolation, "accessors", i, "sparse.count", "must be in [1, count], got %d", s.Count)
			}
			if s.Indices.BufferView == nil {
				return newError(ErrSchemaViolation, "accessors", i, "sparse.indices.bufferView", "missing required field")
			}
			if !validIndexComponentType(s.Indices.ComponentType) {
				return newError(ErrSchemaViolation, "accessors", i, "sparse.indices.componentType", "must be an unsigned integer type, got %d", s.Indices.ComponentType)
			}
			if s.Values.BufferView == nil {
				return newError(ErrSchemaViolation, "accessors", i, "sparse.values.bufferView", "missing required field")
			}
		}
	}
	return nil
}

func validateTextures(doc *Document) error {
	for i, img := range doc.Images {
		if img.URI == "" && img.BufferView == nil {
			return newError(ErrSchemaViolation, "images", i, "", "needs either uri or bufferView")
		}
		if img.URI != "" && img.BufferView != nil {
			return newError(ErrSchemaViolation, "images", i, "", "uri and bufferView are mutually exclusive")
		}
	}
	for i, s := range doc.Samplers {
		if s.WrapS != nil && !validWrapMode(*s.WrapS) {
			return newError(ErrSchemaViolation, "samplers", i, "wrapS", "invalid wrap mode %d", *s.WrapS)
		}
		if s.WrapT != nil && !validWrapMode(*s.WrapT) {
			return newError(ErrSchemaViolation, "samplers", i, "wrapT", "invalid wrap mode %d", *s.WrapT)
		}
	}
	return nil
}

func validateTextureInfo(t *TextureInfo, entity string, index int, field string) error {
	if t == nil {
		return nil
	}
	if t.Index == nil {
		return newError(ErrSchemaViolation, entity, index, field+".index", "missing required field")
	}
	if t.TexCoord < 0 {
		return newError(ErrSchemaViolation, entity, index, field+".texCoord", "must not be negative")
	}
	return nil
}

func validateMaterials(doc *Document) error {
	for i, m := range doc.Materials {
		switch m.AlphaMode {
		case "", AlphaOpaque, AlphaMask, AlphaBlend:
		default:
			return newError(ErrSchemaViolation, "materials", i, "alphaMode", "unknown mode %q", m.AlphaMode)
		}
		if pbr := m.PBRMetallicRoughness; pbr != nil {
			if err := validateTextureInfo(pbr.BaseColorTexture, "materials", i, "pbrMetallicRoughness.baseColorTexture"); err != nil {
				return err
			}
			if err := validateTextureInfo(pbr.MetallicRoughnessTexture, "materials", i, "pbrMetallicRoughness.metallicRoughnessTexture"); err != nil {
				return err
			}
		}
		if m.NormalTexture != nil {
			if err := validateTextureInfo(&m.NormalTexture.TextureInfo, "materials", i, "normalTexture"); err != nil {
				return err
			}
		}
		if m.OcclusionTexture != nil {
			if err := validateTextureInfo(&m.OcclusionTexture.TextureInfo, "materials", i, "occlusionTexture"); err != nil {
				return err
			}
		}
		if err := validateTextureInfo(m.EmissiveTexture, "materials", i, "emissiveTexture"); err != nil {
			return err
		}
	}
	return nil
}

func validateMeshes(doc *Document) error {
	for i, m := range doc.Meshes {
		if len(m.Primitives) == 0 {
			return newError(ErrSchemaViolation, "meshes", i, "primitives", "must not be empty")
		}
		targets := -1
		for j, p := range m.Primitives {
			if len(p.Attributes) == 0 {
				return newError(ErrSchemaViolation, "meshes", i, "primitives", "primitive %d has no attributes", j)
			}
			if p.Mode != nil && (*p.Mode < ModePoints || *p.Mode > ModeTriangleFan) {
				return newError(ErrSchemaViolation, "meshes", i, "primitives", "primitive %d has invalid mode %d", j, *p.Mode)
			}
			// all primitives of a mesh must agree on the morph target count
			if targets >= 0 && len(p.Targets) != targets {
				return newError(ErrSchemaViolation, "meshes", i, "primitives", "primitive %d has %d morph targets, expected %d", j, len(p.Targets), targets)
			}
			targets = len(p.Targets)
		}
		if len(m.Weights) > 0 && targets > 0 && len(m.Weights) != targets {
			return newError(ErrSchemaViolation, "meshes", i, "weights", "%d weights for %d morph targets", len(m.Weights), targets)
		}
	}
	return nil
}

func validateNodes(doc *Document) error {
	for i, n := range doc.Nodes {
		hasTRS := n.Translation != nil || n.Rotation != nil || n.Scale != nil
		if n.Matrix != nil && hasTRS {
			return newError(ErrSchemaViolation, "nodes", i, "matrix", "matrix and TRS transforms are mutually exclusive")
		}
		if n.Matrix != nil && len(n.Matrix) != 16 {
			return newError(ErrSchemaViolation, "nodes", i, "matrix", "needs 16 elements, got %d", len(n.Matrix))
		}
		if n.Translation != nil && len(n.Translation) != 3 {
			return newError(ErrSchemaViolation, "nodes", i, "translation", "needs 3 elements, got %d", len(n.Translation))
		}
		if n.Rotation != nil && len(n.Rotation) != 4 {
			return newError(ErrSchemaViolation, "nodes", i, "rotation", "needs 4 elements, got %d", len(n.Rotation))
		}
		if n.Scale != nil && len(n.Scale) != 3 {
			return newError(ErrSchemaViolation, "nodes", i, "scale", "needs 3 elements, got %d", len(n.Scale))
		}
	}
	return nil
}

func validateSkins(doc *Document) error {
	for i, s := range doc.Skins {
		if len(s.Joints) == 0 {
			return newError(ErrSchemaViolation, "skins", i, "joints", "must not be empty")
		}
	}
	return nil
}

func validateAnimations(doc *Document) error {
	for i, a := range doc.Animations {
		if len(a.Channels) == 0 {
			return newError(ErrSchemaViolation, "animations", i, "channels", "must not be empty")
		}
		if len(a.Samplers) == 0 {
			return newError(ErrSchemaViolation, "animations", i, "samplers", "must not be empty")
		}
		for j, c := range a.Channels {
			if c.Sampler == nil {
				return newError(ErrSchemaViolation, "animations", i, "channels", "channel %d is missing its sampler", j)
			}
			switch c.Target.Path {
			case PathTranslation, PathRotation, PathScale, PathWeights:
			default:
				return newError(ErrSchemaViolation, "animations", i, "channels", "channel %d targets unknown path %q", j, c.Target.Path)
			}
		}
		for j, s := range a.Samplers {
			if s.Input == nil {
				return newError(ErrSchemaViolation, "animations", i, "samplers", "sampler %d is missing input", j)
			}
			if s.Output == nil {
				return newError(ErrSchemaViolation, "animations", i, "samplers", "sampler %d is missing output", j)
			}
			switch s.Interpolation {
			case "", InterpolationLinear, InterpolationStep, InterpolationCubicSpline:
			default:
				return newError(ErrSchemaViolation, "animations", i, "samplers", "sampler %d has unknown interpolation %q", j, s.Interpolation)
			}
		}
	}
	return nil
}

func validateCameras(doc *Document) error {
	for i, c := range doc.Cameras {
		switch c.Type {
		case CameraPerspective:
			if c.Perspective == nil {
				return newError(ErrSchemaViolation, "cameras", i, "perspective", "missing required field")
			}
		case CameraOrthographic:
			if c.Orthographic == nil {
				return newError(ErrSchemaViolation, "cameras", i, "orthographic", "missing required field")
			}
		default:
			return newError(ErrSchemaViolation, "cameras", i, "type", "missing or invalid: %q", c.Type)
		}
	}
	return nil
}
