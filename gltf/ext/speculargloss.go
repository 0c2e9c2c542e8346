package ext

import (
	"encoding/json"

	"github.com/ksons/gltf-blender-importer/gltf"
)

// https://github.com/KhronosGroup/glTF/tree/main/extensions/2.0/Archived/KHR_materials_pbrSpecularGlossiness

const SpecularGlossinessName = "KHR_materials_pbrSpecularGlossiness"

func init() {
	gltf.RegisterExtension(SpecularGlossinessName, UnmarshalSpecularGlossiness)
}

// SpecularGlossiness is the material-level payload replacing the
// metallic-roughness parameters.
type SpecularGlossiness struct {
	DiffuseFactor             *[4]float32       `json:"diffuseFactor,omitempty"`
	DiffuseTexture            *gltf.TextureInfo `json:"diffuseTexture,omitempty"`
	SpecularFactor            *[3]float32       `json:"specularFactor,omitempty"`
	GlossinessFactor          *float32          `json:"glossinessFactor,omitempty"`
	SpecularGlossinessTexture *gltf.TextureInfo `json:"specularGlossinessTexture,omitempty"`
}

func (s *SpecularGlossiness) DiffuseFactorOrDefault() [4]float32 {
	if s.DiffuseFactor == nil {
		return [4]float32{1, 1, 1, 1}
	}
	return *s.DiffuseFactor
}

func (s *SpecularGlossiness) SpecularFactorOrDefault() [3]float32 {
	if s.SpecularFactor == nil {
		return [3]float32{1, 1, 1}
	}
	return *s.SpecularFactor
}

func (s *SpecularGlossiness) GlossinessFactorOrDefault() float32 {
	if s.GlossinessFactor == nil {
		return 1
	}
	return *s.GlossinessFactor
}

func (s *SpecularGlossiness) Validate(doc *gltf.Document) error {
	for _, ti := range []*gltf.TextureInfo{s.DiffuseTexture, s.SpecularGlossinessTexture} {
		if ti == nil || ti.Index == nil {
			continue
		}
		if *ti.Index < 0 || *ti.Index >= len(doc.Textures) {
			return &gltf.Error{Kind: gltf.ErrSchemaViolation, Entity: "materials", Index: -1, Field: "extensions." + SpecularGlossinessName, Detail: "texture index out of range"}
		}
	}
	return nil
}

func UnmarshalSpecularGlossiness(data []byte) (interface{}, error) {
	var sg SpecularGlossiness
	if err := json.Unmarshal(data, &sg); err != nil {
		return nil, err
	}
	return &sg, nil
}
