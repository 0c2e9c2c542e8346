package ext

import (
	"encoding/json"

	"github.com/ksons/gltf-blender-importer/gltf"
)

// MSFT_texture_dds and EXT_texture_webp both redirect a texture to an
// alternate image in another container format.
//
// https://github.com/KhronosGroup/glTF/tree/main/extensions/2.0/Vendor/MSFT_texture_dds
// https://github.com/KhronosGroup/glTF/tree/main/extensions/2.0/Vendor/EXT_texture_webp

const (
	TextureDDSName  = "MSFT_texture_dds"
	TextureWebPName = "EXT_texture_webp"
)

func init() {
	gltf.RegisterExtension(TextureDDSName, UnmarshalTextureSource)
	gltf.RegisterExtension(TextureWebPName, UnmarshalTextureSource)
}

// TextureSource points a texture at an alternate image.
type TextureSource struct {
	Source *int `json:"source"`
}

func (t *TextureSource) Validate(doc *gltf.Document) error {
	if t.Source == nil || *t.Source < 0 || *t.Source >= len(doc.Images) {
		return &gltf.Error{Kind: gltf.ErrSchemaViolation, Entity: "textures", Index: -1, Field: "extensions", Detail: "alternate image source out of range"}
	}
	return nil
}

func UnmarshalTextureSource(data []byte) (interface{}, error) {
	var ts TextureSource
	if err := json.Unmarshal(data, &ts); err != nil {
		return nil, err
	}
	return &ts, nil
}
