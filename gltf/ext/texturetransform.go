package ext

import (
	"encoding/json"

	"github.com/ksons/gltf-blender-importer/gltf"
)

// https://github.com/KhronosGroup/glTF/tree/main/extensions/2.0/Khronos/KHR_texture_transform

const TextureTransformName = "KHR_texture_transform"

func init() {
	gltf.RegisterExtension(TextureTransformName, UnmarshalTextureTransform)
}

// TextureTransform scales, rotates and offsets a texture's UV coordinates.
// It sits on texture info objects.
type TextureTransform struct {
	Offset   *[2]float32 `json:"offset,omitempty"`
	Rotation float32     `json:"rotation,omitempty"`
	Scale    *[2]float32 `json:"scale,omitempty"`
	TexCoord *int        `json:"texCoord,omitempty"`
}

func (t *TextureTransform) OffsetOrDefault() [2]float32 {
	if t.Offset == nil {
		return [2]float32{0, 0}
	}
	return *t.Offset
}

func (t *TextureTransform) ScaleOrDefault() [2]float32 {
	if t.Scale == nil {
		return [2]float32{1, 1}
	}
	return *t.Scale
}

func UnmarshalTextureTransform(data []byte) (interface{}, error) {
	var tt TextureTransform
	if err := json.Unmarshal(data, &tt); err != nil {
		return nil, err
	}
	return &tt, nil
}
