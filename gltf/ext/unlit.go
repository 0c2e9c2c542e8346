package ext

import "github.com/ksons/gltf-blender-importer/gltf"

// https://github.com/KhronosGroup/glTF/tree/main/extensions/2.0/Khronos/KHR_materials_unlit

const UnlitName = "KHR_materials_unlit"

func init() {
	gltf.RegisterExtension(UnlitName, UnmarshalUnlit)
}

// Unlit marks a material as shadeless. The payload carries no parameters.
type Unlit struct{}

func UnmarshalUnlit(data []byte) (interface{}, error) {
	return &Unlit{}, nil
}
