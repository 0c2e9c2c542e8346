// Package ext registers decoders for the optional glTF extensions the
// importer understands. Importing the package is enough; each extension
// installs itself in the registry from init.
package ext

import (
	"encoding/json"
	"math"

	"github.com/ksons/gltf-blender-importer/gltf"
)

// https://github.com/KhronosGroup/glTF/tree/main/extensions/2.0/Khronos/KHR_lights_punctual

const LightsPunctualName = "KHR_lights_punctual"

func init() {
	gltf.RegisterExtension(LightsPunctualName, UnmarshalLightsPunctual)
}

const (
	LightDirectional = "directional"
	LightPoint       = "point"
	LightSpot        = "spot"
)

type Light struct {
	Name      string      `json:"name,omitempty"`
	Color     *[3]float32 `json:"color,omitempty"`
	Intensity *float32    `json:"intensity,omitempty"`
	Type      string      `json:"type"`
	Range     *float32    `json:"range,omitempty"`
	Spot      *Spot       `json:"spot,omitempty"`
}

type Spot struct {
	InnerConeAngle float32  `json:"innerConeAngle,omitempty"`
	OuterConeAngle *float32 `json:"outerConeAngle,omitempty"`
}

func (l *Light) ColorOrDefault() [3]float32 {
	if l.Color == nil {
		return [3]float32{1, 1, 1}
	}
	return *l.Color
}

func (l *Light) IntensityOrDefault() float32 {
	if l.Intensity == nil {
		return 1
	}
	return *l.Intensity
}

func (s *Spot) OuterConeAngleOrDefault() float32 {
	if s.OuterConeAngle == nil {
		return math.Pi / 4
	}
	return *s.OuterConeAngle
}

// LightsPunctual is the document-level payload listing the lights.
type LightsPunctual struct {
	Lights []*Light `json:"lights"`
}

// NodeLight is the node-level payload pointing into the document list.
type NodeLight struct {
	Light *int `json:"light"`
}

func (n *NodeLight) Validate(doc *gltf.Document) error {
	lp, _ := DocumentLights(doc)
	if n.Light == nil || *n.Light < 0 || lp == nil || *n.Light >= len(lp.Lights) {
		return &gltf.Error{Kind: gltf.ErrSchemaViolation, Entity: "nodes", Index: -1, Field: "extensions." + LightsPunctualName + ".light", Detail: "light reference has no matching entry"}
	}
	return nil
}

// DocumentLights returns the document-level light list, if present.
func DocumentLights(doc *gltf.Document) (*LightsPunctual, bool) {
	lp, ok := doc.Extensions[LightsPunctualName].(*LightsPunctual)
	return lp, ok
}

// UnmarshalLightsPunctual decodes both placements of the extension. The
// document level carries "lights", nodes carry "light".
func UnmarshalLightsPunctual(data []byte) (interface{}, error) {
	var probe struct {
		Lights json.RawMessage `json:"lights"`
		Light  json.RawMessage `json:"light"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if probe.Light != nil {
		var n NodeLight
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &n, nil
	}
	var lp LightsPunctual
	if err := json.Unmarshal(data, &lp); err != nil {
		return nil, err
	}
	return &lp, nil
}
