package importer

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ksons/gltf-blender-importer/geom"
	"github.com/ksons/gltf-blender-importer/gltf"
)

func (b *builder) mesh(index int) (Handle, error) {
	if h, ok := b.meshes[index]; ok {
		return h, nil
	}
	m := b.doc.Meshes[index]
	spec := &MeshSpec{Name: m.Name, Weights: m.Weights}
	for _, p := range m.Primitives {
		ps, err := b.primitive(p)
		if err != nil {
			return nil, err
		}
		spec.Primitives = append(spec.Primitives, ps)
	}
	h, err := b.w.CreateMesh(spec)
	if err != nil {
		return nil, err
	}
	b.meshes[index] = h
	return h, nil
}

func (b *builder) primitive(p *gltf.Primitive) (*PrimitiveSpec, error) {
	spec := &PrimitiveSpec{Mode: p.ModeOrDefault()}

	var err error
	if p.Material != nil {
		spec.Material, err = b.material(*p.Material)
	} else {
		spec.Material, err = b.material(-1)
	}
	if err != nil {
		return nil, err
	}

	texCoords := map[int][]*geom.Vector2{}
	for name, accIdx := range p.Attributes {
		data, err := b.acc.Get(accIdx)
		if err != nil {
			return nil, err
		}
		switch {
		case name == gltf.AttrPosition:
			spec.Positions = b.positions(data)
		case name == gltf.AttrNormal:
			spec.Normals = b.directions(data)
		case name == gltf.AttrTangent:
			spec.Tangents = b.tangents(data)
		case strings.HasPrefix(name, "TEXCOORD_"):
			set, err := attrSet(name, "TEXCOORD_")
			if err != nil {
				return nil, err
			}
			texCoords[set] = uvs(data)
		case strings.HasPrefix(name, "COLOR_"):
			spec.Colors = colors(data)
		case strings.HasPrefix(name, "JOINTS_"):
			spec.Joints = joints(data)
		case strings.HasPrefix(name, "WEIGHTS_"):
			spec.Weights = weights(data)
		default:
			b.log.Debug("ignoring unknown attribute", zap.String("attribute", name))
		}
	}
	spec.TexCoords = orderedTexCoords(texCoords)

	if p.Indices != nil {
		data, err := b.acc.Get(*p.Indices)
		if err != nil {
			return nil, err
		}
		spec.Indices = make([]uint32, data.Count)
		for i := range spec.Indices {
			spec.Indices[i] = data.UInt(i, 0)
		}
	}

	for _, target := range p.Targets {
		ts := &MorphTargetSpec{}
		if accIdx, ok := target[gltf.AttrPosition]; ok {
			data, err := b.acc.Get(accIdx)
			if err != nil {
				return nil, err
			}
			ts.Positions = b.positions(data)
		}
		if accIdx, ok := target[gltf.AttrNormal]; ok {
			data, err := b.acc.Get(accIdx)
			if err != nil {
				return nil, err
			}
			ts.Normals = b.directions(data)
		}
		spec.Targets = append(spec.Targets, ts)
	}
	return spec, nil
}

func (b *builder) positions(data *gltf.AccessorData) []*geom.Vector3 {
	out := make([]*geom.Vector3, data.Count)
	for i := range out {
		out[i] = b.conv.translation(data.Vector3(i))
	}
	return out
}

func (b *builder) directions(data *gltf.AccessorData) []*geom.Vector3 {
	out := make([]*geom.Vector3, data.Count)
	for i := range out {
		out[i] = b.conv.direction(data.Vector3(i))
	}
	return out
}

// tangents convert like directions; the fourth component carries the
// bitangent sign and stays as-is.
func (b *builder) tangents(data *gltf.AccessorData) []*geom.Vector4 {
	out := make([]*geom.Vector4, data.Count)
	for i := range out {
		t := b.conv.direction(geom.NewVector3(data.Float(i, 0), data.Float(i, 1), data.Float(i, 2)))
		out[i] = geom.NewVector4(t.X, t.Y, t.Z, data.Float(i, 3))
	}
	return out
}

// uvs flips V; the texture origin moves from the top-left corner to the
// bottom-left one.
func uvs(data *gltf.AccessorData) []*geom.Vector2 {
	out := make([]*geom.Vector2, data.Count)
	for i := range out {
		out[i] = geom.NewVector2(data.Float(i, 0), 1-data.Float(i, 1))
	}
	return out
}

// colors accepts VEC3 and VEC4 accessors; missing alpha reads as opaque.
func colors(data *gltf.AccessorData) [][4]float32 {
	out := make([][4]float32, data.Count)
	for i := range out {
		c := [4]float32{0, 0, 0, 1}
		for j := 0; j < data.Components && j < 4; j++ {
			c[j] = data.Float(i, j)
		}
		out[i] = c
	}
	return out
}

func joints(data *gltf.AccessorData) [][4]uint32 {
	out := make([][4]uint32, data.Count)
	for i := range out {
		for j := 0; j < 4; j++ {
			out[i][j] = data.UInt(i, j)
		}
	}
	return out
}

func weights(data *gltf.AccessorData) [][4]float32 {
	out := make([][4]float32, data.Count)
	for i := range out {
		for j := 0; j < 4; j++ {
			out[i][j] = data.Float(i, j)
		}
	}
	return out
}

func attrSet(name, prefix string) (int, error) {
	set, err := strconv.Atoi(strings.TrimPrefix(name, prefix))
	if err != nil || set < 0 {
		return 0, &gltf.Error{Kind: gltf.ErrSchemaViolation, Entity: "meshes", Index: -1, Field: "primitives.attributes", Detail: "bad attribute name " + name}
	}
	return set, nil
}

func orderedTexCoords(sets map[int][]*geom.Vector2) [][]*geom.Vector2 {
	if len(sets) == 0 {
		return nil
	}
	keys := make([]int, 0, len(sets))
	for k := range sets {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([][]*geom.Vector2, 0, len(keys))
	for _, k := range keys {
		out = append(out, sets[k])
	}
	return out
}
