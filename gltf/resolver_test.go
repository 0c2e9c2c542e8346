package gltf

import (
	"errors"
	"testing"
)

func TestResolveParentsAndRoots(t *testing.T) {
	doc := &Document{
		Nodes: []*Node{
			{Children: []int{1, 2}},
			{Children: []int{3}},
			{},
			{},
			{},
		},
	}
	res, err := Resolve(doc)
	if err != nil {
		t.Fatal(err)
	}
	wantParents := []int{-1, 0, 0, 1, -1}
	for i, w := range wantParents {
		if res.Parents[i] != w {
			t.Errorf("parent of %d = %d, want %d", i, res.Parents[i], w)
		}
	}
	wantRoots := []int{0, 4}
	if len(res.Roots) != len(wantRoots) {
		t.Fatalf("roots = %v", res.Roots)
	}
	for i, w := range wantRoots {
		if res.Roots[i] != w {
			t.Errorf("root %d = %d, want %d", i, res.Roots[i], w)
		}
	}
	anc := res.Ancestors(3)
	if len(anc) != 2 || anc[0] != 1 || anc[1] != 0 {
		t.Errorf("ancestors of 3 = %v", anc)
	}
}

func TestResolveSelfChild(t *testing.T) {
	doc := &Document{Nodes: []*Node{{Children: []int{0}}}}
	if _, err := Resolve(doc); !errors.Is(err, ErrCyclicHierarchy) {
		t.Errorf("err = %v, want ErrCyclicHierarchy", err)
	}
}

// A looped hierarchy must be rejected, not walked forever.
func TestResolveCycle(t *testing.T) {
	doc := &Document{
		Nodes: []*Node{
			{Children: []int{1}},
			{Children: []int{2}},
			{Children: []int{0}},
		},
	}
	if _, err := Resolve(doc); !errors.Is(err, ErrCyclicHierarchy) {
		t.Errorf("err = %v, want ErrCyclicHierarchy", err)
	}
}

func TestResolveMultipleParents(t *testing.T) {
	doc := &Document{
		Nodes: []*Node{
			{Children: []int{2}},
			{Children: []int{2}},
			{},
		},
	}
	if _, err := Resolve(doc); !errors.Is(err, ErrSchemaViolation) {
		t.Errorf("err = %v, want ErrSchemaViolation", err)
	}
}

func TestResolveDanglingIndex(t *testing.T) {
	doc := &Document{Nodes: []*Node{{Mesh: Index(5)}}}
	_, err := Resolve(doc)
	if !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("err = %v, want ErrSchemaViolation", err)
	}
	e, _ := AsError(err)
	if e.Entity != "nodes" || e.Field != "mesh" {
		t.Errorf("location = %s.%s", e.Entity, e.Field)
	}
}

func skinDoc(ibmType string, ibmComponent, ibmCount int) *Document {
	return &Document{
		Accessors: []*Accessor{{ComponentType: ibmComponent, Count: ibmCount, Type: ibmType}},
		Nodes:     []*Node{{Skin: Index(0)}, {}, {}},
		Skins: []*Skin{{
			Joints:              []int{1, 2},
			InverseBindMatrices: Index(0),
		}},
	}
}

func TestResolveSkinMatrixCountMismatch(t *testing.T) {
	doc := skinDoc(TypeMat4, ComponentFloat, 3) // 3 matrices, 2 joints
	if _, err := Resolve(doc); !errors.Is(err, ErrSkinMismatch) {
		t.Errorf("err = %v, want ErrSkinMismatch", err)
	}
}

func TestResolveSkinMatrixTypeMismatch(t *testing.T) {
	doc := skinDoc(TypeVec4, ComponentFloat, 2)
	if _, err := Resolve(doc); !errors.Is(err, ErrSkinMismatch) {
		t.Errorf("err = %v, want ErrSkinMismatch", err)
	}
}

func TestResolveSkinOK(t *testing.T) {
	doc := skinDoc(TypeMat4, ComponentFloat, 2)
	if _, err := Resolve(doc); err != nil {
		t.Fatal(err)
	}
}

func weightsAnimationDoc(mesh *Mesh) *Document {
	doc := &Document{
		Accessors: []*Accessor{
			{ComponentType: ComponentFloat, Count: 1, Type: TypeScalar},
			{ComponentType: ComponentFloat, Count: 3, Type: TypeVec3},
		},
		Nodes: []*Node{{}},
		Animations: []*Animation{{
			Channels: []*Channel{{
				Sampler: Index(0),
				Target:  ChannelTarget{Node: Index(0), Path: PathWeights},
			}},
			Samplers: []*AnimationSampler{{Input: Index(0), Output: Index(0)}},
		}},
	}
	if mesh != nil {
		doc.Meshes = []*Mesh{mesh}
		doc.Nodes[0].Mesh = Index(0)
	}
	return doc
}

func TestResolveWeightsChannelWithoutMesh(t *testing.T) {
	doc := weightsAnimationDoc(nil)
	if _, err := Resolve(doc); !errors.Is(err, ErrInvalidAnimationTarget) {
		t.Errorf("err = %v, want ErrInvalidAnimationTarget", err)
	}
}

func TestResolveWeightsChannelWithoutMorphTargets(t *testing.T) {
	doc := weightsAnimationDoc(&Mesh{Primitives: []*Primitive{{Attributes: map[string]int{AttrPosition: 1}}}})
	if _, err := Resolve(doc); !errors.Is(err, ErrInvalidAnimationTarget) {
		t.Errorf("err = %v, want ErrInvalidAnimationTarget", err)
	}
}

func attributeDoc(attrs map[string]int, accessors ...*Accessor) *Document {
	return &Document{
		Accessors: accessors,
		Meshes:    []*Mesh{{Primitives: []*Primitive{{Attributes: attrs}}}},
	}
}

func TestResolveAttributeShapes(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
		ok   bool
	}{
		{"position vec2", attributeDoc(
			map[string]int{AttrPosition: 0},
			&Accessor{ComponentType: ComponentFloat, Count: 3, Type: TypeVec2},
		), false},
		{"position short", attributeDoc(
			map[string]int{AttrPosition: 0},
			&Accessor{ComponentType: ComponentShort, Count: 3, Type: TypeVec3},
		), false},
		{"joints scalar", attributeDoc(
			map[string]int{AttrPosition: 0, "JOINTS_0": 1},
			&Accessor{ComponentType: ComponentFloat, Count: 3, Type: TypeVec3},
			&Accessor{ComponentType: ComponentUnsignedByte, Count: 3, Type: TypeScalar},
		), false},
		{"joints float", attributeDoc(
			map[string]int{AttrPosition: 0, "JOINTS_0": 1},
			&Accessor{ComponentType: ComponentFloat, Count: 3, Type: TypeVec3},
			&Accessor{ComponentType: ComponentFloat, Count: 3, Type: TypeVec4},
		), false},
		{"weights vec2", attributeDoc(
			map[string]int{AttrPosition: 0, "WEIGHTS_0": 1},
			&Accessor{ComponentType: ComponentFloat, Count: 3, Type: TypeVec3},
			&Accessor{ComponentType: ComponentFloat, Count: 3, Type: TypeVec2},
		), false},
		{"texcoord vec3", attributeDoc(
			map[string]int{AttrPosition: 0, "TEXCOORD_0": 1},
			&Accessor{ComponentType: ComponentFloat, Count: 3, Type: TypeVec3},
			&Accessor{ComponentType: ComponentFloat, Count: 3, Type: TypeVec3},
		), false},
		{"tangent vec3", attributeDoc(
			map[string]int{AttrPosition: 0, AttrTangent: 1},
			&Accessor{ComponentType: ComponentFloat, Count: 3, Type: TypeVec3},
			&Accessor{ComponentType: ComponentFloat, Count: 3, Type: TypeVec3},
		), false},
		{"skinned triangle", attributeDoc(
			map[string]int{AttrPosition: 0, "JOINTS_0": 1, "WEIGHTS_0": 2, "TEXCOORD_0": 3},
			&Accessor{ComponentType: ComponentFloat, Count: 3, Type: TypeVec3},
			&Accessor{ComponentType: ComponentUnsignedShort, Count: 3, Type: TypeVec4},
			&Accessor{ComponentType: ComponentFloat, Count: 3, Type: TypeVec4},
			&Accessor{ComponentType: ComponentFloat, Count: 3, Type: TypeVec2},
		), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.doc)
			if tt.ok && err != nil {
				t.Fatal(err)
			}
			if !tt.ok && !errors.Is(err, ErrSchemaViolation) {
				t.Errorf("err = %v, want ErrSchemaViolation", err)
			}
		})
	}
}

func TestResolveIndicesShape(t *testing.T) {
	doc := attributeDoc(
		map[string]int{AttrPosition: 0},
		&Accessor{ComponentType: ComponentFloat, Count: 3, Type: TypeVec3},
		&Accessor{ComponentType: ComponentFloat, Count: 3, Type: TypeScalar},
	)
	doc.Meshes[0].Primitives[0].Indices = Index(1)
	if _, err := Resolve(doc); !errors.Is(err, ErrSchemaViolation) {
		t.Errorf("err = %v, want ErrSchemaViolation", err)
	}
}

func TestResolveMorphTargetShape(t *testing.T) {
	doc := attributeDoc(
		map[string]int{AttrPosition: 0},
		&Accessor{ComponentType: ComponentFloat, Count: 3, Type: TypeVec3},
		&Accessor{ComponentType: ComponentFloat, Count: 3, Type: TypeVec2},
	)
	doc.Meshes[0].Primitives[0].Targets = []map[string]int{{AttrPosition: 1}}
	if _, err := Resolve(doc); !errors.Is(err, ErrSchemaViolation) {
		t.Errorf("err = %v, want ErrSchemaViolation", err)
	}
}

func animationSamplerDoc(input, output *Accessor, path string) *Document {
	return &Document{
		Accessors: []*Accessor{input, output},
		Nodes:     []*Node{{}},
		Animations: []*Animation{{
			Channels: []*Channel{{
				Sampler: Index(0),
				Target:  ChannelTarget{Node: Index(0), Path: path},
			}},
			Samplers: []*AnimationSampler{{Input: Index(0), Output: Index(1)}},
		}},
	}
}

func TestResolveAnimationSamplerShapes(t *testing.T) {
	times := &Accessor{ComponentType: ComponentFloat, Count: 2, Type: TypeScalar}

	doc := animationSamplerDoc(times, &Accessor{ComponentType: ComponentFloat, Count: 2, Type: TypeVec3}, PathRotation)
	if _, err := Resolve(doc); !errors.Is(err, ErrSchemaViolation) {
		t.Errorf("vec3 rotation output: err = %v, want ErrSchemaViolation", err)
	}

	doc = animationSamplerDoc(times, &Accessor{ComponentType: ComponentFloat, Count: 2, Type: TypeVec4}, PathTranslation)
	if _, err := Resolve(doc); !errors.Is(err, ErrSchemaViolation) {
		t.Errorf("vec4 translation output: err = %v, want ErrSchemaViolation", err)
	}

	doc = animationSamplerDoc(
		&Accessor{ComponentType: ComponentUnsignedShort, Count: 2, Type: TypeScalar},
		&Accessor{ComponentType: ComponentFloat, Count: 2, Type: TypeVec3}, PathTranslation)
	if _, err := Resolve(doc); !errors.Is(err, ErrSchemaViolation) {
		t.Errorf("integer times: err = %v, want ErrSchemaViolation", err)
	}

	doc = animationSamplerDoc(times, &Accessor{ComponentType: ComponentFloat, Count: 2, Type: TypeVec3}, PathTranslation)
	if _, err := Resolve(doc); err != nil {
		t.Fatal(err)
	}
}

func TestResolveWeightsChannelWithMorphTargets(t *testing.T) {
	doc := weightsAnimationDoc(&Mesh{Primitives: []*Primitive{{
		Attributes: map[string]int{AttrPosition: 1},
		Targets:    []map[string]int{{AttrPosition: 1}},
	}}})
	if _, err := Resolve(doc); err != nil {
		t.Fatal(err)
	}
}
