package gltf

import (
	"strconv"
	"strings"
)

// Resolution holds the cross-reference tables computed from a validated
// document: per-node parents and the scene roots. World transforms are not
// computed here; consumers walk Parents (or traverse from the roots) to
// accumulate them.
type Resolution struct {
	doc *Document

	// Parents[i] is the parent node of node i, or -1 for roots.
	Parents []int
	// Roots lists the nodes with no parent, in index order.
	Roots []int
}

// Ancestors returns the chain of ancestors of node, nearest first.
func (r *Resolution) Ancestors(node int) []int {
	var chain []int
	for p := r.Parents[node]; p >= 0; p = r.Parents[p] {
		chain = append(chain, p)
	}
	return chain
}

// Resolve verifies every index reference in the document, checks the node
// forest for cycles and the skin/animation cross-entity invariants, and
// runs extension validators. The document is not modified.
func Resolve(doc *Document) (*Resolution, error) {
	if err := resolveIndices(doc); err != nil {
		return nil, err
	}
	res := &Resolution{doc: doc}
	if err := res.buildNodeForest(); err != nil {
		return nil, err
	}
	if err := checkMeshAccessors(doc); err != nil {
		return nil, err
	}
	if err := checkSkins(doc); err != nil {
		return nil, err
	}
	if err := checkAnimationTargets(doc); err != nil {
		return nil, err
	}
	if err := checkAnimationSamplers(doc); err != nil {
		return nil, err
	}
	if err := validateExtensions(doc); err != nil {
		return nil, err
	}
	return res, nil
}

// checkIndex verifies one cross-reference against the target array length.
func checkIndex(entity string, index int, field string, ref *int, n int) error {
	if ref == nil {
		return nil
	}
	if *ref < 0 || *ref >= n {
		return newError(ErrSchemaViolation, entity, index, field, "index %d out of range [0, %d)", *ref, n)
	}
	return nil
}

func resolveIndices(doc *Document) error {
	if err := checkIndex("", -1, "scene", doc.Scene, len(doc.Scenes)); err != nil {
		return err
	}
	for i, s := range doc.Scenes {
		for _, n := range s.Nodes {
			if err := checkIndex("scenes", i, "nodes", &n, len(doc.Nodes)); err != nil {
				return err
			}
		}
	}
	for i, bv := range doc.BufferViews {
		if err := checkIndex("bufferViews", i, "buffer", bv.Buffer, len(doc.Buffers)); err != nil {
			return err
		}
	}
	for i, a := range doc.Accessors {
		if err := checkIndex("accessors", i, "bufferView", a.BufferView, len(doc.BufferViews)); err != nil {
			return err
		}
		if s := a.Sparse; s != nil {
			if err := checkIndex("accessors", i, "sparse.indices.bufferView", s.Indices.BufferView, len(doc.BufferViews)); err != nil {
				return err
			}
			if err := checkIndex("accessors", i, "sparse.values.bufferView", s.Values.BufferView, len(doc.BufferViews)); err != nil {
				return err
			}
		}
	}
	for i, img := range doc.Images {
		if err := checkIndex("images", i, "bufferView", img.BufferView, len(doc.BufferViews)); err != nil {
			return err
		}
	}
	for i, t := range doc.Textures {
		if err := checkIndex("textures", i, "source", t.Source, len(doc.Images)); err != nil {
			return err
		}
		if err := checkIndex("textures", i, "sampler", t.Sampler, len(doc.Samplers)); err != nil {
			return err
		}
	}
	for i, m := range doc.Materials {
		for field, info := range materialTextureInfos(m) {
			if err := checkIndex("materials", i, field+".index", info.Index, len(doc.Textures)); err != nil {
				return err
			}
		}
	}
	for i, m := range doc.Meshes {
		for j, p := range m.Primitives {
			for name, acc := range p.Attributes {
				a := acc
				if err := checkIndex("meshes", i, "primitives["+strconv.Itoa(j)+"].attributes."+name, &a, len(doc.Accessors)); err != nil {
					return err
				}
			}
			if err := checkIndex("meshes", i, "primitives["+strconv.Itoa(j)+"].indices", p.Indices, len(doc.Accessors)); err != nil {
				return err
			}
			if err := checkIndex("meshes", i, "primitives["+strconv.Itoa(j)+"].material", p.Material, len(doc.Materials)); err != nil {
				return err
			}
			for k, target := range p.Targets {
				for name, acc := range target {
					a := acc
					if err := checkIndex("meshes", i, "primitives["+strconv.Itoa(j)+"].targets["+strconv.Itoa(k)+"]."+name, &a, len(doc.Accessors)); err != nil {
						return err
					}
				}
			}
		}
	}
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			child := c
			if err := checkIndex("nodes", i, "children", &child, len(doc.Nodes)); err != nil {
				return err
			}
		}
		if err := checkIndex("nodes", i, "mesh", n.Mesh, len(doc.Meshes)); err != nil {
			return err
		}
		if err := checkIndex("nodes", i, "skin", n.Skin, len(doc.Skins)); err != nil {
			return err
		}
		if err := checkIndex("nodes", i, "camera", n.Camera, len(doc.Cameras)); err != nil {
			return err
		}
	}
	for i, s := range doc.Skins {
		for _, j := range s.Joints {
			joint := j
			if err := checkIndex("skins", i, "joints", &joint, len(doc.Nodes)); err != nil {
				return err
			}
		}
		if err := checkIndex("skins", i, "skeleton", s.Skeleton, len(doc.Nodes)); err != nil {
			return err
		}
		if err := checkIndex("skins", i, "inverseBindMatrices", s.InverseBindMatrices, len(doc.Accessors)); err != nil {
			return err
		}
	}
	for i, a := range doc.Animations {
		for j, c := range a.Channels {
			if err := checkIndex("animations", i, "channels["+strconv.Itoa(j)+"].sampler", c.Sampler, len(a.Samplers)); err != nil {
				return err
			}
			if err := checkIndex("animations", i, "channels["+strconv.Itoa(j)+"].target.node", c.Target.Node, len(doc.Nodes)); err != nil {
				return err
			}
		}
		for j, s := range a.Samplers {
			if err := checkIndex("animations", i, "samplers["+strconv.Itoa(j)+"].input", s.Input, len(doc.Accessors)); err != nil {
				return err
			}
			if err := checkIndex("animations", i, "samplers["+strconv.Itoa(j)+"].output", s.Output, len(doc.Accessors)); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildNodeForest fills the parent table and rejects nodes with multiple
// parents and parent-child cycles. The walk is iterative; a hostile
// document cannot overflow the stack.
func (r *Resolution) buildNodeForest() error {
	doc := r.doc
	r.Parents = make([]int, len(doc.Nodes))
	for i := range r.Parents {
		r.Parents[i] = -1
	}
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			if c == i {
				return newError(ErrCyclicHierarchy, "nodes", i, "children", "node is its own child")
			}
			if p := r.Parents[c]; p >= 0 {
				return newError(ErrSchemaViolation, "nodes", c, "", "node has multiple parents (%d and %d)", p, i)
			}
			r.Parents[c] = i
		}
	}
	for i, p := range r.Parents {
		if p < 0 {
			r.Roots = append(r.Roots, i)
		}
	}

	const (
		white = iota // unvisited
		gray         // on the current path
		black        // finished
	)
	color := make([]int, len(doc.Nodes))
	type frame struct {
		node, child int
	}
	for start := range doc.Nodes {
		if color[start] != white {
			continue
		}
		stack := []frame{{start, 0}}
		color[start] = gray
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			children := doc.Nodes[f.node].Children
			if f.child >= len(children) {
				color[f.node] = black
				stack = stack[:len(stack)-1]
				continue
			}
			c := children[f.child]
			f.child++
			switch color[c] {
			case gray:
				return newError(ErrCyclicHierarchy, "nodes", c, "", "hierarchy loops back through node %d", f.node)
			case white:
				color[c] = gray
				stack = append(stack, frame{c, 0})
			}
		}
	}
	return nil
}

// checkMeshAccessors verifies that every primitive attribute, indices and
// morph-target accessor declares the element shape its slot calls for.
// Consumers read components by attribute arity and depend on these checks.
func checkMeshAccessors(doc *Document) error {
	for i, m := range doc.Meshes {
		for j, p := range m.Primitives {
			prefix := "primitives[" + strconv.Itoa(j) + "]"
			for name, acc := range p.Attributes {
				if err := checkAttributeShape(doc, i, prefix+".attributes."+name, name, acc, false); err != nil {
					return err
				}
			}
			if p.Indices != nil {
				a := doc.Accessors[*p.Indices]
				if a.Type != TypeScalar || !unsignedComponent(a.ComponentType) || a.Normalized {
					return newError(ErrSchemaViolation, "meshes", i, prefix+".indices", "indices need an unsigned SCALAR accessor, got %s of componentType %d", a.Type, a.ComponentType)
				}
			}
			for k, target := range p.Targets {
				for name, acc := range target {
					if err := checkAttributeShape(doc, i, prefix+".targets["+strconv.Itoa(k)+"]."+name, name, acc, true); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func checkAttributeShape(doc *Document, mesh int, field, name string, acc int, morph bool) error {
	a := doc.Accessors[acc]
	bad := func(want string) error {
		return newError(ErrSchemaViolation, "meshes", mesh, field, "%s needs a %s accessor, got %s of componentType %d", name, want, a.Type, a.ComponentType)
	}
	switch {
	case name == AttrPosition, name == AttrNormal:
		if a.Type != TypeVec3 || a.ComponentType != ComponentFloat {
			return bad("float VEC3")
		}
	case name == AttrTangent:
		// morph targets carry tangent deltas without the sign component
		want := TypeVec4
		if morph {
			want = TypeVec3
		}
		if a.Type != want || a.ComponentType != ComponentFloat {
			return bad("float " + want)
		}
	case strings.HasPrefix(name, "TEXCOORD_"):
		if a.Type != TypeVec2 {
			return bad(TypeVec2)
		}
	case strings.HasPrefix(name, "COLOR_"):
		if a.Type != TypeVec3 && a.Type != TypeVec4 {
			return bad("VEC3 or VEC4")
		}
	case strings.HasPrefix(name, "JOINTS_"):
		if a.Type != TypeVec4 || !unsignedComponent(a.ComponentType) || a.Normalized {
			return bad("unsigned integer VEC4")
		}
	case strings.HasPrefix(name, "WEIGHTS_"):
		if a.Type != TypeVec4 {
			return bad(TypeVec4)
		}
	}
	return nil
}

func unsignedComponent(componentType int) bool {
	switch componentType {
	case ComponentUnsignedByte, ComponentUnsignedShort, ComponentUnsignedInt:
		return true
	}
	return false
}

func checkSkins(doc *Document) error {
	for i, s := range doc.Skins {
		if s.InverseBindMatrices == nil {
			continue
		}
		acc := doc.Accessors[*s.InverseBindMatrices]
		if acc.Type != TypeMat4 || acc.ComponentType != ComponentFloat {
			return newError(ErrSkinMismatch, "skins", i, "inverseBindMatrices", "accessor must hold float MAT4 elements")
		}
		if acc.Count != len(s.Joints) {
			return newError(ErrSkinMismatch, "skins", i, "inverseBindMatrices", "%d matrices for %d joints", acc.Count, len(s.Joints))
		}
	}
	return nil
}

func checkAnimationTargets(doc *Document) error {
	for i, a := range doc.Animations {
		for j, c := range a.Channels {
			if c.Target.Node == nil {
				// a channel without a target node is legal; extensions may
				// route it elsewhere
				continue
			}
			node := doc.Nodes[*c.Target.Node]
			if c.Target.Path != PathWeights {
				continue
			}
			if node.Mesh == nil {
				return newError(ErrInvalidAnimationTarget, "animations", i, "channels["+strconv.Itoa(j)+"]", "weights channel targets node %d, which has no mesh", *c.Target.Node)
			}
			if !doc.Meshes[*node.Mesh].HasMorphTargets() {
				return newError(ErrInvalidAnimationTarget, "animations", i, "channels["+strconv.Itoa(j)+"]", "weights channel targets mesh %d, which has no morph targets", *node.Mesh)
			}
		}
	}
	return nil
}

// checkAnimationSamplers verifies keyframe accessor shapes: times are float
// scalars, output elements match the arity of the targeted path.
func checkAnimationSamplers(doc *Document) error {
	for i, a := range doc.Animations {
		for j, s := range a.Samplers {
			if s.Input == nil {
				continue
			}
			in := doc.Accessors[*s.Input]
			if in.Type != TypeScalar || in.ComponentType != ComponentFloat {
				return newError(ErrSchemaViolation, "animations", i, "samplers["+strconv.Itoa(j)+"].input", "keyframe times need a float SCALAR accessor, got %s of componentType %d", in.Type, in.ComponentType)
			}
		}
		for j, c := range a.Channels {
			if c.Sampler == nil || a.Samplers[*c.Sampler].Output == nil {
				continue
			}
			out := doc.Accessors[*a.Samplers[*c.Sampler].Output]
			var want string
			switch c.Target.Path {
			case PathTranslation, PathScale:
				want = TypeVec3
			case PathRotation:
				want = TypeVec4
			case PathWeights:
				want = TypeScalar
			}
			if want != "" && out.Type != want {
				return newError(ErrSchemaViolation, "animations", i, "channels["+strconv.Itoa(j)+"]", "%s output must be %s, got %s", c.Target.Path, want, out.Type)
			}
		}
	}
	return nil
}

// validateExtensions gives decoded extension payloads a chance to check
// their own cross-references.
func validateExtensions(doc *Document) error {
	validate := func(exts Extensions) error {
		for _, v := range exts {
			if val, ok := v.(Validator); ok {
				if err := val.Validate(doc); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := validate(doc.Extensions); err != nil {
		return err
	}
	for _, n := range doc.Nodes {
		if err := validate(n.Extensions); err != nil {
			return err
		}
	}
	for _, m := range doc.Materials {
		if err := validate(m.Extensions); err != nil {
			return err
		}
		for _, ti := range materialTextureInfos(m) {
			if err := validate(ti.Extensions); err != nil {
				return err
			}
		}
	}
	for _, t := range doc.Textures {
		if err := validate(t.Extensions); err != nil {
			return err
		}
	}
	return nil
}

// materialTextureInfos collects the texture bindings of a material keyed
// by their JSON field path.
func materialTextureInfos(m *Material) map[string]*TextureInfo {
	infos := map[string]*TextureInfo{}
	if m.EmissiveTexture != nil {
		infos["emissiveTexture"] = m.EmissiveTexture
	}
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorTexture != nil {
			infos["pbrMetallicRoughness.baseColorTexture"] = pbr.BaseColorTexture
		}
		if pbr.MetallicRoughnessTexture != nil {
			infos["pbrMetallicRoughness.metallicRoughnessTexture"] = pbr.MetallicRoughnessTexture
		}
	}
	if m.NormalTexture != nil {
		infos["normalTexture"] = &m.NormalTexture.TextureInfo
	}
	if m.OcclusionTexture != nil {
		infos["occlusionTexture"] = &m.OcclusionTexture.TextureInfo
	}
	return infos
}
