package importer

import (
	"go.uber.org/zap"

	"github.com/ksons/gltf-blender-importer/geom"
	"github.com/ksons/gltf-blender-importer/gltf"
	"github.com/ksons/gltf-blender-importer/gltf/ext"
)

// conversion maps glTF's Y-up right-handed space into the host space and
// applies the global scale. Rotating every local transform by the same
// basis change keeps the hierarchy consistent as long as vertex data and
// animation values go through the same mapping.
type conversion struct {
	scale float32
	zup   bool
}

func newConversion(opt *Options) *conversion {
	return &conversion{scale: opt.GlobalScale, zup: opt.Axis == AxisZUp}
}

func (c *conversion) translation(v *geom.Vector3) *geom.Vector3 {
	return c.direction(v).Scale(c.scale)
}

// direction converts a vector without applying the global scale.
func (c *conversion) direction(v *geom.Vector3) *geom.Vector3 {
	if !c.zup {
		return v.Clone()
	}
	return geom.NewVector3(v.X, -v.Z, v.Y)
}

func (c *conversion) rotation(q *geom.Quaternion) *geom.Quaternion {
	if !c.zup {
		return geom.NewQuaternion(q.X, q.Y, q.Z, q.W)
	}
	return geom.NewQuaternion(q.X, -q.Z, q.Y, q.W)
}

func (c *conversion) scaling(v *geom.Vector3) *geom.Vector3 {
	if !c.zup {
		return v.Clone()
	}
	return geom.NewVector3(v.X, v.Z, v.Y)
}

// matrix conjugates an affine matrix by the axis change and scales its
// translation, for inverse bind matrices.
func (c *conversion) matrix(m *geom.Matrix4) *geom.Matrix4 {
	t, r, s := m.Decompose()
	return geom.NewTRSMatrix4(c.translation(t), c.rotation(r), c.scaling(s))
}

type builder struct {
	doc  *gltf.Document
	res  *gltf.Resolution
	opt  *Options
	log  *zap.Logger
	w    SceneWriter
	acc  *gltf.AccessorCache
	conv *conversion

	nodeHandles map[int]Handle
	materials   map[int]Handle
	meshes      map[int]Handle
	cameras     map[int]Handle
	lights      map[int]Handle
	images      map[int]*ImageData
}

func newBuilder(doc *gltf.Document, res *gltf.Resolution, opt *Options, log *zap.Logger, w SceneWriter) *builder {
	return &builder{
		doc:  doc,
		res:  res,
		opt:  opt,
		log:  log,
		w:    w,
		acc:  gltf.NewAccessorCache(doc),
		conv: newConversion(opt),

		nodeHandles: map[int]Handle{},
		materials:   map[int]Handle{},
		meshes:      map[int]Handle{},
		cameras:     map[int]Handle{},
		lights:      map[int]Handle{},
		images:      map[int]*ImageData{},
	}
}

func (b *builder) build() error {
	roots, err := b.sceneRoots()
	if err != nil {
		return err
	}
	for _, root := range roots {
		if err := b.buildNode(root, nil); err != nil {
			return err
		}
	}
	if err := b.buildSkins(); err != nil {
		return err
	}
	if b.opt.ImportAnimations {
		if err := b.buildAnimations(); err != nil {
			return err
		}
	}
	return nil
}

// sceneRoots picks the nodes the walk starts from: the requested scene,
// the document's default scene, scene 0, or every root node when the
// document declares no scenes at all.
func (b *builder) sceneRoots() ([]int, error) {
	idx := b.opt.Scene
	if idx == nil {
		idx = b.doc.Scene
	}
	if idx == nil {
		if len(b.doc.Scenes) == 0 {
			return b.res.Roots, nil
		}
		idx = gltf.Index(0)
	}
	if *idx < 0 || *idx >= len(b.doc.Scenes) {
		return nil, &gltf.Error{Kind: gltf.ErrSchemaViolation, Entity: "scenes", Index: *idx, Detail: "no such scene"}
	}
	return b.doc.Scenes[*idx].Nodes, nil
}

func (b *builder) buildNode(index int, parent Handle) error {
	n := b.doc.Nodes[index]
	t, r, s := n.TRS()
	spec := &NodeSpec{
		Name:        n.Name,
		Parent:      parent,
		Translation: b.conv.translation(t),
		Rotation:    b.conv.rotation(r),
		Scale:       b.conv.scaling(s),
	}

	var err error
	if n.Mesh != nil {
		if spec.Mesh, err = b.mesh(*n.Mesh); err != nil {
			return err
		}
	}
	if n.Camera != nil {
		if spec.Camera, err = b.camera(*n.Camera); err != nil {
			return err
		}
	}
	if nl, ok := n.Extensions[ext.LightsPunctualName].(*ext.NodeLight); ok {
		if spec.Light, err = b.light(*nl.Light); err != nil {
			return err
		}
	}

	h, err := b.w.CreateNode(spec)
	if err != nil {
		return err
	}
	b.nodeHandles[index] = h
	for _, c := range n.Children {
		if err := b.buildNode(c, h); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) camera(index int) (Handle, error) {
	if h, ok := b.cameras[index]; ok {
		return h, nil
	}
	c := b.doc.Cameras[index]
	h, err := b.w.CreateCamera(&CameraSpec{
		Name:         c.Name,
		Type:         c.Type,
		Perspective:  c.Perspective,
		Orthographic: c.Orthographic,
	})
	if err != nil {
		return nil, err
	}
	b.cameras[index] = h
	return h, nil
}

func (b *builder) light(index int) (Handle, error) {
	if h, ok := b.lights[index]; ok {
		return h, nil
	}
	lp, _ := ext.DocumentLights(b.doc)
	l := lp.Lights[index]
	spec := &LightSpec{
		Name:      l.Name,
		Type:      l.Type,
		Color:     l.ColorOrDefault(),
		Intensity: l.IntensityOrDefault(),
	}
	if l.Range != nil {
		spec.Range = *l.Range
	}
	if l.Spot != nil {
		spec.InnerCone = l.Spot.InnerConeAngle
		spec.OuterCone = l.Spot.OuterConeAngleOrDefault()
	}
	h, err := b.w.CreateLight(spec)
	if err != nil {
		return nil, err
	}
	b.lights[index] = h
	return h, nil
}

// buildSkins runs after the node pass so every joint it references already
// has a handle. Skins whose joints fall outside the built scene are
// skipped.
func (b *builder) buildSkins() error {
	for index, n := range b.doc.Nodes {
		if n.Skin == nil {
			continue
		}
		target, ok := b.nodeHandles[index]
		if !ok {
			continue
		}
		skin := b.doc.Skins[*n.Skin]
		spec := &SkinSpec{Name: skin.Name, Target: target}

		complete := true
		for _, j := range skin.Joints {
			jh, ok := b.nodeHandles[j]
			if !ok {
				complete = false
				break
			}
			spec.Joints = append(spec.Joints, jh)
		}
		if !complete {
			b.log.Warn("skin references joints outside the built scene, skipping",
				zap.Int("skin", *n.Skin), zap.Int("node", index))
			continue
		}
		if skin.Skeleton != nil {
			spec.Skeleton = b.nodeHandles[*skin.Skeleton]
		}
		if skin.InverseBindMatrices != nil {
			data, err := b.acc.Get(*skin.InverseBindMatrices)
			if err != nil {
				return err
			}
			for i := 0; i < data.Count; i++ {
				spec.InverseBindMatrices = append(spec.InverseBindMatrices, b.conv.matrix(data.Matrix4(i)))
			}
		}
		if _, err := b.w.CreateSkin(spec); err != nil {
			return err
		}
	}
	return nil
}
