package importer

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/ksons/gltf-blender-importer/gltf"
)

func (b *builder) buildAnimations() error {
	for index, a := range b.doc.Animations {
		name := a.Name
		if name == "" {
			name = "Animation " + strconv.Itoa(index)
		}
		spec := &AnimationSpec{Name: name}
		for ci, ch := range a.Channels {
			cs, err := b.channel(a, ch)
			if err != nil {
				return err
			}
			if cs == nil {
				b.log.Debug("skipping animation channel",
					zap.Int("animation", index), zap.Int("channel", ci))
				continue
			}
			spec.Channels = append(spec.Channels, cs)
		}
		if len(spec.Channels) == 0 {
			continue
		}
		if _, err := b.w.CreateAnimation(spec); err != nil {
			return err
		}
	}
	return nil
}

// channel samples one track. Channels without a target node, or whose
// node is not part of the built scene, return nil.
func (b *builder) channel(a *gltf.Animation, ch *gltf.Channel) (*ChannelSpec, error) {
	if ch.Target.Node == nil {
		return nil, nil
	}
	nh, ok := b.nodeHandles[*ch.Target.Node]
	if !ok {
		return nil, nil
	}
	s := a.Samplers[*ch.Sampler]
	input, err := b.acc.Get(*s.Input)
	if err != nil {
		return nil, err
	}
	output, err := b.acc.Get(*s.Output)
	if err != nil {
		return nil, err
	}

	spec := &ChannelSpec{
		Node:          nh,
		Path:          ch.Target.Path,
		Interpolation: s.InterpolationOrDefault(),
		Times:         make([]float32, input.Count),
	}
	for i := range spec.Times {
		spec.Times[i] = input.Float(i, 0)
	}

	// Cubic spline outputs carry three elements per keyframe: in-tangent,
	// value, out-tangent. All three convert the same way, so the values
	// pass through as one run.
	switch ch.Target.Path {
	case gltf.PathTranslation:
		spec.Components = 3
		for i := 0; i < output.Count; i++ {
			v := b.conv.translation(output.Vector3(i))
			spec.Values = append(spec.Values, v.X, v.Y, v.Z)
		}
	case gltf.PathScale:
		spec.Components = 3
		for i := 0; i < output.Count; i++ {
			v := b.conv.scaling(output.Vector3(i))
			spec.Values = append(spec.Values, v.X, v.Y, v.Z)
		}
	case gltf.PathRotation:
		spec.Components = 4
		for i := 0; i < output.Count; i++ {
			q := b.conv.rotation(output.Quaternion(i))
			spec.Values = append(spec.Values, q.X, q.Y, q.Z, q.W)
		}
	case gltf.PathWeights:
		if input.Count > 0 {
			spec.Components = output.Count / input.Count
		}
		for i := 0; i < output.Count; i++ {
			spec.Values = append(spec.Values, output.Float(i, 0))
		}
	}
	return spec, nil
}
