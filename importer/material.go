package importer

import (
	"github.com/ksons/gltf-blender-importer/gltf"
	"github.com/ksons/gltf-blender-importer/gltf/ext"
)

// material builds material index on first use. Index -1 is the fallback
// for primitives with no material at all.
func (b *builder) material(index int) (Handle, error) {
	if h, ok := b.materials[index]; ok {
		return h, nil
	}
	var spec *MaterialSpec
	var err error
	if index < 0 {
		spec = defaultMaterial()
	} else {
		spec, err = b.materialSpec(b.doc.Materials[index])
		if err != nil {
			return nil, err
		}
	}
	h, err := b.w.CreateMaterial(spec)
	if err != nil {
		return nil, err
	}
	b.materials[index] = h
	return h, nil
}

func defaultMaterial() *MaterialSpec {
	return &MaterialSpec{
		Name:            "Default",
		BaseColorFactor: [4]float32{1, 1, 1, 1},
		Metallic:        1,
		Roughness:       1,
		NormalScale:     1,
		OcclusionWeight: 1,
		AlphaMode:       gltf.AlphaOpaque,
		AlphaCutoff:     0.5,
	}
}

func (b *builder) materialSpec(m *gltf.Material) (*MaterialSpec, error) {
	spec := defaultMaterial()
	spec.Name = m.Name
	spec.EmissiveFactor = m.EmissiveFactor
	spec.AlphaMode = m.AlphaModeOrDefault()
	spec.AlphaCutoff = m.AlphaCutoffOrDefault()
	spec.DoubleSided = m.DoubleSided

	var err error
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		spec.BaseColorFactor = pbr.BaseColorFactorOrDefault()
		spec.Metallic = pbr.MetallicFactorOrDefault()
		spec.Roughness = pbr.RoughnessFactorOrDefault()
		if spec.BaseColorTex, err = b.texture(pbr.BaseColorTexture); err != nil {
			return nil, err
		}
		if spec.MetallicTex, err = b.texture(pbr.MetallicRoughnessTexture); err != nil {
			return nil, err
		}
	}
	if nt := m.NormalTexture; nt != nil {
		if spec.NormalTex, err = b.texture(&nt.TextureInfo); err != nil {
			return nil, err
		}
		spec.NormalScale = nt.ScaleOrDefault()
	}
	if ot := m.OcclusionTexture; ot != nil {
		if spec.OcclusionTex, err = b.texture(&ot.TextureInfo); err != nil {
			return nil, err
		}
		spec.OcclusionWeight = ot.StrengthOrDefault()
	}
	if spec.EmissiveTex, err = b.texture(m.EmissiveTexture); err != nil {
		return nil, err
	}

	if _, ok := m.Extensions[ext.UnlitName].(*ext.Unlit); ok {
		spec.Unlit = true
	}
	if sg, ok := m.Extensions[ext.SpecularGlossinessName].(*ext.SpecularGlossiness); ok {
		sgs := &SpecularGlossinessSpec{
			DiffuseFactor:  sg.DiffuseFactorOrDefault(),
			SpecularFactor: sg.SpecularFactorOrDefault(),
			Glossiness:     sg.GlossinessFactorOrDefault(),
		}
		if sgs.DiffuseTex, err = b.texture(sg.DiffuseTexture); err != nil {
			return nil, err
		}
		if sgs.SpecularGlossTex, err = b.texture(sg.SpecularGlossinessTexture); err != nil {
			return nil, err
		}
		spec.SpecularGlossiness = sgs
	}
	return spec, nil
}

// texture resolves one texture binding, following alternate image sources
// installed by texture extensions.
func (b *builder) texture(ti *gltf.TextureInfo) (*TextureSpec, error) {
	if ti == nil || ti.Index == nil {
		return nil, nil
	}
	t := b.doc.Textures[*ti.Index]
	spec := &TextureSpec{
		TexCoord:  ti.TexCoord,
		WrapS:     gltf.WrapRepeat,
		WrapT:     gltf.WrapRepeat,
		MagFilter: gltf.FilterLinear,
		MinFilter: gltf.FilterLinear,
		Scale:     [2]float32{1, 1},
	}
	if t.Sampler != nil {
		s := b.doc.Samplers[*t.Sampler]
		spec.WrapS = s.WrapSOrDefault()
		spec.WrapT = s.WrapTOrDefault()
		if s.MagFilter != 0 {
			spec.MagFilter = s.MagFilter
		}
		if s.MinFilter != 0 {
			spec.MinFilter = s.MinFilter
		}
	}

	source := t.Source
	if ts, ok := t.Extensions[ext.TextureDDSName].(*ext.TextureSource); ok {
		source = ts.Source
	}
	if ts, ok := t.Extensions[ext.TextureWebPName].(*ext.TextureSource); ok {
		source = ts.Source
	}
	if source != nil {
		img, err := b.image(*source)
		if err != nil {
			return nil, err
		}
		spec.Image = img
	}

	if tt, ok := ti.Extensions[ext.TextureTransformName].(*ext.TextureTransform); ok {
		spec.Offset = tt.OffsetOrDefault()
		spec.Rotation = tt.Rotation
		spec.Scale = tt.ScaleOrDefault()
		if tt.TexCoord != nil {
			spec.TexCoord = *tt.TexCoord
		}
	}
	return spec, nil
}
