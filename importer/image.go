package importer

import (
	"bytes"
	"image"
	"strings"

	"go.uber.org/zap"

	"github.com/blezek/tga"
	_ "github.com/oov/psd"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/ksons/gltf-blender-importer/gltf"
)

// ImageData is one image's bytes plus its decoded pixels when a decoder
// for the format is available. Formats without a decoder, DDS mainly,
// keep Decoded nil and let the host deal with the raw bytes.
type ImageData struct {
	Name     string
	URI      string
	MimeType string
	Data     []byte
	Decoded  image.Image
	Format   string
}

func (b *builder) image(index int) (*ImageData, error) {
	if img, ok := b.images[index]; ok {
		return img, nil
	}
	src := b.doc.Images[index]
	img := &ImageData{Name: src.Name, URI: src.URI, MimeType: src.MimeType}

	if src.BufferView != nil {
		bv := b.doc.BufferViews[*src.BufferView]
		buf := b.doc.Buffers[*bv.Buffer]
		if buf.Data == nil {
			return nil, &gltf.Error{Kind: gltf.ErrIO, Entity: "images", Index: index, Field: "bufferView", Detail: "buffer has no data"}
		}
		if bv.ByteOffset+bv.ByteLength > len(buf.Data) {
			return nil, &gltf.Error{Kind: gltf.ErrAccessorBounds, Entity: "images", Index: index, Field: "bufferView", Detail: "view overruns buffer"}
		}
		img.Data = buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
	} else {
		data, err := loadURI(b.opt.Fetcher, src.URI)
		if err != nil {
			return nil, &gltf.Error{Kind: gltf.ErrIO, Entity: "images", Index: index, Field: "uri", Detail: err.Error()}
		}
		img.Data = data
	}

	decoded, format, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil && looksLikeTGA(src) {
		if t, terr := tga.Decode(bytes.NewReader(img.Data)); terr == nil {
			decoded, format, err = t, "tga", nil
		}
	}
	if err != nil {
		// Not fatal. DDS and other undecodable formats pass through raw.
		b.log.Debug("could not decode image, keeping raw bytes",
			zap.Int("image", index), zap.String("mimeType", src.MimeType), zap.Error(err))
	} else {
		img.Decoded = decoded
		img.Format = format
	}

	b.images[index] = img
	return img, nil
}

// looksLikeTGA guesses from metadata; the format has no magic number for
// image.Decode to sniff.
func looksLikeTGA(img *gltf.Image) bool {
	return img.MimeType == "image/x-tga" || img.MimeType == "image/targa" ||
		strings.HasSuffix(strings.ToLower(img.URI), ".tga")
}
