// Package importer turns glTF 2.0 documents into scenes on a host
// application. The host is abstracted behind SceneWriter; the package
// handles parsing, validation, buffer and image loading, axis conversion
// and the traversal order.
package importer

import (
	"encoding/base64"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ksons/gltf-blender-importer/gltf"
)

// Fetcher resolves the external URIs a document references. Buffers and
// images with data URIs never reach it.
type Fetcher interface {
	Fetch(uri string) ([]byte, error)
}

// DirFetcher reads URIs relative to a directory, the layout a .gltf file
// on disk uses for its sidecar files.
type DirFetcher struct {
	Dir string
}

func (f *DirFetcher) Fetch(uri string) ([]byte, error) {
	unescaped, err := url.PathUnescape(uri)
	if err != nil {
		unescaped = uri
	}
	return os.ReadFile(filepath.Join(f.Dir, filepath.FromSlash(unescaped)))
}

// AxisConversion selects how coordinates are mapped into the host space.
type AxisConversion int

const (
	// AxisKeep passes glTF's Y-up right-handed coordinates through.
	AxisKeep AxisConversion = iota
	// AxisZUp rotates the scene so +Z becomes up, the convention of
	// Blender and most DCC tools.
	AxisZUp
)

type Options struct {
	// Scene selects the scene to build. Nil means the document's default
	// scene, or every root node when the document declares no scenes.
	Scene *int

	ImportAnimations bool
	GlobalScale      float32
	Axis             AxisConversion

	// Fetcher loads external buffers and images. ImportFile installs a
	// DirFetcher next to the file when this is nil.
	Fetcher Fetcher

	Logger *zap.Logger
}

// DefaultOptions matches what an interactive import would pick.
func DefaultOptions() *Options {
	return &Options{
		ImportAnimations: true,
		GlobalScale:      1,
		Axis:             AxisZUp,
	}
}

type Importer struct {
	opt *Options
	log *zap.Logger
}

func New(opt *Options) *Importer {
	if opt == nil {
		opt = DefaultOptions()
	}
	if opt.GlobalScale == 0 {
		opt.GlobalScale = 1
	}
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{opt: opt, log: log}
}

// ImportFile loads path and imports it into w.
func (im *Importer) ImportFile(path string, w SceneWriter) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &gltf.Error{Kind: gltf.ErrIO, Entity: "file", Index: -1, Detail: err.Error()}
	}
	if im.opt.Fetcher == nil {
		opt := *im.opt
		opt.Fetcher = &DirFetcher{Dir: filepath.Dir(path)}
		return New(&opt).Import(data, w)
	}
	return im.Import(data, w)
}

// Import parses data, which may be JSON text or a binary container, and
// builds the selected scene on w.
func (im *Importer) Import(data []byte, w SceneWriter) error {
	doc, err := gltf.Unmarshal(data)
	if err != nil {
		return err
	}
	if err := gltf.CheckRequiredExtensions(doc); err != nil {
		return err
	}
	res, err := gltf.Resolve(doc)
	if err != nil {
		return err
	}
	if err := im.loadBuffers(doc); err != nil {
		return err
	}
	im.log.Debug("document ready",
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("meshes", len(doc.Meshes)),
		zap.Int("animations", len(doc.Animations)))

	b := newBuilder(doc, res, im.opt, im.log, w)
	return b.build()
}

func (im *Importer) loadBuffers(doc *gltf.Document) error {
	for i, buf := range doc.Buffers {
		if buf.Data != nil {
			// backed by the binary chunk
			continue
		}
		if buf.URI == "" {
			return &gltf.Error{Kind: gltf.ErrSchemaViolation, Entity: "buffers", Index: i, Field: "uri", Detail: "buffer has neither a URI nor a binary chunk"}
		}
		data, err := loadURI(im.opt.Fetcher, buf.URI)
		if err != nil {
			return &gltf.Error{Kind: gltf.ErrIO, Entity: "buffers", Index: i, Field: "uri", Detail: err.Error()}
		}
		if len(data) < buf.ByteLength {
			return &gltf.Error{Kind: gltf.ErrIO, Entity: "buffers", Index: i, Field: "byteLength", Detail: "fetched data shorter than declared length"}
		}
		buf.Data = data
	}
	return nil
}

func loadURI(f Fetcher, uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "data:") {
		return decodeDataURI(uri)
	}
	if f == nil {
		return nil, &gltf.Error{Kind: gltf.ErrIO, Entity: "uri", Index: -1, Detail: "no fetcher configured for external URI " + uri}
	}
	return f.Fetch(uri)
}

func decodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, &gltf.Error{Kind: gltf.ErrSchemaViolation, Entity: "uri", Index: -1, Detail: "data URI has no payload"}
	}
	meta, payload := uri[len("data:"):comma], uri[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, &gltf.Error{Kind: gltf.ErrSchemaViolation, Entity: "uri", Index: -1, Detail: "data URI is not base64 encoded"}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &gltf.Error{Kind: gltf.ErrSchemaViolation, Entity: "uri", Index: -1, Detail: "bad base64 payload: " + err.Error()}
	}
	return data, nil
}
