package gltf

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/ksons/gltf-blender-importer/geom"
)

var componentSizes = map[int]int{
	ComponentByte:          1,
	ComponentUnsignedByte:  1,
	ComponentShort:         2,
	ComponentUnsignedShort: 2,
	ComponentUnsignedInt:   4,
	ComponentFloat:         4,
}

var typeComponents = map[string]int{
	TypeScalar: 1,
	TypeVec2:   2,
	TypeVec3:   3,
	TypeVec4:   4,
	TypeMat2:   4,
	TypeMat3:   9,
	TypeMat4:   16,
}

// AccessorData holds one accessor's elements in a uniform numeric form.
// Float and normalized accessors decode to float32; integer accessors keep
// their raw values as well, for index and joint lookups.
type AccessorData struct {
	Count      int
	Components int

	floats []float32
	uints  []uint32
}

// Float returns component c of element i.
func (d *AccessorData) Float(i, c int) float32 {
	return d.floats[i*d.Components+c]
}

// UInt returns component c of element i as an unsigned integer. Only valid
// for unsigned, non-normalized accessors.
func (d *AccessorData) UInt(i, c int) uint32 {
	if d.uints != nil {
		return d.uints[i*d.Components+c]
	}
	return uint32(d.floats[i*d.Components+c])
}

// Element returns the components of element i as a slice. The slice aliases
// the decoded data and must not be modified.
func (d *AccessorData) Element(i int) []float32 {
	return d.floats[i*d.Components : (i+1)*d.Components]
}

// Vector3 returns element i of a VEC3 accessor.
func (d *AccessorData) Vector3(i int) *geom.Vector3 {
	return geom.NewVector3FromSlice(d.Element(i))
}

// Quaternion returns element i of a VEC4 accessor in XYZW order.
func (d *AccessorData) Quaternion(i int) *geom.Quaternion {
	return geom.NewQuaternionFromSlice(d.Element(i))
}

// Matrix4 returns element i of a MAT4 accessor. Both sides store columns
// first, so the copy is direct.
func (d *AccessorData) Matrix4(i int) *geom.Matrix4 {
	return geom.NewMatrix4FromSlice(d.Element(i))
}

// AccessorCache decodes accessors on demand and memoizes the results.
// Get is safe for concurrent use; each accessor is decoded at most once
// even when several goroutines request it at the same time.
type AccessorCache struct {
	doc     *Document
	mu      sync.Mutex
	entries map[int]*cacheEntry
}

type cacheEntry struct {
	once sync.Once
	data *AccessorData
	err  error
}

func NewAccessorCache(doc *Document) *AccessorCache {
	return &AccessorCache{doc: doc, entries: map[int]*cacheEntry{}}
}

// Get returns the decoded form of accessor index.
func (c *AccessorCache) Get(index int) (*AccessorData, error) {
	if index < 0 || index >= len(c.doc.Accessors) {
		return nil, newError(ErrSchemaViolation, "accessors", index, "", "no such accessor")
	}
	c.mu.Lock()
	e, ok := c.entries[index]
	if !ok {
		e = &cacheEntry{}
		c.entries[index] = e
	}
	c.mu.Unlock()
	e.once.Do(func() {
		e.data, e.err = decodeAccessor(c.doc, index)
	})
	return e.data, e.err
}

func decodeAccessor(doc *Document, index int) (*AccessorData, error) {
	a := doc.Accessors[index]
	d, err := decodeRaw(doc, index, "bufferView", a.BufferView, a.ByteOffset, a.ComponentType, a.Type, a.Count, a.Normalized)
	if err != nil {
		return nil, err
	}
	if a.Sparse == nil {
		return d, nil
	}

	s := a.Sparse
	idx, err := decodeRaw(doc, index, "sparse.indices", s.Indices.BufferView, s.Indices.ByteOffset, s.Indices.ComponentType, TypeScalar, s.Count, false)
	if err != nil {
		return nil, err
	}
	vals, err := decodeRaw(doc, index, "sparse.values", s.Values.BufferView, s.Values.ByteOffset, a.ComponentType, a.Type, s.Count, a.Normalized)
	if err != nil {
		return nil, err
	}
	n := d.Components
	for i := 0; i < s.Count; i++ {
		j := int(idx.uints[i])
		if j >= a.Count {
			return nil, newError(ErrAccessorBounds, "accessors", index, "sparse.indices", "override index %d out of range [0, %d)", j, a.Count)
		}
		copy(d.floats[j*n:(j+1)*n], vals.floats[i*n:])
		if d.uints != nil && vals.uints != nil {
			copy(d.uints[j*n:(j+1)*n], vals.uints[i*n:])
		}
	}
	return d, nil
}

// elementLayout returns the byte offset of each component within one
// element, columns first, and the total element size. Matrix columns are
// aligned to 4-byte boundaries, so MAT2 and MAT3 elements with 1- and
// 2-byte components carry padding between columns.
func elementLayout(typ string, csize int) (offsets []int, size int) {
	var rows, cols int
	switch typ {
	case TypeMat2:
		rows, cols = 2, 2
	case TypeMat3:
		rows, cols = 3, 3
	case TypeMat4:
		rows, cols = 4, 4
	default:
		n := typeComponents[typ]
		offsets = make([]int, n)
		for i := range offsets {
			offsets[i] = i * csize
		}
		return offsets, n * csize
	}
	colStride := (rows*csize + 3) &^ 3
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			offsets = append(offsets, c*colStride+r*csize)
		}
	}
	return offsets, cols * colStride
}

func decodeRaw(doc *Document, index int, field string, view *int, byteOffset, componentType int, typ string, count int, normalized bool) (*AccessorData, error) {
	ncomp := typeComponents[typ]
	csize := componentSizes[componentType]
	d := &AccessorData{Count: count, Components: ncomp}
	d.floats = make([]float32, count*ncomp)
	unsigned := componentType == ComponentUnsignedByte || componentType == ComponentUnsignedShort || componentType == ComponentUnsignedInt
	if unsigned && !normalized {
		d.uints = make([]uint32, count*ncomp)
	}
	if view == nil {
		// all elements read as zero until a sparse overlay fills them in
		return d, nil
	}

	offsets, elemSize := elementLayout(typ, csize)
	bv := doc.BufferViews[*view]
	buf := doc.Buffers[*bv.Buffer]
	if buf.Data == nil {
		return nil, newError(ErrIO, "accessors", index, field, "buffer %d has no data", *bv.Buffer)
	}
	stride := bv.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	need := byteOffset + (count-1)*stride + elemSize
	if need > bv.ByteLength {
		return nil, newError(ErrAccessorBounds, "accessors", index, field, "%d bytes needed, view holds %d", need, bv.ByteLength)
	}
	if bv.ByteOffset+need > len(buf.Data) {
		return nil, newError(ErrAccessorBounds, "accessors", index, field, "view overruns buffer %d (%d bytes)", *bv.Buffer, len(buf.Data))
	}

	base := bv.ByteOffset + byteOffset
	for i := 0; i < count; i++ {
		eb := buf.Data[base+i*stride:]
		for c, off := range offsets {
			k := i*ncomp + c
			switch componentType {
			case ComponentByte:
				v := int8(eb[off])
				if normalized {
					d.floats[k] = normSigned(float32(v), 127)
				} else {
					d.floats[k] = float32(v)
				}
			case ComponentUnsignedByte:
				v := eb[off]
				if normalized {
					d.floats[k] = float32(v) / 255
				} else {
					d.floats[k] = float32(v)
					d.uints[k] = uint32(v)
				}
			case ComponentShort:
				v := int16(binary.LittleEndian.Uint16(eb[off:]))
				if normalized {
					d.floats[k] = normSigned(float32(v), 32767)
				} else {
					d.floats[k] = float32(v)
				}
			case ComponentUnsignedShort:
				v := binary.LittleEndian.Uint16(eb[off:])
				if normalized {
					d.floats[k] = float32(v) / 65535
				} else {
					d.floats[k] = float32(v)
					d.uints[k] = uint32(v)
				}
			case ComponentUnsignedInt:
				v := binary.LittleEndian.Uint32(eb[off:])
				if normalized {
					d.floats[k] = float32(float64(v) / 4294967295)
				} else {
					d.floats[k] = float32(v)
					d.uints[k] = v
				}
			case ComponentFloat:
				d.floats[k] = math.Float32frombits(binary.LittleEndian.Uint32(eb[off:]))
			}
		}
	}
	return d, nil
}

// normSigned maps a signed integer component to [-1, 1]. The most negative
// value and the next one both map to -1.
func normSigned(v, max float32) float32 {
	f := v / max
	if f < -1 {
		return -1
	}
	return f
}
