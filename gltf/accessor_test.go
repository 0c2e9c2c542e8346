package gltf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"testing"
)

func floatBytes(vals ...float32) []byte {
	var b bytes.Buffer
	for _, v := range vals {
		binary.Write(&b, binary.LittleEndian, math.Float32bits(v))
	}
	return b.Bytes()
}

func accessorDoc(buf []byte, views []*BufferView, accs []*Accessor) *Document {
	return &Document{
		Buffers:     []*Buffer{{ByteLength: len(buf), Data: buf}},
		BufferViews: views,
		Accessors:   accs,
	}
}

func TestDecodeFloatAccessor(t *testing.T) {
	buf := floatBytes(1.5, -2, 0.25)
	doc := accessorDoc(buf,
		[]*BufferView{{Buffer: Index(0), ByteLength: len(buf)}},
		[]*Accessor{{BufferView: Index(0), ComponentType: ComponentFloat, Count: 3, Type: TypeScalar}})

	data, err := NewAccessorCache(doc).Get(0)
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{1.5, -2, 0.25}
	for i, w := range want {
		if got := data.Float(i, 0); got != w {
			t.Errorf("element %d = %v, want %v", i, got, w)
		}
	}
}

func TestDecodeNormalizedUnsignedByte(t *testing.T) {
	buf := []byte{0, 255, 51}
	doc := accessorDoc(buf,
		[]*BufferView{{Buffer: Index(0), ByteLength: 3}},
		[]*Accessor{{BufferView: Index(0), ComponentType: ComponentUnsignedByte, Normalized: true, Count: 3, Type: TypeScalar}})

	data, err := NewAccessorCache(doc).Get(0)
	if err != nil {
		t.Fatal(err)
	}
	if got := data.Float(0, 0); got != 0 {
		t.Errorf("0 -> %v, want 0", got)
	}
	if got := data.Float(1, 0); got != 1 {
		t.Errorf("255 -> %v, want exactly 1", got)
	}
	if got, want := data.Float(2, 0), float32(51)/255; got != want {
		t.Errorf("51 -> %v, want %v", got, want)
	}
}

func TestDecodeNormalizedSignedByte(t *testing.T) {
	buf := []byte{0x80, 0x81, 0x7F, 0} // -128, -127, 127, 0
	doc := accessorDoc(buf,
		[]*BufferView{{Buffer: Index(0), ByteLength: 4}},
		[]*Accessor{{BufferView: Index(0), ComponentType: ComponentByte, Normalized: true, Count: 4, Type: TypeScalar}})

	data, err := NewAccessorCache(doc).Get(0)
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{-1, -1, 1, 0}
	for i, w := range want {
		if got := data.Float(i, 0); got != w {
			t.Errorf("element %d = %v, want %v", i, got, w)
		}
	}
}

// MAT2 with byte components pads each column to 4 bytes, so one element
// takes 8 bytes instead of 4.
func TestDecodeMat2BytePadding(t *testing.T) {
	buf := []byte{1, 2, 0, 0, 3, 4, 0, 0}
	doc := accessorDoc(buf,
		[]*BufferView{{Buffer: Index(0), ByteLength: 8}},
		[]*Accessor{{BufferView: Index(0), ComponentType: ComponentByte, Count: 1, Type: TypeMat2}})

	data, err := NewAccessorCache(doc).Get(0)
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{1, 2, 3, 4}
	for i, w := range want {
		if got := data.Float(0, i); got != w {
			t.Errorf("component %d = %v, want %v", i, got, w)
		}
	}
}

func TestDecodeInterleaved(t *testing.T) {
	// two VEC2 elements interleaved with 8 junk bytes each
	buf := append(floatBytes(1, 2), make([]byte, 8)...)
	buf = append(buf, floatBytes(3, 4)...)
	buf = append(buf, make([]byte, 8)...)
	doc := accessorDoc(buf,
		[]*BufferView{{Buffer: Index(0), ByteLength: len(buf), ByteStride: 16}},
		[]*Accessor{{BufferView: Index(0), ComponentType: ComponentFloat, Count: 2, Type: TypeVec2}})

	data, err := NewAccessorCache(doc).Get(0)
	if err != nil {
		t.Fatal(err)
	}
	if data.Float(1, 0) != 3 || data.Float(1, 1) != 4 {
		t.Errorf("element 1 = (%v, %v), want (3, 4)", data.Float(1, 0), data.Float(1, 1))
	}
}

func TestDecodeSparseOverlay(t *testing.T) {
	// indices at bytes 0..1, values at bytes 4..11
	buf := append([]byte{1, 3, 0, 0}, floatBytes(5, 7)...)
	doc := accessorDoc(buf,
		[]*BufferView{
			{Buffer: Index(0), ByteLength: 2},
			{Buffer: Index(0), ByteOffset: 4, ByteLength: 8},
		},
		[]*Accessor{{
			ComponentType: ComponentFloat, Count: 4, Type: TypeScalar,
			Sparse: &Sparse{
				Count:   2,
				Indices: SparseIndices{BufferView: Index(0), ComponentType: ComponentUnsignedByte},
				Values:  SparseValues{BufferView: Index(1)},
			},
		}})

	data, err := NewAccessorCache(doc).Get(0)
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{0, 5, 0, 7}
	for i, w := range want {
		if got := data.Float(i, 0); got != w {
			t.Errorf("element %d = %v, want %v", i, got, w)
		}
	}
}

func TestDecodeSparseIndexOutOfRange(t *testing.T) {
	buf := append([]byte{9, 0, 0, 0}, floatBytes(5)...)
	doc := accessorDoc(buf,
		[]*BufferView{
			{Buffer: Index(0), ByteLength: 1},
			{Buffer: Index(0), ByteOffset: 4, ByteLength: 4},
		},
		[]*Accessor{{
			ComponentType: ComponentFloat, Count: 4, Type: TypeScalar,
			Sparse: &Sparse{
				Count:   1,
				Indices: SparseIndices{BufferView: Index(0), ComponentType: ComponentUnsignedByte},
				Values:  SparseValues{BufferView: Index(1)},
			},
		}})

	if _, err := NewAccessorCache(doc).Get(0); !errors.Is(err, ErrAccessorBounds) {
		t.Errorf("err = %v, want ErrAccessorBounds", err)
	}
}

func TestDecodeOutOfBounds(t *testing.T) {
	buf := floatBytes(1, 2)
	doc := accessorDoc(buf,
		[]*BufferView{{Buffer: Index(0), ByteLength: len(buf)}},
		[]*Accessor{{BufferView: Index(0), ComponentType: ComponentFloat, Count: 10, Type: TypeScalar}})

	if _, err := NewAccessorCache(doc).Get(0); !errors.Is(err, ErrAccessorBounds) {
		t.Errorf("err = %v, want ErrAccessorBounds", err)
	}
}

func TestDecodeMissingBufferData(t *testing.T) {
	doc := &Document{
		Buffers:     []*Buffer{{ByteLength: 8, URI: "missing.bin"}},
		BufferViews: []*BufferView{{Buffer: Index(0), ByteLength: 8}},
		Accessors:   []*Accessor{{BufferView: Index(0), ComponentType: ComponentFloat, Count: 2, Type: TypeScalar}},
	}
	if _, err := NewAccessorCache(doc).Get(0); !errors.Is(err, ErrIO) {
		t.Errorf("err = %v, want ErrIO", err)
	}
}

func TestDecodeIndices(t *testing.T) {
	buf := []byte{0, 0, 1, 0, 2, 0}
	doc := accessorDoc(buf,
		[]*BufferView{{Buffer: Index(0), ByteLength: 6}},
		[]*Accessor{{BufferView: Index(0), ComponentType: ComponentUnsignedShort, Count: 3, Type: TypeScalar}})

	data, err := NewAccessorCache(doc).Get(0)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if got := data.UInt(i, 0); got != uint32(i) {
			t.Errorf("index %d = %d", i, got)
		}
	}
}

func TestAccessorCacheMemoizes(t *testing.T) {
	buf := floatBytes(1)
	doc := accessorDoc(buf,
		[]*BufferView{{Buffer: Index(0), ByteLength: len(buf)}},
		[]*Accessor{{BufferView: Index(0), ComponentType: ComponentFloat, Count: 1, Type: TypeScalar}})

	cache := NewAccessorCache(doc)
	first, err := cache.Get(0)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	results := make([]*AccessorData, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = cache.Get(0)
		}(i)
	}
	wg.Wait()
	for i, r := range results {
		if r != first {
			t.Fatalf("goroutine %d got a different decode", i)
		}
	}
}

func TestAccessorCacheBadIndex(t *testing.T) {
	cache := NewAccessorCache(&Document{})
	if _, err := cache.Get(3); !errors.Is(err, ErrSchemaViolation) {
		t.Errorf("err = %v, want ErrSchemaViolation", err)
	}
}
