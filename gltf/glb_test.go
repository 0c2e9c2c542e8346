package gltf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func glbChunk(typ uint32, payload []byte, pad byte) []byte {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, uint32(len(payload)))
	binary.Write(&b, binary.LittleEndian, typ)
	b.Write(payload)
	for b.Len()%4 != 0 {
		b.WriteByte(pad)
	}
	return b.Bytes()
}

func buildGLB(chunks ...[]byte) []byte {
	var body bytes.Buffer
	for _, c := range chunks {
		body.Write(c)
	}
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, uint32(glbMagic))
	binary.Write(&b, binary.LittleEndian, uint32(2))
	binary.Write(&b, binary.LittleEndian, uint32(12+body.Len()))
	b.Write(body.Bytes())
	return b.Bytes()
}

func TestParseGLB(t *testing.T) {
	doc := []byte(`{"asset":{"version":"2.0"}}`)
	bin := []byte{1, 2, 3, 4, 5}
	data := buildGLB(glbChunk(chunkJSON, doc, ' '), glbChunk(chunkBIN, bin, 0))

	if !IsBinary(data) {
		t.Fatal("IsBinary = false")
	}
	jsonText, binOut, err := ParseGLB(data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(jsonText, doc) {
		t.Errorf("json chunk = %q", jsonText)
	}
	if !bytes.HasPrefix(binOut, bin) {
		t.Errorf("bin chunk = %v", binOut)
	}
}

func TestParseGLBUnknownChunkSkipped(t *testing.T) {
	doc := []byte(`{"asset":{"version":"2.0"}}`)
	data := buildGLB(glbChunk(chunkJSON, doc, ' '), glbChunk(0x12345678, []byte("whatever"), 0))
	if _, _, err := ParseGLB(data); err != nil {
		t.Fatal(err)
	}
}

func TestParseGLBErrors(t *testing.T) {
	doc := []byte(`{}`)
	bin := []byte{1, 2, 3, 4}
	tests := []struct {
		name string
		data []byte
	}{
		{"truncated header", []byte("glTF")},
		{"bad magic", append([]byte("nope"), make([]byte, 16)...)},
		{"bin before json", buildGLB(glbChunk(chunkBIN, bin, 0), glbChunk(chunkJSON, doc, ' '))},
		{"two bin chunks", buildGLB(glbChunk(chunkJSON, doc, ' '), glbChunk(chunkBIN, bin, 0), glbChunk(chunkBIN, bin, 0))},
		{"no json chunk", buildGLB()},
		{"chunk overrun", buildGLB(glbChunk(chunkJSON, doc, ' '))[:20]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseGLB(tt.data)
			if !errors.Is(err, ErrMalformedContainer) {
				t.Errorf("err = %v, want ErrMalformedContainer", err)
			}
		})
	}
}

func TestParseGLBDeclaredLengthTooLarge(t *testing.T) {
	data := buildGLB(glbChunk(chunkJSON, []byte(`{}`), ' '))
	binary.LittleEndian.PutUint32(data[8:], uint32(len(data)+100))
	if _, _, err := ParseGLB(data); !errors.Is(err, ErrMalformedContainer) {
		t.Errorf("err = %v, want ErrMalformedContainer", err)
	}
}

func TestParseGLBBadVersion(t *testing.T) {
	data := buildGLB(glbChunk(chunkJSON, []byte(`{}`), ' '))
	binary.LittleEndian.PutUint32(data[4:], 1)
	if _, _, err := ParseGLB(data); !errors.Is(err, ErrMalformedContainer) {
		t.Errorf("err = %v, want ErrMalformedContainer", err)
	}
}
