package gltf

import "encoding/binary"

// Binary container ("glb") layout: a 12-byte header followed by 4-byte
// aligned chunks of (length, type, payload).
const (
	glbMagic   = 0x46546C67 // "glTF"
	glbVersion = 2

	chunkJSON = 0x4E4F534A // "JSON"
	chunkBIN  = 0x004E4942 // "BIN\0"

	glbHeaderSize   = 12
	chunkHeaderSize = 8
)

// IsBinary reports whether data starts with the binary container magic.
func IsBinary(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data) == glbMagic
}

// ParseGLB splits a binary container into its JSON text and the optional
// binary chunk. The binary chunk backs buffer 0 when that buffer has no URI.
func ParseGLB(data []byte) (jsonText, bin []byte, err error) {
	if len(data) < glbHeaderSize {
		return nil, nil, newError(ErrMalformedContainer, "", -1, "", "truncated header: %d bytes", len(data))
	}
	if binary.LittleEndian.Uint32(data) != glbMagic {
		return nil, nil, newError(ErrMalformedContainer, "", -1, "magic", "not a glb container")
	}
	if v := binary.LittleEndian.Uint32(data[4:]); v != glbVersion {
		return nil, nil, newError(ErrMalformedContainer, "", -1, "version", "unsupported container version %d", v)
	}
	total := int(binary.LittleEndian.Uint32(data[8:]))
	if total < glbHeaderSize || total > len(data) {
		return nil, nil, newError(ErrMalformedContainer, "", -1, "length", "declared length %d exceeds %d available bytes", total, len(data))
	}

	offset := glbHeaderSize
	chunk := 0
	for offset < total {
		if total-offset < chunkHeaderSize {
			return nil, nil, newError(ErrMalformedContainer, "chunks", chunk, "", "truncated chunk header")
		}
		length := int(binary.LittleEndian.Uint32(data[offset:]))
		typ := binary.LittleEndian.Uint32(data[offset+4:])
		offset += chunkHeaderSize
		if length < 0 || length > total-offset {
			return nil, nil, newError(ErrMalformedContainer, "chunks", chunk, "length", "chunk of %d bytes overruns container", length)
		}
		payload := data[offset : offset+length]

		switch typ {
		case chunkJSON:
			if chunk != 0 {
				return nil, nil, newError(ErrMalformedContainer, "chunks", chunk, "", "JSON chunk must come first")
			}
			jsonText = payload
		case chunkBIN:
			if chunk == 0 {
				return nil, nil, newError(ErrMalformedContainer, "chunks", chunk, "", "BIN chunk before JSON chunk")
			}
			if bin != nil {
				return nil, nil, newError(ErrMalformedContainer, "chunks", chunk, "", "more than one BIN chunk")
			}
			bin = payload
		default:
			// Unknown chunk types are skipped for forward compatibility.
		}

		// chunks are padded to 4-byte boundaries
		offset += (length + 3) &^ 3
		chunk++
	}
	if jsonText == nil {
		return nil, nil, newError(ErrMalformedContainer, "", -1, "", "container has no JSON chunk")
	}
	return jsonText, bin, nil
}
