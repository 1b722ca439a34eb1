package similarity

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Vector blobs use an explicit versioned layout so the format stays
// portable and verifiable: a 1-byte version, a little-endian uint32
// element count, then count little-endian float32 values.
const (
	vectorCodecVersion = 1
	vectorHeaderLen    = 5
)

// EncodeVector serialises a vector into the versioned binary format
// used by the detection store. The blob is opaque to the store.
func EncodeVector(vec []float32) []byte {
	buf := make([]byte, vectorHeaderLen+4*len(vec))
	buf[0] = vectorCodecVersion
	binary.LittleEndian.PutUint32(buf[1:], uint32(len(vec)))
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[vectorHeaderLen+i*4:], math.Float32bits(f))
	}
	return buf
}

// DecodeVector deserialises a vector blob, validating version and
// length before trusting the payload.
func DecodeVector(data []byte) ([]float32, error) {
	if len(data) < vectorHeaderLen {
		return nil, fmt.Errorf("vector blob truncated: %d bytes", len(data))
	}
	if data[0] != vectorCodecVersion {
		return nil, fmt.Errorf("unsupported vector blob version %d", data[0])
	}

	count := binary.LittleEndian.Uint32(data[1:])
	want := vectorHeaderLen + 4*int(count)
	if len(data) != want {
		return nil, fmt.Errorf("vector blob length mismatch: have %d bytes, want %d", len(data), want)
	}

	vec := make([]float32, count)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[vectorHeaderLen+i*4:]))
	}
	return vec, nil
}
