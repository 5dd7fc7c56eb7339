package extsort

import "encoding/binary"

// Codec describes the fixed-size binary encoding of a record type. Encode
// writes exactly Size bytes into dst; Decode reads exactly Size bytes from
// src. Codecs never fail: record types are plain value structs.
type Codec[T any] interface {
	Size() int
	Encode(dst []byte, v T)
	Decode(src []byte) T
}

// Uint64Codec encodes a uint64 little-endian. Used for placeholder records.
type Uint64Codec struct{}

// Size returns the encoded width.
func (Uint64Codec) Size() int { return 8 }

// Encode writes v into dst.
func (Uint64Codec) Encode(dst []byte, v uint64) { binary.LittleEndian.PutUint64(dst, v) }

// Decode reads a value from src.
func (Uint64Codec) Decode(src []byte) uint64 { return binary.LittleEndian.Uint64(src) }
