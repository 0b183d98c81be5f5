// Package varint implements the little-endian base-128 variable-length
// unsigned integer encoding used by the RFF binary format: seven low bits
// per byte, with the high bit set on every byte but the last.
package varint

import (
	"io"

	"golang.org/x/exp/constraints"
)

// MaxLen32 is the longest encoding of any uint32 value.
const MaxLen32 = 5

// Append encodes v and appends the result to dst, returning the extended slice.
func Append[T constraints.Unsigned](dst []byte, v T) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// Len returns the number of bytes Append would produce for v.
func Len[T constraints.Unsigned](v T) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// Read decodes a single varint from r. It returns io.EOF if no bytes could
// be read at all, and io.ErrUnexpectedEOF if the stream ends mid-sequence.
func Read(r io.ByteReader) (uint64, error) {
	var v uint64
	var shift uint
	for i := 0; i < MaxLen32+5; i++ {
		b, err := r.ReadByte()
		if err != nil {
			if i == 0 && err == io.EOF {
				return 0, io.EOF
			}
			return 0, io.ErrUnexpectedEOF
		}
		if b < 0x80 {
			v |= uint64(b) << shift
			return v, nil
		}
		v |= uint64(b&0x7f) << shift
		shift += 7
	}
	return 0, io.ErrUnexpectedEOF
}
