package export

import (
	"errors"
	"io"
)

var errVarintOverflow = errors.New("varint overflows 32 bits")

func writeUVarint(dst []byte, x uint32) []byte {
	v := x
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	dst = append(dst, byte(v))
	return dst
}

// readUVarint decodes a varint of at most five bytes at *pos. Values that do
// not fit in 32 bits are rejected.
func readUVarint(src []byte, pos *int) (uint32, error) {
	var x uint32
	var s uint
	for i := *pos; i < len(src); i++ {
		b := src[i]
		if s == 28 && b > 0x0f {
			return 0, errVarintOverflow
		}
		if b < 0x80 {
			*pos = i + 1
			return x | uint32(b)<<s, nil
		}
		x |= uint32(b&0x7f) << s
		s += 7
	}
	return 0, io.ErrUnexpectedEOF
}
