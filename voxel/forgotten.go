package voxel

import (
	"encoding/binary"
	"math"

	xxhash "github.com/cespare/xxhash/v2"
)

// ForgottenCache recomputes forgotten colors only when the palette or the
// source pixels change.
type ForgottenCache struct {
	key    uint64
	valid  bool
	colors []Color
}

// Colors returns the forgotten colors of buf under palette, reusing the
// previous result when both inputs hash the same.
func (f *ForgottenCache) Colors(palette []Element, buf *PixelBuffer) []Color {
	key := Fingerprint(palette, buf)
	if f.valid && f.key == key {
		return f.colors
	}
	f.colors = NewClassifier(palette).ForgottenColors(buf)
	f.key = key
	f.valid = true
	return f.colors
}

// Invalidate drops the cached result.
func (f *ForgottenCache) Invalidate() {
	f.valid = false
	f.colors = nil
}

// Fingerprint hashes a palette and a pixel buffer with xxhash64.
func Fingerprint(palette []Element, buf *PixelBuffer) uint64 {
	// Digest writes never fail.
	d := xxhash.New()
	var b [8]byte
	writeU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(b[:4], v)
		_, _ = d.Write(b[:4])
	}
	writeColor := func(c Color) {
		writeU32(math.Float32bits(c.R))
		writeU32(math.Float32bits(c.G))
		writeU32(math.Float32bits(c.B))
		writeU32(math.Float32bits(c.A))
	}
	writeU32(uint32(len(palette)))
	for _, e := range palette {
		writeU32(uint32(len(e.Name)))
		_, _ = d.WriteString(e.Name)
		writeU32(uint32(len(e.Colors)))
		for _, c := range e.Colors {
			writeColor(c)
		}
	}
	if buf == nil {
		writeU32(math.MaxUint32)
		return d.Sum64()
	}
	writeU32(uint32(buf.Width))
	writeU32(uint32(buf.Height))
	for _, c := range buf.Pix {
		writeColor(c)
	}
	return d.Sum64()
}
