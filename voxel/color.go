package voxel

import (
	"fmt"
	"strconv"
)

const (
	// sameThreshold bounds the summed per-channel RGB difference of two
	// colors considered equal. Alpha is not compared.
	sameThreshold = 0.02
	// airAlpha is the alpha below which a voxel is empty.
	airAlpha = 0.1
)

// Color is a non-premultiplied RGBA color with channels in [0,1].
type Color struct {
	R, G, B, A float32
}

// Air reports whether the color marks an empty voxel.
func (c Color) Air() bool { return c.A < airAlpha }

// Opaque reports whether the color has any coverage at all.
func (c Color) Opaque() bool { return c.A > 0 }

// Same reports whether two colors are equal within the import tolerance:
// |dR| + |dG| + |dB| < 0.02. It is symmetric and reflexive but not
// transitive.
func Same(l, r Color) bool {
	return abs32(l.R-r.R)+abs32(l.G-r.G)+abs32(l.B-r.B) < sameThreshold
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// RGBA8 quantizes the color to 8 bits per channel.
func (c Color) RGBA8() [4]uint8 {
	return [4]uint8{to8(c.R), to8(c.G), to8(c.B), to8(c.A)}
}

// Color8 builds a Color from 8-bit channels.
func Color8(r, g, b, a uint8) Color {
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Hex formats the color as #rrggbb, or #rrggbbaa when not fully opaque.
func (c Color) Hex() string {
	q := c.RGBA8()
	if q[3] == 255 {
		return fmt.Sprintf("#%02x%02x%02x", q[0], q[1], q[2])
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", q[0], q[1], q[2], q[3])
}

func (c Color) String() string { return c.Hex() }

// ParseHexColor parses #rrggbb or #rrggbbaa.
func ParseHexColor(hex string) (Color, error) {
	if len(hex) == 0 || hex[0] != '#' {
		return Color{}, fmt.Errorf("invalid hex color: %q", hex)
	}
	h := hex[1:]
	if len(h) != 6 && len(h) != 8 {
		return Color{}, fmt.Errorf("invalid hex color length: %q", hex)
	}
	var ch [4]uint8
	ch[3] = 255
	for i := 0; i < len(h)/2; i++ {
		v, err := strconv.ParseUint(h[2*i:2*i+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		ch[i] = uint8(v)
	}
	return Color8(ch[0], ch[1], ch[2], ch[3]), nil
}
