package voxel

import (
	"errors"
	"fmt"
)

// ErrNoSource is returned when an import is attempted without a source image.
var ErrNoSource = errors.New("voxel: no source image")

// Axis indexes the components of a Coord.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Coord is a voxel coordinate (x, y, z). Y is the layer index.
type Coord [3]int

func (c Coord) String() string { return fmt.Sprintf("(%d, %d, %d)", c[0], c[1], c[2]) }

// Size holds the volume extent along each axis.
type Size [3]int

func (s Size) String() string { return fmt.Sprintf("(%d, %d, %d)", s[0], s[1], s[2]) }

// Len returns the number of voxels in the volume.
func (s Size) Len() int { return s[0] * s[1] * s[2] }

// Contains reports whether c lies inside the volume.
func (s Size) Contains(c Coord) bool {
	for i := range s {
		if c[i] < 0 || c[i] >= s[i] {
			return false
		}
	}
	return true
}

// PixelBuffer is a flat row-major color image. Row 0 is the first row the
// source provider produced.
type PixelBuffer struct {
	Width, Height int
	Pix           []Color
}

// NewPixelBuffer allocates a transparent buffer.
func NewPixelBuffer(w, h int) *PixelBuffer {
	return &PixelBuffer{Width: w, Height: h, Pix: make([]Color, w*h)}
}

// At returns the pixel at column x, row y.
func (b *PixelBuffer) At(x, y int) Color { return b.Pix[y*b.Width+x] }

// Set writes the pixel at column x, row y.
func (b *PixelBuffer) Set(x, y int, c Color) { b.Pix[y*b.Width+x] = c }

// SliceSize derives the volume size of a sliced image: layers are
// width x width squares stacked along the rows. Trailing rows that do not
// form a full layer are ignored.
func SliceSize(width, height int) Size {
	if width <= 0 {
		return Size{}
	}
	return Size{width, height / width, width}
}

// Volume addresses a sliced PixelBuffer as a 3D voxel grid.
type Volume struct {
	buf  *PixelBuffer
	size Size
}

// NewVolume wraps buf. It fails with ErrNoSource when buf is nil or empty.
func NewVolume(buf *PixelBuffer) (*Volume, error) {
	if buf == nil || buf.Width <= 0 {
		return nil, ErrNoSource
	}
	if len(buf.Pix) < buf.Width*buf.Height {
		return nil, fmt.Errorf("voxel: pixel buffer holds %d pixels, want %d", len(buf.Pix), buf.Width*buf.Height)
	}
	return &Volume{buf: buf, size: SliceSize(buf.Width, buf.Height)}, nil
}

// Size returns the volume dimensions.
func (v *Volume) Size() Size { return v.size }

// ColorAt returns the color of voxel c, read from pixel
// (c.x, c.z + c.y*depth). c must be inside the volume.
func (v *Volume) ColorAt(c Coord) Color {
	return v.buf.At(c[0], c[2]+c[1]*v.size[2])
}
