// Package source decodes sliced images into pixel buffers.
package source

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/voxelsplace/voxslicer/voxel"
)

// ErrUnsupported is returned for image formats without a registered decoder.
var ErrUnsupported = errors.New("source: unsupported image format")

// Origin selects which image row becomes buffer row 0.
type Origin int

const (
	// OriginBottom puts the bottom image row first, the usual texture
	// convention where layer 0 is the lowest band of the image.
	OriginBottom Origin = iota
	// OriginTop keeps the image row order.
	OriginTop
)

// ParseOrigin accepts "bottom" (or "") and "top".
func ParseOrigin(s string) (Origin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bottom":
		return OriginBottom, nil
	case "top":
		return OriginTop, nil
	}
	return OriginBottom, fmt.Errorf("source: unknown origin %q", s)
}

func (o Origin) String() string {
	if o == OriginTop {
		return "top"
	}
	return "bottom"
}

// Decode reads an image and converts it to a pixel buffer.
func Decode(r io.Reader, origin Origin) (*voxel.PixelBuffer, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", ErrUnsupported
		}
		return nil, "", fmt.Errorf("source: decode: %w", err)
	}
	return FromImage(img, origin), format, nil
}

// Load decodes the image file at path.
func Load(path string, origin Origin) (*voxel.PixelBuffer, error) {
	if path == "" {
		return nil, voxel.ErrNoSource
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", voxel.ErrNoSource, path)
		}
		return nil, err
	}
	defer f.Close()
	buf, _, err := Decode(f, origin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// FromImage converts img to non-premultiplied [0,1] colors.
func FromImage(img image.Image, origin Origin) *voxel.PixelBuffer {
	b := img.Bounds()
	buf := voxel.NewPixelBuffer(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := y
		if origin == OriginBottom {
			row = b.Dy() - 1 - y
		}
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			buf.Set(x, row, voxel.Color{
				R: float32(c.R) / 0xffff,
				G: float32(c.G) / 0xffff,
				B: float32(c.B) / 0xffff,
				A: float32(c.A) / 0xffff,
			})
		}
	}
	return buf
}

// ToImage converts a pixel buffer back to an image, honoring origin.
func ToImage(buf *voxel.PixelBuffer, origin Origin) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for row := 0; row < buf.Height; row++ {
		y := row
		if origin == OriginBottom {
			y = buf.Height - 1 - row
		}
		for x := 0; x < buf.Width; x++ {
			q := buf.At(x, row).RGBA8()
			img.SetNRGBA(x, y, color.NRGBA{R: q[0], G: q[1], B: q[2], A: q[3]})
		}
	}
	return img
}
