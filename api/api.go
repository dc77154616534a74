// Package api exposes the slicer as in-memory byte conversions, for the
// wasm bindings and for embedding.
package api

import (
	"bytes"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/voxelsplace/voxslicer/config"
	"github.com/voxelsplace/voxslicer/export"
	"github.com/voxelsplace/voxslicer/source"
	"github.com/voxelsplace/voxslicer/voxel"
)

// Report is the outcome of importing one sliced image.
type Report struct {
	Size       voxel.Size
	Placements []voxel.Placement
	Voxels     int
	// Forgotten lists source colors no element matches.
	Forgotten []voxel.Color
}

// Options configures an in-memory import.
type Options struct {
	Palette []voxel.Element
	Origin  source.Origin
	// Placer receives placements while scanning. Nil means none.
	Placer voxel.Placer
	Log    logrus.FieldLogger
}

// OptionsFromImporter builds Options from importer file content in the
// given format.
func OptionsFromImporter(data []byte, format config.Format) (Options, error) {
	cfg := config.Default()
	if len(data) > 0 {
		if err := config.Decode(data, format, cfg); err != nil {
			return Options{}, fmt.Errorf("failed to parse importer: %w", err)
		}
	}
	pal, err := cfg.Palette()
	if err != nil {
		return Options{}, err
	}
	origin, err := source.ParseOrigin(cfg.Origin)
	if err != nil {
		return Options{}, err
	}
	return Options{Palette: pal, Origin: origin}, nil
}

// Import decodes a sliced image and decomposes it into cuboids.
func Import(ctx context.Context, img []byte, opts Options) (*Report, error) {
	if len(img) == 0 {
		return nil, voxel.ErrNoSource
	}
	buf, _, err := source.Decode(bytes.NewReader(img), opts.Origin)
	if err != nil {
		return nil, err
	}
	return ImportBuffer(ctx, buf, opts)
}

// ImportBuffer decomposes an already decoded pixel buffer.
func ImportBuffer(ctx context.Context, buf *voxel.PixelBuffer, opts Options) (*Report, error) {
	vol, err := voxel.NewVolume(buf)
	if err != nil {
		return nil, err
	}
	s := voxel.NewScanner(opts.Palette)
	s.Placer = opts.Placer
	if opts.Log != nil {
		s.Log = opts.Log
	}
	res, err := s.Import(ctx, vol)
	if err != nil {
		return nil, err
	}
	return &Report{
		Size:       res.Size,
		Placements: res.Placements,
		Voxels:     res.Voxels,
		Forgotten:  s.Classifier.ForgottenColors(buf),
	}, nil
}

// ImageToGLB converts a sliced image to a binary glTF scene.
func ImageToGLB(ctx context.Context, img []byte, opts Options) ([]byte, error) {
	g := export.NewGLB()
	opts.Placer = teeWith(opts.Placer, g)
	if _, err := Import(ctx, img, opts); err != nil {
		return nil, err
	}
	return g.Bytes()
}

// ImageToPack converts a sliced image to a cuboid pack.
func ImageToPack(ctx context.Context, img []byte, opts Options, comp export.PackCompression) ([]byte, error) {
	rep, err := Import(ctx, img, opts)
	if err != nil {
		return nil, err
	}
	p := export.NewPack(rep.Size)
	p.Placements = rep.Placements
	return p.Marshal(comp)
}

// PackToGLB converts a cuboid pack to a binary glTF scene.
func PackToGLB(pack []byte) ([]byte, error) {
	p, _, err := export.UnmarshalPack(pack)
	if err != nil {
		return nil, err
	}
	return export.PlacementsToGLB(p.Placements).Bytes()
}

// ForgottenColors returns the hex codes of source colors no element
// matches.
func ForgottenColors(img []byte, opts Options) ([]string, error) {
	if len(img) == 0 {
		return nil, voxel.ErrNoSource
	}
	buf, _, err := source.Decode(bytes.NewReader(img), opts.Origin)
	if err != nil {
		return nil, err
	}
	colors := voxel.NewClassifier(opts.Palette).ForgottenColors(buf)
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = c.Hex()
	}
	return out, nil
}

func teeWith(p voxel.Placer, q voxel.Placer) voxel.Placer {
	if p == nil {
		return q
	}
	return voxel.Tee(p, q)
}
