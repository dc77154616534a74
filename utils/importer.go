package utils

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/voxelsplace/voxslicer/config"
	"github.com/voxelsplace/voxslicer/export"
	"github.com/voxelsplace/voxslicer/source"
	"github.com/voxelsplace/voxslicer/voxel"
)

// Session is an importer file loaded together with its source image.
type Session struct {
	Path    string
	Config  *config.Importer
	Palette []voxel.Element
	Pixels  *voxel.PixelBuffer

	forgotten voxel.ForgottenCache
}

// Open loads the importer file at cfgPath and its source image. A missing
// source fails with voxel.ErrNoSource.
func Open(cfgPath string) (*Session, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	pal, err := cfg.Palette()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfgPath, err)
	}
	origin, err := source.ParseOrigin(cfg.Origin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfgPath, err)
	}
	buf, err := source.Load(cfg.SlicesPath(), origin)
	if err != nil {
		return nil, err
	}
	return &Session{Path: cfgPath, Config: cfg, Palette: pal, Pixels: buf}, nil
}

// Import scans the session volume, handing placements to placer.
func (s *Session) Import(ctx context.Context, placer voxel.Placer, log logrus.FieldLogger) (*voxel.Result, error) {
	vol, err := voxel.NewVolume(s.Pixels)
	if err != nil {
		return nil, err
	}
	sc := voxel.NewScanner(s.Palette)
	sc.Placer = placer
	if log != nil {
		sc.Log = log
	}
	return sc.Import(ctx, vol)
}

// Forgotten returns the source colors no element matches.
func (s *Session) Forgotten() []voxel.Color {
	return s.forgotten.Colors(s.Palette, s.Pixels)
}

// RunImport imports the sliced image without a placement sink, so every box
// raises the not-implemented diagnostic, and prints a summary.
func RunImport(ctx context.Context, cfgPath string, log logrus.FieldLogger) error {
	s, err := Open(cfgPath)
	if err != nil {
		return err
	}
	res, err := s.Import(ctx, nil, log)
	if err != nil {
		return err
	}
	fmt.Printf("volume %v: %d cuboids covering %d voxels\n", res.Size, len(res.Placements), res.Voxels)
	printForgotten(s.Forgotten())
	return nil
}

// RunSliced2GLB imports the sliced image and writes a binary glTF scene.
func RunSliced2GLB(ctx context.Context, cfgPath, outPath string, log logrus.FieldLogger) error {
	s, err := Open(cfgPath)
	if err != nil {
		return err
	}
	g := export.NewGLB()
	res, err := s.Import(ctx, g, log)
	if err != nil {
		return err
	}
	if err := g.Save(outPath); err != nil {
		return fmt.Errorf("failed to save GLB: %w", err)
	}
	report(outPath, ".glb", len(res.Placements))
	return nil
}

// RunSliced2Pack imports the sliced image and writes a cuboid pack.
func RunSliced2Pack(ctx context.Context, cfgPath, outPath string, comp export.PackCompression, log logrus.FieldLogger) error {
	s, err := Open(cfgPath)
	if err != nil {
		return err
	}
	p := export.NewPack(voxel.SliceSize(s.Pixels.Width, s.Pixels.Height))
	if _, err := s.Import(ctx, p, log); err != nil {
		return err
	}
	if err := export.SavePack(p, outPath, comp); err != nil {
		return fmt.Errorf("failed to save pack: %w", err)
	}
	report(outPath, ".vbox", len(p.Placements))
	return nil
}

// RunPack2GLB converts a cuboid pack file to a binary glTF scene.
func RunPack2GLB(inPath, outPath string) error {
	p, err := export.LoadPack(inPath)
	if err != nil {
		return err
	}
	if err := export.PlacementsToGLB(p.Placements).Save(outPath); err != nil {
		return fmt.Errorf("failed to save GLB: %w", err)
	}
	report(outPath, ".glb", len(p.Placements))
	return nil
}

// RunForgotten prints the colors of the source image no element matches.
// With write set, the list is stored back into the importer file.
func RunForgotten(cfgPath string, write bool) error {
	s, err := Open(cfgPath)
	if err != nil {
		return err
	}
	colors := s.Forgotten()
	printForgotten(colors)
	if !write {
		return nil
	}
	s.Config.SetForgotten(colors)
	if err := config.Save(s.Config, cfgPath); err != nil {
		return err
	}
	fmt.Printf("forgotten colors written to %s\n", cfgPath)
	return nil
}

func printForgotten(colors []voxel.Color) {
	if len(colors) == 0 {
		fmt.Println("no forgotten colors")
		return
	}
	fmt.Printf("%d forgotten colors:\n", len(colors))
	for _, c := range colors {
		fmt.Printf("  %s\n", c.Hex())
	}
}

func report(path, kind string, boxes int) {
	if fi, err := os.Stat(path); err == nil {
		fmt.Printf("%s saved (%d cuboids, %d bytes)\n", kind, boxes, fi.Size())
	} else {
		fmt.Printf("%s saved.\n", kind)
	}
}
