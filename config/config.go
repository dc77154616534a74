// Package config loads and saves importer files: the source image path, the
// palette of named elements and the diagnostic list of forgotten colors.
// YAML and TOML are supported, chosen by file extension.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/voxelsplace/voxslicer/voxel"
)

// ErrUnknownFormat is returned for file extensions other than .yaml, .yml
// and .toml.
var ErrUnknownFormat = errors.New("config: unknown file format")

// Format is the serialization of an importer file.
type Format int

const (
	YAML Format = iota
	TOML
)

// Element is a palette entry as written in the file.
type Element struct {
	Name   string   `yaml:"name" toml:"name"`
	Colors []string `yaml:"colors" toml:"colors"`
}

// Importer is the content of an importer file.
type Importer struct {
	// Slices is the sliced source image. Relative paths are resolved
	// against the importer file directory.
	Slices string `yaml:"slices" toml:"slices"`

	// Origin is "bottom" when layer 0 is the bottom band of the image
	// (texture convention) or "top".
	Origin string `yaml:"origin" toml:"origin"`

	Elements []Element `yaml:"elements" toml:"elements"`

	// ForgottenColors lists source colors no element matches. Written back
	// by the forgotten command.
	ForgottenColors []string `yaml:"forgottenColors,omitempty" toml:"forgottenColors,omitempty"`

	dir string
}

// Default returns an importer with no source and an empty palette.
func Default() *Importer {
	return &Importer{Origin: "bottom"}
}

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return YAML, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Load reads an importer file. A missing file yields Default.
func Load(path string) (*Importer, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	cfg.dir = filepath.Dir(path)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading importer file: %w", err)
	}
	if err := Decode(data, format, cfg); err != nil {
		return nil, fmt.Errorf("error parsing importer file %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses data in the given format into cfg.
func Decode(data []byte, format Format, cfg *Importer) error {
	switch format {
	case TOML:
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

// Encode serializes cfg in the given format.
func Encode(cfg *Importer, format Format) ([]byte, error) {
	switch format {
	case TOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return yaml.Marshal(cfg)
	}
}

// Save writes cfg to path, creating the directory if needed.
func Save(cfg *Importer, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating importer directory: %w", err)
	}
	data, err := Encode(cfg, format)
	if err != nil {
		return fmt.Errorf("error marshaling importer: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing importer file: %w", err)
	}
	return nil
}

// SlicesPath returns the source image path resolved against the file
// directory, or "" when no source is set.
func (c *Importer) SlicesPath() string {
	if c.Slices == "" {
		return ""
	}
	if filepath.IsAbs(c.Slices) || c.dir == "" {
		return c.Slices
	}
	return filepath.Join(c.dir, c.Slices)
}

// Palette parses the element colors.
func (c *Importer) Palette() ([]voxel.Element, error) {
	out := make([]voxel.Element, 0, len(c.Elements))
	for _, e := range c.Elements {
		el := voxel.Element{Name: e.Name, Colors: make([]voxel.Color, 0, len(e.Colors))}
		for _, h := range e.Colors {
			col, err := voxel.ParseHexColor(h)
			if err != nil {
				return nil, fmt.Errorf("element %q: %w", e.Name, err)
			}
			el.Colors = append(el.Colors, col)
		}
		out = append(out, el)
	}
	return out, nil
}

// SetForgotten replaces the forgotten colors list.
func (c *Importer) SetForgotten(colors []voxel.Color) {
	c.ForgottenColors = make([]string, len(colors))
	for i, col := range colors {
		c.ForgottenColors[i] = col.Hex()
	}
}
