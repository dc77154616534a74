package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelsplace/voxslicer/voxel"
)

const yamlImporter = `
slices: layers.png
origin: top
elements:
  - name: stone
    colors: ["#808080", "#7f7f7f"]
  - name: leaf
    colors: ["#00ff00"]
`

const tomlImporter = `
slices = "/abs/layers.png"

[[elements]]
name = "stone"
colors = ["#808080"]
`

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "importer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlImporter), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "top", cfg.Origin)
	assert.Equal(t, filepath.Join(dir, "layers.png"), cfg.SlicesPath())

	pal, err := cfg.Palette()
	require.NoError(t, err)
	require.Len(t, pal, 2)
	assert.Equal(t, "stone", pal[0].Name)
	assert.Len(t, pal[0].Colors, 2)
	assert.Equal(t, "#00ff00", pal[1].Colors[0].Hex())
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "importer.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlImporter), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/abs/layers.png", cfg.SlicesPath())
	assert.Equal(t, "bottom", cfg.Origin)
	require.Len(t, cfg.Elements, 1)
	assert.Equal(t, []string{"#808080"}, cfg.Elements[0].Colors)
}

func TestLoad_MissingIsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yml"))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.SlicesPath())
	assert.Empty(t, cfg.Elements)
}

func TestLoad_UnknownFormat(t *testing.T) {
	_, err := Load("importer.json")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestPalette_BadColor(t *testing.T) {
	cfg := &Importer{Elements: []Element{{Name: "bad", Colors: []string{"red"}}}}
	_, err := cfg.Palette()
	assert.ErrorContains(t, err, `element "bad"`)
}

func TestSave_RoundTrip(t *testing.T) {
	for _, name := range []string{"out.yaml", "out.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			cfg := Default()
			cfg.Slices = "layers.png"
			cfg.Elements = []Element{{Name: "stone", Colors: []string{"#808080"}}}
			cfg.SetForgotten([]voxel.Color{{R: 1, A: 1}})
			require.NoError(t, Save(cfg, path))

			back, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg.Slices, back.Slices)
			assert.Equal(t, cfg.Elements, back.Elements)
			assert.Equal(t, []string{"#ff0000"}, back.ForgottenColors)
		})
	}
}
