package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSame_Threshold(t *testing.T) {
	base := Color{0, 0, 0, 1}
	assert.True(t, Same(base, Color{0.0199, 0, 0, 1}))
	assert.False(t, Same(base, Color{0.02, 0, 0, 1}))
	assert.False(t, Same(base, Color{0, 0, 0.03, 1}))
}

func TestSame_IgnoresAlpha(t *testing.T) {
	assert.True(t, Same(Color{0.5, 0.5, 0.5, 1}, Color{0.5, 0.5, 0.5, 0.2}))
}

func TestSame_SymmetricReflexiveNotTransitive(t *testing.T) {
	a := Color{0, 0, 0, 1}
	b := Color{0.015, 0, 0, 1}
	c := Color{0.03, 0, 0, 1}

	assert.True(t, Same(a, a))
	assert.Equal(t, Same(a, b), Same(b, a))
	assert.True(t, Same(a, b))
	assert.True(t, Same(b, c))
	assert.False(t, Same(a, c), "a~b and b~c must not imply a~c")
}

func TestColor_AirAndOpaque(t *testing.T) {
	assert.True(t, Color{1, 1, 1, 0.09}.Air())
	assert.False(t, Color{1, 1, 1, 0.1}.Air())
	assert.True(t, Color{1, 1, 1, 0.05}.Opaque())
	assert.False(t, air.Opaque())
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, [4]uint8{255, 128, 0, 255}, c.RGBA8())
	assert.Equal(t, "#ff8000", c.Hex())

	c, err = ParseHexColor("#00000080")
	require.NoError(t, err)
	assert.Equal(t, "#00000080", c.Hex())

	for _, bad := range []string{"", "ff0000", "#ff00", "#gg0000"} {
		_, err := ParseHexColor(bad)
		assert.Error(t, err, bad)
	}
}
