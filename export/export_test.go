package export

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelsplace/voxslicer/voxel"
)

func testPlacements() []voxel.Placement {
	return []voxel.Placement{
		{
			Cuboid:  voxel.Cuboid{From: voxel.Coord{0, 0, 0}, To: voxel.Coord{1, 0, 3}},
			Element: 2,
			Name:    "stone",
			Color:   voxel.Color8(128, 128, 128, 255),
		},
		{
			Cuboid:  voxel.Cuboid{From: voxel.Coord{2, 1, 0}, To: voxel.Coord{2, 1, 0}},
			Element: voxel.NoElement,
			Color:   voxel.Color8(255, 0, 255, 255),
		},
		{
			Cuboid:  voxel.Cuboid{From: voxel.Coord{0, 1, 0}, To: voxel.Coord{0, 2, 1}},
			Element: 2,
			Name:    "stone",
			Color:   voxel.Color8(128, 128, 128, 255),
		},
	}
}

func TestMesh_AddCuboid(t *testing.T) {
	var m Mesh
	m.AddCuboid(voxel.Cuboid{From: voxel.Coord{1, 2, 3}, To: voxel.Coord{2, 2, 5}}, [4]uint8{1, 2, 3, 255})
	assert.Len(t, m.Vertices, 24)
	assert.Len(t, m.Indices, 36)

	lo, hi := m.Bounds()
	assert.Equal(t, [3]float32{1, 2, 3}, lo)
	assert.Equal(t, [3]float32{3, 3, 6}, hi)

	// every vertex lies on the plane its normal points out of.
	for i, v := range m.Vertices {
		for a := 0; a < 3; a++ {
			switch {
			case v.Normal[a] > 0:
				assert.Equal(t, hi[a], v.Position[a], "vertex %d", i)
			case v.Normal[a] < 0:
				assert.Equal(t, lo[a], v.Position[a], "vertex %d", i)
			}
		}
	}

	// every triangle winds outward: its geometric normal matches the
	// stored vertex normal.
	for i := 0; i < len(m.Indices); i += 3 {
		a, b, c := m.Vertices[m.Indices[i]], m.Vertices[m.Indices[i+1]], m.Vertices[m.Indices[i+2]]
		e1 := sub(b.Position, a.Position)
		e2 := sub(c.Position, a.Position)
		n := cross(e1, e2)
		dot := n[0]*a.Normal[0] + n[1]*a.Normal[1] + n[2]*a.Normal[2]
		assert.Greater(t, dot, float32(0), "triangle %d", i/3)
	}
}

func sub(a, b [3]float32) [3]float32 { return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
}

func TestGLB_Document(t *testing.T) {
	g := PlacementsToGLB(testPlacements())
	doc := g.Document()

	require.Len(t, doc.Meshes, 2)
	assert.Equal(t, "stone", doc.Meshes[0].Name)
	assert.Equal(t, Unclassified, doc.Meshes[1].Name)
	assert.Len(t, doc.Nodes, 2)
	assert.Len(t, doc.Scenes[0].Nodes, 2)
	assert.Equal(t, gltf.AlphaOpaque, doc.Materials[0].AlphaMode)

	stone := doc.Meshes[0].Primitives[0]
	assert.EqualValues(t, 48, doc.Accessors[stone.Attributes[gltf.POSITION]].Count)
}

func TestGLB_EncodeDecode(t *testing.T) {
	data, err := PlacementsToGLB(testPlacements()).Bytes()
	require.NoError(t, err)
	assert.Equal(t, "glTF", string(data[:4]))

	var doc gltf.Document
	require.NoError(t, gltf.NewDecoder(bytes.NewReader(data)).Decode(&doc))
	assert.Len(t, doc.Meshes, 2)
	assert.Equal(t, "voxslicer", doc.Asset.Generator)

	path := filepath.Join(t.TempDir(), "scene.glb")
	require.NoError(t, PlacementsToGLB(testPlacements()).Save(path))
	opened, err := gltf.Open(path)
	require.NoError(t, err)
	assert.Len(t, opened.Nodes, 2)
}

func TestPack_RoundTrip(t *testing.T) {
	for _, comp := range []PackCompression{PackCompNone, PackCompZlib, PackCompZstd} {
		p := NewPack(voxel.Size{3, 3, 4})
		for _, pl := range testPlacements() {
			require.NoError(t, p.Place(pl))
		}
		data, err := p.Marshal(comp)
		require.NoError(t, err)

		back, gotComp, err := UnmarshalPack(data)
		require.NoError(t, err)
		assert.Equal(t, comp, gotComp)
		assert.Equal(t, p.Size, back.Size)
		if diff := cmp.Diff(p.Placements, back.Placements); diff != "" {
			t.Fatalf("comp %d: placements mismatch (-want +got):\n%s", comp, diff)
		}
	}
}

func TestPack_Empty(t *testing.T) {
	data, err := NewPack(voxel.Size{}).Marshal(PackCompZstd)
	require.NoError(t, err)
	back, _, err := UnmarshalPack(data)
	require.NoError(t, err)
	assert.Empty(t, back.Placements)
}

func TestPack_Corrupt(t *testing.T) {
	p := NewPack(voxel.Size{3, 3, 4})
	p.Placements = testPlacements()
	data, err := p.Marshal(PackCompNone)
	require.NoError(t, err)

	t.Run("magic", func(t *testing.T) {
		_, _, err := UnmarshalPack([]byte("NOPE0000000000"))
		assert.ErrorIs(t, err, ErrBadPack)
	})
	t.Run("checksum", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[packHeaderLen] ^= 0xff
		_, _, err := UnmarshalPack(bad)
		assert.ErrorIs(t, err, ErrBadPack)
	})
	t.Run("compression", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[5] = 9
		_, _, err := UnmarshalPack(bad)
		assert.ErrorIs(t, err, ErrBadPack)
	})
}

func TestPack_ImplausibleCounts(t *testing.T) {
	header := func() []byte {
		var c []byte
		for _, v := range []uint32{1, 1, 1} {
			c = writeUVarint(c, v)
		}
		return c
	}
	cases := map[string][]byte{
		"elements": writeUVarint(header(), 0xFFFFFFFF),
		"colors":   writeUVarint(writeUVarint(header(), 0), 0xFFFFFFFF),
		"cuboids":  writeUVarint(writeUVarint(writeUVarint(header(), 0), 0), 0xFFFFFFFF),
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := UnmarshalPack(frame(PackCompNone, content, content))
			assert.ErrorIs(t, err, ErrBadPack)
			assert.ErrorContains(t, err, "exceeds content")
		})
	}
}

func TestReadUVarint(t *testing.T) {
	for _, v := range []uint32{0, 1, 127, 128, 300, 1 << 28, 0xFFFFFFFF} {
		pos := 0
		got, err := readUVarint(writeUVarint(nil, v), &pos)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	t.Run("overflow", func(t *testing.T) {
		pos := 0
		_, err := readUVarint([]byte{0xff, 0xff, 0xff, 0xff, 0x7f}, &pos)
		assert.ErrorIs(t, err, errVarintOverflow)
		assert.Equal(t, 0, pos)

		_, err = readUVarint([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, &pos)
		assert.ErrorIs(t, err, errVarintOverflow)
	})
	t.Run("truncated", func(t *testing.T) {
		pos := 0
		_, err := readUVarint([]byte{0x80, 0x80}, &pos)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})
	t.Run("advances", func(t *testing.T) {
		src := writeUVarint(writeUVarint(nil, 300), 5)
		pos := 0
		a, err := readUVarint(src, &pos)
		require.NoError(t, err)
		b, err := readUVarint(src, &pos)
		require.NoError(t, err)
		assert.Equal(t, []uint32{300, 5}, []uint32{a, b})
		assert.Equal(t, len(src), pos)
	})
}

func TestPack_SaveLoad(t *testing.T) {
	p := NewPack(voxel.Size{3, 3, 4})
	p.Placements = testPlacements()
	path := filepath.Join(t.TempDir(), "boxes.vbox")
	require.NoError(t, SavePack(p, path, PackCompZlib))

	back, err := LoadPack(path)
	require.NoError(t, err)
	assert.Len(t, back.Placements, 3)
	assert.Equal(t, "stone", back.Placements[2].Name)

	_, err = LoadPack(filepath.Join(t.TempDir(), "missing.vbox"))
	assert.Error(t, err)
}

func TestParsePackCompression(t *testing.T) {
	c, err := ParsePackCompression("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, PackCompZstd, c)
	_, err = ParsePackCompression("lz4")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrBadPack))
}
