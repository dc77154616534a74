// Package export turns voxel placements into files: a binary glTF scene with
// one box per cuboid, and a compact cuboid pack.
package export

import "github.com/voxelsplace/voxslicer/voxel"

// face is one side of a box. corners select, per axis, the low (0) or high
// (1) bound of the box, listed counter-clockwise seen from outside.
type face struct {
	normal  [3]float32
	corners [4][3]uint8
}

var boxFaces = [6]face{
	{[3]float32{1, 0, 0}, [4][3]uint8{{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}}},
	{[3]float32{-1, 0, 0}, [4][3]uint8{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}},
	{[3]float32{0, 1, 0}, [4][3]uint8{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}},
	{[3]float32{0, -1, 0}, [4][3]uint8{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}},
	{[3]float32{0, 0, 1}, [4][3]uint8{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}},
	{[3]float32{0, 0, -1}, [4][3]uint8{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}},
}

// Vertex is a mesh vertex with a flat normal and an RGBA8 color.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [4]uint8
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// AddCuboid appends the six faces of b. The box spans From to To+1 so that
// voxel v covers the unit cell [v, v+1).
func (m *Mesh) AddCuboid(b voxel.Cuboid, color [4]uint8) {
	var bounds [2][3]float32
	for a := 0; a < 3; a++ {
		bounds[0][a] = float32(b.From[a])
		bounds[1][a] = float32(b.To[a] + 1)
	}
	for _, f := range boxFaces {
		first := uint32(len(m.Vertices))
		for _, sel := range f.corners {
			m.Vertices = append(m.Vertices, Vertex{
				Position: [3]float32{bounds[sel[0]][0], bounds[sel[1]][1], bounds[sel[2]][2]},
				Normal:   f.normal,
				Color:    color,
			})
		}
		m.Indices = append(m.Indices, first, first+1, first+2, first, first+2, first+3)
	}
}

// Bounds returns the min and max vertex positions.
func (m *Mesh) Bounds() (lo, hi [3]float32) {
	for i, v := range m.Vertices {
		for a := 0; a < 3; a++ {
			if i == 0 || v.Position[a] < lo[a] {
				lo[a] = v.Position[a]
			}
			if i == 0 || v.Position[a] > hi[a] {
				hi[a] = v.Position[a]
			}
		}
	}
	return lo, hi
}
