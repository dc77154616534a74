package voxel

// Visited is a dense boolean grid over a volume, stored in one allocation
// indexed x + y*W + z*W*H.
type Visited struct {
	size Size
	bits []bool
}

// NewVisited returns an all-false grid for size.
func NewVisited(size Size) *Visited {
	return &Visited{size: size, bits: make([]bool, size.Len())}
}

func (v *Visited) index(c Coord) int {
	return c[0] + c[1]*v.size[0] + c[2]*v.size[0]*v.size[1]
}

// At reports whether c has been visited.
func (v *Visited) At(c Coord) bool { return v.bits[v.index(c)] }

// Mark sets every voxel of the inclusive box.
func (v *Visited) Mark(b Cuboid) {
	b.Each(func(c Coord) bool {
		v.bits[v.index(c)] = true
		return true
	})
}

// Count returns the number of visited voxels.
func (v *Visited) Count() int {
	n := 0
	for _, b := range v.bits {
		if b {
			n++
		}
	}
	return n
}
