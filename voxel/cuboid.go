package voxel

import "fmt"

// Cuboid is an axis-aligned box of voxels with inclusive corners.
type Cuboid struct {
	From, To Coord
}

func (b Cuboid) String() string { return fmt.Sprintf("%v..%v", b.From, b.To) }

// Extent returns the number of voxels along each axis.
func (b Cuboid) Extent() Size {
	return Size{b.To[0] - b.From[0] + 1, b.To[1] - b.From[1] + 1, b.To[2] - b.From[2] + 1}
}

// Volume returns the number of voxels in the box.
func (b Cuboid) Volume() int { return b.Extent().Len() }

// Contains reports whether c lies inside the box.
func (b Cuboid) Contains(c Coord) bool {
	for i := range c {
		if c[i] < b.From[i] || c[i] > b.To[i] {
			return false
		}
	}
	return true
}

// Overlaps reports whether the two boxes share a voxel.
func (b Cuboid) Overlaps(o Cuboid) bool {
	for i := 0; i < 3; i++ {
		if b.To[i] < o.From[i] || o.To[i] < b.From[i] {
			return false
		}
	}
	return true
}

// Each calls fn for every voxel in x, y, z nesting order until fn returns
// false. It reports whether the walk completed.
func (b Cuboid) Each(fn func(Coord) bool) bool {
	var mid Coord
	for mid[0] = b.From[0]; mid[0] <= b.To[0]; mid[0]++ {
		for mid[1] = b.From[1]; mid[1] <= b.To[1]; mid[1]++ {
			for mid[2] = b.From[2]; mid[2] <= b.To[2]; mid[2]++ {
				if !fn(mid) {
					return false
				}
			}
		}
	}
	return true
}
