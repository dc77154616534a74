package voxel

// sliced builds a pixel buffer for a w x layers x w volume, calling fill for
// every voxel.
func sliced(w, layers int, fill func(c Coord) Color) *PixelBuffer {
	buf := NewPixelBuffer(w, w*layers)
	size := SliceSize(w, w*layers)
	var c Coord
	for c[1] = 0; c[1] < size[1]; c[1]++ {
		for c[0] = 0; c[0] < size[0]; c[0]++ {
			for c[2] = 0; c[2] < size[2]; c[2]++ {
				buf.Set(c[0], c[2]+c[1]*size[2], fill(c))
			}
		}
	}
	return buf
}

var (
	red   = Color{1, 0, 0, 1}
	green = Color{0, 1, 0, 1}
	blue  = Color{0, 0, 1, 1}
	air   = Color{}
)
