package voxel

// growState is the round-robin box grower. The cursor is advanced before
// every pick, so with the initial cursor at AxisY the first axis tried is Z,
// then X, then Y.
type growState struct {
	cursor    Axis
	available [3]bool
	committed Coord
	tentative Coord
}

func newGrowState(seed Coord) *growState {
	return &growState{
		cursor:    AxisY,
		available: [3]bool{true, true, true},
		committed: seed,
		tentative: seed,
	}
}

func (s *growState) done() bool {
	return !s.available[AxisX] && !s.available[AxisY] && !s.available[AxisZ]
}

// next moves the cursor to the following available axis, wrapping mod 3.
func (s *growState) next() Axis {
	for {
		s.cursor = (s.cursor + 1) % 3
		if s.available[s.cursor] {
			return s.cursor
		}
	}
}

func (s *growState) reject(axis Axis) {
	s.available[axis] = false
	s.tentative = s.committed
}

// Grow expands a box with corner seed one unit at a time per axis until no
// axis can grow. A step is accepted only when the tentative corner is inside
// size and same holds for every voxel of the whole box seed..corner; a
// rejected axis is never retried. The returned corner is the far inclusive
// corner, seed being the near one.
//
// The whole box is re-checked on every step because same may depend on
// state other than the voxel color.
func Grow(seed Coord, size Size, same func(Coord) bool) Coord {
	s := newGrowState(seed)
	for !s.done() {
		axis := s.next()
		s.tentative[axis]++

		ok := size.Contains(s.tentative)
		if ok {
			ok = Cuboid{From: seed, To: s.tentative}.Each(same)
		}

		if ok {
			s.committed = s.tentative
		} else {
			s.reject(axis)
		}
	}
	return s.committed
}
