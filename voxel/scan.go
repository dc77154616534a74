package voxel

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Placement is emitted once per grown box.
type Placement struct {
	Cuboid
	// Element is the seed's classification.
	Element ElementID
	// Name is the element name, empty for NoElement.
	Name string
	// Color is the seed's matched color.
	Color Color
}

// Placer receives placements as the scanner emits them. An error is logged
// and does not stop the import.
type Placer interface {
	Place(p Placement) error
}

// PlacerFunc adapts a function to Placer.
type PlacerFunc func(p Placement) error

// Place calls f(p).
func (f PlacerFunc) Place(p Placement) error { return f(p) }

// Tee returns a Placer that hands every placement to each of ps in order.
func Tee(ps ...Placer) Placer {
	return PlacerFunc(func(p Placement) error {
		var errs []error
		for _, pl := range ps {
			if err := pl.Place(p); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// Result summarizes one import.
type Result struct {
	Size       Size
	Placements []Placement
	// Voxels is the number of opaque voxels covered by the placements.
	Voxels int
}

// Scanner sweeps a volume and decomposes its opaque voxels into cuboids.
type Scanner struct {
	Classifier *Classifier
	// Placer receives every placement. When nil, each placement is reported
	// as not implemented through Log.
	Placer Placer
	Log    logrus.FieldLogger
}

// NewScanner returns a scanner over palette with no placement sink.
func NewScanner(palette []Element) *Scanner {
	return &Scanner{
		Classifier: NewClassifier(palette),
		Log:        logrus.StandardLogger(),
	}
}

func (s *Scanner) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

// Import sweeps vol layer by layer (y, then x, then z) and grows one cuboid
// from every opaque voxel not yet covered. The cuboids partition the opaque
// voxels. Cancellation is only observed between layers.
func (s *Scanner) Import(ctx context.Context, vol *Volume) (*Result, error) {
	if vol == nil {
		return nil, ErrNoSource
	}
	cls := s.Classifier
	if cls == nil {
		cls = NewClassifier(nil)
	}
	log := s.logger()
	size := vol.Size()
	log.WithField("size", size.String()).Infof("Importing image of size: %v", size)

	res := &Result{Size: size}
	visited := NewVisited(size)

	var from Coord
	for from[1] = 0; from[1] < size[1]; from[1]++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		for from[0] = 0; from[0] < size[0]; from[0]++ {
			for from[2] = 0; from[2] < size[2]; from[2]++ {
				if visited.At(from) {
					continue
				}
				fromColor := vol.ColorAt(from)
				if fromColor.Air() {
					continue
				}
				fromElement, fromColor := cls.Classify(fromColor)

				same := func(c Coord) bool {
					if visited.At(c) {
						return false
					}
					cur := vol.ColorAt(c)
					if cur.Air() {
						return false
					}
					curElement, _ := cls.Classify(cur)
					return curElement == fromElement && Same(fromColor, cur)
				}

				box := Cuboid{From: from, To: Grow(from, size, same)}
				visited.Mark(box)

				p := Placement{Cuboid: box, Element: fromElement, Name: cls.Name(fromElement), Color: fromColor}
				res.Placements = append(res.Placements, p)
				res.Voxels += box.Volume()
				s.place(log, p)
			}
		}
	}
	return res, nil
}

func (s *Scanner) place(log logrus.FieldLogger, p Placement) {
	fields := logrus.Fields{
		"from":    p.From.String(),
		"to":      p.To.String(),
		"element": p.Name,
	}
	if s.Placer == nil {
		log.WithFields(fields).Error("Block placement is not implemented")
		return
	}
	if err := s.Placer.Place(p); err != nil {
		log.WithFields(fields).WithError(err).Warn("block placement failed")
	}
}
