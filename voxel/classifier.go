package voxel

// ElementID identifies a palette element by its index. NoElement marks a
// color that no element claims; it compares equal only to itself.
type ElementID int

// NoElement is the classification of a color matched by no palette element.
const NoElement ElementID = -1

// Valid reports whether id names a palette element.
func (id ElementID) Valid() bool { return id >= 0 }

// Element is a named palette entry with its representative colors.
type Element struct {
	Name   string
	Colors []Color
}

// Classifier matches colors against an ordered palette.
type Classifier struct {
	elements []Element
}

// NewClassifier returns a classifier over elements. The slice is read, not
// copied; callers must not mutate it during an import.
func NewClassifier(elements []Element) *Classifier {
	return &Classifier{elements: elements}
}

// Name returns the element name for id, or "" for NoElement.
func (c *Classifier) Name(id ElementID) string {
	if !id.Valid() || int(id) >= len(c.elements) {
		return ""
	}
	return c.elements[id].Name
}

// Classify returns the first element owning a color Same as col, together
// with that representative color. Unmatched colors classify as NoElement and
// carry themselves as the matched color.
func (c *Classifier) Classify(col Color) (ElementID, Color) {
	for i, e := range c.elements {
		for _, ec := range e.Colors {
			if Same(ec, col) {
				return ElementID(i), ec
			}
		}
	}
	return NoElement, col
}

// Matches reports whether any palette color is Same as col.
func (c *Classifier) Matches(col Color) bool {
	id, _ := c.Classify(col)
	return id.Valid()
}

// ForgottenColors lists the distinct opaque colors of buf that no palette
// color matches, in order of first appearance.
func (c *Classifier) ForgottenColors(buf *PixelBuffer) []Color {
	if buf == nil {
		return nil
	}
	seen := make(map[Color]struct{})
	var out []Color
	for _, px := range buf.Pix {
		if !px.Opaque() {
			continue
		}
		if _, ok := seen[px]; ok {
			continue
		}
		seen[px] = struct{}{}
		if !c.Matches(px) {
			out = append(out, px)
		}
	}
	return out
}
