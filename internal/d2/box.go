package d2

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Box is a 2d bounding box.
type Box r2.Box

// Include enlarges a 2d box to include a point.
func (a Box) Include(v r2.Vec) Box {
	return Box{MinElem(a.Min, v), MaxElem(a.Max, v)}
}

// Size returns the size of a 2d box.
func (a Box) Size() r2.Vec {
	return r2.Sub(a.Max, a.Min)
}

// Enlarge returns a new 2d box enlarged by a size vector.
func (a Box) Enlarge(v r2.Vec) Box {
	v = r2.Scale(0.5, v)
	return Box{r2.Sub(a.Min, v), r2.Add(a.Max, v)}
}

// Overlaps reports whether two boxes share any point.
func (a Box) Overlaps(b Box) bool {
	return Overlap(r2.Vec{X: a.Min.X, Y: a.Max.X}, r2.Vec{X: b.Min.X, Y: b.Max.X}) &&
		Overlap(r2.Vec{X: a.Min.Y, Y: a.Max.Y}, r2.Vec{X: b.Min.Y, Y: b.Max.Y})
}
