package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// orient returns the sign of the turn a->b->c, 0 when the three points are
// collinear within tol.
func orient(a, b, c r2.Vec, tol float64) int {
	d := Cross(r2.Sub(b, a), r2.Sub(c, a))
	switch {
	case d > tol:
		return 1
	case d < -tol:
		return -1
	}
	return 0
}

// onSegment reports whether c, collinear with a and b, lies within their box.
func onSegment(a, b, c r2.Vec, tol float64) bool {
	return math.Min(a.X, b.X)-tol <= c.X && c.X <= math.Max(a.X, b.X)+tol &&
		math.Min(a.Y, b.Y)-tol <= c.Y && c.Y <= math.Max(a.Y, b.Y)+tol
}

// SegmentsIntersect reports whether segments p0p1 and q0q1 share a point,
// touching and collinear overlap included.
func SegmentsIntersect(p0, p1, q0, q1 r2.Vec, tol float64) bool {
	o1 := orient(p0, p1, q0, tol)
	o2 := orient(p0, p1, q1, tol)
	o3 := orient(q0, q1, p0, tol)
	o4 := orient(q0, q1, p1, tol)
	if o1 != o2 && o3 != o4 {
		return true
	}
	return (o1 == 0 && onSegment(p0, p1, q0, tol)) ||
		(o2 == 0 && onSegment(p0, p1, q1, tol)) ||
		(o3 == 0 && onSegment(q0, q1, p0, tol)) ||
		(o4 == 0 && onSegment(q0, q1, p1, tol))
}
