package d2

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestSegmentsIntersect(t *testing.T) {
	for _, test := range []struct {
		name           string
		p0, p1, q0, q1 r2.Vec
		want           bool
	}{
		{"cross", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 2, Y: 2}, r2.Vec{X: 0, Y: 2}, r2.Vec{X: 2, Y: 0}, true},
		{"parallel", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 2, Y: 0}, r2.Vec{X: 0, Y: 1}, r2.Vec{X: 2, Y: 1}, false},
		{"touch end", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 0}, r2.Vec{X: 1, Y: 0}, r2.Vec{X: 1, Y: 1}, true},
		{"T junction", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 2, Y: 0}, r2.Vec{X: 1, Y: 0}, r2.Vec{X: 1, Y: 3}, true},
		{"collinear overlap", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 2, Y: 0}, r2.Vec{X: 1, Y: 0}, r2.Vec{X: 3, Y: 0}, true},
		{"collinear apart", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 0}, r2.Vec{X: 2, Y: 0}, r2.Vec{X: 3, Y: 0}, false},
		{"miss", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 1}, r2.Vec{X: 2, Y: 0}, r2.Vec{X: 3, Y: -1}, false},
	} {
		if got := SegmentsIntersect(test.p0, test.p1, test.q0, test.q1, 0); got != test.want {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
		// Argument order must not matter.
		if got := SegmentsIntersect(test.q1, test.q0, test.p0, test.p1, 0); got != test.want {
			t.Errorf("%s swapped: got %v, want %v", test.name, got, test.want)
		}
	}
}

func TestBoxOverlaps(t *testing.T) {
	a := Box{Min: r2.Vec{X: 0, Y: 0}, Max: r2.Vec{X: 1, Y: 1}}
	b := Box{Min: r2.Vec{X: 1, Y: 1}, Max: r2.Vec{X: 2, Y: 2}}
	c := Box{Min: r2.Vec{X: 1.5, Y: 0}, Max: r2.Vec{X: 2, Y: 0.5}}
	if !a.Overlaps(b) {
		t.Error("boxes sharing a corner should overlap")
	}
	if a.Overlaps(c) {
		t.Error("disjoint boxes overlap")
	}
	if !a.Enlarge(Elem(1.1)).Overlaps(c) {
		t.Error("enlarged box should reach neighbour")
	}
}
