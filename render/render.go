// Package render tessellates kernel solids and writes the results out as
// binary STL meshes, PNG previews and profile drawings.
package render

import (
	"github.com/soypat/nozzle/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer streams the triangles of a tessellated solid. ReadTriangles
// fills t and returns the number of triangles written, and io.EOF once the
// mesh is exhausted.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

// Triangle3 is a mesh triangle with counter-clockwise vertices seen from outside.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the unit normal of the triangle, or the zero vector if
// its vertices are collinear.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	n := r3.Cross(e1, e2)
	l := r3.Norm(n)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, n)
}

// Degenerate returns true if two vertices of the triangle coincide within tol.
func (t Triangle3) Degenerate(tol float64) bool {
	return d3.EqualWithin(t.V[0], t.V[1], tol) ||
		d3.EqualWithin(t.V[1], t.V[2], tol) ||
		d3.EqualWithin(t.V[2], t.V[0], tol)
}

// Bounds returns the bounding box of a set of triangles.
func Bounds(model []Triangle3) r3.Box {
	if len(model) == 0 {
		return r3.Box{}
	}
	bb := d3.Box{Min: model[0].V[0], Max: model[0].V[0]}
	for _, t := range model {
		for _, v := range t.V {
			bb = bb.Include(v)
		}
	}
	return r3.Box(bb)
}
