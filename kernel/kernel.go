// Package kernel turns closed sketches into solids and combines them.
//
// Kernel is the seam between the mold pipeline and whatever performs the
// solid modelling. SDFKernel implements it with signed distance functions:
// faces are polygon SDFs, solids are SDF3 trees that are tessellated later
// by the render package.
//
// Every profile coordinate follows the half cross-section convention: X is
// the axial coordinate and Y the distance to the axis. Revolve maps the
// profile X axis onto the solid Z axis.
package kernel

import (
	"math"

	"github.com/soypat/nozzle/internal/d2"
	"github.com/soypat/nozzle/sketch"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Solid is a closed volume produced by a Kernel.
type Solid = SDF3

// Wire is a validated closed outline. The last vertex equals the first.
type Wire struct {
	Name     string
	Vertices []r2.Vec
}

// Face is the planar region bounded by a Wire.
type Face struct {
	Name string
	// Area is the signed area of the face, positive for counter-clockwise outlines.
	Area float64
	sdf  SDF2
}

// Bounds returns the bounding box of the face.
func (f Face) Bounds() r2.Box {
	if f.sdf == nil {
		return r2.Box{}
	}
	return f.sdf.Bounds()
}

// Evaluate returns the signed distance from p to the face outline.
func (f Face) Evaluate(p r2.Vec) float64 { return f.sdf.Evaluate(p) }

// Kernel builds solids from sketch segments.
type Kernel interface {
	// Wire checks segs form a single closed chain and returns its outline.
	Wire(name string, segs []sketch.Segment) (Wire, error)
	// Face checks the wire bounds a simple region with area.
	Face(w Wire) (Face, error)
	// Revolve sweeps f about the axis by angle radians.
	Revolve(f Face, angle float64) (Solid, error)
	Fuse(a, b Solid) (Solid, error)
	// Cut returns a minus b.
	Cut(a, b Solid) (Solid, error)
	// Cone returns the truncated cone about the axis with radius r0 at z0 and r1 at z1.
	Cone(z0, r0, z1, r1 float64) (Solid, error)
	Box(min, max r3.Vec) (Solid, error)
	// Scale scales s about the origin by k.
	Scale(s Solid, k float64) (Solid, error)
}

var _ Kernel = (*SDFKernel)(nil)

// DefaultTolerance is the distance under which SDFKernel considers two
// points coincident.
const DefaultTolerance = 1e-7

// SDFKernel implements Kernel with signed distance functions.
type SDFKernel struct {
	Tolerance float64
}

// New returns an SDFKernel with DefaultTolerance.
func New() *SDFKernel {
	return &SDFKernel{Tolerance: DefaultTolerance}
}

func (k *SDFKernel) tol() float64 {
	if k.Tolerance > 0 {
		return k.Tolerance
	}
	return DefaultTolerance
}

// Wire implements Kernel.
func (k *SDFKernel) Wire(name string, segs []sketch.Segment) (Wire, error) {
	tol := k.tol()
	if len(segs) == 0 {
		return Wire{}, reject(name, "empty wire")
	}
	vertices := []r2.Vec{segs[0].Start}
	for i, seg := range segs {
		if len(seg.Points) < 2 {
			return Wire{}, reject(name, "segment %d has %d points", i, len(seg.Points))
		}
		if i > 0 && !d2.EqualWithin(seg.Start, segs[i-1].End, tol) {
			return Wire{}, reject(name, "disconnected segments: %d ends at %v, %d starts at %v", i-1, segs[i-1].End, i, seg.Start)
		}
		vertices = append(vertices, seg.Points[1:]...)
	}
	if last := segs[len(segs)-1].End; !d2.EqualWithin(last, segs[0].Start, tol) {
		return Wire{}, reject(name, "open contour: ends at %v, starts at %v", last, segs[0].Start)
	}
	vertices[len(vertices)-1] = vertices[0]
	return Wire{Name: name, Vertices: vertices}, nil
}

// Face implements Kernel.
func (k *SDFKernel) Face(w Wire) (f Face, err error) {
	tol := k.tol()
	v := w.Vertices
	if len(v) < 4 || v[0] != v[len(v)-1] {
		return Face{}, reject(w.Name, "wire has %d vertices, not a closed outline", len(v))
	}
	area := signedArea(v)
	if math.Abs(area) <= tol*tol {
		return Face{}, reject(w.Name, "zero-area face")
	}
	if i, j, ok := selfIntersection(v, tol); ok {
		return Face{}, reject(w.Name, "self-intersection between edges %d (%v) and %d (%v)", i, v[i], j, v[j])
	}
	defer catch(&err)
	return Face{Name: w.Name, Area: area, sdf: Polygon(v)}, nil
}

// Revolve implements Kernel. The face must lie on one side of the axis.
func (k *SDFKernel) Revolve(f Face, angle float64) (s Solid, err error) {
	if f.sdf == nil {
		return nil, reject(f.Name, "empty face")
	}
	if bb := f.Bounds(); bb.Min.Y < -k.tol() {
		return nil, reject(f.Name, "face crosses the revolution axis at radius %g", bb.Min.Y)
	}
	defer catch(&err)
	return Revolve3D(f.sdf, angle), nil
}

// Fuse implements Kernel.
func (k *SDFKernel) Fuse(a, b Solid) (s Solid, err error) {
	defer catch(&err)
	return Union3D(a, b), nil
}

// Cut implements Kernel.
func (k *SDFKernel) Cut(a, b Solid) (s Solid, err error) {
	defer catch(&err)
	return Difference3D(a, b), nil
}

// Cone implements Kernel.
func (k *SDFKernel) Cone(z0, r0, z1, r1 float64) (s Solid, err error) {
	defer catch(&err)
	return Cone(z0, r0, z1, r1), nil
}

// Box implements Kernel.
func (k *SDFKernel) Box(min, max r3.Vec) (s Solid, err error) {
	defer catch(&err)
	return Box(min, max), nil
}

// Scale implements Kernel.
func (k *SDFKernel) Scale(s Solid, factor float64) (scaled Solid, err error) {
	defer catch(&err)
	return ScaleUniform3D(s, factor), nil
}

func signedArea(v []r2.Vec) float64 {
	var a float64
	for i := 0; i < len(v)-1; i++ {
		a += d2.Cross(v[i], v[i+1])
	}
	return a / 2
}

// selfIntersection looks for two edges of the closed outline v that touch
// anywhere other than at their shared vertex. Edge i runs from v[i] to v[i+1].
func selfIntersection(v []r2.Vec, tol float64) (i, j int, found bool) {
	m := len(v) - 1
	boxes := make([]d2.Box, m)
	for i := 0; i < m; i++ {
		boxes[i] = d2.Box{Min: d2.MinElem(v[i], v[i+1]), Max: d2.MaxElem(v[i], v[i+1])}.Enlarge(d2.Elem(2 * tol))
	}
	for i := 0; i < m; i++ {
		for j := i + 1; j < m; j++ {
			adjacent := j == i+1 || (i == 0 && j == m-1)
			if adjacent {
				if foldsBack(v, i, j, m, tol) {
					return i, j, true
				}
				continue
			}
			if !boxes[i].Overlaps(boxes[j]) {
				continue
			}
			if d2.SegmentsIntersect(v[i], v[i+1], v[j], v[j+1], 0) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// foldsBack reports whether adjacent edges i and j overlap by running
// back along each other.
func foldsBack(v []r2.Vec, i, j, m int, tol float64) bool {
	var a, b r2.Vec
	if j == i+1 {
		a, b = r2.Sub(v[i], v[i+1]), r2.Sub(v[j+1], v[j])
	} else { // i == 0, j == m-1 share v[0]
		a, b = r2.Sub(v[1], v[0]), r2.Sub(v[m-1], v[m])
	}
	return math.Abs(d2.Cross(a, b)) <= tol*r2.Norm(a)*r2.Norm(b) && r2.Dot(a, b) > 0
}
