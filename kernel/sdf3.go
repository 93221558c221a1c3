package kernel

import (
	"math"
	"strconv"

	"github.com/soypat/nozzle/internal/d2"
	"github.com/soypat/nozzle/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	pi        = math.Pi
	tau       = 2 * pi
	tolerance = 1e-9
)

// SDF3 is the interface to a 3d signed distance function object.
type SDF3 interface {
	// Evaluate takes a point in 3D space as input and returns
	// the minimum distance of the SDF3 to the point. The distance
	// is negative if the point is contained within the SDF3.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the SDF3.
	Bounds() r3.Box
}

// revolution3 solid of revolution, SDF2 to SDF3.
type revolution3 struct {
	sdf   SDF2
	theta float64 // angle for partial revolutions
	norm  r2.Vec  // pre-calculated normal to theta line
	bb    r3.Box
}

// Revolve3D returns the solid swept by a half cross-section rotated about
// the Z axis. The profile X coordinate maps to Z and its Y coordinate is
// the distance to the axis. theta is in radians, for a full revolution call
//
//	Revolve3D(s0, 2*math.Pi)
func Revolve3D(sdf SDF2, theta float64) SDF3 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	if theta <= 0 {
		panic("revolution angle <= 0")
	}
	if math.Abs(theta-tau) < tolerance || theta > tau {
		theta = 0 // internally theta=0 is a full revolution.
	}
	s := revolution3{sdf: sdf, theta: theta}
	sin, cos := math.Sincos(s.theta)
	// pre-calculate the normal to the theta line
	s.norm = r2.Vec{X: -sin, Y: cos}
	// work out the bounding box
	var vset d2.Set
	if theta == 0 {
		vset = []r2.Vec{{X: 1, Y: 1}, {X: -1, Y: -1}}
	} else {
		vset = []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: cos, Y: sin}}
		if s.theta > 0.5*pi {
			vset = append(vset, r2.Vec{X: 0, Y: 1})
		}
		if s.theta > pi {
			vset = append(vset, r2.Vec{X: -1, Y: 0})
		}
		if s.theta > 1.5*pi {
			vset = append(vset, r2.Vec{X: 0, Y: -1})
		}
	}
	bb := sdf.Bounds()
	l := math.Max(math.Abs(bb.Min.Y), math.Abs(bb.Max.Y))
	vmin := r2.Scale(l, vset.Min())
	vmax := r2.Scale(l, vset.Max())
	s.bb = r3.Box{
		Min: r3.Vec{X: vmin.X, Y: vmin.Y, Z: bb.Min.X},
		Max: r3.Vec{X: vmax.X, Y: vmax.Y, Z: bb.Max.X},
	}
	return &s
}

// Evaluate returns the minimum distance to a solid of revolution.
func (s *revolution3) Evaluate(p r3.Vec) float64 {
	// Faces that end on the axis enclose it; points on the axis are
	// evaluated just off it so they do not land on the axis edge.
	radius := math.Max(math.Hypot(p.X, p.Y), tolerance)
	a := s.sdf.Evaluate(r2.Vec{X: p.Z, Y: radius})
	b := a
	if s.theta != 0 {
		// combine two vertical planes to give an intersection wedge
		d := r2.Dot(s.norm, r2.Vec{X: p.X, Y: p.Y})
		if s.theta < pi {
			b = math.Max(-p.Y, d) // intersect
		} else {
			b = math.Min(-p.Y, d) // union
		}
	}
	return math.Max(a, b)
}

// Bounds returns the bounding box for a solid of revolution.
func (s *revolution3) Bounds() r3.Box {
	return s.bb
}

// union3 is a union of SDF3s.
type union3 struct {
	sdf []SDF3
	bb  r3.Box
}

// Union3D returns the union of multiple SDF3 objects.
// Union3D will panic if arguments list has less than two
// elements or if an argument SDF3 is nil.
func Union3D(sdf ...SDF3) SDF3 {
	if len(sdf) < 2 {
		panic("union require at least 2 sdfs")
	}
	for i, x := range sdf {
		if x == nil {
			panic("nil sdf argument (" + strconv.Itoa(i) + ") to Union3D")
		}
	}
	s := union3{sdf: sdf}
	bb := d3.Box(s.sdf[0].Bounds())
	for _, x := range s.sdf[1:] {
		bb = bb.Extend(d3.Box(x.Bounds()))
	}
	s.bb = r3.Box(bb)
	return &s
}

// Evaluate returns the minimum distance to an SDF3 union.
func (s *union3) Evaluate(p r3.Vec) float64 {
	d := s.sdf[0].Evaluate(p)
	for _, x := range s.sdf[1:] {
		d = math.Min(d, x.Evaluate(p))
	}
	return d
}

// Bounds returns the bounding box of an SDF3 union.
func (s *union3) Bounds() r3.Box {
	return s.bb
}

// diff3 is the difference of two SDF3s, s0 - s1.
type diff3 struct {
	s0 SDF3
	s1 SDF3
}

// Difference3D returns the difference of two SDF3s, s0 - s1.
// Difference3D will panic if one any of the arguments is nil.
func Difference3D(s0, s1 SDF3) SDF3 {
	if s1 == nil || s0 == nil {
		panic("nil argument to Difference3D")
	}
	return &diff3{s0: s0, s1: s1}
}

// Evaluate returns the minimum distance to the SDF3 difference.
func (s *diff3) Evaluate(p r3.Vec) float64 {
	return math.Max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
}

// Bounds returns the bounding box of the SDF3 difference.
func (s *diff3) Bounds() r3.Box {
	return s.s0.Bounds()
}

// scaleUniform3 scales an SDF3 about the origin.
type scaleUniform3 struct {
	sdf     SDF3
	k, invK float64
	bb      r3.Box
}

// ScaleUniform3D uniformly scales an SDF3 on all axes.
func ScaleUniform3D(sdf SDF3, k float64) SDF3 {
	if sdf == nil {
		panic("nil argument to ScaleUniform3D")
	}
	if !(k > 0) || math.IsInf(k, 0) {
		panic("scale factor must be positive and finite")
	}
	return &scaleUniform3{
		sdf:  sdf,
		k:    k,
		invK: 1.0 / k,
		bb:   r3.Box(d3.Box(sdf.Bounds()).ScaleAboutOrigin(k)),
	}
}

// Evaluate returns the minimum distance to a uniformly scaled SDF3.
// The distance is correct with scaling.
func (s *scaleUniform3) Evaluate(p r3.Vec) float64 {
	q := r3.Scale(s.invK, p)
	return s.sdf.Evaluate(q) * s.k
}

// Bounds returns the bounding box of a uniformly scaled SDF3.
func (s *scaleUniform3) Bounds() r3.Box {
	return s.bb
}
