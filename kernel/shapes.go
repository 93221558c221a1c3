package kernel

import (
	"math"

	"github.com/soypat/nozzle/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// box is an axis aligned 3d box.
type box struct {
	center r3.Vec
	half   r3.Vec
	bb     r3.Box
}

// Box returns an SDF3 for the axis aligned box spanning min to max.
func Box(min, max r3.Vec) SDF3 {
	size := r3.Sub(max, min)
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		panic("box size <= 0")
	}
	bb := d3.Box{Min: min, Max: max}
	return &box{
		center: bb.Center(),
		half:   r3.Scale(0.5, size),
		bb:     r3.Box(bb),
	}
}

// Evaluate returns the minimum distance to a 3d box.
func (s *box) Evaluate(p r3.Vec) float64 {
	return sdfBox3d(r3.Sub(p, s.center), s.half)
}

// Bounds returns the bounding box for a 3d box.
func (s *box) Bounds() r3.Box {
	return s.bb
}

func sdfBox3d(p, s r3.Vec) float64 {
	d := r3.Sub(d3.AbsElem(p), s)
	if d.X > 0 && d.Y > 0 && d.Z > 0 {
		return r3.Norm(d)
	}
	if d.X > 0 && d.Y > 0 {
		return math.Hypot(d.X, d.Y)
	}
	if d.X > 0 && d.Z > 0 {
		return math.Hypot(d.X, d.Z)
	}
	if d.Y > 0 && d.Z > 0 {
		return math.Hypot(d.Y, d.Z)
	}
	if d.X > 0 {
		return d.X
	}
	if d.Y > 0 {
		return d.Y
	}
	if d.Z > 0 {
		return d.Z
	}
	return d3.Max(d)
}

// cone is a truncated cone about the Z axis.
type cone struct {
	zc     float64 // axial center
	height float64 // half height
	r0, r1 float64 // bottom and top radii
	u      r2.Vec  // unit slope vector
	n      r2.Vec  // normal to slope
	l      float64 // slope length
	bb     r3.Box
}

// Cone returns an SDF3 for the truncated cone about the Z axis that has
// radius r0 at z0 and radius r1 at z1. z1 must be greater than z0.
func Cone(z0, r0, z1, r1 float64) SDF3 {
	height := z1 - z0
	if !(height > 0) {
		panic("cone height <= 0")
	}
	if r0 < 0 || r1 < 0 || (r0 == 0 && r1 == 0) {
		panic("bad cone radii")
	}
	s := cone{
		zc:     (z0 + z1) / 2,
		height: height / 2,
		r0:     r0,
		r1:     r1,
	}
	// cone slope vector and normal
	s.u = r2.Unit(r2.Sub(r2.Vec{X: r1, Y: s.height}, r2.Vec{X: r0, Y: -s.height}))
	s.n = r2.Vec{X: s.u.Y, Y: -s.u.X}
	s.l = r2.Norm(r2.Sub(r2.Vec{X: r1, Y: s.height}, r2.Vec{X: r0, Y: -s.height}))
	r := math.Max(r0, r1)
	s.bb = r3.Box{Min: r3.Vec{X: -r, Y: -r, Z: z0}, Max: r3.Vec{X: r, Y: r, Z: z1}}
	return &s
}

// Evaluate returns the minimum distance to a truncated cone.
func (s *cone) Evaluate(p r3.Vec) float64 {
	// convert to SoR 2d coordinates
	p2 := r2.Vec{X: math.Hypot(p.X, p.Y), Y: p.Z - s.zc}
	// is p2 above the cone?
	if p2.Y >= s.height && p2.X <= s.r1 {
		return p2.Y - s.height
	}
	// is p2 below the cone?
	if p2.Y <= -s.height && p2.X <= s.r0 {
		return -p2.Y - s.height
	}
	// distance to slope line
	v := r2.Sub(p2, r2.Vec{X: s.r0, Y: -s.height})
	dSlope := r2.Dot(v, s.n)
	// is p2 inside the cone?
	if dSlope < 0 && math.Abs(p2.Y) < s.height {
		return -math.Min(-dSlope, s.height-math.Abs(p2.Y))
	}
	// is p2 closest to the slope line?
	t := r2.Dot(v, s.u)
	if t >= 0 && t <= s.l {
		return dSlope
	}
	// is p2 closest to the base radius vertex?
	if t < 0 {
		return r2.Norm(v)
	}
	// p2 is closest to the top radius vertex
	return r2.Norm(r2.Sub(p2, r2.Vec{X: s.r1, Y: s.height}))
}

// Bounds returns the bounding box for the truncated cone.
func (s *cone) Bounds() r3.Box {
	return s.bb
}
