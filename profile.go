package nozzle

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Sampling controls how the analytic contour is turned into a polyline.
// Smaller steps give a more faithful contour at the cost of more points.
type Sampling struct {
	// AngularStep is the angle in degrees between consecutive arc samples.
	AngularStep float64
	// LinearStep is the radial distance between consecutive parabola samples.
	LinearStep float64
	// MaxSamples bounds the samples of one section. Zero means DefaultMaxSamples.
	MaxSamples int
}

// DefaultSampling returns a sampling fine enough for millimetre sized
// nozzles printed or cast at hobby tolerances.
func DefaultSampling() Sampling {
	return Sampling{AngularStep: 1, LinearStep: 0.05}
}

// steps returns the number of whole steps taken before the terminal value
// of a section spanning span. Samples i*step for i in [0, n) all lie
// strictly before span; the caller appends the exact terminal value.
func (s Sampling) steps(span, step float64) (int, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return 0, fmt.Errorf("%w: step %g must be finite and positive", ErrNonConvergentSampling, step)
	}
	if !(span >= 0) || math.IsInf(span, 0) {
		return 0, fmt.Errorf("%w: section span %g", ErrNonConvergentSampling, span)
	}
	max := s.MaxSamples
	if max <= 0 {
		max = DefaultMaxSamples
	}
	n := math.Ceil(span/step - stepSlack)
	if n > float64(max) {
		return 0, fmt.Errorf("%w: %g samples exceed limit of %d", ErrNonConvergentSampling, n, max)
	}
	if n < 1 {
		n = 1
	}
	return int(n), nil
}

// Profile is the closed half cross-section of the nozzle bore as an ordered
// polyline. It starts on the axis below the converging arc start, follows
// the wall to the exit plane and returns to its first point along the axis.
type Profile struct {
	Geometry Geometry
	Points   []r2.Vec
	// Indices into Points of the section boundaries.
	ThroatIndex     int
	InflectionIndex int
	ExitIndex       int

	angularStep float64 // radians
}

// Generate validates spec, solves its geometry and samples the profile.
func Generate(spec Spec, smp Sampling) (*Profile, error) {
	g, err := NewGeometry(spec)
	if err != nil {
		return nil, err
	}
	return g.Profile(smp)
}

// Profile samples the contour described by g.
func (g Geometry) Profile(smp Sampling) (*Profile, error) {
	var (
		rt     = g.Spec.ThroatRadius
		rc     = g.ConvergingRadius
		rd     = g.DivergingRadius
		dTheta = d2r(smp.AngularStep)
		thetaN = d2r(g.Spec.InflectionAngle)
	)
	nConv, err := smp.steps(math.Pi/2, dTheta)
	if err != nil {
		return nil, fmt.Errorf("converging arc: %w", err)
	}
	nDiv, err := smp.steps(thetaN, dTheta)
	if err != nil {
		return nil, fmt.Errorf("diverging arc: %w", err)
	}
	nBell, err := smp.steps(g.ExitRadius-g.Inflection.Y, smp.LinearStep)
	if err != nil {
		return nil, fmt.Errorf("parabola: %w", err)
	}
	p := &Profile{
		Geometry:    g,
		Points:      make([]r2.Vec, 0, nConv+nDiv+nBell+4),
		angularStep: dTheta,
	}
	p.add(r2.Vec{X: -rc, Y: 0})

	// Converging arc, tangent to a flat chamber wall at its start and to
	// the throat at its end. Tangent angle runs from 270° to 360°.
	for i := 0; i < nConv; i++ {
		p.add(CirclePoint(1.5*math.Pi+float64(i)*dTheta, rc, 0, rt+rc))
	}
	p.ThroatIndex = p.add(r2.Vec{X: 0, Y: rt})

	// Diverging arc up to the inflection angle.
	for i := 1; i < nDiv; i++ {
		p.add(CirclePoint(float64(i)*dTheta, rd, 0, rt+rd))
	}
	p.InflectionIndex = p.add(g.Inflection)

	// Bell parabola, stepped along the radius and clamped to the exit radius.
	for i := 1; i < nBell; i++ {
		y := g.Inflection.Y + float64(i)*smp.LinearStep
		p.add(r2.Vec{X: g.ParabolaX(y), Y: y})
	}
	exit := g.Exit()
	p.ExitIndex = p.add(exit)

	// Back to the axis and along it to the start.
	p.add(r2.Vec{X: exit.X, Y: 0})
	p.add(r2.Vec{X: -rc, Y: 0})
	return p, nil
}

// add appends v unless it repeats the last point and returns the index
// of v in Points.
func (p *Profile) add(v r2.Vec) int {
	if n := len(p.Points); n > 0 && p.Points[n-1] == v {
		return n - 1
	}
	p.Points = append(p.Points, v)
	return len(p.Points) - 1
}

// ExitRadius is the wall radius at the exit plane.
func (p *Profile) ExitRadius() float64 { return p.Geometry.ExitRadius }

// ConvergingLength is the axial length of the converging arc.
func (p *Profile) ConvergingLength() float64 { return p.Geometry.ConvergingLength() }

// DivergingLength is the axial coordinate of the exit plane.
func (p *Profile) DivergingLength() float64 { return p.Geometry.DivergingLength() }

// Converging returns the converging arc samples, throat included.
func (p *Profile) Converging() []r2.Vec { return p.Points[1 : p.ThroatIndex+1] }

// Diverging returns the diverging arc samples from throat to inflection point.
func (p *Profile) Diverging() []r2.Vec { return p.Points[p.ThroatIndex : p.InflectionIndex+1] }

// Bell returns the parabola samples from inflection point to exit.
func (p *Profile) Bell() []r2.Vec { return p.Points[p.InflectionIndex : p.ExitIndex+1] }

// Wall returns the samples of the nozzle wall from converging arc start to exit.
func (p *Profile) Wall() []r2.Vec { return p.Points[1 : p.ExitIndex+1] }

// MaxChordError returns the largest distance between the sampled arcs and
// the true circles.
func (p *Profile) MaxChordError() float64 {
	g := p.Geometry
	return ChordError(math.Max(g.ConvergingRadius, g.DivergingRadius), math.Min(p.angularStep, math.Pi/2))
}

// Translate returns a copy of the profile points shifted by dx along the axis.
func (p *Profile) Translate(dx float64) []r2.Vec {
	out := make([]r2.Vec, len(p.Points))
	for i, v := range p.Points {
		out[i] = r2.Vec{X: v.X + dx, Y: v.Y}
	}
	return out
}

func (p *Profile) String() string {
	g := p.Geometry
	return fmt.Sprintf("nozzle rt=%g re=%g Lc=%g Ld=%g inflection=(%.4g,%.4g) %d points",
		g.Spec.ThroatRadius, g.ExitRadius, g.ConvergingLength(), g.DivergingLength(),
		g.Inflection.X, g.Inflection.Y, len(p.Points))
}
