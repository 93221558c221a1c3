// Package nozzle computes the wall contour of a Rao-approximated bell
// nozzle. The contour is made of a converging circular arc, a diverging
// circular arc and a parabola joined with slope continuity at the inflection
// point.
//
// Coordinates follow the half cross-section convention used across the
// module: X runs along the revolution axis towards the exit and Y is the
// distance to the axis. The throat sits at (0, ThroatRadius).
package nozzle

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Rao arc coefficients, relative to the throat radius.
const (
	DefaultConvergingCoef = 1.5
	DefaultDivergingCoef  = 0.382
)

// Spec is the physical description of a nozzle. Angles are in degrees.
type Spec struct {
	// ThroatRadius is the radius of the minimum cross section.
	ThroatRadius float64
	// InflectionAngle is the wall angle where the diverging arc hands
	// over to the parabola. Must be in (ExitAngle, 90).
	InflectionAngle float64
	// ExitAngle is the wall half-angle at the exit plane. Must be in (0, InflectionAngle).
	ExitAngle float64
	// ExpansionRatio is exit area over throat area. Must be > 1.
	ExpansionRatio float64
	// ConvergingCoef scales the throat radius to obtain the converging
	// arc radius (1.5 for Rao contours).
	ConvergingCoef float64
	// DivergingCoef scales the throat radius to obtain the diverging
	// arc radius (0.382 for Rao contours).
	DivergingCoef float64
}

// RaoSpec returns a Spec with the standard Rao arc coefficients.
func RaoSpec(throatRadius, inflectionDeg, exitDeg, expansionRatio float64) Spec {
	return Spec{
		ThroatRadius:    throatRadius,
		InflectionAngle: inflectionDeg,
		ExitAngle:       exitDeg,
		ExpansionRatio:  expansionRatio,
		ConvergingCoef:  DefaultConvergingCoef,
		DivergingCoef:   DefaultDivergingCoef,
	}
}

// Validate checks the physical consistency of s. It does not check
// whether the parabola is solvable, NewGeometry does that.
func (s Spec) Validate() error {
	switch {
	case !positive(s.ThroatRadius):
		return fmt.Errorf("%w: throat radius %g must be positive", ErrInvalidSpec, s.ThroatRadius)
	case !positive(s.ConvergingCoef) || !positive(s.DivergingCoef):
		return fmt.Errorf("%w: arc coefficients (%g, %g) must be positive", ErrInvalidSpec, s.ConvergingCoef, s.DivergingCoef)
	case !(s.ExpansionRatio > 1) || math.IsInf(s.ExpansionRatio, 0):
		return fmt.Errorf("%w: expansion ratio %g must be greater than 1", ErrInvalidSpec, s.ExpansionRatio)
	case !(s.InflectionAngle > 0 && s.InflectionAngle < 90):
		return fmt.Errorf("%w: inflection angle %g outside (0, 90) degrees", ErrInvalidSpec, s.InflectionAngle)
	case !(s.ExitAngle > 0 && s.ExitAngle < 90):
		return fmt.Errorf("%w: exit angle %g outside (0, 90) degrees", ErrInvalidSpec, s.ExitAngle)
	case s.InflectionAngle == s.ExitAngle:
		return fmt.Errorf("%w: inflection and exit angles are both %g degrees", ErrDegenerateCurve, s.ExitAngle)
	case s.InflectionAngle < s.ExitAngle:
		return fmt.Errorf("%w: inflection angle %g below exit angle %g re-contracts the bell", ErrInvalidSpec, s.InflectionAngle, s.ExitAngle)
	}
	return nil
}

// Geometry holds the quantities derived from a Spec. It is computed
// once by NewGeometry and never modified.
type Geometry struct {
	Spec             Spec
	ExitRadius       float64
	ConvergingRadius float64
	DivergingRadius  float64
	// Inflection is the point where the diverging arc meets the parabola.
	Inflection r2.Vec
	// A, B, C are the coefficients of x = A*y² + B*y + C.
	A, B, C float64
}

// NewGeometry validates spec and solves the contour parameters.
func NewGeometry(spec Spec) (Geometry, error) {
	if err := spec.Validate(); err != nil {
		return Geometry{}, err
	}
	rt := spec.ThroatRadius
	g := Geometry{
		Spec:             spec,
		ExitRadius:       rt * math.Sqrt(spec.ExpansionRatio),
		ConvergingRadius: spec.ConvergingCoef * rt,
		DivergingRadius:  spec.DivergingCoef * rt,
	}
	thetaN := d2r(spec.InflectionAngle)
	thetaE := d2r(spec.ExitAngle)
	g.Inflection = CirclePoint(thetaN, g.DivergingRadius, 0, rt+g.DivergingRadius)
	if !(g.ExitRadius > g.Inflection.Y) {
		return Geometry{}, fmt.Errorf("%w: exit radius %g does not clear inflection radius %g", ErrInvalidSpec, g.ExitRadius, g.Inflection.Y)
	}
	var err error
	g.A, g.B, g.C, err = ParabolaCoefficients(thetaN, thetaE, g.ExitRadius, g.Inflection)
	if err != nil {
		return Geometry{}, err
	}
	return g, nil
}

// ConvergingLength is the axial extent of the converging arc. Callers
// use it to offset the nozzle behind the chamber.
func (g Geometry) ConvergingLength() float64 { return g.ConvergingRadius }

// DivergingLength is the axial coordinate of the exit plane.
func (g Geometry) DivergingLength() float64 { return g.ParabolaX(g.ExitRadius) }

// ParabolaX evaluates the bell parabola at radius y.
func (g Geometry) ParabolaX(y float64) float64 {
	return g.A*y*y + g.B*y + g.C
}

// Exit returns the wall point on the exit plane.
func (g Geometry) Exit() r2.Vec {
	return r2.Vec{X: g.DivergingLength(), Y: g.ExitRadius}
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 1)
}
