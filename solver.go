package nozzle

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// CirclePoint returns the point of the circle of given radius centred at
// (cx, cy) whose tangent makes tangentAngle radians with the X axis. The
// point is measured from the circle's bottom, that is at tangentAngle-90°.
func CirclePoint(tangentAngle, radius, cx, cy float64) r2.Vec {
	sin, cos := math.Sincos(tangentAngle - math.Pi/2)
	return r2.Vec{X: cos*radius + cx, Y: sin*radius + cy}
}

// ParabolaCoefficients returns a, b, c of x = a*y² + b*y + c such that the
// parabola passes through inflection with dx/dy = 1/tan(inflectionAngle)
// and has dx/dy = 1/tan(exitAngle) at y = exitRadius. Angles are in radians.
//
// The system has no unique solution when both angles are equal or when the
// inflection point already lies on the exit radius; ErrDegenerateCurve is
// returned in both cases.
func ParabolaCoefficients(inflectionAngle, exitAngle, exitRadius float64, inflection r2.Vec) (a, b, c float64, err error) {
	if inflectionAngle == exitAngle {
		return 0, 0, 0, fmt.Errorf("%w: parallel tangents at %g rad", ErrDegenerateCurve, exitAngle)
	}
	if inflection.Y == exitRadius {
		return 0, 0, 0, fmt.Errorf("%w: inflection point lies on exit radius %g", ErrDegenerateCurve, exitRadius)
	}
	// Slope conditions: 2a*y + b = dx/dy at both ends.
	m := mat.NewDense(2, 2, []float64{
		2 * inflection.Y, 1,
		2 * exitRadius, 1,
	})
	rhs := mat.NewVecDense(2, []float64{
		1 / math.Tan(inflectionAngle),
		1 / math.Tan(exitAngle),
	})
	var ab mat.VecDense
	if err := ab.SolveVec(m, rhs); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %v", ErrDegenerateCurve, err)
	}
	a, b = ab.AtVec(0), ab.AtVec(1)
	if math.IsNaN(a) || math.IsInf(a, 0) || math.IsNaN(b) || math.IsInf(b, 0) {
		return 0, 0, 0, fmt.Errorf("%w: non-finite coefficients", ErrDegenerateCurve)
	}
	c = inflection.X - a*inflection.Y*inflection.Y - b*inflection.Y
	return a, b, c, nil
}

// Slope returns dx/dy of x = a*y² + b*y + c at y.
func Slope(a, b, y float64) float64 {
	return 2*a*y + b
}
