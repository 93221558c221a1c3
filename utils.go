package nozzle

import "math"

const (
	// stepSlack absorbs floating point drift when a span is an exact
	// multiple of the sampling step.
	stepSlack = 1e-9
	// DefaultMaxSamples bounds the number of samples of a single section.
	DefaultMaxSamples = 1 << 20
)

func d2r(degrees float64) float64 { return degrees * math.Pi / 180. }

// ChordError returns the sagitta of a chord spanning step radians of a
// circle of the given radius, that is the largest distance between the
// sampled polyline and the arc it approximates.
func ChordError(radius, step float64) float64 {
	return radius * (1 - math.Cos(step/2))
}
