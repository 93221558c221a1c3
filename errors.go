package nozzle

import "errors"

var (
	// ErrInvalidSpec is returned for physically inconsistent parameters.
	ErrInvalidSpec = errors.New("invalid nozzle spec")
	// ErrDegenerateCurve is returned when the parabola has no unique solution.
	ErrDegenerateCurve = errors.New("degenerate nozzle curve")
	// ErrNonConvergentSampling is returned when a sampling step cannot
	// reach the end of its section.
	ErrNonConvergentSampling = errors.New("non-convergent sampling")
)
