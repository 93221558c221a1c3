package mold

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/nozzle"
	"github.com/soypat/nozzle/helpers/matter"
)

// ErrInvalidConfig is returned when the mold dimensions are inconsistent.
var ErrInvalidConfig = errors.New("invalid mold config")

// Config describes a nozzle and grain casting mold. Lengths are in
// millimetres and angles in degrees.
type Config struct {
	// Nozzle contour.
	ThroatRadius    float64
	InflectionAngle float64
	ExitAngle       float64
	ExpansionRatio  float64
	ConvergingCoef  float64
	DivergingCoef   float64

	// OutsideRadius is the outer radius of both shells.
	OutsideRadius float64
	// PortRadius is the radius of the grain core.
	PortRadius float64
	// MaxPortRadius is the radius of the chamber and of the socket joining
	// the two shells.
	MaxPortRadius float64
	GrainLength   float64
	ChamberLength float64
	// RoundingRadius fillets both chamber corners.
	RoundingRadius float64
	// WallThickness closes the grain end and surrounds the nozzle exit.
	WallThickness float64
	// SocketDepth is how far the nozzle shell spigot enters the grain shell.
	SocketDepth float64
	// ConeHeight is the axial length of the lead-in cone at the nozzle exit.
	ConeHeight float64
	// ExitConeLength extends the plug past the exit plane. Zero disables it.
	ExitConeLength float64

	// LinearStep and AngularStep (degrees) sample the nozzle contour.
	LinearStep  float64
	AngularStep float64
	// MeshMaxEdge is the marching cubes cell size used on export.
	MeshMaxEdge float64
	// Material names the cast material to compensate shrinkage for.
	// Empty means no compensation.
	Material string
}

// DefaultConfig returns the dimensions of a small research motor mold.
func DefaultConfig() Config {
	return Config{
		ThroatRadius:    5.435,
		InflectionAngle: 30,
		ExitAngle:       12,
		ExpansionRatio:  3.7,
		ConvergingCoef:  nozzle.DefaultConvergingCoef,
		DivergingCoef:   nozzle.DefaultDivergingCoef,
		OutsideRadius:   27.5,
		PortRadius:      10.8,
		MaxPortRadius:   20,
		GrainLength:     230,
		ChamberLength:   10,
		RoundingRadius:  3,
		WallThickness:   2,
		SocketDepth:     5,
		ConeHeight:      10,
		ExitConeLength:  3,
		LinearStep:      0.05,
		AngularStep:     1,
		MeshMaxEdge:     1,
	}
}

// NozzleSpec returns the nozzle part of the config.
func (c Config) NozzleSpec() nozzle.Spec {
	return nozzle.Spec{
		ThroatRadius:    c.ThroatRadius,
		InflectionAngle: c.InflectionAngle,
		ExitAngle:       c.ExitAngle,
		ExpansionRatio:  c.ExpansionRatio,
		ConvergingCoef:  c.ConvergingCoef,
		DivergingCoef:   c.DivergingCoef,
	}
}

// Sampling returns the contour sampling of the config.
func (c Config) Sampling() nozzle.Sampling {
	return nozzle.Sampling{AngularStep: c.AngularStep, LinearStep: c.LinearStep}
}

// NozzleStart is the axial position where the chamber meets the nozzle.
func (c Config) NozzleStart() float64 { return c.GrainLength + c.ChamberLength }

// Validate checks the config describes a buildable mold. Nozzle contour
// errors are returned as reported by the nozzle package.
func (c Config) Validate() error {
	_, err := c.geometry()
	return err
}

func (c Config) geometry() (nozzle.Geometry, error) {
	g, err := nozzle.NewGeometry(c.NozzleSpec())
	if err != nil {
		return g, err
	}
	bad := func(format string, args ...any) (nozzle.Geometry, error) {
		return g, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
	}
	for _, l := range []struct {
		name string
		v    float64
	}{
		{"outside radius", c.OutsideRadius},
		{"port radius", c.PortRadius},
		{"max port radius", c.MaxPortRadius},
		{"grain length", c.GrainLength},
		{"chamber length", c.ChamberLength},
		{"rounding radius", c.RoundingRadius},
		{"wall thickness", c.WallThickness},
		{"socket depth", c.SocketDepth},
		{"cone height", c.ConeHeight},
		{"mesh max edge", c.MeshMaxEdge},
	} {
		if !(l.v > 0) || math.IsInf(l.v, 0) {
			return bad("%s %g must be positive", l.name, l.v)
		}
	}
	if !(c.ExitConeLength >= 0) || math.IsInf(c.ExitConeLength, 0) {
		return bad("exit cone length %g must not be negative", c.ExitConeLength)
	}
	xN := c.NozzleStart()
	xE := xN + g.ConvergingLength() + g.DivergingLength()
	switch {
	case 2*c.RoundingRadius >= c.ChamberLength:
		return bad("rounding radius %g must be below half the chamber length %g", c.RoundingRadius, c.ChamberLength)
	case c.PortRadius > c.MaxPortRadius-c.RoundingRadius:
		return bad("port radius %g exceeds max port radius %g less rounding %g", c.PortRadius, c.MaxPortRadius, c.RoundingRadius)
	case g.Spec.ThroatRadius+g.ConvergingRadius >= c.MaxPortRadius-c.RoundingRadius:
		return bad("nozzle inlet radius %g does not fit the chamber", g.Spec.ThroatRadius+g.ConvergingRadius)
	case c.MaxPortRadius >= c.OutsideRadius:
		return bad("max port radius %g must be below outside radius %g", c.MaxPortRadius, c.OutsideRadius)
	case g.ExitRadius+c.WallThickness >= c.OutsideRadius:
		return bad("exit radius %g plus wall %g reaches outside radius %g", g.ExitRadius, c.WallThickness, c.OutsideRadius)
	case xN+c.SocketDepth >= xE-c.ConeHeight:
		return bad("socket depth %g and cone height %g exceed nozzle length %g", c.SocketDepth, c.ConeHeight, xE-xN)
	}
	if _, err := matter.Lookup(c.Material); err != nil {
		return bad("%v", err)
	}
	return g, nil
}
