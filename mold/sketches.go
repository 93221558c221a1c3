package mold

import (
	"math"

	"github.com/soypat/nozzle"
	"github.com/soypat/nozzle/sketch"
	"gonum.org/v1/gonum/spatial/r2"
)

// Sketch names, used to report kernel rejections.
const (
	ChamberProfile     = "chamber"
	NozzleProfile      = "nozzle"
	GrainShellProfile  = "grain_shell"
	NozzleShellProfile = "nozzle_shell"
)

func (c Config) angleStep() float64 { return c.AngularStep * math.Pi / 180 }

// ChamberSketch outlines the grain port and combustion chamber. It starts
// and ends on the axis at the origin. The chamber shoulder at the end of
// the grain and the chamber top at the nozzle inlet are both filleted with
// RoundingRadius.
func ChamberSketch(c Config) *sketch.Sketch {
	var (
		rr = c.RoundingRadius
		g  = c.GrainLength
		xN = c.NozzleStart()
	)
	return sketch.New(0, 0).
		SetAngleStep(c.angleStep()).
		MoveTo(0, c.PortRadius).
		MoveTo(g, c.PortRadius).
		MoveTo(g, c.MaxPortRadius-rr).
		ArcOffsetFrom(r2.Vec{X: rr}, rr, math.Pi, math.Pi/2).
		MoveTo(xN-rr, c.MaxPortRadius).
		ArcOffsetFrom(r2.Vec{Y: -rr}, rr, math.Pi/2, 0).
		MoveTo(xN, 0).
		Close()
}

// NozzleSketch places the nozzle profile so the converging arc starts at
// the end of the chamber.
func NozzleSketch(c Config, p *nozzle.Profile) *sketch.Sketch {
	xN := c.NozzleStart()
	pts := p.Translate(xN + p.ConvergingLength())
	return sketch.New(xN, 0).Polyline(pts[1:]).Close()
}

// GrainShellSketch outlines the shell around the grain. It closes the grain
// end with WallThickness and ends in a socket of MaxPortRadius that receives
// the nozzle shell.
func GrainShellSketch(c Config) *sketch.Sketch {
	var (
		xN     = c.NozzleStart()
		socket = xN + c.SocketDepth
	)
	return sketch.New(-c.WallThickness, 0).
		MoveTo(-c.WallThickness, c.OutsideRadius).
		MoveTo(socket, c.OutsideRadius).
		MoveTo(socket, c.MaxPortRadius).
		MoveTo(xN, c.MaxPortRadius).
		MoveTo(xN, 0).
		Close()
}

// NozzleShellSketch outlines the shell around the nozzle: a spigot that
// fits the grain shell socket, the outside wall and a lead-in cone that
// leaves WallThickness around the exit.
func NozzleShellSketch(c Config, p *nozzle.Profile) *sketch.Sketch {
	var (
		xN = c.NozzleStart()
		xE = xN + p.ConvergingLength() + p.DivergingLength()
	)
	return sketch.New(xN, 0).
		MoveTo(xN, c.MaxPortRadius).
		MoveTo(xN+c.SocketDepth, c.MaxPortRadius).
		MoveTo(xN+c.SocketDepth, c.OutsideRadius).
		MoveTo(xE-c.ConeHeight, c.OutsideRadius).
		MoveTo(xE, p.ExitRadius()+c.WallThickness).
		MoveTo(xE, 0).
		Close()
}
