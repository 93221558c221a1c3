// Package sketch builds closed 2D profiles out of straight lines and
// circular arcs by moving a cursor, the way a profile is drawn by hand on
// a sheet of paper.
//
// A Sketch only records geometry. Whether the resulting outline is a valid
// face (closed, simple, with area) is decided by the geometry kernel.
package sketch

import (
	"fmt"
	"math"

	"github.com/soypat/nozzle/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// Tolerance under which two points are considered coincident.
	Tolerance = 1e-9
	// DefaultAngleStep is the arc sampling step in radians used by
	// ArcOffsetFrom and by ArcTo when given a non-positive step.
	DefaultAngleStep = math.Pi / 180
)

// Kind is the kind of a sketch segment.
type Kind int

const (
	Line Kind = iota
	Arc
)

func (k Kind) String() string {
	switch k {
	case Line:
		return "line"
	case Arc:
		return "arc"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Segment is one piece of a sketch path. Points holds the polyline that
// represents the segment, Start first and End last. Lines have two points.
type Segment struct {
	Kind       Kind
	Start, End r2.Vec
	// Center and Radius are set for arcs only.
	Center r2.Vec
	Radius float64
	Points []r2.Vec
}

// Sketch is a cursor based path builder. The zero value is not usable, create
// sketches with New.
type Sketch struct {
	start     r2.Vec
	cursor    r2.Vec
	segs      []Segment
	closed    bool
	angleStep float64
}

// New returns a sketch whose path starts at (x, y).
func New(x, y float64) *Sketch {
	p := r2.Vec{X: x, Y: y}
	return &Sketch{start: p, cursor: p, angleStep: DefaultAngleStep}
}

// SetAngleStep sets the sampling step in radians used by ArcOffsetFrom.
// Non-positive values restore DefaultAngleStep.
func (s *Sketch) SetAngleStep(step float64) *Sketch {
	if !(step > 0) || math.IsInf(step, 0) {
		step = DefaultAngleStep
	}
	s.angleStep = step
	return s
}

// MoveTo draws a line from the cursor to (x, y). Nothing is recorded if
// (x, y) is the cursor. It panics if the sketch is closed.
func (s *Sketch) MoveTo(x, y float64) *Sketch {
	s.lineTo(r2.Vec{X: x, Y: y})
	return s
}

// MoveDeltaX draws a horizontal line of length dx.
func (s *Sketch) MoveDeltaX(dx float64) *Sketch {
	return s.MoveTo(s.cursor.X+dx, s.cursor.Y)
}

// MoveDeltaY draws a vertical line of length dy.
func (s *Sketch) MoveDeltaY(dy float64) *Sketch {
	return s.MoveTo(s.cursor.X, s.cursor.Y+dy)
}

// ArcTo draws the arc of the given center and radius between angles from
// and to, in radians counter-clockwise from the X axis. A line is drawn to
// the arc start first if the cursor is not on it. The arc is sampled every
// step radians and always ends exactly at angle to. A non-positive step
// means DefaultAngleStep.
func (s *Sketch) ArcTo(center r2.Vec, radius, from, to, step float64) *Sketch {
	if !(radius > 0) || math.IsInf(radius, 0) {
		panic(fmt.Sprintf("sketch: bad arc radius %g", radius))
	}
	if !(step > 0) || math.IsInf(step, 0) {
		step = DefaultAngleStep
	}
	begin := polar(center, radius, from)
	end := polar(center, radius, to)
	s.lineTo(begin)
	sweep := to - from
	if math.Abs(sweep) < Tolerance/radius {
		return s
	}
	n := int(math.Ceil(math.Abs(sweep)/step - 1e-9))
	if n < 1 {
		n = 1
	}
	dir := math.Copysign(step, sweep)
	pts := make([]r2.Vec, 0, n+1)
	pts = append(pts, s.cursor)
	for i := 1; i < n; i++ {
		pts = append(pts, polar(center, radius, from+float64(i)*dir))
	}
	pts = append(pts, end)
	s.push(Segment{
		Kind:   Arc,
		Start:  s.cursor,
		End:    end,
		Center: center,
		Radius: radius,
		Points: pts,
	})
	return s
}

// ArcOffsetFrom draws an arc centred at the cursor plus centerOffset,
// sampled with the sketch angle step. See ArcTo.
func (s *Sketch) ArcOffsetFrom(centerOffset r2.Vec, radius, from, to float64) *Sketch {
	return s.ArcTo(r2.Add(s.cursor, centerOffset), radius, from, to, s.angleStep)
}

// Polyline draws lines through every point of pts in order.
func (s *Sketch) Polyline(pts []r2.Vec) *Sketch {
	for _, p := range pts {
		s.lineTo(p)
	}
	return s
}

// Close draws a line back to the start point if the cursor is elsewhere
// and marks the sketch closed. Closing a closed sketch does nothing.
func (s *Sketch) Close() *Sketch {
	if s.closed {
		return s
	}
	s.lineTo(s.start)
	s.closed = true
	return s
}

// Closed reports whether Close was called.
func (s *Sketch) Closed() bool { return s.closed }

// Start returns the first point of the path.
func (s *Sketch) Start() r2.Vec { return s.start }

// Cursor returns the current end point of the path.
func (s *Sketch) Cursor() r2.Vec { return s.cursor }

// Segments returns the recorded segments. The returned slice must not be modified.
func (s *Sketch) Segments() []Segment { return s.segs }

// Vertices returns the path as a polyline starting at Start. For a closed
// sketch the last vertex equals the first.
func (s *Sketch) Vertices() []r2.Vec {
	v := []r2.Vec{s.start}
	for _, seg := range s.segs {
		v = append(v, seg.Points[1:]...)
	}
	return v
}

// Bounds returns the bounding box of the path vertices.
func (s *Sketch) Bounds() r2.Box {
	b := d2.Box{Min: s.start, Max: s.start}
	for _, seg := range s.segs {
		for _, p := range seg.Points {
			b = b.Include(p)
		}
	}
	return r2.Box(b)
}

// SignedArea returns the shoelace area of the path, implicitly closed.
// It is positive for counter-clockwise paths.
func (s *Sketch) SignedArea() float64 {
	v := s.Vertices()
	var a float64
	for i := range v {
		p, q := v[i], v[(i+1)%len(v)]
		a += d2.Cross(p, q)
	}
	return a / 2
}

func (s *Sketch) lineTo(p r2.Vec) {
	if d2.EqualWithin(p, s.cursor, Tolerance) {
		return
	}
	s.push(Segment{Kind: Line, Start: s.cursor, End: p, Points: []r2.Vec{s.cursor, p}})
}

func (s *Sketch) push(seg Segment) {
	if s.closed {
		panic("sketch: segment added to closed sketch")
	}
	s.segs = append(s.segs, seg)
	s.cursor = seg.End
}

func polar(center r2.Vec, radius, angle float64) r2.Vec {
	sin, cos := math.Sincos(angle)
	return r2.Vec{X: center.X + radius*cos, Y: center.Y + radius*sin}
}
