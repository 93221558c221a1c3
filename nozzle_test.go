package nozzle

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r2"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func defaultSpec() Spec { return RaoSpec(5.435, 30, 12, 3.7) }

func TestGeometryDefaults(t *testing.T) {
	g, err := NewGeometry(defaultSpec())
	if err != nil {
		t.Fatal(err)
	}
	const rt = 5.435
	rd := 0.382 * rt
	got := []float64{g.ExitRadius, g.ConvergingRadius, g.DivergingRadius, g.Inflection.X, g.Inflection.Y}
	want := []float64{
		rt * math.Sqrt(3.7),
		1.5 * rt,
		rd,
		rd * math.Sin(math.Pi/6),
		rt + rd*(1-math.Cos(math.Pi/6)),
	}
	diff(t, want, got, approx)
	if math.Abs(g.ExitRadius-10.4544) > 1e-3 {
		t.Errorf("exit radius %g, want about 10.4544", g.ExitRadius)
	}
	if g.ConvergingLength() != g.ConvergingRadius {
		t.Error("converging length must equal converging arc radius")
	}
	if g.DivergingLength() <= g.Inflection.X {
		t.Errorf("exit plane %g behind inflection point %g", g.DivergingLength(), g.Inflection.X)
	}
}

func TestParabolaSlopeContinuity(t *testing.T) {
	for _, spec := range []Spec{
		defaultSpec(),
		RaoSpec(1, 45, 8, 10),
		RaoSpec(20, 25, 15, 2),
		RaoSpec(3, 35, 5, 25),
	} {
		g, err := NewGeometry(spec)
		if err != nil {
			t.Fatal(err)
		}
		thetaN, thetaE := d2r(spec.InflectionAngle), d2r(spec.ExitAngle)
		if d := math.Abs(Slope(g.A, g.B, g.Inflection.Y) - 1/math.Tan(thetaN)); d > 1e-6 {
			t.Errorf("%+v: inflection slope off by %g", spec, d)
		}
		if d := math.Abs(Slope(g.A, g.B, g.ExitRadius) - 1/math.Tan(thetaE)); d > 1e-6 {
			t.Errorf("%+v: exit slope off by %g", spec, d)
		}
		if d := math.Abs(g.ParabolaX(g.Inflection.Y) - g.Inflection.X); d > 1e-9 {
			t.Errorf("%+v: parabola misses inflection point by %g", spec, d)
		}
		// Diverging arc tangent at the inflection point matches the parabola.
		arcSlope := 1 / math.Tan(thetaN)
		if d := math.Abs(arcSlope - Slope(g.A, g.B, g.Inflection.Y)); d > 1e-6 {
			t.Errorf("%+v: arc and parabola tangents differ by %g", spec, d)
		}
	}
}

func TestCirclePoint(t *testing.T) {
	const r = 2
	got := []r2.Vec{
		CirclePoint(0, r, 0, r),
		CirclePoint(math.Pi/2, r, 0, r),
		CirclePoint(math.Pi, r, 0, r),
		CirclePoint(1.5*math.Pi, r, 0, r),
	}
	want := []r2.Vec{{X: 0, Y: 0}, {X: r, Y: r}, {X: 0, Y: 2 * r}, {X: -r, Y: r}}
	diff(t, want, got, cmpopts.EquateApprox(0, 1e-12))
}

func TestParabolaCoefficientsDegenerate(t *testing.T) {
	infl := r2.Vec{X: 1, Y: 5}
	_, _, _, err := ParabolaCoefficients(0.5, 0.5, 10, infl)
	if !errors.Is(err, ErrDegenerateCurve) {
		t.Errorf("equal angles: got %v", err)
	}
	_, _, _, err = ParabolaCoefficients(0.5, 0.2, 5, infl)
	if !errors.Is(err, ErrDegenerateCurve) {
		t.Errorf("inflection on exit radius: got %v", err)
	}
}

func TestProfileShape(t *testing.T) {
	p, err := Generate(defaultSpec(), DefaultSampling())
	if err != nil {
		t.Fatal(err)
	}
	g := p.Geometry
	pts := p.Points
	first, last := pts[0], pts[len(pts)-1]
	diff(t, r2.Vec{X: -g.ConvergingRadius}, first)
	if first != last {
		t.Errorf("profile not closed: first %v last %v", first, last)
	}
	if first.Y != 0 || last.Y != 0 {
		t.Error("profile must start and end on the axis")
	}
	if pts[p.ThroatIndex] != (r2.Vec{X: 0, Y: g.Spec.ThroatRadius}) {
		t.Errorf("throat sample %v", pts[p.ThroatIndex])
	}
	if pts[p.InflectionIndex] != g.Inflection {
		t.Errorf("inflection sample %v, want %v", pts[p.InflectionIndex], g.Inflection)
	}
	exit := pts[p.ExitIndex]
	if math.Abs(exit.Y-g.ExitRadius) > 1e-9 {
		t.Errorf("exit radius %g, want %g", exit.Y, g.ExitRadius)
	}
	if exit.X != p.DivergingLength() {
		t.Errorf("exit axial position %g, want %g", exit.X, p.DivergingLength())
	}
	for i, v := range pts {
		if v.Y < 0 {
			t.Fatalf("point %d below axis: %v", i, v)
		}
		if v.Y > g.ExitRadius+1e-9 && i > p.ThroatIndex {
			t.Fatalf("point %d overshoots exit radius: %v", i, v)
		}
		if i > 0 && pts[i-1] == v {
			t.Fatalf("duplicate consecutive point %d: %v", i, v)
		}
	}
}

func TestProfileMonotonicWall(t *testing.T) {
	p, err := Generate(defaultSpec(), DefaultSampling())
	if err != nil {
		t.Fatal(err)
	}
	wall := p.Wall()
	for i := 1; i < len(wall); i++ {
		if wall[i].X < wall[i-1].X {
			t.Fatalf("wall goes backwards at %d: %v -> %v", i, wall[i-1], wall[i])
		}
		if d := r2.Norm(r2.Sub(wall[i], wall[i-1])); d > 0.5 {
			t.Fatalf("gap of %g between wall samples %d and %d", d, i-1, i)
		}
	}
	conv := p.Converging()
	for i := 1; i < len(conv); i++ {
		if conv[i].Y > conv[i-1].Y {
			t.Fatalf("converging arc widens at %d", i)
		}
	}
	for name, section := range map[string][]r2.Vec{"diverging arc": p.Diverging(), "bell": p.Bell()} {
		for i := 1; i < len(section); i++ {
			if section[i].Y < section[i-1].Y {
				t.Fatalf("%s narrows at %d", name, i)
			}
		}
	}
	if p.Diverging()[len(p.Diverging())-1] != p.Bell()[0] {
		t.Error("diverging arc and bell do not share the inflection point")
	}
}

func TestProfileCoarseStep(t *testing.T) {
	// Steps coarser than every section still yield exact section ends.
	p, err := Generate(defaultSpec(), Sampling{AngularStep: 120, LinearStep: 100})
	if err != nil {
		t.Fatal(err)
	}
	g := p.Geometry
	rt, rc := g.Spec.ThroatRadius, g.ConvergingRadius
	want := []r2.Vec{
		{X: -rc, Y: 0},
		{X: -rc, Y: rt + rc},
		{X: 0, Y: rt},
		g.Inflection,
		g.Exit(),
		{X: g.Exit().X, Y: 0},
		{X: -rc, Y: 0},
	}
	diff(t, want, p.Points, cmpopts.EquateApprox(0, 1e-12))
}

func TestMaxChordError(t *testing.T) {
	p, err := Generate(defaultSpec(), DefaultSampling())
	if err != nil {
		t.Fatal(err)
	}
	if e := p.MaxChordError(); e <= 0 || e > 0.01*p.Geometry.Spec.ThroatRadius {
		t.Errorf("chord error %g out of bounds", e)
	}
}

func TestSpecValidation(t *testing.T) {
	for _, test := range []struct {
		name string
		spec Spec
		want error
	}{
		{"zero throat", RaoSpec(0, 30, 12, 3.7), ErrInvalidSpec},
		{"negative throat", RaoSpec(-1, 30, 12, 3.7), ErrInvalidSpec},
		{"unit expansion", RaoSpec(5, 30, 12, 1), ErrInvalidSpec},
		{"nan expansion", RaoSpec(5, 30, 12, math.NaN()), ErrInvalidSpec},
		{"right angle inflection", RaoSpec(5, 90, 12, 3.7), ErrInvalidSpec},
		{"zero exit angle", RaoSpec(5, 30, 0, 3.7), ErrInvalidSpec},
		{"exit steeper than inflection", RaoSpec(5, 12, 30, 3.7), ErrInvalidSpec},
		{"equal angles", RaoSpec(5, 20, 20, 3.7), ErrDegenerateCurve},
		{"exit below inflection", RaoSpec(5.435, 30, 12, 1.01), ErrInvalidSpec},
		{"zero arc coefficient", Spec{ThroatRadius: 5, InflectionAngle: 30, ExitAngle: 12, ExpansionRatio: 3.7}, ErrInvalidSpec},
	} {
		_, err := Generate(test.spec, DefaultSampling())
		if !errors.Is(err, test.want) {
			t.Errorf("%s: got %v, want %v", test.name, err, test.want)
		}
	}
}

func TestSamplingErrors(t *testing.T) {
	for _, smp := range []Sampling{
		{AngularStep: 0, LinearStep: 0.05},
		{AngularStep: -1, LinearStep: 0.05},
		{AngularStep: 1, LinearStep: math.NaN()},
		{AngularStep: math.Inf(1), LinearStep: 0.05},
		{AngularStep: 1, LinearStep: 1e-12},
		{AngularStep: 1, LinearStep: 0.05, MaxSamples: 10},
	} {
		_, err := Generate(defaultSpec(), smp)
		if !errors.Is(err, ErrNonConvergentSampling) {
			t.Errorf("%+v: got %v", smp, err)
		}
	}
}

func TestTranslate(t *testing.T) {
	p, err := Generate(defaultSpec(), DefaultSampling())
	if err != nil {
		t.Fatal(err)
	}
	const dx = 248.1525
	moved := p.Translate(dx)
	if len(moved) != len(p.Points) {
		t.Fatal("length mismatch")
	}
	for i := range moved {
		if math.Abs(moved[i].X-p.Points[i].X-dx) > 1e-9 {
			t.Fatalf("point %d not translated", i)
		}
		if moved[i].Y != p.Points[i].Y {
			t.Fatalf("point %d radius changed", i)
		}
	}
}
