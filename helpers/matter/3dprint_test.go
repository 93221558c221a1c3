package matter_test

import (
	"math"
	"testing"

	"github.com/soypat/nozzle/helpers/matter"
	"github.com/soypat/nozzle/kernel"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestLookup(t *testing.T) {
	m, err := matter.Lookup("PLA")
	if err != nil {
		t.Fatal(err)
	}
	if m != matter.PLA {
		t.Errorf("got %+v, want PLA", m)
	}
	none, err := matter.Lookup("")
	if err != nil || none.Shrink != 0 {
		t.Errorf("empty name: got %+v, %v", none, err)
	}
	if _, err := matter.Lookup("wax"); err == nil {
		t.Error("expected error for unknown material")
	}
	if got := matter.Names(); len(got) != 3 || got[0] != "abs" {
		t.Errorf("names %v", got)
	}
}

func TestScale(t *testing.T) {
	k := kernel.New()
	box, err := k.Box(r3.Vec{X: -10, Y: -10, Z: -10}, r3.Vec{X: 10, Y: 10, Z: 10})
	if err != nil {
		t.Fatal(err)
	}
	scaled, err := matter.PLA.Scale(k, box)
	if err != nil {
		t.Fatal(err)
	}
	want := 10 / (1 - 0.002)
	if got := scaled.Bounds().Max.X; math.Abs(got-want) > 1e-12 {
		t.Errorf("scaled half size %g, want %g", got, want)
	}
	same, err := matter.ViscousMaterial{}.Scale(k, box)
	if err != nil || same != box {
		t.Error("zero material should return solid unchanged")
	}
	if _, err := (matter.ViscousMaterial{Name: "bad", Shrink: 1.5}).Scale(k, box); err == nil {
		t.Error("expected error for shrink above 1")
	}
}
