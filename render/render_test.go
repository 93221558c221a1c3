package render_test

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/nozzle/kernel"
	"github.com/soypat/nozzle/render"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// testBox is offset from the origin so its faces do not fall on mesh grid planes.
func testBox() kernel.Solid {
	return kernel.Box(r3.Vec{X: -3.03, Y: -2.07, Z: -1.11}, r3.Vec{X: 2.97, Y: 1.93, Z: 0.89})
}

func TestSTLCreateWriteRead(t *testing.T) {
	const edge = 0.5
	box := testBox()
	stlPath := filepath.Join(t.TempDir(), "box.stl")
	r, err := render.NewMarchingCubesRenderer(box, edge)
	if err != nil {
		t.Fatal(err)
	}
	err = render.CreateSTL(stlPath, r)
	if err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(stlPath)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.Mesh(box, edge)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	err = render.WriteSTL(&b, model)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != len(bfile) {
		t.Fatal("WriteSTL and CreateSTL output length mismatch")
	}
	if b.String() != string(bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
	got, err := render.ReadSTL(bytes.NewReader(bfile))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(model) {
		t.Fatalf("read %d triangles, wrote %d", len(got), len(model))
	}
	for i := range got {
		for j := range got[i].V {
			if r3.Norm(r3.Sub(got[i].V[j], model[i].V[j])) > 1e-5 {
				t.Fatalf("triangle %d vertex %d: read %v, wrote %v", i, j, got[i].V[j], model[i].V[j])
			}
		}
	}
}

func TestMeshBounds(t *testing.T) {
	const edge = 0.25
	box := testBox()
	model, err := render.Mesh(box, edge)
	if err != nil {
		t.Fatal(err)
	}
	got := render.Bounds(model)
	want := box.Bounds()
	if r3.Norm(r3.Sub(got.Min, want.Min)) > 2*edge || r3.Norm(r3.Sub(got.Max, want.Max)) > 2*edge {
		t.Errorf("mesh bounds %+v, solid bounds %+v", got, want)
	}
	for i, tri := range model {
		if tri.Degenerate(0) || r3.Norm(tri.Normal()) == 0 {
			t.Fatalf("triangle %d degenerate: %v", i, tri)
		}
	}
}

func TestMeshErrors(t *testing.T) {
	box := testBox()
	for _, edge := range []float64{0, -1, math.NaN(), math.Inf(1), 1e-4} {
		if _, err := render.Mesh(box, edge); err == nil {
			t.Errorf("edge %g: expected error", edge)
		}
	}
	if _, err := render.Mesh(nil, 1); err == nil {
		t.Error("expected error meshing nil solid")
	}
}

func TestReadSTLErrors(t *testing.T) {
	if _, err := render.ReadSTL(bytes.NewReader(make([]byte, 40))); err == nil {
		t.Error("expected error on short header")
	}
	if _, err := render.ReadSTL(bytes.NewReader(make([]byte, 84))); err == nil {
		t.Error("expected error on empty STL")
	}
	// Header announces two triangles but holds one.
	var b bytes.Buffer
	b.Write(make([]byte, 80))
	binary.Write(&b, binary.LittleEndian, uint32(2))
	b.Write(make([]byte, 50))
	if _, err := render.ReadSTL(&b); err == nil {
		t.Error("expected error on truncated STL")
	}
	if err := render.WriteSTL(io.Discard, nil); err == nil {
		t.Error("expected error writing no triangles")
	}
}

func TestTriangleNormal(t *testing.T) {
	tri := render.Triangle3{V: [3]r3.Vec{{}, {X: 1}, {Y: 1}}}
	if n := tri.Normal(); n != (r3.Vec{Z: 1}) {
		t.Errorf("normal %v, want +Z", n)
	}
	line := render.Triangle3{V: [3]r3.Vec{{}, {X: 1}, {X: 2}}}
	if n := line.Normal(); n != (r3.Vec{}) {
		t.Errorf("collinear normal %v, want zero", n)
	}
	if !(render.Triangle3{V: [3]r3.Vec{{}, {}, {X: 1}}}).Degenerate(0) {
		t.Error("coincident vertices not degenerate")
	}
}

var testOutlines = []render.Outline{
	{Name: "square", Points: []r2.Vec{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 0}}},
	{Name: "step", Points: []r2.Vec{{X: 10, Y: 0}, {X: 10, Y: 5}, {X: 30, Y: 5}, {X: 30, Y: 0}, {X: 10, Y: 0}}},
}

func TestDrawSheet(t *testing.T) {
	const width = 300
	path := filepath.Join(t.TempDir(), "sheet.png")
	err := render.DrawSheet(path, width, testOutlines...)
	if err != nil {
		t.Fatal(err)
	}
	img := decodePNG(t, path)
	if got := img.Bounds().Dx(); got != width {
		t.Errorf("sheet width %d, want %d", got, width)
	}
	if h := img.Bounds().Dy(); h >= width {
		t.Errorf("sheet height %d should follow the 3:1 outline aspect", h)
	}
	if err := render.DrawSheet(path, width); err == nil {
		t.Error("expected error drawing no outlines")
	}
}

func TestPlotOutlines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot.png")
	err := render.PlotOutlines(path, "test outlines", testOutlines...)
	if err != nil {
		t.Fatal(err)
	}
	decodePNG(t, path)
}

func TestSTLToPNG(t *testing.T) {
	dir := t.TempDir()
	stlPath := filepath.Join(dir, "box.stl")
	r, err := render.NewMarchingCubesRenderer(testBox(), 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if err := render.CreateSTL(stlPath, r); err != nil {
		t.Fatal(err)
	}
	view := render.DefaultView
	view.Width, view.Height = 64, 48
	pngPath := filepath.Join(dir, "box.png")
	if err := render.STLToPNG(stlPath, pngPath, view); err != nil {
		t.Fatal(err)
	}
	img := decodePNG(t, pngPath)
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("preview size %v", b)
	}
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	fp, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	img, err := png.Decode(fp)
	if err != nil {
		t.Fatal(err)
	}
	return img
}
