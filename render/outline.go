package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gg"
	"github.com/soypat/nozzle/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Outline is a named 2D polyline in profile coordinates: X along the
// axis, Y the distance to it.
type Outline struct {
	Name   string
	Points []r2.Vec
}

// PlotOutlines charts outlines on shared axes and saves the chart to path.
// The image format follows the path extension (png, svg, pdf...).
func PlotOutlines(path, title string, outlines ...Outline) error {
	if len(outlines) == 0 {
		return errors.New("no outlines to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "axial position"
	p.Y.Label.Text = "radius"
	p.Add(plotter.NewGrid())
	for i, o := range outlines {
		xys := make(plotter.XYs, len(o.Points))
		for j, v := range o.Points {
			xys[j].X, xys[j].Y = v.X, v.Y
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("outline %q: %w", o.Name, err)
		}
		l.LineStyle.Color = plotutil.Color(i)
		l.LineStyle.Width = vg.Points(1)
		p.Add(l)
		p.Legend.Add(o.Name, l)
	}
	// Keep the profile undistorted.
	bb := outlineBounds(outlines)
	size := bb.Size()
	const width = 10 * vg.Inch
	height := vg.Length(float64(width) * size.Y / math.Max(size.X, 1e-9))
	height = max(height+vg.Inch, 3*vg.Inch)
	return p.Save(width, height, path)
}

// DrawSheet draws filled outlines on a white sheet width pixels wide and
// saves it as PNG. The radius axis points up.
func DrawSheet(path string, width int, outlines ...Outline) error {
	if len(outlines) == 0 {
		return errors.New("no outlines to draw")
	}
	if width < 16 {
		return fmt.Errorf("sheet width %d too small", width)
	}
	const margin = 8
	bb := outlineBounds(outlines)
	size := bb.Size()
	if !(size.X > 0) || !(size.Y > 0) {
		return errors.New("outlines have no extent")
	}
	k := float64(width-2*margin) / size.X
	height := int(math.Ceil(size.Y*k)) + 2*margin
	dc := gg.NewContext(width, height)
	defer dc.Close()
	dc.ClearWithColor(gg.White)
	dc.SetLineWidth(1)
	toPixel := func(v r2.Vec) (x, y float64) {
		return margin + (v.X-bb.Min.X)*k, float64(height) - margin - (v.Y-bb.Min.Y)*k
	}
	for i, o := range outlines {
		if len(o.Points) < 2 {
			continue
		}
		dc.MoveTo(toPixel(o.Points[0]))
		for _, v := range o.Points[1:] {
			dc.LineTo(toPixel(v))
		}
		dc.ClosePath()
		shade := 0.55 + 0.1*float64(i%4)
		dc.SetRGB(shade, shade+0.1, 0.9)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
		dc.SetRGB(0, 0, 0)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	return dc.SavePNG(path)
}

func outlineBounds(outlines []Outline) d2.Box {
	var all d2.Set
	for _, o := range outlines {
		all = append(all, o.Points...)
	}
	if len(all) == 0 {
		return d2.Box{}
	}
	return all.Bounds()
}
