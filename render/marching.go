package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	sdfxrender "github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/nozzle/internal/d3"
	"github.com/soypat/nozzle/kernel"
	"gonum.org/v1/gonum/spatial/r3"
)

// MaxMeshCells bounds the marching cubes resolution along the longest axis.
const MaxMeshCells = 2000

// sdfxSolid exposes a kernel solid as an sdfx SDF3.
type sdfxSolid struct {
	s  kernel.Solid
	bb sdf.Box3
}

func (a *sdfxSolid) Evaluate(p v3.Vec) float64 {
	return a.s.Evaluate(r3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

func (a *sdfxSolid) BoundingBox() sdf.Box3 { return a.bb }

// marchingCubes renders a solid with sdfx uniform marching cubes. The mesh
// is generated on the first call to ReadTriangles.
type marchingCubes struct {
	s         *sdfxSolid
	cells     int
	done      bool
	unwritten triangle3Buffer
}

// NewMarchingCubesRenderer returns a Renderer that tessellates s with
// cubes whose side is at most maxEdge.
func NewMarchingCubesRenderer(s kernel.Solid, maxEdge float64) (Renderer, error) {
	if s == nil {
		return nil, errors.New("nil solid")
	}
	if !(maxEdge > 0) || math.IsInf(maxEdge, 0) {
		return nil, fmt.Errorf("mesh edge length %g must be positive and finite", maxEdge)
	}
	bb := d3.Box(s.Bounds())
	// Pad so the surface never lies on the sampling boundary.
	bb = bb.Enlarge(d3.Elem(2 * maxEdge))
	longAxis := d3.Max(bb.Size())
	if !(longAxis > 0) || math.IsInf(longAxis, 0) {
		return nil, fmt.Errorf("solid has unusable bounds %+v", s.Bounds())
	}
	cells := int(math.Ceil(longAxis / maxEdge))
	if cells > MaxMeshCells {
		return nil, fmt.Errorf("%d mesh cells along %g exceed limit of %d, increase edge length", cells, longAxis, MaxMeshCells)
	}
	if cells < 2 {
		cells = 2
	}
	return &marchingCubes{
		s: &sdfxSolid{
			s: s,
			bb: sdf.Box3{
				Min: v3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
				Max: v3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
			},
		},
		cells: cells,
	}, nil
}

// ReadTriangles implements Renderer.
func (m *marchingCubes) ReadTriangles(t []Triangle3) (int, error) {
	if !m.done {
		m.done = true
		tris := sdfxrender.ToTriangles(m.s, sdfxrender.NewMarchingCubesUniform(m.cells))
		m.unwritten.buf = make([]Triangle3, 0, len(tris))
		for _, tri := range tris {
			var out Triangle3
			for j := 0; j < 3; j++ {
				v := tri[j]
				out.V[j] = r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
			}
			if d := fromTriangle3(out); d.degenerate(0) || d.Normal == [3]float32{} {
				continue // collapses once stored as float32
			}
			m.unwritten.Write([]Triangle3{out})
		}
	}
	if m.unwritten.Len() == 0 {
		return 0, io.EOF
	}
	return m.unwritten.Read(t), nil
}

// Mesh tessellates s into triangles no larger than about maxEdge.
func Mesh(s kernel.Solid, maxEdge float64) ([]Triangle3, error) {
	r, err := NewMarchingCubesRenderer(s, maxEdge)
	if err != nil {
		return nil, err
	}
	model, err := RenderAll(r)
	if err != nil {
		return nil, err
	}
	if len(model) == 0 {
		return nil, errors.New("solid meshed to zero triangles")
	}
	return model, nil
}
