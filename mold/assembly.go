package mold

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/soypat/nozzle"
	"github.com/soypat/nozzle/helpers/matter"
	"github.com/soypat/nozzle/internal/d3"
	"github.com/soypat/nozzle/kernel"
	"github.com/soypat/nozzle/render"
	"github.com/soypat/nozzle/sketch"
	"gonum.org/v1/gonum/spatial/r3"
)

// Solid names in assembly order.
const (
	Plug           = "plug"
	GrainShell     = "grain_shell"
	NozzleShell    = "nozzle_shell"
	CastGrain      = "cast_grain"
	CastNozzle     = "cast_nozzle"
	CastGrainHalf  = "cast_grain_half"
	CastNozzleHalf = "cast_nozzle_half"
)

var solidOrder = []string{Plug, GrainShell, NozzleShell, CastGrain, CastNozzle, CastGrainHalf, CastNozzleHalf}

// Assembly is the set of solids of one mold. It is not modified after
// Assemble returns.
type Assembly struct {
	Config  Config
	Profile *nozzle.Profile
	// Material compensates the casts for shrinkage.
	Material matter.ViscousMaterial

	sketches map[string]*sketch.Sketch
	solids   map[string]kernel.Solid
}

// Assemble builds the mold described by c with k. Kernel rejections are
// returned as *kernel.RejectionError naming the profile. No assembly is
// returned on error.
func Assemble(k kernel.Kernel, c Config) (*Assembly, error) {
	log := Logger()
	g, err := c.geometry()
	if err != nil {
		return nil, err
	}
	prof, err := g.Profile(c.Sampling())
	if err != nil {
		return nil, err
	}
	mat, err := matter.Lookup(c.Material)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	log.Debug("nozzle profile", "profile", prof.String(), "chord_error", prof.MaxChordError())
	a := &Assembly{
		Config:   c,
		Profile:  prof,
		Material: mat,
		sketches: map[string]*sketch.Sketch{
			ChamberProfile:     ChamberSketch(c),
			NozzleProfile:      NozzleSketch(c, prof),
			GrainShellProfile:  GrainShellSketch(c),
			NozzleShellProfile: NozzleShellSketch(c, prof),
		},
		solids: make(map[string]kernel.Solid, len(solidOrder)),
	}
	revolved := make(map[string]kernel.Solid, len(a.sketches))
	for _, name := range []string{ChamberProfile, NozzleProfile, GrainShellProfile, NozzleShellProfile} {
		s, err := revolve(k, name, a.sketches[name])
		if err != nil {
			var rej *kernel.RejectionError
			if errors.As(err, &rej) {
				log.Warn("profile rejected", "profile", rej.Profile, "reason", rej.Reason)
			}
			return nil, err
		}
		revolved[name] = s
	}

	plug, err := k.Fuse(revolved[ChamberProfile], revolved[NozzleProfile])
	if err != nil {
		return nil, fmt.Errorf("fuse plug: %w", err)
	}
	if l := c.ExitConeLength; l > 0 {
		xE := c.NozzleStart() + prof.ConvergingLength() + prof.DivergingLength()
		re := prof.ExitRadius()
		cone, err := k.Cone(xE, re, xE+l, re+l*math.Tan(c.ExitAngle*math.Pi/180))
		if err != nil {
			return nil, fmt.Errorf("exit cone: %w", err)
		}
		if plug, err = k.Fuse(plug, cone); err != nil {
			return nil, fmt.Errorf("fuse exit cone: %w", err)
		}
	}
	a.solids[Plug] = plug
	a.solids[GrainShell] = revolved[GrainShellProfile]
	a.solids[NozzleShell] = revolved[NozzleShellProfile]

	castGrain, err := k.Cut(revolved[GrainShellProfile], plug)
	if err != nil {
		return nil, fmt.Errorf("cut %s: %w", CastGrain, err)
	}
	nozzleOnly, err := k.Cut(revolved[NozzleShellProfile], revolved[GrainShellProfile])
	if err != nil {
		return nil, fmt.Errorf("cut %s: %w", CastNozzle, err)
	}
	castNozzle, err := k.Cut(nozzleOnly, plug)
	if err != nil {
		return nil, fmt.Errorf("cut %s: %w", CastNozzle, err)
	}
	if castGrain, err = mat.Scale(k, castGrain); err != nil {
		return nil, err
	}
	if castNozzle, err = mat.Scale(k, castNozzle); err != nil {
		return nil, err
	}
	a.solids[CastGrain] = castGrain
	a.solids[CastNozzle] = castNozzle

	for _, half := range []struct{ from, to string }{{CastGrain, CastGrainHalf}, {CastNozzle, CastNozzleHalf}} {
		s, err := halfSection(k, a.solids[half.from])
		if err != nil {
			return nil, fmt.Errorf("cut %s: %w", half.to, err)
		}
		a.solids[half.to] = s
	}
	log.Info("mold assembled", "solids", len(a.solids), "exit_radius", prof.ExitRadius(), "material", mat.Name)
	return a, nil
}

// revolve turns a closed sketch into a full solid of revolution.
func revolve(k kernel.Kernel, name string, sk *sketch.Sketch) (kernel.Solid, error) {
	Logger().Debug("revolve", "profile", name, "segments", len(sk.Segments()))
	w, err := k.Wire(name, sk.Segments())
	if err != nil {
		return nil, err
	}
	f, err := k.Face(w)
	if err != nil {
		return nil, err
	}
	s, err := k.Revolve(f, 2*math.Pi)
	if err != nil {
		return nil, fmt.Errorf("revolve %s: %w", name, err)
	}
	return s, nil
}

// halfSection removes the Y < 0 half of s.
func halfSection(k kernel.Kernel, s kernel.Solid) (kernel.Solid, error) {
	bb := d3.Box(s.Bounds()).Enlarge(d3.Elem(2))
	box, err := k.Box(bb.Min, r3.Vec{X: bb.Max.X, Y: 0, Z: bb.Max.Z})
	if err != nil {
		return nil, err
	}
	return k.Cut(s, box)
}

// Solids returns the names of the assembled solids in assembly order.
func (a *Assembly) Solids() []string {
	return append([]string(nil), solidOrder...)
}

// Solid returns the named solid.
func (a *Assembly) Solid(name string) (kernel.Solid, bool) {
	s, ok := a.solids[name]
	return s, ok
}

// Sketch returns the named closed sketch the solids were revolved from.
func (a *Assembly) Sketch(name string) (*sketch.Sketch, bool) {
	s, ok := a.sketches[name]
	return s, ok
}

// Outlines returns every sketch as a render outline, in revolve order.
func (a *Assembly) Outlines() []render.Outline {
	var out []render.Outline
	for _, name := range []string{ChamberProfile, NozzleProfile, GrainShellProfile, NozzleShellProfile} {
		out = append(out, render.Outline{Name: name, Points: a.sketches[name].Vertices()})
	}
	return out
}

// Export meshes the named solids, or all of them if names is empty, to
// <dir>/<name>.stl and returns the written paths. Solids are meshed
// concurrently with cubes of side maxEdge.
func (a *Assembly) Export(dir string, maxEdge float64, names ...string) ([]string, error) {
	if len(names) == 0 {
		names = a.Solids()
	}
	for _, name := range names {
		if _, ok := a.solids[name]; !ok {
			return nil, fmt.Errorf("no solid named %q", name)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var (
		wg    sync.WaitGroup
		paths = make([]string, len(names))
		errs  = make([]error, len(names))
	)
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			path := filepath.Join(dir, name+".stl")
			r, err := render.NewMarchingCubesRenderer(a.solids[name], maxEdge)
			if err == nil {
				err = render.CreateSTL(path, r)
			}
			if err != nil {
				errs[i] = fmt.Errorf("export %s: %w", name, err)
				return
			}
			paths[i] = path
			Logger().Info("exported", "solid", name, "path", path)
		}()
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return paths, nil
}

// AssembleAll assembles each config in its own goroutine. Assemblies are
// returned in config order. k must be safe for concurrent use, as
// SDFKernel is.
func AssembleAll(k kernel.Kernel, configs ...Config) ([]*Assembly, error) {
	var (
		wg   sync.WaitGroup
		out  = make([]*Assembly, len(configs))
		errs = make([]error, len(configs))
	)
	for i, c := range configs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i], errs[i] = Assemble(k, c)
			if errs[i] != nil {
				errs[i] = fmt.Errorf("config %d: %w", i, errs[i])
			}
		}()
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}
