package mold

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
)

// params maps script parameter names to config fields.
func (c *Config) params() map[string]*float64 {
	return map[string]*float64{
		"throat-radius":    &c.ThroatRadius,
		"inflection-angle": &c.InflectionAngle,
		"exit-angle":       &c.ExitAngle,
		"expansion-ratio":  &c.ExpansionRatio,
		"converging-coef":  &c.ConvergingCoef,
		"diverging-coef":   &c.DivergingCoef,
		"outside-radius":   &c.OutsideRadius,
		"port-radius":      &c.PortRadius,
		"max-port-radius":  &c.MaxPortRadius,
		"grain-length":     &c.GrainLength,
		"chamber-length":   &c.ChamberLength,
		"rounding-radius":  &c.RoundingRadius,
		"wall-thickness":   &c.WallThickness,
		"socket-depth":     &c.SocketDepth,
		"cone-height":      &c.ConeHeight,
		"exit-cone-length": &c.ExitConeLength,
		"linear-step":      &c.LinearStep,
		"angular-step":     &c.AngularStep,
		"mesh-max-edge":    &c.MeshMaxEdge,
	}
}

// LoadScript evaluates a configuration script on top of base and returns
// the resulting config. Scripts are zygomys Lisp run in a sandbox and set
// parameters with the param builtin:
//
//	(param "throat-radius" 6.0)
//	(param "grain-length" (* 2 115))
//	(param "material" "pla")
//
// The returned config is not validated.
func LoadScript(src string, base Config) (Config, error) {
	c := base
	if strings.TrimSpace(src) == "" {
		return c, nil
	}
	fields := c.params()
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	env.AddFunction("param", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("param: want name and value, got %d arguments", len(args))
		}
		key, ok := args[0].(*zygo.SexpStr)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("param: name must be a string, got %s", args[0].SexpString(nil))
		}
		if key.S == "material" {
			v, ok := args[1].(*zygo.SexpStr)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("param material: want string, got %s", args[1].SexpString(nil))
			}
			c.Material = v.S
			return zygo.SexpNull, nil
		}
		field, ok := fields[key.S]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("param: unknown parameter %q", key.S)
		}
		switch v := args[1].(type) {
		case *zygo.SexpInt:
			*field = float64(v.Val)
		case *zygo.SexpFloat:
			*field = v.Val
		default:
			return zygo.SexpNull, fmt.Errorf("param %s: want number, got %s", key.S, args[1].SexpString(nil))
		}
		return zygo.SexpNull, nil
	})
	if err := env.LoadString(src); err != nil {
		return base, fmt.Errorf("%w: script: %v", ErrInvalidConfig, err)
	}
	if _, err := env.Run(); err != nil {
		return base, fmt.Errorf("%w: script: %v", ErrInvalidConfig, err)
	}
	Logger().Debug("config script loaded", "material", c.Material)
	return c, nil
}
