package matter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soypat/nozzle/kernel"
)

var (
	// PLA (polylactic acid) is the most widely used plastic filament material in 3D printing.
	PLA = ViscousMaterial{Name: "pla", Shrink: 0.2e-2} // 0.2% shrinkage
	// PETG shrinks a little more than PLA once off the bed.
	PETG = ViscousMaterial{Name: "petg", Shrink: 0.4e-2}
	// ABS needs the largest compensation of the common filaments.
	ABS = ViscousMaterial{Name: "abs", Shrink: 0.7e-2}
)

var materials = map[string]ViscousMaterial{
	PLA.Name:  PLA,
	PETG.Name: PETG,
	ABS.Name:  ABS,
}

// ViscousMaterial is a cast or printed material that contracts as it cools.
// The zero value does not shrink.
type ViscousMaterial struct {
	Name string
	// Shrink is the thermal contraction shrinkage of a material once the material
	// cools to room temperature after the heated bed is turned off.
	Shrink float64
}

// Lookup returns the material registered under name, case insensitive.
// The empty name returns the zero material.
func Lookup(name string) (ViscousMaterial, error) {
	if name == "" {
		return ViscousMaterial{}, nil
	}
	m, ok := materials[strings.ToLower(name)]
	if !ok {
		return ViscousMaterial{}, fmt.Errorf("unknown material %q, want one of %v", name, Names())
	}
	return m, nil
}

// Names lists the registered materials in order.
func Names() []string {
	names := make([]string, 0, len(materials))
	for name := range materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ScaleFactor is the uniform scale that makes a part reach its design size
// after shrinking.
func (m ViscousMaterial) ScaleFactor() float64 {
	return 1 / (1 - m.Shrink)
}

// Scale grows s about the origin so it shrinks back to size.
// Materials that do not shrink return s unchanged.
func (m ViscousMaterial) Scale(k kernel.Kernel, s kernel.Solid) (kernel.Solid, error) {
	if m.Shrink == 0 {
		return s, nil
	}
	if !(m.Shrink > 0 && m.Shrink < 1) {
		return nil, fmt.Errorf("material %q: shrink %g outside (0, 1)", m.Name, m.Shrink)
	}
	return k.Scale(s, m.ScaleFactor())
}
