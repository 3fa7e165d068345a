package config

import (
	"fmt"
	"math"
	"sort"
)

// Tunable parameters addressable by name, for sweeps and grid searches.
var setters = map[string]func(c *Config, v float64){
	"line.length_m":         func(c *Config, v float64) { c.Line.LengthM = v },
	"material.thickness_um": func(c *Config, v float64) { c.Material.ThicknessUm = Float(v) },
	"material.width_m":      func(c *Config, v float64) { c.Material.WidthM = Float(v) },
	"material.ea":           func(c *Config, v float64) { c.Material.EA = Float(v) },
	"material.base_strain":  func(c *Config, v float64) { c.Material.BaseStrain = Float(v) },
	"material.strain_step":  func(c *Config, v float64) { c.Material.StrainStep = Float(v) },
	"material.max_strain":   func(c *Config, v float64) { c.Material.MaxStrain = Float(v) },
}

func ListParams() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetParam assigns one named numeric field. Range checks are left to
// Validate. material.thickness_um and material.width_m only scale a
// preset's modulus; Validate rejects them when no preset is set.
func (c *Config) SetParam(name string, v float64) error {
	set, ok := setters[name]
	if !ok {
		return fieldErr(name, "unknown parameter (available: %v)", ListParams())
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fieldErr(name, "must be finite, got %g", v)
	}
	set(c, v)
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Line.Stations = append([]StationConfig(nil), c.Line.Stations...)
	mc := &out.Material
	for _, p := range []**float64{&mc.ThicknessUm, &mc.WidthM, &mc.EA, &mc.BaseStrain, &mc.StrainStep, &mc.MaxStrain} {
		if *p != nil {
			*p = Float(**p)
		}
	}
	return &out
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("config: need at least one point, got %d", n)
	}
	if n == 1 {
		return []float64{lo}, nil
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out, nil
}
