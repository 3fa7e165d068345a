package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/webtension/internal/line"
	"github.com/san-kum/webtension/internal/tension"
)

const (
	DefaultLineLength  = 10.0 // m
	DefaultLayout      = "default"
	DefaultThicknessUm = 70.0
	DefaultWidthM      = 0.12
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// FieldError names the offending field of a rejected configuration.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalidConfig }

func fieldErr(field, format string, args ...any) error {
	return &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

type Config struct {
	Line     LineConfig     `yaml:"line"`
	Material MaterialConfig `yaml:"material"`
	Sim      SimConfig      `yaml:"sim"`
}

type LineConfig struct {
	LengthM  float64         `yaml:"length_m"`
	Layout   string          `yaml:"layout,omitempty"`
	Stations []StationConfig `yaml:"stations,omitempty"`
}

type StationConfig struct {
	ID       string  `yaml:"id"`
	Type     string  `yaml:"type"`
	Position float64 `yaml:"position"`
}

// MaterialConfig fields left nil fall back to the preset, then to the
// documented defaults.
type MaterialConfig struct {
	Preset      string   `yaml:"preset,omitempty"`
	ThicknessUm *float64 `yaml:"thickness_um,omitempty"`
	WidthM      *float64 `yaml:"width_m,omitempty"`
	EA          *float64 `yaml:"ea,omitempty"`
	BaseStrain  *float64 `yaml:"base_strain,omitempty"`
	StrainStep  *float64 `yaml:"strain_step,omitempty"`
	MaxStrain   *float64 `yaml:"max_strain,omitempty"`
}

type SimConfig struct {
	Workers    int    `yaml:"workers"`
	Integrator string `yaml:"integrator,omitempty"`
	Speed      string `yaml:"speed,omitempty"`
}

// Material is a fully resolved material. MaxStrain is a display threshold
// only; zero means none.
type Material struct {
	tension.Material
	Label     string
	MaxStrain float64
}

func DefaultConfig() *Config {
	return &Config{
		Line: LineConfig{
			LengthM: DefaultLineLength,
			Layout:  DefaultLayout,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything the engine assumes about its inputs.
func (c *Config) Validate() error {
	if math.IsNaN(c.Line.LengthM) || math.IsInf(c.Line.LengthM, 0) || c.Line.LengthM <= 0 {
		return fieldErr("line.length_m", "must be positive, got %g", c.Line.LengthM)
	}
	if c.Sim.Workers < 0 {
		return fieldErr("sim.workers", "must not be negative, got %d", c.Sim.Workers)
	}
	if _, err := c.Stations(); err != nil {
		return err
	}
	if _, err := c.ResolveMaterial(); err != nil {
		return err
	}
	return nil
}

// Stations returns the explicit station list, or the named layout when
// none is given.
func (c *Config) Stations() ([]line.Station, error) {
	if len(c.Line.Stations) == 0 {
		name := c.Line.Layout
		if name == "" {
			name = DefaultLayout
		}
		stations := GetLayout(name)
		if stations == nil {
			return nil, fieldErr("line.layout", "unknown layout %q (available: %v)", name, ListLayouts())
		}
		return stations, nil
	}

	out := make([]line.Station, 0, len(c.Line.Stations))
	seen := make(map[string]bool, len(c.Line.Stations))
	for i, sc := range c.Line.Stations {
		field := fmt.Sprintf("line.stations[%d]", i)
		if sc.ID == "" {
			return nil, fieldErr(field+".id", "must not be empty")
		}
		if seen[sc.ID] {
			return nil, fieldErr(field+".id", "duplicate station id %q", sc.ID)
		}
		seen[sc.ID] = true

		st, err := line.ParseStationType(sc.Type)
		if err != nil {
			return nil, fieldErr(field+".type", "%v", err)
		}
		if math.IsNaN(sc.Position) || sc.Position < 0 || sc.Position > 100 {
			return nil, fieldErr(field+".position", "must be within [0, 100], got %g", sc.Position)
		}
		out = append(out, line.Station{ID: sc.ID, Type: st, Position: sc.Position})
	}

	// Zone ids ignore length, so any positive length will do here.
	if err := line.CheckZoneIDs(line.BuildZones(out, 1)); err != nil {
		return nil, fieldErr("line.stations", "%v", err)
	}
	return out, nil
}

// ResolveMaterial applies precedence explicit > preset > default and
// validates the result. It never guesses past that chain.
func (c *Config) ResolveMaterial() (Material, error) {
	mc := c.Material
	m := Material{Material: tension.DefaultMaterial(), Label: "web"}

	if mc.Preset == "" {
		if mc.ThicknessUm != nil {
			return Material{}, fieldErr("material.thickness_um", "only applies with material.preset")
		}
		if mc.WidthM != nil {
			return Material{}, fieldErr("material.width_m", "only applies with material.preset")
		}
	} else {
		p := GetMaterial(mc.Preset)
		if p == nil {
			return Material{}, fieldErr("material.preset", "unknown material %q (available: %v)", mc.Preset, ListMaterials())
		}
		thickness := valueOr(mc.ThicknessUm, DefaultThicknessUm)
		width := valueOr(mc.WidthM, DefaultWidthM)
		if !(thickness > 0) || !(width > 0) {
			return Material{}, fieldErr("material", "thickness and width must be positive, got %g um x %g m", thickness, width)
		}
		m.Stiffness = p.Stiffness(thickness, width)
		m.BaseStrain = p.BaseStrain
		m.StrainStep = p.StrainStep
		m.MaxStrain = p.MaxStrain
		m.Label = p.Label
	}

	if mc.EA != nil {
		m.Stiffness = *mc.EA
	}
	if mc.BaseStrain != nil {
		m.BaseStrain = *mc.BaseStrain
	}
	if mc.StrainStep != nil {
		m.StrainStep = *mc.StrainStep
	}
	if mc.MaxStrain != nil {
		m.MaxStrain = *mc.MaxStrain
	}

	if err := m.Material.Validate(); err != nil {
		return Material{}, fieldErr("material", "%v", err)
	}
	if m.BaseStrain < 0 {
		return Material{}, fieldErr("material.base_strain", "must not be negative, got %g", m.BaseStrain)
	}
	if m.StrainStep < 0 {
		return Material{}, fieldErr("material.strain_step", "must not be negative, got %g", m.StrainStep)
	}
	if math.IsNaN(m.MaxStrain) || m.MaxStrain < 0 {
		return Material{}, fieldErr("material.max_strain", "must not be negative, got %g", m.MaxStrain)
	}
	return m, nil
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// Float returns a pointer for optional YAML fields.
func Float(v float64) *float64 { return &v }
