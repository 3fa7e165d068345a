package automation

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/webtension/internal/config"
	"github.com/san-kum/webtension/internal/experiment"
	"github.com/san-kum/webtension/internal/storage"
)

// Scenario is a scripted batch of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`

	dir string
}

// ScenarioStep describes one run. Config is a path relative to the
// scenario file; the remaining fields override it.
type ScenarioStep struct {
	Name     string             `yaml:"name"`
	Config   string             `yaml:"config,omitempty"`
	Material string             `yaml:"material,omitempty"`
	Layout   string             `yaml:"layout,omitempty"`
	Params   map[string]float64 `yaml:"params,omitempty"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	scenario.dir = filepath.Dir(path)

	return &scenario, nil
}

// Options are shared by scenario runs and sweeps.
type Options struct {
	Logger *log.Logger
	Store  *storage.Store
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return o.Logger
}

func (s *Scenario) stepConfig(step ScenarioStep) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if step.Config != "" {
		path := step.Config
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.dir, path)
		}
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if step.Material != "" {
		cfg.Material.Preset = step.Material
	}
	if step.Layout != "" {
		cfg.Line.Layout = step.Layout
		cfg.Line.Stations = nil
	}
	for name, v := range step.Params {
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

type StepResult struct {
	Name    string
	Outcome *experiment.Outcome
}

// RunScenario executes all steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, opts Options) ([]StepResult, error) {
	logger := opts.logger()
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step%d", i+1)
		}
		logger.Printf("running step %d/%d: %s", i+1, len(scenario.Steps), name)

		cfg, err := scenario.stepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp, err := experiment.New(cfg, experiment.Options{Logger: logger, Store: opts.Store, Name: name})
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		out, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Name: name, Outcome: out})
	}

	return results, nil
}

// ParameterSweep varies one named config parameter over a linear range.
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	Min, Max float64
	Steps    int
}

// SweepResult holds the run summary at one parameter value.
type SweepResult struct {
	Value           float64
	MaxFinalTension float64
	MaxFinalStrain  float64
	MaxSettleTime   float64 // -1 when a section never settled
	Unsettled       int
	Dangerous       int
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, opts Options) ([]SweepResult, error) {
	logger := opts.logger()

	values, err := config.Linspace(sweep.Min, sweep.Max, sweep.Steps)
	if err != nil {
		return nil, err
	}
	base := sweep.Base
	if base == nil {
		base = config.DefaultConfig()
	}

	results := make([]SweepResult, 0, len(values))
	for i, v := range values {
		cfg := base.Clone()
		if err := cfg.SetParam(sweep.Param, v); err != nil {
			return nil, err
		}

		exp, err := experiment.New(cfg, experiment.Options{Logger: logger, Store: opts.Store})
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}
		out, err := exp.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}

		results = append(results, SweepResult{
			Value:           v,
			MaxFinalTension: out.Summary["max_final_tension"],
			MaxFinalStrain:  out.Summary["max_final_strain"],
			MaxSettleTime:   out.Summary["max_settle_time"],
			Unsettled:       int(out.Summary["unsettled_sections"]),
			Dangerous:       int(out.Summary["dangerous_sections"]),
		})

		logger.Printf("sweep %d/%d: %s=%.4g", i+1, len(values), sweep.Param, v)
	}

	return results, nil
}
