// Package experiment ties a configuration to one simulation run: it
// resolves stations and material, runs the engine, evaluates per-section
// metrics and optionally persists the run.
package experiment

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/san-kum/webtension/internal/config"
	"github.com/san-kum/webtension/internal/line"
	"github.com/san-kum/webtension/internal/metrics"
	"github.com/san-kum/webtension/internal/storage"
	"github.com/san-kum/webtension/internal/tension"
)

type Options struct {
	// Logger receives progress lines. Nil discards them.
	Logger *log.Logger
	// Store persists the run when set.
	Store *storage.Store
	// Name labels the stored run. Defaults to the material preset.
	Name     string
	Registry *Registry
}

type Experiment struct {
	cfg      *config.Config
	opts     Options
	stations []line.Station
	material config.Material
	engine   *tension.Engine
}

// Outcome is everything a finished run produced.
type Outcome struct {
	RunID    string
	Stations []line.Station
	Material config.Material
	Result   *tension.Result
	Reports  []metrics.ZoneReport
	Summary  map[string]float64
	Elapsed  time.Duration
}

func New(cfg *config.Config, opts Options) (*Experiment, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stations, err := cfg.Stations()
	if err != nil {
		return nil, err
	}
	mat, err := cfg.ResolveMaterial()
	if err != nil {
		return nil, err
	}
	integ, err := opts.Registry.GetIntegrator(cfg.Sim.Integrator)
	if err != nil {
		return nil, fmt.Errorf("sim.integrator: %w", err)
	}
	speeds, err := opts.Registry.GetSpeed(cfg.Sim.Speed)
	if err != nil {
		return nil, fmt.Errorf("sim.speed: %w", err)
	}

	engine, err := tension.NewEngine(mat.Material,
		tension.WithWorkers(cfg.Sim.Workers),
		tension.WithIntegrator(integ),
		tension.WithSpeeds(speeds),
	)
	if err != nil {
		return nil, err
	}

	return &Experiment{
		cfg:      cfg,
		opts:     opts,
		stations: stations,
		material: mat,
		engine:   engine,
	}, nil
}

func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	logger := e.opts.Logger
	zones := line.BuildZones(e.stations, e.cfg.Line.LengthM)
	logger.Printf("line: %d stations, %d zones, %.2f m", len(e.stations), len(zones), e.cfg.Line.LengthM)
	logger.Printf("material: %s (EA=%.4g N, base strain %.3g, step %.3g)",
		e.material.Label, e.material.Stiffness, e.material.BaseStrain, e.material.StrainStep)

	start := time.Now()
	result, err := e.engine.Run(ctx, zones)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	logger.Printf("integrated %d samples in %v", result.Samples(), elapsed)

	reports := metrics.Evaluate(result, e.material.MaxStrain)
	summary := metrics.Summary(reports)
	for _, r := range metrics.Dangerous(reports) {
		logger.Printf("section %d (%s) exceeds max strain: %.3f%%", r.Section, r.Span, r.FinalStrain*100)
	}

	out := &Outcome{
		Stations: e.stations,
		Material: e.material,
		Result:   result,
		Reports:  reports,
		Summary:  summary,
		Elapsed:  elapsed,
	}

	if e.opts.Store != nil {
		name := e.opts.Name
		if name == "" {
			name = e.cfg.Material.Preset
		}
		id, err := e.opts.Store.Save(storage.Run{
			Name:       name,
			Material:   e.material.Label,
			Params:     e.material.Material,
			MaxStrain:  e.material.MaxStrain,
			LineLength: e.cfg.Line.LengthM,
			Metrics:    summary,
		}, result)
		if err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
		out.RunID = id
		logger.Printf("saved run %s", id)
	}

	return out, nil
}
