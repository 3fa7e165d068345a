package tension

import (
	"context"
	"fmt"

	"github.com/san-kum/webtension/internal/dynamo"
	"github.com/san-kum/webtension/internal/integrators"
	"github.com/san-kum/webtension/internal/line"
)

const (
	StepSize     = 0.01 // s
	Horizon      = 6.0  // s
	TimeDecimals = 2
	// TensionDecimals applies to reported tension only; strain is kept at
	// full precision for threshold checks.
	TensionDecimals = 2
)

type Engine struct {
	material   Material
	integrator dynamo.Integrator
	speeds     SpeedSource
	cfg        dynamo.Config
	workers    int
}

type Option func(*Engine)

// WithWorkers bounds zone-level concurrency. n <= 0 uses one worker per CPU.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

func WithSpeeds(s SpeedSource) Option {
	return func(e *Engine) { e.speeds = s }
}

func WithIntegrator(i dynamo.Integrator) Option {
	return func(e *Engine) { e.integrator = i }
}

// WithTimeGrid replaces the default 0.01 s / 6 s grid.
func WithTimeGrid(dt, duration float64) Option {
	return func(e *Engine) {
		e.cfg.Dt = dt
		e.cfg.Duration = duration
	}
}

func NewEngine(m Material, opts ...Option) (*Engine, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		material:   m,
		integrator: integrators.NewEuler(),
		speeds:     NewLineSpeed(),
		cfg: dynamo.Config{
			Dt:            StepSize,
			Duration:      Horizon,
			ValidateState: true,
		},
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) Material() Material    { return e.material }
func (e *Engine) Config() dynamo.Config { return e.cfg }

// Run groups and parameterizes zones, then integrates them.
func (e *Engine) Run(ctx context.Context, zones []line.Zone) (*Result, error) {
	params := Parameterize(zones, line.AssignGroups(zones), e.material)
	return e.Integrate(ctx, params)
}

// Integrate advances every zone from zero strain across the time grid.
// Zone ids must be unique; a repeat fails with line.ErrDuplicateZone.
// Samples are recorded after each step, so sample i holds the state after
// i+1 steps taken at times 0, dt, ..., i*dt.
func (e *Engine) Integrate(ctx context.Context, params []ZoneParams) (*Result, error) {
	zones := make([]line.Zone, len(params))
	for i, p := range params {
		zones[i] = p.Zone
	}
	if err := line.CheckZoneIDs(zones); err != nil {
		return nil, err
	}

	times := e.cfg.TimeAxis(TimeDecimals)
	n := len(times)

	tension := make([][]float64, len(params))
	strain := make([][]float64, len(params))
	errs := make([]error, len(params))

	dynamo.ParallelFor(len(params), e.workers, 1, func(start, end int) {
		for i := start; i < end; i++ {
			tension[i] = make([]float64, n)
			strain[i] = make([]float64, n)
			errs[i] = e.integrateZone(ctx, params[i], times, tension[i], strain[i])
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return aggregate(times, params, tension, strain, e.cfg), nil
}

func (e *Engine) integrateZone(ctx context.Context, p ZoneParams, times []float64, tension, strain []float64) error {
	dyn := NewZoneDynamics(p)
	x := dynamo.State{0}
	dt := e.cfg.Dt

	for i, t := range times {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		u := e.speeds.Speeds(p.Zone.Index, t)
		if len(u) != dyn.ControlDim() {
			return &dynamo.SimulationError{
				System:  "zone " + p.ID(),
				Step:    i,
				Time:    t,
				Wrapped: fmt.Errorf("%w: got %d speeds", dynamo.ErrDimensionMismatch, len(u)),
			}
		}
		x = e.integrator.Step(dyn, x, u, t, dt)

		if e.cfg.ValidateState && !x.IsValid() {
			return &dynamo.SimulationError{
				System:  "zone " + p.ID(),
				Step:    i,
				Time:    t,
				Wrapped: dynamo.ErrInvalidState,
			}
		}

		strain[i] = x[0]
		tension[i] = dynamo.Round(e.material.Tension(x[0]), TensionDecimals)
	}
	return nil
}

// Simulate builds zones from stations and runs them with a fresh engine.
func Simulate(ctx context.Context, stations []line.Station, lineLength float64, m Material, opts ...Option) (*Result, error) {
	e, err := NewEngine(m, opts...)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, line.BuildZones(stations, lineLength))
}
