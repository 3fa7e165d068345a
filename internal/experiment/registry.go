package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/webtension/internal/dynamo"
	"github.com/san-kum/webtension/internal/integrators"
	"github.com/san-kum/webtension/internal/tension"
)

const (
	DefaultIntegrator = "euler"
	DefaultSpeed      = "ramp"
)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
	speeds      map[string]func() tension.SpeedSource
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
		speeds:      make(map[string]func() tension.SpeedSource),
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }

	r.speeds["ramp"] = func() tension.SpeedSource { return tension.NewLineSpeed() }
	r.speeds["constant"] = func() tension.SpeedSource {
		return &tension.LineSpeed{Nominal: tension.NominalLineSpeed}
	}

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	if name == "" {
		name = DefaultIntegrator
	}
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetSpeed(name string) (tension.SpeedSource, error) {
	if name == "" {
		name = DefaultSpeed
	}
	fn, ok := r.speeds[name]
	if !ok {
		return nil, fmt.Errorf("unknown speed profile: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string { return keys(r.integrators) }

func (r *Registry) ListSpeeds() []string { return keys(r.speeds) }

func keys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
