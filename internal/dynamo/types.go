package dynamo

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// Config fixes the uniform time grid of a run.
type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      6.0,
		ValidateState: true,
	}
}

func (c Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrParameterBounds, c.Dt)
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrParameterBounds, c.Duration)
	}
	return nil
}

// Steps is floor(Duration/Dt) + 1: one sample per grid point including t=0.
// The small bias absorbs representation error in Dt (6/0.01 must give 600).
func (c Config) Steps() int {
	return int(math.Floor(c.Duration/c.Dt+1e-9)) + 1
}

// TimeAxis returns the sample times i*Dt rounded to the given number of
// decimals.
func (c Config) TimeAxis(decimals int) []float64 {
	n := c.Steps()
	axis := make([]float64, n)
	for i := range axis {
		axis[i] = Round(float64(i)*c.Dt, decimals)
	}
	return axis
}

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
