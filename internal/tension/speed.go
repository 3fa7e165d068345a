package tension

import "github.com/san-kum/webtension/internal/dynamo"

const (
	NominalLineSpeed = 1.0 // m/s
	SpeedRampTime    = 1.5 // s
)

// SpeedSource supplies the upstream and downstream web speed of a zone at
// time t as a [v_up, v_down] control vector.
type SpeedSource interface {
	Speeds(zone int, t float64) dynamo.Control
}

// LineSpeed ramps linearly from rest to Nominal over Ramp seconds and holds.
// Every zone sees the same speed on both sides.
type LineSpeed struct {
	Nominal float64
	Ramp    float64
}

func NewLineSpeed() *LineSpeed {
	return &LineSpeed{Nominal: NominalLineSpeed, Ramp: SpeedRampTime}
}

func (l *LineSpeed) At(t float64) float64 {
	if t < l.Ramp {
		return l.Nominal * t / l.Ramp
	}
	return l.Nominal
}

func (l *LineSpeed) Speeds(_ int, t float64) dynamo.Control {
	v := l.At(t)
	return dynamo.Control{v, v}
}
