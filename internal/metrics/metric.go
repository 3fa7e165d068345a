package metrics

import "math"

// Metric folds one zone's samples, in time order, into a scalar.
type Metric interface {
	Name() string
	Observe(t, tension, strain float64)
	Value() float64
	Reset()
}

type FinalTension struct{ last float64 }

func NewFinalTension() *FinalTension { return &FinalTension{} }

func (m *FinalTension) Name() string                  { return "final_tension" }
func (m *FinalTension) Observe(_, tension, _ float64) { m.last = tension }
func (m *FinalTension) Value() float64                { return m.last }
func (m *FinalTension) Reset()                        { m.last = 0 }

type PeakTension struct{ peak float64 }

func NewPeakTension() *PeakTension { return &PeakTension{} }

func (m *PeakTension) Name() string { return "peak_tension" }
func (m *PeakTension) Observe(_, tension, _ float64) {
	if tension > m.peak {
		m.peak = tension
	}
}
func (m *PeakTension) Value() float64 { return m.peak }
func (m *PeakTension) Reset()         { m.peak = 0 }

type FinalStrain struct{ last float64 }

func NewFinalStrain() *FinalStrain { return &FinalStrain{} }

func (m *FinalStrain) Name() string                 { return "final_strain" }
func (m *FinalStrain) Observe(_, _, strain float64) { m.last = strain }
func (m *FinalStrain) Value() float64               { return m.last }
func (m *FinalStrain) Reset()                       { m.last = 0 }

// SettleTime is the first time from which strain stays within a relative
// band around the set-point. Value is -1 until that happens.
type SettleTime struct {
	target    float64
	band      float64
	settledAt float64
}

func NewSettleTime(target, relBand float64) *SettleTime {
	return &SettleTime{
		target:    target,
		band:      math.Abs(target) * relBand,
		settledAt: -1,
	}
}

func (m *SettleTime) Name() string { return "settle_time" }

func (m *SettleTime) Observe(t, _, strain float64) {
	if math.Abs(strain-m.target) > m.band {
		m.settledAt = -1
		return
	}
	if m.settledAt < 0 {
		m.settledAt = t
	}
}

func (m *SettleTime) Value() float64 { return m.settledAt }
func (m *SettleTime) Reset()         { m.settledAt = -1 }

// Overstrain counts samples whose strain exceeds a danger threshold.
// A threshold <= 0 disables it.
type Overstrain struct {
	threshold  float64
	violations int
}

func NewOverstrain(threshold float64) *Overstrain {
	return &Overstrain{threshold: threshold}
}

func (m *Overstrain) Name() string { return "overstrain_samples" }

func (m *Overstrain) Observe(_, _, strain float64) {
	if m.threshold > 0 && strain > m.threshold {
		m.violations++
	}
}

func (m *Overstrain) Value() float64 { return float64(m.violations) }
func (m *Overstrain) Reset()         { m.violations = 0 }
