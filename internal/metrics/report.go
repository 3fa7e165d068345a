package metrics

import "github.com/san-kum/webtension/internal/tension"

// SettleBand is the relative strain band used for settle time.
const SettleBand = 0.02

// ZoneReport summarizes one zone after a run. Section numbers start at 1
// in line order.
type ZoneReport struct {
	Section       int     `json:"section"`
	ID            string  `json:"id"`
	Span          string  `json:"span"`
	LengthM       float64 `json:"length_m"`
	Group         int     `json:"group"`
	Local         int     `json:"local"`
	Damping       float64 `json:"damping"`
	TargetStrain  float64 `json:"target_strain"`
	TargetTension float64 `json:"target_tension"`
	FinalTension  float64 `json:"final_tension"`
	PeakTension   float64 `json:"peak_tension"`
	FinalStrain   float64 `json:"final_strain"`
	SettleTime    float64 `json:"settle_time"`
	Overstrained  int     `json:"overstrain_samples"`
	Danger        bool    `json:"danger"`
}

// Evaluate runs the default metrics over every zone. A zone is dangerous
// when its final strain exceeds maxStrain; maxStrain <= 0 disables the
// check.
func Evaluate(r *tension.Result, maxStrain float64) []ZoneReport {
	reports := make([]ZoneReport, 0, len(r.Zones))
	for i, p := range r.Zones {
		ts, _ := r.Tension.Get(p.ID())
		ss, _ := r.Strain.Get(p.ID())

		final := NewFinalTension()
		peak := NewPeakTension()
		eps := NewFinalStrain()
		settle := NewSettleTime(p.TargetStrain, SettleBand)
		over := NewOverstrain(maxStrain)
		observe([]Metric{final, peak, eps, settle, over}, r.Time, ts, ss)

		reports = append(reports, ZoneReport{
			Section:       i + 1,
			ID:            p.ID(),
			Span:          p.Zone.Span(),
			LengthM:       p.Zone.LengthMeters,
			Group:         p.Group,
			Local:         p.Local,
			Damping:       p.Damping,
			TargetStrain:  p.TargetStrain,
			TargetTension: p.TargetTension,
			FinalTension:  final.Value(),
			PeakTension:   peak.Value(),
			FinalStrain:   eps.Value(),
			SettleTime:    settle.Value(),
			Overstrained:  int(over.Value()),
			Danger:        maxStrain > 0 && len(ss) > 0 && eps.Value() > maxStrain,
		})
	}
	return reports
}

func observe(ms []Metric, times, tension, strain []float64) {
	for _, m := range ms {
		m.Reset()
	}
	for i, t := range times {
		if i >= len(tension) || i >= len(strain) {
			return
		}
		for _, m := range ms {
			m.Observe(t, tension[i], strain[i])
		}
	}
}

// Dangerous filters reports flagged as over-strained.
func Dangerous(reports []ZoneReport) []ZoneReport {
	var out []ZoneReport
	for _, r := range reports {
		if r.Danger {
			out = append(out, r)
		}
	}
	return out
}

// Summary condenses reports into run-level scalars for run metadata.
// max_settle_time is -1 when any section never settled; those sections
// are counted in unsettled_sections.
func Summary(reports []ZoneReport) map[string]float64 {
	s := map[string]float64{
		"zones":              float64(len(reports)),
		"groups":             0,
		"max_final_tension":  0,
		"max_final_strain":   0,
		"max_settle_time":    0,
		"unsettled_sections": 0,
		"dangerous_sections": 0,
	}
	for _, r := range reports {
		if g := float64(r.Group + 1); g > s["groups"] {
			s["groups"] = g
		}
		if r.FinalTension > s["max_final_tension"] {
			s["max_final_tension"] = r.FinalTension
		}
		if r.FinalStrain > s["max_final_strain"] {
			s["max_final_strain"] = r.FinalStrain
		}
		if r.SettleTime > s["max_settle_time"] {
			s["max_settle_time"] = r.SettleTime
		}
		if r.SettleTime < 0 {
			s["unsettled_sections"]++
		}
		if r.Danger {
			s["dangerous_sections"]++
		}
	}
	if s["unsettled_sections"] > 0 {
		s["max_settle_time"] = -1
	}
	return s
}
