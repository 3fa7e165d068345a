package tension

import "github.com/san-kum/webtension/internal/dynamo"

// Result is the output of one run. Tension and Strain are keyed by zone id
// in line order, each sequence aligned index-for-index with Time.
type Result struct {
	Time    []float64
	Tension *SeriesMap
	Strain  *SeriesMap
	Zones   []ZoneParams
	Dt      float64
	Horizon float64
}

func aggregate(times []float64, params []ZoneParams, tension, strain [][]float64, cfg dynamo.Config) *Result {
	r := &Result{
		Time:    times,
		Tension: NewSeriesMap(len(params)),
		Strain:  NewSeriesMap(len(params)),
		Zones:   params,
		Dt:      cfg.Dt,
		Horizon: cfg.Duration,
	}
	for i, p := range params {
		r.Tension.Set(p.ID(), tension[i])
		r.Strain.Set(p.ID(), strain[i])
	}
	return r
}

// Zone returns the parameters of the zone with the given id.
func (r *Result) Zone(id string) (ZoneParams, bool) {
	for _, p := range r.Zones {
		if p.ID() == id {
			return p, true
		}
	}
	return ZoneParams{}, false
}

func (r *Result) Samples() int { return len(r.Time) }
