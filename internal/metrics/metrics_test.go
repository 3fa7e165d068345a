package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/webtension/internal/line"
	"github.com/san-kum/webtension/internal/tension"
)

func simulate(t *testing.T, stations []line.Station) *tension.Result {
	t.Helper()
	r, err := tension.Simulate(context.Background(), stations, 10, tension.DefaultMaterial())
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	return r
}

var threeRollers = []line.Station{
	{ID: "unwind", Type: line.Unwind, Position: 0},
	{ID: "roller1", Type: line.Roller, Position: 40},
	{ID: "roller2", Type: line.Roller, Position: 70},
	{ID: "rewind", Type: line.Rewind, Position: 100},
}

func TestEvaluate(t *testing.T) {
	r := simulate(t, threeRollers)
	reports := Evaluate(r, 1.6e-4)

	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}

	tests := []struct {
		section int
		span    string
		length  float64
		final   float64
		danger  bool
	}{
		{1, "unwind → roller1", 4, 30, false},
		{2, "roller1 → roller2", 3, 34, true},
		{3, "roller2 → rewind", 3, 38, true},
	}

	for i, tt := range tests {
		rep := reports[i]
		if rep.Section != tt.section || rep.Span != tt.span {
			t.Errorf("report %d: got section %d span %q", i, rep.Section, rep.Span)
		}
		if math.Abs(rep.LengthM-tt.length) > 1e-12 {
			t.Errorf("report %d: expected length %v, got %v", i, tt.length, rep.LengthM)
		}
		if rep.FinalTension != tt.final {
			t.Errorf("report %d: expected final tension %v, got %v", i, tt.final, rep.FinalTension)
		}
		if rep.PeakTension != rep.FinalTension {
			t.Errorf("report %d: monotone rise should peak at the end, peak %v final %v", i, rep.PeakTension, rep.FinalTension)
		}
		if rep.Danger != tt.danger {
			t.Errorf("report %d: expected danger %v, got %v", i, tt.danger, rep.Danger)
		}
	}

	if got := Dangerous(reports); len(got) != 2 || got[0].Section != 2 {
		t.Errorf("unexpected dangerous sections %+v", got)
	}
}

func TestEvaluate_NoThreshold(t *testing.T) {
	r := simulate(t, threeRollers)
	for _, rep := range Evaluate(r, 0) {
		if rep.Danger || rep.Overstrained != 0 {
			t.Errorf("zone %s flagged without a threshold", rep.ID)
		}
	}
}

func TestEvaluate_SettleTime(t *testing.T) {
	r := simulate(t, []line.Station{
		{ID: "unwind", Type: line.Unwind, Position: 0},
		{ID: "rewind", Type: line.Rewind, Position: 100},
	})
	reports := Evaluate(r, 0)

	if reports[0].SettleTime != 0.95 {
		t.Errorf("expected settle time 0.95 s, got %v", reports[0].SettleTime)
	}
}

func TestEvaluate_Empty(t *testing.T) {
	r := simulate(t, nil)
	reports := Evaluate(r, 3e-4)
	if len(reports) != 0 {
		t.Errorf("expected no reports, got %d", len(reports))
	}
	s := Summary(reports)
	if s["zones"] != 0 || s["groups"] != 0 {
		t.Errorf("unexpected summary %v", s)
	}
}

func TestSummary(t *testing.T) {
	r := simulate(t, []line.Station{
		{ID: "unwind", Type: line.Unwind, Position: 0},
		{ID: "roller", Type: line.Roller, Position: 30},
		{ID: "pitch", Type: line.Pitch, Position: 60},
		{ID: "rewind", Type: line.Rewind, Position: 100},
	})
	s := Summary(Evaluate(r, 1.6e-4))

	if s["zones"] != 3 {
		t.Errorf("expected 3 zones, got %v", s["zones"])
	}
	if s["groups"] != 2 {
		t.Errorf("expected 2 groups, got %v", s["groups"])
	}
	if s["max_final_tension"] != 34 {
		t.Errorf("expected max final tension 34, got %v", s["max_final_tension"])
	}
	if s["dangerous_sections"] != 1 {
		t.Errorf("expected 1 dangerous section, got %v", s["dangerous_sections"])
	}
}

func TestSummary_SettleTime(t *testing.T) {
	tests := []struct {
		name          string
		settle        []float64
		wantMax       float64
		wantUnsettled float64
	}{
		{"all settled", []float64{0.95, 0.4}, 0.95, 0},
		{"one never settles", []float64{0.95, -1}, -1, 1},
		{"none settle", []float64{-1, -1}, -1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := make([]ZoneReport, len(tt.settle))
			for i, st := range tt.settle {
				reports[i] = ZoneReport{Section: i + 1, SettleTime: st}
			}
			s := Summary(reports)
			if s["max_settle_time"] != tt.wantMax {
				t.Errorf("max_settle_time = %v, want %v", s["max_settle_time"], tt.wantMax)
			}
			if s["unsettled_sections"] != tt.wantUnsettled {
				t.Errorf("unsettled_sections = %v, want %v", s["unsettled_sections"], tt.wantUnsettled)
			}
		})
	}
}

func TestSettleTime_ResetsOnExcursion(t *testing.T) {
	m := NewSettleTime(1.0, 0.1)
	m.Observe(0, 0, 0.95)
	m.Observe(1, 0, 1.5)
	m.Observe(2, 0, 1.05)
	m.Observe(3, 0, 1.0)
	if m.Value() != 2 {
		t.Errorf("expected settle at 2, got %v", m.Value())
	}
	m.Reset()
	if m.Value() != -1 {
		t.Errorf("expected -1 after reset, got %v", m.Value())
	}
}

func TestOverstrain(t *testing.T) {
	m := NewOverstrain(1e-3)
	for _, eps := range []float64{5e-4, 1e-3, 1.1e-3, 2e-3} {
		m.Observe(0, 0, eps)
	}
	if m.Value() != 2 {
		t.Errorf("expected 2 violations, got %v", m.Value())
	}
}
