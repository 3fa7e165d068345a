package tension

import (
	"math"
	"testing"

	"github.com/san-kum/webtension/internal/line"
)

func layout(types ...line.StationType) []line.Station {
	out := make([]line.Station, len(types))
	step := 100.0 / float64(len(types)-1)
	for i, st := range types {
		out[i] = line.Station{
			ID:       string(st) + "_" + string(rune('a'+i)),
			Type:     st,
			Position: float64(i) * step,
		}
	}
	return out
}

func paramsFor(stations []line.Station, length float64, m Material) []ZoneParams {
	zones := line.BuildZones(stations, length)
	return Parameterize(zones, line.AssignGroups(zones), m)
}

func TestParameterize_StrainLadder(t *testing.T) {
	m := DefaultMaterial()
	params := paramsFor(layout(line.Unwind, line.Roller, line.Roller, line.Pitch, line.Roller, line.Rewind), 10, m)

	tests := []struct {
		group, local int
	}{
		{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1},
	}

	for i, tt := range tests {
		p := params[i]
		if p.Group != tt.group || p.Local != tt.local {
			t.Errorf("zone %d: expected (%d,%d), got (%d,%d)", i, tt.group, tt.local, p.Group, p.Local)
		}
		want := m.BaseStrain + float64(tt.local)*m.StrainStep
		if p.TargetStrain != want {
			t.Errorf("zone %d: expected target strain %g, got %g", i, want, p.TargetStrain)
		}
		if p.TargetTension != m.Stiffness*p.TargetStrain {
			t.Errorf("zone %d: target tension %g != EA*eps %g", i, p.TargetTension, m.Stiffness*p.TargetStrain)
		}
	}

	for i := 1; i < len(params); i++ {
		if params[i].Group != params[i-1].Group {
			continue
		}
		diff := params[i].TargetStrain - params[i-1].TargetStrain
		if math.Abs(diff-m.StrainStep) > 1e-18 {
			t.Errorf("zones %d,%d: set-points differ by %g, want %g", i-1, i, diff, m.StrainStep)
		}
	}
}

func TestParameterize_Damping(t *testing.T) {
	params := paramsFor(layout(line.Unwind, line.Dancer, line.Roller, line.Roller, line.Rewind), 10, DefaultMaterial())

	want := []float64{10, 10, 4, 4}
	for i, p := range params {
		if p.Damping != want[i] {
			t.Errorf("zone %s: expected damping %v, got %v", p.ID(), want[i], p.Damping)
		}
	}
}

func TestParameterize_StrainGain(t *testing.T) {
	stations := []line.Station{
		{ID: "u", Type: line.Unwind, Position: 0},
		{ID: "r1", Type: line.Roller, Position: 1},
		{ID: "r2", Type: line.Roller, Position: 1},
		{ID: "w", Type: line.Rewind, Position: 100},
	}
	params := paramsFor(stations, 10, DefaultMaterial())

	tests := []struct {
		id   string
		gain float64
	}{
		{"u-r1", 1 / line.MinZoneLength},
		{"r1-r2", 1 / line.MinZoneLength},
		{"r2-w", 1 / 9.9},
	}

	for i, tt := range tests {
		if params[i].ID() != tt.id {
			t.Fatalf("zone %d: expected id %s, got %s", i, tt.id, params[i].ID())
		}
		if math.Abs(params[i].StrainGain-tt.gain) > 1e-12 {
			t.Errorf("zone %s: expected gain %v, got %v", tt.id, tt.gain, params[i].StrainGain)
		}
	}
}

func TestParameterize_Empty(t *testing.T) {
	if got := Parameterize(nil, nil, DefaultMaterial()); len(got) != 0 {
		t.Errorf("expected no params, got %d", len(got))
	}
}

func TestMaterial_Validate(t *testing.T) {
	tests := []struct {
		name    string
		m       Material
		wantErr bool
	}{
		{"default", DefaultMaterial(), false},
		{"negative base strain", Material{Stiffness: 1, BaseStrain: -1e-4}, false},
		{"zero stiffness", Material{Stiffness: 0, BaseStrain: 1e-4}, true},
		{"negative stiffness", Material{Stiffness: -5}, true},
		{"inf stiffness", Material{Stiffness: math.Inf(1)}, true},
		{"NaN base", Material{Stiffness: 1, BaseStrain: math.NaN()}, true},
		{"inf step", Material{Stiffness: 1, StrainStep: math.Inf(-1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMaterial_TensionNeverNegative(t *testing.T) {
	m := DefaultMaterial()
	if got := m.Tension(-1e-3); got != 0 {
		t.Errorf("expected 0 for compressive strain, got %v", got)
	}
	if got := m.Tension(1e-4); math.Abs(got-20) > 1e-9 {
		t.Errorf("expected 20 N, got %v", got)
	}
}

func TestLineSpeed(t *testing.T) {
	l := NewLineSpeed()
	tests := []struct {
		t, v float64
	}{
		{0, 0},
		{0.75, 0.5},
		{1.5, 1.0},
		{4.0, 1.0},
	}
	for _, tt := range tests {
		if got := l.At(tt.t); math.Abs(got-tt.v) > 1e-12 {
			t.Errorf("At(%v) = %v, want %v", tt.t, got, tt.v)
		}
		u := l.Speeds(3, tt.t)
		if u[0] != u[1] {
			t.Errorf("t=%v: upstream %v != downstream %v", tt.t, u[0], u[1])
		}
	}
}

func TestZoneDynamics_Derive(t *testing.T) {
	dyn := &ZoneDynamics{Target: 1e-4, Damping: 4, Gain: 0.5}

	dx := dyn.Derive([]float64{0}, []float64{1, 1}, 0)
	if math.Abs(dx[0]-4e-4) > 1e-18 {
		t.Errorf("expected 4e-4, got %v", dx[0])
	}

	dx = dyn.Derive([]float64{1e-4}, []float64{1.2, 1.0}, 0)
	if math.Abs(dx[0]-0.1) > 1e-12 {
		t.Errorf("expected mismatch term 0.1, got %v", dx[0])
	}
}
