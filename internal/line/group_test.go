package line

import "testing"

func stationsOf(types ...StationType) []Station {
	out := make([]Station, len(types))
	for i, st := range types {
		out[i] = Station{
			ID:       string(st) + string(rune('0'+i)),
			Type:     st,
			Position: float64(i * 10),
		}
	}
	return out
}

func TestAssignGroups(t *testing.T) {
	tests := []struct {
		name     string
		stations []Station
		want     []Assignment
	}{
		{
			"single span",
			stationsOf(Unwind, Rewind),
			[]Assignment{{0, 0}},
		},
		{
			"pitch splits line",
			stationsOf(Unwind, Pitch, Rewind),
			[]Assignment{{0, 0}, {1, 0}},
		},
		{
			"rollers count up within group",
			stationsOf(Unwind, Roller, Roller, Pitch, Roller, Rewind),
			[]Assignment{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}},
		},
		{
			"adjacent pitch rollers each open a group",
			stationsOf(Unwind, Pitch, Pitch, Rewind),
			[]Assignment{{0, 0}, {1, 0}, {2, 0}},
		},
		{
			"leading pitch does not reset first zone",
			stationsOf(Pitch, Roller, Rewind),
			[]Assignment{{0, 0}, {0, 1}},
		},
		{
			"pitch as downstream end does not split",
			stationsOf(Unwind, Roller, Pitch),
			[]Assignment{{0, 0}, {0, 1}},
		},
		{
			"dancer has no grouping effect",
			stationsOf(Unwind, Dancer, Roller, Dancer, Rewind),
			[]Assignment{{0, 0}, {0, 1}, {0, 2}, {0, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssignGroups(BuildZones(tt.stations, 10))
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d assignments, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("zone %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestAssignGroups_Empty(t *testing.T) {
	if got := AssignGroups(nil); len(got) != 0 {
		t.Errorf("expected no assignments, got %v", got)
	}
}

func TestGroupCount(t *testing.T) {
	if n := GroupCount(nil); n != 0 {
		t.Errorf("expected 0 groups, got %d", n)
	}
	a := AssignGroups(BuildZones(stationsOf(Unwind, Pitch, Roller, Pitch, Rewind), 10))
	if n := GroupCount(a); n != 3 {
		t.Errorf("expected 3 groups, got %d", n)
	}
}
