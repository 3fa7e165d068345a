package line

import (
	"fmt"
	"strings"
)

type StationType string

const (
	Unwind StationType = "UNWIND"
	Roller StationType = "ROLLER"
	Dancer StationType = "DANCER"
	Pitch  StationType = "PITCH"
	Rewind StationType = "REWIND"
)

var stationTypes = []StationType{Unwind, Roller, Dancer, Pitch, Rewind}

// StationTypes lists the known station kinds in line order.
func StationTypes() []StationType {
	out := make([]StationType, len(stationTypes))
	copy(out, stationTypes)
	return out
}

// ParseStationType is case-insensitive and ignores surrounding space.
func ParseStationType(s string) (StationType, error) {
	st := StationType(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown station type %q (available: %v)", s, StationTypes())
	}
	return st, nil
}

func (t StationType) Valid() bool {
	for _, known := range stationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Driven reports whether the station decouples upstream and downstream
// tension.
func (t StationType) Driven() bool { return t == Pitch }

// Compliant reports whether the station is spring-loaded.
func (t StationType) Compliant() bool { return t == Dancer }

// Station is a roll or roller on the line. Position is percent of total
// line length, 0 to 100.
type Station struct {
	ID       string      `json:"id" yaml:"id"`
	Type     StationType `json:"type" yaml:"type"`
	Position float64     `json:"position" yaml:"position"`
}

func (s Station) String() string {
	return fmt.Sprintf("%s(%s@%.1f%%)", s.ID, s.Type, s.Position)
}
