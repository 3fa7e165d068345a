package line

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// MinZoneLength floors zone length wherever it is used as a divisor.
const MinZoneLength = 0.2

// Zone is the web span between two adjacent stations.
type Zone struct {
	ID            string
	From          Station
	To            Station
	LengthPercent float64
	LengthMeters  float64
	Index         int
}

// EffectiveLength is LengthMeters floored at MinZoneLength.
func (z Zone) EffectiveLength() float64 {
	return math.Max(z.LengthMeters, MinZoneLength)
}

// Span renders "from → to".
func (z Zone) Span() string {
	return z.From.ID + " → " + z.To.ID
}

// Compliant reports whether either bounding station is spring-loaded.
func (z Zone) Compliant() bool {
	return z.From.Type.Compliant() || z.To.Type.Compliant()
}

var ErrDuplicateZone = errors.New("line: duplicate zone id")

// ZoneID is the stable identifier of the span between two stations.
// Station ids containing "-" can make two different spans share an id;
// CheckZoneIDs catches that.
func ZoneID(from, to Station) string {
	return from.ID + "-" + to.ID
}

// CheckZoneIDs returns ErrDuplicateZone for the first zone whose id
// repeats an earlier one.
func CheckZoneIDs(zones []Zone) error {
	seen := make(map[string]int, len(zones))
	for i, z := range zones {
		if j, ok := seen[z.ID]; ok {
			return fmt.Errorf("%w: %q names sections %d and %d", ErrDuplicateZone, z.ID, j+1, i+1)
		}
		seen[z.ID] = i
	}
	return nil
}

// BuildZones orders stations by position (ties keep input order) and
// emits one zone per adjacent pair. Fewer than two stations yields no
// zones. lineLength is in meters and assumed positive.
func BuildZones(stations []Station, lineLength float64) []Zone {
	if len(stations) < 2 {
		return []Zone{}
	}

	sorted := make([]Station, len(stations))
	copy(sorted, stations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	zones := make([]Zone, 0, len(sorted)-1)
	for i := 0; i < len(sorted)-1; i++ {
		from, to := sorted[i], sorted[i+1]
		pct := to.Position - from.Position
		zones = append(zones, Zone{
			ID:            ZoneID(from, to),
			From:          from,
			To:            to,
			LengthPercent: pct,
			LengthMeters:  pct / 100 * lineLength,
			Index:         i,
		})
	}
	return zones
}
