package tension

import (
	"context"
	"testing"

	"github.com/san-kum/webtension/internal/line"
)

func benchStations(n int) []line.Station {
	stations := make([]line.Station, n)
	for i := range stations {
		st := line.Roller
		switch {
		case i == 0:
			st = line.Unwind
		case i == n-1:
			st = line.Rewind
		case i%7 == 0:
			st = line.Pitch
		case i%5 == 0:
			st = line.Dancer
		}
		stations[i] = line.Station{ID: "s" + string(rune('A'+i%26)) + string(rune('a'+i/26)), Type: st, Position: float64(i) * 100 / float64(n-1)}
	}
	return stations
}

func BenchmarkSimulateSerial(b *testing.B) {
	stations := benchStations(64)
	m := DefaultMaterial()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Simulate(context.Background(), stations, 50, m, WithWorkers(1)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSimulateParallel(b *testing.B) {
	stations := benchStations(64)
	m := DefaultMaterial()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Simulate(context.Background(), stations, 50, m); err != nil {
			b.Fatal(err)
		}
	}
}
