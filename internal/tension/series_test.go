package tension

import (
	"encoding/json"
	"testing"
)

func TestSeriesMap_Order(t *testing.T) {
	m := NewSeriesMap(3)
	m.Set("zeta", []float64{1})
	m.Set("alpha", []float64{2})
	m.Set("mid", []float64{3})
	m.Set("zeta", []float64{4})

	keys := m.Keys()
	want := []string{"zeta", "alpha", "mid"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, keys)
		}
	}

	v, ok := m.Get("zeta")
	if !ok || v[0] != 4 {
		t.Errorf("expected overwritten value 4, got %v", v)
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("expected missing key")
	}
	if m.Len() != 3 {
		t.Errorf("expected len 3, got %d", m.Len())
	}

	keys[0] = "mutated"
	if m.Keys()[0] != "zeta" {
		t.Error("Keys returned internal slice")
	}
}

func TestSeriesMap_Last(t *testing.T) {
	m := NewSeriesMap(2)
	m.Set("a", []float64{1, 2, 3})
	m.Set("empty", nil)

	if v, ok := m.Last("a"); !ok || v != 3 {
		t.Errorf("expected 3, got %v (%v)", v, ok)
	}
	if _, ok := m.Last("empty"); ok {
		t.Error("expected no last sample for empty series")
	}
}

func TestSeriesMap_EachStops(t *testing.T) {
	m := NewSeriesMap(3)
	m.Set("a", nil)
	m.Set("b", nil)
	m.Set("c", nil)

	var seen []string
	m.Each(func(id string, _ []float64) bool {
		seen = append(seen, id)
		return id != "b"
	})
	if len(seen) != 2 {
		t.Errorf("expected to stop after b, saw %v", seen)
	}
}

func TestSeriesMap_JSONKeepsOrder(t *testing.T) {
	m := NewSeriesMap(2)
	m.Set("rewind-side", []float64{0.5})
	m.Set("a-first", []float64{1.25, 2})

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"rewind-side":[0.5],"a-first":[1.25,2]}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}

	var back SeriesMap
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if k := back.Keys(); k[0] != "rewind-side" || k[1] != "a-first" {
		t.Errorf("order lost: %v", k)
	}
}

func TestSeriesMap_EmptyJSON(t *testing.T) {
	data, err := json.Marshal(NewSeriesMap(0))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("expected {}, got %s", data)
	}

	var m SeriesMap
	if err := json.Unmarshal([]byte(`[1,2]`), &m); err == nil {
		t.Error("expected error for non-object")
	}
}
