package tension

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SeriesMap maps zone id to a sample sequence and iterates in insertion
// order, which the engine keeps equal to line order.
type SeriesMap struct {
	keys   []string
	index  map[string]int
	values [][]float64
}

func NewSeriesMap(capacity int) *SeriesMap {
	return &SeriesMap{
		keys:   make([]string, 0, capacity),
		index:  make(map[string]int, capacity),
		values: make([][]float64, 0, capacity),
	}
}

// Set stores v under id. A new id is appended to the iteration order; an
// existing id keeps its position.
func (m *SeriesMap) Set(id string, v []float64) {
	if i, ok := m.index[id]; ok {
		m.values[i] = v
		return
	}
	m.index[id] = len(m.keys)
	m.keys = append(m.keys, id)
	m.values = append(m.values, v)
}

func (m *SeriesMap) Get(id string) ([]float64, bool) {
	i, ok := m.index[id]
	if !ok {
		return nil, false
	}
	return m.values[i], true
}

func (m *SeriesMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *SeriesMap) Len() int { return len(m.keys) }

// Each visits entries in order until fn returns false.
func (m *SeriesMap) Each(fn func(id string, v []float64) bool) {
	for i, k := range m.keys {
		if !fn(k, m.values[i]) {
			return
		}
	}
}

// Last returns the final sample of id.
func (m *SeriesMap) Last(id string) (float64, bool) {
	v, ok := m.Get(id)
	if !ok || len(v) == 0 {
		return 0, false
	}
	return v[len(v)-1], true
}

// MarshalJSON writes an object whose members follow iteration order.
func (m *SeriesMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON keeps the member order of the document.
func (m *SeriesMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("tension: series map must be a JSON object")
	}

	*m = *NewSeriesMap(0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("tension: unexpected series key %v", tok)
		}
		var v []float64
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("tension: series %q: %w", key, err)
		}
		m.Set(key, v)
	}
	_, err = dec.Token()
	return err
}
