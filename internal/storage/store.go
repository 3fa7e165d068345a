package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/webtension/internal/tension"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	tensionFile  = "tension.csv"
	strainFile   = "strain.csv"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// ZoneMeta is the per-zone part of run metadata.
type ZoneMeta struct {
	ID            string  `json:"id"`
	From          string  `json:"from"`
	FromType      string  `json:"from_type"`
	To            string  `json:"to"`
	ToType        string  `json:"to_type"`
	LengthPercent float64 `json:"length_percent"`
	LengthM       float64 `json:"length_m"`
	Group         int     `json:"group"`
	Local         int     `json:"local"`
	TargetStrain  float64 `json:"target_strain"`
	TargetTension float64 `json:"target_tension"`
	Damping       float64 `json:"damping"`
	StrainGain    float64 `json:"strain_gain"`
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Material   string             `json:"material"`
	Stiffness  float64            `json:"ea"`
	BaseStrain float64            `json:"base_strain"`
	StrainStep float64            `json:"strain_step"`
	MaxStrain  float64            `json:"max_strain,omitempty"`
	LineLength float64            `json:"line_length_m"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Zones      []ZoneMeta         `json:"zones"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Run is what Save needs besides the result itself.
type Run struct {
	Name       string
	Material   string
	Params     tension.Material
	MaxStrain  float64
	LineLength float64
	Metrics    map[string]float64
}

func (s *Store) Save(run Run, result *tension.Result) (string, error) {
	ts := s.now()
	name := run.Name
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       name,
		Timestamp:  ts,
		Material:   run.Material,
		Stiffness:  run.Params.Stiffness,
		BaseStrain: run.Params.BaseStrain,
		StrainStep: run.Params.StrainStep,
		MaxStrain:  run.MaxStrain,
		LineLength: run.LineLength,
		Dt:         result.Dt,
		Duration:   result.Horizon,
		Zones:      make([]ZoneMeta, 0, len(result.Zones)),
		Metrics:    run.Metrics,
	}
	for _, p := range result.Zones {
		meta.Zones = append(meta.Zones, ZoneMeta{
			ID:            p.ID(),
			From:          p.Zone.From.ID,
			FromType:      string(p.Zone.From.Type),
			To:            p.Zone.To.ID,
			ToType:        string(p.Zone.To.Type),
			LengthPercent: p.Zone.LengthPercent,
			LengthM:       p.Zone.LengthMeters,
			Group:         p.Group,
			Local:         p.Local,
			TargetStrain:  p.TargetStrain,
			TargetTension: p.TargetTension,
			Damping:       p.Damping,
			StrainGain:    p.StrainGain,
		})
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, tensionFile), result.Time, result.Tension, 'f', 2); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, strainFile), result.Time, result.Strain, 'g', -1); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeSeries writes a time column then one column per zone, formatting
// samples as strconv.FormatFloat(v, format, prec, 64).
func writeSeries(path string, times []float64, series *tension.SeriesMap, format byte, prec int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := WriteSeriesCSV(w, times, series, format, prec); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteSeriesCSV writes a header of "time" and zone ids, then one row per
// sample. The caller flushes w.
func WriteSeriesCSV(w *csv.Writer, times []float64, series *tension.SeriesMap, format byte, prec int) error {
	keys := series.Keys()
	header := append([]string{"time"}, keys...)
	if err := w.Write(header); err != nil {
		return err
	}

	cols := make([][]float64, len(keys))
	for j, k := range keys {
		cols[j], _ = series.Get(k)
	}

	row := make([]string, len(keys)+1)
	for i, t := range times {
		row[0] = strconv.FormatFloat(t, 'f', 2, 64)
		for j, col := range cols {
			if i < len(col) {
				row[j+1] = strconv.FormatFloat(col[i], format, prec, 64)
			} else {
				row[j+1] = ""
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadResult rebuilds a result from a stored run. Zone parameters come
// from metadata; stations carry id and type only.
func (s *Store) LoadResult(runID string) (*RunMetadata, *tension.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	times, tens, err := readSeries(filepath.Join(s.baseDir, runID, tensionFile))
	if err != nil {
		return nil, nil, err
	}
	_, strain, err := readSeries(filepath.Join(s.baseDir, runID, strainFile))
	if err != nil {
		return nil, nil, err
	}

	r := &tension.Result{
		Time:    times,
		Tension: tens,
		Strain:  strain,
		Zones:   make([]tension.ZoneParams, len(meta.Zones)),
		Dt:      meta.Dt,
		Horizon: meta.Duration,
	}
	for i, z := range meta.Zones {
		r.Zones[i] = z.params(i)
	}
	return meta, r, nil
}

func readSeries(path string) ([]float64, *tension.SeriesMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return []float64{}, tension.NewSeriesMap(0), nil
	}

	keys := records[0][1:]
	cols := make([][]float64, len(keys))
	times := make([]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: bad time %q: %w", path, record[0], err)
		}
		times = append(times, t)

		for j := range keys {
			if j+1 >= len(record) || record[j+1] == "" {
				continue
			}
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: column %s: %w", path, keys[j], err)
			}
			cols[j] = append(cols[j], v)
		}
	}

	series := tension.NewSeriesMap(len(keys))
	for j, k := range keys {
		series.Set(k, cols[j])
	}
	return times, series, nil
}
