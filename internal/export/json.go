package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/webtension/internal/metrics"
	"github.com/san-kum/webtension/internal/tension"
)

// Document is the JSON form of a run.
type Document struct {
	ID       string               `json:"id,omitempty"`
	Material string               `json:"material,omitempty"`
	Dt       float64              `json:"dt"`
	Duration float64              `json:"duration"`
	Steps    int                  `json:"steps"`
	Time     []float64            `json:"time"`
	Tension  *tension.SeriesMap   `json:"tensionSeries"`
	Strain   *tension.SeriesMap   `json:"strainSeries"`
	Sections []metrics.ZoneReport `json:"sections"`
}

func NewDocument(id, material string, r *tension.Result, maxStrain float64) *Document {
	return &Document{
		ID:       id,
		Material: material,
		Dt:       r.Dt,
		Duration: r.Horizon,
		Steps:    len(r.Time),
		Time:     r.Time,
		Tension:  r.Tension,
		Strain:   r.Strain,
		Sections: metrics.Evaluate(r, maxStrain),
	}
}

func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

func ExportJSON(path string, d *Document) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return d.Encode(file)
}

func ExportJSONStdout(d *Document) error {
	return d.Encode(os.Stdout)
}
