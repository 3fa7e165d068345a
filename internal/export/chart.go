package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/webtension/internal/tension"
)

type Quantity int

const (
	Tension Quantity = iota
	Strain
)

func (q Quantity) String() string {
	if q == Strain {
		return "strain"
	}
	return "tension"
}

// Chart renders one line per zone of a result.
type Chart struct {
	Title     string
	Quantity  Quantity
	Zones     []string // empty means all zones
	MaxStrain float64  // drawn as a dashed limit on strain charts when > 0
	Width     vg.Length
	Height    vg.Length
}

func NewChart(title string, q Quantity) *Chart {
	return &Chart{
		Title:    title,
		Quantity: q,
		Width:    10 * vg.Inch,
		Height:   5 * vg.Inch,
	}
}

func (c *Chart) build(r *tension.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = "time (s)"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	series := r.Tension
	p.Y.Label.Text = "tension (N)"
	if c.Quantity == Strain {
		series = r.Strain
		p.Y.Label.Text = "strain"
	}

	ids := c.Zones
	if len(ids) == 0 {
		ids = series.Keys()
	}

	for i, id := range ids {
		values, ok := series.Get(id)
		if !ok {
			return nil, fmt.Errorf("export: unknown zone %q", id)
		}
		pts := make(plotter.XYs, 0, len(values))
		for k, v := range values {
			if k >= len(r.Time) {
				break
			}
			pts = append(pts, plotter.XY{X: r.Time[k], Y: v})
		}

		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("export: zone %s: %w", id, err)
		}
		l.Color = plotutil.Color(i)
		l.Width = vg.Points(1.5)
		p.Add(l)
		p.Legend.Add(id, l)
	}

	if c.Quantity == Strain && c.MaxStrain > 0 && len(r.Time) > 1 {
		limit, err := plotter.NewLine(plotter.XYs{
			{X: r.Time[0], Y: c.MaxStrain},
			{X: r.Time[len(r.Time)-1], Y: c.MaxStrain},
		})
		if err != nil {
			return nil, err
		}
		limit.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		limit.Color = plotutil.Color(0)
		p.Add(limit)
		p.Legend.Add("max strain", limit)
	}

	return p, nil
}

// WriteTo renders the chart in format ("png", "svg", "pdf", ...).
func (c *Chart) WriteTo(w io.Writer, r *tension.Result, format string) error {
	p, err := c.build(r)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(c.Width, c.Height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// Save picks the format from the file extension.
func (c *Chart) Save(path string, r *tension.Result) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		return fmt.Errorf("export: %s: missing file extension", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := c.WriteTo(f, r, format); err != nil {
		return err
	}
	return f.Close()
}
