// Package optim searches config parameter grids for the run that
// minimizes a summary metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/webtension/internal/config"
	"github.com/san-kum/webtension/internal/experiment"
)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d params but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Point is one evaluated grid cell.
type Point struct {
	Params map[string]float64
	Value  float64
}

// Search runs every grid cell on a copy of base and returns the cell with
// the smallest metric value along with all evaluated cells in grid order.
// Cells whose config is invalid are skipped; run failures abort the search.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (Point, []Point, error) {
	best := Point{Value: math.Inf(1)}
	var all []Point

	var walk func(depth int, current map[string]float64) error
	walk = func(depth int, current map[string]float64) error {
		if depth == len(g.paramNames) {
			cfg := base.Clone()
			for _, name := range g.paramNames {
				if err := cfg.SetParam(name, current[name]); err != nil {
					return err
				}
			}

			exp, err := experiment.New(cfg, experiment.Options{})
			if err != nil {
				return nil
			}
			out, err := exp.Run(ctx)
			if err != nil {
				return err
			}

			val, ok := out.Summary[metricName]
			if !ok {
				return fmt.Errorf("optim: unknown metric %q", metricName)
			}
			p := Point{Params: copyParams(current), Value: val}
			all = append(all, p)
			if val < best.Value {
				best = p
			}
			return nil
		}

		name := g.paramNames[depth]
		for _, v := range g.ranges[depth] {
			next := copyParams(current)
			next[name] = v
			if err := walk(depth+1, next); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(0, map[string]float64{}); err != nil {
		return Point{}, all, err
	}
	if best.Params == nil {
		return Point{}, all, fmt.Errorf("optim: no valid grid cell")
	}
	return best, all, nil
}

func copyParams(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Names returns the params of p in sorted order.
func (p Point) Names() []string {
	names := make([]string, 0, len(p.Params))
	for k := range p.Params {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
