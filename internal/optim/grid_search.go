package optim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/growthlab/internal/dynamo"
)

var ErrMissingMetric = errors.New("optim: metric not reported")

// Runner runs one model with the given parameter overrides.
type Runner func(ctx context.Context, params map[string]float64) (*dynamo.Result, error)

// Best is the grid point whose metric landed closest to the target.
type Best struct {
	Params    map[string]float64
	Metric    float64
	Distance  float64
	Evaluated int
}

// GridSearch evaluates every combination of parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("grid search needs one range per parameter, got %d names and %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("empty range for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search minimizes |metric − target| over the grid. Points whose metric is not
// finite are skipped; Best is nil if no point produced a finite metric.
func (g *GridSearch) Search(ctx context.Context, run Runner, metricName string, target float64) (*Best, error) {
	var best *Best
	evaluated := 0

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(current map[string]float64) error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err)
		}

		result, err := run(ctx, current)
		if err != nil {
			return err
		}
		evaluated++

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingMetric, metricName)
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			slog.Debug("grid point skipped", "params", current, metricName, val)
			return nil
		}

		if dist := math.Abs(val - target); best == nil || dist < best.Distance {
			params := make(map[string]float64, len(current))
			for k, v := range current {
				params[k] = v
			}
			best = &Best{Params: params, Metric: val, Distance: dist}
		}
		return nil
	})
	if best != nil {
		best.Evaluated = evaluated
	}
	return best, err
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64) error) error {
	if depth == len(g.paramNames) {
		return visit(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, current, visit); err != nil {
			return err
		}
	}
	delete(current, paramName)
	return nil
}
