package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/growthlab/internal/dynamo"
)

// SweepPoint is the outcome of one parameter value in a sweep.
type SweepPoint struct {
	Param  float64
	Final  float64 // variable after the last period
	Steady float64 // closed-form steady state, NaN if the model has none for variable
	Path   []float64
}

// Factory builds a fresh model for each sweep value.
type Factory func() (dynamo.Model, error)

// Linspace returns steps evenly spaced values over [lo, hi].
func Linspace(lo, hi float64, steps int) []float64 {
	if steps <= 1 {
		return []float64{lo}
	}
	step := (hi - lo) / float64(steps-1)
	values := make([]float64, steps)
	for i := range values {
		values[i] = lo + float64(i)*step
	}
	values[steps-1] = hi
	return values
}

// Sweep runs a fresh model for every value of param and records the path of
// variable over periods, the terminal value and the closed-form steady state.
func Sweep(factory Factory, param string, values []float64, variable string, periods int) ([]SweepPoint, error) {
	if periods < 0 {
		return nil, fmt.Errorf("%w, got %d", dynamo.ErrNegativeHorizon, periods)
	}

	results := make([]SweepPoint, 0, len(values))
	for _, v := range values {
		m, err := factory()
		if err != nil {
			return nil, err
		}
		tunable, ok := m.(dynamo.Configurable)
		if !ok {
			return nil, fmt.Errorf("%w: model has no tunable parameters", dynamo.ErrUnknownParam)
		}
		if err := tunable.SetParam(param, v); err != nil {
			return nil, err
		}

		path, err := dynamo.Sequence(m, periods, variable, false)
		if err != nil {
			return nil, err
		}

		final, err := m.Value(variable)
		if err != nil {
			return nil, err
		}

		steady := math.NaN()
		if ss, ok := m.(dynamo.SteadyStater); ok {
			if target, ok := ss.SteadyStateValues()[variable]; ok {
				steady = target
			}
		}

		results = append(results, SweepPoint{
			Param:  v,
			Final:  final,
			Steady: steady,
			Path:   path,
		})
	}

	return results, nil
}

// SweepTable renders a sweep as aligned text columns.
func SweepTable(param, variable string, points []SweepPoint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %-14s %-14s\n", param, variable+" (final)", variable+"*")
	for _, p := range points {
		steady := "-"
		if !math.IsNaN(p.Steady) {
			steady = fmt.Sprintf("%.4f", p.Steady)
		}
		fmt.Fprintf(&b, "%-12.4f %-14.4f %-14s\n", p.Param, p.Final, steady)
	}
	return b.String()
}
