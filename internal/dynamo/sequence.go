package dynamo

import "math"

// Sequence records the path of one variable over periods updates of m.
//
// When reset is true the model is first restored to its construction snapshot. Each
// iteration records the current value and then applies Update, so the result has
// exactly periods entries and excludes the state after the final update. The variable
// name is resolved before the model is touched: an unknown name leaves m unchanged.
func Sequence(m Model, periods int, variable string, reset bool) ([]float64, error) {
	if periods < 0 {
		return nil, ErrNegativeHorizon
	}
	if _, err := m.Value(variable); err != nil {
		return nil, err
	}

	if reset {
		m.Reset()
	}

	path := make([]float64, 0, periods)
	for i := 0; i < periods; i++ {
		v, err := m.Value(variable)
		if err != nil {
			return path, err
		}
		path = append(path, v)
		m.Update()
	}
	return path, nil
}

// LogSeries returns the natural log of every value. Non-positive values map to
// -Inf or NaN as math.Log defines.
func LogSeries(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Log(v)
	}
	return out
}
