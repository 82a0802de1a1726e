package analysis

import "math"

// HalfLife returns the first period at which |series[t] − target| has fallen to
// half of the initial gap, or -1 if the series never gets there. A series that
// starts on target has a half-life of 0.
func HalfLife(series []float64, target float64) int {
	if len(series) == 0 {
		return -1
	}
	gap0 := math.Abs(series[0] - target)
	if gap0 == 0 {
		return 0
	}
	for t, x := range series {
		if math.Abs(x-target) <= gap0/2 {
			return t
		}
	}
	return -1
}

// GrowthRates returns the per-period log differences ln(x[t+1]/x[t]).
func GrowthRates(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	rates := make([]float64, len(series)-1)
	for i := range rates {
		rates[i] = math.Log(series[i+1] / series[i])
	}
	return rates
}

// ConvergenceSpeed is the implied per-period rate λ at which the gap to target
// closes, estimated from the first and last observations: gap_T = gap_0·e^{−λT}.
func ConvergenceSpeed(series []float64, target float64) float64 {
	if len(series) < 2 {
		return 0
	}
	gap0 := math.Abs(series[0] - target)
	gapT := math.Abs(series[len(series)-1] - target)
	if gap0 == 0 || gapT == 0 {
		return 0
	}
	return -math.Log(gapT/gap0) / float64(len(series)-1)
}
