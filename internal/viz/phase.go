package viz

import (
	"fmt"
	"math"
)

// PhaseCanvas draws each observation against the next, x[t] → x[t+1], together
// with the 45° line. It returns nil for fewer than two periods or no finite data.
func PhaseCanvas(series []float64, width, height int) *Canvas {
	if len(series) < 2 {
		return nil
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 0) {
		return nil
	}
	pad := (hi - lo) * 0.05
	lo, hi = lo-pad, hi+pad

	c := NewCanvas(width, height, lo, hi, lo, hi)
	c.Line(lo, lo, hi, hi)
	for t := 0; t+1 < len(series); t++ {
		c.Point(series[t], series[t+1])
	}
	return c
}

// PhaseDiagram renders [PhaseCanvas] with a caption. A path converging to a
// fixed point runs into the crossing with the diagonal.
func PhaseDiagram(series []float64, width, height int, label string) string {
	if len(series) < 2 {
		return Subtle.Render("(need at least two periods)")
	}
	c := PhaseCanvas(series, width, height)
	if c == nil {
		return Subtle.Render("(no data to plot)")
	}

	lo, hi, _, _ := c.Bounds()
	caption := Subtle.Render(fmt.Sprintf("%s[t+1] vs %s[t], range %.4g to %.4g, diagonal is %s[t+1] = %s[t]", label, label, lo, hi, label, label))
	return c.String() + caption
}
