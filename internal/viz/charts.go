package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/growthlab/internal/market"
)

const (
	ChartHeight = 12
	ChartWidth  = 72
)

// finite reports whether series has at least one plottable value. Non-finite
// values are replaced by NaN, which asciigraph leaves as gaps.
func finite(series []float64) ([]float64, bool) {
	out := make([]float64, len(series))
	ok := false
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
		ok = true
	}
	return out, ok
}

// SeriesChart is the basic figure for one time series: title, axis labels and
// the path itself.
func SeriesChart(series []float64, xtitle, ytitle, title string) string {
	data, ok := finite(series)
	if !ok {
		return Subtle.Render("(no data to plot)")
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(ChartHeight),
		asciigraph.Width(ChartWidth),
		asciigraph.Caption(fmt.Sprintf("%s vs %s", ytitle, xtitle)),
	)
	return TitleStyle.Render(title) + "\n" + graph
}

// ConvergenceChart plots series against a flat line at its steady-state value.
// A non-finite steady state is left out and noted in the caption.
func ConvergenceChart(series []float64, steady float64, caption string) string {
	data, ok := finite(series)
	if !ok {
		return Subtle.Render("(no data to plot)")
	}
	if math.IsNaN(steady) || math.IsInf(steady, 0) {
		return asciigraph.Plot(data,
			asciigraph.Height(ChartHeight),
			asciigraph.Width(ChartWidth),
			asciigraph.Caption(fmt.Sprintf("%s (steady state %v, not drawn)", caption, steady)),
		)
	}

	line := make([]float64, len(data))
	for i := range line {
		line[i] = steady
	}

	return asciigraph.PlotMany([][]float64{data, line},
		asciigraph.Height(ChartHeight),
		asciigraph.Width(ChartWidth),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption(fmt.Sprintf("%s (blue) and steady state %.4f (red)", caption, steady)),
	)
}

// SupplyDemandChart draws both curves over [0, 1.5q*]. Prices are clipped to the
// window [0, 1.2·wtp].
func SupplyDemandChart(m *market.Market) string {
	maxQ, maxP := m.Bounds()
	eq := m.Equilibrium()

	n := ChartWidth
	demand := make([]float64, n)
	supply := make([]float64, n)
	for i := 0; i < n; i++ {
		q := maxQ * float64(i) / float64(n-1)
		demand[i] = clamp(m.DemandPrice(q), 0, maxP)
		supply[i] = clamp(m.SupplyPrice(q), 0, maxP)
	}

	graph := asciigraph.PlotMany([][]float64{demand, supply},
		asciigraph.Height(ChartHeight),
		asciigraph.Width(ChartWidth),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(maxP),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption(fmt.Sprintf("demand (blue), supply (red); equilibrium Q = %.2f, P = %.2f", eq.Quantity, eq.Price)),
	)

	header := TitleStyle.Render("Supply and Demand: " + m.Title)
	axes := Subtle.Render(fmt.Sprintf("x: number of %s, 0 to %.2f   y: price/value of %s", m.Title, maxQ, m.Title))
	return header + "\n" + graph + "\n" + axes
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// SteadyStateTable renders closed-form steady-state values as a two-column box.
func SteadyStateTable(title string, values map[string]float64) string {
	return BoxWithTitle(title, keyValueLines(values, "%.4f"), 40)
}

// MetricsTable renders run metrics sorted by name.
func MetricsTable(metrics map[string]float64) string {
	return keyValueLines(metrics, "%.6f")
}

func keyValueLines(values map[string]float64, format string) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, MetricLabel.Render(fmt.Sprintf("%-14s", name))+MetricValue.Render(fmt.Sprintf(format, values[name])))
	}
	return strings.Join(lines, "\n")
}
