package metrics

import (
	"math"

	"github.com/san-kum/growthlab/internal/dynamo"
)

// SteadyStateGap tracks |x − x*| for one variable of a model with a closed-form
// steady state. Value reports the gap at the last observed period.
type SteadyStateGap struct {
	name     string
	variable string
	gap      float64
	maxGap   float64
	samples  int
}

func NewSteadyStateGap(variable string) *SteadyStateGap {
	return &SteadyStateGap{
		name:     "gap_" + variable,
		variable: variable,
	}
}

func (g *SteadyStateGap) Name() string { return g.name }

func (g *SteadyStateGap) Observe(m dynamo.Model, period int) {
	ss, ok := m.(dynamo.SteadyStater)
	if !ok {
		return
	}
	target, ok := ss.SteadyStateValues()[g.variable]
	if !ok {
		return
	}
	x, err := m.Value(g.variable)
	if err != nil {
		return
	}

	g.gap = math.Abs(x - target)
	g.maxGap = math.Max(g.maxGap, g.gap)
	g.samples++
}

func (g *SteadyStateGap) Value() float64 {
	return g.gap
}

// Max is the largest gap seen since the last Reset.
func (g *SteadyStateGap) Max() float64 {
	return g.maxGap
}

func (g *SteadyStateGap) Reset() {
	g.gap = 0
	g.maxGap = 0
	g.samples = 0
}

// GrowthRate is the mean per-period log growth rate of one variable.
type GrowthRate struct {
	name     string
	variable string
	first    float64
	last     float64
	samples  int
}

func NewGrowthRate(variable string) *GrowthRate {
	return &GrowthRate{
		name:     "growth_" + variable,
		variable: variable,
	}
}

func (g *GrowthRate) Name() string { return g.name }

func (g *GrowthRate) Observe(m dynamo.Model, period int) {
	x, err := m.Value(g.variable)
	if err != nil {
		return
	}
	if g.samples == 0 {
		g.first = x
	}
	g.last = x
	g.samples++
}

func (g *GrowthRate) Value() float64 {
	if g.samples < 2 {
		return 0
	}
	return math.Log(g.last/g.first) / float64(g.samples-1)
}

func (g *GrowthRate) Reset() {
	g.first = 0
	g.last = 0
	g.samples = 0
}
