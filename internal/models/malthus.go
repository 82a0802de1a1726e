package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/growthlab/internal/dynamo"
)

// MalthusParams seeds a Malthusian model.
type MalthusParams struct {
	L float64 // initial labor force
	E float64 // initial efficiency of labor
	K float64 // initial capital stock

	Beta float64 // responsiveness of population growth to prosperity
	Phi  float64 // luxuries parameter
	YSub float64 // subsistence standard of living

	H     float64 // rate at which useful ideas are generated
	Gamma float64 // resource-scarcity effect on efficiency growth

	S     float64 // savings-investment rate
	Alpha float64 // orientation of growth toward capital
	Delta float64 // depreciation rate
}

func DefaultMalthusParams() MalthusParams {
	return MalthusParams{
		L:     1,
		E:     1.0 / 3.0,
		K:     3.0,
		Beta:  0.025,
		Phi:   1,
		YSub:  1,
		H:     0,
		Gamma: 2.0,
		S:     0.15,
		Alpha: 0.5,
		Delta: 0.05,
	}
}

func (p *MalthusParams) Set(name string, value float64) error {
	switch Canonical(name) {
	case "L":
		p.L = value
	case "E":
		p.E = value
	case "K":
		p.K = value
	case "beta":
		p.Beta = value
	case "phi":
		p.Phi = value
	case "ysub":
		p.YSub = value
	case "h":
		p.H = value
	case "gamma":
		p.Gamma = value
	case "s":
		p.S = value
	case "alpha":
		p.Alpha = value
	case "delta":
		p.Delta = value
	default:
		return dynamo.UnknownParam(name)
	}
	return nil
}

type malthusState struct {
	MalthusParams
	Y, YPerWorker, Kappa float64
	N, G                 float64
}

// Malthus is a Malthusian growth model in which population growth responds to the
// standard of living,
//
//	n = β(y/(ϕ·ysub) − 1)
//
// and the efficiency of labor grows with ideas but is eroded by resource scarcity,
//
//	g = h − n/γ
type Malthus struct {
	malthusState
	initial malthusState

	// Steady-state values from the last SteadyState call. Not restored by Reset.
	// Until the first call, looking them up by name fails.
	MalKappa, MalN, MalY, MalE float64
	malComputed                bool
}

func NewMalthus(p MalthusParams) *Malthus {
	m := &Malthus{}
	m.MalthusParams = p
	m.derive()

	m.initial = m.malthusState
	return m
}

// derive computes output, prosperity and the growth rates from K, E and L.
func (m *Malthus) derive() {
	m.Y = math.Pow(m.K, m.Alpha) * math.Pow(m.E*m.L, 1-m.Alpha)
	m.YPerWorker = m.Y / m.L
	m.Kappa = m.K / m.Y
	m.N = m.Beta * (m.YPerWorker/(m.Phi*m.YSub) - 1)
	m.G = m.H - m.N/m.Gamma
}

// Update advances the model one period. Each line uses the values computed on the
// lines before it.
func (m *Malthus) Update() {
	k := m.S*m.Y + (1-m.Delta)*m.K
	l := m.L * math.Exp(m.N)
	e := m.E * math.Exp(m.G)
	y := math.Pow(k, m.Alpha) * math.Pow(e*l, 1-m.Alpha)
	yPerWorker := y / l
	kappa := k / y
	n := m.Beta * (yPerWorker/(m.Phi*m.YSub) - 1)
	g := m.H - n/m.Gamma

	m.K, m.L, m.E, m.Y = k, l, e, y
	m.YPerWorker, m.Kappa, m.N, m.G = yPerWorker, kappa, n, g
}

func (m *Malthus) Reset() {
	m.malthusState = m.initial
}

// GenerateSequence records variable over periods updates. With logScale the natural
// log of each recorded value is returned instead.
func (m *Malthus) GenerateSequence(periods int, variable string, reset, logScale bool) ([]float64, error) {
	path, err := dynamo.Sequence(m, periods, variable, reset)
	if err != nil {
		return nil, err
	}
	if logScale {
		return dynamo.LogSeries(path), nil
	}
	return path, nil
}

// MalthusSteadyState holds the closed-form Malthusian equilibrium.
type MalthusSteadyState struct {
	Kappa float64 // capital-output ratio κ*
	N     float64 // population growth rate n*
	Y     float64 // standard of living y*
	E     float64 // efficiency of labor E*
}

// String renders all four values, one per line.
func (ss MalthusSteadyState) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "steady-state capital-output ratio κ: %.2f\n", ss.Kappa)
	fmt.Fprintf(&b, "Malthusian rate of population growth n: %.2f\n", ss.N)
	fmt.Fprintf(&b, "Malthusian standard of living y: %.2f\n", ss.Y)
	fmt.Fprintf(&b, "steady-state efficiency-of-labor E: %.2f", ss.E)
	return b.String()
}

// SteadyState computes the equilibrium from the current parameters and caches it
// in MalKappa, MalN, MalY and MalE. The transient state is not consulted.
func (m *Malthus) SteadyState() MalthusSteadyState {
	drift := m.Gamma*m.H + m.Delta
	ss := MalthusSteadyState{
		Kappa: m.S / drift,
		N:     m.Gamma * m.H,
		Y:     m.Phi * (m.YSub + m.Gamma*m.H/m.Beta),
	}
	ss.E = ss.Y * math.Pow(drift/m.S, m.Alpha/(1-m.Alpha))

	m.MalKappa, m.MalN, m.MalY, m.MalE = ss.Kappa, ss.N, ss.Y, ss.E
	m.malComputed = true
	return ss
}

func (m *Malthus) SteadyStateValues() map[string]float64 {
	ss := m.SteadyState()
	return map[string]float64{
		"kappa": ss.Kappa,
		"n":     ss.N,
		"y":     ss.Y,
		"E":     ss.E,
	}
}

var malthusVariables = []string{"L", "E", "K", "Y", "y", "kappa", "n", "g"}

var malthusFields = map[string]func(*Malthus) float64{
	"L":         func(m *Malthus) float64 { return m.L },
	"E":         func(m *Malthus) float64 { return m.E },
	"K":         func(m *Malthus) float64 { return m.K },
	"Y":         func(m *Malthus) float64 { return m.Y },
	"y":         func(m *Malthus) float64 { return m.YPerWorker },
	"kappa":     func(m *Malthus) float64 { return m.Kappa },
	"n":         func(m *Malthus) float64 { return m.N },
	"g":         func(m *Malthus) float64 { return m.G },
	"beta":      func(m *Malthus) float64 { return m.Beta },
	"phi":       func(m *Malthus) float64 { return m.Phi },
	"ysub":      func(m *Malthus) float64 { return m.YSub },
	"h":         func(m *Malthus) float64 { return m.H },
	"gamma":     func(m *Malthus) float64 { return m.Gamma },
	"s":         func(m *Malthus) float64 { return m.S },
	"alpha":     func(m *Malthus) float64 { return m.Alpha },
	"delta":     func(m *Malthus) float64 { return m.Delta },
	"mal_kappa": func(m *Malthus) float64 { return m.MalKappa },
	"mal_n":     func(m *Malthus) float64 { return m.MalN },
	"mal_y":     func(m *Malthus) float64 { return m.MalY },
	"mal_E":     func(m *Malthus) float64 { return m.MalE },
}

// Value looks up a variable, parameter or cached steady-state value by name. The
// mal_* names are unknown until SteadyState has run.
func (m *Malthus) Value(name string) (float64, error) {
	c := Canonical(name)
	fn, ok := malthusFields[c]
	if !ok || (strings.HasPrefix(c, "mal_") && !m.malComputed) {
		return 0, dynamo.UnknownVariable(name)
	}
	return fn(m), nil
}

func (m *Malthus) Variables() []string {
	return append([]string(nil), malthusVariables...)
}

func (m *Malthus) State() dynamo.State {
	return dynamo.State{m.L, m.E, m.K, m.Y, m.YPerWorker, m.Kappa, m.N, m.G}
}

func (m *Malthus) GetParams() map[string]float64 {
	return map[string]float64{
		"beta":  m.Beta,
		"phi":   m.Phi,
		"ysub":  m.YSub,
		"h":     m.H,
		"gamma": m.Gamma,
		"s":     m.S,
		"alpha": m.Alpha,
		"delta": m.Delta,
	}
}

// SetParam changes a behavioural parameter on the live model and re-derives Y, y,
// κ, n and g from the current K, E and L, so the next Update runs on growth rates
// consistent with the new value. The reset snapshot keeps the construction values.
func (m *Malthus) SetParam(name string, value float64) error {
	switch Canonical(name) {
	case "beta", "phi", "ysub", "h", "gamma", "s", "alpha", "delta":
		if err := m.MalthusParams.Set(name, value); err != nil {
			return err
		}
	default:
		return dynamo.UnknownParam(name)
	}
	m.derive()
	return nil
}
