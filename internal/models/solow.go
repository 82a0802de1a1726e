package models

import (
	"math"

	"github.com/san-kum/growthlab/internal/dynamo"
)

// SolowParams seeds a Solow model. Rates are per period.
type SolowParams struct {
	N     float64 // population growth rate
	S     float64 // savings rate
	Delta float64 // depreciation rate
	Alpha float64 // capital share of income, in (0,1)
	G     float64 // growth rate of the efficiency of labor
	Kappa float64 // initial capital-output ratio
	E     float64 // initial efficiency of labor
	L     float64 // initial labor force
}

func DefaultSolowParams() SolowParams {
	return SolowParams{
		N:     0.01,
		S:     0.20,
		Delta: 0.03,
		Alpha: 1.0 / 3.0,
		G:     0.01,
		Kappa: 0.2 / (0.01 + 0.01 + 0.03),
		E:     1.0,
		L:     1.0,
	}
}

// Set assigns a parameter by name before construction.
func (p *SolowParams) Set(name string, value float64) error {
	switch Canonical(name) {
	case "n":
		p.N = value
	case "s":
		p.S = value
	case "delta":
		p.Delta = value
	case "alpha":
		p.Alpha = value
	case "g":
		p.G = value
	case "kappa":
		p.Kappa = value
	case "E":
		p.E = value
	case "L":
		p.L = value
	default:
		return dynamo.UnknownParam(name)
	}
	return nil
}

// solowState holds every field of a Solow model. It doubles as the construction
// snapshot that Reset restores.
type solowState struct {
	N, S, Delta, Alpha, G float64
	Alpha1                float64
	Kappa, E, L           float64
	Y, K, YPerWorker      float64
}

// Solow is the Solow growth model iterated on the capital-output ratio:
//
//	κ' = κ + (1 − α1)(s − (n+g+δ)κ)
//
// where α1 = 1 − (1 − e^{(α−1)(n+g+δ)})/(n+g+δ) is the discrete-time correction of
// the capital share, so one period of the recurrence matches the continuous-time model.
// Output, capital and output per worker are always derived from κ, E and L.
type Solow struct {
	solowState
	initial solowState
}

func NewSolow(p SolowParams) *Solow {
	m := &Solow{}
	m.N, m.S, m.Delta, m.Alpha, m.G = p.N, p.S, p.Delta, p.Alpha, p.G
	m.Kappa, m.E, m.L = p.Kappa, p.E, p.L
	m.derive()
	m.Alpha1 = correctedShare(m.Alpha, m.N+m.G+m.Delta)

	m.initial = m.solowState
	return m
}

// correctedShare is α1 for a capital share alpha and total drift rate n+g+δ.
func correctedShare(alpha, drift float64) float64 {
	return 1 - (1-math.Exp((alpha-1)*drift))/drift
}

func (m *Solow) derive() {
	m.Y = math.Pow(m.Kappa, m.Alpha/(1-m.Alpha)) * m.E * m.L
	m.K = m.Kappa * m.Y
	m.YPerWorker = m.Y / m.L
}

func (m *Solow) NextKappa() float64 {
	return m.Kappa + (1-m.Alpha1)*(m.S-(m.N+m.G+m.Delta)*m.Kappa)
}

func (m *Solow) NextE() float64 {
	return m.E * math.Exp(m.G)
}

func (m *Solow) NextL() float64 {
	return m.L * math.Exp(m.N)
}

// Update advances κ, E and L one period and re-derives Y, K and y.
func (m *Solow) Update() {
	kappa, e, l := m.NextKappa(), m.NextE(), m.NextL()
	m.Kappa, m.E, m.L = kappa, e, l
	m.derive()
}

func (m *Solow) Reset() {
	m.solowState = m.initial
}

// SteadyState returns κ* = s/(n+g+δ), independent of the current κ.
func (m *Solow) SteadyState() float64 {
	return m.S / (m.N + m.G + m.Delta)
}

func (m *Solow) SteadyStateValues() map[string]float64 {
	return map[string]float64{"kappa": m.SteadyState()}
}

// GenerateSequence records variable over periods updates, optionally resetting to
// the construction snapshot first.
func (m *Solow) GenerateSequence(periods int, variable string, reset bool) ([]float64, error) {
	return dynamo.Sequence(m, periods, variable, reset)
}

var solowVariables = []string{"kappa", "E", "L", "Y", "K", "y"}

var solowFields = map[string]func(*Solow) float64{
	"n":      func(m *Solow) float64 { return m.N },
	"s":      func(m *Solow) float64 { return m.S },
	"delta":  func(m *Solow) float64 { return m.Delta },
	"alpha":  func(m *Solow) float64 { return m.Alpha },
	"g":      func(m *Solow) float64 { return m.G },
	"alpha1": func(m *Solow) float64 { return m.Alpha1 },
	"kappa":  func(m *Solow) float64 { return m.Kappa },
	"E":      func(m *Solow) float64 { return m.E },
	"L":      func(m *Solow) float64 { return m.L },
	"Y":      func(m *Solow) float64 { return m.Y },
	"K":      func(m *Solow) float64 { return m.K },
	"y":      func(m *Solow) float64 { return m.YPerWorker },
}

func (m *Solow) Value(name string) (float64, error) {
	fn, ok := solowFields[Canonical(name)]
	if !ok {
		return 0, dynamo.UnknownVariable(name)
	}
	return fn(m), nil
}

func (m *Solow) Variables() []string {
	return append([]string(nil), solowVariables...)
}

func (m *Solow) State() dynamo.State {
	return dynamo.State{m.Kappa, m.E, m.L, m.Y, m.K, m.YPerWorker}
}

func (m *Solow) GetParams() map[string]float64 {
	return map[string]float64{
		"n":     m.N,
		"s":     m.S,
		"delta": m.Delta,
		"alpha": m.Alpha,
		"g":     m.G,
	}
}

// SetParam changes a parameter on the live model. α1 is recomputed; the reset
// snapshot keeps the construction values.
func (m *Solow) SetParam(name string, value float64) error {
	switch Canonical(name) {
	case "n":
		m.N = value
	case "s":
		m.S = value
	case "delta":
		m.Delta = value
	case "alpha":
		m.Alpha = value
		m.derive()
	case "g":
		m.G = value
	default:
		return dynamo.UnknownParam(name)
	}
	m.Alpha1 = correctedShare(m.Alpha, m.N+m.G+m.Delta)
	return nil
}
