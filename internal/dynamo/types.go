package dynamo

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Model is a stateful discrete-time model advanced one period at a time.
type Model interface {
	// Update applies one period of the model's recurrence in place.
	Update()
	// Reset restores every field to the snapshot taken at construction.
	Reset()
	// Value returns the current value of a named variable or parameter.
	Value(name string) (float64, error)
	// Variables lists the canonical names accepted by Value, in State order.
	Variables() []string
	// State returns the current values of Variables() as a vector.
	State() State
}

// SteadyStater is implemented by models with a closed-form steady state.
// Keys match the names accepted by Model.Value.
type SteadyStater interface {
	SteadyStateValues() map[string]float64
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Metric interface {
	Name() string
	Observe(m Model, period int)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(m Model, period int)
}

type Config struct {
	Periods       int
	Reset         bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Periods:       100,
		Reset:         true,
		ValidateState: true,
	}
}

type Result struct {
	Variables  []string
	States     []State
	Periods    []int
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Series extracts the recorded path of one variable. It returns nil for names that
// were not recorded.
func (r *Result) Series(name string) []float64 {
	idx := -1
	for i, v := range r.Variables {
		if v == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(r.States))
	for i, s := range r.States {
		if idx < len(s) {
			out[i] = s[idx]
		}
	}
	return out
}
