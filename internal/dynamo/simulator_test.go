package dynamo

import (
	"context"
	"errors"
	"math"
	"testing"
)

// halving is x' = x/2 with a construction snapshot.
type halving struct {
	x, x0 float64
}

func newHalving(x0 float64) *halving { return &halving{x: x0, x0: x0} }

func (h *halving) Update()             { h.x /= 2 }
func (h *halving) Reset()              { h.x = h.x0 }
func (h *halving) Variables() []string { return []string{"x"} }
func (h *halving) State() State        { return State{h.x} }
func (h *halving) Value(name string) (float64, error) {
	if name != "x" {
		return 0, UnknownVariable(name)
	}
	return h.x, nil
}

func TestSimulatorRun(t *testing.T) {
	sim := New(newHalving(1.0))

	result, err := sim.Run(context.Background(), Config{Periods: 10, Reset: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 10 {
		t.Errorf("expected 10 states, got %d", len(result.States))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}

	xs := result.Series("x")
	if xs[0] != 1.0 {
		t.Errorf("first observation should be the initial state, got %v", xs[0])
	}
	if math.Abs(xs[9]-math.Pow(0.5, 9)) > 1e-15 {
		t.Errorf("expected last observation 2^-9, got %v", xs[9])
	}
	if result.Periods[9] != 9 {
		t.Errorf("expected period 9, got %d", result.Periods[9])
	}
}

func TestSimulatorResetFlag(t *testing.T) {
	m := newHalving(8.0)
	m.Update()
	sim := New(m)

	result, err := sim.Run(context.Background(), Config{Periods: 1, Reset: false})
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Series("x")[0]; got != 4.0 {
		t.Errorf("expected run to continue from 4, got %v", got)
	}

	result, err = sim.Run(context.Background(), Config{Periods: 1, Reset: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Series("x")[0]; got != 8.0 {
		t.Errorf("expected reset run to start at 8, got %v", got)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(newHalving(1.0))
	if _, err := sim.Run(context.Background(), Config{Periods: -1}); !errors.Is(err, ErrNegativeHorizon) {
		t.Errorf("expected ErrNegativeHorizon, got %v", err)
	}
}

func TestSimulatorZeroPeriods(t *testing.T) {
	sim := New(newHalving(1.0))
	result, err := sim.Run(context.Background(), Config{Periods: 0})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.States) != 0 {
		t.Errorf("expected no states, got %d", len(result.States))
	}
}

func TestSimulatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := New(newHalving(1.0))
	_, err := sim.Run(ctx, Config{Periods: 5})
	if !errors.Is(err, ErrContextCanceled) || !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation error, got %v", err)
	}
}

func TestSimulatorValidateState(t *testing.T) {
	m := newHalving(math.Inf(1))
	sim := New(m)

	result, err := sim.Run(context.Background(), Config{Periods: 5, ValidateState: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one error, got %v", result.Errors)
	}
	if !errors.Is(result.Errors[0], ErrDegenerate) {
		t.Errorf("expected ErrDegenerate, got %v", result.Errors[0])
	}
	if len(result.States) != 0 {
		t.Errorf("expected run to stop before recording, got %d states", len(result.States))
	}
}

type countMetric struct {
	count int
	sum   float64
}

func (c *countMetric) Name() string { return "mean_x" }
func (c *countMetric) Observe(m Model, period int) {
	x, _ := m.Value("x")
	c.count++
	c.sum += x
}
func (c *countMetric) Value() float64 {
	if c.count == 0 {
		return 0
	}
	return c.sum / float64(c.count)
}
func (c *countMetric) Reset() { c.count, c.sum = 0, 0 }

type periodRecorder struct{ periods []int }

func (p *periodRecorder) OnStep(m Model, period int) { p.periods = append(p.periods, period) }

func TestSimulatorMetricsAndObservers(t *testing.T) {
	sim := New(newHalving(1.0))

	metric := &countMetric{}
	obs := &periodRecorder{}
	sim.AddMetric(metric)
	sim.AddObserver(obs)

	result, err := sim.Run(context.Background(), Config{Periods: 2, Reset: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got := result.Metrics["mean_x"]; got != 0.75 {
		t.Errorf("expected mean 0.75, got %v", got)
	}
	if metric.count != 2 {
		t.Errorf("expected 2 observations, got %d", metric.count)
	}
	if len(obs.periods) != 2 || obs.periods[1] != 1 {
		t.Errorf("unexpected observed periods %v", obs.periods)
	}
}

func TestSequence(t *testing.T) {
	m := newHalving(4.0)
	m.Update()

	seq, err := Sequence(m, 3, "x", true)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{4, 2, 1}
	for i := range want {
		if seq[i] != want[i] {
			t.Errorf("seq[%d] = %v, want %v", i, seq[i], want[i])
		}
	}
	if m.x != 0.5 {
		t.Errorf("model should hold the state after the final update, got %v", m.x)
	}

	if _, err := Sequence(m, 3, "y", true); !errors.Is(err, ErrUnknownVariable) {
		t.Errorf("expected ErrUnknownVariable, got %v", err)
	}
	if m.x != 0.5 {
		t.Error("unknown variable lookup touched the model")
	}
}

func TestLogSeries(t *testing.T) {
	got := LogSeries([]float64{1, math.E, 0})
	if got[0] != 0 || math.Abs(got[1]-1) > 1e-15 || !math.IsInf(got[2], -1) {
		t.Errorf("LogSeries = %v", got)
	}
}
