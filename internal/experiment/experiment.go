package experiment

import (
	"context"
	"log/slog"

	"github.com/san-kum/growthlab/internal/dynamo"
)

type Config struct {
	Model   string
	Periods int
	Reset   bool
	Params  map[string]float64
}

type Experiment struct {
	cfg       Config
	simulator *dynamo.Simulator
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(m dynamo.Model, metrics []dynamo.Metric) error {
	e.simulator = dynamo.New(m)
	for _, metric := range metrics {
		e.simulator.AddMetric(metric)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, dynamo.ErrNotSetup
	}

	slog.Debug("experiment start", "model", e.cfg.Model, "periods", e.cfg.Periods, "reset", e.cfg.Reset)

	result, err := e.simulator.Run(ctx, dynamo.Config{
		Periods:       e.cfg.Periods,
		Reset:         e.cfg.Reset,
		ValidateState: true,
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("experiment done", "model", e.cfg.Model, "steps", result.StepsTaken, "errors", len(result.Errors))
	return result, nil
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *dynamo.Simulator {
	return e.simulator
}

// Run builds the named model from the registry, attaches its default metrics and
// runs it.
func Run(ctx context.Context, r *Registry, cfg Config) (*dynamo.Result, error) {
	m, err := r.GetModel(cfg.Model, cfg.Params)
	if err != nil {
		return nil, err
	}
	exp := New(cfg)
	if err := exp.Setup(m, r.DefaultMetrics(cfg.Model)); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}
