package dynamo

import (
	"context"
	"fmt"
)

// Simulator drives a Model period by period, recording every variable.
type Simulator struct {
	model     Model
	metrics   []Metric
	observers []Observer
}

func New(m Model) *Simulator {
	return &Simulator{
		model:     m,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Model returns the driven model.
func (s *Simulator) Model() Model { return s.model }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Variables: append([]string(nil), s.model.Variables()...),
		States:    make([]State, 0, cfg.Periods),
		Periods:   make([]int, 0, cfg.Periods),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	if cfg.Reset {
		s.model.Reset()
	}

	for t := 0; t < cfg.Periods; t++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())
		default:
		}

		x := s.model.State()
		if cfg.ValidateState && !x.IsValid() {
			result.Errors = append(result.Errors, SimError{
				Period:  t,
				Message: "invalid state (NaN/Inf)",
				Wrapped: ErrDegenerate,
			})
			break
		}

		result.States = append(result.States, x)
		result.Periods = append(result.Periods, t)

		for _, m := range s.metrics {
			m.Observe(s.model, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(s.model, t)
		}

		s.model.Update()
		result.StepsTaken++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Periods < 0 {
		return fmt.Errorf("%w, got %d", ErrNegativeHorizon, cfg.Periods)
	}
	return nil
}
