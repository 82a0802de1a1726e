package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/growthlab/internal/dynamo"
	"github.com/san-kum/growthlab/internal/metrics"
	"github.com/san-kum/growthlab/internal/models"
)

// ErrUnknownModel is returned for a model name the registry does not know.
var ErrUnknownModel = errors.New("experiment: unknown model")

type Registry struct {
	models map[string]func(params map[string]float64) (dynamo.Model, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]func(map[string]float64) (dynamo.Model, error)),
	}

	r.models["solow"] = func(params map[string]float64) (dynamo.Model, error) {
		p := models.DefaultSolowParams()
		if err := applyParams(params, p.Set); err != nil {
			return nil, err
		}
		return models.NewSolow(p), nil
	}
	r.models["malthus"] = func(params map[string]float64) (dynamo.Model, error) {
		p := models.DefaultMalthusParams()
		if err := applyParams(params, p.Set); err != nil {
			return nil, err
		}
		return models.NewMalthus(p), nil
	}

	return r
}

// applyParams sets params in name order so errors are reported deterministically.
func applyParams(params map[string]float64, set func(string, float64) error) error {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := set(name, params[name]); err != nil {
			return err
		}
	}
	return nil
}

// GetModel builds a model from its defaults with params applied before
// construction, so they also become the reset snapshot.
func (r *Registry) GetModel(name string, params map[string]float64) (dynamo.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	m, err := fn(params)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}
	return m, nil
}

// Factory returns a constructor for repeated builds of the same model, as used by
// parameter sweeps.
func (r *Registry) Factory(name string, params map[string]float64) func() (dynamo.Model, error) {
	return func() (dynamo.Model, error) {
		return r.GetModel(name, params)
	}
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(model string) []dynamo.Metric {
	ms := []dynamo.Metric{
		metrics.NewSteadyStateGap("kappa"),
		metrics.NewStability(1e12),
	}
	switch model {
	case "solow":
		ms = append(ms, metrics.NewGrowthRate("y"))
	case "malthus":
		ms = append(ms, metrics.NewSteadyStateGap("y"), metrics.NewGrowthRate("L"))
	}
	return ms
}
