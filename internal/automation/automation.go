package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/growthlab/internal/analysis"
	"github.com/san-kum/growthlab/internal/config"
	"github.com/san-kum/growthlab/internal/dynamo"
	"github.com/san-kum/growthlab/internal/experiment"
	"github.com/san-kum/growthlab/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of model runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. A preset supplies defaults that the
// step's own fields override.
type ScenarioStep struct {
	Model    string             `yaml:"model"`
	Preset   string             `yaml:"preset"`
	Periods  int                `yaml:"periods"`
	Variable string             `yaml:"variable"`
	Params   map[string]float64 `yaml:"params"`
	Save     bool               `yaml:"save"`
}

// StepResult pairs a step with its run.
type StepResult struct {
	Step   ScenarioStep
	Result *dynamo.Result
	RunID  string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// resolve merges a step over its preset, if any.
func (s ScenarioStep) resolve() (experiment.Config, error) {
	cfg := experiment.Config{Model: s.Model, Periods: config.DefaultPeriods, Reset: true}

	if s.Preset != "" {
		p := config.GetPreset(s.Model, s.Preset)
		if p == nil {
			return cfg, fmt.Errorf("unknown preset: %s (available: %v)", s.Preset, config.ListPresets(s.Model))
		}
		cfg.Periods = p.Periods
		cfg.Params = p.Params
	}

	if s.Periods != 0 {
		cfg.Periods = s.Periods
	}
	if len(s.Params) > 0 {
		merged := make(map[string]float64, len(cfg.Params)+len(s.Params))
		for k, v := range cfg.Params {
			merged[k] = v
		}
		for k, v := range s.Params {
			merged[k] = v
		}
		cfg.Params = merged
	}
	return cfg, nil
}

// RunScenario executes all steps in a scenario. Steps marked save are written to
// st when st is non-nil.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, st *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		slog.Debug("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "model", step.Model)

		cfg, err := step.resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		result, err := experiment.Run(ctx, registry, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Result: result}
		if step.Save && st != nil {
			if sr.RunID, err = st.Save(cfg.Model, cfg.Periods, cfg.Reset, cfg.Params, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs a model across a range of one parameter
type ParameterSweep struct {
	Model     string             `yaml:"model"`
	Params    map[string]float64 `yaml:"params"`
	ParamName string             `yaml:"param"`
	ParamMin  float64            `yaml:"min"`
	ParamMax  float64            `yaml:"max"`
	NumSteps  int                `yaml:"steps"`
	Periods   int                `yaml:"periods"`
	Variable  string             `yaml:"variable"`
}

// RunSweep executes a parameter sweep, checking ctx between values.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]analysis.SweepPoint, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	factory := registry.Factory(sweep.Model, sweep.Params)
	values := analysis.Linspace(sweep.ParamMin, sweep.ParamMax, sweep.NumSteps)
	results := make([]analysis.SweepPoint, 0, len(values))

	for i, v := range values {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err)
		}

		points, err := analysis.Sweep(factory, sweep.ParamName, []float64{v}, sweep.Variable, sweep.Periods)
		if err != nil {
			return results, err
		}
		results = append(results, points...)

		slog.Debug("sweep", "step", i+1, "of", len(values), sweep.ParamName, v)
	}

	return results, nil
}

// MonteCarloConfig perturbs one parameter at random around its base value.
type MonteCarloConfig struct {
	Model     string
	Params    map[string]float64
	ParamName string
	Base      float64
	Spread    float64 // relative, base·(1 ± spread)
	NumTrials int
	Periods   int
	Variable  string
	Tolerance float64
	Seed      int64
}

// MonteCarloResult reports whether one trial ended within tolerance of its steady state.
type MonteCarloResult struct {
	TrialID    int
	ParamValue float64
	Final      float64
	Steady     float64
	Converged  bool
}

// RunMonteCarlo executes trials with randomly drawn parameter values, checking ctx
// between trials.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("monte carlo needs at least one trial, got %d", cfg.NumTrials)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	values := make([]float64, cfg.NumTrials)
	for i := range values {
		values[i] = cfg.Base * (1 + (rng.Float64()-0.5)*2*cfg.Spread)
	}

	factory := registry.Factory(cfg.Model, cfg.Params)
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	for trial, v := range values {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err)
		}

		points, err := analysis.Sweep(factory, cfg.ParamName, []float64{v}, cfg.Variable, cfg.Periods)
		if err != nil {
			return nil, err
		}
		p := points[0]

		results = append(results, MonteCarloResult{
			TrialID:    trial,
			ParamValue: v,
			Final:      p.Final,
			Steady:     p.Steady,
			Converged:  !math.IsNaN(p.Steady) && math.Abs(p.Final-p.Steady) <= cfg.Tolerance,
		})
	}

	return results, nil
}

// MonteCarloStats counts converged and unconverged trials
func MonteCarloStats(results []MonteCarloResult) (converged int, unconverged int) {
	for _, r := range results {
		if r.Converged {
			converged++
		} else {
			unconverged++
		}
	}
	return
}
