package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultModel    = "solow"
	DefaultPeriods  = 100
	DefaultVariable = "kappa"

	DefaultUpperClass = 0.2
	DefaultShare      = 0.8

	DefaultWTP         = 10.0
	DefaultDemandSlope = 1.0
	DefaultMOC         = 2.0
	DefaultSupplySlope = 1.0
)

type Config struct {
	Model    string             `yaml:"model"`
	Periods  int                `yaml:"periods"`
	Variable string             `yaml:"variable"`
	Reset    bool               `yaml:"reset"`
	Log      bool               `yaml:"log"`
	Params   map[string]float64 `yaml:"params,omitempty"`
	Gini     GiniConfig         `yaml:"gini"`
	Market   MarketConfig       `yaml:"market"`
}

type GiniConfig struct {
	UpperClass float64 `yaml:"upper_class"`
	Share      float64 `yaml:"share"`
}

type MarketConfig struct {
	Title       string  `yaml:"title"`
	MaxWTP      float64 `yaml:"max_wtp"`
	DemandSlope float64 `yaml:"demand_slope"`
	MinOppCost  float64 `yaml:"min_opp_cost"`
	SupplySlope float64 `yaml:"supply_slope"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:    DefaultModel,
		Periods:  DefaultPeriods,
		Variable: DefaultVariable,
		Reset:    true,
		Gini: GiniConfig{
			UpperClass: DefaultUpperClass,
			Share:      DefaultShare,
		},
		Market: MarketConfig{
			Title:       "Market",
			MaxWTP:      DefaultWTP,
			DemandSlope: DefaultDemandSlope,
			MinOppCost:  DefaultMOC,
			SupplySlope: DefaultSupplySlope,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy so presets are never mutated by flag overrides.
func (c *Config) Clone() *Config {
	out := *c
	if c.Params != nil {
		out.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	return &out
}

// DefaultVariableFor is the variable a model plots when none is configured.
func DefaultVariableFor(model string) string {
	switch model {
	case "malthus":
		return "y"
	default:
		return DefaultVariable
	}
}
