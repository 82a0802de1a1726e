package config

import "sort"

var Presets = map[string]map[string]*Config{
	"solow": {
		"baseline": {
			Model: "solow", Periods: 100, Variable: "kappa", Reset: true,
			Params: map[string]float64{"n": 0.01, "s": 0.20, "delta": 0.03, "alpha": 1.0 / 3.0, "g": 0.01, "kappa": 4.0},
		},
		"high_savings": {
			Model: "solow", Periods: 200, Variable: "kappa", Reset: true,
			Params: map[string]float64{"n": 0.01, "s": 0.30, "delta": 0.03, "alpha": 1.0 / 3.0, "g": 0.01, "kappa": 4.0},
		},
		"fast_growth": {
			Model: "solow", Periods: 100, Variable: "y", Reset: true, Log: true,
			Params: map[string]float64{"n": 0.01, "s": 0.20, "delta": 0.03, "alpha": 1.0 / 3.0, "g": 0.03},
		},
		"below_steady": {
			Model: "solow", Periods: 150, Variable: "kappa", Reset: true,
			Params: map[string]float64{"n": 0.01, "s": 0.20, "delta": 0.03, "alpha": 1.0 / 3.0, "g": 0.01, "kappa": 1.0},
		},
	},
	"malthus": {
		"stagnant": {
			Model: "malthus", Periods: 500, Variable: "y", Reset: true,
		},
		"ideas": {
			Model: "malthus", Periods: 2000, Variable: "L", Reset: true, Log: true,
			Params: map[string]float64{"h": 0.001},
		},
		"prosperous": {
			Model: "malthus", Periods: 500, Variable: "y", Reset: true,
			Params: map[string]float64{"K": 6.0},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	out := cfg.Clone()
	if out.Gini == (GiniConfig{}) {
		out.Gini = DefaultConfig().Gini
	}
	if out.Market == (MarketConfig{}) {
		out.Market = DefaultConfig().Market
	}
	return out
}

// ListPresets returns the preset names for a model in sorted order.
func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
