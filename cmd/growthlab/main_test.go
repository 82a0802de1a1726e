package main

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/growthlab/internal/dynamo"
	"github.com/san-kum/growthlab/internal/storage"
	"github.com/spf13/cobra"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]float64
		wantErr bool
	}{
		{"empty", nil, map[string]float64{}, false},
		{"single", []string{"s=0.3"}, map[string]float64{"s": 0.3}, false},
		{"greek", []string{"δ=0.1", "n=0"}, map[string]float64{"δ": 0.1, "n": 0}, false},
		{"missing value", []string{"s"}, nil, true},
		{"missing name", []string{"=1"}, nil, true},
		{"not a number", []string{"s=high"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseParams(tt.pairs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseParams(%v) error = %v, wantErr %v", tt.pairs, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func newRunCmd() *cobra.Command {
	preset, configFile, params, save = "", "", nil, false
	cmd := &cobra.Command{Use: "run"}
	cmd.SetContext(context.Background())
	addModelFlags(cmd)
	cmd.Flags().IntVarP(&periods, "periods", "n", 100, "")
	cmd.Flags().StringVar(&variable, "var", "", "")
	cmd.Flags().BoolVar(&logScale, "log", false, "")
	return cmd
}

func TestResolveConfigLayers(t *testing.T) {
	cmd := newRunCmd()
	if err := cmd.ParseFlags([]string{"--preset", "high_savings", "-p", "n=0.02", "--var", "y"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := resolveConfig(cmd, "solow")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Params["s"] != 0.30 {
		t.Errorf("preset s lost: %v", cfg.Params)
	}
	if cfg.Params["n"] != 0.02 {
		t.Errorf("flag override lost: %v", cfg.Params)
	}
	if cfg.Periods != 200 {
		t.Errorf("unchanged --periods should keep the preset's 200, got %d", cfg.Periods)
	}
	if cfg.Variable != "y" || !cfg.Reset {
		t.Errorf("unexpected variable %q reset %v", cfg.Variable, cfg.Reset)
	}
}

func TestResolveConfigDefaults(t *testing.T) {
	cmd := newRunCmd()
	if err := cmd.ParseFlags([]string{"-n", "7"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := resolveConfig(cmd, "malthus")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Variable != "y" {
		t.Errorf("malthus should chart y by default, got %q", cfg.Variable)
	}
	if cfg.Periods != 7 || !cfg.Reset {
		t.Errorf("flags not applied: periods %d reset %v", cfg.Periods, cfg.Reset)
	}
}

func TestResolveConfigUnknownPreset(t *testing.T) {
	cmd := newRunCmd()
	if err := cmd.ParseFlags([]string{"--preset", "nope"}); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveConfig(cmd, "solow"); err == nil {
		t.Error("expected an error for an unknown preset")
	}
}

func TestParseGrid(t *testing.T) {
	name, values, err := parseGrid("s=0.1:0.3:3")
	if err != nil {
		t.Fatal(err)
	}
	if name != "s" || len(values) != 3 || values[0] != 0.1 || values[2] != 0.3 {
		t.Errorf("unexpected grid %s %v", name, values)
	}

	for _, bad := range []string{"s", "s=0.1:0.3", "=0:1:2", "s=a:1:2", "s=0:1:0"} {
		if _, _, err := parseGrid(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestRunModel(t *testing.T) {
	cmd := newRunCmd()
	if err := cmd.ParseFlags([]string{"-n", "20"}); err != nil {
		t.Fatal(err)
	}
	if err := runModel(cmd, []string{"solow"}); err != nil {
		t.Errorf("baseline run failed: %v", err)
	}
}

func TestRunModelDegenerate(t *testing.T) {
	cmd := newRunCmd()
	if err := cmd.ParseFlags([]string{"-p", "n=0", "-p", "g=0", "-p", "delta=0"}); err != nil {
		t.Fatal(err)
	}
	dataDir = t.TempDir()
	save = true

	err := runModel(cmd, []string{"solow"})
	if !errors.Is(err, dynamo.ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate, got %v", err)
	}

	// the stopped run, with its infinite steady-state gap, is still stored
	runs, err := storage.New(dataDir).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("expected the degenerate run to be saved, got %d runs", len(runs))
	}
}
