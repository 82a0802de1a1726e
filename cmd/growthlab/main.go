package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lmittmann/tint"
	"github.com/san-kum/growthlab/internal/analysis"
	"github.com/san-kum/growthlab/internal/automation"
	"github.com/san-kum/growthlab/internal/config"
	"github.com/san-kum/growthlab/internal/dynamo"
	"github.com/san-kum/growthlab/internal/experiment"
	"github.com/san-kum/growthlab/internal/export"
	"github.com/san-kum/growthlab/internal/market"
	"github.com/san-kum/growthlab/internal/models"
	"github.com/san-kum/growthlab/internal/optim"
	"github.com/san-kum/growthlab/internal/storage"
	"github.com/san-kum/growthlab/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string

	periods  int
	variable string
	logScale bool
	params   []string
	save     bool
	display  bool

	upperClass float64
	share      float64

	marketTitle string
	maxWTP      float64
	demandSlope float64
	minOppCost  float64
	supplySlope float64

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	sweepFile  string
	sweepVar   string
	sweepN     int

	mcBase   float64
	mcSpread float64
	mcTrials int
	mcTol    float64
	mcSeed   int64
	mcVar    string
	mcN      int

	svgPhase  bool
	svgOutput string

	calGrid    []string
	calMetric  string
	calTarget  float64
	calPeriods int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "growthlab",
		Short: "economic growth models in the terminal",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := experiment.NewRegistry()
			return viz.RunInteractive(registry.ListModels(), config.ListPresets, func(model, name string) (dynamo.Model, error) {
				cfg, err := presetConfig(model, name)
				if err != nil {
					return nil, err
				}
				return registry.GetModel(model, cfg.Params)
			})
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "./data", "run storage directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a growth model and chart one variable",
		Args:  cobra.ExactArgs(1),
		RunE:  runModel,
	}
	addModelFlags(runCmd)
	runCmd.Flags().IntVarP(&periods, "periods", "n", config.DefaultPeriods, "number of periods")
	runCmd.Flags().StringVar(&variable, "var", "", "variable to chart (default depends on model)")
	runCmd.Flags().BoolVar(&logScale, "log", false, "chart the natural log of the variable")
	runCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")

	steadyCmd := &cobra.Command{
		Use:   "steady [model]",
		Short: "print the closed-form steady state",
		Args:  cobra.ExactArgs(1),
		RunE:  steadyState,
	}
	addModelFlags(steadyCmd)
	steadyCmd.Flags().BoolVar(&display, "display", false, "print the textual summary instead of the table")

	giniCmd := &cobra.Command{
		Use:   "gini",
		Short: "Gini coefficient of a two-class income distribution",
		Args:  cobra.NoArgs,
		RunE:  giniCoefficient,
	}
	giniCmd.Flags().StringVar(&configFile, "config", "", "config file (yaml)")
	giniCmd.Flags().Float64Var(&upperClass, "upper", config.DefaultUpperClass, "population share of the upper class")
	giniCmd.Flags().Float64Var(&share, "share", config.DefaultShare, "income share of the upper class")

	marketCmd := &cobra.Command{
		Use:   "market",
		Short: "linear supply and demand equilibrium",
		Args:  cobra.NoArgs,
		RunE:  marketEquilibrium,
	}
	marketCmd.Flags().StringVar(&configFile, "config", "", "config file (yaml)")
	marketCmd.Flags().StringVar(&marketTitle, "title", "Market", "market and commodity")
	marketCmd.Flags().Float64Var(&maxWTP, "wtp", config.DefaultWTP, "maximum willingness to pay")
	marketCmd.Flags().Float64Var(&demandSlope, "demand-slope", config.DefaultDemandSlope, "slope of the demand curve")
	marketCmd.Flags().Float64Var(&minOppCost, "moc", config.DefaultMOC, "minimum opportunity cost of suppliers")
	marketCmd.Flags().Float64Var(&supplySlope, "supply-slope", config.DefaultSupplySlope, "slope of the supply curve")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "chart a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&variable, "var", "", "only chart this variable")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "plot x[t+1] against x[t] for a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&variable, "var", "", "variable to plot (default depends on model)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a chart of a saved run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&variable, "var", "", "variable to draw (default depends on model)")
	exportSVGCmd.Flags().BoolVar(&svgPhase, "phase", false, "draw the phase diagram instead of the path")
	exportSVGCmd.Flags().StringVarP(&svgOutput, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "sweep one parameter and compare terminal values with the steady state",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepModel,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "sweep", "s", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.4, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 7, "number of values")
	sweepCmd.Flags().IntVarP(&sweepN, "periods", "n", 500, "periods per value")
	sweepCmd.Flags().StringVar(&sweepVar, "var", "kappa", "variable to record")
	sweepCmd.Flags().StringVar(&sweepFile, "file", "", "sweep definition (yaml)")

	montecarloCmd := &cobra.Command{
		Use:   "montecarlo [model]",
		Short: "draw one parameter at random and check every economy converges",
		Args:  cobra.ExactArgs(1),
		RunE:  monteCarlo,
	}
	addModelFlags(montecarloCmd)
	montecarloCmd.Flags().StringVar(&sweepParam, "sweep", "s", "parameter to perturb")
	montecarloCmd.Flags().Float64Var(&mcBase, "base", 0.2, "base value of the parameter")
	montecarloCmd.Flags().Float64Var(&mcSpread, "spread", 0.5, "relative spread around the base")
	montecarloCmd.Flags().IntVar(&mcTrials, "trials", 50, "number of trials")
	montecarloCmd.Flags().IntVarP(&mcN, "periods", "n", 1000, "periods per trial")
	montecarloCmd.Flags().StringVar(&mcVar, "var", "kappa", "variable to check")
	montecarloCmd.Flags().Float64Var(&mcTol, "tol", 1e-4, "convergence tolerance")
	montecarloCmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed (0 uses the clock)")

	calibrateCmd := &cobra.Command{
		Use:   "calibrate [model]",
		Short: "grid search for the parameters that bring a metric closest to a target",
		Args:  cobra.ExactArgs(1),
		RunE:  calibrate,
	}
	addModelFlags(calibrateCmd)
	calibrateCmd.Flags().StringArrayVar(&calGrid, "grid", nil, "parameter range name=min:max:steps (repeatable)")
	calibrateCmd.Flags().StringVar(&calMetric, "metric", "gap_kappa", "metric to match")
	calibrateCmd.Flags().Float64Var(&calTarget, "target", 0, "target value of the metric")
	calibrateCmd.Flags().IntVarP(&calPeriods, "periods", "n", 200, "periods per grid point")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of model runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "step a model interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addModelFlags(liveCmd)

	rootCmd.AddCommand(runCmd, steadyCmd, giniCmd, marketCmd, listCmd, plotCmd, phaseCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, sweepCmd, montecarloCmd, calibrateCmd, scenarioCmd, liveCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	))
}

// addModelFlags registers the flags that pick and tune a model.
func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "start from a named preset")
	cmd.Flags().StringVar(&configFile, "config", "", "config file (yaml)")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "parameter override name=value (repeatable)")
}

// parseParams turns name=value pairs into a parameter map.
func parseParams(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q, want name=value", pair)
		}
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		out[strings.TrimSpace(name)] = val
	}
	return out, nil
}

func presetConfig(model, name string) (*config.Config, error) {
	if name == "" {
		cfg := config.DefaultConfig()
		cfg.Model = model
		cfg.Variable = config.DefaultVariableFor(model)
		return cfg, nil
	}
	cfg := config.GetPreset(model, name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets(model))
	}
	return cfg, nil
}

// resolveConfig layers defaults, preset, config file and changed flags, in that order.
func resolveConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg, err := presetConfig(model, preset)
	if err != nil {
		return nil, err
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if fileCfg.Model != "" && fileCfg.Model != model {
			slog.Warn("config file is for another model", "file", fileCfg.Model, "model", model)
		}
		fileCfg.Model = model
		if preset != "" {
			merged := cfg.Params
			if merged == nil {
				merged = make(map[string]float64)
			}
			for k, v := range fileCfg.Params {
				merged[k] = v
			}
			fileCfg.Params = merged
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("periods") {
		cfg.Periods = periods
	}
	if flags.Changed("var") {
		cfg.Variable = variable
	}
	if flags.Changed("log") {
		cfg.Log = logScale
	}

	overrides, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 && cfg.Params == nil {
		cfg.Params = make(map[string]float64, len(overrides))
	}
	for k, v := range overrides {
		cfg.Params[k] = v
	}

	slog.Debug("resolved config", "model", cfg.Model, "periods", cfg.Periods, "variable", cfg.Variable, "params", cfg.Params)
	return cfg, nil
}

func runModel(cmd *cobra.Command, args []string) error {
	model := args[0]
	cfg, err := resolveConfig(cmd, model)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	m, err := registry.GetModel(model, cfg.Params)
	if err != nil {
		return err
	}
	if _, err := m.Value(cfg.Variable); err != nil {
		return err
	}
	name := models.Canonical(cfg.Variable)

	exp := experiment.New(experiment.Config{
		Model:   model,
		Periods: cfg.Periods,
		Reset:   cfg.Reset,
		Params:  cfg.Params,
	})
	if err := exp.Setup(m, registry.DefaultMetrics(model)); err != nil {
		return err
	}

	start := time.Now()
	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	for _, e := range result.Errors {
		slog.Warn("run stopped early", "err", e)
	}

	series := result.Series(name)
	if series == nil {
		// parameters and derived constants are not recorded per period
		if series, err = dynamo.Sequence(m, cfg.Periods, name, true); err != nil {
			return err
		}
	}

	label := name
	if cfg.Log {
		series = dynamo.LogSeries(series)
		label = "ln " + name
	}

	target, hasTarget := steadyValue(m, name)
	if hasTarget && !cfg.Log {
		fmt.Println(viz.ConvergenceChart(series, target, label))
	} else {
		fmt.Println(viz.SeriesChart(series, "period", label, fmt.Sprintf("%s: %s over %d periods", model, label, cfg.Periods)))
	}

	fmt.Printf("\ncompleted in %v\n", elapsed)
	fmt.Printf("periods: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	fmt.Println(viz.MetricsTable(result.Metrics))

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(model, cfg.Periods, cfg.Reset, cfg.Params, result)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("%s stopped after %d periods: %w", model, result.StepsTaken, result.Errors[0])
	}
	return nil
}

func steadyValue(m dynamo.Model, name string) (float64, bool) {
	ss, ok := m.(dynamo.SteadyStater)
	if !ok {
		return 0, false
	}
	v, ok := ss.SteadyStateValues()[name]
	return v, ok
}

func steadyState(cmd *cobra.Command, args []string) error {
	model := args[0]
	cfg, err := resolveConfig(cmd, model)
	if err != nil {
		return err
	}

	m, err := experiment.NewRegistry().GetModel(model, cfg.Params)
	if err != nil {
		return err
	}

	switch mm := m.(type) {
	case *models.Malthus:
		if display {
			fmt.Println(mm.SteadyState().String())
			return nil
		}
	case *models.Solow:
		if display {
			fmt.Printf("steady-state capital-output ratio κ: %.2f\n", mm.SteadyState())
			return nil
		}
	}

	ss, ok := m.(dynamo.SteadyStater)
	if !ok {
		return fmt.Errorf("model %s has no closed-form steady state", model)
	}
	fmt.Println(viz.SteadyStateTable(strings.ToUpper(model)+" STEADY STATE", ss.SteadyStateValues()))
	return nil
}

func giniCoefficient(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cmd.Flags().Changed("upper") {
			upperClass = cfg.Gini.UpperClass
		}
		if !cmd.Flags().Changed("share") {
			share = cfg.Gini.Share
		}
	}

	g := models.NewGini(upperClass, share)
	if err := g.Err(); err != nil {
		return fmt.Errorf("upper class %v: %w", upperClass, err)
	}

	fmt.Println(viz.SteadyStateTable("TWO-CLASS GINI", map[string]float64{
		"upper_class":  g.UpperClass(),
		"share":        g.Share(),
		"gini":         g.Value(),
		"income_ratio": g.IncomeRatio(),
	}))
	return nil
}

func marketEquilibrium(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		f := cmd.Flags()
		if !f.Changed("title") {
			marketTitle = cfg.Market.Title
		}
		if !f.Changed("wtp") {
			maxWTP = cfg.Market.MaxWTP
		}
		if !f.Changed("demand-slope") {
			demandSlope = cfg.Market.DemandSlope
		}
		if !f.Changed("moc") {
			minOppCost = cfg.Market.MinOppCost
		}
		if !f.Changed("supply-slope") {
			supplySlope = cfg.Market.SupplySlope
		}
	}

	mk, err := market.NewMarket(marketTitle, maxWTP, demandSlope, minOppCost, supplySlope)
	if err != nil {
		return err
	}

	fmt.Println(viz.SupplyDemandChart(mk))
	fmt.Println()
	fmt.Print(mk.Summary())
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tPERIODS\tPARAMS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Periods,
			formatParams(run.Params),
		)
	}

	return w.Flush()
}

func formatParams(p map[string]float64) string {
	if len(p) == 0 {
		return "-"
	}
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = fmt.Sprintf("%s=%g", k, p[k])
	}
	return strings.Join(parts, " ")
}

// loadRun reads a saved run and rebuilds its model for steady-state reference.
func loadRun(runID string) (*storage.RunMetadata, *dynamo.Result, dynamo.Model, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	result, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	m, err := experiment.NewRegistry().GetModel(meta.Model, meta.Params)
	if err != nil {
		slog.Debug("cannot rebuild model for run", "id", runID, "err", err)
		m = nil
	}
	return meta, result, m, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, m, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(result.States) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("periods: %d\n\n", len(result.States))

	names := result.Variables
	if variable != "" {
		names = []string{models.Canonical(variable)}
	}

	for _, name := range names {
		series := result.Series(name)
		if series == nil {
			return dynamo.UnknownVariable(name)
		}
		if m != nil {
			if target, ok := steadyValue(m, name); ok {
				fmt.Println(viz.ConvergenceChart(series, target, name))
				fmt.Println()
				continue
			}
		}
		fmt.Println(viz.SeriesChart(series, "period", name, name))
		fmt.Println()
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, result, _, err := loadRun(args[0])
	if err != nil {
		return err
	}

	name := variable
	if name == "" {
		name = config.DefaultVariableFor(meta.Model)
	}
	name = models.Canonical(name)

	series := result.Series(name)
	if series == nil {
		return dynamo.UnknownVariable(name)
	}

	fmt.Printf("run: %s  variable: %s\n\n", meta.ID, name)
	fmt.Println(viz.PhaseDiagram(series, 40, 16, name))

	target := series[len(series)-1]
	fmt.Printf("\nhalf-life to final value: %d periods\n", analysis.HalfLife(series, target))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	result, err := storage.New(dataDir).LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(result.States) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(os.Stdout, result)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	result, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, result, m, err := loadRun(args[0])
	if err != nil {
		return err
	}

	name := variable
	if name == "" {
		name = config.DefaultVariableFor(meta.Model)
	}
	name = models.Canonical(name)
	series := result.Series(name)
	if series == nil {
		return dynamo.UnknownVariable(name)
	}

	var svg string
	if svgPhase {
		svg = export.PhaseToSVG(series, 60, 30, 6)
	} else {
		steady := math.NaN()
		if m != nil {
			if target, ok := steadyValue(m, name); ok {
				steady = target
			}
		}
		svg = export.SeriesToSVG(series, steady, 800, 400)
	}
	if svg == "" {
		return fmt.Errorf("no data to draw for %s", name)
	}

	if svgOutput == "" {
		_, err := fmt.Fprint(os.Stdout, svg)
		return err
	}
	if err := os.WriteFile(svgOutput, []byte(svg), 0o644); err != nil {
		return err
	}
	slog.Info("wrote svg", "file", svgOutput, "variable", name)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := experiment.NewRegistry().ListModels()
	if len(args) == 1 {
		names = args[0:1]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tPRESET\tPERIODS\tVARIABLE\tPARAMS")
	for _, model := range names {
		presets := config.ListPresets(model)
		if presets == nil {
			return fmt.Errorf("no presets for model %s", model)
		}
		for _, name := range presets {
			p := config.GetPreset(model, name)
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", model, name, p.Periods, p.Variable, formatParams(p.Params))
		}
	}
	return w.Flush()
}

func sweepModel(cmd *cobra.Command, args []string) error {
	sweep := &automation.ParameterSweep{}

	if sweepFile != "" {
		data, err := os.ReadFile(sweepFile)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(data, sweep); err != nil {
			return fmt.Errorf("sweep file: %w", err)
		}
	} else {
		if len(args) == 0 {
			return fmt.Errorf("sweep needs a model or --file")
		}
		cfg, err := resolveConfig(cmd, args[0])
		if err != nil {
			return err
		}
		sweep = &automation.ParameterSweep{
			Model:     args[0],
			Params:    cfg.Params,
			ParamName: sweepParam,
			ParamMin:  sweepMin,
			ParamMax:  sweepMax,
			NumSteps:  sweepSteps,
			Periods:   sweepN,
			Variable:  models.Canonical(sweepVar),
		}
	}

	points, err := automation.RunSweep(cmd.Context(), sweep, experiment.NewRegistry())
	if err != nil {
		return err
	}

	fmt.Println(viz.TitleStyle.Render(fmt.Sprintf("%s: sweeping %s over %d periods", sweep.Model, sweep.ParamName, sweep.Periods)))
	fmt.Print(analysis.SweepTable(sweep.ParamName, sweep.Variable, points))
	return nil
}

func monteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Model:     args[0],
		Params:    cfg.Params,
		ParamName: sweepParam,
		Base:      mcBase,
		Spread:    mcSpread,
		NumTrials: mcTrials,
		Periods:   mcN,
		Variable:  models.Canonical(mcVar),
		Tolerance: mcTol,
		Seed:      mcSeed,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	converged, unconverged := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d\n", len(results))
	fmt.Printf("converged within %g: %d\n", mcTol, converged)
	fmt.Printf("not converged: %d\n", unconverged)
	return nil
}

// parseGrid reads name=min:max:steps into a parameter name and its values.
func parseGrid(def string) (string, []float64, error) {
	name, rng, ok := strings.Cut(def, "=")
	parts := strings.Split(rng, ":")
	if !ok || name == "" || len(parts) != 3 {
		return "", nil, fmt.Errorf("invalid grid %q, want name=min:max:steps", def)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("grid %s: %w", name, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("grid %s: %w", name, err)
	}
	steps, err := strconv.Atoi(parts[2])
	if err != nil || steps < 1 {
		return "", nil, fmt.Errorf("grid %s: steps must be a positive integer", name)
	}
	return name, analysis.Linspace(lo, hi, steps), nil
}

func calibrate(cmd *cobra.Command, args []string) error {
	model := args[0]
	cfg, err := resolveConfig(cmd, model)
	if err != nil {
		return err
	}
	if len(calGrid) == 0 {
		return fmt.Errorf("calibrate needs at least one --grid")
	}

	names := make([]string, 0, len(calGrid))
	ranges := make([][]float64, 0, len(calGrid))
	for _, def := range calGrid {
		name, values, err := parseGrid(def)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	run := func(ctx context.Context, grid map[string]float64) (*dynamo.Result, error) {
		merged := make(map[string]float64, len(cfg.Params)+len(grid))
		for k, v := range cfg.Params {
			merged[k] = v
		}
		for k, v := range grid {
			merged[k] = v
		}
		return experiment.Run(ctx, registry, experiment.Config{Model: model, Periods: calPeriods, Reset: true, Params: merged})
	}

	slog.Info("calibrating", "model", model, "points", search.Size(), "metric", calMetric, "target", calTarget)
	best, err := search.Search(cmd.Context(), run, calMetric, calTarget)
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no grid point produced a finite %s", calMetric)
	}

	fmt.Printf("evaluated %d points\n", best.Evaluated)
	fmt.Printf("%s = %.6f (target %g, off by %.3g)\n\n", calMetric, best.Metric, calTarget, best.Distance)
	fmt.Println(viz.SteadyStateTable("BEST PARAMETERS", best.Params))
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Println(viz.TitleStyle.Render(sc.Name))
	if sc.Description != "" {
		fmt.Println(viz.Subtle.Render(sc.Description))
	}
	fmt.Println()

	results, err := automation.RunScenario(cmd.Context(), sc, experiment.NewRegistry(), st)
	for i, r := range results {
		name := r.Step.Variable
		if name == "" {
			name = config.DefaultVariableFor(r.Step.Model)
		}
		series := r.Result.Series(models.Canonical(name))
		final := "-"
		if len(series) > 0 {
			final = fmt.Sprintf("%.4f", series[len(series)-1])
		}
		fmt.Printf("step %d  %-8s %-12s %s = %s", i+1, r.Step.Model, r.Step.Preset, name, final)
		if r.RunID != "" {
			fmt.Printf("  saved %s", r.RunID)
		}
		fmt.Println()
	}
	return err
}

func runLive(cmd *cobra.Command, args []string) error {
	model := args[0]
	cfg, err := resolveConfig(cmd, model)
	if err != nil {
		return err
	}

	m, err := experiment.NewRegistry().GetModel(model, cfg.Params)
	if err != nil {
		return err
	}
	return viz.RunLive(m, model)
}
