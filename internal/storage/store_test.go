package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/growthlab/internal/dynamo"
)

func sampleResult() *dynamo.Result {
	return &dynamo.Result{
		Variables: []string{"kappa", "y"},
		States: []dynamo.State{
			{1.0, 0.5},
			{1.1, 0.5244044240850758},
		},
		Periods:    []int{0, 1},
		StepsTaken: 2,
		Metrics: map[string]float64{
			"gap_kappa": 2.9,
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("solow", 2, true, map[string]float64{"s": 0.2}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(runID, "solow_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Model != "solow" {
		t.Errorf("expected model 'solow', got '%s'", meta.Model)
	}
	if meta.Periods != 2 || !meta.Reset {
		t.Errorf("unexpected run settings %+v", meta)
	}
	if meta.Params["s"] != 0.2 {
		t.Errorf("expected s 0.2, got %f", meta.Params["s"])
	}
	if meta.Metrics["gap_kappa"] != 2.9 {
		t.Errorf("expected gap 2.9, got %f", meta.Metrics["gap_kappa"])
	}

	result, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}

	if len(result.States) != 2 {
		t.Errorf("expected 2 states, got %d", len(result.States))
	}
	if y := result.Series("y"); y[1] != 0.5244044240850758 {
		t.Errorf("series lost precision: %v", y)
	}
	if result.Periods[1] != 1 {
		t.Errorf("expected period 1, got %d", result.Periods[1])
	}
	if result.Metrics["gap_kappa"] != 2.9 {
		t.Error("metrics should come back from metadata")
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	for _, model := range []string{"solow", "malthus"} {
		if _, err := st.Save(model, 2, true, nil, sampleResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Model != "solow" || runs[1].Model != "malthus" {
		t.Errorf("expected runs oldest first, got %s, %s", runs[0].Model, runs[1].Model)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("solow", 2, true, nil, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	data, err := os.ReadFile(filepath.Join(runDir, "series.csv"))
	if err != nil {
		t.Fatalf("series.csv not created: %v", err)
	}
	if header := strings.SplitN(string(data), "\n", 2)[0]; header != "period,kappa,y" {
		t.Errorf("unexpected header %q", header)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, err := st.LoadSeries("nope"); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestCSVNonFinite(t *testing.T) {
	result := &dynamo.Result{
		Variables: []string{"x"},
		States:    []dynamo.State{{math.Inf(1)}, {math.NaN()}},
		Periods:   []int{0, 1},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, result); err != nil {
		t.Fatal(err)
	}
	back, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(back.States[0][0], 1) || !math.IsNaN(back.States[1][0]) {
		t.Errorf("non-finite values not preserved: %v", back.States)
	}
}

func TestReadCSVBadField(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("period,x\n0,abc\n")); err == nil {
		t.Error("expected parse error")
	}
}

func TestExportJSON(t *testing.T) {
	meta := &RunMetadata{ID: "solow_1", Model: "solow", Params: map[string]float64{"s": 0.2}}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, sampleResult()); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Model != "solow" || data.ID != "solow_1" {
		t.Errorf("unexpected header %+v", data)
	}
	if kappa := data.Series["kappa"]; len(kappa) != 2 || kappa[1] != 1.1 {
		t.Errorf("unexpected kappa series %v", kappa)
	}
	if data.Metrics["gap_kappa"] != 2.9 {
		t.Errorf("metrics missing: %v", data.Metrics)
	}
}

func TestStoreSaveNonFiniteMetrics(t *testing.T) {
	st := New(t.TempDir())
	result := sampleResult()
	result.Metrics = map[string]float64{"gap_y": math.NaN(), "gap_kappa": math.Inf(1), "stability": 1}

	id, err := st.Save("malthus", 2, true, nil, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(id)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Metrics["stability"] != 1 || len(meta.Metrics) != 1 {
		t.Errorf("expected only the finite metric in Metrics, got %v", meta.Metrics)
	}
	if meta.NonFinite["gap_y"] != "NaN" || meta.NonFinite["gap_kappa"] != "+Inf" {
		t.Errorf("unexpected non-finite metrics %v", meta.NonFinite)
	}

	loaded, err := st.LoadSeries(id)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(loaded.Metrics["gap_y"]) || !math.IsInf(loaded.Metrics["gap_kappa"], 1) {
		t.Errorf("non-finite metrics not restored: %v", loaded.Metrics)
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, loaded); err != nil {
		t.Errorf("export of a run with non-finite metrics failed: %v", err)
	}
}

func TestStoreSaveFailureLeavesNoRun(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	_, err := st.Save("solow", 2, true, map[string]float64{"s": math.NaN()}, sampleResult())
	if err == nil {
		t.Fatal("expected a NaN parameter to fail the save")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed save left %d entries behind", len(entries))
	}
}
