package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/growthlab/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes a saved run. NaN and ±Inf metrics have no JSON number
// form and are kept as strings in NonFinite.
type RunMetadata struct {
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Timestamp time.Time          `json:"timestamp"`
	Periods   int                `json:"periods"`
	Reset     bool               `json:"reset"`
	Params    map[string]float64 `json:"params,omitempty"`
	Variables []string           `json:"variables"`
	Metrics   map[string]float64 `json:"metrics"`
	NonFinite map[string]string  `json:"non_finite_metrics,omitempty"`
}

// AllMetrics merges the finite and non-finite metrics back into one map.
func (m *RunMetadata) AllMetrics() map[string]float64 {
	out := make(map[string]float64, len(m.Metrics)+len(m.NonFinite))
	for k, v := range m.Metrics {
		out[k] = v
	}
	for k, v := range m.NonFinite {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			out[k] = f
		}
	}
	return out
}

// splitFinite separates values JSON can encode from NaN and ±Inf.
func splitFinite(values map[string]float64) (map[string]float64, map[string]string) {
	finite := make(map[string]float64, len(values))
	var rest map[string]string
	for k, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if rest == nil {
				rest = make(map[string]string)
			}
			rest[k] = strconv.FormatFloat(v, 'g', -1, 64)
			continue
		}
		finite[k] = v
	}
	return finite, rest
}

// Save writes a run as <base>/<id>/metadata.json and series.csv. The CSV header is
// "period" followed by the model's variable names. A failed save leaves no run
// directory behind.
func (s *Store) Save(model string, periods int, reset bool, params map[string]float64, result *dynamo.Result) (runID string, err error) {
	now := time.Now()
	runID = fmt.Sprintf("%s_%d", model, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
			runID = ""
		}
	}()

	metrics, nonFinite := splitFinite(result.Metrics)
	meta := RunMetadata{
		ID:        runID,
		Model:     model,
		Timestamp: now,
		Periods:   periods,
		Reset:     reset,
		Params:    params,
		Variables: result.Variables,
		Metrics:   metrics,
		NonFinite: nonFinite,
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("run %s metadata: %w", runID, err)
	}
	if err := os.WriteFile(filepath.Join(runDir, metadataFile), append(data, '\n'), 0644); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, seriesFile))
	if err != nil {
		return "", err
	}
	if err := WriteCSV(csvFile, result); err != nil {
		csvFile.Close()
		return "", err
	}
	if err := csvFile.Close(); err != nil {
		return "", err
	}

	slog.Debug("run saved", "id", runID, "dir", runDir, "periods", len(result.States))
	return runID, nil
}

// WriteCSV writes the recorded states of result with a period column.
func WriteCSV(out io.Writer, result *dynamo.Result) error {
	w := csv.NewWriter(out)

	header := append([]string{"period"}, result.Variables...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, state := range result.States {
		period := i
		if i < len(result.Periods) {
			period = result.Periods[i]
		}
		row := []string{strconv.Itoa(period)}
		for _, val := range state {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns the saved runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSeries rebuilds the recorded result of a run from its CSV and metadata.
func (s *Store) LoadSeries(runID string) (*dynamo.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	result, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	result.Metrics = meta.AllMetrics()
	return result, nil
}

// ReadCSV parses the format written by WriteCSV.
func ReadCSV(in io.Reader) (*dynamo.Result, error) {
	r := csv.NewReader(in)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	result := &dynamo.Result{}
	if len(records) == 0 {
		return result, nil
	}
	result.Variables = append([]string(nil), records[0][1:]...)

	for line, record := range records[1:] {
		period, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+2, err)
		}

		state := make(dynamo.State, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line+2, err)
			}
			state = append(state, val)
		}

		result.Periods = append(result.Periods, period)
		result.States = append(result.States, state)
	}
	result.StepsTaken = len(result.States)

	return result, nil
}
