package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/growthlab/internal/dynamo"
)

type ExportData struct {
	ID        string               `json:"id,omitempty"`
	Model     string               `json:"model"`
	Periods   []int                `json:"periods"`
	Params    map[string]float64   `json:"params,omitempty"`
	Variables []string             `json:"variables"`
	Series    map[string][]float64 `json:"series"`
	Metrics   map[string]float64   `json:"metrics"`
	NonFinite map[string]string    `json:"non_finite_metrics,omitempty"`
}

// NewExportData lays a run out column-wise, one series per variable.
func NewExportData(meta *RunMetadata, result *dynamo.Result) ExportData {
	data := ExportData{
		ID:        meta.ID,
		Model:     meta.Model,
		Periods:   result.Periods,
		Params:    meta.Params,
		Variables: result.Variables,
		Series:    make(map[string][]float64, len(result.Variables)),
	}
	data.Metrics, data.NonFinite = splitFinite(result.Metrics)
	for _, name := range result.Variables {
		data.Series[name] = result.Series(name)
	}
	return data
}

func ExportJSON(w io.Writer, meta *RunMetadata, result *dynamo.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, result))
}
