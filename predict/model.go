// Package predict serves the trained regression models for next-day
// production quantity and per-result work time. Model artifacts are
// exported by the offline training job as JSON files in the model
// directory.
package predict

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact is a trained linear model plus its evaluation metadata.
type Artifact struct {
	Name         string    `json:"name"`
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	MAE          float64   `json:"mae"`
	RMSE         float64   `json:"rmse"`
	R2           float64   `json:"r2"`

	// Label-encoder class lists, present only on the work-time model.
	ProductClasses   []string `json:"product_classes,omitempty"`
	EquipmentClasses []string `json:"equipment_classes,omitempty"`
}

func loadArtifact(dir, file string) (*Artifact, error) {
	path := filepath.Join(dir, file)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}
	if len(a.Coefficients) != len(a.Features) {
		return nil, fmt.Errorf("model %s: %d coefficients for %d features", path, len(a.Coefficients), len(a.Features))
	}
	return &a, nil
}

// eval applies the linear model to one feature vector.
func (a *Artifact) eval(features []float64) (float64, error) {
	if len(features) != len(a.Coefficients) {
		return 0, fmt.Errorf("model %s: got %d features, want %d", a.Name, len(features), len(a.Coefficients))
	}
	y := a.Intercept
	for i, f := range features {
		y += a.Coefficients[i] * f
	}
	return y, nil
}

// ModelInfo is the training metadata a loaded model exposes.
type ModelInfo struct {
	Name     string   `json:"name"`
	Features []string `json:"features"`
	MAE      float64  `json:"mae"`
	RMSE     float64  `json:"rmse"`
	R2       float64  `json:"r2"`
}

func (a *Artifact) info() ModelInfo {
	return ModelInfo{
		Name:     a.Name,
		Features: a.Features,
		MAE:      a.MAE,
		RMSE:     a.RMSE,
		R2:       a.R2,
	}
}

// Models bundles the two trained predictors for wiring into the web layer.
type Models struct {
	Quantity *QuantityModel
	WorkTime *WorkTimeModel
}

// Load reads both model artifacts from dir. Either failing is fatal for
// the caller: a half-loaded predictor is worse than none.
func Load(dir string, hist HistorySource) (*Models, error) {
	qty, err := LoadQuantityModel(dir, hist)
	if err != nil {
		return nil, err
	}
	wt, err := LoadWorkTimeModel(dir)
	if err != nil {
		return nil, err
	}
	return &Models{Quantity: qty, WorkTime: wt}, nil
}

// classIndex resolves a label-encoded categorical value.
func classIndex(classes []string, value string) (int, bool) {
	for i, c := range classes {
		if c == value {
			return i, true
		}
	}
	return 0, false
}
