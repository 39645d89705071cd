package predict

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// stubHistory serves fixed completed quantities keyed by date.
type stubHistory struct {
	qty map[string]float64
}

func (s *stubHistory) CompletedQtyByDay(day time.Time) (float64, error) {
	if q, ok := s.qty[day.Format("2006-01-02")]; ok {
		return q, nil
	}
	return 0, nil
}

func writeModels(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	qty := Artifact{
		Name:         "production_qty",
		Features:     []string{"month", "day", "weekday", "week_of_year", "lag_1", "lag_6", "lag_12", "rolling_mean_6", "rolling_mean_24", "trend_6"},
		Coefficients: []float64{0, 0, 0, 0, 1, 0, 0, 0, 0, 0}, // predict = lag_1
		Intercept:    0,
		MAE:          5, RMSE: 7, R2: 0.9,
	}
	wt := Artifact{
		Name:             "work_time",
		Features:         []string{"product_idx", "operation_seq", "equipment_idx", "planned_qty", "hour", "weekday"},
		Coefficients:     []float64{0, 100, 0, 10, 0, 0}, // seq*100 + qty*10
		Intercept:        50,
		MAE:              20, RMSE: 30, R2: 0.8,
		ProductClasses:   []string{"PRES-200", "TEMP-100"},
		EquipmentClasses: []string{"STN-A", "STN-B"},
	}
	for name, art := range map[string]Artifact{"production_qty.json": qty, "work_time.json": wt} {
		data, _ := json.Marshal(art)
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestLoadMissingArtifact(t *testing.T) {
	if _, err := LoadWorkTimeModel(t.TempDir()); err == nil {
		t.Error("loading from an empty dir should fail")
	}
}

func TestLoadCoefficientMismatch(t *testing.T) {
	dir := t.TempDir()
	bad := Artifact{Name: "production_qty", Features: []string{"a", "b"}, Coefficients: []float64{1}}
	data, _ := json.Marshal(bad)
	os.WriteFile(filepath.Join(dir, "production_qty.json"), data, 0o644)

	if _, err := LoadQuantityModel(dir, &stubHistory{}); err == nil {
		t.Error("coefficient/feature mismatch should fail to load")
	}
}

func TestQuantityForecastSundayRejected(t *testing.T) {
	dir := writeModels(t)
	m, err := LoadQuantityModel(dir, &stubHistory{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	sunday := time.Date(2026, 8, 30, 0, 0, 0, 0, time.Local)
	if sunday.Weekday() != time.Sunday {
		t.Fatal("test date is not a Sunday")
	}
	_, err = m.Forecast(sunday)
	if !errors.Is(err, ErrSunday) {
		t.Errorf("err = %v, want ErrSunday", err)
	}
}

func TestQuantityForecastInsufficientHistory(t *testing.T) {
	dir := writeModels(t)
	// Five production days is one short of the minimum.
	hist := &stubHistory{qty: map[string]float64{
		"2026-08-24": 10, "2026-08-22": 10, "2026-08-21": 10,
		"2026-08-20": 10, "2026-08-19": 10,
	}}
	m, _ := LoadQuantityModel(dir, hist)

	target := time.Date(2026, 8, 25, 0, 0, 0, 0, time.Local) // Tuesday
	_, err := m.Forecast(target)
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("err = %v, want ErrInsufficientHistory", err)
	}
}

func TestQuantityForecastHistorySourceError(t *testing.T) {
	dir := writeModels(t)
	m, _ := LoadQuantityModel(dir, failingHistory{})

	target := time.Date(2026, 8, 25, 0, 0, 0, 0, time.Local)
	if _, err := m.Forecast(target); err == nil {
		t.Error("expected error from failing history source")
	}
}

type failingHistory struct{}

func (failingHistory) CompletedQtyByDay(time.Time) (float64, error) {
	return 0, errors.New("history unavailable")
}

func TestQuantityForecastUsesLagFeatures(t *testing.T) {
	dir := writeModels(t)

	// Six production days ending Monday 2026-08-24, Sunday 08-23 skipped.
	hist := &stubHistory{qty: map[string]float64{
		"2026-08-24": 120, "2026-08-22": 100, "2026-08-21": 90,
		"2026-08-20": 110, "2026-08-19": 95, "2026-08-18": 105,
	}}
	m, _ := LoadQuantityModel(dir, hist)

	target := time.Date(2026, 8, 25, 0, 0, 0, 0, time.Local) // Tuesday
	forecast, err := m.Forecast(target)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	// Model is identity on lag_1.
	if forecast.PredictedQty != 120 {
		t.Errorf("PredictedQty = %v, want 120", forecast.PredictedQty)
	}
	if forecast.Lag1 != 120 {
		t.Errorf("Lag1 = %v, want 120", forecast.Lag1)
	}
	if forecast.HistoryDays != 6 {
		t.Errorf("HistoryDays = %d, want 6", forecast.HistoryDays)
	}
	if forecast.MAE != 5 || forecast.R2 != 0.9 {
		t.Errorf("metadata = MAE %v R2 %v", forecast.MAE, forecast.R2)
	}
	if forecast.TargetDate != "2026-08-25" {
		t.Errorf("TargetDate = %q", forecast.TargetDate)
	}
}

func TestQuantityForecastNegativeClamped(t *testing.T) {
	dir := t.TempDir()
	art := Artifact{
		Name:         "production_qty",
		Features:     []string{"month", "day", "weekday", "week_of_year", "lag_1", "lag_6", "lag_12", "rolling_mean_6", "rolling_mean_24", "trend_6"},
		Coefficients: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		Intercept:    -40,
	}
	data, _ := json.Marshal(art)
	os.WriteFile(filepath.Join(dir, "production_qty.json"), data, 0o644)

	hist := &stubHistory{qty: map[string]float64{
		"2026-08-24": 10, "2026-08-22": 10, "2026-08-21": 10,
		"2026-08-20": 10, "2026-08-19": 10, "2026-08-18": 10,
	}}
	m, _ := LoadQuantityModel(dir, hist)
	forecast, err := m.Forecast(time.Date(2026, 8, 25, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if forecast.PredictedQty != 0 {
		t.Errorf("PredictedQty = %v, want clamped 0", forecast.PredictedQty)
	}
}

func TestWorkTimeForecast(t *testing.T) {
	dir := writeModels(t)
	m, err := LoadWorkTimeModel(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	at := time.Date(2026, 8, 24, 10, 0, 0, 0, time.Local)
	forecast, err := m.Forecast("TEMP-100", 2, "STN-A", 10, at)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	// seq*100 + qty*10 + intercept = 200 + 100 + 50
	if forecast.PredictedSec != 350 {
		t.Errorf("PredictedSec = %v, want 350", forecast.PredictedSec)
	}
	if forecast.PredictedMin != 5.83 {
		t.Errorf("PredictedMin = %v, want 5.83", forecast.PredictedMin)
	}
}

func TestWorkTimeUnknownClasses(t *testing.T) {
	dir := writeModels(t)
	m, _ := LoadWorkTimeModel(dir)
	at := time.Now()

	if _, err := m.Forecast("NOPE-1", 2, "STN-A", 10, at); !errors.Is(err, ErrUnknownProduct) {
		t.Errorf("err = %v, want ErrUnknownProduct", err)
	}
	if _, err := m.Forecast("TEMP-100", 2, "STN-X", 10, at); !errors.Is(err, ErrUnknownEquipment) {
		t.Errorf("err = %v, want ErrUnknownEquipment", err)
	}
}
