package predict

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// minHistoryDays is the minimum number of business days of completed
// production required to build the lag features.
const minHistoryDays = 6

// historyScanLimit bounds how far back the history walk goes when the
// calendar is sparse.
const historyScanLimit = 60

var (
	ErrSunday              = errors.New("no production is scheduled on Sundays")
	ErrInsufficientHistory = errors.New("insufficient production history")
)

// HistorySource supplies completed production quantity for a single day.
// Backed by the work-order store in production, stubbed in tests.
type HistorySource interface {
	CompletedQtyByDay(day time.Time) (float64, error)
}

// QuantityForecast is the next-day production quantity prediction with
// the model metadata the dashboard and API surface alongside it.
type QuantityForecast struct {
	TargetDate   string  `json:"target_date"`
	PredictedQty float64 `json:"predicted_qty"`
	MAE          float64 `json:"mae"`
	RMSE         float64 `json:"rmse"`
	R2           float64 `json:"r2"`
	Lag1         float64 `json:"lag_1"`
	Roll6        float64 `json:"rolling_mean_6"`
	HistoryDays  int     `json:"history_days"`
}

// QuantityModel predicts next-day production quantity from calendar and
// lag features over the recent business-day history.
type QuantityModel struct {
	art  *Artifact
	hist HistorySource
}

func LoadQuantityModel(dir string, hist HistorySource) (*QuantityModel, error) {
	art, err := loadArtifact(dir, "production_qty.json")
	if err != nil {
		return nil, err
	}
	return &QuantityModel{art: art, hist: hist}, nil
}

// Info reports the model's training metadata.
func (m *QuantityModel) Info() ModelInfo { return m.art.info() }

// Forecast predicts completed quantity for target. Sundays are rejected:
// the plant does not run and the model was never trained on them.
func (m *QuantityModel) Forecast(target time.Time) (*QuantityForecast, error) {
	if target.Weekday() == time.Sunday {
		return nil, fmt.Errorf("%w: %s", ErrSunday, target.Format("2006-01-02"))
	}

	history, err := m.businessDayHistory(target)
	if err != nil {
		return nil, err
	}
	if len(history) < minHistoryDays {
		return nil, fmt.Errorf("%w: have %d business days, need %d", ErrInsufficientHistory, len(history), minHistoryDays)
	}

	lag1 := history[0]
	lag6 := history[5]
	lag12 := lag6
	if len(history) > 11 {
		lag12 = history[11]
	}
	roll6 := mean(history[:6])
	roll24 := mean(history)
	if len(history) >= 24 {
		roll24 = mean(history[:24])
	}
	// Lag-zero leaves the trend undefined; feed the neutral value instead
	// of failing the whole forecast.
	trend6 := 0.0
	if lag6 != 0 {
		trend6 = (lag1 - lag6) / lag6
	}

	features := []float64{
		float64(target.Month()),
		float64(target.Day()),
		float64(mondayWeekday(target)),
		float64(isoWeek(target)),
		lag1,
		lag6,
		lag12,
		roll6,
		roll24,
		trend6,
	}
	qty, err := m.art.eval(features)
	if err != nil {
		return nil, err
	}
	if qty < 0 {
		qty = 0
	}
	return &QuantityForecast{
		TargetDate:   target.Format("2006-01-02"),
		PredictedQty: math.Round(qty*100) / 100,
		MAE:          m.art.MAE,
		RMSE:         m.art.RMSE,
		R2:           m.art.R2,
		Lag1:         lag1,
		Roll6:        roll6,
		HistoryDays:  len(history),
	}, nil
}

// businessDayHistory collects completed quantity for the business days
// preceding target, most recent first, up to 24 entries. Sundays and days
// without completions are skipped rather than counted as zero-production
// days; the series is over days the plant actually produced.
func (m *QuantityModel) businessDayHistory(target time.Time) ([]float64, error) {
	history := make([]float64, 0, 24)
	day := target
	for i := 0; i < historyScanLimit && len(history) < 24; i++ {
		day = day.AddDate(0, 0, -1)
		if day.Weekday() == time.Sunday {
			continue
		}
		qty, err := m.hist.CompletedQtyByDay(day)
		if err != nil {
			return nil, fmt.Errorf("load history for %s: %w", day.Format("2006-01-02"), err)
		}
		if qty > 0 {
			history = append(history, qty)
		}
	}
	return history, nil
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// mondayWeekday maps weekdays onto the 0=Monday .. 6=Sunday convention
// the model was trained with.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func isoWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}
