package predict

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrUnknownProduct   = errors.New("product not present in training data")
	ErrUnknownEquipment = errors.New("equipment not present in training data")
)

// WorkTimeForecast is the predicted duration for one unit of work.
type WorkTimeForecast struct {
	ProductID    string  `json:"product_id"`
	OperationSeq int     `json:"operation_seq"`
	EquipmentID  string  `json:"equipment_id"`
	PlannedQty   int     `json:"planned_qty"`
	PredictedSec float64 `json:"predicted_sec"`
	PredictedMin float64 `json:"predicted_min"`
	MAE          float64 `json:"mae"`
	RMSE         float64 `json:"rmse"`
	R2           float64 `json:"r2"`
}

// WorkTimeModel predicts work duration from product, operation, equipment
// and quantity. Categorical inputs are label-encoded against the class
// lists captured at training time.
type WorkTimeModel struct {
	art *Artifact
}

func LoadWorkTimeModel(dir string) (*WorkTimeModel, error) {
	art, err := loadArtifact(dir, "work_time.json")
	if err != nil {
		return nil, err
	}
	if len(art.ProductClasses) == 0 {
		return nil, fmt.Errorf("model %s: missing product classes", art.Name)
	}
	return &WorkTimeModel{art: art}, nil
}

// Info reports the model's training metadata.
func (m *WorkTimeModel) Info() ModelInfo { return m.art.info() }

// Forecast predicts the duration of one work result. Products or
// equipment the model has never seen cannot be encoded and are rejected.
func (m *WorkTimeModel) Forecast(productID string, operationSeq int, equipmentID string, plannedQty int, at time.Time) (*WorkTimeForecast, error) {
	prodIdx, ok := classIndex(m.art.ProductClasses, productID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}
	equipIdx, ok := classIndex(m.art.EquipmentClasses, equipmentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEquipment, equipmentID)
	}

	features := []float64{
		float64(prodIdx),
		float64(operationSeq),
		float64(equipIdx),
		float64(plannedQty),
		float64(at.Hour()),
		float64(mondayWeekday(at)),
	}
	sec, err := m.art.eval(features)
	if err != nil {
		return nil, err
	}
	if sec < 0 {
		sec = 0
	}
	return &WorkTimeForecast{
		ProductID:    productID,
		OperationSeq: operationSeq,
		EquipmentID:  equipmentID,
		PlannedQty:   plannedQty,
		PredictedSec: math.Round(sec*100) / 100,
		PredictedMin: math.Round(sec/60*100) / 100,
		MAE:          m.art.MAE,
		RMSE:         m.art.RMSE,
		R2:           m.art.R2,
	}, nil
}
