package messaging

import (
	"encoding/json"
	"log"
	"time"

	"mescore/config"
	"mescore/progress"
	"mescore/store"
)

// ProductionEvent is the payload published when an order advances through
// an operation stage. Downstream consumers (andon boards, ERP sync) key
// on msg_type "work.result.recorded".
type ProductionEvent struct {
	PlantID      string    `json:"plant_id"`
	OrderID      string    `json:"order_id"`
	OperationSeq int       `json:"operation_seq"`
	EquipmentID  string    `json:"equipment_id,omitempty"`
	Status       string    `json:"status"`
	RecordedAt   time.Time `json:"recorded_at"`
}

const msgTypeWorkResult = "work.result.recorded"

// EnqueueAdvance returns a progress notify hook that records each advance
// in the outbox. Publishing happens later in the drain loop, so a broker
// outage never blocks or fails the advance itself.
func EnqueueAdvance(db *store.DB, cfg *config.MessagingConfig) progress.NotifyFunc {
	return func(ev progress.Event) {
		payload, err := json.Marshal(ProductionEvent{
			PlantID:      cfg.PlantID,
			OrderID:      ev.OrderID,
			OperationSeq: ev.OperationSeq,
			EquipmentID:  ev.EquipmentID,
			Status:       ev.Status,
			RecordedAt:   ev.At,
		})
		if err != nil {
			log.Printf("messaging: marshal production event: %v", err)
			return
		}
		if err := db.EnqueueOutbox(cfg.EventsTopic, payload, msgTypeWorkResult, cfg.PlantID); err != nil {
			log.Printf("messaging: enqueue production event for %s: %v", ev.OrderID, err)
		}
	}
}
