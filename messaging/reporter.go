package messaging

import (
	"encoding/json"
	"log"

	"mescore/config"
	"mescore/progress"
)

// StationReport is the payload a shop-floor station publishes when it
// finishes a stage of an order.
type StationReport struct {
	PlantID      string `json:"plant_id"`
	OrderID      string `json:"order_id"`
	OperationSeq int    `json:"operation_seq"`
	EquipmentID  string `json:"equipment_id"`
}

// StationListener subscribes to station reports and advances order
// progress, giving connected equipment the same path through the system
// as the web UI.
type StationListener struct {
	client *Client
	cfg    *config.MessagingConfig
	engine *progress.Engine
}

// NewStationListener creates a new station report listener.
func NewStationListener(client *Client, cfg *config.MessagingConfig, engine *progress.Engine) *StationListener {
	return &StationListener{
		client: client,
		cfg:    cfg,
		engine: engine,
	}
}

// Start subscribes to the reports topic and begins processing.
func (l *StationListener) Start() error {
	return l.client.Subscribe(l.cfg.ReportsTopic, l.handleMessage)
}

func (l *StationListener) handleMessage(payload []byte) {
	var report StationReport
	if err := json.Unmarshal(payload, &report); err != nil {
		log.Printf("unmarshal station report: %v", err)
		return
	}

	// Filter: only process reports for our plant
	if report.PlantID != "" && report.PlantID != l.cfg.PlantID {
		return
	}

	if err := l.engine.Advance(report.OrderID, report.OperationSeq, report.EquipmentID); err != nil {
		log.Printf("advance order %s from station report: %v", report.OrderID, err)
	}
}
