package messaging

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"mescore/config"
	"mescore/progress"
	"mescore/store"
)

func TestEnqueueAdvance(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := store.Open(&config.DatabaseConfig{
		Driver: "sqlite",
		SQLite: config.SQLiteConfig{Path: dbPath},
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.MessagingConfig{
		EventsTopic: "mes.production.events",
		PlantID:     "plant-1",
	}
	notify := EnqueueAdvance(db, cfg)

	notify(progress.Event{
		OrderID:      "order-1",
		OperationSeq: 3,
		EquipmentID:  "STN-INS-1",
		Status:       store.StatusInspection,
		At:           time.Date(2026, 8, 24, 10, 0, 0, 0, time.Local),
	})

	msgs, err := db.ListPendingOutbox(10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("pending = %d, want 1", len(msgs))
	}
	if msgs[0].Topic != "mes.production.events" {
		t.Errorf("topic = %q", msgs[0].Topic)
	}
	if msgs[0].MsgType != "work.result.recorded" {
		t.Errorf("msg type = %q", msgs[0].MsgType)
	}

	var ev ProductionEvent
	if err := json.Unmarshal(msgs[0].Payload, &ev); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if ev.OrderID != "order-1" || ev.OperationSeq != 3 || ev.PlantID != "plant-1" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Status != store.StatusInspection {
		t.Errorf("status = %q", ev.Status)
	}
}
