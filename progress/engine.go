// Package progress advances work orders through the production pipeline,
// recording one work result per advancement call.
package progress

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mescore/store"
)

// ErrOrderNotFound is returned when the referenced work order does not exist.
var ErrOrderNotFound = errors.New("work order not found")

// statusForOperation maps an operation sequence to the target order status.
// Sequences outside the map leave the status unchanged.
var statusForOperation = map[int]string{
	1: store.StatusReady,
	2: store.StatusAssembly,
	3: store.StatusInspection,
	4: store.StatusPack,
	5: store.StatusDone,
}

// finalOperationSeq is the stage that stamps the order's end timestamp.
const finalOperationSeq = 5

// Event describes one committed advancement, for outbox/SSE fan-out.
type Event struct {
	OrderID      string    `json:"order_id"`
	OperationSeq int       `json:"operation_seq"`
	EquipmentID  string    `json:"equipment_id,omitempty"`
	Status       string    `json:"status"`
	At           time.Time `json:"at"`
}

type NotifyFunc func(Event)

type Engine struct {
	db     *store.DB
	notify NotifyFunc
	now    func() time.Time
}

func New(db *store.DB) *Engine {
	return &Engine{db: db, now: time.Now}
}

// SetNotify registers a callback invoked after each committed advancement.
func (e *Engine) SetNotify(fn NotifyFunc) { e.notify = fn }

// StatusForOperation exposes the static sequence-to-status mapping.
// Returns "" for unmapped sequences.
func StatusForOperation(seq int) string { return statusForOperation[seq] }

// Advance appends a work result for (order, operation, equipment) and
// transitions the order's status in a single transaction.
//
// The transition function is deliberately unchecked: any sequence may be
// applied to any order in any state, replays included. Sequence 5 stamps
// the order's end timestamp unconditionally; the first advancement of any
// kind stamps its start timestamp.
func (e *Engine) Advance(orderID string, operationSeq int, equipmentID string) error {
	order, err := e.db.GetWorkOrder(orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("load order: %w", err)
	}

	now := e.now()
	nowStr := store.FmtTime(now)

	tx, err := e.db.Begin()
	if err != nil {
		return fmt.Errorf("begin advance: %w", err)
	}
	defer tx.Rollback()

	// Elapsed time is not tracked by this path: start = end = now.
	var equip any
	if equipmentID != "" {
		equip = equipmentID
	}
	_, err = tx.Exec(e.db.Q(`INSERT INTO work_results (id, order_id, operation_seq, equipment_id, start_ts, end_ts) VALUES (?, ?, ?, ?, ?, ?)`),
		uuid.NewString(), orderID, operationSeq, equip, nowStr, nowStr)
	if err != nil {
		return fmt.Errorf("append work result: %w", err)
	}

	status := statusForOperation[operationSeq]
	if status != "" {
		if _, err := tx.Exec(e.db.Q(`UPDATE work_orders SET status=? WHERE id=?`), status, orderID); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
	} else {
		status = order.Status
	}

	// First-touch start timestamp, regardless of which operation triggered it.
	if _, err := tx.Exec(e.db.Q(`UPDATE work_orders SET start_ts=? WHERE id=? AND start_ts IS NULL`), nowStr, orderID); err != nil {
		return fmt.Errorf("stamp start: %w", err)
	}

	if operationSeq == finalOperationSeq {
		if _, err := tx.Exec(e.db.Q(`UPDATE work_orders SET end_ts=? WHERE id=?`), nowStr, orderID); err != nil {
			return fmt.Errorf("stamp end: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit advance: %w", err)
	}

	if e.notify != nil {
		e.notify(Event{
			OrderID:      orderID,
			OperationSeq: operationSeq,
			EquipmentID:  equipmentID,
			Status:       status,
			At:           now,
		})
	}
	return nil
}
