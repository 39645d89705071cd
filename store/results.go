package store

import (
	"database/sql"
	"time"
)

// WorkResult is one recorded execution of an operation stage against a work
// order. Rows are append-only.
type WorkResult struct {
	ID           string    `json:"id"`
	OrderID      string    `json:"order_id"`
	OperationSeq int       `json:"operation_seq"`
	EquipmentID  *string   `json:"equipment_id,omitempty"`
	StartTs      time.Time `json:"start_ts"`
	EndTs        time.Time `json:"end_ts"`
}

// ResultDetail is a work result joined with order, operation and equipment
// context for the ledger listing and the dashboard.
type ResultDetail struct {
	WorkResult
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	PlannedQty    int    `json:"planned_qty"`
	OperationName string `json:"operation_name"`
	EquipmentName string `json:"equipment_name"`
}

// ListWorkResults returns the full result ledger with joined names, newest first.
func (db *DB) ListWorkResults() ([]*ResultDetail, error) {
	rows, err := db.Query(`SELECT r.id, r.order_id, r.operation_seq, r.equipment_id, r.start_ts, r.end_ts,
			o.product_id, p.name, o.planned_qty, op.name, COALESCE(e.name, '')
		FROM work_results r
		JOIN work_orders o ON r.order_id = o.id
		JOIN master_products p ON o.product_id = p.id
		JOIN master_operations op ON r.operation_seq = op.seq
		LEFT JOIN master_equipment e ON r.equipment_id = e.id
		ORDER BY r.start_ts DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []*ResultDetail
	for rows.Next() {
		var d ResultDetail
		var equipmentID sql.NullString
		var startTs, endTs any
		if err := rows.Scan(&d.ID, &d.OrderID, &d.OperationSeq, &equipmentID, &startTs, &endTs,
			&d.ProductID, &d.ProductName, &d.PlannedQty, &d.OperationName, &d.EquipmentName); err != nil {
			return nil, err
		}
		d.EquipmentID = nullStrPtr(equipmentID)
		d.StartTs = parseTime(startTs)
		d.EndTs = parseTime(endTs)
		results = append(results, &d)
	}
	return results, rows.Err()
}

// ListOrderResults returns the results recorded against one order, oldest first.
func (db *DB) ListOrderResults(orderID string) ([]*WorkResult, error) {
	rows, err := db.Query(db.Q(`SELECT id, order_id, operation_seq, equipment_id, start_ts, end_ts FROM work_results WHERE order_id=? ORDER BY start_ts ASC, id ASC`), orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []*WorkResult
	for rows.Next() {
		var r WorkResult
		var equipmentID sql.NullString
		var startTs, endTs any
		if err := rows.Scan(&r.ID, &r.OrderID, &r.OperationSeq, &equipmentID, &startTs, &endTs); err != nil {
			return nil, err
		}
		r.EquipmentID = nullStrPtr(equipmentID)
		r.StartTs = parseTime(startTs)
		r.EndTs = parseTime(endTs)
		results = append(results, &r)
	}
	return results, rows.Err()
}

func (db *DB) CountWorkResults() (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM work_results`).Scan(&count)
	return count, err
}
