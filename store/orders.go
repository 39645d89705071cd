package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Work order status codes, in pipeline order.
const (
	StatusPlanned    = "PLANNED"
	StatusReady      = "READY"
	StatusAssembly   = "ASSEMBLY"
	StatusInspection = "INSPECTION"
	StatusPack       = "PACK"
	StatusDone       = "DONE"
)

// StatusLabels maps status codes to display labels.
var StatusLabels = map[string]string{
	StatusPlanned:    "Planned",
	StatusReady:      "Parts Ready",
	StatusAssembly:   "Assembly",
	StatusInspection: "Inspection",
	StatusPack:       "Packaging",
	StatusDone:       "Done",
}

type WorkOrder struct {
	ID         string     `json:"id"`
	ProductID  string     `json:"product_id"`
	PlannedQty int        `json:"planned_qty"`
	DueDate    time.Time  `json:"due_date"`
	Status     string     `json:"status"`
	CreatedTs  time.Time  `json:"created_ts"`
	StartTs    *time.Time `json:"start_ts,omitempty"`
	EndTs      *time.Time `json:"end_ts,omitempty"`
}

// OrderWithProduct is a work order joined with its product name for listings.
type OrderWithProduct struct {
	WorkOrder
	ProductName string `json:"product_name"`
}

const orderSelectCols = `id, product_id, planned_qty, due_date, status, created_ts, start_ts, end_ts`

func scanWorkOrder(row interface{ Scan(...any) error }) (*WorkOrder, error) {
	var o WorkOrder
	var dueDate, createdTs, startTs, endTs any
	err := row.Scan(&o.ID, &o.ProductID, &o.PlannedQty, &dueDate, &o.Status, &createdTs, &startTs, &endTs)
	if err != nil {
		return nil, err
	}
	o.DueDate = parseTime(dueDate)
	o.CreatedTs = parseTime(createdTs)
	o.StartTs = parseTimePtr(startTs)
	o.EndTs = parseTimePtr(endTs)
	return &o, nil
}

func (db *DB) CreateWorkOrder(o *WorkOrder) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = StatusPlanned
	}
	_, err := db.Exec(db.Q(`INSERT INTO work_orders (id, product_id, planned_qty, due_date, status) VALUES (?, ?, ?, ?, ?)`),
		o.ID, o.ProductID, o.PlannedQty, FmtTime(o.DueDate), o.Status)
	if err != nil {
		return fmt.Errorf("create work order: %w", err)
	}
	return nil
}

func (db *DB) GetWorkOrder(id string) (*WorkOrder, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM work_orders WHERE id=?`, orderSelectCols)), id)
	return scanWorkOrder(row)
}

// GetWorkOrderDetail fetches one order joined with its product name.
func (db *DB) GetWorkOrderDetail(id string) (*OrderWithProduct, error) {
	row := db.QueryRow(db.Q(`SELECT o.id, o.product_id, o.planned_qty, o.due_date, o.status, o.created_ts, o.start_ts, o.end_ts, p.name
		FROM work_orders o JOIN master_products p ON o.product_id = p.id WHERE o.id=?`), id)
	return scanOrderWithProduct(row)
}

func scanOrderWithProduct(row interface{ Scan(...any) error }) (*OrderWithProduct, error) {
	var o OrderWithProduct
	var dueDate, createdTs, startTs, endTs any
	err := row.Scan(&o.ID, &o.ProductID, &o.PlannedQty, &dueDate, &o.Status, &createdTs, &startTs, &endTs, &o.ProductName)
	if err != nil {
		return nil, err
	}
	o.DueDate = parseTime(dueDate)
	o.CreatedTs = parseTime(createdTs)
	o.StartTs = parseTimePtr(startTs)
	o.EndTs = parseTimePtr(endTs)
	return &o, nil
}

// ListWorkOrders returns all orders joined with product names, earliest due first.
func (db *DB) ListWorkOrders() ([]*OrderWithProduct, error) {
	rows, err := db.Query(`SELECT o.id, o.product_id, o.planned_qty, o.due_date, o.status, o.created_ts, o.start_ts, o.end_ts, p.name
		FROM work_orders o JOIN master_products p ON o.product_id = p.id ORDER BY o.due_date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []*OrderWithProduct
	for rows.Next() {
		o, err := scanOrderWithProduct(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ListOpenWorkOrders returns orders that have not reached DONE, for inspection registration.
func (db *DB) ListOpenWorkOrders() ([]*OrderWithProduct, error) {
	rows, err := db.Query(db.Q(`SELECT o.id, o.product_id, o.planned_qty, o.due_date, o.status, o.created_ts, o.start_ts, o.end_ts, p.name
		FROM work_orders o JOIN master_products p ON o.product_id = p.id WHERE o.status != ? ORDER BY o.due_date ASC`), StatusDone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []*OrderWithProduct
	for rows.Next() {
		o, err := scanOrderWithProduct(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// UpdateWorkOrderPlan changes the planned quantity and due date of an order.
func (db *DB) UpdateWorkOrderPlan(id string, plannedQty int, dueDate time.Time) error {
	res, err := db.Exec(db.Q(`UPDATE work_orders SET planned_qty=?, due_date=? WHERE id=?`),
		plannedQty, FmtTime(dueDate), id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteWorkOrder removes an order and its work results in one transaction.
// Orders referenced by quality inspections are kept (the foreign key rejects
// the delete).
func (db *DB) DeleteWorkOrder(id string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(db.Q(`DELETE FROM work_results WHERE order_id=?`), id); err != nil {
		return fmt.Errorf("delete work results: %w", err)
	}
	res, err := tx.Exec(db.Q(`DELETE FROM work_orders WHERE id=?`), id)
	if err != nil {
		return fmt.Errorf("delete work order: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

// CompletedQtyByDay sums the planned quantity of DONE orders whose end
// timestamp falls on the given calendar day.
func (db *DB) CompletedQtyByDay(day time.Time) (float64, error) {
	var query string
	if db.driver == "postgres" {
		query = `SELECT COALESCE(SUM(planned_qty),0) FROM work_orders WHERE status='DONE' AND DATE(end_ts)=$1`
	} else {
		query = `SELECT COALESCE(SUM(planned_qty),0) FROM work_orders WHERE status='DONE' AND substr(end_ts,1,10)=?`
	}
	var qty float64
	err := db.QueryRow(query, day.Format("2006-01-02")).Scan(&qty)
	return qty, err
}
