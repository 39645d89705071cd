package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Quality inspection status codes.
const (
	InspectionPending   = "PENDING"
	InspectionCompleted = "COMPLETED"
)

type QualityInspection struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"order_id"`
	ProductID      string    `json:"product_id"`
	InspectionQty  int       `json:"inspection_qty"`
	Inspector      string    `json:"inspector"`
	InspectionDate time.Time `json:"inspection_date"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes"`
	CreatedTs      time.Time `json:"created_ts"`
}

// InspectionWithProduct is an inspection joined with its product name.
type InspectionWithProduct struct {
	QualityInspection
	ProductName string `json:"product_name"`
}

func (db *DB) CreateInspection(in *QualityInspection) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Status == "" {
		in.Status = InspectionPending
	}
	_, err := db.Exec(db.Q(`INSERT INTO quality_inspections (id, order_id, product_id, inspection_qty, inspector, inspection_date, status, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		in.ID, in.OrderID, in.ProductID, in.InspectionQty, in.Inspector, FmtTime(in.InspectionDate), in.Status, in.Notes)
	if err != nil {
		return fmt.Errorf("create inspection: %w", err)
	}
	return nil
}

func scanInspectionWithProduct(row interface{ Scan(...any) error }) (*InspectionWithProduct, error) {
	var in InspectionWithProduct
	var inspectionDate, createdTs any
	err := row.Scan(&in.ID, &in.OrderID, &in.ProductID, &in.InspectionQty, &in.Inspector,
		&inspectionDate, &in.Status, &in.Notes, &createdTs, &in.ProductName)
	if err != nil {
		return nil, err
	}
	in.InspectionDate = parseTime(inspectionDate)
	in.CreatedTs = parseTime(createdTs)
	return &in, nil
}

const inspectionJoinCols = `i.id, i.order_id, i.product_id, i.inspection_qty, i.inspector, i.inspection_date, i.status, i.notes, i.created_ts, p.name`

// ListInspections returns all inspections with product names, newest inspection date first.
func (db *DB) ListInspections() ([]*InspectionWithProduct, error) {
	rows, err := db.Query(fmt.Sprintf(`SELECT %s FROM quality_inspections i JOIN master_products p ON i.product_id = p.id ORDER BY i.inspection_date DESC, i.created_ts DESC`, inspectionJoinCols))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var inspections []*InspectionWithProduct
	for rows.Next() {
		in, err := scanInspectionWithProduct(rows)
		if err != nil {
			return nil, err
		}
		inspections = append(inspections, in)
	}
	return inspections, rows.Err()
}

// ListPendingInspections returns inspections still awaiting a result.
func (db *DB) ListPendingInspections() ([]*InspectionWithProduct, error) {
	rows, err := db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM quality_inspections i JOIN master_products p ON i.product_id = p.id WHERE i.status=? ORDER BY i.inspection_date ASC`, inspectionJoinCols)), InspectionPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var inspections []*InspectionWithProduct
	for rows.Next() {
		in, err := scanInspectionWithProduct(rows)
		if err != nil {
			return nil, err
		}
		inspections = append(inspections, in)
	}
	return inspections, rows.Err()
}

func (db *DB) GetInspection(id string) (*InspectionWithProduct, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM quality_inspections i JOIN master_products p ON i.product_id = p.id WHERE i.id=?`, inspectionJoinCols)), id)
	return scanInspectionWithProduct(row)
}

func (db *DB) UpdateInspection(id string, inspectionQty int, inspector string, inspectionDate time.Time, notes string) error {
	res, err := db.Exec(db.Q(`UPDATE quality_inspections SET inspection_qty=?, inspector=?, inspection_date=?, notes=? WHERE id=?`),
		inspectionQty, inspector, FmtTime(inspectionDate), notes, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (db *DB) DeleteInspection(id string) error {
	res, err := db.Exec(db.Q(`DELETE FROM quality_inspections WHERE id=?`), id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
