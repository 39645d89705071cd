package store

import (
	"database/sql"
)

type DefectCode struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// InspectionItem is a quality check with tolerance limits.
// Limits are nullable; when all are present, lower <= target <= upper.
type InspectionItem struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Unit       string   `json:"unit"`
	LowerLimit *float64 `json:"lower_limit,omitempty"`
	UpperLimit *float64 `json:"upper_limit,omitempty"`
	Target     *float64 `json:"target,omitempty"`
}

func (db *DB) CreateDefectCode(d *DefectCode) error {
	_, err := db.Exec(db.Q(`INSERT INTO master_defect_codes (code, name, description) VALUES (?, ?, ?)`),
		d.Code, d.Name, d.Description)
	return err
}

func (db *DB) ListDefectCodes() ([]*DefectCode, error) {
	rows, err := db.Query(`SELECT code, name, description FROM master_defect_codes ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var codes []*DefectCode
	for rows.Next() {
		var d DefectCode
		if err := rows.Scan(&d.Code, &d.Name, &d.Description); err != nil {
			return nil, err
		}
		codes = append(codes, &d)
	}
	return codes, rows.Err()
}

func (db *DB) defectCodeExists(code string) (bool, error) {
	var one int
	err := db.QueryRow(db.Q(`SELECT 1 FROM master_defect_codes WHERE code=?`), code).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (db *DB) CreateInspectionItem(it *InspectionItem) error {
	_, err := db.Exec(db.Q(`INSERT INTO master_inspection_items (id, name, unit, lower_limit, upper_limit, target) VALUES (?, ?, ?, ?, ?, ?)`),
		it.ID, it.Name, it.Unit, it.LowerLimit, it.UpperLimit, it.Target)
	return err
}

func (db *DB) ListInspectionItems() ([]*InspectionItem, error) {
	rows, err := db.Query(`SELECT id, name, unit, lower_limit, upper_limit, target FROM master_inspection_items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*InspectionItem
	for rows.Next() {
		var it InspectionItem
		var lo, hi, target sql.NullFloat64
		if err := rows.Scan(&it.ID, &it.Name, &it.Unit, &lo, &hi, &target); err != nil {
			return nil, err
		}
		if lo.Valid {
			it.LowerLimit = &lo.Float64
		}
		if hi.Valid {
			it.UpperLimit = &hi.Float64
		}
		if target.Valid {
			it.Target = &target.Float64
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (db *DB) inspectionItemExists(id string) (bool, error) {
	var one int
	err := db.QueryRow(db.Q(`SELECT 1 FROM master_inspection_items WHERE id=?`), id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
