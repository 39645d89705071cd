package store

import (
	"database/sql"
	"time"
)

// QualityResult is the recorded outcome of an inspection. Immutable after
// creation.
type QualityResult struct {
	ID           string    `json:"id"`
	InspectionID string    `json:"inspection_id"`
	Inspector    string    `json:"inspector"`
	PassedQty    int       `json:"passed_qty"`
	DefectQty    int       `json:"defect_qty"`
	DefectCode   *string   `json:"defect_code,omitempty"`
	DefectRate   float64   `json:"defect_rate"`
	StartTs      time.Time `json:"start_ts"`
	EndTs        time.Time `json:"end_ts"`
	DurationSec  int       `json:"duration_sec"`
	Notes        string    `json:"notes"`
}

// QualityResultDetail joins a result with its inspection, product and defect
// code names.
type QualityResultDetail struct {
	QualityResult
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	DefectName  string `json:"defect_name"`
}

// ListQualityResults returns all recorded results with joined context, newest first.
func (db *DB) ListQualityResults() ([]*QualityResultDetail, error) {
	rows, err := db.Query(`SELECT r.id, r.inspection_id, r.inspector, r.passed_qty, r.defect_qty, r.defect_code,
			r.defect_rate, r.start_ts, r.end_ts, r.duration_sec, r.notes,
			i.product_id, p.name, COALESCE(d.name, '')
		FROM quality_results r
		JOIN quality_inspections i ON r.inspection_id = i.id
		JOIN master_products p ON i.product_id = p.id
		LEFT JOIN master_defect_codes d ON r.defect_code = d.code
		ORDER BY r.start_ts DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []*QualityResultDetail
	for rows.Next() {
		var d QualityResultDetail
		var defectCode sql.NullString
		var startTs, endTs any
		if err := rows.Scan(&d.ID, &d.InspectionID, &d.Inspector, &d.PassedQty, &d.DefectQty, &defectCode,
			&d.DefectRate, &startTs, &endTs, &d.DurationSec, &d.Notes,
			&d.ProductID, &d.ProductName, &d.DefectName); err != nil {
			return nil, err
		}
		d.DefectCode = nullStrPtr(defectCode)
		d.StartTs = parseTime(startTs)
		d.EndTs = parseTime(endTs)
		results = append(results, &d)
	}
	return results, rows.Err()
}

// ListInspectionResults returns the results recorded against one inspection.
func (db *DB) ListInspectionResults(inspectionID string) ([]*QualityResult, error) {
	rows, err := db.Query(db.Q(`SELECT id, inspection_id, inspector, passed_qty, defect_qty, defect_code, defect_rate, start_ts, end_ts, duration_sec, notes
		FROM quality_results WHERE inspection_id=? ORDER BY start_ts ASC`), inspectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []*QualityResult
	for rows.Next() {
		var r QualityResult
		var defectCode sql.NullString
		var startTs, endTs any
		if err := rows.Scan(&r.ID, &r.InspectionID, &r.Inspector, &r.PassedQty, &r.DefectQty, &defectCode,
			&r.DefectRate, &startTs, &endTs, &r.DurationSec, &r.Notes); err != nil {
			return nil, err
		}
		r.DefectCode = nullStrPtr(defectCode)
		r.StartTs = parseTime(startTs)
		r.EndTs = parseTime(endTs)
		results = append(results, &r)
	}
	return results, rows.Err()
}
