package store

import (
	"database/sql"
)

type Operation struct {
	Seq         int    `json:"seq"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// OperationStandard is the expected cycle time for one product at one
// operation stage, in seconds.
type OperationStandard struct {
	ProductID       string  `json:"product_id"`
	OperationSeq    int     `json:"operation_seq"`
	StandardTimeSec float64 `json:"standard_time_sec"`
}

// StandardKey identifies an operation standard by its composite key.
type StandardKey struct {
	ProductID    string
	OperationSeq int
}

func (db *DB) CreateOperation(op *Operation) error {
	_, err := db.Exec(db.Q(`INSERT INTO master_operations (seq, name, description) VALUES (?, ?, ?)`),
		op.Seq, op.Name, op.Description)
	return err
}

func (db *DB) ListOperations() ([]*Operation, error) {
	rows, err := db.Query(`SELECT seq, name, description FROM master_operations ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ops []*Operation
	for rows.Next() {
		var op Operation
		if err := rows.Scan(&op.Seq, &op.Name, &op.Description); err != nil {
			return nil, err
		}
		ops = append(ops, &op)
	}
	return ops, rows.Err()
}

func (db *DB) operationExists(seq int) (bool, error) {
	var one int
	err := db.QueryRow(db.Q(`SELECT 1 FROM master_operations WHERE seq=?`), seq).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (db *DB) CreateOperationStandard(s *OperationStandard) error {
	_, err := db.Exec(db.Q(`INSERT INTO master_operation_standards (product_id, operation_seq, standard_time_sec) VALUES (?, ?, ?)`),
		s.ProductID, s.OperationSeq, s.StandardTimeSec)
	return err
}

// StandardTimes loads all operation standards into a lookup keyed by
// (product, operation).
func (db *DB) StandardTimes() (map[StandardKey]float64, error) {
	rows, err := db.Query(`SELECT product_id, operation_seq, standard_time_sec FROM master_operation_standards`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	standards := make(map[StandardKey]float64)
	for rows.Next() {
		var s OperationStandard
		if err := rows.Scan(&s.ProductID, &s.OperationSeq, &s.StandardTimeSec); err != nil {
			return nil, err
		}
		standards[StandardKey{s.ProductID, s.OperationSeq}] = s.StandardTimeSec
	}
	return standards, rows.Err()
}

func (db *DB) operationStandardExists(productID string, seq int) (bool, error) {
	var one int
	err := db.QueryRow(db.Q(`SELECT 1 FROM master_operation_standards WHERE product_id=? AND operation_seq=?`), productID, seq).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
