package store

import (
	"database/sql"
)

// Equipment is a production station bound to one operation stage.
type Equipment struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	OperationSeq int    `json:"operation_seq"`
	Location     string `json:"location"`
	Enabled      bool   `json:"enabled"`
}

func (db *DB) CreateEquipment(e *Equipment) error {
	_, err := db.Exec(db.Q(`INSERT INTO master_equipment (id, name, type, operation_seq, location, enabled) VALUES (?, ?, ?, ?, ?, ?)`),
		e.ID, e.Name, e.Type, e.OperationSeq, e.Location, e.Enabled)
	return err
}

func (db *DB) GetEquipment(id string) (*Equipment, error) {
	var e Equipment
	err := db.QueryRow(db.Q(`SELECT id, name, type, operation_seq, location, enabled FROM master_equipment WHERE id=?`), id).
		Scan(&e.ID, &e.Name, &e.Type, &e.OperationSeq, &e.Location, &e.Enabled)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (db *DB) ListEquipment(enabledOnly bool) ([]*Equipment, error) {
	query := `SELECT id, name, type, operation_seq, location, enabled FROM master_equipment ORDER BY id`
	if enabledOnly {
		query = `SELECT id, name, type, operation_seq, location, enabled FROM master_equipment WHERE enabled=` + db.boolLit(true) + ` ORDER BY id`
	}
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var equipment []*Equipment
	for rows.Next() {
		var e Equipment
		if err := rows.Scan(&e.ID, &e.Name, &e.Type, &e.OperationSeq, &e.Location, &e.Enabled); err != nil {
			return nil, err
		}
		equipment = append(equipment, &e)
	}
	return equipment, rows.Err()
}

func (db *DB) boolLit(v bool) string {
	if db.driver == "postgres" {
		if v {
			return "TRUE"
		}
		return "FALSE"
	}
	if v {
		return "1"
	}
	return "0"
}

func (db *DB) equipmentExists(id string) (bool, error) {
	var one int
	err := db.QueryRow(db.Q(`SELECT 1 FROM master_equipment WHERE id=?`), id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
