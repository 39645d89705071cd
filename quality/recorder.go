// Package quality records inspection outcomes against planned quality
// inspections.
package quality

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"mescore/store"
)

// DefectRate is the defect percentage of a pass/defect count pair.
// A zero total yields 0, not a division error.
func DefectRate(passedQty, defectQty int) float64 {
	total := passedQty + defectQty
	if total == 0 {
		return 0
	}
	rate := float64(defectQty) / float64(total) * 100
	return math.Round(rate*100) / 100
}

// Duration is the whole-second span between start and end.
func Duration(start, end time.Time) int {
	return int(end.Sub(start).Seconds())
}

type Recorder struct {
	db *store.DB
}

func NewRecorder(db *store.DB) *Recorder {
	return &Recorder{db: db}
}

// Record inserts a quality result and marks the referenced inspection
// COMPLETED in one transaction. The completion is unconditional: recording
// against an already-completed inspection adds another result and leaves
// the status COMPLETED.
func (r *Recorder) Record(res *store.QualityResult) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	res.DefectRate = DefectRate(res.PassedQty, res.DefectQty)
	res.DurationSec = Duration(res.StartTs, res.EndTs)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin record result: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(r.db.Q(`INSERT INTO quality_results (id, inspection_id, inspector, passed_qty, defect_qty, defect_code, defect_rate, start_ts, end_ts, duration_sec, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		res.ID, res.InspectionID, res.Inspector, res.PassedQty, res.DefectQty, nullable(res.DefectCode),
		res.DefectRate, store.FmtTime(res.StartTs), store.FmtTime(res.EndTs), res.DurationSec, res.Notes)
	if err != nil {
		return fmt.Errorf("insert quality result: %w", err)
	}

	if _, err := tx.Exec(r.db.Q(`UPDATE quality_inspections SET status=? WHERE id=?`), store.InspectionCompleted, res.InspectionID); err != nil {
		return fmt.Errorf("complete inspection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record result: %w", err)
	}
	return nil
}

func nullable(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
