package quality

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"mescore/config"
	"mescore/store"
)

func testDB(t *testing.T) *store.DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	db, err := store.Open(&config.DatabaseConfig{
		Driver: "sqlite",
		SQLite: config.SQLiteConfig{Path: dbPath},
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.SeedMasterData(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})
	return db
}

func newInspection(t *testing.T, db *store.DB) *store.QualityInspection {
	t.Helper()
	o := &store.WorkOrder{ProductID: "TEMP-100", PlannedQty: 20, DueDate: time.Now()}
	if err := db.CreateWorkOrder(o); err != nil {
		t.Fatalf("create order: %v", err)
	}
	in := &store.QualityInspection{OrderID: o.ID, ProductID: o.ProductID, InspectionQty: 10, Inspector: "lee", InspectionDate: time.Now()}
	if err := db.CreateInspection(in); err != nil {
		t.Fatalf("create inspection: %v", err)
	}
	return in
}

func TestDefectRate(t *testing.T) {
	cases := []struct {
		passed, defect int
		want           float64
	}{
		{95, 5, 5},
		{0, 10, 100},
		{10, 0, 0},
		{0, 0, 0}, // zero total must not divide
		{1, 2, 66.67},
	}
	for _, c := range cases {
		if got := DefectRate(c.passed, c.defect); got != c.want {
			t.Errorf("DefectRate(%d, %d) = %v, want %v", c.passed, c.defect, got, c.want)
		}
	}
}

func TestDuration(t *testing.T) {
	start := time.Date(2026, 8, 24, 10, 0, 0, 0, time.Local)
	cases := []struct {
		end  time.Time
		want int
	}{
		{start.Add(90 * time.Second), 90},
		{start.Add(90*time.Second + 700*time.Millisecond), 90}, // whole seconds only
		{start, 0},
	}
	for _, c := range cases {
		if got := Duration(start, c.end); got != c.want {
			t.Errorf("Duration(+%v) = %d, want %d", c.end.Sub(start), got, c.want)
		}
	}
}

func TestRecordCompletesInspection(t *testing.T) {
	db := testDB(t)
	rec := NewRecorder(db)
	in := newInspection(t, db)

	start := time.Date(2026, 8, 24, 10, 0, 0, 0, time.Local)
	code := "D003"
	res := &store.QualityResult{
		InspectionID: in.ID,
		Inspector:    "lee",
		PassedQty:    9,
		DefectQty:    1,
		DefectCode:   &code,
		StartTs:      start,
		EndTs:        start.Add(15 * time.Minute),
		Notes:        "one offset drift",
	}
	if err := rec.Record(res); err != nil {
		t.Fatalf("record: %v", err)
	}
	if res.ID == "" {
		t.Fatal("result ID should be assigned")
	}
	if res.DefectRate != 10 {
		t.Errorf("DefectRate = %v, want 10", res.DefectRate)
	}
	if res.DurationSec != 900 {
		t.Errorf("DurationSec = %d, want 900", res.DurationSec)
	}

	got, _ := db.GetInspection(in.ID)
	if got.Status != store.InspectionCompleted {
		t.Errorf("inspection status = %q, want %q", got.Status, store.InspectionCompleted)
	}

	results, _ := db.ListInspectionResults(in.ID)
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].DefectCode == nil || *results[0].DefectCode != "D003" {
		t.Errorf("DefectCode = %v, want D003", results[0].DefectCode)
	}
}

func TestRecordSecondResultKeepsCompleted(t *testing.T) {
	db := testDB(t)
	rec := NewRecorder(db)
	in := newInspection(t, db)

	start := time.Now().Add(-time.Hour)
	first := &store.QualityResult{InspectionID: in.ID, Inspector: "lee", PassedQty: 5, DefectQty: 0, StartTs: start, EndTs: start.Add(10 * time.Minute)}
	if err := rec.Record(first); err != nil {
		t.Fatalf("first record: %v", err)
	}

	// A re-inspection appends another result; the inspection stays COMPLETED.
	second := &store.QualityResult{InspectionID: in.ID, Inspector: "kim", PassedQty: 4, DefectQty: 1, StartTs: start, EndTs: start.Add(20 * time.Minute)}
	if err := rec.Record(second); err != nil {
		t.Fatalf("second record: %v", err)
	}

	got, _ := db.GetInspection(in.ID)
	if got.Status != store.InspectionCompleted {
		t.Errorf("status = %q, want %q", got.Status, store.InspectionCompleted)
	}
	results, _ := db.ListInspectionResults(in.ID)
	if len(results) != 2 {
		t.Errorf("results = %d, want 2", len(results))
	}
}

func TestRecordUnknownInspection(t *testing.T) {
	db := testDB(t)
	rec := NewRecorder(db)

	res := &store.QualityResult{InspectionID: "no-such", Inspector: "lee", PassedQty: 1, StartTs: time.Now(), EndTs: time.Now()}
	if err := rec.Record(res); err == nil {
		t.Error("recording against a missing inspection should fail")
	}
}
