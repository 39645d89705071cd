package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"mescore/config"
)

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	db, err := Open(&config.DatabaseConfig{
		Driver: "sqlite",
		SQLite: config.SQLiteConfig{Path: dbPath},
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})
	return db
}

// seededDB is a testDB with master data loaded.
func seededDB(t *testing.T) *DB {
	t.Helper()
	db := testDB(t)
	if err := db.SeedMasterData(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

// --- Master data tests ---

func TestSeedMasterData(t *testing.T) {
	db := testDB(t)
	if err := db.SeedMasterData(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	products, err := db.ListProducts()
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 9 {
		t.Errorf("products = %d, want 9", len(products))
	}

	operations, _ := db.ListOperations()
	if len(operations) != 5 {
		t.Errorf("operations = %d, want 5", len(operations))
	}

	equipment, _ := db.ListEquipment(false)
	if len(equipment) != 13 {
		t.Errorf("equipment = %d, want 13", len(equipment))
	}

	codes, _ := db.ListDefectCodes()
	if len(codes) != 8 {
		t.Errorf("defect codes = %d, want 8", len(codes))
	}

	items, _ := db.ListInspectionItems()
	if len(items) != 6 {
		t.Errorf("inspection items = %d, want 6", len(items))
	}

	// Seeding again must be a no-op, not a constraint violation.
	if err := db.SeedMasterData(); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	products2, _ := db.ListProducts()
	if len(products2) != len(products) {
		t.Errorf("products after reseed = %d, want %d", len(products2), len(products))
	}
}

func TestStandardTimes(t *testing.T) {
	db := seededDB(t)

	standards, err := db.StandardTimes()
	if err != nil {
		t.Fatalf("standard times: %v", err)
	}
	got, ok := standards[StandardKey{ProductID: "TEMP-100", OperationSeq: 2}]
	if !ok {
		t.Fatal("missing standard for TEMP-100 op 2")
	}
	if got != 40 {
		t.Errorf("standard = %v, want 40", got)
	}
	// Complete stage carries no standard.
	if _, ok := standards[StandardKey{ProductID: "TEMP-100", OperationSeq: 5}]; ok {
		t.Error("op 5 should have no standard time")
	}
}

// --- Work order tests ---

func TestWorkOrderCRUD(t *testing.T) {
	db := seededDB(t)

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)
	o := &WorkOrder{ProductID: "TEMP-100", PlannedQty: 50, DueDate: due}
	if err := db.CreateWorkOrder(o); err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.ID == "" {
		t.Fatal("ID should be assigned")
	}

	got, err := db.GetWorkOrder(o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusPlanned {
		t.Errorf("Status = %q, want %q", got.Status, StatusPlanned)
	}
	if got.PlannedQty != 50 {
		t.Errorf("PlannedQty = %d, want 50", got.PlannedQty)
	}
	if got.StartTs != nil || got.EndTs != nil {
		t.Error("new order should have no start or end timestamps")
	}
	if !got.DueDate.Equal(due) {
		t.Errorf("DueDate = %v, want %v", got.DueDate, due)
	}

	detail, err := db.GetWorkOrderDetail(o.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.ProductName == "" {
		t.Error("detail should carry product name")
	}

	// Update plan
	newDue := due.AddDate(0, 0, 7)
	if err := db.UpdateWorkOrderPlan(o.ID, 75, newDue); err != nil {
		t.Fatalf("update: %v", err)
	}
	got2, _ := db.GetWorkOrder(o.ID)
	if got2.PlannedQty != 75 {
		t.Errorf("PlannedQty after update = %d, want 75", got2.PlannedQty)
	}

	// Update of a missing order reports not found.
	if err := db.UpdateWorkOrderPlan("no-such-order", 10, due); err == nil {
		t.Error("update of missing order should fail")
	}

	// Delete
	if err := db.DeleteWorkOrder(o.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.GetWorkOrder(o.ID); err == nil {
		t.Error("order should be gone after delete")
	}
}

func TestListOpenWorkOrders(t *testing.T) {
	db := seededDB(t)

	due := time.Now().AddDate(0, 0, 7)
	a := &WorkOrder{ProductID: "TEMP-100", PlannedQty: 10, DueDate: due}
	b := &WorkOrder{ProductID: "PRES-200", PlannedQty: 20, DueDate: due}
	db.CreateWorkOrder(a)
	db.CreateWorkOrder(b)

	db.Exec(db.Q(`UPDATE work_orders SET status=? WHERE id=?`), StatusDone, b.ID)

	open, err := db.ListOpenWorkOrders()
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("open orders = %d, want 1", len(open))
	}
	if open[0].ID != a.ID {
		t.Errorf("open order = %s, want %s", open[0].ID, a.ID)
	}
}

func TestDeleteWorkOrderCascadesResults(t *testing.T) {
	db := seededDB(t)

	o := &WorkOrder{ProductID: "TEMP-100", PlannedQty: 10, DueDate: time.Now()}
	db.CreateWorkOrder(o)
	now := time.Now()
	db.Exec(db.Q(`INSERT INTO work_results (id, order_id, operation_seq, start_ts, end_ts) VALUES (?, ?, ?, ?, ?)`),
		"r1", o.ID, 1, FmtTime(now), FmtTime(now))

	if err := db.DeleteWorkOrder(o.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	results, _ := db.ListOrderResults(o.ID)
	if len(results) != 0 {
		t.Errorf("results after delete = %d, want 0", len(results))
	}
}

func TestDeleteWorkOrderBlockedByInspection(t *testing.T) {
	db := seededDB(t)

	o := &WorkOrder{ProductID: "TEMP-100", PlannedQty: 10, DueDate: time.Now()}
	db.CreateWorkOrder(o)
	in := &QualityInspection{OrderID: o.ID, ProductID: o.ProductID, InspectionQty: 5, Inspector: "qa", InspectionDate: time.Now()}
	if err := db.CreateInspection(in); err != nil {
		t.Fatalf("create inspection: %v", err)
	}

	if err := db.DeleteWorkOrder(o.ID); err == nil {
		t.Error("delete should be blocked while an inspection references the order")
	}
}

func TestCompletedQtyByDay(t *testing.T) {
	db := seededDB(t)

	due := time.Now()
	o := &WorkOrder{ProductID: "TEMP-100", PlannedQty: 30, DueDate: due}
	db.CreateWorkOrder(o)

	end := time.Date(2026, 8, 20, 14, 30, 0, 0, time.Local)
	db.Exec(db.Q(`UPDATE work_orders SET status=?, end_ts=? WHERE id=?`), StatusDone, FmtTime(end), o.ID)

	qty, err := db.CompletedQtyByDay(time.Date(2026, 8, 20, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("completed qty: %v", err)
	}
	if qty != 30 {
		t.Errorf("qty = %v, want 30", qty)
	}

	qty, _ = db.CompletedQtyByDay(time.Date(2026, 8, 21, 0, 0, 0, 0, time.Local))
	if qty != 0 {
		t.Errorf("qty on empty day = %v, want 0", qty)
	}
}

// --- Inspection tests ---

func TestInspectionCRUD(t *testing.T) {
	db := seededDB(t)

	o := &WorkOrder{ProductID: "GAS-300", PlannedQty: 25, DueDate: time.Now()}
	db.CreateWorkOrder(o)

	in := &QualityInspection{OrderID: o.ID, ProductID: o.ProductID, InspectionQty: 10, Inspector: "lee", InspectionDate: time.Now(), Notes: "first article"}
	if err := db.CreateInspection(in); err != nil {
		t.Fatalf("create: %v", err)
	}
	if in.Status != InspectionPending {
		t.Errorf("Status = %q, want %q", in.Status, InspectionPending)
	}

	got, err := db.GetInspection(in.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ProductName == "" {
		t.Error("inspection should carry product name")
	}

	pending, _ := db.ListPendingInspections()
	if len(pending) != 1 {
		t.Errorf("pending = %d, want 1", len(pending))
	}

	if err := db.UpdateInspection(in.ID, 12, "kim", time.Now(), "resampled"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got2, _ := db.GetInspection(in.ID)
	if got2.InspectionQty != 12 || got2.Inspector != "kim" {
		t.Errorf("after update qty=%d inspector=%q", got2.InspectionQty, got2.Inspector)
	}

	if err := db.DeleteInspection(in.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.GetInspection(in.ID); err == nil {
		t.Error("inspection should be gone after delete")
	}
}

// --- Outbox tests ---

func TestOutboxLifecycle(t *testing.T) {
	db := testDB(t)

	if err := db.EnqueueOutbox("mes.production.events", []byte(`{"x":1}`), "work.result.recorded", "plant-1"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	msgs, err := db.ListPendingOutbox(10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("pending = %d, want 1", len(msgs))
	}
	if msgs[0].Topic != "mes.production.events" {
		t.Errorf("topic = %q", msgs[0].Topic)
	}

	db.IncrementOutboxRetries(msgs[0].ID)
	msgs, _ = db.ListPendingOutbox(10)
	if msgs[0].Retries != 1 {
		t.Errorf("retries = %d, want 1", msgs[0].Retries)
	}

	if err := db.AckOutbox(msgs[0].ID); err != nil {
		t.Fatalf("ack: %v", err)
	}
	msgs, _ = db.ListPendingOutbox(10)
	if len(msgs) != 0 {
		t.Errorf("pending after ack = %d, want 0", len(msgs))
	}
}

// --- Dialect tests ---

func TestRebind(t *testing.T) {
	got := Rebind(`INSERT INTO t (a, b) VALUES (?, ?) ON CONFLICT DO NOTHING`)
	want := `INSERT INTO t (a, b) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if got != want {
		t.Errorf("Rebind = %q, want %q", got, want)
	}
}

func TestParseTimeFormats(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-08-20 14:30:00", time.Date(2026, 8, 20, 14, 30, 0, 0, time.Local)},
		{"2026-08-20", time.Date(2026, 8, 20, 0, 0, 0, 0, time.Local)},
	}
	for _, c := range cases {
		got := parseTime(c.in)
		if !got.Equal(c.want) {
			t.Errorf("parseTime(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	if !parseTime(nil).IsZero() {
		t.Error("parseTime(nil) should be zero")
	}
}
