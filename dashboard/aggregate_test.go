package dashboard

import (
	"testing"
	"time"

	"mescore/store"
)

var testNow = time.Date(2026, 8, 24, 12, 0, 0, 0, time.Local)

func order(product, name, status string, qty int, endDaysAgo int) *store.OrderWithProduct {
	o := &store.OrderWithProduct{ProductName: name}
	o.ID = product + "-" + status
	o.ProductID = product
	o.PlannedQty = qty
	o.Status = status
	if status == store.StatusDone {
		end := testNow.AddDate(0, 0, -endDaysAgo)
		o.EndTs = &end
	}
	return o
}

func result(product, opName, equipName string, plannedQty int, opSeq int, durationSec int) *store.ResultDetail {
	r := &store.ResultDetail{ProductID: product, PlannedQty: plannedQty, OperationName: opName, EquipmentName: equipName}
	r.OperationSeq = opSeq
	r.StartTs = testNow.Add(-time.Duration(durationSec) * time.Second)
	r.EndTs = testNow
	return r
}

func TestComputeEmpty(t *testing.T) {
	v := Compute(nil, nil, nil, testNow)

	if v.KPI.TotalOrders != 0 {
		t.Errorf("TotalOrders = %d, want 0", v.KPI.TotalOrders)
	}
	// Zero orders must not divide.
	if v.KPI.CompletionRate != 0 {
		t.Errorf("CompletionRate = %v, want 0", v.KPI.CompletionRate)
	}
	if v.KPI.AvgDeviationRate != 0 {
		t.Errorf("AvgDeviationRate = %v, want 0", v.KPI.AvgDeviationRate)
	}
	if len(v.ProductChart.Labels) != 0 {
		t.Errorf("ProductChart should be empty, got %v", v.ProductChart.Labels)
	}
}

func TestKPICounts(t *testing.T) {
	orders := []*store.OrderWithProduct{
		order("TEMP-100", "Temp Sensor", store.StatusPlanned, 10, 0),
		order("TEMP-100", "Temp Sensor", store.StatusAssembly, 10, 0),
		order("PRES-200", "Pressure Sensor", store.StatusDone, 30, 1),
		order("GAS-300", "Gas Sensor", store.StatusDone, 20, 2),
	}
	v := Compute(orders, nil, nil, testNow)

	if v.KPI.TotalOrders != 4 {
		t.Errorf("TotalOrders = %d, want 4", v.KPI.TotalOrders)
	}
	if v.KPI.CompletedOrders != 2 {
		t.Errorf("CompletedOrders = %d, want 2", v.KPI.CompletedOrders)
	}
	if v.KPI.InProgress != 1 {
		t.Errorf("InProgress = %d, want 1", v.KPI.InProgress)
	}
	if v.KPI.Planned != 1 {
		t.Errorf("Planned = %d, want 1", v.KPI.Planned)
	}
	if v.KPI.CompletionRate != 50 {
		t.Errorf("CompletionRate = %v, want 50", v.KPI.CompletionRate)
	}
}

func TestProductSummaryOrdering(t *testing.T) {
	orders := []*store.OrderWithProduct{
		order("TEMP-100", "Temp Sensor", store.StatusPlanned, 10, 0),
		order("PRES-200", "Pressure Sensor", store.StatusPlanned, 10, 0),
		order("PRES-200", "Pressure Sensor", store.StatusDone, 10, 1),
	}
	v := Compute(orders, nil, nil, testNow)

	if len(v.ProductChart.Labels) != 2 {
		t.Fatalf("labels = %v", v.ProductChart.Labels)
	}
	if v.ProductChart.Labels[0] != "Pressure Sensor" {
		t.Errorf("first label = %q, want most-ordered product first", v.ProductChart.Labels[0])
	}
	if v.ProductChart.Data[0] != 2 {
		t.Errorf("first count = %v, want 2", v.ProductChart.Data[0])
	}
}

func TestStatusDistributionPipelineOrder(t *testing.T) {
	orders := []*store.OrderWithProduct{
		order("A", "A", store.StatusDone, 1, 1),
		order("B", "B", store.StatusPlanned, 1, 0),
		order("C", "C", store.StatusPlanned, 1, 0),
	}
	v := Compute(orders, nil, nil, testNow)

	want := []string{store.StatusLabels[store.StatusPlanned], store.StatusLabels[store.StatusDone]}
	if len(v.StatusChart.Labels) != 2 || v.StatusChart.Labels[0] != want[0] || v.StatusChart.Labels[1] != want[1] {
		t.Errorf("labels = %v, want %v", v.StatusChart.Labels, want)
	}
	if v.StatusChart.Data[0] != 2 {
		t.Errorf("planned count = %v, want 2", v.StatusChart.Data[0])
	}
}

func TestOperationMeanMinutes(t *testing.T) {
	results := []*store.ResultDetail{
		result("TEMP-100", "Assembly", "", 10, 2, 600),
		result("TEMP-100", "Assembly", "", 10, 2, 1200),
		result("TEMP-100", "Packaging", "", 10, 4, 60),
	}
	v := Compute(nil, results, nil, testNow)

	if len(v.OperationChart.Labels) != 2 {
		t.Fatalf("labels = %v", v.OperationChart.Labels)
	}
	if v.OperationChart.Labels[0] != "Assembly" {
		t.Errorf("slowest operation first, got %v", v.OperationChart.Labels)
	}
	if v.OperationChart.Data[0] != 15 {
		t.Errorf("Assembly mean = %v, want 15", v.OperationChart.Data[0])
	}
	if v.OperationChart.Data[1] != 1 {
		t.Errorf("Packaging mean = %v, want 1", v.OperationChart.Data[1])
	}
}

func TestEquipmentUsageTop10(t *testing.T) {
	var results []*store.ResultDetail
	// 12 distinct stations, STN-00 used most.
	for i := 0; i < 12; i++ {
		name := "STN-" + string(rune('A'+i))
		results = append(results, result("X", "Assembly", name, 10, 2, 60))
	}
	results = append(results, result("X", "Assembly", "STN-A", 10, 2, 60))
	results = append(results, result("X", "Assembly", "", 10, 2, 60)) // no equipment

	v := Compute(nil, results, nil, testNow)

	if len(v.EquipmentChart.Labels) != 10 {
		t.Fatalf("labels = %d, want 10", len(v.EquipmentChart.Labels))
	}
	if v.EquipmentChart.Labels[0] != "STN-A" || v.EquipmentChart.Data[0] != 2 {
		t.Errorf("top station = %v %v, want STN-A 2", v.EquipmentChart.Labels[0], v.EquipmentChart.Data[0])
	}
}

func TestDailyTrendWindow(t *testing.T) {
	orders := []*store.OrderWithProduct{
		order("A", "A", store.StatusDone, 10, 1),
		order("B", "B", store.StatusDone, 20, 1),
		order("C", "C", store.StatusDone, 30, 5),
		order("D", "D", store.StatusDone, 40, 45), // outside 30-day window
		order("E", "E", store.StatusAssembly, 99, 0),
	}
	v := Compute(orders, nil, nil, testNow)

	if len(v.DailyChart.Labels) != 2 {
		t.Fatalf("labels = %v", v.DailyChart.Labels)
	}
	// Earliest date first.
	if v.DailyChart.Data[0] != 30 {
		t.Errorf("first day qty = %v, want 30", v.DailyChart.Data[0])
	}
	if v.DailyChart.Data[1] != 30 {
		t.Errorf("second day qty = %v, want 10+20", v.DailyChart.Data[1])
	}
}

func TestDeviationRequiresStandard(t *testing.T) {
	standards := map[store.StandardKey]float64{
		{ProductID: "TEMP-100", OperationSeq: 2}: 40,
	}
	results := []*store.ResultDetail{
		// 600s over 10 units = 60s/unit vs standard 40 -> +50%
		result("TEMP-100", "Assembly", "", 10, 2, 600),
		// No standard for this operation: excluded from deviation.
		result("TEMP-100", "Complete", "", 10, 5, 600),
	}
	v := Compute(nil, results, standards, testNow)

	if v.KPI.AvgDeviationRate != 50 {
		t.Errorf("AvgDeviationRate = %v, want 50", v.KPI.AvgDeviationRate)
	}

	// +50% lands in the (40, 50] bin, the last one.
	last := len(v.DeviationChart.Data) - 1
	if v.DeviationChart.Data[last] != 1 {
		t.Errorf("last bin = %v, want 1", v.DeviationChart.Data[last])
	}
	var total float64
	for _, d := range v.DeviationChart.Data {
		total += d
	}
	if total != 1 {
		t.Errorf("binned results = %v, want 1 (no-standard result excluded)", total)
	}
}

func TestDeviationOutOfRangeExcluded(t *testing.T) {
	standards := map[store.StandardKey]float64{
		{ProductID: "TEMP-100", OperationSeq: 2}: 10,
	}
	// 6000s over 10 units = 600s/unit vs standard 10 -> +5900%, out of range.
	results := []*store.ResultDetail{
		result("TEMP-100", "Assembly", "", 10, 2, 6000),
	}
	v := Compute(nil, results, standards, testNow)

	for i, d := range v.DeviationChart.Data {
		if d != 0 {
			t.Errorf("bin %d = %v, want 0", i, d)
		}
	}
	// Out-of-range values still feed the mean.
	if v.KPI.AvgDeviationRate != 5900 {
		t.Errorf("AvgDeviationRate = %v, want 5900", v.KPI.AvgDeviationRate)
	}
}
