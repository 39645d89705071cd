// Package dashboard aggregates orders, results and operation standards into
// chart-ready summaries.
package dashboard

import (
	"math"
	"sort"
	"strconv"
	"time"

	"mescore/store"
)

// Chart is a (label, value) pair list as consumed by the chart renderer.
type Chart struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

type KPI struct {
	TotalOrders      int     `json:"total_orders"`
	CompletedOrders  int     `json:"completed_orders"`
	InProgress       int     `json:"in_progress"`
	Planned          int     `json:"planned"`
	CompletionRate   float64 `json:"completion_rate"`
	AvgDeviationRate float64 `json:"avg_deviation_rate"`
}

type View struct {
	KPI            KPI   `json:"kpi"`
	ProductChart   Chart `json:"product_chart"`
	StatusChart    Chart `json:"status_chart"`
	OperationChart Chart `json:"operation_chart"`
	EquipmentChart Chart `json:"equipment_chart"`
	DailyChart     Chart `json:"daily_chart"`
	DeviationChart Chart `json:"deviation_chart"`
}

// trailingTrendDays is the window of the daily completed-quantity trend.
const trailingTrendDays = 30

// resultMetrics carries the derived per-result values. Deviation is
// undefined (and excluded from aggregates) when the standard time or the
// planned quantity is zero.
type resultMetrics struct {
	actualSec    float64
	actualMin    float64
	deviation    float64
	hasDeviation bool
}

func deriveMetrics(results []*store.ResultDetail, standards map[store.StandardKey]float64) []resultMetrics {
	metrics := make([]resultMetrics, len(results))
	for i, r := range results {
		m := resultMetrics{}
		m.actualSec = r.EndTs.Sub(r.StartTs).Seconds()
		m.actualMin = m.actualSec / 60
		std := standards[store.StandardKey{ProductID: r.ProductID, OperationSeq: r.OperationSeq}]
		if std > 0 && r.PlannedQty > 0 {
			perUnit := m.actualSec / float64(r.PlannedQty)
			m.deviation = (perUnit - std) / std * 100
			m.hasDeviation = true
		}
		metrics[i] = m
	}
	return metrics
}

// Compute builds the complete dashboard view from the current persistent
// state. It is a pure function of its inputs; now anchors the trailing
// trend window.
func Compute(orders []*store.OrderWithProduct, results []*store.ResultDetail, standards map[store.StandardKey]float64, now time.Time) *View {
	v := &View{}
	metrics := deriveMetrics(results, standards)

	v.ProductChart = productSummary(orders)
	v.StatusChart = statusDistribution(orders)
	v.OperationChart = operationMeanMinutes(results, metrics)
	v.EquipmentChart = equipmentUsage(results)
	v.DailyChart = dailyTrend(orders, now)
	v.DeviationChart = deviationHistogram(metrics)
	v.KPI = kpiSummary(orders, metrics)
	return v
}

// productSummary groups orders by product, counting orders per product,
// most orders first.
func productSummary(orders []*store.OrderWithProduct) Chart {
	type bucket struct {
		id    string
		name  string
		count int
		qty   int
	}
	byProduct := map[string]*bucket{}
	for _, o := range orders {
		b, ok := byProduct[o.ProductID]
		if !ok {
			b = &bucket{id: o.ProductID, name: o.ProductName}
			byProduct[o.ProductID] = b
		}
		b.count++
		b.qty += o.PlannedQty
	}
	buckets := make([]*bucket, 0, len(byProduct))
	for _, b := range byProduct {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].id < buckets[j].id
	})
	c := Chart{}
	for _, b := range buckets {
		c.Labels = append(c.Labels, b.name)
		c.Data = append(c.Data, float64(b.count))
	}
	return c
}

// statusDistribution counts orders per status, in pipeline order.
func statusDistribution(orders []*store.OrderWithProduct) Chart {
	counts := map[string]int{}
	for _, o := range orders {
		counts[o.Status]++
	}
	c := Chart{}
	for _, status := range []string{store.StatusPlanned, store.StatusReady, store.StatusAssembly, store.StatusInspection, store.StatusPack, store.StatusDone} {
		if counts[status] == 0 {
			continue
		}
		c.Labels = append(c.Labels, store.StatusLabels[status])
		c.Data = append(c.Data, float64(counts[status]))
	}
	return c
}

// operationMeanMinutes averages actual work time per operation, in minutes,
// slowest first.
func operationMeanMinutes(results []*store.ResultDetail, metrics []resultMetrics) Chart {
	type bucket struct {
		name  string
		sum   float64
		count int
	}
	byOp := map[string]*bucket{}
	for i, r := range results {
		b, ok := byOp[r.OperationName]
		if !ok {
			b = &bucket{name: r.OperationName}
			byOp[r.OperationName] = b
		}
		b.sum += metrics[i].actualMin
		b.count++
	}
	buckets := make([]*bucket, 0, len(byOp))
	for _, b := range byOp {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		mi := buckets[i].sum / float64(buckets[i].count)
		mj := buckets[j].sum / float64(buckets[j].count)
		if mi != mj {
			return mi > mj
		}
		return buckets[i].name < buckets[j].name
	})
	c := Chart{}
	for _, b := range buckets {
		c.Labels = append(c.Labels, b.name)
		c.Data = append(c.Data, round2(b.sum/float64(b.count)))
	}
	return c
}

// equipmentUsage counts results per equipment station, top 10 by frequency.
// Results without equipment are excluded.
func equipmentUsage(results []*store.ResultDetail) Chart {
	counts := map[string]int{}
	for _, r := range results {
		if r.EquipmentName == "" {
			continue
		}
		counts[r.EquipmentName]++
	}
	type pair struct {
		name  string
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for name, count := range counts {
		pairs = append(pairs, pair{name, count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].name < pairs[j].name
	})
	if len(pairs) > 10 {
		pairs = pairs[:10]
	}
	c := Chart{}
	for _, p := range pairs {
		c.Labels = append(c.Labels, p.name)
		c.Data = append(c.Data, float64(p.count))
	}
	return c
}

// dailyTrend sums planned quantity per completion date over the trailing
// 30 days, earliest date first. Only DONE orders with an end timestamp in
// the window are counted.
func dailyTrend(orders []*store.OrderWithProduct, now time.Time) Chart {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowStart := today.AddDate(0, 0, -trailingTrendDays)

	byDate := map[string]float64{}
	for _, o := range orders {
		if o.Status != store.StatusDone || o.EndTs == nil {
			continue
		}
		day := time.Date(o.EndTs.Year(), o.EndTs.Month(), o.EndTs.Day(), 0, 0, 0, 0, o.EndTs.Location())
		if day.Before(windowStart) || day.After(today) {
			continue
		}
		byDate[day.Format("2006-01-02")] += float64(o.PlannedQty)
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	c := Chart{}
	for _, d := range dates {
		t, _ := time.Parse("2006-01-02", d)
		c.Labels = append(c.Labels, t.Format("01/02"))
		c.Data = append(c.Data, byDate[d])
	}
	return c
}

// deviationHistogram buckets defined deviation rates into fixed bins
// (-50, -40] ... (40, 50]. Out-of-range values are excluded.
func deviationHistogram(metrics []resultMetrics) Chart {
	edges := []float64{-50, -40, -30, -20, -10, 0, 10, 20, 30, 40, 50}
	counts := make([]float64, len(edges)-1)
	any := false
	for _, m := range metrics {
		if !m.hasDeviation {
			continue
		}
		for i := 0; i < len(edges)-1; i++ {
			if m.deviation > edges[i] && m.deviation <= edges[i+1] {
				counts[i]++
				any = true
				break
			}
		}
	}
	if !any && len(metrics) == 0 {
		return Chart{}
	}
	c := Chart{}
	for i := 0; i < len(edges)-1; i++ {
		c.Labels = append(c.Labels, formatBin(edges[i], edges[i+1]))
		c.Data = append(c.Data, counts[i])
	}
	return c
}

func formatBin(lo, hi float64) string {
	return strconv.FormatFloat(lo, 'f', -1, 64) + "% ~ " + strconv.FormatFloat(hi, 'f', -1, 64) + "%"
}

// kpiSummary computes the headline counters. Completion rate is 0 when
// there are no orders; mean deviation is 0 when no result has a defined
// deviation.
func kpiSummary(orders []*store.OrderWithProduct, metrics []resultMetrics) KPI {
	k := KPI{TotalOrders: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case store.StatusDone:
			k.CompletedOrders++
		case store.StatusReady, store.StatusAssembly, store.StatusInspection, store.StatusPack:
			k.InProgress++
		case store.StatusPlanned:
			k.Planned++
		}
	}
	if k.TotalOrders > 0 {
		k.CompletionRate = round1(float64(k.CompletedOrders) / float64(k.TotalOrders) * 100)
	}
	var sum float64
	var n int
	for _, m := range metrics {
		if m.hasDeviation {
			sum += m.deviation
			n++
		}
	}
	if n > 0 {
		k.AvgDeviationRate = round2(sum / float64(n))
	}
	return k
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }
func round2(f float64) float64 { return math.Round(f*100) / 100 }
