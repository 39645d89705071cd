package www

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"mescore/progress"
	"mescore/store"
)

func (h *Handlers) handleOrders(w http.ResponseWriter, r *http.Request) {
	orders, _ := h.db.ListWorkOrders()
	products, _ := h.db.ListProducts()

	data := map[string]any{
		"Page":          "orders",
		"Orders":        orders,
		"Products":      products,
		"StatusLabels":  store.StatusLabels,
		"Authenticated": h.isAuthenticated(r),
	}
	h.render(w, "orders.html", data)
}

func (h *Handlers) handleOrderDetail(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing order id", http.StatusBadRequest)
		return
	}

	order, err := h.db.GetWorkOrderDetail(id)
	if err != nil {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}

	results, _ := h.db.ListOrderResults(id)
	inspections, _ := h.db.ListInspections()
	var orderInspections []*store.InspectionWithProduct
	for _, in := range inspections {
		if in.OrderID == id {
			orderInspections = append(orderInspections, in)
		}
	}

	data := map[string]any{
		"Page":          "orders",
		"Order":         order,
		"Results":       results,
		"Inspections":   orderInspections,
		"Authenticated": h.isAuthenticated(r),
	}
	h.render(w, "order_detail.html", data)
}

func (h *Handlers) handleOrderCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	plannedQty, err := strconv.Atoi(r.FormValue("planned_qty"))
	if err != nil || plannedQty <= 0 {
		http.Error(w, "planned quantity must be a positive number", http.StatusBadRequest)
		return
	}
	dueDate, err := time.ParseInLocation("2006-01-02", r.FormValue("due_date"), time.Local)
	if err != nil {
		http.Error(w, "invalid due date", http.StatusBadRequest)
		return
	}

	order := &store.WorkOrder{
		ProductID:  r.FormValue("product_id"),
		PlannedQty: plannedQty,
		DueDate:    dueDate,
	}
	if err := h.db.CreateWorkOrder(order); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.eventHub.Broadcast("order-update", fmt.Sprintf(`{"type":"created","order_id":"%s"}`, order.ID))
	h.dash.Invalidate(r.Context())
	http.Redirect(w, r, "/orders", http.StatusSeeOther)
}

func (h *Handlers) handleOrderUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := r.FormValue("id")
	plannedQty, err := strconv.Atoi(r.FormValue("planned_qty"))
	if err != nil || plannedQty <= 0 {
		http.Error(w, "planned quantity must be a positive number", http.StatusBadRequest)
		return
	}
	dueDate, err := time.ParseInLocation("2006-01-02", r.FormValue("due_date"), time.Local)
	if err != nil {
		http.Error(w, "invalid due date", http.StatusBadRequest)
		return
	}

	if err := h.db.UpdateWorkOrderPlan(id, plannedQty, dueDate); err != nil {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}

	h.eventHub.Broadcast("order-update", fmt.Sprintf(`{"type":"updated","order_id":"%s"}`, id))
	h.dash.Invalidate(r.Context())
	http.Redirect(w, r, "/orders/detail?id="+id, http.StatusSeeOther)
}

func (h *Handlers) handleOrderDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := r.FormValue("id")
	if err := h.db.DeleteWorkOrder(id); err != nil {
		// Orders with recorded inspections are kept for traceability.
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	h.eventHub.Broadcast("order-update", fmt.Sprintf(`{"type":"deleted","order_id":"%s"}`, id))
	h.dash.Invalidate(r.Context())
	http.Redirect(w, r, "/orders", http.StatusSeeOther)
}

func (h *Handlers) handleProgress(w http.ResponseWriter, r *http.Request) {
	orders, _ := h.db.ListOpenWorkOrders()
	operations, _ := h.db.ListOperations()
	equipment, _ := h.db.ListEquipment(true)

	data := map[string]any{
		"Page":          "progress",
		"Orders":        orders,
		"Operations":    operations,
		"Equipment":     equipment,
		"Authenticated": h.isAuthenticated(r),
	}
	h.render(w, "progress.html", data)
}

func (h *Handlers) handleProgressAdvance(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	orderID := r.FormValue("order_id")
	operationSeq, err := strconv.Atoi(r.FormValue("operation_seq"))
	if err != nil {
		http.Error(w, "invalid operation", http.StatusBadRequest)
		return
	}
	equipmentID := r.FormValue("equipment_id")

	if err := h.progress.Advance(orderID, operationSeq, equipmentID); err != nil {
		if errors.Is(err, progress.ErrOrderNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.eventHub.Broadcast("order-update", fmt.Sprintf(`{"type":"advanced","order_id":"%s","operation_seq":%d}`, orderID, operationSeq))
	h.dash.Invalidate(r.Context())
	http.Redirect(w, r, "/progress", http.StatusSeeOther)
}

func (h *Handlers) handleResults(w http.ResponseWriter, r *http.Request) {
	results, _ := h.db.ListWorkResults()

	data := map[string]any{
		"Page":          "results",
		"Results":       results,
		"Authenticated": h.isAuthenticated(r),
	}
	h.render(w, "results.html", data)
}
