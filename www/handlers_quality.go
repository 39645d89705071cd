package www

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"mescore/store"
)

func (h *Handlers) handleInspections(w http.ResponseWriter, r *http.Request) {
	inspections, _ := h.db.ListInspections()
	orders, _ := h.db.ListWorkOrders()

	data := map[string]any{
		"Page":          "inspections",
		"Inspections":   inspections,
		"Orders":        orders,
		"Authenticated": h.isAuthenticated(r),
	}
	h.render(w, "inspections.html", data)
}

func (h *Handlers) handleInspectionDetail(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing inspection id", http.StatusBadRequest)
		return
	}

	inspection, err := h.db.GetInspection(id)
	if err != nil {
		http.Error(w, "inspection not found", http.StatusNotFound)
		return
	}

	results, _ := h.db.ListInspectionResults(id)
	defectCodes, _ := h.db.ListDefectCodes()
	items, _ := h.db.ListInspectionItems()

	data := map[string]any{
		"Page":          "inspections",
		"Inspection":    inspection,
		"Results":       results,
		"DefectCodes":   defectCodes,
		"Items":         items,
		"Authenticated": h.isAuthenticated(r),
	}
	h.render(w, "inspection_detail.html", data)
}

func (h *Handlers) handleInspectionCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	orderID := r.FormValue("order_id")
	order, err := h.db.GetWorkOrder(orderID)
	if err != nil {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}

	inspectionQty, err := strconv.Atoi(r.FormValue("inspection_qty"))
	if err != nil || inspectionQty <= 0 {
		http.Error(w, "inspection quantity must be a positive number", http.StatusBadRequest)
		return
	}
	inspectionDate, err := time.ParseInLocation("2006-01-02", r.FormValue("inspection_date"), time.Local)
	if err != nil {
		inspectionDate = time.Now()
	}

	in := &store.QualityInspection{
		OrderID:        orderID,
		ProductID:      order.ProductID,
		InspectionQty:  inspectionQty,
		Inspector:      r.FormValue("inspector"),
		InspectionDate: inspectionDate,
		Notes:          r.FormValue("notes"),
	}
	if in.Inspector == "" {
		in.Inspector = h.getUsername(r)
	}
	if err := h.db.CreateInspection(in); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.eventHub.Broadcast("quality-update", fmt.Sprintf(`{"type":"inspection_created","inspection_id":"%s"}`, in.ID))
	http.Redirect(w, r, "/inspections", http.StatusSeeOther)
}

func (h *Handlers) handleInspectionUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := r.FormValue("id")
	inspectionQty, err := strconv.Atoi(r.FormValue("inspection_qty"))
	if err != nil || inspectionQty <= 0 {
		http.Error(w, "inspection quantity must be a positive number", http.StatusBadRequest)
		return
	}
	inspectionDate, err := time.ParseInLocation("2006-01-02", r.FormValue("inspection_date"), time.Local)
	if err != nil {
		http.Error(w, "invalid inspection date", http.StatusBadRequest)
		return
	}

	if err := h.db.UpdateInspection(id, inspectionQty, r.FormValue("inspector"), inspectionDate, r.FormValue("notes")); err != nil {
		http.Error(w, "inspection not found", http.StatusNotFound)
		return
	}

	http.Redirect(w, r, "/inspections/detail?id="+id, http.StatusSeeOther)
}

func (h *Handlers) handleInspectionDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := r.FormValue("id")
	if err := h.db.DeleteInspection(id); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	http.Redirect(w, r, "/inspections", http.StatusSeeOther)
}

func (h *Handlers) handleQualityResults(w http.ResponseWriter, r *http.Request) {
	results, _ := h.db.ListQualityResults()
	pending, _ := h.db.ListPendingInspections()
	defectCodes, _ := h.db.ListDefectCodes()

	data := map[string]any{
		"Page":          "quality",
		"Results":       results,
		"Pending":       pending,
		"DefectCodes":   defectCodes,
		"Authenticated": h.isAuthenticated(r),
	}
	h.render(w, "quality.html", data)
}

func (h *Handlers) handleQualityRecord(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inspectionID := r.FormValue("inspection_id")
	if _, err := h.db.GetInspection(inspectionID); err != nil {
		http.Error(w, "inspection not found", http.StatusNotFound)
		return
	}

	passedQty, err := strconv.Atoi(r.FormValue("passed_qty"))
	if err != nil || passedQty < 0 {
		http.Error(w, "invalid passed quantity", http.StatusBadRequest)
		return
	}
	defectQty, err := strconv.Atoi(r.FormValue("defect_qty"))
	if err != nil || defectQty < 0 {
		http.Error(w, "invalid defect quantity", http.StatusBadRequest)
		return
	}

	start, err := time.ParseInLocation("2006-01-02T15:04", r.FormValue("start_ts"), time.Local)
	if err != nil {
		http.Error(w, "invalid start time", http.StatusBadRequest)
		return
	}
	end, err := time.ParseInLocation("2006-01-02T15:04", r.FormValue("end_ts"), time.Local)
	if err != nil {
		http.Error(w, "invalid end time", http.StatusBadRequest)
		return
	}

	var defectCode *string
	if code := r.FormValue("defect_code"); code != "" {
		defectCode = &code
	}

	res := &store.QualityResult{
		InspectionID: inspectionID,
		Inspector:    r.FormValue("inspector"),
		PassedQty:    passedQty,
		DefectQty:    defectQty,
		DefectCode:   defectCode,
		StartTs:      start,
		EndTs:        end,
		Notes:        r.FormValue("notes"),
	}
	if res.Inspector == "" {
		res.Inspector = h.getUsername(r)
	}
	if err := h.quality.Record(res); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.eventHub.Broadcast("quality-update", fmt.Sprintf(`{"type":"result_recorded","inspection_id":"%s"}`, inspectionID))
	http.Redirect(w, r, "/quality", http.StatusSeeOther)
}
