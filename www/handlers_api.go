package www

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"mescore/predict"
)

func (h *Handlers) apiHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.jsonOK(w, map[string]any{
		"status":    "ok",
		"messaging": h.msg != nil && h.msg.IsConnected(),
	})
}

func (h *Handlers) apiDBHealthCheck(w http.ResponseWriter, r *http.Request) {
	count, err := h.db.CountWorkResults()
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, map[string]any{
		"status":       "ok",
		"driver":       h.db.Driver(),
		"work_results": count,
	})
}

func (h *Handlers) apiListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.db.ListProducts()
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, products)
}

func (h *Handlers) apiListEquipment(w http.ResponseWriter, r *http.Request) {
	enabledOnly := r.URL.Query().Get("enabled") == "true"
	equipment, err := h.db.ListEquipment(enabledOnly)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, equipment)
}

func (h *Handlers) apiListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.db.ListWorkOrders()
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, orders)
}

func (h *Handlers) apiGetOrder(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.jsonError(w, "missing id", http.StatusBadRequest)
		return
	}
	order, err := h.db.GetWorkOrderDetail(id)
	if err != nil {
		h.jsonError(w, "not found", http.StatusNotFound)
		return
	}
	results, _ := h.db.ListOrderResults(id)
	h.jsonOK(w, map[string]any{
		"order":   order,
		"results": results,
	})
}

func (h *Handlers) apiListResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.db.ListWorkResults()
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, results)
}

func (h *Handlers) apiListInspections(w http.ResponseWriter, r *http.Request) {
	var err error
	var inspections any
	if r.URL.Query().Get("pending") == "true" {
		inspections, err = h.db.ListPendingInspections()
	} else {
		inspections, err = h.db.ListInspections()
	}
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, inspections)
}

func (h *Handlers) apiListQualityResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.db.ListQualityResults()
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, results)
}

func (h *Handlers) apiDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dash.Snapshot(r.Context())
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, snap)
}

// apiPredictModels reports the training metadata of the loaded models.
func (h *Handlers) apiPredictModels(w http.ResponseWriter, r *http.Request) {
	if h.models == nil {
		h.jsonError(w, "prediction models not loaded", http.StatusServiceUnavailable)
		return
	}
	h.jsonOK(w, map[string]any{
		"production_qty": h.models.Quantity.Info(),
		"work_time":      h.models.WorkTime.Info(),
	})
}

// apiPredictProduction forecasts completed quantity for the given date
// (default tomorrow). Sundays and thin history come back as 400s with the
// reason, matching what the predictor can actually answer.
func (h *Handlers) apiPredictProduction(w http.ResponseWriter, r *http.Request) {
	if h.models == nil {
		h.jsonError(w, "prediction models not loaded", http.StatusServiceUnavailable)
		return
	}

	target := time.Now().AddDate(0, 0, 1)
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, time.Local)
		if err != nil {
			h.jsonError(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		target = parsed
	}

	forecast, err := h.models.Quantity.Forecast(target)
	if err != nil {
		if errors.Is(err, predict.ErrSunday) || errors.Is(err, predict.ErrInsufficientHistory) {
			h.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, forecast)
}

func (h *Handlers) apiPredictWorkTime(w http.ResponseWriter, r *http.Request) {
	if h.models == nil {
		h.jsonError(w, "prediction models not loaded", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		ProductID    string `json:"product_id"`
		OperationSeq int    `json:"operation_seq"`
		EquipmentID  string `json:"equipment_id"`
		PlannedQty   int    `json:"planned_qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.PlannedQty <= 0 {
		req.PlannedQty = 1
	}

	forecast, err := h.models.WorkTime.Forecast(req.ProductID, req.OperationSeq, req.EquipmentID, req.PlannedQty, time.Now())
	if err != nil {
		if errors.Is(err, predict.ErrUnknownProduct) || errors.Is(err, predict.ErrUnknownEquipment) {
			h.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, forecast)
}

func (h *Handlers) jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
