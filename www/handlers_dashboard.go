package www

import (
	"net/http"
)

func (h *Handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dash.Snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	msgOK := h.msg != nil && h.msg.IsConnected()

	data := map[string]any{
		"Page":          "dashboard",
		"Snapshot":      snap,
		"KPI":           snap.KPI,
		"Prediction":    snap.Prediction,
		"MessagingOK":   msgOK,
		"Authenticated": h.isAuthenticated(r),
	}
	h.render(w, "dashboard.html", data)
}
