package web

import (
	"fmt"
	"net/http"
	"strconv"
)

// apiDashboard handles GET /api/dashboard.
func (h *Handler) apiDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetDashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiPaymentMethods handles GET /api/payment-methods.
func (h *Handler) apiPaymentMethods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string][]string{"paymentMethods": h.svc.PaymentMethods()})
}

// apiExport handles GET /api/export?format=csv|xlsx as a file download.
func (h *Handler) apiExport(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Export(r.Context(), r.URL.Query().Get("format"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	_, _ = w.Write(result.Data)
}
