package web

import (
	"net/http"

	"fiado-ledger/internal/app"
)

// apiListDebtors handles GET /api/debtors?search=.
func (h *Handler) apiListDebtors(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListDebtors(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiGetDebtor handles GET /api/debtors/{id}.
func (h *Handler) apiGetDebtor(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetDebtor(r.Context(), pathID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiCreateDebtor handles POST /api/debtors.
func (h *Handler) apiCreateDebtor(w http.ResponseWriter, r *http.Request) {
	var body app.DebtorInput
	if !decodeJSON(w, r, &body) {
		return
	}
	d, err := h.svc.CreateDebtor(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, d)
}

// apiUpdateDebtor handles PUT /api/debtors/{id}.
func (h *Handler) apiUpdateDebtor(w http.ResponseWriter, r *http.Request) {
	var body app.DebtorInput
	if !decodeJSON(w, r, &body) {
		return
	}
	d, err := h.svc.UpdateDebtor(r.Context(), pathID(r), body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, d)
}

// apiDeleteDebtor handles DELETE /api/debtors/{id}.
func (h *Handler) apiDeleteDebtor(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteDebtor(r.Context(), pathID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apiRecordDebt handles POST /api/debtors/{id}/debts.
func (h *Handler) apiRecordDebt(w http.ResponseWriter, r *http.Request) {
	var body app.RecordDebtRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	body.DebtorID = pathID(r)
	result, err := h.svc.RecordDebt(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// apiRecordPayment handles POST /api/debtors/{id}/payments.
func (h *Handler) apiRecordPayment(w http.ResponseWriter, r *http.Request) {
	var body app.RecordPaymentRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	body.DebtorID = pathID(r)
	result, err := h.svc.RecordPayment(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}
