package web

import (
	"net/http"

	"fiado-ledger/internal/app"
)

// apiListProducts handles GET /api/products.
func (h *Handler) apiListProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiCreateProduct handles POST /api/products.
func (h *Handler) apiCreateProduct(w http.ResponseWriter, r *http.Request) {
	var body app.ProductInput
	if !decodeJSON(w, r, &body) {
		return
	}
	p, err := h.svc.CreateProduct(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, p)
}

// apiUpdateProduct handles PUT /api/products/{id}.
func (h *Handler) apiUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var body app.ProductInput
	if !decodeJSON(w, r, &body) {
		return
	}
	p, err := h.svc.UpdateProduct(r.Context(), pathID(r), body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

// apiDeleteProduct handles DELETE /api/products/{id}.
func (h *Handler) apiDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(r.Context(), pathID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apiRestoreProducts handles POST /api/products/restore-defaults.
func (h *Handler) apiRestoreProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.RestoreStarterCatalog(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
