package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"fiado-ledger/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService, the chi router, and the text-generation task store.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
	tasks  *taskStore
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins []string) http.Handler {
	h := &Handler{
		svc:   svc,
		tasks: newTaskStore(),
	}
	h.tasks.startPurge(context.Background())

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/api/health", h.health)
	r.Get("/api/dashboard", h.apiDashboard)
	r.Get("/api/payment-methods", h.apiPaymentMethods)
	r.Get("/api/export", h.apiExport)

	// ── Debtors ───────────────────────────────────────────────────────────────
	r.Get("/api/debtors", h.apiListDebtors)
	r.Post("/api/debtors", h.apiCreateDebtor)
	r.Get("/api/debtors/{id}", h.apiGetDebtor)
	r.Put("/api/debtors/{id}", h.apiUpdateDebtor)
	r.Delete("/api/debtors/{id}", h.apiDeleteDebtor)
	r.Post("/api/debtors/{id}/debts", h.apiRecordDebt)
	r.Post("/api/debtors/{id}/payments", h.apiRecordPayment)

	// ── Products ──────────────────────────────────────────────────────────────
	r.Get("/api/products", h.apiListProducts)
	r.Post("/api/products", h.apiCreateProduct)
	r.Post("/api/products/restore-defaults", h.apiRestoreProducts)
	r.Put("/api/products/{id}", h.apiUpdateProduct)
	r.Delete("/api/products/{id}", h.apiDeleteProduct)

	// ── Text generation ───────────────────────────────────────────────────────
	r.Post("/api/debtors/{id}/ai/reminder", h.apiStartReminder)
	r.Post("/api/debtors/{id}/ai/analysis", h.apiStartAnalysis)
	r.Get("/api/ai/tasks/{taskID}", h.apiGetTask)
	r.Delete("/api/ai/tasks/{taskID}", h.apiCancelTask)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, "route not found", "NOT_FOUND", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, "method not allowed", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
	})

	h.router = r
	return r
}

// health returns service status and the running version.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	writeJSON(w, response{Status: "ok", Version: h.svc.Version()})
}

// pathID extracts the {id} URL parameter.
func pathID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
