package handlers

import (
	"context"
	"net/http"

	"github.com/lucasmonteiro/agendei/pkg/logging"
)

// BackendChecker reports whether the appointments backend answers.
type BackendChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler answers liveness and backend-reachability probes.
type HealthHandler struct {
	backend BackendChecker
	logger  *logging.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(backend BackendChecker, logger *logging.Logger) *HealthHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &HealthHandler{backend: backend, logger: logger}
}

// Live handles GET /health. It only says the process is up.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Backend handles GET /health/backend. A failing backend turns the page
// read-only, so operators get a dedicated probe for it.
func (h *HealthHandler) Backend(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.Health(r.Context()); err != nil {
		h.logger.Warn("backend health check failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
