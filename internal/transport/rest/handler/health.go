package handler

import (
	"net/http"

	"eunoia/internal/service"
)

const projectName = "Eunoia AI Backend"

// HealthHandler serves the public status endpoints
type HealthHandler struct {
	healthSvc *service.HealthService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(healthSvc *service.HealthService) *HealthHandler {
	return &HealthHandler{healthSvc: healthSvc}
}

// Root handles GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to " + projectName,
		"status":  "running",
	})
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.healthSvc.Check(r.Context())
	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}
