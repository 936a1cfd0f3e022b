package handler

import (
	"net/http"

	"github.com/catslideshow/api/internal/api/response"
)

// HealthHandler handles the GET /healthz liveness probe.
type HealthHandler struct {
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

type healthData struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, healthData{Status: "ok", Version: h.version})
}
