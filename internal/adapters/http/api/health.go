// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	statsProvider StatsProvider
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(statsProvider StatsProvider) *HealthHandler {
	return &HealthHandler{statsProvider: statsProvider}
}

type healthResponse struct {
	Status string `json:"status"`
}

// HandleHealth handles GET /healthz requests. It reports 503 until the
// catalog has been loaded.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	if started, _ := h.statsProvider.GetStats()["started"].(bool); !started {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "starting"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
