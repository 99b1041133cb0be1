// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"
)

// HealthDependencies defines the interface for health reporting.
type HealthDependencies interface {
	ArtifactStatus(ctx context.Context) map[string]bool
	ModelsLoaded(ctx context.Context) bool
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps HealthDependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps HealthDependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Status       string          `json:"status"`
	Timestamp    string          `json:"timestamp"`
	ModelsLoaded bool            `json:"models_loaded"`
	Artifacts    map[string]bool `json:"artifacts"`
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "healthy",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		ModelsLoaded: h.deps.ModelsLoaded(r.Context()),
		Artifacts:    h.deps.ArtifactStatus(r.Context()),
	})
}
