// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/mindgrove/cortex/internal/domain/artifact"
)

// ReloadDependencies defines the interface for model reloads.
type ReloadDependencies interface {
	Reload(ctx context.Context) (*artifact.Set, bool, error)
}

// ReloadHandler handles model reload requests.
type ReloadHandler struct {
	deps ReloadDependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps ReloadDependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

type reloadResponse struct {
	Status     string    `json:"status"`
	SnapshotID string    `json:"snapshot_id"`
	TrainedAt  time.Time `json:"trained_at"`
	Retrained  bool      `json:"retrained"`
}

// HandleReload handles POST /v1/models/reload requests.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.models_reload"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	set, trained, err := h.deps.Reload(r.Context())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{
		Status:     "reloaded",
		SnapshotID: set.ID,
		TrainedAt:  set.TrainedAt,
		Retrained:  trained,
	})
}
