// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/mindgrove/cortex/internal/domain/profile"
	"github.com/mindgrove/cortex/internal/domain/recommend"
	"github.com/mindgrove/cortex/pkg/metrics"
)

// RecommendDependencies defines the interface for recommendations.
type RecommendDependencies interface {
	Recommend(ctx context.Context, m profile.Metrics, goal string) (recommend.Result, error)
}

// RecommendHandler handles recommendation requests.
type RecommendHandler struct {
	deps RecommendDependencies
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(deps RecommendDependencies) *RecommendHandler {
	return &RecommendHandler{deps: deps}
}

// recommendRequest mirrors the request schema for POST /v1/recommendations.
type recommendRequest struct {
	Memory         *float64 `json:"memory"`
	Attention      *float64 `json:"attention"`
	ReactionTime   *float64 `json:"reaction_time"`
	ProblemSolving *float64 `json:"problem_solving"`
	Goal           string   `json:"goal"`
}

func (c recommendRequest) validate() error {
	for _, f := range []struct {
		name  string
		value *float64
	}{
		{"memory", c.Memory},
		{"attention", c.Attention},
		{"reaction_time", c.ReactionTime},
		{"problem_solving", c.ProblemSolving},
	} {
		if f.value == nil {
			return fmt.Errorf("missing required field: %s", f.name)
		}
	}
	return nil
}

func (c recommendRequest) metrics() profile.Metrics {
	return profile.Metrics{
		Memory:         *c.Memory,
		Attention:      *c.Attention,
		ReactionTime:   *c.ReactionTime,
		ProblemSolving: *c.ProblemSolving,
	}
}

// HandleRecommend handles POST /v1/recommendations requests.
func (h *RecommendHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	const op = "api.recommendations"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RecordValidationError()
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		metrics.RecordValidationError()
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result, err := h.deps.Recommend(r.Context(), req.metrics(), req.Goal)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
