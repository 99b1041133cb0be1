// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/mindgrove/cortex/internal/domain/classify"
	"github.com/mindgrove/cortex/internal/domain/profile"
	"github.com/mindgrove/cortex/pkg/metrics"
)

// ClassifyDependencies defines the interface for classification.
type ClassifyDependencies interface {
	Classify(ctx context.Context, sample profile.Sample) (classify.Result, error)
}

// ClassifyHandler handles classification requests.
type ClassifyHandler struct {
	deps ClassifyDependencies
}

// NewClassifyHandler creates a new classify handler.
func NewClassifyHandler(deps ClassifyDependencies) *ClassifyHandler {
	return &ClassifyHandler{deps: deps}
}

// classifyRequest mirrors the request schema for POST /v1/classify. Pointer
// fields distinguish absent keys from zero values.
type classifyRequest struct {
	Memory         *float64 `json:"memory"`
	Attention      *float64 `json:"attention"`
	ReactionTime   *float64 `json:"reaction_time"`
	ProblemSolving *float64 `json:"problem_solving"`
	Age            *float64 `json:"age"`
}

func (c classifyRequest) validate() error {
	for _, f := range []struct {
		name  string
		value *float64
	}{
		{"memory", c.Memory},
		{"attention", c.Attention},
		{"reaction_time", c.ReactionTime},
		{"problem_solving", c.ProblemSolving},
		{"age", c.Age},
	} {
		if f.value == nil {
			return fmt.Errorf("missing required field: %s", f.name)
		}
	}
	return nil
}

func (c classifyRequest) sample() profile.Sample {
	return profile.Sample{
		Metrics: profile.Metrics{
			Memory:         *c.Memory,
			Attention:      *c.Attention,
			ReactionTime:   *c.ReactionTime,
			ProblemSolving: *c.ProblemSolving,
		},
		Age: int(*c.Age),
	}
}

// HandleClassify handles POST /v1/classify requests.
func (h *ClassifyHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	const op = "api.classify"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req classifyRequest
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

	result, err := h.deps.Classify(r.Context(), req.sample())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
