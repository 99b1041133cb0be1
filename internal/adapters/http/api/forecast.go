// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/mindgrove/cortex/internal/domain/forecast"
	"github.com/mindgrove/cortex/pkg/metrics"
)

// ForecastDependencies defines the interface for progress forecasting.
type ForecastDependencies interface {
	Forecast(ctx context.Context, scores []float64, dates []time.Time) (forecast.Result, error)
}

// ForecastHandler handles forecast requests.
type ForecastHandler struct {
	deps ForecastDependencies
}

// NewForecastHandler creates a new forecast handler.
func NewForecastHandler(deps ForecastDependencies) *ForecastHandler {
	return &ForecastHandler{deps: deps}
}

// forecastRequest mirrors the request schema for POST /v1/forecast. Scores
// arrive untyped so numeric strings can be coerced with a per-position
// error.
type forecastRequest struct {
	PastScores   []any    `json:"past_scores"`
	SessionDates []string `json:"session_dates"`
}

func (c forecastRequest) validate() error {
	if c.PastScores == nil {
		return fmt.Errorf("missing required field: past_scores")
	}
	if c.SessionDates == nil {
		return fmt.Errorf("missing required field: session_dates")
	}
	return nil
}

// scores coerces the raw score values, accepting numbers and numeric
// strings, and bounds each to [0, 100].
func (c forecastRequest) scores() ([]float64, error) {
	out := make([]float64, 0, len(c.PastScores))
	for i, raw := range c.PastScores {
		var v float64
		switch t := raw.(type) {
		case float64:
			v = t
		case string:
			parsed, err := strconv.ParseFloat(t, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid score value at position %d", i+1)
			}
			v = parsed
		default:
			return nil, fmt.Errorf("invalid score value at position %d", i+1)
		}
		if v < 0 || v > 100 {
			return nil, fmt.Errorf("score %d must be between 0 and 100", i+1)
		}
		out = append(out, v)
	}
	return out, nil
}

// dates parses session dates, accepting YYYY-MM-DD or RFC3339 timestamps
// whose date portion is used.
func (c forecastRequest) dates() ([]time.Time, error) {
	out := make([]time.Time, 0, len(c.SessionDates))
	for _, raw := range c.SessionDates {
		s := raw
		if idx := strings.IndexByte(s, 'T'); idx >= 0 {
			s = s[:idx]
		}
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("invalid date format. Use YYYY-MM-DD: %q", raw)
		}
		out = append(out, d)
	}
	return out, nil
}

// HandleForecast handles POST /v1/forecast requests.
func (h *ForecastHandler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "api.forecast"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req forecastRequest
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
	scores, err := req.scores()
	if err != nil {
		metrics.RecordValidationError()
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	dates, err := req.dates()
	if err != nil {
		metrics.RecordValidationError()
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result, err := h.deps.Forecast(r.Context(), scores, dates)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
