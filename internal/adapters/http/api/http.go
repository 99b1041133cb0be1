// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mindgrove/cortex/internal/domain/artifact"
	"github.com/mindgrove/cortex/internal/domain/classify"
	"github.com/mindgrove/cortex/internal/domain/forecast"
	"github.com/mindgrove/cortex/internal/domain/profile"
	"github.com/mindgrove/cortex/internal/domain/recommend"
	"github.com/mindgrove/cortex/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Classify maps a performance sample to a skill tier.
	Classify(ctx context.Context, sample profile.Sample) (classify.Result, error)

	// Recommend produces personalized activity recommendations.
	Recommend(ctx context.Context, m profile.Metrics, goal string) (recommend.Result, error)

	// Forecast predicts the next score for a session history.
	Forecast(ctx context.Context, scores []float64, dates []time.Time) (forecast.Result, error)

	// Reload refreshes the artifact snapshot.
	Reload(ctx context.Context) (*artifact.Set, bool, error)

	// ArtifactStatus reports per-artifact presence.
	ArtifactStatus(ctx context.Context) map[string]bool

	// ModelsLoaded reports whether a complete snapshot is being served.
	ModelsLoaded(ctx context.Context) bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	classifyHandler  *ClassifyHandler
	recommendHandler *RecommendHandler
	forecastHandler  *ForecastHandler
	reloadHandler    *ReloadHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(deps),
		statsHandler:     NewStatsHandler(statsProvider),
		classifyHandler:  NewClassifyHandler(deps),
		recommendHandler: NewRecommendHandler(deps),
		forecastHandler:  NewForecastHandler(deps),
		reloadHandler:    NewReloadHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", instrument(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", instrument(s.statsHandler.HandleStats, "stats"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/v1/classify", instrument(s.classifyHandler.HandleClassify, "classify"))
	mux.HandleFunc("/v1/recommendations", instrument(s.recommendHandler.HandleRecommend, "recommendations"))
	mux.HandleFunc("/v1/forecast", instrument(s.forecastHandler.HandleForecast, "forecast"))
	mux.HandleFunc("/v1/models/reload", instrument(s.reloadHandler.HandleReload, "models_reload"))
}

// instrument applies the standard middleware chain to a handler.
func instrument(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return MetricsMiddleware(RequestIDMiddleware(next), endpoint)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates domain errors into their HTTP shape: invalid
// input becomes 400, a missing artifact snapshot 503, anything else 500.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, profile.ErrOutOfRange),
		errors.Is(err, forecast.ErrTooFewScores),
		errors.Is(err, forecast.ErrLengthMismatch):
		metrics.RecordValidationError()
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, artifact.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "model_unavailable", WrapKind(op, ErrModelUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}
