// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	repository "github.com/mindgrove/cortex/internal/adapters/repository"
	"github.com/mindgrove/cortex/internal/domain/artifact"
	"github.com/mindgrove/cortex/internal/domain/classify"
	"github.com/mindgrove/cortex/internal/domain/forecast"
	"github.com/mindgrove/cortex/internal/domain/profile"
	"github.com/mindgrove/cortex/internal/domain/recommend"
	"github.com/mindgrove/cortex/internal/domain/training"
	"github.com/mindgrove/cortex/pkg/logger"
	"github.com/mindgrove/cortex/pkg/metrics"
)

// Service implements the API dependencies for the analytics system. Trained
// artifacts are published as one immutable snapshot; requests read whatever
// snapshot is current and a reload swaps the pointer atomically.
type Service struct {
	mu sync.Mutex

	// Core components
	store      repository.Store
	engine     *recommend.Engine
	forecaster *forecast.Forecaster
	snapshot   atomic.Pointer[artifact.Set]

	// Configuration
	dataDir           string
	inMemoryStore     bool
	trainingSeed      int64
	classifierSamples int
	predictorSeries   int
	retrainOnReload   bool

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataDir sets the artifact store path.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithInMemoryStore keeps artifacts in memory instead of on disk.
func WithInMemoryStore() Option {
	return func(s *Service) {
		s.inMemoryStore = true
	}
}

// WithTrainingSeed sets the synthetic training seed.
func WithTrainingSeed(seed int64) Option {
	return func(s *Service) {
		s.trainingSeed = seed
	}
}

// WithClassifierSamples sets the synthetic profile count for training.
func WithClassifierSamples(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.classifierSamples = n
		}
	}
}

// WithPredictorSeries sets the synthetic series count for training.
func WithPredictorSeries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.predictorSeries = n
		}
	}
}

// WithRetrainOnReload makes Reload retrain from scratch instead of
// re-reading stored artifacts.
func WithRetrainOnReload(retrain bool) Option {
	return func(s *Service) {
		s.retrainOnReload = retrain
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:           "data/models",
		trainingSeed:      42,
		classifierSamples: 1000,
		predictorSeries:   500,
		logger:            nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start opens the artifact store and ensures a complete artifact set is
// loaded, training one if the store is empty or partial.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting analytics service...")

	storeOpts := []repository.Option{repository.WithPath(s.dataDir)}
	if s.inMemoryStore {
		storeOpts = append(storeOpts, repository.WithInMemory())
	}
	store, err := repository.NewBadgerStore(ctx, storeOpts...)
	if err != nil {
		return err
	}
	s.store = store
	s.engine = recommend.New()
	s.forecaster = forecast.New()

	trainStart := time.Now()
	set, trained, err := training.Bootstrap(ctx, s.store, s.trainerOptions()...)
	if err != nil {
		s.store.Close()
		return err
	}
	s.publish(set)
	if trained {
		metrics.RecordTrainingRun()
		metrics.RecordTrainingDuration(float64(time.Since(trainStart).Milliseconds()))
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "analytics service started",
		logger.String("snapshot", set.ID),
		logger.Bool("trained", trained),
		logger.String("dataDir", s.dataDir),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping analytics service...")

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "artifact store close failed", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "analytics service stopped")
}

func (s *Service) trainerOptions() []training.Option {
	return []training.Option{
		training.WithSeed(s.trainingSeed),
		training.WithClassifierSamples(s.classifierSamples),
		training.WithPredictorSeries(s.predictorSeries),
	}
}

// publish swaps in a new artifact snapshot and refreshes the lifecycle gauges.
func (s *Service) publish(set *artifact.Set) {
	s.snapshot.Store(set)

	loaded := 0
	for _, present := range set.Status() {
		if present {
			loaded++
		}
	}
	metrics.UpdateArtifactsLoaded(loaded)
	metrics.UpdateModelAge(time.Since(set.TrainedAt).Seconds())
}

// Classify runs the tier classifier against the current snapshot.
func (s *Service) Classify(ctx context.Context, sample profile.Sample) (classify.Result, error) {
	start := time.Now()
	result, err := classify.Classify(s.snapshot.Load(), sample)
	if err != nil {
		metrics.RecordPredictionError()
		return classify.Result{}, err
	}
	metrics.RecordClassification(result.CognitiveType)
	metrics.RecordPredictionLatency(float64(time.Since(start).Microseconds()) / 1000)

	s.logger.Debug(ctx, "classified sample",
		logger.String("tier", result.CognitiveType),
		logger.Float64("confidence", result.Confidence),
	)
	return result, nil
}

// Recommend produces personalized activity recommendations.
func (s *Service) Recommend(ctx context.Context, m profile.Metrics, goal string) (recommend.Result, error) {
	result, err := s.engine.Recommend(m, goal)
	if err != nil {
		metrics.RecordPredictionError()
		return recommend.Result{}, err
	}
	metrics.RecordRecommendation()

	s.logger.Debug(ctx, "generated recommendations",
		logger.Int("activities", len(result.RecommendedActivities)),
		logger.String("goal", goal),
	)
	return result, nil
}

// Forecast predicts the next score for a session history.
func (s *Service) Forecast(ctx context.Context, scores []float64, dates []time.Time) (forecast.Result, error) {
	start := time.Now()
	result, err := s.forecaster.Forecast(s.snapshot.Load(), scores, dates)
	if err != nil {
		metrics.RecordPredictionError()
		return forecast.Result{}, err
	}
	metrics.RecordForecast()
	metrics.RecordPredictionLatency(float64(time.Since(start).Microseconds()) / 1000)

	s.logger.Debug(ctx, "generated forecast",
		logger.Float64("predicted", result.PredictedScoreNextWeek),
		logger.String("trend", result.Trend),
	)
	return result, nil
}

// Reload refreshes the artifact snapshot, either by re-reading the store or
// by retraining depending on configuration. Concurrent requests keep serving
// the previous snapshot until the swap.
func (s *Service) Reload(ctx context.Context) (*artifact.Set, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, false, artifact.ErrUnavailable
	}

	var (
		set     *artifact.Set
		trained bool
		err     error
	)
	trainStart := time.Now()
	if s.retrainOnReload {
		set, err = training.NewTrainer(s.trainerOptions()...).Train(ctx)
		if err == nil {
			err = training.SaveSet(ctx, s.store, set)
			trained = true
		}
	} else {
		set, trained, err = training.Bootstrap(ctx, s.store, s.trainerOptions()...)
	}
	if err != nil {
		return nil, false, err
	}

	s.publish(set)
	metrics.RecordModelReload()
	if trained {
		metrics.RecordTrainingRun()
		metrics.RecordTrainingDuration(float64(time.Since(trainStart).Milliseconds()))
	}

	s.logger.Info(ctx, "artifact snapshot reloaded",
		logger.String("snapshot", set.ID),
		logger.Bool("trained", trained),
	)
	return set, trained, nil
}

// ArtifactStatus reports per-artifact presence of the current snapshot.
func (s *Service) ArtifactStatus(ctx context.Context) map[string]bool {
	return s.snapshot.Load().Status()
}

// ModelsLoaded reports whether a complete snapshot is being served.
func (s *Service) ModelsLoaded(ctx context.Context) bool {
	return s.snapshot.Load().Complete()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]interface{}{
		"started":            s.started,
		"training_seed":      s.trainingSeed,
		"classifier_samples": s.classifierSamples,
		"predictor_series":   s.predictorSeries,
	}

	if set := s.snapshot.Load(); set != nil {
		stats["snapshot_id"] = set.ID
		stats["trained_at"] = set.TrainedAt
		stats["models_loaded"] = set.Complete()
		metrics.UpdateModelAge(time.Since(set.TrainedAt).Seconds())
	}
	if s.started {
		stats["uptime_seconds"] = int64(time.Since(s.startedAt).Seconds())
	}

	return stats
}
