// Package training regenerates the trained artifact set from a fixed
// synthetic recipe. Training is deterministic for a given seed, so a store
// with missing artifacts can always be rebuilt into an equivalent model
// instead of failing.
package training

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mindgrove/cortex/internal/adapters/repository"
	"github.com/mindgrove/cortex/internal/domain/artifact"
	"github.com/mindgrove/cortex/pkg/metrics"
)

// Default recipe sizes.
const (
	defaultSeed              = 42
	defaultClassifierSamples = 1000
	defaultPredictorSeries   = 500
	predictorWindow          = 3
)

// Trainer builds artifact sets from the synthetic recipe.
type Trainer struct {
	seed              int64
	classifierSamples int
	predictorSeries   int
}

// Option applies a configuration option to the Trainer.
type Option func(*Trainer)

// WithSeed sets the recipe seed.
func WithSeed(seed int64) Option {
	return func(t *Trainer) {
		t.seed = seed
	}
}

// WithClassifierSamples sets the number of synthetic classifier rows.
func WithClassifierSamples(n int) Option {
	return func(t *Trainer) {
		if n > 0 {
			t.classifierSamples = n
		}
	}
}

// WithPredictorSeries sets the number of synthetic score series.
func WithPredictorSeries(n int) Option {
	return func(t *Trainer) {
		if n > 0 {
			t.predictorSeries = n
		}
	}
}

// NewTrainer creates a trainer with the default recipe.
func NewTrainer(opts ...Option) *Trainer {
	t := &Trainer{
		seed:              defaultSeed,
		classifierSamples: defaultClassifierSamples,
		predictorSeries:   defaultPredictorSeries,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Train builds a complete artifact set from the synthetic recipe.
func (t *Trainer) Train(ctx context.Context) (*artifact.Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("training cancelled: %w", err)
	}
	rng := rand.New(rand.NewSource(t.seed)) //nolint:gosec // deterministic recipe by design

	// Classifier: synthetic profiles, fitted scaler, sorted label codec,
	// gini tree over standardized features.
	samples := syntheticProfiles(rng, t.classifierSamples)

	x := make([][]float64, len(samples))
	labels := make([]string, len(samples))
	for i, s := range samples {
		x[i] = s.features
		labels[i] = s.label
	}

	scaler := fitScaler(x)
	codec := fitLabelCodec(labels)

	scaled := make([][]float64, len(x))
	y := make([]int, len(x))
	for i, row := range x {
		scaled[i] = scaler.Transform(row)
		cls, ok := codec.Encode(labels[i])
		if !ok {
			return nil, fmt.Errorf("%w: label %q", ErrTraining, labels[i])
		}
		y[i] = cls
	}
	classifier := growTree(scaled, y, len(codec.Classes))

	// Progress predictor: regress the final score of each synthetic series
	// on the three scores preceding it.
	windows := make([][]float64, 0, t.predictorSeries)
	targets := make([]float64, 0, t.predictorSeries)
	for i := 0; i < t.predictorSeries; i++ {
		series := syntheticSeries(rng)
		n := len(series)
		windows = append(windows, series[n-1-predictorWindow:n-1])
		targets = append(targets, series[n-1])
	}
	predictor := fitWindowRegressor(windows, targets)
	if predictor == nil {
		return nil, fmt.Errorf("%w: degenerate predictor design matrix", ErrTraining)
	}

	return &artifact.Set{
		ID:         uuid.New().String(),
		TrainedAt:  time.Now().UTC(),
		Classifier: classifier,
		Scaler:     scaler,
		Labels:     codec,
		Predictor:  predictor,
	}, nil
}

// fitLabelCodec builds the class index mapping over the distinct labels,
// sorted alphabetically so encodings are stable across retrains.
func fitLabelCodec(labels []string) *artifact.LabelCodec {
	seen := make(map[string]struct{})
	var classes []string
	for _, l := range labels {
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			classes = append(classes, l)
		}
	}
	sort.Strings(classes)
	return &artifact.LabelCodec{Classes: classes}
}

// Bootstrap loads the artifact set from the store, retraining and saving it
// when any artifact is absent. It returns the set and whether a retrain
// happened.
func Bootstrap(ctx context.Context, store repository.Store, opts ...Option) (*artifact.Set, bool, error) {
	set, err := LoadSet(ctx, store)
	if err == nil && set.Complete() {
		return set, false, nil
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	set, err = NewTrainer(opts...).Train(ctx)
	if err != nil {
		return nil, false, err
	}
	if err := SaveSet(ctx, store, set); err != nil {
		return nil, false, err
	}
	return set, true, nil
}

// storedMeta carries snapshot identity alongside the scaler record.
type storedMeta struct {
	ID        string    `json:"id"`
	TrainedAt time.Time `json:"trained_at"`
}

type storedScaler struct {
	storedMeta
	*artifact.Scaler
}

// LoadSet reads and decodes all four artifacts from the store.
func LoadSet(ctx context.Context, store repository.Store) (*artifact.Set, error) {
	set := &artifact.Set{}

	var scaler storedScaler
	if err := loadJSON(ctx, store, artifact.NameScaler, &scaler); err != nil {
		return nil, err
	}
	set.ID = scaler.ID
	set.TrainedAt = scaler.TrainedAt
	set.Scaler = scaler.Scaler

	classifier := &artifact.Classifier{}
	if err := loadJSON(ctx, store, artifact.NameClassifier, classifier); err != nil {
		return nil, err
	}
	set.Classifier = classifier

	labels := &artifact.LabelCodec{}
	if err := loadJSON(ctx, store, artifact.NameLabelCodec, labels); err != nil {
		return nil, err
	}
	set.Labels = labels

	predictor := &artifact.Regressor{}
	if err := loadJSON(ctx, store, artifact.NamePredictor, predictor); err != nil {
		return nil, err
	}
	set.Predictor = predictor

	return set, nil
}

// SaveSet encodes and persists all four artifacts.
func SaveSet(ctx context.Context, store repository.Store, set *artifact.Set) error {
	if !set.Complete() {
		return fmt.Errorf("%w: incomplete artifact set", ErrTraining)
	}
	scaler := storedScaler{
		storedMeta: storedMeta{ID: set.ID, TrainedAt: set.TrainedAt},
		Scaler:     set.Scaler,
	}
	if err := saveJSON(ctx, store, artifact.NameScaler, scaler); err != nil {
		return err
	}
	if err := saveJSON(ctx, store, artifact.NameClassifier, set.Classifier); err != nil {
		return err
	}
	if err := saveJSON(ctx, store, artifact.NameLabelCodec, set.Labels); err != nil {
		return err
	}
	return saveJSON(ctx, store, artifact.NamePredictor, set.Predictor)
}

func loadJSON(ctx context.Context, store repository.Store, name string, v any) error {
	start := time.Now()
	data, err := store.Load(ctx, name)
	metrics.RecordStoreReadLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			metrics.RecordStoreError()
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode artifact %s: %w", name, err)
	}
	return nil
}

func saveJSON(ctx context.Context, store repository.Store, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode artifact %s: %w", name, err)
	}
	start := time.Now()
	err = store.Save(ctx, name, data)
	metrics.RecordStoreWriteLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordStoreError()
	}
	return err
}
