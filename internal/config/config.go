// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":5001".
	Addr string `koanf:"addr"`

	// DataDir is the filesystem path of the artifact store.
	DataDir string `koanf:"data_dir"`

	// TrainingSeed seeds synthetic dataset generation so that a fresh
	// process trains the same models every time.
	TrainingSeed int64 `koanf:"training_seed"`

	// ClassifierSamples is the synthetic profile count for classifier training.
	ClassifierSamples int `koanf:"classifier_samples"`

	// PredictorSeries is the synthetic series count for predictor training.
	PredictorSeries int `koanf:"predictor_series"`

	// RetrainOnReload forces a full retrain on POST /v1/models/reload
	// instead of re-reading stored artifacts.
	RetrainOnReload bool `koanf:"retrain_on_reload"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":5001",
		DataDir:           "data/models",
		TrainingSeed:      42,
		ClassifierSamples: 1000,
		PredictorSeries:   500,
		RetrainOnReload:   false,
	}
}
