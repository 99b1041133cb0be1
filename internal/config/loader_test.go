package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/mindgrove/cortex/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":5001")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.DataDir, convey.ShouldEqual, "data/models")
				convey.So(cfg.TrainingSeed, convey.ShouldEqual, 42)
				convey.So(cfg.ClassifierSamples, convey.ShouldEqual, 1000)
				convey.So(cfg.PredictorSeries, convey.ShouldEqual, 500)
				convey.So(cfg.RetrainOnReload, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CORTEX_ADDR", ":8080")
			_ = os.Setenv("CORTEX_DATA_DIR", "/tmp/models")
			_ = os.Setenv("CORTEX_TRAINING_SEED", "7")
			_ = os.Setenv("CORTEX_CLASSIFIER_SAMPLES", "250")
			_ = os.Setenv("CORTEX_RETRAIN_ON_RELOAD", "true")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/tmp/models")
				convey.So(cfg.TrainingSeed, convey.ShouldEqual, 7)
				convey.So(cfg.ClassifierSamples, convey.ShouldEqual, 250)
				convey.So(cfg.PredictorSeries, convey.ShouldEqual, 500)
				convey.So(cfg.RetrainOnReload, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
log_level: "debug"
data_dir: "/var/lib/cortex"
classifier_samples: 400
predictor_series: 200
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CORTEX_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/var/lib/cortex")
				convey.So(cfg.ClassifierSamples, convey.ShouldEqual, 400)
				convey.So(cfg.PredictorSeries, convey.ShouldEqual, 200)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
classifier_samples: 400
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CORTEX_CONFIG", tmpFile)
			_ = os.Setenv("CORTEX_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.ClassifierSamples, convey.ShouldEqual, 400)
				convey.So(cfg.PredictorSeries, convey.ShouldEqual, 500)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("CORTEX_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("CORTEX_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with too few training samples", func() {
			_ = os.Setenv("CORTEX_CLASSIFIER_SAMPLES", "5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
				convey.So(err.Error(), convey.ShouldContainSubstring, "classifier_samples must be at least 10")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with too few training series", func() {
			_ = os.Setenv("CORTEX_PREDICTOR_SERIES", "3")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "predictor_series must be at least 10")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"CORTEX_CONFIG",
		"CORTEX_ADDR",
		"CORTEX_LOG_LEVEL",
		"CORTEX_DATA_DIR",
		"CORTEX_TRAINING_SEED",
		"CORTEX_CLASSIFIER_SAMPLES",
		"CORTEX_PREDICTOR_SERIES",
		"CORTEX_RETRAIN_ON_RELOAD",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "cortex-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
