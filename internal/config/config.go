// Package config loads soccermetrics settings from defaults, an optional YAML
// file and SOCCERMETRICS_* environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/MarijnSt/soccermatics-project-1/internal/logger"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

const envPrefix = "SOCCERMETRICS_"

// Config holds process configuration.
type Config struct {
	// DBPath is the sqlite database file.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// ShotWindowSeconds is how long after a dribble a shot still makes it a danger dribble.
	ShotWindowSeconds int `koanf:"shot_window_seconds"`

	// Workers bounds how many matches are aggregated concurrently.
	Workers int `koanf:"workers"`

	// MetricsFile, when set, receives a Prometheus text dump after ingest.
	MetricsFile string `koanf:"metrics_file"`

	// DataDir is the root of a StatsBomb open-data checkout.
	DataDir string `koanf:"data_dir"`

	CompetitionID int `koanf:"competition_id"`
	SeasonID      int `koanf:"season_id"`
}

// New returns a Config filled with defaults.
func New() *Config {
	return &Config{
		DBPath:            "soccermetrics.db",
		LogLevel:          "info",
		ShotWindowSeconds: 15,
		Workers:           runtime.NumCPU(),
		// UEFA Euro 2024 in the open-data set.
		CompetitionID: 55,
		SeasonID:      282,
	}
}

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. YAML file at path, or at $SOCCERMETRICS_CONFIG when path is empty
//  3. env (prefix SOCCERMETRICS_)
func Load(_ context.Context, path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(envPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// SOCCERMETRICS_SHOT_WINDOW_SECONDS -> shot_window_seconds
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load config env: %w", err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	}
	if c.ShotWindowSeconds <= 0 {
		return fmt.Errorf("%w: shot_window_seconds must be positive, got %d", ErrInvalidConfig, c.ShotWindowSeconds)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
