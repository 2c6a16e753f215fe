// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, clients) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Qissa moderation worker.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// External speech-to-text and sentiment services (Google Cloud REST APIs).
	// An empty API key degrades gracefully: transcription reports
	// credentials_missing and sentiment screening is skipped.
	SpeechAPIBaseURL    string `env:"SPEECH_API_BASE_URL"    envDefault:"https://speech.googleapis.com"`
	SentimentAPIBaseURL string `env:"SENTIMENT_API_BASE_URL" envDefault:"https://language.googleapis.com"`
	GoogleAPIKey        string `env:"GOOGLE_API_KEY"`

	// SpeechRequestsPerMinute throttles outbound speech:recognize calls.
	SpeechRequestsPerMinute int `env:"SPEECH_REQUESTS_PER_MINUTE" envDefault:"60"`

	// Keyword dictionary cache
	KeywordCacheTTL time.Duration `env:"KEYWORD_CACHE_TTL" envDefault:"1h"`

	// Screening thresholds
	SimilarityThreshold         int     `env:"SIMILARITY_THRESHOLD"          envDefault:"80"`
	SentimentScoreThreshold     float64 `env:"SENTIMENT_SCORE_THRESHOLD"     envDefault:"-0.5"`
	SentimentMagnitudeThreshold float64 `env:"SENTIMENT_MAGNITUDE_THRESHOLD" envDefault:"1.0"`

	// Task queue policy. TaskMaxAttempts counts the first run plus retries;
	// TaskLease is how long a running task stays invisible to other claimers
	// before it is presumed orphaned.
	TaskMaxAttempts int           `env:"TASK_MAX_ATTEMPTS"    envDefault:"4"`
	TaskRetryDelay  time.Duration `env:"TASK_RETRY_DELAY"     envDefault:"60s"`
	TaskLease       time.Duration `env:"TASK_LEASE"           envDefault:"10m"`
	WorkerCount     int           `env:"WORKER_COUNT"         envDefault:"4"`
	WorkerPoll      time.Duration `env:"WORKER_POLL_INTERVAL" envDefault:"2s"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the worker is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the worker is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
