// Package config provides configuration loading and validation for the match
// engine. Values come from an optional JSON file overlaid by environment
// variables; CLI flags win over both.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds every tunable the server and CLI need. All fields are
// optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Persistence
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// AI provider
	APIKey         string `json:"api_key,omitempty"`         // Gemini API key
	AnalysisModel  string `json:"analysis_model,omitempty"`  // Generative model for match analysis
	EmbeddingModel string `json:"embedding_model,omitempty"` // Embedding model for semantic similarity

	// Resume storage
	ResumeBucket string `json:"resume_bucket,omitempty"` // S3 bucket holding resume documents
	S3Endpoint   string `json:"s3_endpoint,omitempty"`   // Optional S3 endpoint override (MinIO etc.)

	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Scoring behavior
	Workers             int `json:"workers,omitempty"`               // Concurrent applications per batch
	PollIntervalSeconds int `json:"poll_interval_seconds,omitempty"` // Watch-mode poll interval

	// Logging
	LogJSON bool `json:"log_json,omitempty"` // Emit JSON logs instead of console encoding
	Debug   bool `json:"debug,omitempty"`    // Enable debug-level logging
}

// Load reads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv returns a Config populated from environment variables. Unset
// variables leave the zero value so MergeWithDefaults can fill them.
func FromEnv() Config {
	return Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		APIKey:              os.Getenv("GEMINI_API_KEY"),
		AnalysisModel:       os.Getenv("MATCH_ANALYSIS_MODEL"),
		EmbeddingModel:      os.Getenv("MATCH_EMBEDDING_MODEL"),
		ResumeBucket:        os.Getenv("RESUME_BUCKET"),
		S3Endpoint:          os.Getenv("S3_ENDPOINT"),
		Port:                envInt("PORT"),
		Workers:             envInt("MATCH_WORKERS"),
		PollIntervalSeconds: envInt("MATCH_POLL_INTERVAL"),
		LogJSON:             envBool("LOG_JSON"),
		Debug:               envBool("DEBUG"),
	}
}

func envInt(key string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}
	if c.PollIntervalSeconds < 0 {
		return fmt.Errorf("config error: 'poll_interval_seconds' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. This is used to apply config file values as defaults for
// environment and CLI values.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.AnalysisModel == "" {
		result.AnalysisModel = defaults.AnalysisModel
	}
	if result.EmbeddingModel == "" {
		result.EmbeddingModel = defaults.EmbeddingModel
	}
	if result.ResumeBucket == "" {
		result.ResumeBucket = defaults.ResumeBucket
	}
	if result.S3Endpoint == "" {
		result.S3Endpoint = defaults.S3Endpoint
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.PollIntervalSeconds == 0 {
		result.PollIntervalSeconds = defaults.PollIntervalSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// PollInterval converts the configured poll interval to a duration.
// Zero means the caller's default.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}
