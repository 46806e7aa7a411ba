// Package config provides configuration loading and validation for the
// matching service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Defaults applied when neither the config file nor the environment sets a
// value.
const (
	DefaultPort                  = 8080
	DefaultUploadDir             = "uploads"
	DefaultScoringTimeoutSeconds = 60
	DefaultTopN                  = 3
)

// Config represents the service configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or environment
// variables.
type Config struct {
	Port        int    `json:"port,omitempty"`         // HTTP listen port
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	UploadDir   string `json:"upload_dir,omitempty"`   // Root directory for stored CV files

	APIKey string `json:"api_key,omitempty"` // Gemini API key
	Model  string `json:"model,omitempty"`   // Gemini model override

	ScoringTimeoutSeconds int  `json:"scoring_timeout_seconds,omitempty"` // Per-request scoring deadline
	TopN                  int  `json:"top_n,omitempty"`                   // Default batch shortlist size
	FailFast              bool `json:"fail_fast,omitempty"`               // Abort batch runs on first failure
	Workers               int  `json:"workers,omitempty"`                 // Concurrent scorers per batch (0 = sequential)
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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

// FromEnv builds a configuration from environment variables alone.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables onto the configuration. Set
// variables win over file values.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		c.UploadDir = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("SCORING_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SCORING_TIMEOUT_SECONDS: %v", err)
		}
		c.ScoringTimeoutSeconds = secs
	}
	if v := os.Getenv("SCORING_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SCORING_WORKERS: %v", err)
		}
		c.Workers = n
	}
	return nil
}

// ApplyDefaults fills zero-valued fields with service defaults.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.UploadDir == "" {
		c.UploadDir = DefaultUploadDir
	}
	if c.ScoringTimeoutSeconds == 0 {
		c.ScoringTimeoutSeconds = DefaultScoringTimeoutSeconds
	}
	if c.TopN == 0 {
		c.TopN = DefaultTopN
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("config error: 'api_key' is required")
	}
	if c.ScoringTimeoutSeconds < 1 {
		return fmt.Errorf("config error: 'scoring_timeout_seconds' must be at least 1, got %d", c.ScoringTimeoutSeconds)
	}
	if c.TopN < 1 {
		return fmt.Errorf("config error: 'top_n' must be at least 1, got %d", c.TopN)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative, got %d", c.Workers)
	}
	return nil
}
