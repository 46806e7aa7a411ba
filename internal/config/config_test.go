package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"port": 9090,
		"database_url": "postgres://localhost/hireflow",
		"api_key": "test-key",
		"top_n": 5,
		"fail_fast": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/hireflow", cfg.DatabaseURL)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, 5, cfg.TopN)
	assert.True(t, cfg.FailFast)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultUploadDir, cfg.UploadDir)
	assert.Equal(t, DefaultScoringTimeoutSeconds, cfg.ScoringTimeoutSeconds)
	assert.Equal(t, DefaultTopN, cfg.TopN)
}

func TestApplyDefaults_DoesNotOverride(t *testing.T) {
	cfg := &Config{Port: 3000, TopN: 10}
	cfg.ApplyDefaults()

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, 10, cfg.TopN)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://env/hireflow")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("SCORING_WORKERS", "4")

	cfg := &Config{Port: 8080, DatabaseURL: "postgres://file/hireflow"}
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "postgres://env/hireflow", cfg.DatabaseURL)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, 4, cfg.Workers)
}

func TestApplyEnv_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	cfg := &Config{}
	err := cfg.ApplyEnv()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid PORT")
}

func TestValidate(t *testing.T) {
	valid := &Config{
		Port:                  8080,
		DatabaseURL:           "postgres://localhost/hireflow",
		APIKey:                "key",
		ScoringTimeoutSeconds: 60,
		TopN:                  3,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing database url", func(c *Config) { c.DatabaseURL = "" }, "database_url"},
		{"missing api key", func(c *Config) { c.APIKey = "" }, "api_key"},
		{"zero port", func(c *Config) { c.Port = 0 }, "port"},
		{"zero timeout", func(c *Config) { c.ScoringTimeoutSeconds = 0 }, "scoring_timeout_seconds"},
		{"zero top_n", func(c *Config) { c.TopN = 0 }, "top_n"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewJWTConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-secret", cfg.Secret)
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := NewJWTConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
