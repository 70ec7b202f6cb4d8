package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `{
		"database_url": "postgres://localhost/match",
		"api_key": "test-key",
		"resume_bucket": "resumes",
		"port": 8080,
		"workers": 8,
		"poll_interval_seconds": 5,
		"log_json": true
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/match", cfg.DatabaseURL)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "resumes", cfg.ResumeBucket)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 5, cfg.PollIntervalSeconds)
	assert.True(t, cfg.LogJSON)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Load(writeConfigFile(t, "not json"))
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/match")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("MATCH_WORKERS", "6")
	t.Setenv("MATCH_POLL_INTERVAL", "10")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("PORT", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, "postgres://env/match", cfg.DatabaseURL)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, 6, cfg.Workers)
	assert.Equal(t, 10, cfg.PollIntervalSeconds)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, 0, cfg.Port) // unparsable numbers fall back to zero
}

func TestValidate(t *testing.T) {
	valid := Config{Port: 8080, Workers: 4, PollIntervalSeconds: 3}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		cfg  Config
	}{
		{"port too large", Config{Port: 70000}},
		{"negative port", Config{Port: -1}},
		{"negative workers", Config{Workers: -1}},
		{"negative poll interval", Config{PollIntervalSeconds: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	base := Config{APIKey: "from-env", Workers: 2}
	defaults := Config{
		DatabaseURL: "postgres://file/match",
		APIKey:      "from-file",
		Workers:     8,
		Port:        9090,
	}

	merged := base.MergeWithDefaults(defaults)
	assert.Equal(t, "from-env", merged.APIKey) // set values win
	assert.Equal(t, "postgres://file/match", merged.DatabaseURL)
	assert.Equal(t, 2, merged.Workers)
	assert.Equal(t, 9090, merged.Port)
}

func TestPollInterval(t *testing.T) {
	cfg := Config{PollIntervalSeconds: 7}
	assert.Equal(t, 7*time.Second, cfg.PollInterval())
	assert.Equal(t, time.Duration(0), (&Config{}).PollInterval())
}
