package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "STORE_DRIVER", "DATA_DIR", "STRICT_ENUMS", "SEED_DEMO",
		"CAPTURE_RATE_LIMIT", "PIPELINE_GAUGE_INTERVAL", "CORS_ALLOWED_ORIGINS", "RABBITMQ_URL"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DriverFile, cfg.StoreDriver)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.True(t, cfg.StrictEnums)
	assert.False(t, cfg.SeedDemo)
	assert.Equal(t, 10, cfg.CaptureRateLimit)
	assert.Equal(t, time.Minute, cfg.PipelineGaugeInterval)
	assert.Equal(t, []string{"http://localhost:5173", "*"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/leads.db")
	t.Setenv("STRICT_ENUMS", "false")
	t.Setenv("SEED_DEMO", "1")
	t.Setenv("PIPELINE_GAUGE_INTERVAL", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.edu , ,https://b.edu")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "/tmp/leads.db", cfg.SQLitePath)
	assert.False(t, cfg.StrictEnums)
	assert.True(t, cfg.SeedDemo)
	assert.Equal(t, 30*time.Second, cfg.PipelineGaugeInterval)
	assert.Equal(t, []string{"https://a.edu", "https://b.edu"}, cfg.AllowedOrigins)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown driver", "STORE_DRIVER", "mongo"},
		{"bad bool", "STRICT_ENUMS", "maybe"},
		{"bad int", "CAPTURE_RATE_LIMIT", "ten"},
		{"zero rate", "CAPTURE_RATE_LIMIT", "0"},
		{"bad duration", "PIPELINE_GAUGE_INTERVAL", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORE_DRIVER", "")
			t.Setenv(tt.key, tt.val)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestPostgresNeedsDatabaseURL(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "DATABASE_URL")
}
