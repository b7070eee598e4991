package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"ADDR", "APP_URL", "DATABASE_URL", "DATABASE_DRIVER", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW", "DISABLE_RATE_LIMIT", "EMAIL_FROM"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 5*time.Minute, cfg.RateLimit.CleanupInterval)
	assert.False(t, cfg.RateLimit.Disabled)
	assert.Equal(t, time.Hour, cfg.Storage.SignedURLExpiry)
	assert.Equal(t, "MSP+ Assessment <onboarding@resend.dev>", cfg.Email.From)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_URL", "https://assess.example.com/")
	t.Setenv("DATABASE_URL", "postgres://localhost/threecs")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("RATE_LIMIT_REQUESTS", "9")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("PDF_CONCURRENCY", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, "https://assess.example.com", cfg.AppURL)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 9, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 4, cfg.Report.Concurrency)
}
