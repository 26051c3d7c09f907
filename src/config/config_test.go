package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATABASE_PATH", "OPEN_DART_BASE_URL", "OPEN_DART_TIMEOUT",
		"GEMINI_MODEL", "REPORT_CACHE_TTL", "ALLOWED_ORIGINS", "RATE_LIMIT_BURST", "METRICS_ENABLED",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./data/companies.db", cfg.DatabasePath)
	assert.Equal(t, "https://opendart.fss.or.kr/api", cfg.DartBaseURL)
	assert.Equal(t, "gemini-1.5-pro", cfg.GeminiModel)
	assert.Equal(t, 20*time.Second, cfg.DartTimeout)
	assert.Equal(t, 15*time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 30, cfg.RateLimitBurst)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("OPEN_DART_BASE_URL", "http://localhost:1234/api/")
	t.Setenv("OPEN_DART_TIMEOUT", "5s")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, ,https://dart.example.com")
	t.Setenv("RATE_LIMIT_PER_SECOND", "2.5")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://localhost:1234/api", cfg.DartBaseURL)
	assert.Equal(t, 5*time.Second, cfg.DartTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "https://dart.example.com"}, cfg.AllowedOrigins)
	assert.InDelta(t, 2.5, cfg.RateLimitPerSecond, 1e-9)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, 30, cfg.RateLimitBurst)
}
