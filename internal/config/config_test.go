package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/adhere/backend/internal/analytics"
	"github.com/JonnyWalker81/adhere/backend/internal/logger"
)

// isolate runs the test in an empty directory with the supabase basics set
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, key := range []string{"PORT", "SUPABASE_URL", "SUPABASE_SERVICE_KEY", "DATABASE_URL"} {
		t.Setenv(key, "")
	}
	t.Setenv("ADHERE_SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("ADHERE_SUPABASE_SERVICE_KEY", "service-key")
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "supabase", cfg.Storage.Backend)
	assert.Equal(t, 6*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "0 2 * * *", cfg.Scheduler.Spec)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.False(t, cfg.TextGen.Enabled)
	assert.Equal(t, analytics.DefaultPolicy(), cfg.Analytics)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ADHERE_REDIS_ADDR", "localhost:6379")
	t.Setenv("ADHERE_REDIS_TTL", "30m")
	t.Setenv("ADHERE_ANALYTICS_MIN_CORRELATION", "0.5")
	t.Setenv("ADHERE_ANALYTICS_DOUBLE_DOSE_THRESHOLD", "2h")
	t.Setenv("ADHERE_SERVER_CORS_ORIGINS", "https://a.dev,https://b.dev")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 0.5, cfg.Analytics.MinCorrelation)
	assert.Equal(t, 2*time.Hour, cfg.Analytics.DoubleDoseThreshold)
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, cfg.Server.CORSOrigins)
	// untouched thresholds keep their defaults
	assert.Equal(t, analytics.DefaultPolicy().MinWeeksForTrend, cfg.Analytics.MinWeeksForTrend)
}

func TestLoad_ConfigFileAndDotEnv(t *testing.T) {
	dir := isolate(t)
	t.Setenv("ADHERE_TEXTGEN_API_KEY", "")

	yaml := `
storage:
  backend: postgres
  postgres_dsn: postgres://localhost/adhere
textgen:
  enabled: true
  endpoint: https://api.example.com/v1
log:
  backend: zerolog
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ADHERE_TEXTGEN_API_KEY=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ADHERE_TEXTGEN_API_KEY") })
	os.Unsetenv("ADHERE_TEXTGEN_API_KEY")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, "postgres://localhost/adhere", cfg.Storage.PostgresDSN)
	assert.True(t, cfg.TextGen.Enabled)
	assert.Equal(t, "from-dotenv", cfg.TextGen.APIKey)

	logCfg := cfg.Log.Logger()
	assert.Equal(t, logger.BackendZerolog, logCfg.Backend)
	assert.Equal(t, logger.LevelDebug, logCfg.Level)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Supabase:  SupabaseConfig{URL: "https://x.supabase.co", ServiceKey: "k"},
			Storage:   StorageConfig{Backend: "supabase"},
			Scheduler: SchedulerConfig{Enabled: true, Spec: "0 2 * * *"},
			Analytics: analytics.DefaultPolicy(),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing url", mutate: func(c *Config) { c.Supabase.URL = "" }, wantErr: "SUPABASE_URL"},
		{name: "missing key", mutate: func(c *Config) { c.Supabase.ServiceKey = "" }, wantErr: "SUPABASE_SERVICE_KEY"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Storage.Backend = "postgres" }, wantErr: "postgres_dsn"},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "mongo" }, wantErr: "unknown storage backend"},
		{name: "textgen without endpoint", mutate: func(c *Config) { c.TextGen.Enabled = true }, wantErr: "textgen.endpoint"},
		{name: "bad cron", mutate: func(c *Config) { c.Scheduler.Spec = "every day" }, wantErr: "invalid scheduler.spec"},
		{name: "bad cron ignored when disabled", mutate: func(c *Config) { c.Scheduler.Enabled = false; c.Scheduler.Spec = "x" }},
		{name: "correlation out of range", mutate: func(c *Config) { c.Analytics.MinCorrelation = 1.5 }, wantErr: "min_correlation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
