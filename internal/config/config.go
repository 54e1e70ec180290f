// Package config loads adhere-api settings from the environment, an
// optional .env file and an optional config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/JonnyWalker81/adhere/backend/internal/analytics"
	"github.com/JonnyWalker81/adhere/backend/internal/logger"
	"github.com/JonnyWalker81/adhere/backend/internal/repository"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "ADHERE"

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Supabase  SupabaseConfig   `mapstructure:"supabase"`
	Storage   StorageConfig    `mapstructure:"storage"`
	Redis     RedisConfig      `mapstructure:"redis"`
	TextGen   TextGenConfig    `mapstructure:"textgen"`
	Scheduler SchedulerConfig  `mapstructure:"scheduler"`
	Log       LogConfig        `mapstructure:"log"`
	Analytics analytics.Policy `mapstructure:"analytics"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Env             string        `mapstructure:"env"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	RateLimit       int           `mapstructure:"rate_limit"`
	RateWindow      time.Duration `mapstructure:"rate_window"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SupabaseConfig holds Supabase-specific configuration
type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// StorageConfig selects where dose, check-in, efficacy and vital rows are read from
type StorageConfig struct {
	Backend     string `mapstructure:"backend"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// RedisConfig configures the report cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// TextGenConfig configures the optional insight text generator
type TextGenConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Endpoint  string        `mapstructure:"endpoint"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// SchedulerConfig configures the snapshot recompute job
type SchedulerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Spec        string        `mapstructure:"spec"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	Backend string `mapstructure:"backend"`
}

// Logger converts the section into a logger.Config
func (l LogConfig) Logger() logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = logger.ParseLevel(l.Level)
	if l.Format != "" {
		cfg.Format = l.Format
	}
	if l.Backend != "" {
		cfg.Backend = l.Backend
	}
	return cfg
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	// A missing .env is fine; anything else is not
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional names used by hosting platforms
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	_ = v.BindEnv("supabase.url", EnvPrefix+"_SUPABASE_URL", "SUPABASE_URL")
	_ = v.BindEnv("supabase.service_key", EnvPrefix+"_SUPABASE_SERVICE_KEY", "SUPABASE_SERVICE_KEY")
	_ = v.BindEnv("storage.postgres_dsn", EnvPrefix+"_STORAGE_POSTGRES_DSN", "DATABASE_URL")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// It's okay if config file doesn't exist
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.rate_limit", 120)
	v.SetDefault("server.rate_window", time.Minute)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.service_key", "")

	v.SetDefault("storage.backend", repository.BackendSupabase)
	v.SetDefault("storage.postgres_dsn", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 6*time.Hour)

	v.SetDefault("textgen.enabled", false)
	v.SetDefault("textgen.endpoint", "")
	v.SetDefault("textgen.api_key", "")
	v.SetDefault("textgen.model", "gpt-4o-mini")
	v.SetDefault("textgen.max_tokens", 512)
	v.SetDefault("textgen.timeout", 15*time.Second)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.spec", "0 2 * * *")
	v.SetDefault("scheduler.timeout", 30*time.Minute)
	v.SetDefault("scheduler.concurrency", 8)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.backend", logger.BackendSlog)

	// Every policy threshold is overridable as analytics.<name>
	policy := reflect.ValueOf(analytics.DefaultPolicy())
	for i := 0; i < policy.NumField(); i++ {
		tag := policy.Type().Field(i).Tag.Get("mapstructure")
		v.SetDefault("analytics."+tag, policy.Field(i).Interface())
	}
}

// Validate checks that all required configuration values are present
func (c *Config) Validate() error {
	if c.Supabase.URL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.Supabase.ServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}

	switch c.Storage.Backend {
	case repository.BackendSupabase:
	case repository.BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the %s backend", repository.BackendPostgres)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.TextGen.Enabled && c.TextGen.Endpoint == "" {
		return fmt.Errorf("textgen.endpoint is required when textgen is enabled")
	}

	if c.Scheduler.Enabled {
		if _, err := cron.ParseStandard(c.Scheduler.Spec); err != nil {
			return fmt.Errorf("invalid scheduler.spec %q: %w", c.Scheduler.Spec, err)
		}
	}

	if c.Analytics.MinCorrelation < 0 || c.Analytics.MinCorrelation > 1 {
		return fmt.Errorf("analytics.min_correlation must be between 0 and 1")
	}

	return nil
}
