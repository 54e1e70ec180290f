package main

import (
	"context"
	"fmt"

	"github.com/JonnyWalker81/adhere/backend/internal/cache"
	"github.com/JonnyWalker81/adhere/backend/internal/config"
	"github.com/JonnyWalker81/adhere/backend/internal/handlers"
	"github.com/JonnyWalker81/adhere/backend/internal/insights"
	"github.com/JonnyWalker81/adhere/backend/internal/logger"
	"github.com/JonnyWalker81/adhere/backend/internal/repository"
	"github.com/JonnyWalker81/adhere/backend/internal/repository/postgres"
	"github.com/JonnyWalker81/adhere/backend/internal/service"
	"github.com/JonnyWalker81/adhere/backend/pkg/supabase"
	"github.com/JonnyWalker81/adhere/backend/pkg/textgen"
)

// deps is everything the commands share
type deps struct {
	supabase *supabase.Client
	service  service.AdherenceService
	checks   map[string]handlers.Pinger
	closers  []func()
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// loadConfig loads configuration and installs the default logger
func loadConfig() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(cfg.Log.Logger())
	logger.SetDefault(log)
	return cfg, log, nil
}

// buildDeps wires storage, cache and text generation into the adherence service
func buildDeps(ctx context.Context, cfg *config.Config, log logger.Logger) (*deps, error) {
	d := &deps{
		supabase: supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey),
		checks:   map[string]handlers.Pinger{},
	}

	var repos repository.Repositories
	switch cfg.Storage.Backend {
	case repository.BackendPostgres:
		pool, err := postgres.Connect(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, pool.Close)
		d.checks["postgres"] = pool
		repos = repository.NewPostgresRepositories(pool)
	default:
		repos = repository.NewSupabaseRepositories(d.supabase)
	}
	log.Info("storage configured", logger.String("backend", cfg.Storage.Backend))

	var reportCache cache.Cache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			// reports are still computed, just never cached
			log.Warn("redis unavailable, report cache disabled", logger.Err(err))
		} else {
			reportCache = rc
			d.checks["redis"] = rc
			d.closers = append(d.closers, func() { _ = rc.Close() })
		}
	}

	var generator insights.Generator
	if cfg.TextGen.Enabled {
		client, err := textgen.NewClient(textgen.Config{
			Endpoint:  cfg.TextGen.Endpoint,
			APIKey:    cfg.TextGen.APIKey,
			Model:     cfg.TextGen.Model,
			MaxTokens: cfg.TextGen.MaxTokens,
			Timeout:   cfg.TextGen.Timeout,
		})
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("failed to create text generator: %w", err)
		}
		generator = client
	}

	d.service = service.NewAdherenceService(repos, insights.NewFormatter(generator), reportCache, service.Options{
		Policy:               cfg.Analytics,
		CacheTTL:             cfg.Redis.TTL,
		RecomputeConcurrency: cfg.Scheduler.Concurrency,
	})

	return d, nil
}
