package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/soramame/dramalearn/internal/cache"
	"github.com/soramame/dramalearn/internal/config"
	"github.com/soramame/dramalearn/internal/content"
	"github.com/soramame/dramalearn/internal/database"
	"github.com/soramame/dramalearn/internal/progress"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newContentCache(cfg *config.Config) (*cache.Cache, error) {
	storage, err := cache.NewFileStorage(cfg.Cache.Directory)
	if err != nil {
		return nil, fmt.Errorf("cache.NewFileStorage() > %w", err)
	}
	return cache.New(cache.Options{
		Namespace:   cfg.Cache.Namespace,
		BudgetBytes: cfg.Cache.BudgetBytes,
		Storage:     storage,
		Logger:      slog.Default(),
	}), nil
}

func newContentClient(cfg *config.Config, contentCache *cache.Cache) *content.Client {
	return content.NewClient(content.ClientOptions{
		BaseURL:          cfg.API.BaseURL,
		APIKey:           cfg.API.Key,
		Cache:            contentCache,
		CacheTTL:         time.Duration(cfg.API.CacheTTLMinutes) * time.Minute,
		MaxRetryAttempts: cfg.API.MaxRetryAttempts,
		Logger:           slog.Default(),
	})
}

// newProgressRepository returns the configured repository and a close function
// for the underlying connection, if any.
func newProgressRepository(cfg *config.Config) (progress.Repository, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Progress.Storage {
	case "yaml":
		repo, err := progress.NewYAMLRepository(cfg.Progress.Directory)
		if err != nil {
			return nil, nil, fmt.Errorf("progress.NewYAMLRepository() > %w", err)
		}
		return repo, noop, nil
	case "mysql":
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("database.Open() > %w", err)
		}
		return progress.NewDBRepository(db), db.Close, nil
	case "memory":
		return progress.NewMemoryRepository(), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown progress storage %q", cfg.Progress.Storage)
}

func newTracker(cfg *config.Config, repo progress.Repository, client *content.Client) *progress.Tracker {
	return progress.NewTracker(progress.TrackerOptions{
		Repository: repo,
		Submitter:  client,
		Totals:     client,
		Thresholds: cfg.Progress.Thresholds,
		Logger:     slog.Default(),
	})
}
