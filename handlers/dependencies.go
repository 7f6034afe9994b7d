package handlers

import (
	"fmt"
	"log/slog"

	"github.com/alorle/hls-sorter/cache"
	"github.com/alorle/hls-sorter/config"
	"github.com/alorle/hls-sorter/fetcher"
	"github.com/alorle/hls-sorter/logging"
	"github.com/alorle/hls-sorter/rewriter"
)

// Dependencies holds all the dependencies needed by the handlers
type Dependencies struct {
	Logger   *slog.Logger
	Fetcher  fetcher.Interface
	Rewriter rewriter.Interface
}

// InitDependencies initializes all application components. The returned
// function releases the cache and idle upstream connections.
func InitDependencies(cfg *config.Config, logger *slog.Logger) (Dependencies, func(), error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	plan, err := cfg.Plan()
	if err != nil {
		return Dependencies{}, nil, fmt.Errorf("invalid sort configuration: %w", err)
	}

	storage, err := cache.Open(cfg.Cache.Backend, cfg.Cache.Dir)
	if err != nil {
		return Dependencies{}, nil, fmt.Errorf("failed to initialize cache storage: %w", err)
	}
	if storage != nil {
		logger.Info("cache enabled", "backend", cfg.Cache.Backend, "dir", cfg.Cache.Dir, "ttl", cfg.Cache.TTL)
	}

	opts := cfg.FetchOptions(storage)
	opts.Logger = logger.With(logging.FieldComponent, "fetcher")
	f := fetcher.New(opts)

	cleanup := func() {
		f.Close()
		if storage != nil {
			if err := storage.Close(); err != nil {
				logger.Warn("failed to close cache", "error", err)
			}
		}
	}

	return Dependencies{
		Logger:   logger,
		Fetcher:  f,
		Rewriter: rewriter.New(plan, logger.With(logging.FieldComponent, "rewriter")),
	}, cleanup, nil
}
