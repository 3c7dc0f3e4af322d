package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobpost-checker/internal/config"
	"github.com/jonathan/jobpost-checker/internal/db"
	"github.com/jonathan/jobpost-checker/internal/fetch"
	"github.com/jonathan/jobpost-checker/internal/trends"
	"github.com/jonathan/jobpost-checker/internal/types"
)

// appConfig is the merged configuration: defaults, then --config file, then environment.
var appConfig = config.Default()

// logger is the process logger installed by setupApp.
var logger = slog.Default()

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}
	appConfig = cfg
	logger = newLogger(cmd.ErrOrStderr(), cfg.LogLevel, verbose, logJSON)
	slog.SetDefault(logger)
	if configPath != "" {
		logger.Debug("loaded config", "path", configPath)
	}
	return nil
}

func loadAppConfig(path string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded.MergeWithDefaults(cfg)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string, debug, asJSON bool) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	if debug {
		lvl = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// trendStore is the storage surface the commands need.
type trendStore interface {
	trends.Store
	EnsureSchema(ctx context.Context) error
	GetPostingByURL(ctx context.Context, url string) (*types.JobPostingRecord, error)
}

// openStore connects to PostgreSQL when a database URL is configured and
// falls back to the local SQLite file otherwise. The schema is ensured.
func openStore(ctx context.Context, cfg config.Config) (trendStore, func(), error) {
	if cfg.DatabaseURL != "" {
		pg, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("failed to ensure schema: %w", err)
		}
		logger.Debug("using postgres store")
		return pg, pg.Close, nil
	}

	lite, err := db.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := lite.EnsureSchema(ctx); err != nil {
		_ = lite.Close()
		return nil, nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	logger.Debug("using sqlite store", "path", cfg.SQLitePath)
	return lite, func() { _ = lite.Close() }, nil
}

// newFetcher builds the page fetcher. When a Redis URL is configured pages are
// cached there; an unreachable Redis only disables caching.
func newFetcher(ctx context.Context, cfg config.Config, skipCache bool) (fetch.Fetcher, func()) {
	opts := fetch.DefaultOptions()
	opts.Timeout = cfg.FetchTimeout()
	if cfg.UserAgent != "" {
		opts.UserAgent = cfg.UserAgent
	}
	direct := fetch.NewHTTPFetcher(opts)

	if cfg.RedisURL == "" {
		return direct, func() {}
	}
	cache, err := fetch.NewRedisCache(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("page cache unavailable, fetching directly", "error", err)
		return direct, func() {}
	}
	cached := fetch.NewCachedFetcher(cache, direct, &fetch.CachedFetcherConfig{
		CacheTTL:  cfg.CacheTTLDuration(),
		SkipCache: skipCache,
		Logger:    logger,
	})
	return cached, func() { _ = cache.Close() }
}
