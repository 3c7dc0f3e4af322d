package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL is how long a fetched page is served from cache.
const DefaultCacheTTL = 24 * time.Hour

const cacheKeyPrefix = "jobpost:page:"

// PageCache stores raw page bodies by key.
type PageCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisCache is a PageCache backed by Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis at redisURL (redis://host:6379/0) and verifies connectivity.
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Get returns the cached value, or false when the key is absent.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores value under key for ttl.
func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CachedFetcher wraps a Fetcher with a page cache. Cache failures are logged
// and never fail a fetch.
type CachedFetcher struct {
	cache     PageCache
	next      Fetcher
	cacheTTL  time.Duration
	skipCache bool // For forcing fresh fetches
	logger    *slog.Logger
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL  time.Duration
	SkipCache bool
	Logger    *slog.Logger
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL: DefaultCacheTTL,
	}
}

// NewCachedFetcher creates a new cached fetcher in front of next.
func NewCachedFetcher(cache PageCache, next Fetcher, config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedFetcher{
		cache:     cache,
		next:      next,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
		logger:    logger,
	}
}

// Fetch returns the cached page for urlStr if present, otherwise fetches it and
// caches successful responses.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	key := CacheKey(urlStr)

	if !f.skipCache && f.cache != nil {
		html, ok, err := f.cache.Get(ctx, key)
		switch {
		case err != nil:
			f.logger.Warn("page cache read failed", "url", urlStr, "error", err)
		case ok:
			f.logger.Debug("page cache hit", "url", urlStr)
			return &Result{URL: urlStr, HTML: html, StatusCode: 200, FromCache: true}, nil
		}
	}

	result, err := f.next.Fetch(ctx, urlStr)
	if err != nil {
		return result, err
	}

	if f.cache != nil {
		if err := f.cache.Set(ctx, key, result.HTML, f.cacheTTL); err != nil {
			f.logger.Warn("page cache write failed", "url", urlStr, "error", err)
		}
	}
	return result, nil
}

// InvalidateCache drops the cached page for urlStr, forcing a re-fetch on next request.
func (f *CachedFetcher) InvalidateCache(ctx context.Context, urlStr string) error {
	if f.cache == nil {
		return nil
	}
	return f.cache.Delete(ctx, CacheKey(urlStr))
}

// CacheKey returns the cache key for a page URL.
func CacheKey(urlStr string) string {
	sum := sha256.Sum256([]byte(urlStr))
	return cacheKeyPrefix + hex.EncodeToString(sum[:16])
}
