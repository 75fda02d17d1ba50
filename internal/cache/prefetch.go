package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/waylink/waylink/internal/dispatch"
	"github.com/waylink/waylink/internal/metrics"
)

const (
	// prefetchKeyPrefix namespaces warmed entries in Redis.
	prefetchKeyPrefix = "prefetch:"

	// DefaultPrefetchTTL is how long a warmed entry stays hot.
	DefaultPrefetchTTL = 5 * time.Minute
)

// Prefetcher warms cache entries ahead of navigation. It implements the
// dispatch layer's prefetch capability: an already-warm key skips the
// loader entirely, a cold key runs the loader and stores its bytes.
type Prefetcher struct {
	cache   *Cache
	ttl     time.Duration
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewPrefetcher creates a Prefetcher over the given cache.
func NewPrefetcher(c *Cache, ttl time.Duration, logger *slog.Logger, recorder metrics.Recorder) *Prefetcher {
	if ttl <= 0 {
		ttl = DefaultPrefetchTTL
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Prefetcher{
		cache:   c,
		ttl:     ttl,
		logger:  logger.With("component", "cache.prefetch"),
		metrics: recorder,
	}
}

// Prefetch warms the entry for key. The caller only learns success or
// failure; the warmed bytes are consumed later by whoever renders the
// screen behind the navigation.
func (p *Prefetcher) Prefetch(ctx context.Context, key string, loader dispatch.LoaderFunc) error {
	start := time.Now()
	defer func() {
		p.metrics.ObservePrefetchDuration(time.Since(start))
	}()

	rkey := prefetchKey(key)

	exists, err := p.cache.client.Exists(ctx, rkey).Result()
	if err == nil && exists > 0 {
		p.metrics.IncPrefetchHit()
		return nil
	}
	// An Exists error falls through to the fill; a broken Redis surfaces
	// there with a more useful message.

	p.metrics.IncPrefetchMiss()

	if loader == nil {
		return fmt.Errorf("prefetch %s: no loader", key)
	}
	data, err := loader(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}

	// NX keeps an earlier concurrent fill and its TTL.
	if err := p.cache.client.SetNX(ctx, rkey, data, p.ttl).Err(); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}

	p.logger.Debug("cache warmed", "key", key, "bytes", len(data))
	return nil
}

// IsWarm reports whether the entry for key is currently present.
func (p *Prefetcher) IsWarm(ctx context.Context, key string) (bool, error) {
	exists, err := p.cache.client.Exists(ctx, prefetchKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("check %s: %w", key, err)
	}
	return exists > 0, nil
}

// Invalidate drops the entry for key so the next prefetch refills it.
func (p *Prefetcher) Invalidate(ctx context.Context, key string) error {
	return p.cache.client.Del(ctx, prefetchKey(key)).Err()
}

func prefetchKey(key string) string {
	return prefetchKeyPrefix + key
}
