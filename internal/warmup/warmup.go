// Package warmup keeps the prefetch cache warm in the background so
// deep links into recently active sessions resolve against a hot cache.
package warmup

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/waylink/waylink/internal/dispatch"
)

// warmConcurrency bounds parallel loader calls per warmup round.
const warmConcurrency = 4

// SessionLister provides the loaders plus the recent-session listing the
// warmer fans out over.
type SessionLister interface {
	dispatch.DataSource
	RecentSessionIDs(ctx context.Context, limit int) ([]string, error)
}

// Config controls the warmup cadence and fan-out size.
type Config struct {
	Interval time.Duration
	Sessions int
}

// Warmer periodically refreshes the sessions collection and the most
// recently updated session details in the prefetch cache.
type Warmer struct {
	source   SessionLister
	prefetch dispatch.Prefetcher
	interval time.Duration
	sessions int
	logger   *slog.Logger
}

// New creates a Warmer. A non-positive interval falls back to one minute.
func New(source SessionLister, prefetch dispatch.Prefetcher, cfg Config, logger *slog.Logger) *Warmer {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	return &Warmer{
		source:   source,
		prefetch: prefetch,
		interval: cfg.Interval,
		sessions: cfg.Sessions,
		logger:   logger.With("component", "warmup"),
	}
}

// Run warms the cache once immediately, then on every tick until the
// context is canceled.
func (w *Warmer) Run(ctx context.Context) {
	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("warmup stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Warmer) runOnce(ctx context.Context) {
	start := time.Now()
	warmed, err := w.WarmOnce(ctx)
	if err != nil {
		w.logger.Warn("cache warmup incomplete",
			"warmed", warmed,
			"duration", time.Since(start),
			"error", err,
		)
		return
	}
	w.logger.Debug("cache warmup complete",
		"warmed", warmed,
		"duration", time.Since(start),
	)
}

// WarmOnce runs a single warmup round: the sessions collection plus one
// entry per recent session. Loader calls run concurrently, bounded by
// warmConcurrency; a failing entry does not stop the others. Returns the
// number of warmed entries and the first error encountered.
func (w *Warmer) WarmOnce(ctx context.Context) (int, error) {
	ids, err := w.source.RecentSessionIDs(ctx, w.sessions)
	if err != nil {
		return 0, err
	}

	var g errgroup.Group
	g.SetLimit(warmConcurrency)

	g.Go(func() error {
		return w.prefetch.Prefetch(ctx, "sessions", w.source.Sessions())
	})
	for _, id := range ids {
		id := id
		g.Go(func() error {
			return w.prefetch.Prefetch(ctx, "session:"+id, w.source.SessionDetail(id))
		})
	}

	return len(ids) + 1, g.Wait()
}
