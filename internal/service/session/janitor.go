package session

import (
	"context"
	"time"

	"go.uber.org/zap"
	"storefront/internal/repository/kv"
)

// Janitor evicts idle workspaces from a Registry and purges expired entries
// (session tokens) from stores that do not expire them on their own.
type Janitor struct {
	registry *Registry
	purger   kv.Purger
	logger   *zap.Logger
}

// NewJanitor cleans reg and, when store implements kv.Purger, the store.
func NewJanitor(reg *Registry, store kv.Store, logger *zap.Logger) *Janitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	j := &Janitor{registry: reg, logger: logger}
	if p, ok := store.(kv.Purger); ok {
		j.purger = p
	}
	return j
}

// Run sweeps every interval until ctx is done.
func (j *Janitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep runs one cleanup pass and returns the number of evicted workspaces
// and purged storage entries.
func (j *Janitor) Sweep(ctx context.Context) (evicted int, purged int64) {
	evicted = j.registry.Sweep()
	if j.purger == nil {
		return evicted, 0
	}
	purged, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		j.logger.Warn("purge expired entries failed", zap.Error(err))
		return evicted, 0
	}
	if purged > 0 {
		j.logger.Debug("purged expired entries", zap.Int64("purged", purged))
	}
	return evicted, purged
}
