package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	cartsvc "storefront/internal/service/cart"
	productsvc "storefront/internal/service/product"
)

// DefaultIdleTimeout is how long an unused workspace stays in memory.
const DefaultIdleTimeout = 30 * time.Minute

// Workspace is the per-session state: the cart store and the product feed.
type Workspace struct {
	Cart *cartsvc.Service
	Feed *productsvc.Fetcher
}

// Factory builds the workspace for a session on first use.
type Factory func(ctx context.Context, sessionID string) *Workspace

type registryEntry struct {
	ws       *Workspace
	lastUsed time.Time
}

// Registry hands out one Workspace per session id and evicts the ones left
// idle. An evicted session's cart is rebuilt from storage on its next
// request; its product feed starts over.
type Registry struct {
	factory Factory
	idle    time.Duration
	now     func() time.Time
	logger  *zap.Logger

	mu      sync.Mutex
	entries map[string]*registryEntry
}

type RegistryOption func(*Registry)

func WithIdleTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.idle = d
		}
	}
}

func WithRegistryLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRegistry(factory Factory, opts ...RegistryOption) *Registry {
	r := &Registry{
		factory: factory,
		idle:    DefaultIdleTimeout,
		now:     time.Now,
		logger:  zap.NewNop(),
		entries: make(map[string]*registryEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the session's workspace, building it on first use. The
// factory loads from storage, so it runs outside the lock; when two first
// requests race, the workspace published first wins.
func (r *Registry) Get(ctx context.Context, sessionID string) *Workspace {
	if ws, ok := r.touch(sessionID); ok {
		return ws
	}

	built := r.factory(ctx, sessionID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[sessionID]; ok {
		e.lastUsed = r.now()
		return e.ws
	}
	r.entries[sessionID] = &registryEntry{ws: built, lastUsed: r.now()}
	return built
}

func (r *Registry) touch(sessionID string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[sessionID]
	if !ok {
		return nil, false
	}
	e.lastUsed = r.now()
	return e.ws, true
}

// Len reports how many workspaces are held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep evicts workspaces unused for longer than the idle timeout and
// returns how many it dropped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.idle)
	evicted := 0
	for id, e := range r.entries {
		if e.lastUsed.Before(cutoff) {
			delete(r.entries, id)
			evicted++
		}
	}
	if evicted > 0 {
		r.logger.Debug("evicted idle workspaces",
			zap.Int("evicted", evicted),
			zap.Int("remaining", len(r.entries)))
	}
	return evicted
}

// IdleTimeout returns the eviction threshold.
func (r *Registry) IdleTimeout() time.Duration {
	return r.idle
}

// CartKey returns the storage key for a session's cart.
func CartKey(base, sessionID string) string {
	if sessionID == DefaultID {
		return base
	}
	return base + ":" + sessionID
}
