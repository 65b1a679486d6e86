package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Factory builds the Store for a browser.
type Factory func(browserID string) *Store

type registryEntry struct {
	store    *Store
	lastSeen time.Time
}

// Registry owns one Store per browser. A Store is created, and its hydration started, the first
// time a browser is seen; that is the Store's "application start".
type Registry struct {
	ctx     context.Context
	factory Factory
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*registryEntry
	onSweep func(browserID string)
}

// NewRegistry builds a registry. ctx bounds background hydrations.
func NewRegistry(ctx context.Context, factory Factory, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		ctx:     ctx,
		factory: factory,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]*registryEntry),
	}
}

// OnSweep registers fn to be told about every browser whose Store was swept. It runs with the
// registry locked, so fn must not call back into the registry.
func (r *Registry) OnSweep(fn func(browserID string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onSweep = fn
}

// Get returns the Store for browserID, creating it and starting hydration in the background on
// first use.
func (r *Registry) Get(browserID string) *Store {
	r.mu.Lock()
	if entry, ok := r.entries[browserID]; ok {
		entry.lastSeen = r.now()
		r.mu.Unlock()
		return entry.store
	}
	store := r.factory(browserID)
	r.entries[browserID] = &registryEntry{store: store, lastSeen: r.now()}
	r.mu.Unlock()

	go store.Hydrate(r.ctx)
	return store
}

// Sweep forgets Stores idle for longer than idle. Persisted credentials are kept, so a returning
// browser hydrates again. Stores still hydrating are left alone.
func (r *Registry) Sweep(idle time.Duration) int {
	if idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, entry := range r.entries {
		if entry.lastSeen.Before(cutoff) && !entry.store.Hydrating() {
			delete(r.entries, id)
			removed++
			if r.onSweep != nil {
				r.onSweep(id)
			}
		}
	}
	if removed > 0 {
		r.logger.Debug("swept idle sessions", zap.Int("removed", removed), zap.Int("remaining", len(r.entries)))
	}
	return removed
}

// Len reports the number of live Stores.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
