package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/storefront/internal/cart"
	"github.com/utafrali/storefront/internal/storage"
)

var sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "storefront_sessions_active",
	Help: "Cart stores currently held in memory",
})

type entry struct {
	store    *cart.Store
	once     sync.Once
	lastSeen time.Time
}

// Registry holds one cart store per session. Stores are created and loaded
// on first use and dropped after sitting idle; their persisted snapshots
// are left in place and reloaded on the next request.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry

	backend       storage.Backend
	logger        *slog.Logger
	idleTimeout   time.Duration
	now           func() time.Time
	persisterOpts []cart.PersisterOption
	storeOpts     []cart.StoreOption
}

// Option configures a Registry.
type Option func(*Registry)

// WithIdleTimeout sets how long an unused store is kept in memory.
func WithIdleTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.idleTimeout = d
		}
	}
}

// WithClock sets the time source for idle tracking and cart timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
			r.persisterOpts = append(r.persisterOpts, cart.WithClock(now))
		}
	}
}

// WithCartExpiry sets how long a persisted cart stays loadable.
func WithCartExpiry(d time.Duration) Option {
	return func(r *Registry) {
		r.persisterOpts = append(r.persisterOpts, cart.WithExpiry(d))
	}
}

// WithListener subscribes l to changes on every store the registry creates.
func WithListener(l cart.Listener) Option {
	return func(r *Registry) {
		r.storeOpts = append(r.storeOpts, cart.WithListener(l))
	}
}

// NewRegistry creates a registry whose stores persist to backend.
func NewRegistry(backend storage.Backend, logger *slog.Logger, opts ...Option) *Registry {
	r := &Registry{
		sessions:    make(map[string]*entry),
		backend:     backend,
		logger:      logger,
		idleTimeout: cart.DefaultExpiry,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the loaded store for sessionID, creating it on first use.
// Concurrent first calls for the same session share one load, which is not
// cut short if the triggering request is cancelled.
func (r *Registry) Get(ctx context.Context, sessionID string) *cart.Store {
	r.mu.Lock()
	e, ok := r.sessions[sessionID]
	if !ok {
		storeLogger := r.logger.With(slog.String("session_id", sessionID))
		persister := cart.NewPersister(r.backend.Scope(sessionID), storeLogger, r.persisterOpts...)
		e = &entry{store: cart.NewStore(sessionID, persister, storeLogger, r.storeOpts...)}
		r.sessions[sessionID] = e
		sessionsActive.Inc()
	}
	e.lastSeen = r.now()
	r.mu.Unlock()

	e.once.Do(func() { e.store.Init(context.WithoutCancel(ctx)) })
	return e.store
}

// Len returns the number of stores held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Evict drops stores idle longer than the idle timeout and returns how many
// were removed.
func (r *Registry) Evict() int {
	cutoff := r.now().Add(-r.idleTimeout)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	sessionsActive.Sub(float64(evicted))
	return evicted
}

// Run evicts idle stores every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Evict(); n > 0 {
				r.logger.InfoContext(ctx, "evicted idle cart sessions",
					slog.Int("evicted", n),
					slog.Int("remaining", r.Len()),
				)
			}
		}
	}
}
