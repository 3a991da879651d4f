package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
)

// Change describes a mutation that altered a cart.
type Change struct {
	Namespace string
	Op        Op
	ItemID    string
	Items     []domain.CartItem
}

// Listener is notified after every mutation that changed the cart. Listeners
// run after the store is unlocked and receive a copy of the items.
type Listener func(ctx context.Context, change Change)

// Store owns one cart. All operations are serialized, so two mutations on the
// same store never interleave.
type Store struct {
	mu        sync.Mutex
	namespace string
	items     []domain.CartItem
	loading   bool
	state     LoadState
	pending   []Action
	persister *Persister
	listeners []Listener
	logger    *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithListener registers l for change notifications.
func WithListener(l Listener) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.listeners = append(s.listeners, l)
		}
	}
}

// NewStore creates an empty store for namespace. The store reports loading
// until Init completes.
func NewStore(namespace string, persister *Persister, logger *slog.Logger, opts ...StoreOption) *Store {
	s := &Store{
		namespace: namespace,
		items:     []domain.CartItem{},
		loading:   true,
		state:     StateUninitialized,
		persister: persister,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init seeds the store from its persisted snapshot. Only the first call has
// any effect. Mutations issued concurrently wait until loading finishes;
// mutations issued before Init are replayed over the snapshot and persisted.
func (s *Store) Init(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUninitialized {
		return
	}
	s.state = StateLoading

	snap, state, err := s.persister.Load(ctx)
	if err != nil {
		persistenceErrorsTotal.WithLabelValues("load").Inc()
		s.logger.ErrorContext(ctx, "failed to load cart snapshot",
			slog.String("namespace", s.namespace),
			slog.String("error", err.Error()),
		)
	}

	s.items = snap.Items
	if s.items == nil {
		s.items = []domain.CartItem{}
	}
	s.state = state
	s.loading = false
	loadsTotal.WithLabelValues(state.String()).Inc()

	s.logger.DebugContext(ctx, "cart loaded",
		slog.String("namespace", s.namespace),
		slog.String("state", state.String()),
		slog.Int("items", len(s.items)),
		slog.Int("pending", len(s.pending)),
	)

	if len(s.pending) == 0 {
		return
	}
	for _, a := range s.pending {
		s.items, _ = Reduce(s.items, a)
	}
	s.pending = nil
	s.syncPersistence(ctx)
}

// Namespace returns the storage namespace the store persists under.
func (s *Store) Namespace() string {
	return s.namespace
}

// IsLoading reports whether the initial load is still pending. Contents are
// provisional while it is true.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// State returns the current persistence state.
func (s *Store) State() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Items returns a copy of the current line items.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneItems(s.items)
}

// Cart returns the items with their totals.
func (s *Store) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.NewCart(domain.CloneItems(s.items), s.loading)
}

// AddToCart merges item into the cart.
func (s *Store) AddToCart(ctx context.Context, item domain.CartItem) {
	s.dispatch(ctx, Add(item))
}

// RemoveFromCart drops the line with id. Emptying the cart deletes the
// persisted snapshot.
func (s *Store) RemoveFromCart(ctx context.Context, id string) {
	s.dispatch(ctx, Remove(id))
}

// UpdateQuantity sets the quantity of the line with id. A quantity of zero
// or less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) {
	s.dispatch(ctx, UpdateQuantity(id, quantity))
}

// ClearCart empties the cart and deletes the persisted snapshot, even when
// the cart is already empty.
func (s *Store) ClearCart(ctx context.Context) {
	s.dispatch(ctx, Clear())
}

func (s *Store) dispatch(ctx context.Context, a Action) {
	change, changed := s.apply(ctx, a)
	if !changed {
		return
	}
	mutationsTotal.WithLabelValues(string(a.Op)).Inc()

	for _, l := range s.listeners {
		l(ctx, change)
	}
}

// apply runs a under the lock and persists the result. Every mutation except
// removing a missing id rewrites the snapshot, so the timestamp is refreshed
// even when the items are unchanged. Before Init the action is queued for
// replay instead.
func (s *Store) apply(ctx context.Context, a Action) (Change, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := Reduce(s.items, a)
	s.items = next

	switch {
	case s.loading:
		s.pending = append(s.pending, a)
	case changed || a.Op != OpRemove:
		s.syncPersistence(ctx)
	}

	if !changed {
		return Change{}, false
	}
	return Change{
		Namespace: s.namespace,
		Op:        a.Op,
		ItemID:    a.ID,
		Items:     domain.CloneItems(s.items),
	}, true
}

// syncPersistence mirrors the current items into storage: a non-empty cart
// is written with a fresh timestamp, an empty one removes the snapshot.
// The caller must hold s.mu and the initial load must have completed.
func (s *Store) syncPersistence(ctx context.Context) {
	if len(s.items) == 0 {
		s.state = StateReadyEmpty
		if err := s.persister.Clear(ctx); err != nil {
			s.persistenceFailed(ctx, "clear", err)
		}
		return
	}

	s.state = StateReadyWithData
	if err := s.persister.Save(ctx, s.items); err != nil {
		s.persistenceFailed(ctx, "save", err)
	}
}

func (s *Store) persistenceFailed(ctx context.Context, op string, err error) {
	persistenceErrorsTotal.WithLabelValues(op).Inc()
	s.logger.ErrorContext(ctx, "failed to persist cart",
		slog.String("namespace", s.namespace),
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
}
