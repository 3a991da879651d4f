package cart

import (
	"context"
	"errors"
)

// ErrNoProvider is the panic value raised when a cart is requested from a
// context that was never given one.
var ErrNoProvider = errors.New("cart: store accessed outside of its provider")

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the store provided for ctx. It panics with
// ErrNoProvider when ctx carries none; that is a wiring bug, not a runtime
// condition.
func FromContext(ctx context.Context) *Store {
	s, ok := Lookup(ctx)
	if !ok {
		panic(ErrNoProvider)
	}
	return s
}

// Lookup returns the store provided for ctx, if any.
func Lookup(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(contextKey{}).(*Store)
	return s, ok && s != nil
}
