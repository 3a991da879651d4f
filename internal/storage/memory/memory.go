package memory

import (
	"context"
	"sync"

	"github.com/utafrali/storefront/internal/storage"
)

type key struct {
	namespace string
	name      string
}

// Backend keeps every namespace in process memory. Contents are lost on
// restart, which makes it suitable for development and tests.
type Backend struct {
	mu    sync.RWMutex
	items map[key]string
}

// New creates an empty in-memory backend.
func New() *Backend {
	return &Backend{items: make(map[key]string)}
}

// Scope returns the Storage for namespace.
func (b *Backend) Scope(namespace string) storage.Storage {
	return &scoped{backend: b, namespace: namespace}
}

// Name returns "memory".
func (b *Backend) Name() string { return "memory" }

// Ping always succeeds.
func (b *Backend) Ping(context.Context) error { return nil }

// Close drops all stored values.
func (b *Backend) Close() error {
	b.mu.Lock()
	b.items = make(map[key]string)
	b.mu.Unlock()
	return nil
}

// Len returns the number of stored keys across all namespaces.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

type scoped struct {
	backend   *Backend
	namespace string
}

func (s *scoped) GetItem(_ context.Context, name string) (string, bool, error) {
	if s.namespace == "" {
		return "", false, storage.ErrEmptyNamespace
	}
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	v, ok := s.backend.items[key{s.namespace, name}]
	return v, ok, nil
}

func (s *scoped) SetItem(_ context.Context, name, value string) error {
	if s.namespace == "" {
		return storage.ErrEmptyNamespace
	}
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	s.backend.items[key{s.namespace, name}] = value
	return nil
}

func (s *scoped) RemoveItem(_ context.Context, name string) error {
	if s.namespace == "" {
		return storage.ErrEmptyNamespace
	}
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	delete(s.backend.items, key{s.namespace, name})
	return nil
}
