package storage

import (
	"context"
	"errors"
)

// ErrEmptyNamespace is returned when a backend is scoped to an empty namespace.
var ErrEmptyNamespace = errors.New("storage: empty namespace")

// Storage is a string-keyed durable slot, one per session namespace. A missing
// key is reported with ok == false and a nil error.
type Storage interface {
	// GetItem returns the value stored under key.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)

	// SetItem stores value under key, overwriting any previous value.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error
}

// Backend hands out namespaced Storage views over one physical store.
type Backend interface {
	// Scope returns the Storage for namespace. Keys in different namespaces
	// never collide.
	Scope(namespace string) Storage

	// Name identifies the backend in logs and health checks.
	Name() string

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error
}
