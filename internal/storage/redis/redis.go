package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/storage"
)

const keyPrefix = "storefront:"

// Backend implements storage.Backend on Redis. Each namespaced key is a plain
// string value under "storefront:<namespace>:<key>".
type Backend struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a Redis-backed storage. A positive ttl is applied to every
// write so abandoned sessions are eventually collected by Redis. It is
// independent of the cart's own expiry, which is judged from the stored
// timestamp.
func New(client *redis.Client, ttl time.Duration) *Backend {
	return &Backend{
		client: client,
		ttl:    ttl,
	}
}

// Scope returns the Storage for namespace.
func (b *Backend) Scope(namespace string) storage.Storage {
	return &scoped{backend: b, namespace: namespace}
}

// Name returns "redis".
func (b *Backend) Name() string { return "redis" }

// Ping checks the Redis connection.
func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (b *Backend) Close() error {
	return b.client.Close()
}

// Key returns the Redis key used for name in namespace.
func Key(namespace, name string) string {
	return keyPrefix + namespace + ":" + name
}

type scoped struct {
	backend   *Backend
	namespace string
}

func (s *scoped) GetItem(ctx context.Context, name string) (string, bool, error) {
	if s.namespace == "" {
		return "", false, storage.ErrEmptyNamespace
	}

	value, err := s.backend.client.Get(ctx, Key(s.namespace, name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", name, err)
	}

	return value, true, nil
}

func (s *scoped) SetItem(ctx context.Context, name, value string) error {
	if s.namespace == "" {
		return storage.ErrEmptyNamespace
	}

	if err := s.backend.client.Set(ctx, Key(s.namespace, name), value, s.backend.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", name, err)
	}

	return nil
}

func (s *scoped) RemoveItem(ctx context.Context, name string) error {
	if s.namespace == "" {
		return storage.ErrEmptyNamespace
	}

	if err := s.backend.client.Del(ctx, Key(s.namespace, name)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", name, err)
	}

	return nil
}
