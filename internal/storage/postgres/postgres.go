package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/utafrali/storefront/internal/storage"
	"github.com/utafrali/storefront/pkg/database"
)

const schema = `CREATE TABLE IF NOT EXISTS cart_storage (
	namespace  TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (namespace, key)
)`

const (
	getItemQuery = `SELECT value FROM cart_storage WHERE namespace = $1 AND key = $2`

	setItemQuery = `INSERT INTO cart_storage (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	removeItemQuery = `DELETE FROM cart_storage WHERE namespace = $1 AND key = $2`
)

// DB is the subset of *pgxpool.Pool the backend needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Backend implements storage.Backend on a PostgreSQL table.
type Backend struct {
	db  DB
	now func() time.Time
}

// New creates a PostgreSQL-backed storage over db.
func New(db DB) *Backend {
	return &Backend{db: db, now: time.Now}
}

// Migrate creates the cart_storage table if it does not exist.
func (b *Backend) Migrate(ctx context.Context) error {
	if _, err := b.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create cart_storage table: %w", err)
	}
	return nil
}

// Scope returns the Storage for namespace.
func (b *Backend) Scope(namespace string) storage.Storage {
	return &scoped{backend: b, namespace: namespace}
}

// Name returns "postgres".
func (b *Backend) Name() string { return "postgres" }

// Ping checks the pool.
func (b *Backend) Ping(ctx context.Context) error {
	return b.db.Ping(ctx)
}

// Close closes the pool.
func (b *Backend) Close() error {
	b.db.Close()
	return nil
}

type scoped struct {
	backend   *Backend
	namespace string
}

func (s *scoped) GetItem(ctx context.Context, key string) (value string, ok bool, err error) {
	if s.namespace == "" {
		return "", false, storage.ErrEmptyNamespace
	}

	ctx, end := database.TraceQuery(ctx, "postgresql", "GetItem", getItemQuery)
	defer func() { end(err) }()

	err = s.backend.db.QueryRow(ctx, getItemQuery, s.namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("postgres get %s: %w", key, err)
	}

	return value, true, nil
}

func (s *scoped) SetItem(ctx context.Context, key, value string) (err error) {
	if s.namespace == "" {
		return storage.ErrEmptyNamespace
	}

	ctx, end := database.TraceQuery(ctx, "postgresql", "SetItem", setItemQuery)
	defer func() { end(err) }()

	if _, err = s.backend.db.Exec(ctx, setItemQuery, s.namespace, key, value, s.backend.now().UTC()); err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}

	return nil
}

func (s *scoped) RemoveItem(ctx context.Context, key string) (err error) {
	if s.namespace == "" {
		return storage.ErrEmptyNamespace
	}

	ctx, end := database.TraceQuery(ctx, "postgresql", "RemoveItem", removeItemQuery)
	defer func() { end(err) }()

	if _, err = s.backend.db.Exec(ctx, removeItemQuery, s.namespace, key); err != nil {
		return fmt.Errorf("postgres remove %s: %w", key, err)
	}

	return nil
}
