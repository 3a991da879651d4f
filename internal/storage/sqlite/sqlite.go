package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/utafrali/storefront/internal/storage"
	"github.com/utafrali/storefront/pkg/database"
)

const schema = `CREATE TABLE IF NOT EXISTS cart_storage (
	namespace  TEXT    NOT NULL,
	key        TEXT    NOT NULL,
	value      TEXT    NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (namespace, key)
)`

const (
	getItemQuery = `SELECT value FROM cart_storage WHERE namespace = ? AND key = ?`

	setItemQuery = `INSERT INTO cart_storage (namespace, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	removeItemQuery = `DELETE FROM cart_storage WHERE namespace = ? AND key = ?`
)

// Backend implements storage.Backend on a single SQLite file.
type Backend struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the SQLite database at path and ensures the
// cart_storage table exists.
func Open(ctx context.Context, path string) (*Backend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cart_storage table: %w", err)
	}

	return &Backend{db: db, now: time.Now}, nil
}

// Scope returns the Storage for namespace.
func (b *Backend) Scope(namespace string) storage.Storage {
	return &scoped{backend: b, namespace: namespace}
}

// Name returns "sqlite".
func (b *Backend) Name() string { return "sqlite" }

// Ping checks the database connection.
func (b *Backend) Ping(ctx context.Context) error {
	if b == nil || b.db == nil {
		return fmt.Errorf("sqlite storage is not configured")
	}
	return b.db.PingContext(ctx)
}

// Close releases the underlying SQLite connection.
func (b *Backend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

type scoped struct {
	backend   *Backend
	namespace string
}

func (s *scoped) GetItem(ctx context.Context, key string) (value string, ok bool, err error) {
	if s.namespace == "" {
		return "", false, storage.ErrEmptyNamespace
	}

	ctx, end := database.TraceQuery(ctx, "sqlite", "GetItem", getItemQuery)
	defer func() { end(err) }()

	err = s.backend.db.QueryRowContext(ctx, getItemQuery, s.namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("sqlite get %s: %w", key, err)
	}

	return value, true, nil
}

func (s *scoped) SetItem(ctx context.Context, key, value string) (err error) {
	if s.namespace == "" {
		return storage.ErrEmptyNamespace
	}

	ctx, end := database.TraceQuery(ctx, "sqlite", "SetItem", setItemQuery)
	defer func() { end(err) }()

	updatedAt := s.backend.now().UTC().UnixMilli()
	if _, err = s.backend.db.ExecContext(ctx, setItemQuery, s.namespace, key, value, updatedAt); err != nil {
		return fmt.Errorf("sqlite set %s: %w", key, err)
	}

	return nil
}

func (s *scoped) RemoveItem(ctx context.Context, key string) (err error) {
	if s.namespace == "" {
		return storage.ErrEmptyNamespace
	}

	ctx, end := database.TraceQuery(ctx, "sqlite", "RemoveItem", removeItemQuery)
	defer func() { end(err) }()

	if _, err = s.backend.db.ExecContext(ctx, removeItemQuery, s.namespace, key); err != nil {
		return fmt.Errorf("sqlite remove %s: %w", key, err)
	}

	return nil
}
