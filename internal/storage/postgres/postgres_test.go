package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/storage"
)

var fixedNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func newTestFixture(t *testing.T) (*Backend, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	b := New(mock)
	b.now = func() time.Time { return fixedNow }
	return b, mock
}

// ---------------------------------------------------------------------------
// Migrate
// ---------------------------------------------------------------------------

func TestBackend_Migrate(t *testing.T) {
	b, mock := newTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS cart_storage").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, b.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_Migrate_Error(t *testing.T) {
	b, mock := newTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS cart_storage").
		WillReturnError(errors.New("permission denied"))

	err := b.Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create cart_storage table")
}

// ---------------------------------------------------------------------------
// GetItem
// ---------------------------------------------------------------------------

func TestBackend_GetItem_Success(t *testing.T) {
	b, mock := newTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT value FROM cart_storage WHERE namespace =").
		WithArgs("sess-1", "ec-cart-items").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(`[{"id":"1"}]`))

	v, ok, err := b.Scope("sess-1").GetItem(context.Background(), "ec-cart-items")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_GetItem_Missing(t *testing.T) {
	b, mock := newTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT value FROM cart_storage WHERE namespace =").
		WithArgs("sess-1", "ec-cart-items").
		WillReturnError(pgx.ErrNoRows)

	v, ok, err := b.Scope("sess-1").GetItem(context.Background(), "ec-cart-items")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_GetItem_QueryError(t *testing.T) {
	b, mock := newTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT value FROM cart_storage WHERE namespace =").
		WithArgs("sess-1", "ec-cart-items").
		WillReturnError(errors.New("connection refused"))

	_, ok, err := b.Scope("sess-1").GetItem(context.Background(), "ec-cart-items")

	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "postgres get ec-cart-items")
}

// ---------------------------------------------------------------------------
// SetItem
// ---------------------------------------------------------------------------

func TestBackend_SetItem_Success(t *testing.T) {
	b, mock := newTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO cart_storage").
		WithArgs("sess-1", "ec-cart-timestamp", "2026-10-18T09:30:00.000Z", fixedNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := b.Scope("sess-1").SetItem(context.Background(), "ec-cart-timestamp", "2026-10-18T09:30:00.000Z")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_SetItem_ExecError(t *testing.T) {
	b, mock := newTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO cart_storage").
		WithArgs("sess-1", "k", "v", pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	err := b.Scope("sess-1").SetItem(context.Background(), "k", "v")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres set k")
}

// ---------------------------------------------------------------------------
// RemoveItem
// ---------------------------------------------------------------------------

func TestBackend_RemoveItem_Success(t *testing.T) {
	b, mock := newTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM cart_storage WHERE namespace =").
		WithArgs("sess-1", "k").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, b.Scope("sess-1").RemoveItem(context.Background(), "k"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_RemoveItem_ExecError(t *testing.T) {
	b, mock := newTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM cart_storage WHERE namespace =").
		WithArgs("sess-1", "k").
		WillReturnError(errors.New("connection refused"))

	err := b.Scope("sess-1").RemoveItem(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres remove k")
}

func TestBackend_EmptyNamespace(t *testing.T) {
	b, mock := newTestFixture(t)
	defer mock.Close()

	_, _, err := b.Scope("").GetItem(context.Background(), "k")
	assert.ErrorIs(t, err, storage.ErrEmptyNamespace)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_Name(t *testing.T) {
	b, mock := newTestFixture(t)
	defer mock.Close()

	assert.Equal(t, "postgres", b.Name())
}
