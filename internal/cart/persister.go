package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/storage"
)

// Storage keys holding a cart snapshot.
const (
	ItemsKey     = "ec-cart-items"
	TimestampKey = "ec-cart-timestamp"
)

// DefaultExpiry is how long a snapshot stays loadable after its last write.
const DefaultExpiry = 24 * time.Hour

// TimestampLayout formats the snapshot timestamp as ISO-8601 UTC with
// millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Persister mirrors a cart into a storage.Storage slot and decides whether a
// stored snapshot is still usable.
type Persister struct {
	storage storage.Storage
	expiry  time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// PersisterOption configures a Persister.
type PersisterOption func(*Persister)

// WithExpiry overrides DefaultExpiry. Non-positive values are ignored.
func WithExpiry(d time.Duration) PersisterOption {
	return func(p *Persister) {
		if d > 0 {
			p.expiry = d
		}
	}
}

// WithClock sets the time source used for timestamps and expiry.
func WithClock(now func() time.Time) PersisterOption {
	return func(p *Persister) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPersister creates a Persister over s.
func NewPersister(s storage.Storage, logger *slog.Logger, opts ...PersisterOption) *Persister {
	p := &Persister{
		storage: s,
		expiry:  DefaultExpiry,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load reads the stored snapshot. An expired or unreadable snapshot is
// removed from storage and reported as an empty cart with the matching
// state. A non-nil error means storage itself failed; the returned state is
// then READY-EMPTY-NO-DATA.
func (p *Persister) Load(ctx context.Context) (domain.Snapshot, LoadState, error) {
	rawTimestamp, hasTimestamp, err := p.storage.GetItem(ctx, TimestampKey)
	if err != nil {
		return domain.Snapshot{}, StateReadyEmptyNoData, fmt.Errorf("read cart timestamp: %w", err)
	}

	var snap domain.Snapshot
	if hasTimestamp {
		savedAt, err := time.Parse(time.RFC3339Nano, rawTimestamp)
		if err != nil {
			return p.discardCorrupt(ctx, "timestamp", err)
		}
		snap.SavedAt = savedAt

		if snap.Expired(p.now(), p.expiry) {
			p.logger.InfoContext(ctx, "cart snapshot expired",
				slog.Time("saved_at", savedAt),
				slog.Duration("expiry", p.expiry),
			)
			if err := p.Clear(ctx); err != nil {
				return domain.Snapshot{}, StateReadyEmptyExpired, err
			}
			return domain.Snapshot{}, StateReadyEmptyExpired, nil
		}
	}

	rawItems, hasItems, err := p.storage.GetItem(ctx, ItemsKey)
	if err != nil {
		return domain.Snapshot{}, StateReadyEmptyNoData, fmt.Errorf("read cart items: %w", err)
	}
	if !hasItems {
		if hasTimestamp {
			if err := p.Clear(ctx); err != nil {
				return domain.Snapshot{}, StateReadyEmptyNoData, err
			}
		}
		return domain.Snapshot{}, StateReadyEmptyNoData, nil
	}

	if err := json.Unmarshal([]byte(rawItems), &snap.Items); err != nil {
		return p.discardCorrupt(ctx, "items", err)
	}
	if len(snap.Items) == 0 {
		return snap, StateReadyEmptyNoData, nil
	}

	return snap, StateReadyWithData, nil
}

func (p *Persister) discardCorrupt(ctx context.Context, field string, cause error) (domain.Snapshot, LoadState, error) {
	p.logger.WarnContext(ctx, "discarding corrupt cart snapshot",
		slog.String("field", field),
		slog.String("error", cause.Error()),
	)
	if err := p.Clear(ctx); err != nil {
		return domain.Snapshot{}, StateReadyEmptyCorrupt, err
	}
	return domain.Snapshot{}, StateReadyEmptyCorrupt, nil
}

// Save writes items and a fresh timestamp.
func (p *Persister) Save(ctx context.Context, items []domain.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart items: %w", err)
	}

	if err := p.storage.SetItem(ctx, ItemsKey, string(data)); err != nil {
		return fmt.Errorf("write cart items: %w", err)
	}

	timestamp := p.now().UTC().Format(TimestampLayout)
	if err := p.storage.SetItem(ctx, TimestampKey, timestamp); err != nil {
		return fmt.Errorf("write cart timestamp: %w", err)
	}

	return nil
}

// Clear removes both snapshot keys. Both removals are attempted even if the
// first fails.
func (p *Persister) Clear(ctx context.Context) error {
	var errs []error
	if err := p.storage.RemoveItem(ctx, ItemsKey); err != nil {
		errs = append(errs, fmt.Errorf("remove cart items: %w", err))
	}
	if err := p.storage.RemoveItem(ctx, TimestampKey); err != nil {
		errs = append(errs, fmt.Errorf("remove cart timestamp: %w", err))
	}
	return errors.Join(errs...)
}
