package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/storefront/internal/cart"
	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
)

// Kafka topics for cart events.
const (
	TopicCartUpdated = "storefront.cart.updated"
	TopicCartCleared = "storefront.cart.cleared"
)

const (
	AggregateTypeCart = "cart"
	SourceStorefront  = "storefront"
)

// DefaultPublishTimeout bounds how long HandleChange waits on the broker.
const DefaultPublishTimeout = 2 * time.Second

// CartUpdatedData is the payload of a cart.updated event.
type CartUpdatedData struct {
	SessionID   string            `json:"session_id"`
	Op          string            `json:"op"`
	ItemID      string            `json:"item_id,omitempty"`
	Items       []domain.CartItem `json:"items"`
	ItemCount   int               `json:"item_count"`
	TotalAmount int64             `json:"total_amount"`
	Currency    string            `json:"currency"`
}

// CartClearedData is the payload of a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// Publisher sends an event to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes cart events.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
	timeout   time.Duration
}

// NewProducer creates a cart event producer.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger,
		timeout:   DefaultPublishTimeout,
	}
}

// PublishCartUpdated publishes a cart.updated event for the cart's new contents.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID string, op cart.Op, itemID string, items []domain.CartItem) error {
	view := domain.NewCart(items, false)
	data := CartUpdatedData{
		SessionID:   sessionID,
		Op:          string(op),
		ItemID:      itemID,
		Items:       view.Items,
		ItemCount:   view.ItemCount,
		TotalAmount: view.TotalAmount,
		Currency:    view.Currency,
	}

	evt, err := pkgkafka.NewEvent(ctx, "cart.updated", sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	return p.publisher.Publish(ctx, TopicCartUpdated, evt)
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	evt, err := pkgkafka.NewEvent(ctx, "cart.cleared", sessionID, AggregateTypeCart, SourceStorefront, CartClearedData{SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	return p.publisher.Publish(ctx, TopicCartCleared, evt)
}

// HandleChange is a cart.Listener that publishes the event matching change.
// Publishing is bounded by the producer timeout and outlives a cancelled
// request. Failures are logged and never reach the cart.
func (p *Producer) HandleChange(ctx context.Context, change cart.Change) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	var err error
	if change.Op == cart.OpClear {
		err = p.PublishCartCleared(ctx, change.Namespace)
	} else {
		err = p.PublishCartUpdated(ctx, change.Namespace, change.Op, change.ItemID, change.Items)
	}

	if err != nil {
		p.logger.WarnContext(ctx, "failed to publish cart event",
			slog.String("session_id", change.Namespace),
			slog.String("op", string(change.Op)),
			slog.String("error", err.Error()),
		)
	}
}
