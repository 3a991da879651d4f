package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/cart"
	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// MaxQuantityPerRequest bounds the quantity a single request may add or set.
const MaxQuantityPerRequest = 99

// AddItemInput holds the parameters for adding a product to the cart.
type AddItemInput struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Quantity  int    `json:"quantity" validate:"required,gte=1,lte=99"`
}

// UpdateQuantityInput holds the new quantity for a cart line. Zero removes
// the line.
type UpdateQuantityInput struct {
	Quantity *int `json:"quantity" validate:"required,gte=0,lte=99"`
}

// ProductLookup resolves product IDs to catalog entries.
type ProductLookup interface {
	Get(id string) (domain.Product, error)
}

// CartService applies cart operations to the store provided in the request
// context.
type CartService struct {
	products ProductLookup
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(products ProductLookup, logger *slog.Logger) *CartService {
	return &CartService{
		products: products,
		logger:   logger,
	}
}

// GetCart returns the current cart.
func (s *CartService) GetCart(ctx context.Context) domain.Cart {
	return cart.FromContext(ctx).Cart()
}

// AddItem looks the product up in the catalog and merges it into the cart.
func (s *CartService) AddItem(ctx context.Context, input AddItemInput) (domain.Cart, error) {
	if input.Quantity <= 0 {
		return domain.Cart{}, apperrors.InvalidInput("quantity must be greater than 0")
	}
	if input.Quantity > MaxQuantityPerRequest {
		return domain.Cart{}, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerRequest))
	}

	product, err := s.products.Get(input.ProductID)
	if err != nil {
		return domain.Cart{}, err
	}

	store := cart.FromContext(ctx)
	store.AddToCart(ctx, product.CartItem(input.Quantity))

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("product_id", product.ID),
		slog.Int("quantity", input.Quantity),
	)

	return store.Cart(), nil
}

// UpdateItemQuantity sets the quantity of a cart line. A quantity of zero
// removes the line; a product not in the cart is left alone.
func (s *CartService) UpdateItemQuantity(ctx context.Context, productID string, quantity int) (domain.Cart, error) {
	if quantity < 0 {
		return domain.Cart{}, apperrors.InvalidInput("quantity must not be negative")
	}
	if quantity > MaxQuantityPerRequest {
		return domain.Cart{}, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerRequest))
	}

	store := cart.FromContext(ctx)
	store.UpdateQuantity(ctx, productID, quantity)

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return store.Cart(), nil
}

// RemoveItem drops a product from the cart. Removing a product that is not
// in the cart is not an error.
func (s *CartService) RemoveItem(ctx context.Context, productID string) domain.Cart {
	store := cart.FromContext(ctx)
	store.RemoveFromCart(ctx, productID)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("product_id", productID),
	)

	return store.Cart()
}

// ClearCart empties the cart.
func (s *CartService) ClearCart(ctx context.Context) {
	cart.FromContext(ctx).ClearCart(ctx)

	s.logger.InfoContext(ctx, "cart cleared")
}
