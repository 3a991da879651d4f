package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/cart"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/storage/memory"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
)

// ---------------------------------------------------------------------------
// Mock product lookup
// ---------------------------------------------------------------------------

type mockProductLookup struct {
	mock.Mock
}

func (m *mockProductLookup) Get(id string) (domain.Product, error) {
	args := m.Called(id)
	return args.Get(0).(domain.Product), args.Error(1)
}

var productA = domain.Product{ID: "1", Name: "商品A", Price: 1000, Currency: domain.CurrencyJPY, ImageURL: "/images/product-a.jpg"}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestService(t *testing.T) (*CartService, *mockProductLookup, context.Context, *cart.Store) {
	t.Helper()
	products := new(mockProductLookup)
	svc := NewCartService(products, logger.Discard())

	store := cart.NewStore("sess-1", cart.NewPersister(memory.New().Scope("sess-1"), logger.Discard()), logger.Discard())
	store.Init(context.Background())
	ctx := cart.NewContext(context.Background(), store)
	return svc, products, ctx, store
}

// ---------------------------------------------------------------------------
// AddItem
// ---------------------------------------------------------------------------

func TestCartService_AddItem_Success(t *testing.T) {
	svc, products, ctx, _ := newTestService(t)
	products.On("Get", "1").Return(productA, nil)

	c, err := svc.AddItem(ctx, AddItemInput{ProductID: "1", Quantity: 2})

	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, domain.CartItem{ID: "1", Name: "商品A", Price: 1000, Quantity: 2, ImageURL: "/images/product-a.jpg"}, c.Items[0])
	assert.Equal(t, int64(2000), c.TotalAmount)
	products.AssertExpectations(t)
}

func TestCartService_AddItem_Merges(t *testing.T) {
	svc, products, ctx, _ := newTestService(t)
	products.On("Get", "1").Return(productA, nil)

	_, err := svc.AddItem(ctx, AddItemInput{ProductID: "1", Quantity: 1})
	require.NoError(t, err)
	c, err := svc.AddItem(ctx, AddItemInput{ProductID: "1", Quantity: 2})
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestCartService_AddItem_UnknownProduct(t *testing.T) {
	svc, products, ctx, store := newTestService(t)
	products.On("Get", "999").Return(domain.Product{}, apperrors.NotFound("product", "999"))

	_, err := svc.AddItem(ctx, AddItemInput{ProductID: "999", Quantity: 1})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Empty(t, store.Items())
}

func TestCartService_AddItem_InvalidQuantity(t *testing.T) {
	svc, products, ctx, _ := newTestService(t)

	_, err := svc.AddItem(ctx, AddItemInput{ProductID: "1", Quantity: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = svc.AddItem(ctx, AddItemInput{ProductID: "1", Quantity: 100})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not exceed 99")

	products.AssertNotCalled(t, "Get", mock.Anything)
}

// ---------------------------------------------------------------------------
// UpdateItemQuantity
// ---------------------------------------------------------------------------

func TestCartService_UpdateItemQuantity(t *testing.T) {
	svc, products, ctx, _ := newTestService(t)
	products.On("Get", "1").Return(productA, nil)
	_, err := svc.AddItem(ctx, AddItemInput{ProductID: "1", Quantity: 1})
	require.NoError(t, err)

	c, err := svc.UpdateItemQuantity(ctx, "1", 5)

	require.NoError(t, err)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.Equal(t, 5, c.ItemCount)
}

func TestCartService_UpdateItemQuantity_ZeroRemoves(t *testing.T) {
	svc, products, ctx, _ := newTestService(t)
	products.On("Get", "1").Return(productA, nil)
	_, err := svc.AddItem(ctx, AddItemInput{ProductID: "1", Quantity: 1})
	require.NoError(t, err)

	c, err := svc.UpdateItemQuantity(ctx, "1", 0)

	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestCartService_UpdateItemQuantity_Negative(t *testing.T) {
	svc, _, ctx, _ := newTestService(t)

	_, err := svc.UpdateItemQuantity(ctx, "1", -1)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestCartService_UpdateItemQuantity_MissingItemIsNoop(t *testing.T) {
	svc, _, ctx, _ := newTestService(t)

	c, err := svc.UpdateItemQuantity(ctx, "404", 3)

	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

// ---------------------------------------------------------------------------
// RemoveItem / ClearCart / GetCart
// ---------------------------------------------------------------------------

func TestCartService_RemoveItem(t *testing.T) {
	svc, products, ctx, _ := newTestService(t)
	products.On("Get", "1").Return(productA, nil)
	_, err := svc.AddItem(ctx, AddItemInput{ProductID: "1", Quantity: 1})
	require.NoError(t, err)

	c := svc.RemoveItem(ctx, "1")
	assert.Empty(t, c.Items)

	c = svc.RemoveItem(ctx, "1")
	assert.Empty(t, c.Items)
}

func TestCartService_ClearCart(t *testing.T) {
	svc, products, ctx, _ := newTestService(t)
	products.On("Get", "1").Return(productA, nil)
	_, err := svc.AddItem(ctx, AddItemInput{ProductID: "1", Quantity: 3})
	require.NoError(t, err)

	svc.ClearCart(ctx)

	c := svc.GetCart(ctx)
	assert.Empty(t, c.Items)
	assert.Zero(t, c.TotalAmount)
	assert.False(t, c.IsLoading)
}

func TestCartService_WithoutProvidedStorePanics(t *testing.T) {
	svc := NewCartService(new(mockProductLookup), logger.Discard())

	assert.PanicsWithError(t, cart.ErrNoProvider.Error(), func() {
		svc.GetCart(context.Background())
	})
}
