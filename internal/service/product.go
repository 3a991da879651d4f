package service

import (
	"context"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/pagination"
)

// ProductCatalog is the read side of the catalog.
type ProductCatalog interface {
	ProductLookup
	List(category string, params pagination.Params) pagination.Result[domain.Product]
}

// ProductService serves the listing and detail pages.
type ProductService struct {
	catalog ProductCatalog
}

// NewProductService creates a new product service.
func NewProductService(catalog ProductCatalog) *ProductService {
	return &ProductService{catalog: catalog}
}

// ListProducts returns one page of products.
func (s *ProductService) ListProducts(_ context.Context, category string, params pagination.Params) pagination.Result[domain.Product] {
	return s.catalog.List(category, params)
}

// GetProduct returns a single product.
func (s *ProductService) GetProduct(_ context.Context, id string) (domain.Product, error) {
	return s.catalog.Get(id)
}
