package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/pagination"
)

//go:embed products.json
var defaultProducts []byte

// Catalog is the read-only product list shared by the listing page, the
// detail page and add-to-cart.
type Catalog struct {
	products []domain.Product
	byID     map[string]int
}

// New builds a catalog from products. Product IDs must be unique.
func New(products []domain.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]domain.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %q has no id", p.Name)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		if p.Currency == "" {
			p.Currency = domain.CurrencyJPY
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	var products []domain.Product
	if err := json.Unmarshal(defaultProducts, &products); err != nil {
		return nil, fmt.Errorf("decode bundled catalog: %w", err)
	}
	return New(products)
}

// Get returns the product with id.
func (c *Catalog) Get(id string) (domain.Product, error) {
	idx, ok := c.byID[id]
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", id)
	}
	return c.products[idx], nil
}

// List returns one page of products, optionally restricted to category.
func (c *Catalog) List(category string, params pagination.Params) pagination.Result[domain.Product] {
	if category == "" {
		return pagination.Paginate(c.products, params)
	}

	filtered := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return pagination.Paginate(filtered, params)
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}
