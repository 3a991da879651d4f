package domain

import "time"

// CurrencyJPY is the only currency the storefront prices in. Prices are whole yen.
const CurrencyJPY = "JPY"

// CartItem is one line of the cart. ID is unique within a cart and Quantity
// is at least 1 for every item the cart holds.
type CartItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Cart is a read-only view of a cart for rendering.
type Cart struct {
	Items       []CartItem `json:"items"`
	ItemCount   int        `json:"item_count"`
	TotalAmount int64      `json:"total_amount"`
	Currency    string     `json:"currency"`
	IsLoading   bool       `json:"is_loading"`
}

// NewCart builds a view over items, computing the totals.
func NewCart(items []CartItem, loading bool) Cart {
	if items == nil {
		items = []CartItem{}
	}
	c := Cart{
		Items:     items,
		Currency:  CurrencyJPY,
		IsLoading: loading,
	}
	c.ItemCount = c.countItems()
	c.TotalAmount = c.sumAmount()
	return c
}

func (c Cart) sumAmount() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

func (c Cart) countItems() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindItemIndex returns the index of the item with the given ID, or -1.
func FindItemIndex(items []CartItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// CloneItems returns a copy of items that shares no backing array.
func CloneItems(items []CartItem) []CartItem {
	if items == nil {
		return nil
	}
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}

// Snapshot is the persisted form of a cart: the ordered items and the time
// they were last written.
type Snapshot struct {
	Items   []CartItem
	SavedAt time.Time
}

// Expired reports whether the snapshot is older than ttl at now. A snapshot
// without a write time never expires.
func (s Snapshot) Expired(now time.Time, ttl time.Duration) bool {
	if s.SavedAt.IsZero() {
		return false
	}
	return now.Sub(s.SavedAt) > ttl
}
