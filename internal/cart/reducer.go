package cart

import "github.com/utafrali/storefront/internal/domain"

// Op names a cart mutation.
type Op string

const (
	OpAdd            Op = "add"
	OpRemove         Op = "remove"
	OpUpdateQuantity Op = "update_quantity"
	OpClear          Op = "clear"
)

// Action is one mutation request applied by Reduce.
type Action struct {
	Op       Op
	Item     domain.CartItem
	ID       string
	Quantity int
}

// Add returns an action that merges item into the cart.
func Add(item domain.CartItem) Action {
	return Action{Op: OpAdd, Item: item, ID: item.ID, Quantity: item.Quantity}
}

// Remove returns an action that drops the item with id.
func Remove(id string) Action {
	return Action{Op: OpRemove, ID: id}
}

// UpdateQuantity returns an action that overwrites the quantity of id.
func UpdateQuantity(id string, quantity int) Action {
	return Action{Op: OpUpdateQuantity, ID: id, Quantity: quantity}
}

// Clear returns an action that empties the cart.
func Clear() Action {
	return Action{Op: OpClear}
}

// Reduce applies a to items and returns the resulting collection and whether
// it differs from the input. items is never modified.
//
//   - add: an existing id has its quantity increased and keeps its other
//     fields; a new id is appended. A non-positive quantity is ignored.
//   - remove: drops the matching id; a missing id is a no-op.
//   - update_quantity: overwrites the quantity of the matching id; a
//     quantity <= 0 removes the line. A missing id is a no-op.
//   - clear: empties the collection.
func Reduce(items []domain.CartItem, a Action) ([]domain.CartItem, bool) {
	switch a.Op {
	case OpAdd:
		if a.Item.Quantity <= 0 {
			return items, false
		}
		next := domain.CloneItems(items)
		if idx := domain.FindItemIndex(next, a.Item.ID); idx >= 0 {
			next[idx].Quantity += a.Item.Quantity
			return next, true
		}
		return append(next, a.Item), true

	case OpRemove:
		idx := domain.FindItemIndex(items, a.ID)
		if idx < 0 {
			return items, false
		}
		return removeAt(items, idx), true

	case OpUpdateQuantity:
		idx := domain.FindItemIndex(items, a.ID)
		if idx < 0 {
			return items, false
		}
		if a.Quantity <= 0 {
			return removeAt(items, idx), true
		}
		if items[idx].Quantity == a.Quantity {
			return items, false
		}
		next := domain.CloneItems(items)
		next[idx].Quantity = a.Quantity
		return next, true

	case OpClear:
		return []domain.CartItem{}, len(items) > 0
	}

	return items, false
}

func removeAt(items []domain.CartItem, idx int) []domain.CartItem {
	next := make([]domain.CartItem, 0, len(items)-1)
	next = append(next, items[:idx]...)
	return append(next, items[idx+1:]...)
}
