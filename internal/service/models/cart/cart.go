package cart

import (
	"fmt"
	"slices"

	"github.com/corray333/cloud-kitchen/internal/service/validation"
	"github.com/shopspring/decimal"
)

// MaxQuantity caps the units of a single item a cart may hold.
const MaxQuantity = 999

// ErrInvalidQuantity is returned when a quantity is below one or would push an entry past MaxQuantity.
var ErrInvalidQuantity = fmt.Errorf("%w: quantity must be between 1 and %d", validation.ErrInvalidInput, MaxQuantity)

// Cart maps menu item ids to the quantity a customer wants.
// Quantities stored in Items are always within [1, MaxQuantity].
type Cart struct {
	Items map[int64]int `json:"items"`
}

// New returns an empty cart.
func New() Cart {
	return Cart{Items: map[int64]int{}}
}

// Add increases the quantity of itemID by quantity.
func (c *Cart) Add(itemID int64, quantity int) error {
	if quantity < 1 || quantity > MaxQuantity-c.Items[itemID] {
		return ErrInvalidQuantity
	}
	if c.Items == nil {
		c.Items = map[int64]int{}
	}
	c.Items[itemID] += quantity

	return nil
}

// Update replaces the quantity of itemID. A quantity <= 0 removes the entry.
func (c *Cart) Update(itemID int64, quantity int) error {
	if quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	if quantity <= 0 {
		c.Remove(itemID)

		return nil
	}
	if c.Items == nil {
		c.Items = map[int64]int{}
	}
	c.Items[itemID] = quantity

	return nil
}

// Remove drops itemID. Removing an absent item is a no-op.
func (c *Cart) Remove(itemID int64) {
	delete(c.Items, itemID)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = map[int64]int{}
}

// IsEmpty reports whether the cart has no entries.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Quantity returns the quantity of itemID, zero if absent.
func (c Cart) Quantity(itemID int64) int {
	return c.Items[itemID]
}

// ItemIDs returns the ids in the cart in ascending order.
func (c Cart) ItemIDs() []int64 {
	ids := make([]int64, 0, len(c.Items))
	for id := range c.Items {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

// Clone returns a deep copy.
func (c Cart) Clone() Cart {
	out := New()
	for id, q := range c.Items {
		out.Items[id] = q
	}

	return out
}

// Line is one priced cart entry.
type Line struct {
	ItemID   int64           `json:"itemId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// View is a cart priced against the current catalog.
type View struct {
	Lines []Line          `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// IsEmpty reports whether no priced lines survived.
func (v View) IsEmpty() bool {
	return len(v.Lines) == 0
}
