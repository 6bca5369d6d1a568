package orderitem

import (
	"github.com/shopspring/decimal"
)

// UnknownMenuItemName labels an item whose menu entry no longer exists.
const UnknownMenuItemName = "Unknown"

// OrderItem represents a frozen line of an order.
type OrderItem struct {
	ID         int64           `json:"id"`
	OrderID    int64           `json:"orderId"`
	MenuItemID int64           `json:"menuItemId"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`

	// MenuItemName is resolved from the catalog at read time and never stored.
	MenuItemName string `json:"menuItemName,omitempty"`
}

// Subtotal is the frozen unit price times the quantity.
func (oi OrderItem) Subtotal() decimal.Decimal {
	return oi.Price.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}
