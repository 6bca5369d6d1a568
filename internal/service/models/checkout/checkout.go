package checkout

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrIncompleteCheckout is returned when payment is submitted without staged details or cart.
	ErrIncompleteCheckout = errors.New("checkout is not complete")
)

// Input is the raw delivery and contact data entered by the customer.
type Input struct {
	CustomerName    string `json:"customerName"    validate:"min=2,max=100"`
	CustomerEmail   string `json:"customerEmail"   validate:"required,email,max=120"`
	CustomerPhone   string `json:"customerPhone"   validate:"required,phone"`
	CustomerAddress string `json:"customerAddress" validate:"min=10,max=500"`
}

// Details are validated customer data plus the total frozen at staging time.
type Details struct {
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	CustomerPhone   string          `json:"customerPhone"`
	CustomerAddress string          `json:"customerAddress"`
	Total           decimal.Decimal `json:"total"`
	StagedAt        time.Time       `json:"stagedAt"`
}
