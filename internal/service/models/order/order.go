package order

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/corray333/cloud-kitchen/internal/service/models/orderitem"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("order not found")

// Order represents a placed order in the ledger.
type Order struct {
	ID              int64                 `json:"id"`
	CustomerName    string                `json:"customerName"`
	CustomerEmail   string                `json:"customerEmail"`
	CustomerPhone   string                `json:"customerPhone"`
	CustomerAddress string                `json:"customerAddress"`
	TotalAmount     decimal.Decimal       `json:"totalAmount"`
	Status          Status                `json:"status"`
	PaymentStatus   PaymentStatus         `json:"paymentStatus"`
	PaymentMethod   PaymentMethod         `json:"paymentMethod"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
	OrderItems      []orderitem.OrderItem `json:"orderItems"`
}

// ItemsTotal sums the frozen line items. It can differ from TotalAmount when
// a menu item disappeared between staging and commit.
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.OrderItems {
		total = total.Add(item.Subtotal())
	}

	return total
}

// Status is the fulfilment state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid order status")

func Statuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusDelivered, StatusCancelled}
}

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses() {
		if st.String() == s {
			return st, nil
		}
	}

	return "", ErrInvalidStatus
}

// IsValidTransition reports whether an order may move from one status to another.
// Any known status is reachable from any other, terminal states included.
func IsValidTransition(from, to Status) bool {
	_, err := ParseStatus(to.String())

	return err == nil
}

// PaymentStatus is the settlement state of an order.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

var ErrInvalidPaymentStatus = errors.New("invalid payment status")

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return s.String(), nil
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch s {
	case PaymentStatusPending.String():
		return PaymentStatusPending, nil
	case PaymentStatusPaid.String():
		return PaymentStatusPaid, nil
	case PaymentStatusFailed.String():
		return PaymentStatusFailed, nil
	default:
		return "", ErrInvalidPaymentStatus
	}
}

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

var ErrInvalidPaymentMethod = errors.New("invalid payment method")

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return m.String(), nil
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch s {
	case PaymentMethodCash.String():
		return PaymentMethodCash, nil
	case PaymentMethodCard.String():
		return PaymentMethodCard, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

// PaymentStatusFor resolves the payment status of a freshly placed order.
// No gateway is contacted: card is treated as settled, cash is collected on delivery.
func PaymentStatusFor(m PaymentMethod) PaymentStatus {
	if m == PaymentMethodCard {
		return PaymentStatusPaid
	}

	return PaymentStatusPending
}
