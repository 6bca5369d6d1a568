package auditlog

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditLogOrder is one recorded ledger change.
type AuditLogOrder struct {
	ID            int64           `json:"id"`
	MessageID     string          `json:"messageId"`
	OrderID       int64           `json:"orderId"`
	EventType     string          `json:"eventType"`
	OrderStatus   string          `json:"orderStatus"`
	PaymentStatus string          `json:"paymentStatus"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	OccurredAt    time.Time       `json:"occurredAt"`
	CreatedAt     time.Time       `json:"createdAt"`
}
