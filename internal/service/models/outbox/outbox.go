package outbox

import (
	"time"
)

// Message is an order event waiting to be published to RabbitMQ.
// It is written in the same transaction as the ledger change it describes.
type Message struct {
	ID           int64
	MessageID    string
	OrderID      int64
	EventType    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}

// Due reports whether the message may be claimed at now.
func (m Message) Due(now time.Time) bool {
	return !m.NextRetryAt.After(now) && m.RetryCount < m.MaxRetries
}
