package inbox

import (
	"time"
)

// Message is a delivered order event whose processing failed and awaits retry.
// OrderID and EventType are copied from the payload when it decodes.
type Message struct {
	ID          int64
	MessageID   string
	OrderID     int64
	EventType   string
	QueueName   string
	Payload     []byte
	ContentType string
	RetryCount  int
	MaxRetries  int
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	NextRetryAt time.Time
}

// LastAttempt reports whether one more failure exhausts the message.
func (m Message) LastAttempt() bool {
	return m.RetryCount+1 >= m.MaxRetries
}
