package ioutboxrepo

import (
	"context"
	"time"

	"github.com/corray333/cloud-kitchen/internal/service/models/outbox"
)

// IOutboxRepository stores order events until they are published.
type IOutboxRepository interface {
	Enqueue(ctx context.Context, msg outbox.Message) error

	// Claim leases up to limit due messages. A claimed message is not handed
	// out again until lease passes or it is rescheduled.
	Claim(ctx context.Context, limit int, lease time.Duration) ([]outbox.Message, error)

	// Ack drops a published message.
	Ack(ctx context.Context, id int64) error

	// Retry records a failed attempt and makes the message due after backoff.
	Retry(ctx context.Context, id int64, lastError string, backoff time.Duration) error
}
