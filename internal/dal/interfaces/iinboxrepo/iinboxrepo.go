package iinboxrepo

import (
	"context"
	"time"

	"github.com/corray333/cloud-kitchen/internal/service/models/inbox"
)

// IInboxRepository parks deliveries the audit service failed to record.
type IInboxRepository interface {
	// Park stores a failed delivery. Parking the same message id twice keeps
	// one row carrying the newest error.
	Park(ctx context.Context, msg inbox.Message) error

	Claim(ctx context.Context, limit int, lease time.Duration) ([]inbox.Message, error)
	Ack(ctx context.Context, id int64) error
	Retry(ctx context.Context, id int64, lastError string, backoff time.Duration) error
}
