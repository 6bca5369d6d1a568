package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/cloud-kitchen/internal/dal/postgres"
	"github.com/corray333/cloud-kitchen/internal/service/models/inbox"
	"github.com/jackc/pgx/v5"
)

const table = "inbox"

var messageColumns = []string{
	"id",
	"message_id",
	"order_id",
	"event_type",
	"queue_name",
	"payload",
	"content_type",
	"retry_count",
	"max_retries",
	"last_error",
	"created_at",
	"updated_at",
	"next_retry_at",
}

// MessageDal is one inbox row.
type MessageDal struct {
	ID          int64     `db:"id"`
	MessageID   string    `db:"message_id"`
	OrderID     int64     `db:"order_id"`
	EventType   string    `db:"event_type"`
	QueueName   string    `db:"queue_name"`
	Payload     []byte    `db:"payload"`
	ContentType string    `db:"content_type"`
	RetryCount  int       `db:"retry_count"`
	MaxRetries  int       `db:"max_retries"`
	LastError   string    `db:"last_error"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	NextRetryAt time.Time `db:"next_retry_at"`
}

func (d MessageDal) ToModel() inbox.Message {
	return inbox.Message(d)
}

// InboxRepository holds audit deliveries awaiting another attempt.
type InboxRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewInboxRepository creates a new inbox repository.
func NewInboxRepository(conn postgres.GenericConn) *InboxRepository {
	return &InboxRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Park upserts on message_id: a redelivery that fails again refreshes the
// error of the parked row and leaves its schedule alone.
func (r *InboxRepository) Park(ctx context.Context, msg inbox.Message) error {
	query, args, err := r.sb.Insert(table).
		SetMap(map[string]any{
			"message_id":    msg.MessageID,
			"order_id":      msg.OrderID,
			"event_type":    msg.EventType,
			"queue_name":    msg.QueueName,
			"payload":       msg.Payload,
			"content_type":  msg.ContentType,
			"max_retries":   msg.MaxRetries,
			"last_error":    msg.LastError,
			"created_at":    msg.CreatedAt,
			"updated_at":    msg.UpdatedAt,
			"next_retry_at": msg.NextRetryAt,
		}).
		Suffix("ON CONFLICT (message_id) DO UPDATE SET last_error = EXCLUDED.last_error, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build inbox insert: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to park message %s: %w", msg.MessageID, err)
	}

	return nil
}

func (r *InboxRepository) Claim(ctx context.Context, limit int, lease time.Duration) ([]inbox.Message, error) {
	query, args, err := postgres.LeaseDue(table, limit, lease, messageColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to build inbox claim: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to claim inbox messages: %w", err)
	}

	dals, err := pgx.CollectRows(rows, pgx.RowToStructByName[MessageDal])
	if err != nil {
		return nil, fmt.Errorf("failed to read claimed inbox messages: %w", err)
	}

	messages := make([]inbox.Message, len(dals))
	for i, d := range dals {
		messages[i] = d.ToModel()
	}

	return messages, nil
}

func (r *InboxRepository) Ack(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build inbox delete: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to ack inbox message %d: %w", id, err)
	}

	return nil
}

func (r *InboxRepository) Retry(ctx context.Context, id int64, lastError string, backoff time.Duration) error {
	query, args, err := postgres.Reschedule(table, id, lastError, backoff)
	if err != nil {
		return fmt.Errorf("failed to build inbox reschedule: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to reschedule inbox message %d: %w", id, err)
	}

	return nil
}
