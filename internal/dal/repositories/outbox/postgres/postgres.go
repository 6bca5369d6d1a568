package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/cloud-kitchen/internal/dal/postgres"
	"github.com/corray333/cloud-kitchen/internal/service/models/outbox"
	"github.com/jackc/pgx/v5"
)

const table = "outbox"

var messageColumns = []string{
	"id",
	"message_id",
	"order_id",
	"event_type",
	"exchange_name",
	"routing_key",
	"payload",
	"content_type",
	"retry_count",
	"max_retries",
	"last_error",
	"created_at",
	"updated_at",
	"next_retry_at",
}

// MessageDal is one outbox row.
type MessageDal struct {
	ID           int64     `db:"id"`
	MessageID    string    `db:"message_id"`
	OrderID      int64     `db:"order_id"`
	EventType    string    `db:"event_type"`
	ExchangeName string    `db:"exchange_name"`
	RoutingKey   string    `db:"routing_key"`
	Payload      []byte    `db:"payload"`
	ContentType  string    `db:"content_type"`
	RetryCount   int       `db:"retry_count"`
	MaxRetries   int       `db:"max_retries"`
	LastError    string    `db:"last_error"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	NextRetryAt  time.Time `db:"next_retry_at"`
}

func (d MessageDal) ToModel() outbox.Message {
	return outbox.Message(d)
}

// OutboxRepository is the transactional outbox on PostgreSQL. Enqueue runs
// inside the ledger transaction; the worker claims rows outside of it.
type OutboxRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewOutboxRepository creates a new outbox repository on a pool or a transaction.
func NewOutboxRepository(conn postgres.GenericConn) *OutboxRepository {
	return &OutboxRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, msg outbox.Message) error {
	query, args, err := r.sb.Insert(table).
		SetMap(map[string]any{
			"message_id":    msg.MessageID,
			"order_id":      msg.OrderID,
			"event_type":    msg.EventType,
			"exchange_name": msg.ExchangeName,
			"routing_key":   msg.RoutingKey,
			"payload":       msg.Payload,
			"content_type":  msg.ContentType,
			"max_retries":   msg.MaxRetries,
			"created_at":    msg.CreatedAt,
			"updated_at":    msg.UpdatedAt,
			"next_retry_at": msg.NextRetryAt,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build outbox insert: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to enqueue %s for order %d: %w", msg.EventType, msg.OrderID, err)
	}

	return nil
}

func (r *OutboxRepository) Claim(ctx context.Context, limit int, lease time.Duration) ([]outbox.Message, error) {
	query, args, err := postgres.LeaseDue(table, limit, lease, messageColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to build outbox claim: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to claim outbox messages: %w", err)
	}

	dals, err := pgx.CollectRows(rows, pgx.RowToStructByName[MessageDal])
	if err != nil {
		return nil, fmt.Errorf("failed to read claimed outbox messages: %w", err)
	}

	messages := make([]outbox.Message, 0, len(dals))
	for _, d := range dals {
		messages = append(messages, d.ToModel())
	}

	return messages, nil
}

func (r *OutboxRepository) Ack(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build outbox delete: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to ack outbox message %d: %w", id, err)
	}

	return nil
}

func (r *OutboxRepository) Retry(ctx context.Context, id int64, lastError string, backoff time.Duration) error {
	query, args, err := postgres.Reschedule(table, id, lastError, backoff)
	if err != nil {
		return fmt.Errorf("failed to build outbox reschedule: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to reschedule outbox message %d: %w", id, err)
	}

	return nil
}
