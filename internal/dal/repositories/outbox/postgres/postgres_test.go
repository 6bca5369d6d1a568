package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corray333/cloud-kitchen/internal/service/models/outbox"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConn struct {
	query string
	args  []any
	err   error
}

func (c *recordingConn) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.query, c.args = sql, args

	return nil, c.err
}

func (c *recordingConn) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func (c *recordingConn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.query, c.args = sql, args

	return pgconn.CommandTag{}, c.err
}

func TestEnqueueStoresOrderAndEventType(t *testing.T) {
	conn := &recordingConn{}

	err := NewOutboxRepository(conn).Enqueue(context.Background(), outbox.Message{
		MessageID:   "m-1",
		OrderID:     42,
		EventType:   "order.created",
		RoutingKey:  "order-events",
		Payload:     []byte(`{}`),
		ContentType: "application/json",
		MaxRetries:  5,
	})
	require.NoError(t, err)

	assert.Contains(t, conn.query, "INSERT INTO outbox")
	assert.Contains(t, conn.query, "order_id")
	assert.Contains(t, conn.query, "event_type")
	assert.Contains(t, conn.args, int64(42))
	assert.Contains(t, conn.args, "order.created")
}

func TestEnqueueErrorNamesOrder(t *testing.T) {
	conn := &recordingConn{err: errors.New("duplicate key")}

	err := NewOutboxRepository(conn).Enqueue(context.Background(), outbox.Message{OrderID: 42, EventType: "order.created"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "order.created for order 42")
}

func TestClaimLeasesWithSkipLocked(t *testing.T) {
	conn := &recordingConn{err: errors.New("offline")}

	_, err := NewOutboxRepository(conn).Claim(context.Background(), 100, 30*time.Second)

	require.Error(t, err)
	assert.Contains(t, conn.query, "UPDATE outbox SET next_retry_at")
	assert.Contains(t, conn.query, "FOR UPDATE SKIP LOCKED")
	assert.Contains(t, conn.query, "RETURNING id, message_id, order_id, event_type, exchange_name")
	assert.Equal(t, []any{30.0}, conn.args)
}

func TestAckDeletesByID(t *testing.T) {
	conn := &recordingConn{}

	require.NoError(t, NewOutboxRepository(conn).Ack(context.Background(), 5))

	assert.Equal(t, "DELETE FROM outbox WHERE id = $1", conn.query)
	assert.Equal(t, []any{int64(5)}, conn.args)
}
