package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corray333/cloud-kitchen/internal/service/models/inbox"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOffline = errors.New("offline")

type recordingConn struct {
	query string
	args  []any
}

func (c *recordingConn) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.query, c.args = sql, args

	return nil, errOffline
}

func (c *recordingConn) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func (c *recordingConn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.query, c.args = sql, args

	return pgconn.CommandTag{}, nil
}

func TestParkUpsertsOnMessageID(t *testing.T) {
	conn := &recordingConn{}
	now := time.Now()

	err := NewInboxRepository(conn).Park(context.Background(), inbox.Message{
		MessageID:   "m-1",
		OrderID:     42,
		EventType:   "order.status_changed",
		QueueName:   "order-events",
		Payload:     []byte(`{}`),
		ContentType: "application/json",
		MaxRetries:  5,
		LastError:   "audit db down",
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	})
	require.NoError(t, err)

	assert.Contains(t, conn.query, "INSERT INTO inbox")
	assert.Contains(t, conn.query, "ON CONFLICT (message_id) DO UPDATE SET last_error = EXCLUDED.last_error")
	assert.Contains(t, conn.args, int64(42))
	assert.Contains(t, conn.args, "order.status_changed")
	assert.Contains(t, conn.args, "audit db down")
}

func TestClaimLeasesWithSkipLocked(t *testing.T) {
	conn := &recordingConn{}

	_, err := NewInboxRepository(conn).Claim(context.Background(), 25, time.Minute)

	require.ErrorIs(t, err, errOffline)
	assert.Contains(t, conn.query, "UPDATE inbox SET next_retry_at = now() + make_interval(secs => $1)")
	assert.Contains(t, conn.query, "LIMIT 25 FOR UPDATE SKIP LOCKED")
	assert.Contains(t, conn.query, "RETURNING id, message_id, order_id, event_type, queue_name")
	assert.Equal(t, []any{60.0}, conn.args)
}

func TestRetryBumpsAttemptsInPlace(t *testing.T) {
	conn := &recordingConn{}

	require.NoError(t, NewInboxRepository(conn).Retry(context.Background(), 9, "still down", 2*time.Minute))

	assert.Contains(t, conn.query, "retry_count = retry_count + 1")
	assert.Equal(t, []any{"still down", 120.0, int64(9)}, conn.args)
}

func TestMessageDalToModel(t *testing.T) {
	d := MessageDal{ID: 3, MessageID: "m", OrderID: 7, EventType: "order.deleted", RetryCount: 2, MaxRetries: 5}

	msg := d.ToModel()

	assert.Equal(t, int64(7), msg.OrderID)
	assert.Equal(t, "order.deleted", msg.EventType)
	assert.False(t, msg.LastAttempt())
}
