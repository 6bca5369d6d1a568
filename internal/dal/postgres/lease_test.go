package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaseDue(t *testing.T) {
	query, args, err := LeaseDue("outbox", 50, 90*time.Second, []string{"id", "message_id"})
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE outbox SET next_retry_at = now() + make_interval(secs => $1) "+
			"WHERE id IN (SELECT id FROM outbox WHERE next_retry_at <= now() AND retry_count < max_retries "+
			"ORDER BY next_retry_at, id LIMIT 50 FOR UPDATE SKIP LOCKED) "+
			"RETURNING id, message_id",
		query)
	assert.Equal(t, []any{90.0}, args)
}

func TestReschedule(t *testing.T) {
	query, args, err := Reschedule("inbox", 7, "audit db down", time.Minute)
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE inbox SET retry_count = retry_count + 1, last_error = $1, "+
			"next_retry_at = now() + make_interval(secs => $2), updated_at = now() WHERE id = $3",
		query)
	assert.Equal(t, []any{"audit db down", 60.0, int64(7)}, args)
}
