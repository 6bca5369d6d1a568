package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corray333/cloud-kitchen/internal/dal/memory"
	"github.com/corray333/cloud-kitchen/internal/service/models/outbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	routingKey string
	messageID  string
	body       string
}

type fakePublisher struct {
	sent []published
	fail map[string]error
}

func (p *fakePublisher) Publish(_, routingKey, messageID, _ string, body []byte) error {
	if err := p.fail[messageID]; err != nil {
		return err
	}
	p.sent = append(p.sent, published{routingKey: routingKey, messageID: messageID, body: string(body)})

	return nil
}

func newWorker(t *testing.T, pub *fakePublisher) (*Worker, *memory.OutboxRepository) {
	t.Helper()

	repo := memory.NewStore().OutboxRepository()
	w := NewWorker(repo, pub)
	w.retryInterval = 30 * time.Second
	w.lease = time.Minute

	return w, repo
}

func enqueue(t *testing.T, repo *memory.OutboxRepository, messageID string, orderID int64) {
	t.Helper()

	require.NoError(t, repo.Enqueue(context.Background(), outbox.Message{
		MessageID:   messageID,
		OrderID:     orderID,
		EventType:   "order.created",
		RoutingKey:  "order-events",
		Payload:     []byte(`{"type":"order.created"}`),
		ContentType: "application/json",
		MaxRetries:  5,
		NextRetryAt: time.Now().Add(-time.Second),
	}))
}

// pending returns every due message without leasing it.
func pending(t *testing.T, repo *memory.OutboxRepository) []outbox.Message {
	t.Helper()

	msgs, err := repo.Claim(context.Background(), 100, 0)
	require.NoError(t, err)

	return msgs
}

func TestProcessMessagesPublishesAndAcks(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	w, repo := newWorker(t, pub)
	enqueue(t, repo, "a", 1)
	enqueue(t, repo, "b", 2)

	assert.Equal(t, 2, w.ProcessMessages(ctx))

	require.Len(t, pub.sent, 2)
	assert.Equal(t, "a", pub.sent[0].messageID)
	assert.Equal(t, "order-events", pub.sent[0].routingKey)
	assert.JSONEq(t, `{"type":"order.created"}`, pub.sent[0].body)

	assert.Empty(t, pending(t, repo))
	assert.Zero(t, w.ProcessMessages(ctx))
}

func TestProcessMessagesSchedulesRetry(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{fail: map[string]error{"b": errors.New("channel closed")}}
	w, repo := newWorker(t, pub)
	w.retryInterval = 0
	enqueue(t, repo, "a", 1)
	enqueue(t, repo, "b", 2)

	assert.Equal(t, 1, w.ProcessMessages(ctx))

	require.Len(t, pub.sent, 1)
	assert.Equal(t, "a", pub.sent[0].messageID)

	msgs := pending(t, repo)
	require.Len(t, msgs, 1)
	assert.Equal(t, "b", msgs[0].MessageID)
	assert.Equal(t, int64(2), msgs[0].OrderID)
	assert.Equal(t, 1, msgs[0].RetryCount)
	assert.Equal(t, "channel closed", msgs[0].LastError)

	pub.fail = nil
	assert.Equal(t, 1, w.ProcessMessages(ctx))
	assert.Empty(t, pending(t, repo))
}

func TestFailedMessageWaitsOutBackoff(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{fail: map[string]error{"a": errors.New("channel closed")}}
	w, repo := newWorker(t, pub)
	enqueue(t, repo, "a", 1)

	assert.Zero(t, w.ProcessMessages(ctx))

	pub.fail = nil
	assert.Zero(t, w.ProcessMessages(ctx))
	assert.Empty(t, pub.sent)
}

func TestExhaustedMessageIsNotClaimed(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{fail: map[string]error{"a": errors.New("channel closed")}}
	w, repo := newWorker(t, pub)
	w.retryInterval = 0
	require.NoError(t, repo.Enqueue(ctx, outbox.Message{MessageID: "a", MaxRetries: 2}))

	assert.Zero(t, w.ProcessMessages(ctx))
	assert.Zero(t, w.ProcessMessages(ctx))
	assert.Empty(t, pending(t, repo))
}

func TestProcessMessagesSkipsLeasedMessages(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	w, repo := newWorker(t, pub)
	enqueue(t, repo, "a", 1)

	claimed, err := repo.Claim(ctx, 10, time.Minute)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	assert.Zero(t, w.ProcessMessages(ctx))
	assert.Empty(t, pub.sent)
}

func TestProcessMessagesEmptyOutbox(t *testing.T) {
	pub := &fakePublisher{}
	w, _ := newWorker(t, pub)

	assert.Zero(t, w.ProcessMessages(context.Background()))
	assert.Empty(t, pub.sent)
}

func TestBackoffDoubles(t *testing.T) {
	w, _ := newWorker(t, &fakePublisher{})

	assert.Equal(t, 60*time.Second, w.backoff(1))
	assert.Equal(t, 120*time.Second, w.backoff(2))
	assert.Equal(t, 240*time.Second, w.backoff(3))
}

func TestStartReturnsOnStop(t *testing.T) {
	w, _ := newWorker(t, &fakePublisher{})
	w.pollInterval = time.Millisecond

	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	w.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
