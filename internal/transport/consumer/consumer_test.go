package consumer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/corray333/cloud-kitchen/internal/service/models/inbox"
	"github.com/corray333/cloud-kitchen/internal/service/services/auditsvc"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ackResult struct {
	acked   bool
	nacked  bool
	requeue bool
}

type fakeAcknowledger struct {
	mu      sync.Mutex
	results map[uint64]ackResult
}

func (a *fakeAcknowledger) record(tag uint64, r ackResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.results == nil {
		a.results = map[uint64]ackResult{}
	}
	a.results[tag] = r

	return nil
}

func (a *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	return a.record(tag, ackResult{acked: true})
}

func (a *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	return a.record(tag, ackResult{nacked: true, requeue: requeue})
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.record(tag, ackResult{nacked: true, requeue: requeue})
}

func (a *fakeAcknowledger) result(tag uint64) ackResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.results[tag]
}

type fakeInboxRepo struct {
	mu     sync.Mutex
	parked []inbox.Message
	err    error
}

func (r *fakeInboxRepo) Park(_ context.Context, msg inbox.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.parked = append(r.parked, msg)

	return nil
}

func (r *fakeInboxRepo) Claim(context.Context, int, time.Duration) ([]inbox.Message, error) {
	return nil, nil
}

func (r *fakeInboxRepo) Ack(context.Context, int64) error {
	return nil
}

func (r *fakeInboxRepo) Retry(context.Context, int64, string, time.Duration) error {
	return nil
}

type fakeService struct {
	errs map[string]error
}

func (s *fakeService) ProcessEvent(_ context.Context, messageID string, _ []byte) error {
	return s.errs[messageID]
}

func delivery(ack amqp.Acknowledger, tag uint64, messageID string) amqp.Delivery {
	return amqp.Delivery{
		Acknowledger: ack,
		DeliveryTag:  tag,
		MessageId:    messageID,
		ContentType:  "application/json",
		Body:         []byte(`{"type":"order.created","orderId":1}`),
	}
}

func newTestConsumer(repo *fakeInboxRepo) *Consumer {
	svc := &fakeService{errs: map[string]error{
		"malformed": fmt.Errorf("%w: bad json", auditsvc.ErrMalformedEvent),
		"failing":   errors.New("database is down"),
	}}

	return newConsumer(nil, svc, repo, "order-events")
}

func TestProcessMessage(t *testing.T) {
	tests := []struct {
		name      string
		messageID string
		inboxErr  error
		want      ackResult
		parked    int
	}{
		{name: "recorded", messageID: "ok", want: ackResult{acked: true}},
		{name: "malformed is dropped", messageID: "malformed", want: ackResult{nacked: true}},
		{name: "failure is parked", messageID: "failing", want: ackResult{acked: true}, parked: 1},
		{
			name:      "unparkable is requeued",
			messageID: "failing",
			inboxErr:  errors.New("inbox unavailable"),
			want:      ackResult{nacked: true, requeue: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAcknowledger{}
			repo := &fakeInboxRepo{err: tt.inboxErr}

			newTestConsumer(repo).processMessage(context.Background(), delivery(ack, 1, tt.messageID))

			assert.Equal(t, tt.want, ack.result(1))
			assert.Len(t, repo.parked, tt.parked)
		})
	}
}

func TestParkedMessageKeepsDelivery(t *testing.T) {
	repo := &fakeInboxRepo{}

	newTestConsumer(repo).processMessage(context.Background(), delivery(&fakeAcknowledger{}, 1, "failing"))

	require.Len(t, repo.parked, 1)
	msg := repo.parked[0]
	assert.Equal(t, "failing", msg.MessageID)
	assert.Equal(t, "order-events", msg.QueueName)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "database is down", msg.LastError)
	assert.Equal(t, 5, msg.MaxRetries)
	assert.Zero(t, msg.RetryCount)
	assert.Equal(t, int64(1), msg.OrderID)
	assert.Equal(t, "order.created", msg.EventType)
}

func TestParkedUndecodableMessageHasNoOrder(t *testing.T) {
	repo := &fakeInboxRepo{}
	d := delivery(&fakeAcknowledger{}, 1, "failing")
	d.Body = []byte(`{"type":"order.created"}`)

	newTestConsumer(repo).processMessage(context.Background(), d)

	require.Len(t, repo.parked, 1)
	assert.Zero(t, repo.parked[0].OrderID)
	assert.Empty(t, repo.parked[0].EventType)
}

func TestServeDrainsUntilChannelCloses(t *testing.T) {
	ack := &fakeAcknowledger{}
	c := newTestConsumer(&fakeInboxRepo{})
	msgs := make(chan amqp.Delivery, 3)
	msgs <- delivery(ack, 1, "ok")
	msgs <- delivery(ack, 2, "malformed")
	msgs <- delivery(ack, 3, "failing")
	close(msgs)

	c.serve(context.Background(), msgs)

	assert.True(t, ack.result(1).acked)
	assert.True(t, ack.result(2).nacked)
	assert.True(t, ack.result(3).acked)
	require.NoError(t, c.Shutdown(context.Background()))
}

func TestShutdownStopsServe(t *testing.T) {
	c := newTestConsumer(&fakeInboxRepo{})
	msgs := make(chan amqp.Delivery)

	go c.serve(context.Background(), msgs)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.Shutdown(ctx))
	require.NoError(t, c.Shutdown(ctx))
}
