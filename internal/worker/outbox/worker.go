package outbox

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/corray333/cloud-kitchen/internal/dal/interfaces/ioutboxrepo"
	"github.com/spf13/viper"
)

// publisher delivers one message to the broker.
type publisher interface {
	Publish(exchange, routingKey, messageID, contentType string, body []byte) error
}

// Worker publishes order events from the outbox table.
type Worker struct {
	outboxRepo    ioutboxrepo.IOutboxRepository
	publisher     publisher
	pollInterval  time.Duration
	batchSize     int
	lease         time.Duration
	retryInterval time.Duration
	stopCh        chan struct{}
}

// NewWorker creates a new outbox worker.
func NewWorker(
	outboxRepo ioutboxrepo.IOutboxRepository,
	publisher publisher,
) *Worker {
	pollIntervalSeconds := viper.GetInt("rabbitmq.outbox.poll_interval_seconds")
	if pollIntervalSeconds == 0 {
		pollIntervalSeconds = 10
	}

	batchSize := viper.GetInt("rabbitmq.outbox.batch_size")
	if batchSize == 0 {
		batchSize = 100
	}

	leaseSeconds := viper.GetInt("rabbitmq.outbox.lease_seconds")
	if leaseSeconds == 0 {
		leaseSeconds = 60
	}

	retryIntervalSeconds := viper.GetInt("rabbitmq.outbox.retry_interval_seconds")
	if retryIntervalSeconds == 0 {
		retryIntervalSeconds = 30
	}

	return &Worker{
		outboxRepo:    outboxRepo,
		publisher:     publisher,
		pollInterval:  time.Duration(pollIntervalSeconds) * time.Second,
		batchSize:     batchSize,
		lease:         time.Duration(leaseSeconds) * time.Second,
		retryInterval: time.Duration(retryIntervalSeconds) * time.Second,
		stopCh:        make(chan struct{}),
	}
}

// Start polls the outbox until ctx is done or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Outbox worker stopped")

			return
		case <-ticker.C:
			w.ProcessMessages(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

// ProcessMessages claims one batch, publishes it and returns how many were
// delivered. Several workers may run against one outbox; each message is
// leased to a single worker at a time.
func (w *Worker) ProcessMessages(ctx context.Context) int {
	messages, err := w.outboxRepo.Claim(ctx, w.batchSize, w.lease)
	if err != nil {
		slog.Error("Failed to claim outbox messages", "error", err)

		return 0
	}

	if len(messages) == 0 {
		return 0
	}

	slog.Debug("Claimed outbox messages", "count", len(messages), "lease", w.lease)

	published := 0
	for _, msg := range messages {
		log := slog.With(
			"outbox_id", msg.ID,
			"message_id", msg.MessageID,
			"order_id", msg.OrderID,
			"event_type", msg.EventType,
		)

		if err := w.publisher.Publish(msg.ExchangeName, msg.RoutingKey, msg.MessageID, msg.ContentType, msg.Payload); err != nil {
			attempt := msg.RetryCount + 1
			if attempt >= msg.MaxRetries {
				log.Error("Order event exhausted its publish attempts", "attempt", attempt, "error", err)
			} else {
				log.Warn("Failed to publish order event, will retry", "attempt", attempt, "error", err)
			}

			if err := w.outboxRepo.Retry(ctx, msg.ID, err.Error(), w.backoff(attempt)); err != nil {
				log.Error("Failed to reschedule outbox message", "error", err)
			}

			continue
		}

		published++
		if err := w.outboxRepo.Ack(ctx, msg.ID); err != nil {
			// Republished once the lease lapses; consumers drop the duplicate by message id.
			log.Error("Failed to ack published outbox message", "error", err)

			continue
		}

		log.Info("Order event published")
	}

	return published
}

// backoff doubles the retry interval per attempt: 60s, 120s, 240s with the default 30s.
func (w *Worker) backoff(retryCount int) time.Duration {
	return time.Duration(math.Pow(2, float64(retryCount))) * w.retryInterval
}
