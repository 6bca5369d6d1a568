package inbox

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/corray333/cloud-kitchen/internal/dal/interfaces/iinboxrepo"
	"github.com/corray333/cloud-kitchen/internal/service/services/auditsvc"
	"github.com/spf13/viper"
)

// service represents the service layer interface.
type service interface {
	ProcessEvent(ctx context.Context, messageID string, payload []byte) error
}

// Worker retries parked deliveries from the inbox table.
type Worker struct {
	inboxRepo     iinboxrepo.IInboxRepository
	service       service
	pollInterval  time.Duration
	batchSize     int
	lease         time.Duration
	retryInterval time.Duration
	stopCh        chan struct{}
}

// NewWorker creates a new inbox worker configured from rabbitmq.inbox.*.
func NewWorker(
	inboxRepo iinboxrepo.IInboxRepository,
	service service,
) *Worker {
	pollIntervalSeconds := viper.GetInt("rabbitmq.inbox.poll_interval_seconds")
	if pollIntervalSeconds == 0 {
		pollIntervalSeconds = 10
	}

	batchSize := viper.GetInt("rabbitmq.inbox.batch_size")
	if batchSize == 0 {
		batchSize = 100
	}

	leaseSeconds := viper.GetInt("rabbitmq.inbox.lease_seconds")
	if leaseSeconds == 0 {
		leaseSeconds = 60
	}

	retryIntervalSeconds := viper.GetInt("rabbitmq.inbox.retry_interval_seconds")
	if retryIntervalSeconds == 0 {
		retryIntervalSeconds = 30
	}

	return &Worker{
		inboxRepo:     inboxRepo,
		service:       service,
		pollInterval:  time.Duration(pollIntervalSeconds) * time.Second,
		batchSize:     batchSize,
		lease:         time.Duration(leaseSeconds) * time.Second,
		retryInterval: time.Duration(retryIntervalSeconds) * time.Second,
		stopCh:        make(chan struct{}),
	}
}

// Start polls the inbox until ctx is done or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Inbox worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Inbox worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Inbox worker stopped")

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

// ProcessMessages claims one batch of parked deliveries, replays them and
// returns how many were recorded. Malformed and exhausted deliveries are dropped.
func (w *Worker) ProcessMessages(ctx context.Context) int {
	messages, err := w.inboxRepo.Claim(ctx, w.batchSize, w.lease)
	if err != nil {
		slog.Error("Failed to claim inbox messages", "error", err)

		return 0
	}

	if len(messages) == 0 {
		return 0
	}

	slog.Debug("Claimed inbox messages", "count", len(messages), "lease", w.lease)

	processed := 0
	for _, msg := range messages {
		log := slog.With(
			"inbox_id", msg.ID,
			"message_id", msg.MessageID,
			"order_id", msg.OrderID,
			"event_type", msg.EventType,
		)

		err := w.service.ProcessEvent(ctx, msg.MessageID, msg.Payload)
		switch {
		case err == nil:
			processed++
			w.ack(ctx, log, msg.ID)
			log.Info("Parked order event recorded")
		case errors.Is(err, auditsvc.ErrMalformedEvent) || msg.LastAttempt():
			log.Error("Dropping parked order event", "attempt", msg.RetryCount+1, "error", err)
			w.ack(ctx, log, msg.ID)
		default:
			backoff := w.backoff(msg.RetryCount + 1)
			log.Warn("Failed to record parked order event, will retry",
				"attempt", msg.RetryCount+1,
				"backoff", backoff,
				"error", err,
			)
			if err := w.inboxRepo.Retry(ctx, msg.ID, err.Error(), backoff); err != nil {
				log.Error("Failed to reschedule inbox message", "error", err)
			}
		}
	}

	return processed
}

func (w *Worker) ack(ctx context.Context, log *slog.Logger, id int64) {
	if err := w.inboxRepo.Ack(ctx, id); err != nil {
		log.Error("Failed to ack inbox message", "error", err)
	}
}

func (w *Worker) backoff(retryCount int) time.Duration {
	return time.Duration(math.Pow(2, float64(retryCount))) * w.retryInterval
}
