package consumer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/corray333/cloud-kitchen/internal/dal/interfaces/iinboxrepo"
	"github.com/corray333/cloud-kitchen/internal/dal/rabbitmq"
	"github.com/corray333/cloud-kitchen/internal/service/models/event"
	"github.com/corray333/cloud-kitchen/internal/service/models/inbox"
	"github.com/corray333/cloud-kitchen/internal/service/services/auditsvc"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

// service represents the service layer interface.
type service interface {
	ProcessEvent(ctx context.Context, messageID string, payload []byte) error
}

// Consumer reads order events from RabbitMQ and hands them to the audit service.
type Consumer struct {
	client      *rabbitmq.Client
	service     service
	inboxRepo   iinboxrepo.IInboxRepository
	queueName   string
	concurrency int
	maxRetries  int
	stop        chan struct{}
	done        chan struct{}
	stopOnce    sync.Once
}

// NewConsumer declares the events queue and creates a Consumer.
func NewConsumer(client *rabbitmq.Client, service service, inboxRepo iinboxrepo.IInboxRepository) *Consumer {
	queueName := viper.GetString("rabbitmq.queue")
	if queueName == "" {
		panic("rabbitmq.queue is not set in config")
	}

	if _, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    queueName,
		Durable: true,
	}); err != nil {
		panic(err)
	}

	return newConsumer(client, service, inboxRepo, queueName)
}

func newConsumer(client *rabbitmq.Client, service service, inboxRepo iinboxrepo.IInboxRepository, queueName string) *Consumer {
	concurrency := viper.GetInt("rabbitmq.consumer.concurrency")
	if concurrency <= 0 {
		concurrency = 50
	}

	maxRetries := viper.GetInt("rabbitmq.inbox.max_retries")
	if maxRetries <= 0 {
		maxRetries = 5
	}

	return &Consumer{
		client:      client,
		service:     service,
		inboxRepo:   inboxRepo,
		queueName:   queueName,
		concurrency: concurrency,
		maxRetries:  maxRetries,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Run consumes until Shutdown is called or the channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	consumerTag := viper.GetString("rabbitmq.consumer_tag")
	if consumerTag == "" {
		consumerTag = "kitchen-audit"
	}

	msgs, err := c.client.Consume(rabbitmq.ConsumeConfig{
		Queue:    c.queueName,
		Consumer: consumerTag,
	})
	if err != nil {
		close(c.done)

		return err
	}

	slog.Info("Consumer started", "queue", c.queueName, "consumer_tag", consumerTag, "concurrency", c.concurrency)

	c.serve(ctx, msgs)

	return nil
}

func (c *Consumer) serve(ctx context.Context, msgs <-chan amqp.Delivery) {
	defer close(c.done)

	g := &errgroup.Group{}
	g.SetLimit(c.concurrency)

loop:
	for {
		select {
		case <-c.stop:
			slog.Info("Stopping consumer")

			break loop
		case <-ctx.Done():
			break loop
		case msg, ok := <-msgs:
			if !ok {
				slog.Info("Message channel closed")

				break loop
			}

			g.Go(func() error {
				c.processMessage(ctx, msg)

				return nil
			})
		}
	}

	_ = g.Wait()
}

// processMessage acks a delivery once it is either recorded or parked in the
// inbox. Malformed payloads are rejected without requeue; a delivery that can
// be neither recorded nor parked is requeued.
func (c *Consumer) processMessage(ctx context.Context, msg amqp.Delivery) {
	ctx, span := otel.Tracer("consumer").Start(ctx, "Consumer.processMessage")
	defer span.End()

	err := c.service.ProcessEvent(ctx, msg.MessageId, msg.Body)
	switch {
	case err == nil:
	case errors.Is(err, auditsvc.ErrMalformedEvent):
		slog.Error("Rejecting malformed event", "message_id", msg.MessageId, "error", err)
		if err := msg.Nack(false, false); err != nil {
			slog.Error("Failed to nack message", "error", err)
		}

		return
	default:
		slog.Warn("Failed to process event, parking in inbox", "message_id", msg.MessageId, "error", err)
		if perr := c.park(ctx, msg, err); perr != nil {
			slog.Error("Failed to park event, requeueing", "message_id", msg.MessageId, "error", perr)
			if err := msg.Nack(false, true); err != nil {
				slog.Error("Failed to nack message", "error", err)
			}

			return
		}
	}

	if err := msg.Ack(false); err != nil {
		slog.Error("Failed to ack message", "error", err)
	}
}

func (c *Consumer) park(ctx context.Context, msg amqp.Delivery, cause error) error {
	now := time.Now()
	parked := inbox.Message{
		MessageID:   msg.MessageId,
		QueueName:   c.queueName,
		Payload:     msg.Body,
		ContentType: msg.ContentType,
		MaxRetries:  c.maxRetries,
		LastError:   cause.Error(),
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}
	if ev, err := event.Decode(msg.Body); err == nil {
		parked.OrderID = ev.OrderID
		parked.EventType = string(ev.Type)
	}

	return c.inboxRepo.Park(ctx, parked)
}

// Shutdown stops reading deliveries and waits for in-flight ones.
func (c *Consumer) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer")
	c.stopOnce.Do(func() { close(c.stop) })

	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		slog.Warn("Consumer shutdown timeout")

		return ctx.Err()
	}
}
