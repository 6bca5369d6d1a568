package auditapp

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/cloud-kitchen/internal/dal/postgres"
	"github.com/corray333/cloud-kitchen/internal/dal/rabbitmq"
	auditrepo "github.com/corray333/cloud-kitchen/internal/dal/repositories/audit/postgres"
	inboxrepo "github.com/corray333/cloud-kitchen/internal/dal/repositories/inbox/postgres"
	"github.com/corray333/cloud-kitchen/internal/otel"
	"github.com/corray333/cloud-kitchen/internal/service/services/auditsvc"
	"github.com/corray333/cloud-kitchen/internal/transport/consumer"
	inboxworker "github.com/corray333/cloud-kitchen/internal/worker/inbox"
	"github.com/spf13/viper"
)

// App is the audit consumer: it records order events in the audit database.
type App struct {
	consumerTransp *consumer.Consumer
	inboxWorker    *inboxworker.Worker
	rabbitMqClient *rabbitmq.Client
	postgresClient *postgres.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel("kitchen-audit-consumer")
	rabbitMqClient := rabbitmq.MustNewClient()
	postgresClient := postgres.MustNewClient(postgres.ConfigFromEnv(
		"AUDIT",
		viper.GetString("audit.migrations_path"),
	))

	auditRepository := auditrepo.NewAuditRepository(postgresClient.Pool())
	inboxRepository := inboxrepo.NewInboxRepository(postgresClient.Pool())

	auditSvc := auditsvc.MustNewAuditService(
		auditsvc.WithAuditRepository(auditRepository),
	)

	return &App{
		consumerTransp: consumer.NewConsumer(rabbitMqClient, auditSvc, inboxRepository),
		inboxWorker:    inboxworker.NewWorker(inboxRepository, auditSvc),
		rabbitMqClient: rabbitMqClient,
		postgresClient: postgresClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting consumer")
		if err := a.consumerTransp.Run(ctx); err != nil {
			slog.Error("Consumer error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting inbox worker")
		a.inboxWorker.Start(ctx)
	}()

	<-stop
	slog.Info("Shutdown signal received")

	a.gracefulShutdown()
	cancel()
}

// gracefulShutdown stops the inbox worker and the consumer, then closes
// RabbitMQ, PostgreSQL and the tracer provider.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.inboxWorker.Stop()
	slog.Info("Inbox worker stopped gracefully")

	if err := a.consumerTransp.Shutdown(ctx); err != nil {
		slog.Error("Consumer shutdown error", "error", err)
	} else {
		slog.Info("Consumer stopped gracefully")
	}

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider connection close error", "error", err)
	} else {
		slog.Info("Otel trace provider connection closed gracefully")
	}

	slog.Info("Application shutdown complete")
}
