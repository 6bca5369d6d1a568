package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcclient "github.com/corray333/cloud-kitchen/internal/dal/grpc"
	"github.com/corray333/cloud-kitchen/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/cloud-kitchen/internal/dal/memory"
	"github.com/corray333/cloud-kitchen/internal/dal/postgres"
	"github.com/corray333/cloud-kitchen/internal/dal/rabbitmq"
	outboxrepo "github.com/corray333/cloud-kitchen/internal/dal/repositories/outbox/postgres"
	"github.com/corray333/cloud-kitchen/internal/dal/uow"
	"github.com/corray333/cloud-kitchen/internal/otel"
	"github.com/corray333/cloud-kitchen/internal/service/services/cartsvc"
	"github.com/corray333/cloud-kitchen/internal/service/services/checkoutsvc"
	"github.com/corray333/cloud-kitchen/internal/service/services/menusvc"
	"github.com/corray333/cloud-kitchen/internal/service/services/ordersvc"
	grpctransport "github.com/corray333/cloud-kitchen/internal/transport/grpc"
	httptransport "github.com/corray333/cloud-kitchen/internal/transport/http"
	"github.com/corray333/cloud-kitchen/internal/transport/http/healthz"
	outboxworker "github.com/corray333/cloud-kitchen/internal/worker/outbox"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Datastore is the storage backend the services run on.
type Datastore struct {
	Factory    uow.Factory
	OutboxRepo ioutboxrepo.IOutboxRepository
	Close      func()
}

// MustOpenDatastore opens the backend named by storage.driver.
func MustOpenDatastore() Datastore {
	switch driver := viper.GetString("storage.driver"); driver {
	case "memory":
		slog.Warn("Using in-memory datastore, data is lost on exit")
		store := memory.NewStore()

		return Datastore{
			Factory:    store.Factory(),
			OutboxRepo: store.OutboxRepository(),
			Close:      func() {},
		}
	case "postgres", "":
		client := postgres.MustNewClient(postgres.ConfigFromEnv(
			"KITCHEN",
			viper.GetString("postgres.migrations_path"),
		))

		return Datastore{
			Factory:    uow.NewFactory(client),
			OutboxRepo: outboxrepo.NewOutboxRepository(client.Pool()),
			Close:      client.Close,
		}
	default:
		panic("unknown storage.driver: " + driver)
	}
}

// App represents the application.
type App struct {
	datastore      Datastore
	menuSvc        *menusvc.MenuService
	httpTransport  *httptransport.HTTPTransport
	grpcTransport  *grpctransport.GRPCTransport
	healthClient   *grpcclient.Client
	outboxWorker   *outboxworker.Worker
	rabbitMqClient *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel(viper.GetString("otel.service_name"))
	datastore := MustOpenDatastore()

	a := &App{
		datastore:      datastore,
		otelController: otelController,
	}

	var eventsQueue string
	if viper.GetBool("rabbitmq.enabled") {
		eventsQueue = viper.GetString("rabbitmq.queue")
		a.rabbitMqClient = rabbitmq.MustNewClient()
		if _, err := a.rabbitMqClient.DeclareQueue(rabbitmq.DeclareQueueConfig{
			Name:    eventsQueue,
			Durable: true,
		}); err != nil {
			panic(err)
		}
		a.outboxWorker = outboxworker.NewWorker(datastore.OutboxRepo, a.rabbitMqClient)
	}

	// /healthz proxies to our own gRPC health service; the client dials lazily.
	a.healthClient = grpcclient.MustDial(
		"localhost:"+viper.GetString("server.grpc.port"),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)

	a.menuSvc = menusvc.MustNewMenuService(
		menusvc.WithUnitOfWorkFactory(datastore.Factory),
	)

	a.httpTransport = httptransport.NewHTTPTransport(httptransport.Services{
		Menu: a.menuSvc,
		Cart: cartsvc.MustNewCartService(
			cartsvc.WithUnitOfWorkFactory(datastore.Factory),
		),
		Checkout: checkoutsvc.MustNewCheckoutService(
			checkoutsvc.WithUnitOfWorkFactory(datastore.Factory),
		),
		Orders: ordersvc.MustNewOrderService(
			ordersvc.WithUnitOfWorkFactory(datastore.Factory),
			ordersvc.WithEventsQueue(eventsQueue),
		),
		Healthz: healthz.NewHandler(a.healthClient.HealthClient()),
	})
	a.httpTransport.RegisterRoutes()

	a.grpcTransport = grpctransport.NewGRPCTransport()

	return a
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if viper.GetBool("menu.seed_on_start") {
		if _, err := a.menuSvc.SeedDefaults(ctx); err != nil {
			slog.Error("Failed to seed menu", "error", err)
		}
	}

	go func() {
		slog.Info("Starting HTTP server", "port", viper.GetString("server.http.port"))
		if err := a.httpTransport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		if err := a.grpcTransport.Run(); err != nil {
			slog.Error("gRPC server error", "error", err)
		}
	}()
	a.grpcTransport.SetServing(true)

	if a.outboxWorker != nil {
		go a.outboxWorker.Start(ctx)
	}

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown stops intake first, then background work, then the
// connections they depend on.
func (a *App) gracefulShutdown() {
	timeout := time.Duration(viper.GetInt("server.shutdown_timeout_seconds")) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a.grpcTransport.SetServing(false)

	if err := a.httpTransport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.grpcTransport.Shutdown(ctx); err != nil {
		slog.Error("gRPC server shutdown error", "error", err)
	} else {
		slog.Info("gRPC server stopped gracefully")
	}

	if err := a.healthClient.Close(); err != nil {
		slog.Error("Health client close error", "error", err)
	}

	if a.outboxWorker != nil {
		a.outboxWorker.Stop()
	}

	if a.rabbitMqClient != nil {
		if err := a.rabbitMqClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		} else {
			slog.Info("RabbitMQ connection closed gracefully")
		}
	}

	a.datastore.Close()
	slog.Info("Datastore closed")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider connection close error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
