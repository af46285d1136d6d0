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

	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/memory"
	"github.com/corray333/backend-labs/meatshop/internal/dal/postgres"
	"github.com/corray333/backend-labs/meatshop/internal/dal/rabbitmq"
	eventrepo "github.com/corray333/backend-labs/meatshop/internal/dal/repositories/events/rabbitmq"
	"github.com/corray333/backend-labs/meatshop/internal/dal/uow"
	"github.com/corray333/backend-labs/meatshop/internal/otel"
	"github.com/corray333/backend-labs/meatshop/internal/service/services/catalogsvc"
	"github.com/corray333/backend-labs/meatshop/internal/service/services/identitysvc"
	"github.com/corray333/backend-labs/meatshop/internal/service/services/ordersvc"
	grpctransport "github.com/corray333/backend-labs/meatshop/internal/transport/grpc"
	httptransport "github.com/corray333/backend-labs/meatshop/internal/transport/http"
	outboxworker "github.com/corray333/backend-labs/meatshop/internal/worker/outbox"
	"github.com/corray333/backend-labs/meatshop/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
)

// App represents the application.
type App struct {
	orderSvc    *ordersvc.OrderService
	catalogSvc  *catalogsvc.CatalogService
	identitySvc *identitysvc.IdentityService

	httpTransport  *httptransport.HTTPTransport
	grpcTransport  *grpctransport.GRPCTransport
	outboxWorker   *outboxworker.Worker
	rabbitMqClient *rabbitmq.Client
	postgresClient *postgres.Client
	otelController *otel.OtelController
}

// storage holds the configured driver. Exactly one of memory and postgres is set.
type storage struct {
	memory   *memory.Store
	postgres *postgres.Client
	outbox   ioutboxrepo.IOutboxRepository
}

func mustNewStorage() storage {
	switch driver := viper.GetString("storage.driver"); driver {
	case "memory":
		slog.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()

		return storage{
			memory: store,
			outbox: memory.NewUnitOfWork(store).OutboxRepository(),
		}
	case "postgres":
		client := postgres.MustNewClient()

		return storage{
			postgres: client,
			outbox:   uow.NewUnitOfWork(client).OutboxRepository(),
		}
	default:
		panic("unknown storage.driver: " + driver)
	}
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	store := mustNewStorage()

	serverMetrics := metrics.NewServerMetrics(prometheus.DefaultRegisterer, "meatshop")
	orderMetrics := metrics.NewOrderMetrics(prometheus.DefaultRegisterer)

	var (
		rabbitMqClient *rabbitmq.Client
		worker         *outboxworker.Worker
		exchange       string
	)
	if viper.GetBool("rabbitmq.enabled") {
		exchange = viper.GetString("rabbitmq.exchange")
		rabbitMqClient = rabbitmq.MustNewClient()
		publisher := eventrepo.NewEventRabbitMQRepository(rabbitMqClient, exchange)
		worker = outboxworker.NewWorker(store.outbox, publisher)
	}

	orderStorage := ordersvc.WithPostgresClient(store.postgres)
	catalogStorage := catalogsvc.WithPostgresClient(store.postgres)
	identityStorage := identitysvc.WithPostgresClient(store.postgres)
	if store.memory != nil {
		repos := memory.NewUnitOfWork(store.memory)
		orderStorage = ordersvc.WithUnitOfWork(func() ordersvc.UnitOfWork { return memory.NewUnitOfWork(store.memory) })
		catalogStorage = catalogsvc.WithUnitOfWork(func() catalogsvc.UnitOfWork { return memory.NewUnitOfWork(store.memory) })
		identityStorage = identitysvc.WithUserRepository(repos.UserRepository())
	}

	orderSvc := ordersvc.MustNewOrderService(
		orderStorage,
		ordersvc.WithMetrics(orderMetrics),
		ordersvc.WithEvents(exchange),
		ordersvc.WithTrackLimit(viper.GetInt("orders.track_limit")),
		ordersvc.WithCodeRetries(viper.GetInt("orders.code_retries")),
		ordersvc.WithStrictTransitions(viper.GetBool("orders.strict_transitions")),
	)
	catalogSvc := catalogsvc.MustNewCatalogService(
		catalogStorage,
	)
	identitySvc := identitysvc.MustNewIdentityService(
		identityStorage,
		identitysvc.WithTokenIssuer(mustNewTokenIssuer()),
	)

	httpTransport := httptransport.NewHTTPTransport(orderSvc, catalogSvc, identitySvc, serverMetrics)
	httpTransport.RegisterRoutes()

	return &App{
		orderSvc:       orderSvc,
		catalogSvc:     catalogSvc,
		identitySvc:    identitySvc,
		httpTransport:  httpTransport,
		grpcTransport:  grpctransport.NewGRPCTransport(orderSvc),
		outboxWorker:   worker,
		rabbitMqClient: rabbitMqClient,
		postgresClient: store.postgres,
		otelController: otelController,
	}
}

func mustNewTokenIssuer() *identitysvc.TokenIssuer {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET is not set")
	}

	return identitysvc.NewTokenIssuer(secret, identitysvc.ParseExpiry(viper.GetString("auth.jwt_expires_in")))
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := a.httpTransport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		if err := a.grpcTransport.Run(); err != nil {
			slog.Error("gRPC server error", "error", err)
		}
	}()

	if a.outboxWorker != nil {
		go func() {
			slog.Info("Starting outbox worker")
			a.outboxWorker.Start(ctx)
		}()
	}

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown stops transports first, then the worker and the connections they depend on.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

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

	if a.outboxWorker != nil {
		a.outboxWorker.Stop()
		slog.Info("Outbox worker stopped gracefully")
	}

	if a.rabbitMqClient != nil {
		if err := a.rabbitMqClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		} else {
			slog.Info("RabbitMQ connection closed gracefully")
		}
	}

	if a.postgresClient != nil {
		a.postgresClient.Close()
		slog.Info("Database connection closed gracefully")
	}

	if err := a.otelController.Shutdown(ctx); err != nil {
		slog.Error("Otel trace provider connection close error", "error", err)
	} else {
		slog.Info("Otel trace provider connection closed gracefully")
	}

	select {
	case <-ctx.Done():
		slog.Warn("Shutdown timeout exceeded")
	default:
		slog.Info("Application shutdown complete")
	}
}
