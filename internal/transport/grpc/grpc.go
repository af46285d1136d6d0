package grpctransport

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
)

// service is an interface for the service layer.
type service interface {
	GetByCode(ctx context.Context, code string) (order.Order, error)
	ListByPhone(ctx context.Context, phone string) ([]order.Order, error)
}

// GRPCTransport represents the gRPC transport layer.
type GRPCTransport struct {
	server         *grpc.Server
	listener       net.Listener
	healthServer   *health.Server
	trackingServer *OrderTrackingServer
}

// NewGRPCTransport creates a new GRPCTransport.
func NewGRPCTransport(service service) *GRPCTransport {
	listener, err := net.Listen("tcp", ":"+viper.GetString("server.grpc.port"))
	if err != nil {
		panic(err)
	}

	return &GRPCTransport{
		server:         newGRPCServer(),
		listener:       listener,
		healthServer:   health.NewServer(),
		trackingServer: NewOrderTrackingServer(service),
	}
}

// Run starts the gRPC server.
func (g *GRPCTransport) Run() error {
	g.RegisterServices()
	slog.Info("Starting gRPC server", "address", g.listener.Addr().String())

	return g.server.Serve(g.listener)
}

// Shutdown gracefully shuts down the gRPC server.
func (g *GRPCTransport) Shutdown(ctx context.Context) error {
	g.healthServer.Shutdown()

	done := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		g.server.Stop()

		return ctx.Err()
	}
}

// RegisterServices registers the gRPC services.
func (g *GRPCTransport) RegisterServices() {
	RegisterOrderTrackingServer(g.server, g.trackingServer)
	healthpb.RegisterHealthServer(g.server, g.healthServer)
	g.healthServer.SetServingStatus(OrderTrackingServiceName, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(g.server)
}

// newGRPCServer creates a new gRPC server with default settings.
func newGRPCServer() *grpc.Server {
	keepaliveParams := keepalive.ServerParameters{
		MaxConnectionIdle: time.Duration(
			viper.GetInt("server.grpc.keepalive.max_connection_idle"),
		) * time.Minute,
		MaxConnectionAge: time.Duration(
			viper.GetInt("server.grpc.keepalive.max_connection_age"),
		) * time.Minute,
		MaxConnectionAgeGrace: time.Duration(
			viper.GetInt("server.grpc.keepalive.max_connection_age_grace"),
		) * time.Second,
		Time: time.Duration(
			viper.GetInt("server.grpc.keepalive.time"),
		) * time.Second,
		Timeout: time.Duration(
			viper.GetInt("server.grpc.keepalive.timeout"),
		) * time.Second,
	}

	keepalivePolicy := keepalive.EnforcementPolicy{
		MinTime: time.Duration(
			viper.GetInt("server.grpc.keepalive.min_time"),
		) * time.Second,
		PermitWithoutStream: viper.GetBool("server.grpc.keepalive.permit_without_stream"),
	}

	opts := []grpc.ServerOption{
		grpc.KeepaliveParams(keepaliveParams),
		grpc.KeepaliveEnforcementPolicy(keepalivePolicy),
		grpc.ChainUnaryInterceptor(loggingInterceptor),
	}

	return grpc.NewServer(opts...)
}

func loggingInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	if err != nil {
		slog.Error("gRPC request failed", "method", info.FullMethod, "duration", time.Since(start).String(), "error", err)
	} else {
		slog.Info("gRPC request completed", "method", info.FullMethod, "duration", time.Since(start).String())
	}

	return resp, err
}
