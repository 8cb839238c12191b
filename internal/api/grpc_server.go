package api

import (
	"context"
	"fmt"
	"net"
	"time"

	"hotelbooking/internal/config"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// GRPCServer serves the standard health service for orchestrator probes.
type GRPCServer struct {
	server   *grpc.Server
	health   *health.Server
	listener net.Listener
	log      zerolog.Logger
}

func NewGRPCServer(cfg config.APIGRPCConfig, logger *zerolog.Logger) (*GRPCServer, error) {
	addr := fmt.Sprintf(":%d", cfg.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("grpc listen %s: %w", addr, err)
	}
	return newGRPCServer(cfg, lis, logger), nil
}

func newGRPCServer(cfg config.APIGRPCConfig, lis net.Listener, logger *zerolog.Logger) *GRPCServer {
	unary := ChainUnaryInterceptors(
		LoggingUnaryInterceptor(logger),
	)
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(unary))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	if cfg.Reflection {
		reflection.Register(grpcServer)
	}

	serverLogger := zerolog.Nop()
	if logger != nil {
		serverLogger = logger.With().Str("component", "grpc").Logger()
	}

	return &GRPCServer{
		server:   grpcServer,
		health:   healthServer,
		listener: lis,
		log:      serverLogger,
	}
}

func (s *GRPCServer) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *GRPCServer) Serve() error {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.log.Info().Str("addr", s.Addr()).Msg("gRPC health listening")
	return s.server.Serve(s.listener)
}

func (s *GRPCServer) Shutdown(ctx context.Context) {
	if s.server == nil {
		return
	}
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-ctx.Done():
		s.log.Warn().Msg("gRPC graceful shutdown timed out; forcing stop")
		s.server.Stop()
		return
	case <-time.After(10 * time.Second):
		s.log.Warn().Msg("gRPC graceful shutdown timed out; forcing stop")
		s.server.Stop()
		return
	}
}
