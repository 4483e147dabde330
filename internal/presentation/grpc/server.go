package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/bibbank/mortgageflex/pkg/auth"
)

// ServerConfig configures the gRPC server.
type ServerConfig struct {
	// HealthService is the name reported by the health service.
	HealthService string

	// Validator enables bearer authentication when set.
	Validator auth.TokenValidator

	// Creds enables TLS when set.
	Creds      credentials.TransportCredentials
	Reflection bool
}

// Server wraps a gRPC server with the adjustment service registered.
type Server struct {
	gs     *grpclib.Server
	health *health.Server
	logger *slog.Logger
}

func NewServer(handler AdjustmentServiceServer, cfg ServerConfig, logger *slog.Logger) *Server {
	interceptors := []grpclib.UnaryServerInterceptor{loggingInterceptor(logger)}
	if cfg.Validator != nil {
		interceptors = append(interceptors, auth.UnaryServerInterceptor(cfg.Validator, func(method string) bool {
			return strings.HasPrefix(method, "/grpc.health.v1.Health/") ||
				strings.HasPrefix(method, "/grpc.reflection.")
		}))
	}

	opts := []grpclib.ServerOption{grpclib.ChainUnaryInterceptor(interceptors...)}
	if cfg.Creds != nil {
		opts = append(opts, grpclib.Creds(cfg.Creds))
	}

	gs := grpclib.NewServer(opts...)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(gs, healthSrv)
	healthSrv.SetServingStatus(cfg.HealthService, healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)

	if cfg.Reflection {
		reflection.Register(gs)
	}

	RegisterAdjustmentServiceServer(gs, handler)

	return &Server{gs: gs, health: healthSrv, logger: logger}
}

// Serve accepts connections on lis until the server stops.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server listening", slog.String("addr", lis.Addr().String()))
	return s.gs.Serve(lis)
}

// ListenAndServe listens on addr and serves.
func (s *Server) ListenAndServe(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(lis)
}

// GracefulStop marks the server as not serving and drains in-flight calls.
func (s *Server) GracefulStop() {
	s.logger.Info("gRPC server shutting down")
	s.health.Shutdown()
	s.gs.GracefulStop()
}

func loggingInterceptor(logger *slog.Logger) grpclib.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpclib.UnaryServerInfo, handler grpclib.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.InfoContext(ctx, "rpc",
			slog.String("method", info.FullMethod),
			slog.String("code", status.Code(err).String()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return resp, err
	}
}
