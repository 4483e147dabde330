package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc/credentials"

	"github.com/bibbank/mortgageflex/internal/application/usecase"
	"github.com/bibbank/mortgageflex/internal/domain/service"
	"github.com/bibbank/mortgageflex/internal/infrastructure/adapter"
	"github.com/bibbank/mortgageflex/internal/infrastructure/config"
	"github.com/bibbank/mortgageflex/internal/infrastructure/kafka"
	pgrepo "github.com/bibbank/mortgageflex/internal/infrastructure/postgres"
	grpcpresentation "github.com/bibbank/mortgageflex/internal/presentation/grpc"
	"github.com/bibbank/mortgageflex/internal/presentation/rest"
	"github.com/bibbank/mortgageflex/internal/presentation/validation"
	"github.com/bibbank/mortgageflex/pkg/auth"
	pkgkafka "github.com/bibbank/mortgageflex/pkg/kafka"
	"github.com/bibbank/mortgageflex/pkg/observability"
	pkgpostgres "github.com/bibbank/mortgageflex/pkg/postgres"
	"github.com/bibbank/mortgageflex/pkg/tlsutil"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("mortgage-adjustment-service failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mortgage-adjustment-service stopped")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting mortgage-adjustment-service",
		slog.String("version", cfg.Version),
		slog.Int("http_port", cfg.HTTPPort),
		slog.Int("grpc_port", cfg.GRPCPort),
	)

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.Version,
		Endpoint:       cfg.OTLPEndpoint,
		Insecure:       true,
	})
	if err != nil {
		logger.Warn("tracing disabled", slog.String("error", err.Error()))
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort flush
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.Version,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort flush

	pgCfg := cfg.Postgres()
	version, err := pkgpostgres.Migrate(pgCfg.DSN(), pgrepo.Migrations(cfg.MigrationsDir), pkgpostgres.Up)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database schema ready", slog.Uint64("version", uint64(version)))

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := pkgpostgres.Open(dbCtx, pgCfg)
	dbCancel()
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	producer, err := newProducer(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := producer.Close(); err != nil {
			logger.Warn("kafka producer close", slog.String("error", err.Error()))
		}
	}()

	jwtSvc, err := newJWTService(cfg.Auth)
	if err != nil {
		return err
	}
	var tokenValidator auth.TokenValidator
	if jwtSvc != nil {
		tokenValidator = jwtSvc
	} else {
		logger.Warn("no JWT key configured, authentication is disabled")
	}

	// Infrastructure.
	mortgages := pgrepo.NewMortgageRepo(pool)
	adjustments := pgrepo.NewAdjustmentRepo(pool)
	profiles := pgrepo.NewFinancialProfileRepo(pool)
	publisher := kafka.NewEventPublisher(producer, cfg.Kafka.Topic, logger)
	oracle := adapter.NewProfileRiskOracle(profiles)
	clock := adapter.SystemClock{}

	// Use cases.
	gate := usecase.NewEligibilityGate(mortgages, adjustments, service.NewEligibilityEvaluator(), clock)
	ops := usecase.Operations{
		Process: usecase.NewProcessAdjustmentUseCase(
			gate, mortgages, adjustments, oracle, publisher, adapter.NewUUIDAdjustmentIDs(), clock, logger),
		Eligibility:    usecase.NewCheckEligibilityUseCase(gate),
		History:        usecase.NewGetAdjustmentHistoryUseCase(mortgages, adjustments),
		Recommendation: usecase.NewGenerateRecommendationUseCase(mortgages, profiles, oracle),
		Simulate:       usecase.NewSimulateAdjustmentUseCase(gate, mortgages, oracle),
		Cancel:         usecase.NewCancelAdjustmentUseCase(adjustments, publisher, clock, logger),
		Insights:       usecase.NewGetFinancialInsightsUseCase(oracle),
	}
	validator := validation.New(clock.Now)

	// Transports.
	var grpcCreds credentials.TransportCredentials
	if cfg.TLS.Enabled() {
		if grpcCreds, err = tlsutil.ServerCredentials(cfg.TLS.CertFile, cfg.TLS.KeyFile); err != nil {
			return err
		}
	}
	grpcServer := grpcpresentation.NewServer(
		grpcpresentation.NewAdjustmentHandler(ops, validator, logger),
		grpcpresentation.ServerConfig{
			HealthService: cfg.ServiceName,
			Validator:     tokenValidator,
			Creds:         grpcCreds,
			Reflection:    cfg.GRPCReflection,
		},
		logger,
	)

	httpServer := &http.Server{
		Addr: cfg.HTTPAddr(),
		Handler: rest.NewRouter(rest.RouterConfig{
			Adjustments: rest.NewAdjustmentHandler(ops, validator, logger),
			Health:      rest.NewHealthHandler(cfg.ServiceName, pool, logger),
			Metrics:     metricsHandler,
			Validator:   tokenValidator,
			RateLimit:   cfg.HTTPRateLimit,
			Logger:      logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.TLS.Enabled() {
		if httpServer.TLSConfig, err = tlsutil.ServerConfig(cfg.TLS.CertFile, cfg.TLS.KeyFile); err != nil {
			return err
		}
	}

	errCh := make(chan error, 2)
	go func() {
		if err := grpcServer.ListenAndServe(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server: %w", err)
		}
	}()
	go func() {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr), slog.Bool("tls", cfg.TLS.Enabled()))
		var err error
		if httpServer.TLSConfig != nil {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
	}

	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown", slog.String("error", err.Error()))
	}
	return runErr
}

func newProducer(cfg config.Config) (*pkgkafka.Producer, error) {
	kcfg := pkgkafka.Config{
		Brokers:  cfg.Kafka.Brokers,
		ClientID: cfg.ServiceName,
		SASL: pkgkafka.SASLConfig{
			Mechanism: cfg.Kafka.SASLMechanism,
			Username:  cfg.Kafka.SASLUsername,
			Password:  cfg.Kafka.SASLPassword,
		},
	}
	if cfg.Kafka.TLS {
		tlsCfg, err := tlsutil.ClientConfig(cfg.Kafka.CAFile)
		if err != nil {
			return nil, fmt.Errorf("kafka tls: %w", err)
		}
		kcfg.TLS = tlsCfg
	}

	producer, err := pkgkafka.NewProducer(kcfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return producer, nil
}

// newJWTService returns nil when no key material is configured. A public key
// takes precedence over the shared secret.
func newJWTService(cfg config.AuthConfig) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{Issuer: cfg.Issuer, Leeway: 30 * time.Second}
	switch {
	case cfg.PublicKey != "":
		jwtCfg.PublicKeyPEM = []byte(cfg.PublicKey)
	case cfg.PublicKeyFile != "":
		pem, err := os.ReadFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read JWT public key: %w", err)
		}
		jwtCfg.PublicKeyPEM = pem
	case cfg.Secret != "":
		jwtCfg.Secret = cfg.Secret
	default:
		return nil, nil
	}

	svc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return nil, fmt.Errorf("init JWT service: %w", err)
	}
	return svc, nil
}
