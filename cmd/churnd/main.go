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

	"github.com/Gameto2025/Banco-Alura/internal/application/usecase"
	"github.com/Gameto2025/Banco-Alura/internal/domain/service"
	"github.com/Gameto2025/Banco-Alura/internal/infrastructure/config"
	"github.com/Gameto2025/Banco-Alura/internal/infrastructure/kafka"
	"github.com/Gameto2025/Banco-Alura/internal/infrastructure/ml"
	"github.com/Gameto2025/Banco-Alura/internal/infrastructure/postgres"
	"github.com/Gameto2025/Banco-Alura/internal/infrastructure/resilience"
	"github.com/Gameto2025/Banco-Alura/internal/infrastructure/telemetry"
	grpcpresentation "github.com/Gameto2025/Banco-Alura/internal/presentation/grpc"
	"github.com/Gameto2025/Banco-Alura/internal/presentation/rest"
	pkgkafka "github.com/Gameto2025/Banco-Alura/pkg/kafka"
	"github.com/Gameto2025/Banco-Alura/pkg/observability"
	pgutil "github.com/Gameto2025/Banco-Alura/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("churn-service exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})

	logger.Info("starting churn-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"model_path", cfg.ModelPath,
	)

	// Initialize tracing.
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() {
				flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer flushCancel()
				_ = shutdown(flushCtx)
			}()
		}
	}

	// Initialize metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()

	scoringMetrics, err := telemetry.NewScoringMetrics(meterProvider)
	if err != nil {
		return fmt.Errorf("failed to create scoring metrics: %w", err)
	}

	// Load the model. A failed load degrades scoring but the service still starts.
	churnModel := ml.Open(cfg.ModelPath, logger)

	// Database connection and schema.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pgutil.Connect(dbCtx, pgutil.PoolConfig{DSN: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pgutil.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Wire infrastructure adapters.
	predictionRepo := resilience.NewRetryingRepository(
		postgres.NewPredictionRepository(pool),
		resilience.RetryPolicy{
			MaxAttempts:     cfg.Persistence.MaxAttempts,
			InitialInterval: cfg.Persistence.InitialInterval,
			MaxInterval:     cfg.Persistence.MaxInterval,
		},
		logger,
	)

	producer, err := pkgkafka.NewProducer(pkgkafka.Config{Brokers: cfg.KafkaBrokers, ClientID: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("failed to create kafka producer: %w", err)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			logger.Error("kafka producer close error", "error", err)
		}
	}()
	eventPublisher := kafka.NewPublisher(producer, cfg.KafkaTopic, logger)

	// Wire domain services.
	deriver := service.NewFeatureDeriver(cfg.Scoring.HighRiskCountryCode)
	assembler := service.NewPredictionAssembler(
		service.NewRiskClassifier(cfg.Scoring.Classification),
		service.NewExplanationGenerator(),
		nil,
	)

	// Wire use cases.
	scoreClientUC := usecase.NewScoreClient(predictionRepo, eventPublisher, churnModel, deriver, assembler, scoringMetrics, logger)
	getPredictionUC := usecase.NewGetPrediction(predictionRepo)
	listPredictionsUC := usecase.NewListPredictions(predictionRepo)
	resetPredictionsUC := usecase.NewResetPredictions(predictionRepo, logger)

	// gRPC server.
	grpcHandler := grpcpresentation.NewChurnServiceHandler(scoreClientUC, getPredictionUC, listPredictionsUC, resetPredictionsUC, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Address:     cfg.GRPCAddress(),
		ServiceName: cfg.ServiceName,
		TLSCertFile: cfg.TLSCertFile,
		TLSKeyFile:  cfg.TLSKeyFile,
	}, churnModel.Available(), logger)
	if err != nil {
		return fmt.Errorf("failed to create gRPC server: %w", err)
	}

	// HTTP server (health checks and metrics).
	healthHandler := rest.NewHealthHandler(cfg.ServiceName, map[string]rest.ReadinessCheck{
		"model": func(context.Context) error {
			if !churnModel.Available() {
				return fmt.Errorf("churn model unavailable: %v", churnModel.Cause())
			}
			return nil
		},
		"database": func(ctx context.Context) error { return pgutil.HealthCheck(ctx, pool) },
	}, logger)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      rest.NewRouter(healthHandler, metricsHandler),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("churn-service started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
		"model_available", churnModel.Available(),
	)

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	// Graceful shutdown.
	logger.Info("shutting down churn-service")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("churn-service stopped")
	return runErr
}
