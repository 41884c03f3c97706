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

	"github.com/ahesenov7-ai/paysphate.demo/internal/application/sequencer"
	"github.com/ahesenov7-ai/paysphate.demo/internal/application/usecase"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/port"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/service"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/config"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/messaging"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/metrics"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/random"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/scheduler"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/session"
	grpcpresentation "github.com/ahesenov7-ai/paysphate.demo/internal/presentation/grpc"
	"github.com/ahesenov7-ai/paysphate.demo/internal/presentation/rest"
	"github.com/ahesenov7-ai/paysphate.demo/internal/presentation/ws"
	"github.com/ahesenov7-ai/paysphate.demo/pkg/observability"
)

const serviceName = "paysphered"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	logger.Info("starting "+serviceName,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Initialize tracing.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: serviceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer shutdownTracer(context.Background())
	}

	// Initialize metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: serviceName})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer meterProvider.Shutdown(context.Background())

	// Wire domain services.
	table, err := config.LoadRiskTable(cfg.RiskTableFile)
	if err != nil {
		logger.Error("failed to load risk table", "error", err)
		os.Exit(1)
	}
	riskScorer := service.NewRiskScorer(service.WithJurisdictions(table))

	// Wire infrastructure adapters.
	loop := scheduler.NewLoop(0, logger)
	loopCtx, stopLoop := context.WithCancel(context.Background())
	go loop.Run(loopCtx)

	var sink port.EventPublisher = messaging.NewLogPublisher(cfg.EventTopic, logger)
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventTopic, logger)
		defer kafkaPublisher.Close()
		sink = kafkaPublisher
		logger.Info("publishing demo events to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.EventTopic)
	}
	eventPublisher := messaging.NewAsyncPublisher(metrics.NewInstrumentedPublisher(sink), 256, 5*time.Second, logger)
	registry := session.NewRegistry(session.Dependencies{
		Scorer:    riskScorer,
		Scheduler: loop,
		Random:    random.New(cfg.RandomSeed),
		Publisher: eventPublisher,
		Timings: sequencer.Timings{
			LoadingDelay:      cfg.LoadingDelay,
			DecisionDelay:     cfg.DecisionDelay,
			AnimationSteps:    cfg.AnimationSteps,
			AnimationInterval: cfg.AnimationInterval,
		},
		Logger: logger,
	}, session.WithTTL(cfg.SessionTTL))
	go registry.SweepEvery(ctx, loop, time.Minute)

	// Wire use cases.
	assessTransactionUC := usecase.NewAssessTransaction(riskScorer, logger)
	listJurisdictionsUC := usecase.NewListJurisdictions(riskScorer)

	// gRPC server.
	grpcHandler := grpcpresentation.NewRiskServiceHandler(assessTransactionUC, listJurisdictionsUC, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Address:     cfg.GRPCAddress(),
		Reflection:  cfg.GRPCReflection,
		TLSCertFile: cfg.GRPCTLSCertFile,
		TLSKeyFile:  cfg.GRPCTLSKeyFile,
	}, logger)
	if err != nil {
		logger.Error("failed to create gRPC server", "error", err)
		os.Exit(1)
	}

	// HTTP server.
	healthHandler := rest.NewHealthHandler(serviceName, map[string]rest.ReadinessCheck{
		"scheduler": func(ctx context.Context) error { return loop.Call(ctx, func() {}) },
	}, logger)
	apiHandler := rest.NewHandler(assessTransactionUC, listJurisdictionsUC, registry, loop, logger)
	streamHandler := ws.NewHandler(registry, loop, logger)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      rest.NewRouter(logger, metricsHandler, healthHandler, apiHandler, streamHandler),
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

	logger.Info(serviceName+" started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	logger.Info("shutting down " + serviceName)

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	// Closing the sessions ends every open stream.
	if err := loop.Call(shutdownCtx, registry.CloseAll); err != nil {
		logger.Error("failed to close sessions", "error", err)
	}

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	stopLoop()
	<-loop.Done()

	if err := eventPublisher.Close(shutdownCtx); err != nil {
		logger.Error("failed to flush demo events", "error", err)
	}

	logger.Info(serviceName + " stopped")
}
