package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsjetstream "github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stampbook/sb-registry/internal/adapter"
	"github.com/stampbook/sb-registry/internal/config"
	"github.com/stampbook/sb-registry/internal/logger"
	"github.com/stampbook/sb-registry/internal/messaging"
	"github.com/stampbook/sb-registry/internal/metrics"
	"github.com/stampbook/sb-registry/internal/notifier"
	"github.com/stampbook/sb-registry/internal/providers/jetstream"
	"github.com/stampbook/sb-registry/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadNotifierConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger with sentry integration
	tags := map[string]string{
		"service": "notifier",
	}
	if cfg.SentryEnvironment != "" {
		tags["environment"] = cfg.SentryEnvironment
	}
	err = logger.Initialize(logger.Config{
		Level:           cfg.LogLevel,
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags:            tags,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.Info("Starting Webhook Notifier")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.Fatal("Failed to configure connection pool", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to NATS JetStream
	nc, js, err := adapter.NewNatsJetStream().Connect(cfg.NATS.URL, jetstream.ConnectOptions(jetstream.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
	})...)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer nc.Close()
	logger.Info("Connected to NATS", zap.String("url", cfg.NATS.URL))

	// Ensure the event stream exists so boot order does not matter
	if err := js.CreateOrUpdateStream(ctx, natsjetstream.StreamConfig{
		Name:     cfg.NATS.StreamName,
		Subjects: []string{messaging.SubjectWildcard},
	}); err != nil {
		logger.Fatal("Failed to create event stream", zap.Error(err), zap.String("stream", cfg.NATS.StreamName))
	}

	// Create the notifier
	n := notifier.New(
		notifier.Config{
			StreamName:           cfg.NATS.StreamName,
			ConsumerName:         cfg.NATS.ConsumerName,
			WorkerPoolSize:       cfg.Delivery.PoolSize,
			WorkerQueueSize:      cfg.Delivery.QueueSize,
			RetryInitialInterval: cfg.Delivery.RetryInitialInterval,
			RetryMaxInterval:     cfg.Delivery.RetryMaxInterval,
			DefaultMaxAttempts:   cfg.Delivery.DefaultMaxAttempts,
		},
		dataStore,
		js,
		adapter.NewHTTPClient(cfg.Delivery.Timeout),
		adapter.NewIO(),
		adapter.NewJSON(),
		adapter.NewClock(),
		metrics.New(),
	)

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel for notifier errors
	errCh := make(chan error, 1)

	// Start the notifier
	go func() {
		if err := n.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error(err, zap.String("component", "notifier"))
	}

	// Stop consuming and wait for in-flight deliveries to finish
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := n.Stop(stopCtx); err != nil {
		logger.Error(err, zap.String("component", "notifier"))
	}
	cancel()

	logger.Info("Webhook Notifier stopped")
}
