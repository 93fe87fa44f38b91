package app

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/config"
	"marketplace/internal/controller/rest"
	"marketplace/internal/controller/rest/handlers"
	"marketplace/internal/external/kafka"
	"marketplace/internal/sweeper"
	"marketplace/internal/webhook"
	"marketplace/pkg/health"
	"marketplace/pkg/logger"
	"marketplace/pkg/postgres"

	"github.com/gin-gonic/gin"
)

//go:embed migrations/*.sql
var MigrationFS embed.FS

const shutdownTimeout = 10 * time.Second

func Run(cfg config.Config) error {
	logger.Setup(logger.Options{
		Service: "marketplace",
		Level:   cfg.LogLevel,
		Console: cfg.LogFormat == "console",
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := postgres.New(cfg.PgURL, postgres.MaxPoolSize(cfg.PgPoolMax))
	if err != nil {
		return fmt.Errorf("app - Run - postgres.New: %w", err)
	}
	defer pool.Close()

	if _, err := ApplyMigrations(ctx, cfg.PgURL, MigrationFS); err != nil {
		return fmt.Errorf("app - Run - ApplyMigrations: %w", err)
	}

	services, err := NewServices(ctx, cfg, pool)
	if err != nil {
		return fmt.Errorf("app - Run - NewServices: %w", err)
	}
	defer services.Close()

	healthRegistry := health.NewRegistry(health.NewPostgresChecker(pool.Pool))
	for _, checker := range services.HealthCheckers() {
		healthRegistry.Register(checker)
	}

	var processor webhook.Processor
	switch cfg.WebhookMode {
	case "kafka":
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaPaymentEventsTopic)
		defer publisher.Close()
		processor = webhook.NewAsyncProcessor(publisher)
		healthRegistry.Register(health.NewKafkaChecker(cfg.KafkaBrokers, cfg.KafkaPaymentEventsTopic, cfg.KafkaPaymentEventsDLQTopic))

		slog.InfoContext(ctx, "Webhook mode: kafka - starting consumers")
		StartWorkers(ctx, cfg, services.Payment)
	default:
		processor = webhook.NewSyncProcessor(services.Payment)
	}

	go func() {
		if err := sweeper.New(services.Payment, cfg.SweepInterval).Run(ctx); err != nil {
			slog.Error("Sweeper stopped with error", slog.Any("error", err))
		}
	}()

	engine := NewEngine(services, processor, healthRegistry)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", cfg.Port, "webhook_mode", cfg.WebhookMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("app - Run - ListenAndServe: %w", err)
	}

	slog.Info("Shutting down gracefully...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app - Run - Shutdown: %w", err)
	}
	return nil
}

// NewEngine builds the HTTP surface over the wired services.
func NewEngine(s *Services, processor webhook.Processor, healthRegistry *health.Registry) *gin.Engine {
	engine := NewGinEngine()
	router := rest.NewRouter(rest.Handlers{
		Payment:    handlers.NewPaymentHandler(s.Payment),
		Webhook:    handlers.NewWebhookHandler(s.Gateway, processor),
		Order:      handlers.NewOrderHandler(s.Order),
		Escrow:     handlers.NewEscrowHandler(s.Escrow, s.Order),
		Commission: handlers.NewCommissionHandler(s.Commission),
		Vendor:     handlers.NewVendorHandler(s.Vendor),
		Inventory:  handlers.NewInventoryHandler(s.Inventory),
	}, healthRegistry)
	router.SetUp(engine)
	return engine
}
