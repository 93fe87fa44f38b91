package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"marketplace/config"
	"marketplace/internal/app"
	"marketplace/pkg/logger"
	"marketplace/pkg/postgres"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "marketctl",
		Short:         "Operator tooling for the marketplace payment service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(recoverCmd())
	rootCmd.AddCommand(sweepCmd())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withServices loads the full configuration and wires the domain services
// for one command run.
func withServices(ctx context.Context, fn func(*app.Services) error) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Setup(logger.Options{Level: cfg.LogLevel, Console: true, Service: "marketctl", Output: os.Stderr})

	pool, err := postgres.New(cfg.PgURL, postgres.MaxPoolSize(2))
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	services, err := app.NewServices(ctx, cfg, pool)
	if err != nil {
		return err
	}
	defer services.Close()

	return fn(services)
}
