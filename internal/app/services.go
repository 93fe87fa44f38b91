package app

import (
	"context"
	"fmt"
	"log/slog"

	"marketplace/config"
	"marketplace/internal/domain/cache"
	"marketplace/internal/domain/commission"
	"marketplace/internal/domain/escrow"
	"marketplace/internal/domain/inventory"
	"marketplace/internal/domain/order"
	"marketplace/internal/domain/payment"
	"marketplace/internal/domain/vendor"
	"marketplace/internal/external/gateway"
	"marketplace/internal/external/opensearch"
	redisext "marketplace/internal/external/redis"
	commission_repo "marketplace/internal/repo/commission"
	escrow_repo "marketplace/internal/repo/escrow"
	inventory_repo "marketplace/internal/repo/inventory"
	order_repo "marketplace/internal/repo/order"
	payment_repo "marketplace/internal/repo/payment"
	vendor_repo "marketplace/internal/repo/vendor"
	"marketplace/pkg/health"
	"marketplace/pkg/postgres"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Services is the wired domain layer shared by the HTTP server, the Kafka
// workers and the operator CLI.
type Services struct {
	Payment    *payment.Service
	Order      *order.Service
	Escrow     *escrow.Service
	Commission *commission.Service
	Vendor     *vendor.Service
	Inventory  *inventory.Service

	Gateway *gateway.Client
	Redis   *redis.Client

	checkers []health.Checker
	closers  []func() error
}

// HealthCheckers returns readiness checks for the optional backends that
// were enabled.
func (s *Services) HealthCheckers() []health.Checker {
	return s.checkers
}

func NewServices(ctx context.Context, cfg config.Config, pg *postgres.Postgres) (*Services, error) {
	feeRate, err := decimal.NewFromString(cfg.GatewayFeeRate)
	if err != nil {
		return nil, fmt.Errorf("parse gateway fee rate: %w", err)
	}
	commissionRate, err := decimal.NewFromString(cfg.CommissionRate)
	if err != nil {
		return nil, fmt.Errorf("parse commission rate: %w", err)
	}

	s := &Services{}

	var invalidator cache.Invalidator = cache.Noop{}
	if cfg.RedisURL != "" {
		client, err := redisext.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		s.Redis = client
		s.closers = append(s.closers, client.Close)
		s.checkers = append(s.checkers, health.Optional(health.NewRedisChecker(client)))
		invalidator = redisext.NewTagInvalidator(client)
	}

	var index escrow.EventIndex
	if len(cfg.OpensearchUrls) > 0 {
		idx, err := opensearch.NewEscrowIndex(ctx, cfg.OpensearchUrls, cfg.OpensearchIndexEscrow)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("init escrow index: %w", err)
		}
		index = idx
		s.checkers = append(s.checkers, health.Optional(idx))
	}

	tracking, err := order.NewSnowflakeTracking(cfg.SnowflakeNode)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("init tracking numbers: %w", err)
	}

	s.Gateway = gateway.New(gateway.Config{
		BaseURL:        cfg.GatewayBaseURL,
		SecretKey:      cfg.GatewaySecretKey,
		WebhookSecret:  cfg.GatewayWebhookSecret,
		LiveMode:       cfg.GatewayLiveMode,
		Timeout:        cfg.GatewayTimeout,
		RetryAttempts:  cfg.GatewayRetryAttempts,
		RetryBaseDelay: cfg.GatewayRetryBaseDelay,
		RetryMaxDelay:  cfg.GatewayRetryMaxDelay,
		RateLimit:      cfg.GatewayRateLimit,
		RateBurst:      cfg.GatewayRateBurst,
		Tolerance:      cfg.WebhookTolerance,
	})
	s.closers = append(s.closers, s.Gateway.Close)

	paymentRepo := payment_repo.NewPgPaymentRepo(pg)
	orderRepo := order_repo.NewPgOrderRepo(pg, cfg.InventoryMaxAttempts)
	vendorRepo := vendor_repo.NewPgVendorRepo(pg)

	materializer := order.NewMaterializer(paymentRepo, orderRepo, vendorRepo, invalidator, tracking, cfg.StaleLockWindow)

	s.Payment = payment.NewService(paymentRepo, s.Gateway, materializer, payment.Config{
		Currency:        cfg.Currency,
		QRExpiry:        cfg.QRPaymentExpiry,
		DefaultExpiry:   cfg.PaymentExpiry,
		StaleLockWindow: cfg.StaleLockWindow,
		FeeRate:         feeRate,
	})
	s.Order = order.NewService(orderRepo)
	s.Escrow = escrow.NewService(escrow_repo.NewPgEscrowRepo(pg), s.Payment, index)
	s.Commission = commission.NewService(commission_repo.NewPgCommissionRepo(pg), commissionRate)
	s.Vendor = vendor.NewService(vendorRepo)
	ledger := inventory_repo.NewLedger(pg.Pool, cfg.InventoryMaxAttempts)
	s.Inventory = inventory.NewService(ledger, ledger)

	slog.InfoContext(ctx, "Services initialized",
		"redis_invalidation", s.Redis != nil,
		"escrow_index", index != nil)

	return s, nil
}

func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			slog.Error("Failed to close dependency", slog.Any("error", err))
		}
	}
}
