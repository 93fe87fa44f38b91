package sweeper

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/domain/payment"
)

//go:generate mockgen -source sweeper.go -destination mock_sweeper.go -package sweeper

// Expirer moves payable entities forward once their window has passed.
type Expirer interface {
	ExpireStale(ctx context.Context) (payment.ExpiryResult, error)
}

// Sweeper runs the expiry pass on a fixed interval. It only ever moves
// payments to terminal states and frees stale locks; it never creates orders.
type Sweeper struct {
	expirer  Expirer
	interval time.Duration
}

func New(expirer Expirer, interval time.Duration) *Sweeper {
	return &Sweeper{expirer: expirer, interval: interval}
}

// Run sweeps once immediately and then every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Starting expiry sweeper", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			slog.ErrorContext(ctx, "Expiry sweep failed", slog.Any("error", err))
		}

		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Expiry sweeper stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) RunOnce(ctx context.Context) (payment.ExpiryResult, error) {
	res, err := s.expirer.ExpireStale(ctx)
	if err != nil {
		return res, err
	}

	if res.Expired > 0 || res.LocksReleased > 0 {
		slog.InfoContext(ctx, "Expiry sweep done",
			"expired", res.Expired,
			"locks_released", res.LocksReleased)
	}
	return res, nil
}
