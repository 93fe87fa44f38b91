package payment

import (
	"context"
	"fmt"
	"log/slog"

	"marketplace/pkg/metrics"
)

// StaleLockReason is recorded when the sweep frees an abandoned materialization lock.
const StaleLockReason = "stale lock expired"

// ExpiredPayment identifies a payment cancelled by the expiry sweep.
type ExpiredPayment struct {
	ID       string
	IntentID string
}

type ExpiryResult struct {
	Expired       int64
	LocksReleased int64
}

// ExpireStale cancels payments whose payable window has passed and frees
// materialization locks older than the stale window. Gateway intents of
// expired payments are cancelled too so the buyer can no longer pay them.
func (s *Service) ExpireStale(ctx context.Context) (ExpiryResult, error) {
	now := s.now()

	rows, err := s.repo.ExpirePayments(ctx, now)
	if err != nil {
		return ExpiryResult{}, fmt.Errorf("expire payments: %w", err)
	}
	expired := int64(len(rows))

	for _, e := range rows {
		if e.IntentID == "" {
			continue
		}
		if _, err := s.gateway.CancelIntent(ctx, e.IntentID); err != nil {
			slog.WarnContext(ctx, "Failed to cancel gateway intent of expired payment",
				"payment_id", e.ID,
				"intent_id", e.IntentID,
				slog.Any("error", err))
		}
	}

	released, err := s.repo.ReleaseStaleLocks(ctx, now.Add(-s.cfg.StaleLockWindow), StaleLockReason)
	if err != nil {
		return ExpiryResult{Expired: expired}, fmt.Errorf("release stale locks: %w", err)
	}

	metrics.SweepUpdates.WithLabelValues("payment_expired").Add(float64(expired))
	metrics.SweepUpdates.WithLabelValues("lock_released").Add(float64(released))
	if expired > 0 || released > 0 {
		slog.InfoContext(ctx, "Expiry sweep finished", "expired", expired, "locks_released", released)
	}

	return ExpiryResult{Expired: expired, LocksReleased: released}, nil
}
