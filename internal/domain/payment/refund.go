package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"marketplace/pkg/apperror"
	"marketplace/pkg/metrics"
	"marketplace/pkg/pointers"
)

type RefundRequest struct {
	PaymentID   string
	OrderID     string
	Amount      int64
	Reason      string
	Notes       string
	RequestedBy string
}

// RequestRefund refunds part or all of a succeeded payment. The refundable
// balance is checked under a row lock on the original before anything is
// written, so concurrent requests cannot refund more than was paid.
//
// A refund tied to an order is issued at most once: repeating the request
// returns the recorded refund, or resumes it with the same gateway
// idempotency key when the earlier attempt never completed.
func (s *Service) RequestRefund(ctx context.Context, req RefundRequest) (Payment, error) {
	if req.Amount <= 0 {
		return Payment{}, apperror.Validation("refund amount must be positive")
	}

	var original, refund Payment
	err := s.repo.InTransaction(ctx, func(tx TxRepo) error {
		var err error
		original, err = tx.GetPaymentForUpdate(ctx, req.PaymentID)
		if err != nil {
			return fmt.Errorf("get payment: %w", err)
		}
		if original.Type != TypeCheckout {
			return ErrUnsupportedType
		}

		if req.OrderID != "" {
			existing, err := tx.GetOrderRefund(ctx, original.ID, req.OrderID)
			switch {
			case err == nil:
				if existing.Amount != req.Amount {
					return fmt.Errorf("%w: order %s was refunded %d", ErrOrderRefundExists, req.OrderID, existing.Amount)
				}
				refund = existing
				return nil
			case !errors.Is(err, ErrNotFound):
				return fmt.Errorf("get order refund: %w", err)
			}
		}

		if !slices.Contains(RefundableStatuses, original.Status) {
			return fmt.Errorf("%w: status is %s", ErrNotRefundable, original.Status)
		}
		if original.ChargeID == "" {
			return ErrMissingCharge
		}

		refunded, err := tx.SumRefunds(ctx, original.ID)
		if err != nil {
			return fmt.Errorf("sum refunds: %w", err)
		}
		if refunded+req.Amount > original.Amount {
			return fmt.Errorf("%w: requested %d, remaining %d", ErrRefundExceedsAmount, req.Amount, original.Amount-refunded)
		}

		refund, err = NewRefundPayment(original.CustomerID, original.Currency, req.Amount, RefundDetails{
			OriginalPaymentID: original.ID,
			OrderID:           req.OrderID,
			ChargeID:          original.ChargeID,
			Reason:            req.Reason,
			Notes:             req.Notes,
			RequestedBy:       req.RequestedBy,
		}, s.now())
		if err != nil {
			return err
		}

		if err := tx.CreatePayment(ctx, refund); err != nil {
			return fmt.Errorf("store refund: %w", err)
		}
		return nil
	})
	if err != nil {
		return Payment{}, err
	}

	if refund.Status == StatusSucceeded {
		slog.InfoContext(ctx, "Refund already issued for order",
			"refund_id", refund.ID,
			"payment_id", original.ID,
			"order_id", req.OrderID)
		return refund, nil
	}

	gwRefund, err := s.gateway.Refund(ctx, GatewayRefundRequest{
		ChargeID: original.ChargeID,
		Amount:   refund.Amount,
		Reason:   req.Reason,
		Notes:    req.Notes,
		Metadata: map[string]any{
			"refund_id":           refund.ID,
			"original_payment_id": original.ID,
			"order_id":            req.OrderID,
		},
		IdempotencyKey: refund.IdempotencyKey,
	})
	if err != nil {
		update := StatusUpdate{
			ID:            refund.ID,
			From:          []Status{StatusPending},
			To:            StatusFailed,
			FailureReason: pointers.Ptr(err.Error()),
			IsFinal:       true,
			UpdatedAt:     s.now(),
		}
		if uErr := s.repo.UpdateStatus(ctx, update); uErr != nil {
			slog.ErrorContext(ctx, "Failed to mark refund as failed",
				"refund_id", refund.ID,
				slog.Any("error", uErr))
		}
		return Payment{}, fmt.Errorf("gateway refund: %w", err)
	}

	now := s.now()
	update := StatusUpdate{
		ID:              refund.ID,
		From:            []Status{StatusPending},
		To:              StatusSucceeded,
		ChargeID:        &gwRefund.ID,
		GatewayResponse: gwRefund.Raw,
		IsFinal:         true,
		PaidAt:          &now,
		UpdatedAt:       now,
	}
	if err := s.repo.UpdateStatus(ctx, update); err != nil {
		if errors.Is(err, ErrStatusChanged) {
			// a concurrent attempt with the same key completed it
			return getPayment(ctx, s.repo, refund.ID)
		}
		return Payment{}, fmt.Errorf("update refund status: %w", err)
	}
	refund = applyUpdate(refund, update)
	metrics.PaymentTransitions.WithLabelValues(string(refund.Type), string(refund.Status)).Inc()

	if err := s.settleRefundedPayment(ctx, original.ID); err != nil {
		return Payment{}, err
	}

	slog.InfoContext(ctx, "Refund completed",
		"refund_id", refund.ID,
		"payment_id", original.ID,
		"order_id", req.OrderID,
		"amount", refund.Amount)

	return refund, nil
}

// settleRefundedPayment moves the original to refunded or partially_refunded
// according to the refunds recorded against it.
func (s *Service) settleRefundedPayment(ctx context.Context, paymentID string) error {
	return s.repo.InTransaction(ctx, func(tx TxRepo) error {
		original, err := tx.GetPaymentForUpdate(ctx, paymentID)
		if err != nil {
			return fmt.Errorf("get payment: %w", err)
		}
		refunded, err := tx.SumRefunds(ctx, paymentID)
		if err != nil {
			return fmt.Errorf("sum refunds: %w", err)
		}

		target := StatusPartiallyRefunded
		if refunded >= original.Amount {
			target = StatusRefunded
		}
		if original.Status == target || !original.Status.CanBeUpdatedTo(target) {
			return nil
		}

		err = tx.UpdateStatus(ctx, StatusUpdate{
			ID:        paymentID,
			From:      []Status{original.Status},
			To:        target,
			IsFinal:   true,
			UpdatedAt: s.now(),
		})
		if err != nil && !errors.Is(err, ErrStatusChanged) {
			return fmt.Errorf("update payment status: %w", err)
		}
		metrics.PaymentTransitions.WithLabelValues(string(original.Type), string(target)).Inc()
		return nil
	})
}
