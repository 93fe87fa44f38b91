package escrow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"marketplace/internal/domain/order"
	"marketplace/internal/domain/payment"
	"marketplace/pkg/apperror"
	"marketplace/pkg/metrics"
)

// Service runs the escrow state machine:
//
//	held -> released
//	held -> refund_requested -> refunded
//	refund_requested -> held
type Service struct {
	repo     Repo
	refunder Refunder
	index    EventIndex
	now      func() time.Time
}

// NewService builds the escrow service. index may be nil.
func NewService(repo Repo, refunder Refunder, index EventIndex) *Service {
	return &Service{
		repo:     repo,
		refunder: refunder,
		index:    index,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// change is what a transition decided to do with a locked order.
type change struct {
	to       order.EscrowStatus
	escrow   order.Escrow
	event    NewEvent
	guardErr error
	effect   func(ctx context.Context, tx TxRepo) error
}

type decideFunc func(ctx context.Context, o order.Order, now time.Time) (change, error)

func (s *Service) Release(ctx context.Context, orderID, adminID string) (order.Order, error) {
	return s.apply(ctx, "release", orderID, func(ctx context.Context, o order.Order, now time.Time) (change, error) {
		if o.EscrowStatus != order.EscrowHeld {
			return change{}, ErrNotHeld
		}

		esc := o.Escrow
		esc.ReleasedAt = &now
		return change{
			to:       order.EscrowReleased,
			escrow:   esc,
			event:    NewEvent{Kind: EventReleased, ActorID: adminID},
			guardErr: ErrNotHeld,
			effect: func(ctx context.Context, tx TxRepo) error {
				if err := tx.CreditVendorBalance(ctx, o.VendorID, o.Subtotal, now); err != nil {
					return fmt.Errorf("credit vendor balance: %w", err)
				}
				return nil
			},
		}, nil
	})
}

// Hold annotates a held order or puts a refund-requested order back on hold.
func (s *Service) Hold(ctx context.Context, orderID, adminID, reason string) (order.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return order.Order{}, ErrHoldReasonRequired
	}

	return s.apply(ctx, "hold", orderID, func(ctx context.Context, o order.Order, now time.Time) (change, error) {
		switch o.EscrowStatus {
		case order.EscrowHeld:
			esc := o.Escrow
			esc.HoldReason = reason
			return change{
				to:       order.EscrowHeld,
				escrow:   esc,
				event:    NewEvent{Kind: EventHoldAnnotated, ActorID: adminID, Reason: reason},
				guardErr: ErrNotHoldable,
			}, nil
		case order.EscrowRefundRequested:
			return change{
				to:       order.EscrowHeld,
				escrow:   clearRefundRequest(o.Escrow, reason),
				event:    NewEvent{Kind: EventRefundRejected, ActorID: adminID, Reason: reason},
				guardErr: ErrNotHoldable,
			}, nil
		default:
			return change{}, ErrNotHoldable
		}
	})
}

func (s *Service) RequestRefund(ctx context.Context, orderID, customerID, reason string) (order.Order, error) {
	return s.apply(ctx, "request_refund", orderID, func(ctx context.Context, o order.Order, now time.Time) (change, error) {
		if o.CustomerID != customerID {
			return change{}, order.ErrNotFound
		}
		if o.EscrowStatus != order.EscrowHeld {
			return change{}, ErrNotHeld
		}

		esc := o.Escrow
		esc.RefundRequestedBy = customerID
		esc.RefundReason = reason
		esc.RefundAmount = o.Subtotal
		return change{
			to:       order.EscrowRefundRequested,
			escrow:   esc,
			event:    NewEvent{Kind: EventRefundRequested, ActorID: customerID, Reason: reason},
			guardErr: ErrNotHeld,
		}, nil
	})
}

func (s *Service) CancelRefundRequest(ctx context.Context, orderID, customerID string) (order.Order, error) {
	return s.apply(ctx, "cancel_refund_request", orderID, func(ctx context.Context, o order.Order, now time.Time) (change, error) {
		if o.EscrowStatus != order.EscrowRefundRequested {
			return change{}, ErrNoRefundRequest
		}
		if o.Escrow.RefundRequestedBy != customerID {
			return change{}, ErrNotRequester
		}

		return change{
			to:       order.EscrowHeld,
			escrow:   clearRefundRequest(o.Escrow, o.Escrow.HoldReason),
			event:    NewEvent{Kind: EventRefundRequestCancelled, ActorID: customerID},
			guardErr: ErrNoRefundRequest,
		}, nil
	})
}

// ApproveRefund refunds the order subtotal through the payment record and
// marks the escrow refunded. The order row stays locked while the refund is
// issued so concurrent approvals cannot refund twice.
func (s *Service) ApproveRefund(ctx context.Context, orderID, adminID string) (order.Order, error) {
	var refundID string
	o, err := s.apply(ctx, "approve_refund", orderID, func(ctx context.Context, o order.Order, now time.Time) (change, error) {
		if o.EscrowStatus != order.EscrowRefundRequested {
			return change{}, ErrNoRefundRequest
		}

		amount := o.Escrow.RefundAmount
		if amount <= 0 {
			amount = o.Subtotal
		}
		refund, err := s.refunder.RequestRefund(ctx, payment.RefundRequest{
			PaymentID:   o.PaymentID,
			OrderID:     o.ID,
			Amount:      amount,
			Reason:      "requested_by_customer",
			Notes:       o.Escrow.RefundReason,
			RequestedBy: adminID,
		})
		if err != nil {
			return change{}, fmt.Errorf("issue refund: %w", err)
		}
		refundID = refund.ID

		esc := o.Escrow
		esc.RefundAmount = amount
		esc.RefundPaymentID = refund.ID
		esc.RefundedAt = &now
		return change{
			to:       order.EscrowRefunded,
			escrow:   esc,
			event:    NewEvent{Kind: EventRefundApproved, ActorID: adminID, Reason: o.Escrow.RefundReason},
			guardErr: ErrNoRefundRequest,
		}, nil
	})
	if err != nil && refundID != "" {
		slog.ErrorContext(ctx, "Refund issued but escrow update failed",
			"order_id", orderID,
			"refund_id", refundID,
			slog.Any("error", err))
	}
	return o, err
}

func (s *Service) RejectRefund(ctx context.Context, orderID, adminID, reason string) (order.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return order.Order{}, ErrRejectReasonMissing
	}
	return s.apply(ctx, "reject_refund", orderID, func(ctx context.Context, o order.Order, now time.Time) (change, error) {
		if o.EscrowStatus != order.EscrowRefundRequested {
			return change{}, ErrNoRefundRequest
		}

		return change{
			to:       order.EscrowHeld,
			escrow:   clearRefundRequest(o.Escrow, reason),
			event:    NewEvent{Kind: EventRefundRejected, ActorID: adminID, Reason: reason},
			guardErr: ErrNoRefundRequest,
		}, nil
	})
}

func (s *Service) ListEvents(ctx context.Context, query EventQuery) (EventPage, error) {
	page, err := s.repo.GetEvents(ctx, query)
	if err != nil {
		return EventPage{}, fmt.Errorf("get escrow events: %w", err)
	}
	return page, nil
}

// SearchEvents reads from the search index when one is configured.
func (s *Service) SearchEvents(ctx context.Context, query EventQuery) (EventPage, error) {
	if s.index == nil {
		return s.ListEvents(ctx, query)
	}
	page, err := s.index.SearchEvents(ctx, query)
	if err != nil {
		return EventPage{}, fmt.Errorf("search escrow events: %w", err)
	}
	return page, nil
}

func (s *Service) apply(ctx context.Context, action, orderID string, decide decideFunc) (order.Order, error) {
	var (
		updated order.Order
		stored  Event
	)

	err := s.repo.InTransaction(ctx, func(tx TxRepo) error {
		o, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}

		now := s.now()
		c, err := decide(ctx, o, now)
		if err != nil {
			return err
		}

		err = tx.UpdateEscrow(ctx, Transition{
			OrderID:   o.ID,
			From:      o.EscrowStatus,
			To:        c.to,
			Escrow:    c.escrow,
			UpdatedAt: now,
		})
		if errors.Is(err, ErrStatusChanged) {
			return c.guardErr
		}
		if err != nil {
			return fmt.Errorf("update escrow: %w", err)
		}

		if c.effect != nil {
			if err := c.effect(ctx, tx); err != nil {
				return err
			}
		}

		ev := c.event
		ev.OrderID = o.ID
		ev.From = o.EscrowStatus
		ev.To = c.to
		ev.CreatedAt = now
		stored, err = tx.CreateEvent(ctx, ev)
		if err != nil {
			return fmt.Errorf("create escrow event: %w", err)
		}

		o.EscrowStatus = c.to
		o.Escrow = c.escrow
		o.UpdatedAt = now
		updated = o
		return nil
	})
	if err != nil {
		result := "failed"
		if k := apperror.KindOf(err); k == apperror.KindValidation || k == apperror.KindNotFound {
			result = "rejected"
		}
		metrics.EscrowTransitions.WithLabelValues(action, result).Inc()
		return order.Order{}, err
	}

	metrics.EscrowTransitions.WithLabelValues(action, "ok").Inc()
	slog.InfoContext(ctx, "Escrow transition applied",
		"order_id", updated.ID,
		"action", action,
		"from", stored.From,
		"to", stored.To,
		"actor_id", stored.ActorID)

	s.mirror(ctx, stored)
	return updated, nil
}

func (s *Service) mirror(ctx context.Context, ev Event) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexEvent(ctx, ev); err != nil {
		slog.WarnContext(ctx, "Escrow event indexing failed", "event_id", ev.EventID, slog.Any("error", err))
	}
}

func clearRefundRequest(esc order.Escrow, holdReason string) order.Escrow {
	esc.HoldReason = holdReason
	esc.RefundRequestedBy = ""
	esc.RefundReason = ""
	esc.RefundAmount = 0
	return esc
}
