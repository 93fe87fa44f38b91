package escrow

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace/internal/domain/order"
	"marketplace/internal/domain/payment"
	"marketplace/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type escrowMocks struct {
	repo     *MockRepo
	refunder *MockRefunder
	index    *MockEventIndex
}

func escrowService(t *testing.T) (*Service, escrowMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := escrowMocks{
		repo:     NewMockRepo(ctrl),
		refunder: NewMockRefunder(ctrl),
		index:    NewMockEventIndex(ctrl),
	}
	m.repo.EXPECT().InTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(TxRepo) error) error {
			return fn(m.repo)
		}).AnyTimes()

	svc := NewService(m.repo, m.refunder, m.index).WithClock(func() time.Time { return testNow })
	return svc, m
}

func heldOrder() order.Order {
	return order.Order{
		ID:           "order-1",
		PaymentID:    "pay-1",
		CustomerID:   "cust-1",
		VendorID:     "vendor-a",
		Subtotal:     200,
		EscrowStatus: order.EscrowHeld,
	}
}

func refundRequested() order.Order {
	o := heldOrder()
	o.EscrowStatus = order.EscrowRefundRequested
	o.Escrow = order.Escrow{RefundRequestedBy: "cust-1", RefundReason: "damaged", RefundAmount: 200}
	return o
}

func expectEvent(t *testing.T, m escrowMocks, kind EventKind, from, to order.EscrowStatus) {
	t.Helper()
	m.repo.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev NewEvent) (Event, error) {
			assert.Equal(t, kind, ev.Kind)
			assert.Equal(t, from, ev.From)
			assert.Equal(t, to, ev.To)
			assert.Equal(t, testNow, ev.CreatedAt)
			return Event{EventID: "evt-1", NewEvent: ev}, nil
		})
	m.index.EXPECT().IndexEvent(gomock.Any(), gomock.Any()).Return(nil)
}

func TestService_Release(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("should release held order and credit vendor", func(t *testing.T) {
		// given
		svc, m := escrowService(t)
		m.repo.EXPECT().GetOrderForUpdate(ctx, "order-1").Return(heldOrder(), nil)
		m.repo.EXPECT().UpdateEscrow(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, tr Transition) error {
				assert.Equal(t, order.EscrowHeld, tr.From)
				assert.Equal(t, order.EscrowReleased, tr.To)
				assert.Equal(t, testNow, *tr.Escrow.ReleasedAt)
				return nil
			})
		m.repo.EXPECT().CreditVendorBalance(ctx, "vendor-a", int64(200), testNow).Return(nil)
		expectEvent(t, m, EventReleased, order.EscrowHeld, order.EscrowReleased)

		// when
		o, err := svc.Release(ctx, "order-1", "admin-1")

		// then
		require.NoError(t, err)
		assert.Equal(t, order.EscrowReleased, o.EscrowStatus)
	})

	t.Run("should reject release of refund-requested order", func(t *testing.T) {
		svc, m := escrowService(t)
		m.repo.EXPECT().GetOrderForUpdate(ctx, "order-1").Return(refundRequested(), nil)

		_, err := svc.Release(ctx, "order-1", "admin-1")

		assert.ErrorIs(t, err, ErrNotHeld)
		assert.EqualError(t, err, "Payment is not held in escrow")
	})

	t.Run("should map lost SQL guard to precondition error", func(t *testing.T) {
		svc, m := escrowService(t)
		m.repo.EXPECT().GetOrderForUpdate(ctx, "order-1").Return(heldOrder(), nil)
		m.repo.EXPECT().UpdateEscrow(ctx, gomock.Any()).Return(ErrStatusChanged)

		_, err := svc.Release(ctx, "order-1", "admin-1")

		assert.ErrorIs(t, err, ErrNotHeld)
	})

	t.Run("should fail whole transition when balance credit fails", func(t *testing.T) {
		svc, m := escrowService(t)
		m.repo.EXPECT().GetOrderForUpdate(ctx, "order-1").Return(heldOrder(), nil)
		m.repo.EXPECT().UpdateEscrow(ctx, gomock.Any()).Return(nil)
		m.repo.EXPECT().CreditVendorBalance(ctx, "vendor-a", int64(200), testNow).Return(errors.New("deadlock detected"))

		_, err := svc.Release(ctx, "order-1", "admin-1")

		assert.EqualError(t, err, "credit vendor balance: deadlock detected")
	})
}

func TestService_RefundRequestFlow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("should let owner request refund of held order", func(t *testing.T) {
		// given
		svc, m := escrowService(t)
		m.repo.EXPECT().GetOrderForUpdate(ctx, "order-1").Return(heldOrder(), nil)
		m.repo.EXPECT().UpdateEscrow(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, tr Transition) error {
				assert.Equal(t, "cust-1", tr.Escrow.RefundRequestedBy)
				assert.Equal(t, int64(200), tr.Escrow.RefundAmount)
				return nil
			})
		expectEvent(t, m, EventRefundRequested, order.EscrowHeld, order.EscrowRefundRequested)

		// when
		o, err := svc.RequestRefund(ctx, "order-1", "cust-1", "damaged")

		// then
		require.NoError(t, err)
		assert.Equal(t, order.EscrowRefundRequested, o.EscrowStatus)
		assert.Equal(t, "damaged", o.Escrow.RefundReason)
	})

	t.Run("should hide order from other customers", func(t *testing.T) {
		svc, m := escrowService(t)
		m.repo.EXPECT().GetOrderForUpdate(ctx, "order-1").Return(heldOrder(), nil)

		_, err := svc.RequestRefund(ctx, "order-1", "cust-2", "damaged")

		assert.ErrorIs(t, err, order.ErrNotFound)
	})

	t.Run("should reject refund request on released order", func(t *testing.T) {
		svc, m := escrowService(t)
		o := heldOrder()
		o.EscrowStatus = order.EscrowReleased
		m.repo.EXPECT().GetOrderForUpdate(ctx, "order-1").Return(o, nil)

		_, err := svc.RequestRefund(ctx, "order-1", "cust-1", "damaged")

		assert.ErrorIs(t, err, ErrNotHeld)
	})

	t.Run("should only let requester cancel", func(t *testing.T) {
		svc, m := escrowService(t)
		m.repo.EXPECT().GetOrderForUpdate(ctx, "order-1").Return(refundRequested(), nil)

		_, err := svc.CancelRefundRequest(ctx, "order-1", "cust-9")

		assert.ErrorIs(t, err, ErrNotRequester)
	})

	t.Run("should cancel refund request", func(t *testing.T) {
		svc, m := escrowService(t)
		m.repo.EXPECT().GetOrderForUpdate(ctx, "order-1").Return(refundRequested(), nil)
		m.repo.EXPECT().UpdateEscrow(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, tr Transition) error {
				assert.Empty(t, tr.Escrow.RefundRequestedBy)
				assert.Zero(t, tr.Escrow.RefundAmount)
				return nil
			})
		expectEvent(t, m, EventRefundRequestCancelled, order.EscrowRefundRequested, order.EscrowHeld)

		o, err := svc.CancelRefundRequest(ctx, "order-1", "cust-1")

		require.NoError(t, err)
		assert.Equal(t, order.EscrowHeld, o.EscrowStatus)
	})

	t.Run("should not cancel when nothing is pending", func(t *testing.T) {
		svc, m := escrowService(t)
		m.repo.EXPECT().GetOrderForUpdate(ctx, "order-1").Return(heldOrder(), nil)

		_, err := svc.CancelRefundRequest(ctx, "order-1", "cust-1")

		assert.EqualError(t, err, "No pending refund request")
	})
}

func TestService_ApproveRefund(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("should refund subtotal and mark refunded", func(t *testing.T) {
		// given
		svc, m := escrowService(t)
		m.repo.EXPECT().GetOrderForUpdate(ctx, "order-1").Return(refundRequested(), nil)
		m.refunder.EXPECT().RequestRefund(ctx, payment.RefundRequest{
			PaymentID:   "pay-1",
			OrderID:     "order-1",
			Amount:      200,
			Reason:      "requested_by_customer",
			Notes:       "damaged",
			RequestedBy: "admin-1",
		}).Return(payment.Payment{ID: "refund-1"}, nil)
		m.repo.EXPECT().UpdateEscrow(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, tr Transition) error {
				assert.Equal(t, order.EscrowRefunded, tr.To)
				assert.Equal(t, "refund-1", tr.Escrow.RefundPaymentID)
				return nil
			})
		expectEvent(t, m, EventRefundApproved, order.EscrowRefundRequested, order.EscrowRefunded)

		// when
		o, err := svc.ApproveRefund(ctx, "order-1", "admin-1")

		// then
		require.NoError(t, err)
		assert.Equal(t, order.EscrowRefunded, o.EscrowStatus)
	})

	t.Run("should leave escrow untouched when refund is rejected", func(t *testing.T) {
		// given
		svc, m := escrowService(t)
		m.repo.EXPECT().GetOrderForUpdate(ctx, "order-1").Return(refundRequested(), nil)
		m.refunder.EXPECT().RequestRefund(ctx, gomock.Any()).Return(payment.Payment{}, payment.ErrRefundExceedsAmount)

		// when
		_, err := svc.ApproveRefund(ctx, "order-1", "admin-1")

		// then
		assert.ErrorIs(t, err, payment.ErrRefundExceedsAmount)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("should require pending request", func(t *testing.T) {
		svc, m := escrowService(t)
		m.repo.EXPECT().GetOrderForUpdate(ctx, "order-1").Return(heldOrder(), nil)

		_, err := svc.ApproveRefund(ctx, "order-1", "admin-1")

		assert.ErrorIs(t, err, ErrNoRefundRequest)
	})
}

func TestService_HoldAndReject(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("should require hold reason", func(t *testing.T) {
		svc, _ := escrowService(t)

		_, err := svc.Hold(ctx, "order-1", "admin-1", "  ")

		assert.ErrorIs(t, err, ErrHoldReasonRequired)
	})

	t.Run("should annotate held order", func(t *testing.T) {
		svc, m := escrowService(t)
		m.repo.EXPECT().GetOrderForUpdate(ctx, "order-1").Return(heldOrder(), nil)
		m.repo.EXPECT().UpdateEscrow(ctx, gomock.Any()).Return(nil)
		expectEvent(t, m, EventHoldAnnotated, order.EscrowHeld, order.EscrowHeld)

		o, err := svc.Hold(ctx, "order-1", "admin-1", "fraud review")

		require.NoError(t, err)
		assert.Equal(t, "fraud review", o.Escrow.HoldReason)
	})

	t.Run("should put refund request back on hold", func(t *testing.T) {
		svc, m := escrowService(t)
		m.repo.EXPECT().GetOrderForUpdate(ctx, "order-1").Return(refundRequested(), nil)
		m.repo.EXPECT().UpdateEscrow(ctx, gomock.Any()).Return(nil)
		expectEvent(t, m, EventRefundRejected, order.EscrowRefundRequested, order.EscrowHeld)

		o, err := svc.Hold(ctx, "order-1", "admin-1", "item received intact")

		require.NoError(t, err)
		assert.Equal(t, order.EscrowHeld, o.EscrowStatus)
		assert.Empty(t, o.Escrow.RefundRequestedBy)
	})

	t.Run("should not hold released order", func(t *testing.T) {
		svc, m := escrowService(t)
		o := heldOrder()
		o.EscrowStatus = order.EscrowReleased
		m.repo.EXPECT().GetOrderForUpdate(ctx, "order-1").Return(o, nil)

		_, err := svc.Hold(ctx, "order-1", "admin-1", "late claim")

		assert.ErrorIs(t, err, ErrNotHoldable)
	})

	t.Run("should reject refund request", func(t *testing.T) {
		svc, m := escrowService(t)
		m.repo.EXPECT().GetOrderForUpdate(ctx, "order-1").Return(refundRequested(), nil)
		m.repo.EXPECT().UpdateEscrow(ctx, gomock.Any()).Return(nil)
		expectEvent(t, m, EventRefundRejected, order.EscrowRefundRequested, order.EscrowHeld)

		o, err := svc.RejectRefund(ctx, "order-1", "admin-1", "outside window")

		require.NoError(t, err)
		assert.Equal(t, "outside window", o.Escrow.HoldReason)
	})

	t.Run("should require rejection reason", func(t *testing.T) {
		svc, _ := escrowService(t)

		_, err := svc.RejectRefund(ctx, "order-1", "admin-1", "")

		assert.ErrorIs(t, err, ErrRejectReasonMissing)
	})
}

func TestService_EventIndexFailureIsIgnored(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, m := escrowService(t)
	m.repo.EXPECT().GetOrderForUpdate(ctx, "order-1").Return(heldOrder(), nil)
	m.repo.EXPECT().UpdateEscrow(ctx, gomock.Any()).Return(nil)
	m.repo.EXPECT().CreditVendorBalance(ctx, "vendor-a", int64(200), testNow).Return(nil)
	m.repo.EXPECT().CreateEvent(ctx, gomock.Any()).Return(Event{EventID: "evt-1"}, nil)
	m.index.EXPECT().IndexEvent(ctx, gomock.Any()).Return(errors.New("opensearch unavailable"))

	_, err := svc.Release(ctx, "order-1", "admin-1")

	assert.NoError(t, err)
}

func TestService_SearchEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	query := EventQuery{OrderIDs: []string{"order-1"}, Limit: 10}

	t.Run("should use index when configured", func(t *testing.T) {
		svc, m := escrowService(t)
		m.index.EXPECT().SearchEvents(ctx, query).Return(EventPage{Items: []Event{{EventID: "evt-1"}}}, nil)

		page, err := svc.SearchEvents(ctx, query)

		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
	})

	t.Run("should fall back to postgres without index", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockRepo(ctrl)
		repo.EXPECT().GetEvents(ctx, query).Return(EventPage{HasMore: true, NextCursor: "abc"}, nil)

		page, err := NewService(repo, nil, nil).SearchEvents(ctx, query)

		require.NoError(t, err)
		assert.True(t, page.HasMore)
	})
}
