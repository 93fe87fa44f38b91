package payment_repo

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/domain/payment"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return &repo{db: mock, builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}, mock
}

func paymentRow(mock pgxmock.PgxPoolIface, id string, now time.Time) *pgxmock.Rows {
	return mock.NewRows(paymentColumns).AddRow(
		id, "refund", "pending", "cust-1", int64(500), int64(0), int64(500), "PHP", "Refund for payment orig-1",
		nil, nil, "idem-1", []byte(`{"original_payment_id":"orig-1","charge_id":"ch_1","reason":"others","requested_by":"admin-1"}`),
		nil, nil, false,
		false, []string{}, nil,
		now, now, nil, nil, nil,
	)
}

func TestGetPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("should map row to payment", func(t *testing.T) {
		r, mock := newTestRepo(t)
		id := uuid.NewString()
		now := time.Now().UTC()

		mock.ExpectQuery(`SELECT .* FROM payments WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(paymentRow(mock, id, now))

		p, err := r.GetPayment(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
		assert.Equal(t, payment.TypeRefund, p.Type)
		assert.Equal(t, payment.StatusPending, p.Status)
		assert.Empty(t, p.IntentID)
		details, ok := p.Refund()
		require.True(t, ok)
		assert.Equal(t, "orig-1", details.OriginalPaymentID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should lock row when loading for update", func(t *testing.T) {
		r, mock := newTestRepo(t)
		id := uuid.NewString()

		mock.ExpectQuery(`SELECT .* FROM payments WHERE id = \$1 FOR UPDATE`).
			WithArgs(id).
			WillReturnRows(paymentRow(mock, id, time.Now()))

		_, err := r.GetPaymentForUpdate(ctx, id)

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should return not found for missing row", func(t *testing.T) {
		r, mock := newTestRepo(t)
		id := uuid.NewString()

		mock.ExpectQuery(`SELECT .* FROM payments WHERE id = \$1`).
			WithArgs(id).
			WillReturnError(pgx.ErrNoRows)

		_, err := r.GetPayment(ctx, id)

		assert.ErrorIs(t, err, payment.ErrNotFound)
	})

	t.Run("should not query for malformed id", func(t *testing.T) {
		r, mock := newTestRepo(t)

		_, err := r.GetPayment(ctx, "pi_not_a_uuid")

		assert.ErrorIs(t, err, payment.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetOrderRefund(t *testing.T) {
	ctx := context.Background()
	originalID := uuid.NewString()

	t.Run("should look up the live refund for the order", func(t *testing.T) {
		r, mock := newTestRepo(t)
		refundID := uuid.NewString()

		mock.ExpectQuery(`SELECT .* FROM payments WHERE \(original_payment_id = \$1 AND type = \$2 AND status <> \$3 AND details->>'order_id' = \$4\)`).
			WithArgs(originalID, payment.TypeRefund, payment.StatusFailed, "order-a").
			WillReturnRows(paymentRow(mock, refundID, time.Now().UTC()))

		p, err := r.GetOrderRefund(ctx, originalID, "order-a")

		require.NoError(t, err)
		assert.Equal(t, refundID, p.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should report not found when the order has no refund", func(t *testing.T) {
		r, mock := newTestRepo(t)

		mock.ExpectQuery(`SELECT .* FROM payments`).
			WithArgs(originalID, payment.TypeRefund, payment.StatusFailed, "order-b").
			WillReturnError(pgx.ErrNoRows)

		_, err := r.GetOrderRefund(ctx, originalID, "order-b")

		assert.ErrorIs(t, err, payment.ErrNotFound)
	})
}

func TestCreatePayment(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	refund, err := payment.NewRefundPayment("cust-1", "PHP", 500, payment.RefundDetails{
		OriginalPaymentID: "orig-1",
		ChargeID:          "ch_1",
		Reason:            "others",
		RequestedBy:       "admin-1",
	}, now)
	require.NoError(t, err)

	t.Run("should store original payment id for refunds", func(t *testing.T) {
		r, mock := newTestRepo(t)

		mock.ExpectExec(`INSERT INTO payments \(.*original_payment_id.*\) VALUES`).
			WithArgs(
				refund.ID, payment.TypeRefund, payment.StatusPending, "cust-1", int64(500), int64(0), int64(500), "PHP", refund.Description,
				pgxmock.AnyArg(), pgxmock.AnyArg(), refund.IdempotencyKey, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), false, false, []string{}, pgxmock.AnyArg(),
				now, now, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, r.CreatePayment(ctx, refund))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should map unique violation to duplicate key", func(t *testing.T) {
		r, mock := newTestRepo(t)

		mock.ExpectExec(`INSERT INTO payments`).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := r.CreatePayment(ctx, refund)

		assert.ErrorIs(t, err, payment.ErrDuplicateKey)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	chargeID := "ch_1"

	update := payment.StatusUpdate{
		ID:        "pay-1",
		From:      []payment.Status{payment.StatusAwaitingPayment, payment.StatusProcessing},
		To:        payment.StatusSucceeded,
		ChargeID:  &chargeID,
		IsFinal:   true,
		PaidAt:    &now,
		UpdatedAt: now,
	}

	t.Run("should guard on current status", func(t *testing.T) {
		r, mock := newTestRepo(t)

		mock.ExpectExec(`UPDATE payments SET status = \$1, is_final = \$2, updated_at = \$3, charge_id = \$4, paid_at = \$5 WHERE id = \$6 AND status IN \(\$7,\$8\)`).
			WithArgs(payment.StatusSucceeded, true, now, "ch_1", now, "pay-1", payment.StatusAwaitingPayment, payment.StatusProcessing).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, r.UpdateStatus(ctx, update))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should report concurrent change on zero rows", func(t *testing.T) {
		r, mock := newTestRepo(t)

		mock.ExpectExec(`UPDATE payments SET`).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := r.UpdateStatus(ctx, update)

		assert.ErrorIs(t, err, payment.ErrStatusChanged)
	})
}

func TestSumRefunds(t *testing.T) {
	r, mock := newTestRepo(t)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM payments`).
		WithArgs("orig-1").
		WillReturnRows(mock.NewRows([]string{"coalesce"}).AddRow(int64(1500)))

	total, err := r.SumRefunds(context.Background(), "orig-1")

	require.NoError(t, err)
	assert.Equal(t, int64(1500), total)
}

func TestMaterializationLock(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	staleBefore := now.Add(-5 * time.Minute)

	t.Run("should acquire when row updated", func(t *testing.T) {
		r, mock := newTestRepo(t)

		mock.ExpectExec(`UPDATE payments\s+SET order_creation_error = 'in_progress'`).
			WithArgs("pay-1", now, staleBefore).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		ok, err := r.AcquireMaterializationLock(ctx, "pay-1", now, staleBefore)

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("should report busy when lock is held", func(t *testing.T) {
		r, mock := newTestRepo(t)

		mock.ExpectExec(`UPDATE payments\s+SET order_creation_error = 'in_progress'`).
			WithArgs("pay-1", now, staleBefore).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		ok, err := r.AcquireMaterializationLock(ctx, "pay-1", now, staleBefore)

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("should store order ids on completion", func(t *testing.T) {
		r, mock := newTestRepo(t)
		ids := []string{"o-1", "o-2"}

		mock.ExpectExec(`UPDATE payments\s+SET orders_created = TRUE`).
			WithArgs("pay-1", ids, now).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, r.CompleteMaterialization(ctx, "pay-1", ids, now))
	})

	t.Run("should reject completion of materialized payment", func(t *testing.T) {
		r, mock := newTestRepo(t)

		mock.ExpectExec(`UPDATE payments\s+SET orders_created = TRUE`).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := r.CompleteMaterialization(ctx, "pay-1", []string{"o-1"}, now)

		assert.ErrorIs(t, err, payment.ErrAlreadyMaterialized)
	})
}

func TestExpirePayments(t *testing.T) {
	r, mock := newTestRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`UPDATE payments\s+SET status = 'cancelled'[\s\S]*RETURNING id, COALESCE\(intent_id, ''\)`).
		WithArgs(now).
		WillReturnRows(pgxmock.NewRows([]string{"id", "intent_id"}).
			AddRow("pay-1", "pi_1").
			AddRow("pay-2", ""))

	expired, err := r.ExpirePayments(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, []payment.ExpiredPayment{
		{ID: "pay-1", IntentID: "pi_1"},
		{ID: "pay-2"},
	}, expired)
	require.NoError(t, mock.ExpectationsWereMet())
}
