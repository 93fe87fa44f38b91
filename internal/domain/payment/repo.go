package payment

import (
	"context"
	"encoding/json"
	"time"
)

//go:generate mockgen -source repo.go -destination mock_repo.go -package payment

type Repo interface {
	TxRepo
	InTransaction(ctx context.Context, fn func(repo TxRepo) error) error
}

type TxRepo interface {
	GetPayment(ctx context.Context, id string) (Payment, error)
	GetPaymentForUpdate(ctx context.Context, id string) (Payment, error)
	GetPaymentByIntentID(ctx context.Context, intentID string) (Payment, error)
	CreatePayment(ctx context.Context, p Payment) error
	UpdateStatus(ctx context.Context, update StatusUpdate) error
	// SumRefunds totals refund payments for the original that were not
	// rejected by the gateway (pending ones count, they reserve the balance).
	SumRefunds(ctx context.Context, originalPaymentID string) (int64, error)
	// GetOrderRefund returns the refund issued for orderID against the
	// original, ignoring failed ones, or ErrNotFound.
	GetOrderRefund(ctx context.Context, originalPaymentID, orderID string) (Payment, error)

	// ExpirePayments cancels unpaid payments past their expiry and returns them.
	ExpirePayments(ctx context.Context, now time.Time) ([]ExpiredPayment, error)
	ReleaseStaleLocks(ctx context.Context, staleBefore time.Time, reason string) (int64, error)
}

// MaterializationStore is the part of the payment record the order
// materializer owns: the advisory lock and the resulting order IDs.
type MaterializationStore interface {
	GetPayment(ctx context.Context, id string) (Payment, error)
	// AcquireMaterializationLock sets the in_progress sentinel when orders are
	// not created yet and the lock is free or was last touched before
	// staleBefore. It reports whether this caller now holds the lock.
	AcquireMaterializationLock(ctx context.Context, id string, now, staleBefore time.Time) (bool, error)
	CompleteMaterialization(ctx context.Context, id string, orderIDs []string, now time.Time) error
	ReleaseMaterializationLock(ctx context.Context, id string, reason string, now time.Time) error
}

// StatusUpdate moves a payment to To when its current status is one of From.
// A zero-row update is reported as ErrStatusChanged.
type StatusUpdate struct {
	ID              string
	From            []Status
	To              Status
	ChargeID        *string
	FailureReason   *string
	GatewayResponse json.RawMessage
	Fee             *int64
	NetAmount       *int64
	IsFinal         bool
	PaidAt          *time.Time
	ExpiredAt       *time.Time
	UpdatedAt       time.Time
}
