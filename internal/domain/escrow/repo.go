package escrow

import (
	"context"
	"time"

	"marketplace/internal/domain/order"
	"marketplace/internal/domain/payment"
)

//go:generate mockgen -source repo.go -destination mock_repo.go -package escrow

type Repo interface {
	TxRepo
	InTransaction(ctx context.Context, fn func(repo TxRepo) error) error
}

type TxRepo interface {
	// GetOrderForUpdate locks the order row for the rest of the transaction.
	GetOrderForUpdate(ctx context.Context, orderID string) (order.Order, error)
	// UpdateEscrow applies t only while the stored status still equals t.From,
	// returning ErrStatusChanged otherwise.
	UpdateEscrow(ctx context.Context, t Transition) error
	CreditVendorBalance(ctx context.Context, vendorID string, amount int64, at time.Time) error
	CreateEvent(ctx context.Context, event NewEvent) (Event, error)
	GetEvents(ctx context.Context, query EventQuery) (EventPage, error)
}

// Refunder issues refund payments against the order's checkout payment.
type Refunder interface {
	RequestRefund(ctx context.Context, req payment.RefundRequest) (payment.Payment, error)
}

type Transition struct {
	OrderID   string
	From      order.EscrowStatus
	To        order.EscrowStatus
	Escrow    order.Escrow
	UpdatedAt time.Time
}
