package order

import (
	"context"
	"time"

	"marketplace/internal/domain/inventory"
)

//go:generate mockgen -source repo.go -destination mock_repo.go -package order

type Repo interface {
	TxRepo
	InTransaction(ctx context.Context, fn func(repo TxRepo) error) error
}

type TxRepo interface {
	GetOrders(ctx context.Context, query *OrdersQuery) ([]Order, error)
	// CreateOrder returns ErrAlreadyExists when an order with the same ID is stored.
	CreateOrder(ctx context.Context, o Order) error
	// Inventory returns a ledger bound to the same connection or transaction.
	Inventory() inventory.Ledger
}

// RevenueRecorder credits the vendor revenue ledger. Failures are tolerated.
type RevenueRecorder interface {
	AddRevenue(ctx context.Context, vendorID string, amount int64, at time.Time) error
}

type TrackingGenerator interface {
	Next() string
}
