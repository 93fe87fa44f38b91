package commission

import (
	"context"
	"time"

	"marketplace/internal/domain/order"
	"marketplace/pkg/apperror"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source commission.go -destination mock_commission.go -package commission

type Repo interface {
	TxRepo
	InTransaction(ctx context.Context, fn func(repo TxRepo) error) error
}

type TxRepo interface {
	GetOrderForUpdate(ctx context.Context, orderID string) (order.Order, error)
	// CreateRemittance returns ErrAlreadyRemitted when the order already has one.
	CreateRemittance(ctx context.Context, r Remittance) error
	// MarkRemitted returns ErrAlreadyRemitted unless the order was still unpaid.
	MarkRemitted(ctx context.Context, orderID string, amount int64, at time.Time) error
	GetUnremittedOrders(ctx context.Context, vendorID string) ([]order.Order, error)
}

var (
	ErrNotCOD          = apperror.New(apperror.KindValidation, "commission remittance applies to cash-on-delivery orders only")
	ErrAlreadyRemitted = apperror.New(apperror.KindConflict, "commission for this order was already remitted")
	ErrNoOrders        = apperror.New(apperror.KindValidation, "at least one order id is required")
	ErrReference       = apperror.New(apperror.KindValidation, "remittance reference is required")
)

type Remittance struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	VendorID  string    `json:"vendor_id"`
	Amount    int64     `json:"amount"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}

type BulkFailure struct {
	OrderID string `json:"order_id"`
	Error   string `json:"error"`
}

type BulkResult struct {
	Succeeded []Remittance  `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

type Quote struct {
	VendorID   string `json:"vendor_id"`
	Orders     int    `json:"orders"`
	Subtotal   int64  `json:"subtotal"`
	Commission int64  `json:"commission"`
}

// Compute returns subtotal x rate rounded half-up to whole minor units.
func Compute(subtotal int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(subtotal).Mul(rate).Round(0).IntPart()
}
