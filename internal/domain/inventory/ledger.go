package inventory

import (
	"context"
	"fmt"
	"strings"

	"marketplace/pkg/apperror"
)

//go:generate mockgen -source ledger.go -destination mock_ledger.go -package inventory

// Ledger mutates stock counters. Lines with an OptionID touch the option's
// counters, the rest touch the product's. No call may drive stock below zero.
type Ledger interface {
	// Reserve moves Quantity units from stock to sold.
	Reserve(ctx context.Context, line Line) error
	// Release undoes a reservation.
	Release(ctx context.Context, line Line) error
	// Adjust adds delta to stock directly (restock or write-off).
	Adjust(ctx context.Context, productID, optionID string, delta int) error
}

// Owners resolves the vendor that sells a product.
type Owners interface {
	ProductVendor(ctx context.Context, productID string) (string, error)
}

var (
	ErrInsufficientStock   = apperror.New(apperror.KindConflict, "not found or insufficient stock")
	ErrConcurrencyConflict = apperror.New(apperror.KindConflict, "stock changed concurrently, retries exhausted")
	ErrProductNotFound     = apperror.New(apperror.KindNotFound, "product not found")
)

type Line struct {
	ProductID string
	OptionID  string
	Quantity  int
}

func (l Line) Validate() error {
	if strings.TrimSpace(l.ProductID) == "" {
		return apperror.Validation("product id is required")
	}
	if l.Quantity <= 0 {
		return apperror.Validation("quantity must be positive, got %d", l.Quantity)
	}
	return nil
}

func (l Line) String() string {
	if l.OptionID == "" {
		return fmt.Sprintf("%s x%d", l.ProductID, l.Quantity)
	}
	return fmt.Sprintf("%s/%s x%d", l.ProductID, l.OptionID, l.Quantity)
}

// Option is one purchasable variant stored inside a product row.
type Option struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Price int64  `json:"price,omitempty"`
	Stock int    `json:"stock"`
	Sold  int    `json:"sold"`
}

// ApplyToOptions returns a copy of options with the given stock and sold
// deltas applied to optionID. It fails with ErrInsufficientStock when the
// option is missing or either counter would go negative.
func ApplyToOptions(options []Option, optionID string, stockDelta, soldDelta int) ([]Option, error) {
	out := make([]Option, len(options))
	copy(out, options)

	for i := range out {
		if out[i].ID != optionID {
			continue
		}
		if out[i].Stock+stockDelta < 0 || out[i].Sold+soldDelta < 0 {
			return nil, ErrInsufficientStock
		}
		out[i].Stock += stockDelta
		out[i].Sold += soldDelta
		return out, nil
	}
	return nil, ErrInsufficientStock
}
