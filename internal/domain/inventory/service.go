package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"marketplace/pkg/apperror"
)

// Service exposes direct stock adjustment to vendors and administrators.
type Service struct {
	ledger Ledger
	owners Owners
}

func NewService(ledger Ledger, owners Owners) *Service {
	return &Service{ledger: ledger, owners: owners}
}

type Adjustment struct {
	ProductID string
	OptionID  string
	Delta     int
	ActorID   string
	// VendorID restricts the adjustment to products sold by this vendor.
	// Empty means unrestricted (administrators).
	VendorID  string
}

func (s *Service) AdjustStock(ctx context.Context, adj Adjustment) error {
	if adj.ProductID == "" {
		return apperror.Validation("product id is required")
	}
	if adj.Delta == 0 {
		return apperror.Validation("delta must not be zero")
	}

	if adj.VendorID != "" {
		owner, err := s.owners.ProductVendor(ctx, adj.ProductID)
		if err != nil {
			return fmt.Errorf("resolve product vendor: %w", err)
		}
		if owner != adj.VendorID {
			slog.WarnContext(ctx, "Stock adjustment rejected for foreign product",
				"product_id", adj.ProductID,
				"vendor_id", adj.VendorID,
				"actor_id", adj.ActorID)
			return ErrProductNotFound
		}
	}

	if err := s.ledger.Adjust(ctx, adj.ProductID, adj.OptionID, adj.Delta); err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}

	slog.InfoContext(ctx, "Stock adjusted",
		"product_id", adj.ProductID,
		"option_id", adj.OptionID,
		"delta", adj.Delta,
		"actor_id", adj.ActorID)
	return nil
}
