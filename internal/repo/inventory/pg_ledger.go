package inventory_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"marketplace/internal/domain/inventory"
	"marketplace/pkg/postgres"

	"github.com/jackc/pgx/v5"
)

const DefaultMaxAttempts = 3

// PgLedger keeps stock counters in the products table. Product-level counters
// are updated with a single guarded statement; option counters live in the
// options JSONB and are updated optimistically against the row version.
type PgLedger struct {
	db          postgres.Executor
	maxAttempts int
}

var (
	_ inventory.Ledger = (*PgLedger)(nil)
	_ inventory.Owners = (*PgLedger)(nil)
)

func NewLedger(db postgres.Executor, maxAttempts int) *PgLedger {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &PgLedger{db: db, maxAttempts: maxAttempts}
}

func (l *PgLedger) Reserve(ctx context.Context, line inventory.Line) error {
	if err := line.Validate(); err != nil {
		return err
	}
	return l.apply(ctx, line.ProductID, line.OptionID, -line.Quantity, line.Quantity)
}

func (l *PgLedger) Release(ctx context.Context, line inventory.Line) error {
	if err := line.Validate(); err != nil {
		return err
	}
	return l.apply(ctx, line.ProductID, line.OptionID, line.Quantity, -line.Quantity)
}

func (l *PgLedger) Adjust(ctx context.Context, productID, optionID string, delta int) error {
	return l.apply(ctx, productID, optionID, delta, 0)
}

const selectProductVendorQuery = `SELECT vendor_id FROM products WHERE id = $1`

func (l *PgLedger) ProductVendor(ctx context.Context, productID string) (string, error) {
	var vendorID string
	err := l.db.QueryRow(ctx, selectProductVendorQuery, productID).Scan(&vendorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", inventory.ErrProductNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select product vendor: %w", err)
	}
	return vendorID, nil
}

func (l *PgLedger) apply(ctx context.Context, productID, optionID string, stockDelta, soldDelta int) error {
	if optionID == "" {
		return l.applyToProduct(ctx, productID, stockDelta, soldDelta)
	}
	return l.applyToOption(ctx, productID, optionID, stockDelta, soldDelta)
}

const updateProductStockQuery = `UPDATE products
SET stock = stock + $1, sold = sold + $2, version = version + 1, updated_at = NOW()
WHERE id = $3 AND stock + $1 >= 0 AND sold + $2 >= 0`

func (l *PgLedger) applyToProduct(ctx context.Context, productID string, stockDelta, soldDelta int) error {
	tag, err := l.db.Exec(ctx, updateProductStockQuery, stockDelta, soldDelta, productID)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return inventory.ErrInsufficientStock
	}
	return nil
}

const (
	selectOptionsQuery = `SELECT options, version FROM products WHERE id = $1`
	updateOptionsQuery = `UPDATE products
SET options = $1, version = version + 1, updated_at = NOW()
WHERE id = $2 AND version = $3`
)

func (l *PgLedger) applyToOption(ctx context.Context, productID, optionID string, stockDelta, soldDelta int) error {
	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		var (
			raw     []byte
			version int64
		)
		err := l.db.QueryRow(ctx, selectOptionsQuery, productID).Scan(&raw, &version)
		if errors.Is(err, pgx.ErrNoRows) {
			return inventory.ErrInsufficientStock
		}
		if err != nil {
			return fmt.Errorf("load product options: %w", err)
		}

		var options []inventory.Option
		if err := json.Unmarshal(raw, &options); err != nil {
			return fmt.Errorf("decode product options: %w", err)
		}

		updated, err := inventory.ApplyToOptions(options, optionID, stockDelta, soldDelta)
		if err != nil {
			return err
		}

		encoded, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("encode product options: %w", err)
		}

		tag, err := l.db.Exec(ctx, updateOptionsQuery, encoded, productID, version)
		if err != nil {
			return fmt.Errorf("update product options: %w", err)
		}
		if tag.RowsAffected() == 1 {
			return nil
		}
	}
	return inventory.ErrConcurrencyConflict
}
