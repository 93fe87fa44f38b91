package order_repo

import (
	"context"
	"fmt"

	"marketplace/internal/domain/inventory"
	"marketplace/internal/domain/order"
	inventory_repo "marketplace/internal/repo/inventory"
	"marketplace/pkg/postgres"

	"github.com/Masterminds/squirrel"
)

// PgOrderRepo is the main repository
type PgOrderRepo struct {
	pg *postgres.Postgres
	repo
}

func NewPgOrderRepo(pg *postgres.Postgres, inventoryMaxAttempts int) order.Repo {
	return &PgOrderRepo{
		pg:   pg,
		repo: repo{db: pg.Pool, builder: pg.Builder, inventoryMaxAttempts: inventoryMaxAttempts},
	}
}

func (r *PgOrderRepo) InTransaction(ctx context.Context, fn func(repo order.TxRepo) error) error {
	return r.pg.InTransaction(ctx, func(tx postgres.Executor) error {
		txRepo := &repo{db: tx, builder: r.pg.Builder, inventoryMaxAttempts: r.inventoryMaxAttempts}
		return fn(txRepo)
	})
}

type repo struct {
	db                   postgres.Executor
	builder              squirrel.StatementBuilderType
	inventoryMaxAttempts int
}

func (r *repo) Inventory() inventory.Ledger {
	return inventory_repo.NewLedger(r.db, r.inventoryMaxAttempts)
}

func (r *repo) GetOrders(ctx context.Context, query *order.OrdersQuery) ([]order.Order, error) {
	sql, args, err := r.buildOrdersQuery(query)
	if err != nil {
		return nil, fmt.Errorf("build orders query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	return ParseOrderRows(rows)
}

func (r *repo) CreateOrder(ctx context.Context, o order.Order) error {
	m, err := fromDomain(o)
	if err != nil {
		return err
	}

	query, args, err := r.builder.Insert("orders").
		Columns(
			"id", "payment_id", "customer_id", "vendor_id", "items", "subtotal", "shipping_fee", "shipping",
			"tracking_number", "payment_method", "payment_status", "status", "escrow_status",
			"commission_amount", "commission_status", "created_at", "updated_at",
		).
		Values(
			m.ID, m.PaymentID, m.CustomerID, m.VendorID, m.Items, m.Subtotal, m.ShippingFee, m.Shipping,
			m.TrackingNumber, m.PaymentMethod, m.PaymentStatus, m.Status, m.EscrowStatus,
			m.CommissionAmount, m.CommissionStatus, m.CreatedAt, m.UpdatedAt,
		).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrAlreadyExists
	}
	return nil
}

func (r *repo) buildOrdersQuery(q *order.OrdersQuery) (string, []interface{}, error) {
	query := r.builder.Select(Columns...).From("orders")

	if len(q.IDs) > 0 {
		query = query.Where(squirrel.Eq{"id": q.IDs})
	}

	if len(q.CustomerIDs) > 0 {
		query = query.Where(squirrel.Eq{"customer_id": q.CustomerIDs})
	}

	if len(q.VendorIDs) > 0 {
		query = query.Where(squirrel.Eq{"vendor_id": q.VendorIDs})
	}

	if len(q.PaymentIDs) > 0 {
		query = query.Where(squirrel.Eq{"payment_id": q.PaymentIDs})
	}

	if len(q.EscrowStatuses) > 0 {
		query = query.Where(squirrel.Eq{"escrow_status": q.EscrowStatuses})
	}

	if len(q.PaymentMethods) > 0 {
		query = query.Where(squirrel.Eq{"payment_method": q.PaymentMethods})
	}

	if len(q.CommissionStatuses) > 0 {
		query = query.Where(squirrel.Eq{"commission_status": q.CommissionStatuses})
	}

	if q.SortBy != nil && q.SortOrder != nil {
		query = query.OrderBy(fmt.Sprintf("%s %s", *q.SortBy, *q.SortOrder))
	} else {
		query = query.OrderBy("created_at DESC")
	}

	if q.Pagination != nil {
		offset := (q.Pagination.PageNumber - 1) * q.Pagination.PageSize
		query = query.Limit(uint64(q.Pagination.PageSize)).Offset(uint64(offset))
	}

	return query.ToSql()
}
