package commission_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/domain/commission"
	"marketplace/internal/domain/order"
	order_repo "marketplace/internal/repo/order"
	"marketplace/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PgCommissionRepo struct {
	pg *postgres.Postgres
	repo
}

func NewPgCommissionRepo(pg *postgres.Postgres) commission.Repo {
	return &PgCommissionRepo{
		pg:   pg,
		repo: repo{db: pg.Pool, builder: pg.Builder},
	}
}

func (r *PgCommissionRepo) InTransaction(ctx context.Context, fn func(repo commission.TxRepo) error) error {
	return r.pg.InTransaction(ctx, func(tx postgres.Executor) error {
		return fn(&repo{db: tx, builder: r.pg.Builder})
	})
}

type repo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

func (r *repo) GetOrderForUpdate(ctx context.Context, orderID string) (order.Order, error) {
	if uuid.Validate(orderID) != nil {
		return order.Order{}, order.ErrNotFound
	}

	query, args, err := r.builder.Select(order_repo.Columns...).
		From("orders").
		Where(squirrel.Eq{"id": orderID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("build select order query: %w", err)
	}

	o, err := order_repo.ParseOrderRow(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return order.Order{}, order.ErrNotFound
	}
	if err != nil {
		return order.Order{}, fmt.Errorf("get order for update: %w", err)
	}
	return o, nil
}

func (r *repo) CreateRemittance(ctx context.Context, rem commission.Remittance) error {
	query, args, err := r.builder.Insert("commission_remittances").
		Columns("id", "order_id", "vendor_id", "amount", "reference", "created_at").
		Values(rem.ID, rem.OrderID, rem.VendorID, rem.Amount, rem.Reference, rem.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if postgres.IsPgErrorUniqueViolation(err) {
		return commission.ErrAlreadyRemitted
	}
	if err != nil {
		return fmt.Errorf("create remittance: %w", err)
	}
	return nil
}

func (r *repo) MarkRemitted(ctx context.Context, orderID string, amount int64, at time.Time) error {
	query, args, err := r.builder.Update("orders").
		Set("commission_amount", amount).
		Set("commission_status", order.CommissionRemitted).
		Set("commission_remitted_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": orderID, "commission_status": order.CommissionUnpaid}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark remitted query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark remitted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return commission.ErrAlreadyRemitted
	}
	return nil
}

func (r *repo) GetUnremittedOrders(ctx context.Context, vendorID string) ([]order.Order, error) {
	query, args, err := r.builder.Select(order_repo.Columns...).
		From("orders").
		Where(squirrel.Eq{
			"vendor_id":         vendorID,
			"payment_method":    order.PaymentMethodCOD,
			"commission_status": order.CommissionUnpaid,
		}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build unremitted orders query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query unremitted orders: %w", err)
	}

	return order_repo.ParseOrderRows(rows)
}
