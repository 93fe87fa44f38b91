package payment_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/domain/payment"
	"marketplace/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var paymentColumns = []string{
	"id", "type", "status", "customer_id", "amount", "fee", "net_amount", "currency", "description",
	"intent_id", "charge_id", "idempotency_key", "details", "gateway_response", "failure_reason", "is_final",
	"orders_created", "order_ids", "order_creation_error",
	"created_at", "updated_at", "paid_at", "expires_at", "expired_at",
}

type PgPaymentRepo struct {
	pg *postgres.Postgres
	repo
}

var (
	_ payment.Repo                 = (*PgPaymentRepo)(nil)
	_ payment.MaterializationStore = (*PgPaymentRepo)(nil)
)

func NewPgPaymentRepo(pg *postgres.Postgres) *PgPaymentRepo {
	return &PgPaymentRepo{
		pg:   pg,
		repo: repo{db: pg.Pool, builder: pg.Builder},
	}
}

func (r *PgPaymentRepo) InTransaction(ctx context.Context, fn func(repo payment.TxRepo) error) error {
	return r.pg.InTransaction(ctx, func(tx postgres.Executor) error {
		return fn(&repo{db: tx, builder: r.pg.Builder})
	})
}

type repo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

func (r *repo) GetPayment(ctx context.Context, id string) (payment.Payment, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, false, id)
}

func (r *repo) GetPaymentForUpdate(ctx context.Context, id string) (payment.Payment, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, true, id)
}

func (r *repo) GetPaymentByIntentID(ctx context.Context, intentID string) (payment.Payment, error) {
	if intentID == "" {
		return payment.Payment{}, payment.ErrNotFound
	}
	return r.getOne(ctx, squirrel.Eq{"intent_id": intentID}, false, "")
}

func (r *repo) GetOrderRefund(ctx context.Context, originalPaymentID, orderID string) (payment.Payment, error) {
	where := squirrel.And{
		squirrel.Eq{"type": payment.TypeRefund, "original_payment_id": originalPaymentID},
		squirrel.NotEq{"status": payment.StatusFailed},
		squirrel.Expr("details->>'order_id' = ?", orderID),
	}
	return r.getOne(ctx, where, false, originalPaymentID)
}

// getOne loads a single payment. uuidArg, when set, must parse as a UUID;
// anything else cannot exist and is reported as not found.
func (r *repo) getOne(ctx context.Context, where squirrel.Sqlizer, forUpdate bool, uuidArg string) (payment.Payment, error) {
	if uuidArg != "" && uuid.Validate(uuidArg) != nil {
		return payment.Payment{}, payment.ErrNotFound
	}

	b := r.builder.Select(paymentColumns...).From("payments").Where(where)
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return payment.Payment{}, fmt.Errorf("build select payment query: %w", err)
	}

	p, err := parsePaymentRow(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return payment.Payment{}, payment.ErrNotFound
	}
	if err != nil {
		return payment.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (r *repo) CreatePayment(ctx context.Context, p payment.Payment) error {
	details, err := payment.MarshalDetails(p.Details)
	if err != nil {
		return fmt.Errorf("marshal details: %w", err)
	}

	var originalID *string
	if d, ok := p.Refund(); ok {
		originalID = &d.OriginalPaymentID
	}

	orderIDs := p.OrderIDs
	if orderIDs == nil {
		orderIDs = []string{}
	}

	query, args, err := r.builder.Insert("payments").
		Columns(
			"id", "type", "status", "customer_id", "amount", "fee", "net_amount", "currency", "description",
			"intent_id", "charge_id", "idempotency_key", "details", "original_payment_id", "gateway_response",
			"failure_reason", "is_final", "orders_created", "order_ids", "order_creation_error",
			"created_at", "updated_at", "paid_at", "expires_at", "expired_at",
		).
		Values(
			p.ID, p.Type, p.Status, p.CustomerID, p.Amount, p.Fee, p.NetAmount, p.Currency, p.Description,
			nullable(p.IntentID), nullable(p.ChargeID), p.IdempotencyKey, details, originalID, nullableJSON(p.GatewayResponse),
			nullable(p.FailureReason), p.IsFinal, p.OrdersCreated, orderIDs, nullable(p.OrderCreationError),
			p.CreatedAt, p.UpdatedAt, p.PaidAt, p.ExpiresAt, p.ExpiredAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert payment query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if postgres.IsPgErrorUniqueViolation(err) {
		return payment.ErrDuplicateKey
	}
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (r *repo) UpdateStatus(ctx context.Context, u payment.StatusUpdate) error {
	b := r.builder.Update("payments").
		Set("status", u.To).
		Set("is_final", u.IsFinal).
		Set("updated_at", u.UpdatedAt)

	if u.ChargeID != nil {
		b = b.Set("charge_id", *u.ChargeID)
	}
	if u.FailureReason != nil {
		b = b.Set("failure_reason", *u.FailureReason)
	}
	if len(u.GatewayResponse) > 0 {
		b = b.Set("gateway_response", []byte(u.GatewayResponse))
	}
	if u.Fee != nil {
		b = b.Set("fee", *u.Fee)
	}
	if u.NetAmount != nil {
		b = b.Set("net_amount", *u.NetAmount)
	}
	if u.PaidAt != nil {
		b = b.Set("paid_at", *u.PaidAt)
	}
	if u.ExpiredAt != nil {
		b = b.Set("expired_at", *u.ExpiredAt)
	}

	query, args, err := b.Where(squirrel.Eq{"id": u.ID, "status": u.From}).ToSql()
	if err != nil {
		return fmt.Errorf("build update status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payment.ErrStatusChanged
	}
	return nil
}

const sumRefundsQuery = `SELECT COALESCE(SUM(amount), 0) FROM payments
WHERE type = 'refund' AND original_payment_id = $1 AND status <> 'failed'`

func (r *repo) SumRefunds(ctx context.Context, originalPaymentID string) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, sumRefundsQuery, originalPaymentID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum refunds: %w", err)
	}
	return total, nil
}

const expirePaymentsQuery = `UPDATE payments
SET status = 'cancelled', failure_reason = 'expired', is_final = TRUE, expired_at = $1, updated_at = $1
WHERE status IN ('pending', 'awaiting_payment') AND expires_at < $1
RETURNING id, COALESCE(intent_id, '')`

func (r *repo) ExpirePayments(ctx context.Context, now time.Time) ([]payment.ExpiredPayment, error) {
	rows, err := r.db.Query(ctx, expirePaymentsQuery, now)
	if err != nil {
		return nil, fmt.Errorf("expire payments: %w", err)
	}
	defer rows.Close()

	var expired []payment.ExpiredPayment
	for rows.Next() {
		var e payment.ExpiredPayment
		if err := rows.Scan(&e.ID, &e.IntentID); err != nil {
			return nil, fmt.Errorf("scan expired payment: %w", err)
		}
		expired = append(expired, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("expire payments: %w", err)
	}
	return expired, nil
}

const releaseStaleLocksQuery = `UPDATE payments
SET order_creation_error = $2, updated_at = NOW()
WHERE orders_created = FALSE AND order_creation_error = 'in_progress' AND updated_at < $1`

func (r *repo) ReleaseStaleLocks(ctx context.Context, staleBefore time.Time, reason string) (int64, error) {
	tag, err := r.db.Exec(ctx, releaseStaleLocksQuery, staleBefore, reason)
	if err != nil {
		return 0, fmt.Errorf("release stale locks: %w", err)
	}
	return tag.RowsAffected(), nil
}

const acquireLockQuery = `UPDATE payments
SET order_creation_error = 'in_progress', updated_at = $2
WHERE id = $1 AND orders_created = FALSE
  AND (order_creation_error IS DISTINCT FROM 'in_progress' OR updated_at < $3)`

func (r *repo) AcquireMaterializationLock(ctx context.Context, id string, now, staleBefore time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, acquireLockQuery, id, now, staleBefore)
	if err != nil {
		return false, fmt.Errorf("acquire materialization lock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

const completeMaterializationQuery = `UPDATE payments
SET orders_created = TRUE, order_ids = $2, order_creation_error = NULL, updated_at = $3
WHERE id = $1 AND orders_created = FALSE`

func (r *repo) CompleteMaterialization(ctx context.Context, id string, orderIDs []string, now time.Time) error {
	tag, err := r.db.Exec(ctx, completeMaterializationQuery, id, orderIDs, now)
	if err != nil {
		return fmt.Errorf("complete materialization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payment.ErrAlreadyMaterialized
	}
	return nil
}

const releaseLockQuery = `UPDATE payments
SET order_creation_error = $2, updated_at = $3
WHERE id = $1 AND orders_created = FALSE AND order_creation_error = 'in_progress'`

func (r *repo) ReleaseMaterializationLock(ctx context.Context, id string, reason string, now time.Time) error {
	if _, err := r.db.Exec(ctx, releaseLockQuery, id, reason, now); err != nil {
		return fmt.Errorf("release materialization lock: %w", err)
	}
	return nil
}

func parsePaymentRow(row pgx.Row) (payment.Payment, error) {
	var (
		p                                              payment.Payment
		rawType, rawStatus                             string
		intentID, chargeID, failure, orderCreationErr *string
		details, gatewayResponse                       []byte
	)

	err := row.Scan(
		&p.ID, &rawType, &rawStatus, &p.CustomerID, &p.Amount, &p.Fee, &p.NetAmount, &p.Currency, &p.Description,
		&intentID, &chargeID, &p.IdempotencyKey, &details, &gatewayResponse, &failure, &p.IsFinal,
		&p.OrdersCreated, &p.OrderIDs, &orderCreationErr,
		&p.CreatedAt, &p.UpdatedAt, &p.PaidAt, &p.ExpiresAt, &p.ExpiredAt,
	)
	if err != nil {
		return payment.Payment{}, err
	}

	p.Type = payment.Type(rawType)
	p.Status, err = payment.NewStatus(rawStatus)
	if err != nil {
		return payment.Payment{}, fmt.Errorf("invalid status in database: %w", err)
	}
	p.Details, err = payment.UnmarshalDetails(p.Type, details)
	if err != nil {
		return payment.Payment{}, fmt.Errorf("decode details: %w", err)
	}

	p.IntentID = deref(intentID)
	p.ChargeID = deref(chargeID)
	p.FailureReason = deref(failure)
	p.OrderCreationError = deref(orderCreationErr)
	p.GatewayResponse = gatewayResponse
	return p, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableJSON(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
