package escrow_repo

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/domain/escrow"
	"marketplace/internal/domain/order"
	order_repo "marketplace/internal/repo/order"
	vendor_repo "marketplace/internal/repo/vendor"
	"marketplace/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	defaultEventLimit = 10
	maxEventLimit     = 1000
)

type PgEscrowRepo struct {
	pg *postgres.Postgres
	repo
}

func NewPgEscrowRepo(pg *postgres.Postgres) escrow.Repo {
	return &PgEscrowRepo{
		pg:   pg,
		repo: repo{db: pg.Pool, builder: pg.Builder},
	}
}

func (r *PgEscrowRepo) InTransaction(ctx context.Context, fn func(repo escrow.TxRepo) error) error {
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

func (r *repo) UpdateEscrow(ctx context.Context, t escrow.Transition) error {
	query, args, err := r.builder.Update("orders").
		Set("escrow_status", t.To).
		Set("hold_reason", t.Escrow.HoldReason).
		Set("refund_requested_by", t.Escrow.RefundRequestedBy).
		Set("refund_reason", t.Escrow.RefundReason).
		Set("refund_amount", t.Escrow.RefundAmount).
		Set("refund_payment_id", t.Escrow.RefundPaymentID).
		Set("released_at", t.Escrow.ReleasedAt).
		Set("refunded_at", t.Escrow.RefundedAt).
		Set("updated_at", t.UpdatedAt).
		Where(squirrel.Eq{"id": t.OrderID, "escrow_status": t.From}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update escrow query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update escrow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return escrow.ErrStatusChanged
	}
	return nil
}

func (r *repo) CreditVendorBalance(ctx context.Context, vendorID string, amount int64, at time.Time) error {
	return vendor_repo.CreditBalance(ctx, r.db, vendorID, amount, at)
}

func (r *repo) CreateEvent(ctx context.Context, event escrow.NewEvent) (escrow.Event, error) {
	id := uuid.New().String()

	var data []byte
	if len(event.Data) > 0 {
		data = event.Data
	}

	query, args, err := r.builder.Insert("escrow_events").
		Columns("id", "order_id", "kind", "actor_id", "from_status", "to_status", "reason", "data", "created_at").
		Values(id, event.OrderID, event.Kind, event.ActorID, event.From, event.To, event.Reason, data, event.CreatedAt).
		ToSql()
	if err != nil {
		return escrow.Event{}, fmt.Errorf("build insert query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return escrow.Event{}, fmt.Errorf("create escrow event: %w", err)
	}

	return escrow.Event{EventID: id, NewEvent: event}, nil
}

func (r *repo) GetEvents(ctx context.Context, query escrow.EventQuery) (escrow.EventPage, error) {
	if query.Limit <= 0 {
		query.Limit = defaultEventLimit
	}
	if query.Limit > maxEventLimit {
		query.Limit = maxEventLimit
	}

	sqlQuery, args, err := r.buildEventPageQuery(query)
	if err != nil {
		return escrow.EventPage{}, err
	}

	rows, err := r.db.Query(ctx, sqlQuery, args...)
	if err != nil {
		return escrow.EventPage{}, fmt.Errorf("query escrow events: %w", err)
	}
	defer rows.Close()

	items, err := parseEventRows(rows)
	if err != nil {
		return escrow.EventPage{}, fmt.Errorf("parse escrow events: %w", err)
	}

	hasMore := len(items) > query.Limit
	if hasMore {
		items = items[:query.Limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		nextCursor = encodeEventCursor(eventCursor{EventID: last.EventID, CreatedAt: last.CreatedAt})
	}

	if items == nil {
		items = []escrow.Event{}
	}

	return escrow.EventPage{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

type eventCursor struct {
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

func encodeEventCursor(c eventCursor) string {
	b, _ := json.Marshal(c)
	return base64.StdEncoding.EncodeToString(b)
}

func decodeEventCursor(s string) (eventCursor, error) {
	var c eventCursor
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, err
	}
	if c.EventID == "" || c.CreatedAt.IsZero() {
		return c, errors.New("incomplete cursor")
	}
	return c, nil
}

// buildEventPageQuery selects one row past the limit so the caller can tell
// whether another page exists. Rows are ordered by (created_at, id).
func (r *repo) buildEventPageQuery(q escrow.EventQuery) (string, []interface{}, error) {
	b := r.builder.Select("id", "order_id", "kind", "actor_id", "from_status", "to_status", "reason", "data", "created_at").
		From("escrow_events")

	if len(q.OrderIDs) > 0 {
		b = b.Where(squirrel.Eq{"order_id": q.OrderIDs})
	}

	if len(q.Kinds) > 0 {
		b = b.Where(squirrel.Eq{"kind": q.Kinds})
	}

	if len(q.ActorIDs) > 0 {
		b = b.Where(squirrel.Eq{"actor_id": q.ActorIDs})
	}

	if q.TimeFrom != nil {
		b = b.Where("created_at >= ?", q.TimeFrom.UTC())
	}

	if q.TimeTo != nil {
		b = b.Where("created_at < ?", q.TimeTo.UTC())
	}

	if q.Cursor != "" {
		cursor, err := decodeEventCursor(q.Cursor)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %s", escrow.ErrInvalidCursor, err.Error())
		}

		if q.SortAsc {
			b = b.Where("(created_at, id) > (?, ?)", cursor.CreatedAt.UTC(), cursor.EventID)
		} else {
			b = b.Where("(created_at, id) < (?, ?)", cursor.CreatedAt.UTC(), cursor.EventID)
		}
	}

	if q.SortAsc {
		b = b.OrderBy("created_at ASC", "id ASC")
	} else {
		b = b.OrderBy("created_at DESC", "id DESC")
	}

	b = b.Limit(uint64(q.Limit + 1))

	sql, args, err := b.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build escrow event query: %w", err)
	}
	return sql, args, nil
}

func parseEventRows(rows pgx.Rows) ([]escrow.Event, error) {
	var events []escrow.Event
	for rows.Next() {
		var (
			e                       escrow.Event
			rawKind, rawFrom, rawTo string
			data                    []byte
		)
		err := rows.Scan(&e.EventID, &e.OrderID, &rawKind, &e.ActorID, &rawFrom, &rawTo, &e.Reason, &data, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan escrow event row: %w", err)
		}

		e.Kind = escrow.EventKind(rawKind)
		e.From = order.EscrowStatus(rawFrom)
		e.To = order.EscrowStatus(rawTo)
		if len(data) > 0 {
			e.Data = json.RawMessage(data)
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate escrow event rows: %w", err)
	}

	return events, nil
}
