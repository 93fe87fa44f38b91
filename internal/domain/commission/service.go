package commission

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"marketplace/internal/domain/order"
	"marketplace/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const bulkConcurrency = 4

type Service struct {
	repo Repo
	rate decimal.Decimal
	now  func() time.Time
}

func NewService(repo Repo, rate decimal.Decimal) *Service {
	return &Service{
		repo: repo,
		rate: rate,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Remit records that the vendor paid the platform commission on a
// cash-on-delivery order.
func (s *Service) Remit(ctx context.Context, vendorID, orderID, reference string) (Remittance, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return Remittance{}, ErrReference
	}

	var remittance Remittance
	err := s.repo.InTransaction(ctx, func(tx TxRepo) error {
		o, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if o.VendorID != vendorID {
			return order.ErrNotFound
		}
		if o.PaymentMethod != order.PaymentMethodCOD {
			return ErrNotCOD
		}
		if o.Commission.Status == order.CommissionRemitted {
			return ErrAlreadyRemitted
		}

		now := s.now()
		remittance = Remittance{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			VendorID:  vendorID,
			Amount:    Compute(o.Subtotal, s.rate),
			Reference: reference,
			CreatedAt: now,
		}
		if err := tx.CreateRemittance(ctx, remittance); err != nil {
			return fmt.Errorf("create remittance: %w", err)
		}
		if err := tx.MarkRemitted(ctx, o.ID, remittance.Amount, now); err != nil {
			return fmt.Errorf("mark order remitted: %w", err)
		}
		return nil
	})
	if err != nil {
		metrics.CommissionRemittances.WithLabelValues("failed").Inc()
		return Remittance{}, err
	}

	metrics.CommissionRemittances.WithLabelValues("remitted").Inc()
	slog.InfoContext(ctx, "Commission remitted",
		"vendor_id", vendorID,
		"order_id", orderID,
		"amount", remittance.Amount)
	return remittance, nil
}

// RemitBulk remits each order independently. One failure never blocks the
// others; duplicates in orderIDs are processed once.
func (s *Service) RemitBulk(ctx context.Context, vendorID string, orderIDs []string, reference string) (BulkResult, error) {
	ids := dedup(orderIDs)
	if len(ids) == 0 {
		return BulkResult{}, ErrNoOrders
	}

	var (
		mu     sync.Mutex
		result = BulkResult{Succeeded: []Remittance{}, Failed: []BulkFailure{}}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			r, err := s.Remit(gctx, vendorID, id, reference)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, BulkFailure{OrderID: id, Error: err.Error()})
				return nil
			}
			result.Succeeded = append(result.Succeeded, r)
			return nil
		})
	}
	_ = g.Wait()

	// keep the response in request order
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	slices.SortFunc(result.Succeeded, func(a, b Remittance) int { return pos[a.OrderID] - pos[b.OrderID] })
	slices.SortFunc(result.Failed, func(a, b BulkFailure) int { return pos[a.OrderID] - pos[b.OrderID] })

	slog.InfoContext(ctx, "Bulk commission remittance finished",
		"vendor_id", vendorID,
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed))
	return result, nil
}

// Quote totals the commission the vendor still owes on COD orders.
func (s *Service) Quote(ctx context.Context, vendorID string) (Quote, error) {
	orders, err := s.repo.GetUnremittedOrders(ctx, vendorID)
	if err != nil {
		return Quote{}, fmt.Errorf("get unremitted orders: %w", err)
	}

	q := Quote{VendorID: vendorID, Orders: len(orders)}
	for _, o := range orders {
		q.Subtotal += o.Subtotal
		q.Commission += Compute(o.Subtotal, s.rate)
	}
	return q, nil
}

func dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
