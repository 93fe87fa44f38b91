package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/domain/cache"
	"marketplace/internal/domain/inventory"
	"marketplace/internal/domain/payment"
	"marketplace/pkg/metrics"
)

// Materializer turns a succeeded checkout payment into one order per vendor.
// The in_progress sentinel on the payment is the only mutual exclusion between
// the webhook, the status poll and manual recovery.
type Materializer struct {
	payments   payment.MaterializationStore
	orders     Repo
	revenue    RevenueRecorder
	cache      cache.Invalidator
	tracking   TrackingGenerator
	staleAfter time.Duration
	now        func() time.Time
}

func NewMaterializer(
	payments payment.MaterializationStore,
	orders Repo,
	revenue RevenueRecorder,
	invalidator cache.Invalidator,
	tracking TrackingGenerator,
	staleAfter time.Duration,
) *Materializer {
	if invalidator == nil {
		invalidator = cache.Noop{}
	}
	return &Materializer{
		payments:   payments,
		orders:     orders,
		revenue:    revenue,
		cache:      invalidator,
		tracking:   tracking,
		staleAfter: staleAfter,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (m *Materializer) WithClock(now func() time.Time) *Materializer {
	m.now = now
	return m
}

func (m *Materializer) Materialize(ctx context.Context, paymentID string) (res payment.MaterializeResult, err error) {
	p, err := m.payments.GetPayment(ctx, paymentID)
	if err != nil {
		return payment.MaterializeResult{}, fmt.Errorf("get payment: %w", err)
	}
	if p.OrdersCreated {
		metrics.Materializations.WithLabelValues("already_materialized").Inc()
		return payment.MaterializeResult{OrderIDs: p.OrderIDs, AlreadyMaterialized: true}, nil
	}

	now := m.now()
	acquired, err := m.payments.AcquireMaterializationLock(ctx, p.ID, now, now.Add(-m.staleAfter))
	if err != nil {
		return payment.MaterializeResult{}, fmt.Errorf("acquire materialization lock: %w", err)
	}
	if !acquired {
		return m.busy(ctx, p.ID)
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("materialization panic: %v", r)
		}
		if err != nil {
			metrics.Materializations.WithLabelValues("failed").Inc()
			m.releaseLock(ctx, p.ID, err)
		}
		metrics.MaterializationDuration.Observe(time.Since(start).Seconds())
	}()

	orders, err := m.createOrders(ctx, p)
	if err != nil {
		return payment.MaterializeResult{}, err
	}

	orderIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}
	if err := m.payments.CompleteMaterialization(ctx, p.ID, orderIDs, m.now()); err != nil {
		return payment.MaterializeResult{}, fmt.Errorf("complete materialization: %w", err)
	}

	metrics.Materializations.WithLabelValues("created").Inc()
	slog.InfoContext(ctx, "Orders materialized", "payment_id", p.ID, "orders", len(orderIDs))

	m.invalidate(ctx, p, orders)
	return payment.MaterializeResult{OrderIDs: orderIDs}, nil
}

func (m *Materializer) busy(ctx context.Context, paymentID string) (payment.MaterializeResult, error) {
	metrics.Materializations.WithLabelValues("lock_busy").Inc()

	current, err := m.payments.GetPayment(ctx, paymentID)
	if err != nil {
		return payment.MaterializeResult{}, fmt.Errorf("reload payment: %w", err)
	}

	slog.InfoContext(ctx, "Materialization lock not acquired",
		"payment_id", paymentID,
		"orders_created", current.OrdersCreated)

	return payment.MaterializeResult{
		OrderIDs:            current.OrderIDs,
		AlreadyMaterialized: current.OrdersCreated,
		LockBusy:            !current.OrdersCreated,
	}, nil
}

// createOrders processes each vendor group in its own transaction. A group
// that fails is logged and skipped; only when every group fails is an error
// returned.
func (m *Materializer) createOrders(ctx context.Context, p payment.Payment) ([]Order, error) {
	if !p.ReadyForOrders() {
		return nil, fmt.Errorf("%w: %s %s", ErrNotMaterializable, p.Type, p.Status)
	}
	details, ok := p.Checkout()
	if !ok || len(details.Snapshot.Items) == 0 {
		return nil, ErrEmptySnapshot
	}

	groups, dropped := GroupByVendor(details.Snapshot.Items)
	if dropped > 0 {
		slog.WarnContext(ctx, "Dropping checkout items without vendor", "payment_id", p.ID, "dropped", dropped)
	}
	if len(groups) == 0 {
		return nil, ErrNoVendorGroups
	}

	var (
		orders []Order
		errs   []error
	)
	for i, g := range groups {
		o := m.buildOrder(p, details.Snapshot, g, i == 0)

		created, err := m.createGroup(ctx, o)
		if err != nil {
			metrics.VendorGroups.WithLabelValues("failed").Inc()
			slog.ErrorContext(ctx, "Vendor order creation failed",
				"payment_id", p.ID,
				"vendor_id", g.VendorID,
				slog.Any("error", err))
			errs = append(errs, fmt.Errorf("vendor %s: %w", g.VendorID, err))
			continue
		}

		orders = append(orders, o)
		if !created {
			metrics.VendorGroups.WithLabelValues("existing").Inc()
			continue
		}
		metrics.VendorGroups.WithLabelValues("created").Inc()
		m.recordRevenue(ctx, o)
	}

	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoOrdersCreated, errors.Join(errs...))
	}
	return orders, nil
}

// createGroup inserts the order and reserves its stock atomically. It reports
// false when an earlier attempt already committed this vendor's order.
func (m *Materializer) createGroup(ctx context.Context, o Order) (bool, error) {
	err := m.orders.InTransaction(ctx, func(tx TxRepo) error {
		if err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}

		ledger := tx.Inventory()
		for _, item := range o.Items {
			line := inventory.Line{ProductID: item.ProductID, OptionID: item.OptionID, Quantity: item.Quantity}
			if err := ledger.Reserve(ctx, line); err != nil {
				return fmt.Errorf("reserve %s: %w", line, err)
			}
		}
		return nil
	})
	if errors.Is(err, ErrAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *Materializer) buildOrder(p payment.Payment, snapshot payment.CheckoutSnapshot, g VendorGroup, first bool) Order {
	now := m.now()

	var shippingFee int64
	if first {
		shippingFee = snapshot.ShippingFee
	}

	method, paymentStatus := PaymentMethodOnline, PaymentStatusPaid
	if p.IsCashOnDelivery() {
		method, paymentStatus = PaymentMethodCOD, PaymentStatusPending
	}

	return Order{
		ID:          NewOrderID(p.ID, g.VendorID),
		PaymentID:   p.ID,
		CustomerID:  p.CustomerID,
		VendorID:    g.VendorID,
		Items:       g.Items,
		Subtotal:    Subtotal(g.Items),
		ShippingFee: shippingFee,
		Shipping: Shipping{
			CustomerName:  snapshot.CustomerName,
			CustomerPhone: snapshot.CustomerPhone,
			Method:        snapshot.ShippingMethod,
			Address:       snapshot.ShippingAddress,
		},
		TrackingNumber: m.tracking.Next(),
		PaymentMethod:  method,
		PaymentStatus:  paymentStatus,
		Status:         StatusPaid,
		EscrowStatus:   EscrowHeld,
		Commission:     Commission{Status: CommissionUnpaid},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (m *Materializer) recordRevenue(ctx context.Context, o Order) {
	if m.revenue == nil {
		return
	}
	if err := m.revenue.AddRevenue(ctx, o.VendorID, o.Subtotal, o.CreatedAt); err != nil {
		slog.WarnContext(ctx, "Vendor revenue update failed",
			"order_id", o.ID,
			"vendor_id", o.VendorID,
			slog.Any("error", err))
	}
}

func (m *Materializer) invalidate(ctx context.Context, p payment.Payment, orders []Order) {
	tags := []string{cache.UserTag(p.CustomerID)}
	for _, o := range orders {
		tags = append(tags, cache.VendorTag(o.VendorID), cache.OrderTag(o.ID))
		for _, item := range o.Items {
			tags = append(tags, cache.ProductTag(item.ProductID))
		}
	}

	if err := m.cache.InvalidateTags(ctx, cache.Dedup(tags)...); err != nil {
		slog.WarnContext(ctx, "Cache invalidation failed", "payment_id", p.ID, slog.Any("error", err))
	}
}

// releaseLock writes the failure over the sentinel so any trigger can retry.
func (m *Materializer) releaseLock(ctx context.Context, paymentID string, cause error) {
	ctx = context.WithoutCancel(ctx)
	if err := m.payments.ReleaseMaterializationLock(ctx, paymentID, cause.Error(), m.now()); err != nil {
		slog.ErrorContext(ctx, "Failed to release materialization lock",
			"payment_id", paymentID,
			slog.Any("error", err))
	}
}
