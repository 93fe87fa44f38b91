package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marketplace/pkg/apperror"
	"marketplace/pkg/metrics"
	"marketplace/pkg/pointers"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Config struct {
	Currency        string
	QRExpiry        time.Duration
	DefaultExpiry   time.Duration
	StaleLockWindow time.Duration
	FeeRate         decimal.Decimal
}

type Service struct {
	repo         Repo
	gateway      Gateway
	materializer Materializer
	cfg          Config
	now          func() time.Time
}

func NewService(repo Repo, gateway Gateway, materializer Materializer, cfg Config) *Service {
	return &Service{
		repo:         repo,
		gateway:      gateway,
		materializer: materializer,
		cfg:          cfg,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateCheckoutRequest struct {
	CustomerID  string
	Description string
	Flow        Flow
	Snapshot    CheckoutSnapshot
}

func (s *Service) CreateCheckout(ctx context.Context, req CreateCheckoutRequest) (Payment, error) {
	now := s.now()
	expiresAt := now.Add(ExpiryFor(req.Flow, s.cfg.QRExpiry, s.cfg.DefaultExpiry))

	p, err := NewCheckoutPayment(req.CustomerID, s.cfg.Currency, req.Description,
		CheckoutDetails{Flow: req.Flow, Snapshot: req.Snapshot}, expiresAt, now)
	if err != nil {
		return Payment{}, err
	}
	if p.Description == "" {
		p.Description = fmt.Sprintf("Marketplace order %s", p.ID)
	}
	if req.Flow == FlowCOD {
		return s.placeCashOnDelivery(ctx, p)
	}

	intent, err := s.gateway.CreateIntent(ctx, CreateIntentRequest{
		Amount:         p.Amount,
		Currency:       p.Currency,
		Description:    p.Description,
		Metadata:       checkoutMetadata(p, req.Snapshot),
		IdempotencyKey: p.IdempotencyKey,
		PaymentMethods: paymentMethodsFor(req.Flow),
	})
	if err != nil {
		return Payment{}, fmt.Errorf("create payment intent: %w", err)
	}

	p.IntentID = intent.ID
	p.GatewayResponse = intent.Raw

	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return Payment{}, fmt.Errorf("store payment: %w", err)
	}

	metrics.PaymentTransitions.WithLabelValues(string(p.Type), string(p.Status)).Inc()
	slog.InfoContext(ctx, "Checkout payment created",
		"payment_id", p.ID,
		"intent_id", p.IntentID,
		"amount", p.Amount,
		"vendors", len(req.Snapshot.VendorIDs()))

	return p, nil
}

// placeCashOnDelivery stores a checkout the buyer settles with the vendor on
// delivery and creates its orders right away. It never expires and has no
// gateway intent. A failed materialization is left to the status poll and
// the admin recovery, like an online payment.
func (s *Service) placeCashOnDelivery(ctx context.Context, p Payment) (Payment, error) {
	p.Status = StatusPending
	p.ExpiresAt = nil

	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return Payment{}, fmt.Errorf("store payment: %w", err)
	}

	metrics.PaymentTransitions.WithLabelValues(string(p.Type), string(p.Status)).Inc()
	slog.InfoContext(ctx, "Cash on delivery checkout placed",
		"payment_id", p.ID,
		"amount", p.Amount)

	return s.materializeAndReload(ctx, p), nil
}

type AttachResult struct {
	Payment       Payment
	NextActionURL string
}

func (s *Service) AttachMethod(ctx context.Context, paymentID string, req AttachRequest) (AttachResult, error) {
	if req.MethodID == "" {
		return AttachResult{}, apperror.Validation("payment method id is required")
	}

	p, err := getPayment(ctx, s.repo, paymentID)
	if err != nil {
		return AttachResult{}, err
	}
	if p.Type != TypeCheckout && p.Type != TypeCashIn {
		return AttachResult{}, ErrUnsupportedType
	}
	if p.Status != StatusAwaitingPayment {
		return AttachResult{}, fmt.Errorf("%w: status is %s", ErrInvalidStatus, p.Status)
	}
	if p.IsExpired(s.now()) {
		return AttachResult{}, ErrExpired
	}

	intent, err := s.gateway.AttachMethod(ctx, p.IntentID, req)
	if err != nil {
		return AttachResult{}, fmt.Errorf("attach payment method: %w", err)
	}

	p, err = s.applyIntent(ctx, p, intent)
	if err != nil {
		return AttachResult{}, err
	}

	if p.NeedsMaterialization() {
		p = s.materializeAndReload(ctx, p)
	}

	return AttachResult{Payment: p, NextActionURL: intent.NextActionURL}, nil
}

// GetStatus is the buyer-facing poll. ref is either the internal payment ID
// or the gateway intent ID. A poll that observes success runs the same
// materialization fallback as the webhook. A non-empty ownerID limits the
// poll to that customer's payments; anything else reads as not found.
func (s *Service) GetStatus(ctx context.Context, ref, ownerID string) (StatusView, error) {
	p, err := s.findByRef(ctx, ref)
	if err != nil {
		return StatusView{}, err
	}
	if ownerID != "" && p.CustomerID != ownerID {
		return StatusView{}, ErrNotFound
	}

	if !p.Status.IsFinal() && p.IntentID != "" {
		intent, err := s.gateway.Retrieve(ctx, p.IntentID)
		if err != nil {
			slog.WarnContext(ctx, "Gateway status check failed, returning stored status",
				"payment_id", p.ID,
				slog.Any("error", err))
		} else {
			p, err = s.applyIntent(ctx, p, intent)
			if err != nil {
				return StatusView{}, err
			}
		}
	}

	if p.NeedsMaterialization() {
		p = s.materializeAndReload(ctx, p)
	}

	return NewStatusView(p), nil
}

// HandleWebhookEvent applies a verified gateway event. Materialization errors
// are returned so asynchronous consumers can retry; the HTTP webhook logs them.
func (s *Service) HandleWebhookEvent(ctx context.Context, ev WebhookEvent) error {
	var target Status
	switch ev.Type {
	case EventPaymentPaid:
		target = StatusSucceeded
	case EventPaymentFailed:
		target = StatusFailed
	default:
		slog.DebugContext(ctx, "Ignoring webhook event", "event_id", ev.ID, "type", ev.Type)
		return nil
	}

	p, err := s.repo.GetPaymentByIntentID(ctx, ev.IntentID)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrUnknownWebhookIntent, ev.IntentID)
	}
	if err != nil {
		return fmt.Errorf("load payment by intent: %w", err)
	}

	p, err = s.applyIntent(ctx, p, Intent{
		ID:        ev.IntentID,
		Status:    target,
		ChargeID:  ev.ChargeID,
		Fee:       ev.Fee,
		LastError: ev.FailureReason,
		Raw:       ev.Raw,
	})
	if err != nil {
		return err
	}

	if p.NeedsMaterialization() {
		if _, err := s.materializer.Materialize(ctx, p.ID); err != nil {
			return fmt.Errorf("materialize orders: %w", err)
		}
	}
	return nil
}

// Cancel only changes local bookkeeping; the gateway is asked to cancel its
// intent but a failure there does not undo the cancellation.
func (s *Service) Cancel(ctx context.Context, paymentID, actorID string) (Payment, error) {
	p, err := getPayment(ctx, s.repo, paymentID)
	if err != nil {
		return Payment{}, err
	}
	if !p.CanBeCancelled() {
		return Payment{}, fmt.Errorf("%w: status is %s", ErrNotCancellable, p.Status)
	}

	now := s.now()
	update := StatusUpdate{
		ID:            p.ID,
		From:          CancellableStatuses,
		To:            StatusCancelled,
		FailureReason: pointers.Ptr("cancelled by " + actorID),
		IsFinal:       true,
		UpdatedAt:     now,
	}
	if err := s.repo.UpdateStatus(ctx, update); err != nil {
		if errors.Is(err, ErrStatusChanged) {
			return Payment{}, ErrNotCancellable
		}
		return Payment{}, fmt.Errorf("cancel payment: %w", err)
	}
	p = applyUpdate(p, update)
	metrics.PaymentTransitions.WithLabelValues(string(p.Type), string(p.Status)).Inc()

	if p.IntentID != "" {
		if _, err := s.gateway.CancelIntent(ctx, p.IntentID); err != nil {
			slog.WarnContext(ctx, "Gateway intent cancellation failed",
				"payment_id", p.ID,
				"intent_id", p.IntentID,
				slog.Any("error", err))
		}
	}

	slog.InfoContext(ctx, "Payment cancelled", "payment_id", p.ID, "actor_id", actorID)
	return p, nil
}

// RecoverMaterialization is the administrator's manual trigger.
func (s *Service) RecoverMaterialization(ctx context.Context, paymentID string) ([]string, error) {
	p, err := getPayment(ctx, s.repo, paymentID)
	if err != nil {
		return nil, err
	}
	if p.OrdersCreated {
		return nil, ErrAlreadyMaterialized
	}
	if p.Type != TypeCheckout {
		return nil, ErrUnsupportedType
	}
	if !p.ReadyForOrders() {
		return nil, fmt.Errorf("%w: status is %s", ErrNotSucceeded, p.Status)
	}

	res, err := s.materializer.Materialize(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("materialize orders: %w", err)
	}
	if res.LockBusy {
		return nil, ErrMaterializationBusy
	}

	slog.InfoContext(ctx, "Order materialization recovered", "payment_id", p.ID, "orders", len(res.OrderIDs))
	return res.OrderIDs, nil
}

func (s *Service) GetPayment(ctx context.Context, id string) (Payment, error) {
	return getPayment(ctx, s.repo, id)
}

func (s *Service) findByRef(ctx context.Context, ref string) (Payment, error) {
	if ref == "" {
		return Payment{}, apperror.Validation("payment reference is required")
	}
	if _, err := uuid.Parse(ref); err == nil {
		return getPayment(ctx, s.repo, ref)
	}

	p, err := s.repo.GetPaymentByIntentID(ctx, ref)
	if err != nil {
		return Payment{}, fmt.Errorf("get payment by intent: %w", err)
	}
	return p, nil
}

func getPayment(ctx context.Context, repo TxRepo, id string) (Payment, error) {
	p, err := repo.GetPayment(ctx, id)
	if err != nil {
		return Payment{}, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// applyIntent moves p to the status the gateway reports when the state
// machine allows it. Reports that would move backwards are ignored, except
// a capture on a payment already closed without success.
func (s *Service) applyIntent(ctx context.Context, p Payment, intent Intent) (Payment, error) {
	target := intent.Status
	if target == StatusSucceeded && (p.Status == StatusCancelled || p.Status == StatusFailed) {
		return p, s.recordLateCapture(ctx, p, intent)
	}
	if target == "" || target == p.Status || !p.Status.CanBeUpdatedTo(target) {
		return p, nil
	}

	now := s.now()
	update := StatusUpdate{
		ID:              p.ID,
		From:            []Status{p.Status},
		To:              target,
		GatewayResponse: intent.Raw,
		UpdatedAt:       now,
	}

	switch target {
	case StatusSucceeded:
		fee := intent.Fee
		if fee == 0 {
			fee = s.fee(p.Amount)
		}
		update.Fee = pointers.Ptr(fee)
		update.NetAmount = pointers.Ptr(p.Amount - fee)
		update.PaidAt = pointers.Ptr(now)
		update.IsFinal = true
		if intent.ChargeID != "" {
			update.ChargeID = pointers.Ptr(intent.ChargeID)
		}
	case StatusFailed:
		reason := intent.LastError
		if reason == "" {
			reason = "payment failed"
		}
		update.FailureReason = pointers.Ptr(reason)
		update.IsFinal = true
	case StatusCancelled:
		update.IsFinal = true
	}

	if err := s.repo.UpdateStatus(ctx, update); err != nil {
		if errors.Is(err, ErrStatusChanged) {
			// another trigger moved the payment first; its state wins
			return getPayment(ctx, s.repo, p.ID)
		}
		return Payment{}, fmt.Errorf("update payment status: %w", err)
	}

	metrics.PaymentTransitions.WithLabelValues(string(p.Type), string(target)).Inc()
	slog.InfoContext(ctx, "Payment status updated",
		"payment_id", p.ID,
		"from", p.Status,
		"to", target)

	return applyUpdate(p, update), nil
}

// recordLateCapture stores the gateway's evidence on a closed payment that
// was charged anyway. The status stays final; the charge is refunded by an
// operator.
func (s *Service) recordLateCapture(ctx context.Context, p Payment, intent Intent) error {
	reason := fmt.Sprintf("captured after %s: charge %s needs manual refund", p.Status, intent.ChargeID)
	update := StatusUpdate{
		ID:              p.ID,
		From:            []Status{p.Status},
		To:              p.Status,
		FailureReason:   pointers.Ptr(reason),
		GatewayResponse: intent.Raw,
		IsFinal:         true,
		UpdatedAt:       s.now(),
	}
	if intent.ChargeID != "" {
		update.ChargeID = pointers.Ptr(intent.ChargeID)
	}

	if err := s.repo.UpdateStatus(ctx, update); err != nil {
		return fmt.Errorf("record late capture: %w", err)
	}

	slog.ErrorContext(ctx, "Payment captured after it was closed",
		"payment_id", p.ID,
		"status", p.Status,
		"intent_id", intent.ID,
		"charge_id", intent.ChargeID,
		"amount", p.Amount)
	return fmt.Errorf("%w: %s", ErrCapturedAfterClose, p.ID)
}

func (s *Service) materializeAndReload(ctx context.Context, p Payment) Payment {
	if _, err := s.materializer.Materialize(ctx, p.ID); err != nil {
		slog.ErrorContext(ctx, "Order materialization failed",
			"payment_id", p.ID,
			slog.Any("error", err))
	}

	reloaded, err := s.repo.GetPayment(ctx, p.ID)
	if err != nil {
		slog.WarnContext(ctx, "Reload after materialization failed", "payment_id", p.ID, slog.Any("error", err))
		return p
	}
	return reloaded
}

func (s *Service) fee(amount int64) int64 {
	return decimal.NewFromInt(amount).Mul(s.cfg.FeeRate).Round(0).IntPart()
}

func applyUpdate(p Payment, u StatusUpdate) Payment {
	p.Status = u.To
	p.UpdatedAt = u.UpdatedAt
	if u.IsFinal {
		p.IsFinal = true
	}
	p.ChargeID = pointers.ValueOr(u.ChargeID, p.ChargeID)
	p.FailureReason = pointers.ValueOr(u.FailureReason, p.FailureReason)
	p.Fee = pointers.ValueOr(u.Fee, p.Fee)
	p.NetAmount = pointers.ValueOr(u.NetAmount, p.NetAmount)
	if u.PaidAt != nil {
		p.PaidAt = u.PaidAt
	}
	if u.ExpiredAt != nil {
		p.ExpiredAt = u.ExpiredAt
	}
	if len(u.GatewayResponse) > 0 {
		p.GatewayResponse = u.GatewayResponse
	}
	return p
}

func checkoutMetadata(p Payment, snapshot CheckoutSnapshot) map[string]any {
	vendors := make(map[string]any)
	for i, id := range snapshot.VendorIDs() {
		vendors[fmt.Sprint(i)] = id
	}
	return map[string]any{
		"payment_id":  p.ID,
		"item_count":  len(snapshot.Items),
		"customer":    map[string]any{"id": p.CustomerID, "name": snapshot.CustomerName},
		"shipping":    map[string]any{"method": snapshot.ShippingMethod, "city": snapshot.ShippingAddress.City},
		"vendors":     vendors,
		"captured_at": snapshot.CapturedAt.Format(time.RFC3339),
	}
}

func paymentMethodsFor(flow Flow) []string {
	switch flow {
	case FlowQR:
		return []string{"qrph"}
	case FlowEWallet:
		return []string{"gcash", "paymaya"}
	default:
		return []string{"card"}
	}
}
