package payment

import (
	"context"
	"encoding/json"
	"time"
)

//go:generate mockgen -source gateway.go -destination mock_gateway.go -package payment

// Gateway is the external payment processor as seen by the payment record.
// Implementations map gateway statuses onto Status before returning.
type Gateway interface {
	CreateIntent(ctx context.Context, req CreateIntentRequest) (Intent, error)
	AttachMethod(ctx context.Context, intentID string, req AttachRequest) (Intent, error)
	Retrieve(ctx context.Context, intentID string) (Intent, error)
	Refund(ctx context.Context, req GatewayRefundRequest) (GatewayRefund, error)
	CancelIntent(ctx context.Context, intentID string) (Intent, error)
}

// Materializer turns a succeeded checkout payment into orders.
type Materializer interface {
	Materialize(ctx context.Context, paymentID string) (MaterializeResult, error)
}

// MaterializeResult carries the order IDs stored on the payment after the run.
// LockBusy means another trigger holds the lock and nothing was done.
type MaterializeResult struct {
	OrderIDs            []string
	AlreadyMaterialized bool
	LockBusy            bool
}

type CreateIntentRequest struct {
	Amount         int64
	Currency       string
	Description    string
	Metadata       map[string]any
	IdempotencyKey string
	PaymentMethods []string
}

type AttachRequest struct {
	MethodID  string
	ReturnURL string
	ClientKey string
}

type Intent struct {
	ID            string
	Status        Status
	RawStatus     string
	NextActionURL string
	ChargeID      string
	Fee           int64
	LastError     string
	Raw           json.RawMessage
}

type GatewayRefundRequest struct {
	ChargeID       string
	Amount         int64
	Reason         string
	Notes          string
	Metadata       map[string]any
	IdempotencyKey string
}

type GatewayRefund struct {
	ID     string
	Status string
	Raw    json.RawMessage
}

type EventType string

const (
	EventPaymentPaid   EventType = "payment.paid"
	EventPaymentFailed EventType = "payment.failed"
)

// WebhookEvent is a verified gateway notification about an intent.
type WebhookEvent struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	IntentID      string          `json:"intent_id"`
	ChargeID      string          `json:"charge_id,omitempty"`
	Fee           int64           `json:"fee,omitempty"`
	FailureReason string          `json:"failure_reason,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Raw           json.RawMessage `json:"raw,omitempty"`
}
