package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"marketplace/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// LockInProgress is the OrderCreationError value that marks a running materialization.
const LockInProgress = "in_progress"

type Type string

const (
	TypeCheckout Type = "checkout"
	TypeRefund   Type = "refund"
	TypeCashIn   Type = "cash_in"
	TypeWithdraw Type = "withdraw"
)

type Flow string

const (
	FlowQR      Flow = "qr"
	FlowCard    Flow = "card"
	FlowEWallet Flow = "ewallet"
	FlowCOD     Flow = "cod" // cash on delivery, no gateway intent
)

// Payment is one money movement. Type-specific fields live in Details, which
// is one of CheckoutDetails, RefundDetails, CashInDetails or WithdrawDetails.
type Payment struct {
	ID             string
	Type           Type
	Status         Status
	CustomerID     string
	Amount         int64
	Fee            int64
	NetAmount      int64
	Currency       string
	Description    string
	IntentID       string
	ChargeID       string
	IdempotencyKey string
	Details        Details

	GatewayResponse json.RawMessage
	FailureReason   string
	IsFinal         bool

	OrdersCreated      bool
	OrderIDs           []string
	OrderCreationError string

	CreatedAt time.Time
	UpdatedAt time.Time
	PaidAt    *time.Time
	ExpiresAt *time.Time
	ExpiredAt *time.Time
}

// Details is the sealed set of per-type payment payloads.
type Details interface {
	paymentType() Type
}

type CheckoutDetails struct {
	Flow     Flow             `json:"flow" validate:"required,oneof=qr card ewallet cod"`
	Snapshot CheckoutSnapshot `json:"snapshot"`
}

type RefundDetails struct {
	OriginalPaymentID string `json:"original_payment_id" validate:"required"`
	OrderID           string `json:"order_id,omitempty"`
	ChargeID          string `json:"charge_id" validate:"required"`
	Reason            string `json:"reason" validate:"required,oneof=duplicate fraudulent requested_by_customer others"`
	Notes             string `json:"notes,omitempty"`
	RequestedBy       string `json:"requested_by" validate:"required"`
}

type CashInDetails struct {
	WalletID string `json:"wallet_id" validate:"required"`
	Channel  Flow   `json:"channel" validate:"required,oneof=qr card ewallet"`
}

type WithdrawDetails struct {
	WalletID      string `json:"wallet_id" validate:"required"`
	BankCode      string `json:"bank_code" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required,numeric,min=6,max=20"`
	AccountName   string `json:"account_name" validate:"required"`
}

func (CheckoutDetails) paymentType() Type { return TypeCheckout }
func (RefundDetails) paymentType() Type   { return TypeRefund }
func (CashInDetails) paymentType() Type   { return TypeCashIn }
func (WithdrawDetails) paymentType() Type { return TypeWithdraw }

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewCheckoutPayment builds a checkout payment in awaiting_payment. The amount
// is derived from the snapshot so the caller cannot disagree with it.
func NewCheckoutPayment(customerID, currency, description string, details CheckoutDetails, expiresAt time.Time, now time.Time) (Payment, error) {
	if customerID == "" {
		return Payment{}, apperror.Validation("customer id is required")
	}
	if details.Snapshot.CapturedAt.IsZero() {
		details.Snapshot.CapturedAt = now
	}
	if err := validateStruct(details); err != nil {
		return Payment{}, err
	}

	return newPayment(TypeCheckout, customerID, details.Snapshot.Total(), currency, description, details, &expiresAt, now), nil
}

func NewRefundPayment(customerID, currency string, amount int64, details RefundDetails, now time.Time) (Payment, error) {
	if amount <= 0 {
		return Payment{}, apperror.Validation("refund amount must be positive")
	}
	if err := validateStruct(details); err != nil {
		return Payment{}, err
	}

	p := newPayment(TypeRefund, customerID, amount, currency, "Refund for payment "+details.OriginalPaymentID, details, nil, now)
	p.Status = StatusPending
	return p, nil
}

func NewCashInPayment(customerID, currency string, amount int64, details CashInDetails, expiresAt time.Time, now time.Time) (Payment, error) {
	if customerID == "" {
		return Payment{}, apperror.Validation("customer id is required")
	}
	if amount <= 0 {
		return Payment{}, apperror.Validation("cash-in amount must be positive")
	}
	if err := validateStruct(details); err != nil {
		return Payment{}, err
	}

	return newPayment(TypeCashIn, customerID, amount, currency, "Wallet cash-in", details, &expiresAt, now), nil
}

// NewWithdrawPayment records a withdrawal request. Withdrawals are never
// disbursed here; they stay pending for the payout system.
func NewWithdrawPayment(customerID, currency string, amount int64, details WithdrawDetails, now time.Time) (Payment, error) {
	if customerID == "" {
		return Payment{}, apperror.Validation("customer id is required")
	}
	if amount <= 0 {
		return Payment{}, apperror.Validation("withdraw amount must be positive")
	}
	if err := validateStruct(details); err != nil {
		return Payment{}, err
	}

	p := newPayment(TypeWithdraw, customerID, amount, currency, "Wallet withdrawal", details, nil, now)
	p.Status = StatusPending
	return p, nil
}

func newPayment(t Type, customerID string, amount int64, currency, description string, details Details, expiresAt *time.Time, now time.Time) Payment {
	return Payment{
		ID:             uuid.NewString(),
		Type:           t,
		Status:         StatusAwaitingPayment,
		CustomerID:     customerID,
		Amount:         amount,
		NetAmount:      amount,
		Currency:       currency,
		Description:    description,
		IdempotencyKey: uuid.NewString(),
		Details:        details,
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      expiresAt,
	}
}

func (p Payment) Checkout() (CheckoutDetails, bool) {
	d, ok := p.Details.(CheckoutDetails)
	return d, ok
}

func (p Payment) Refund() (RefundDetails, bool) {
	d, ok := p.Details.(RefundDetails)
	return d, ok
}

func (p Payment) CashIn() (CashInDetails, bool) {
	d, ok := p.Details.(CashInDetails)
	return d, ok
}

func (p Payment) Withdraw() (WithdrawDetails, bool) {
	d, ok := p.Details.(WithdrawDetails)
	return d, ok
}

func (p Payment) CanBeCancelled() bool {
	return slices.Contains(CancellableStatuses, p.Status)
}

func (p Payment) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}

func (p Payment) IsCashOnDelivery() bool {
	d, ok := p.Checkout()
	return ok && d.Flow == FlowCOD
}

// ReadyForOrders reports whether the checkout may be turned into orders:
// paid online, or placed for cash on delivery and not cancelled.
func (p Payment) ReadyForOrders() bool {
	if p.Type != TypeCheckout {
		return false
	}
	if p.IsCashOnDelivery() {
		return p.Status == StatusPending
	}
	return p.Status == StatusSucceeded
}

// NeedsMaterialization reports whether orders still have to be created.
func (p Payment) NeedsMaterialization() bool {
	return p.ReadyForOrders() && !p.OrdersCreated
}

func (p Payment) MaterializationLocked() bool {
	return p.OrderCreationError == LockInProgress
}

// ExpiryFor returns how long a new payment of the given flow stays payable.
func ExpiryFor(flow Flow, qrExpiry, defaultExpiry time.Duration) time.Duration {
	if flow == FlowQR {
		return qrExpiry
	}
	return defaultExpiry
}

// MarshalDetails encodes the variant payload for storage.
func MarshalDetails(d Details) ([]byte, error) {
	if d == nil {
		return nil, errors.New("payment details are required")
	}
	return json.Marshal(d)
}

// UnmarshalDetails decodes a stored payload according to its type tag.
func UnmarshalDetails(t Type, raw []byte) (Details, error) {
	switch t {
	case TypeCheckout:
		var d CheckoutDetails
		err := unmarshalInto(raw, &d)
		return d, err
	case TypeRefund:
		var d RefundDetails
		err := unmarshalInto(raw, &d)
		return d, err
	case TypeCashIn:
		var d CashInDetails
		err := unmarshalInto(raw, &d)
		return d, err
	case TypeWithdraw:
		var d WithdrawDetails
		err := unmarshalInto(raw, &d)
		return d, err
	default:
		return nil, fmt.Errorf("unknown payment type %q", t)
	}
}

func unmarshalInto(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
		}
		return apperror.Wrap(apperror.KindValidation, ErrInvalidDetails, strings.Join(msgs, "; "))
	}
	return apperror.Wrap(apperror.KindValidation, err, "validate payment")
}
