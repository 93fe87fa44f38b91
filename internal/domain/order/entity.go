package order

import (
	"errors"
	"slices"
	"time"

	"marketplace/internal/domain/payment"

	"github.com/google/uuid"
)

// orderNamespace seeds deterministic order IDs.
var orderNamespace = uuid.MustParse("6f1c2d9a-4b7e-5c3a-9e21-0d8f7a6b5c41")

// NewOrderID derives the order ID for one vendor's share of a payment, so
// every materialization attempt for the pair targets the same row.
func NewOrderID(paymentID, vendorID string) string {
	return uuid.NewSHA1(orderNamespace, []byte(paymentID+":"+vendorID)).String()
}

const (
	PaymentStatusPaid    = "Paid"
	PaymentStatusPending = "Pending"
)

type Status string

const (
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var AvailableStatuses = []Status{StatusPaid, StatusShipped, StatusDelivered, StatusCancelled}

func NewStatus(raw string) (Status, error) {
	if slices.Contains(AvailableStatuses, Status(raw)) {
		return Status(raw), nil
	}
	return "", errors.New("invalid order status")
}

type EscrowStatus string

const (
	EscrowHeld            EscrowStatus = "held"
	EscrowReleased        EscrowStatus = "released"
	EscrowRefundRequested EscrowStatus = "refund_requested"
	EscrowRefunded        EscrowStatus = "refunded"
)

var AvailableEscrowStatuses = []EscrowStatus{EscrowHeld, EscrowReleased, EscrowRefundRequested, EscrowRefunded}

func NewEscrowStatus(raw string) (EscrowStatus, error) {
	if slices.Contains(AvailableEscrowStatuses, EscrowStatus(raw)) {
		return EscrowStatus(raw), nil
	}
	return "", errors.New("invalid escrow status")
}

type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodCOD    PaymentMethod = "cod"
)

type CommissionStatus string

const (
	CommissionUnpaid   CommissionStatus = "unpaid"
	CommissionRemitted CommissionStatus = "remitted"
)

type Order struct {
	ID             string        `json:"id"`
	PaymentID      string        `json:"payment_id"`
	CustomerID     string        `json:"customer_id"`
	VendorID       string        `json:"vendor_id"`
	Items          []Item        `json:"items"`
	Subtotal       int64         `json:"subtotal"`
	ShippingFee    int64         `json:"shipping_fee"`
	Shipping       Shipping      `json:"shipping"`
	TrackingNumber string        `json:"tracking_number"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
	PaymentStatus  string        `json:"payment_status"`
	Status         Status        `json:"status"`
	EscrowStatus   EscrowStatus  `json:"escrow_status"`
	Escrow         Escrow        `json:"escrow"`
	Commission     Commission    `json:"commission"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type Item struct {
	ProductID string `json:"product_id"`
	OptionID  string `json:"option_id,omitempty"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

func (i Item) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

type Shipping struct {
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Method        string          `json:"method"`
	Address       payment.Address `json:"address"`
}

// Escrow is the bookkeeping attached to the escrow state machine.
type Escrow struct {
	HoldReason        string     `json:"hold_reason,omitempty"`
	RefundRequestedBy string     `json:"refund_requested_by,omitempty"`
	RefundReason      string     `json:"refund_reason,omitempty"`
	RefundAmount      int64      `json:"refund_amount,omitempty"`
	RefundPaymentID   string     `json:"refund_payment_id,omitempty"`
	ReleasedAt        *time.Time `json:"released_at,omitempty"`
	RefundedAt        *time.Time `json:"refunded_at,omitempty"`
}

type Commission struct {
	Amount     int64            `json:"amount"`
	Status     CommissionStatus `json:"status"`
	RemittedAt *time.Time       `json:"remitted_at,omitempty"`
}

func Subtotal(items []Item) int64 {
	var total int64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}
