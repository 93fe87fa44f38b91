package order_repo

import (
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/domain/order"
	"marketplace/pkg/pointers"
)

// Columns is the select list ParseOrderRow expects.
var Columns = []string{
	"id", "payment_id", "customer_id", "vendor_id", "items", "subtotal", "shipping_fee", "shipping",
	"tracking_number", "payment_method", "payment_status", "status", "escrow_status",
	"hold_reason", "refund_requested_by", "refund_reason", "refund_amount", "refund_payment_id",
	"released_at", "refunded_at",
	"commission_amount", "commission_status", "commission_remitted_at",
	"created_at", "updated_at",
}

type Order struct {
	ID             string
	PaymentID      *string
	CustomerID     string
	VendorID       string
	Items          []byte
	Subtotal       int64
	ShippingFee    int64
	Shipping       []byte
	TrackingNumber string
	PaymentMethod  string
	PaymentStatus  string
	Status         string
	EscrowStatus   string

	HoldReason        string
	RefundRequestedBy string
	RefundReason      string
	RefundAmount      int64
	RefundPaymentID   string
	ReleasedAt        *time.Time
	RefundedAt        *time.Time

	CommissionAmount     int64
	CommissionStatus     string
	CommissionRemittedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m Order) toDomain() (order.Order, error) {
	status, err := order.NewStatus(m.Status)
	if err != nil {
		return order.Order{}, fmt.Errorf("invalid status in database: %w", err)
	}
	escrowStatus, err := order.NewEscrowStatus(m.EscrowStatus)
	if err != nil {
		return order.Order{}, fmt.Errorf("invalid escrow status in database: %w", err)
	}

	o := order.Order{
		ID:             m.ID,
		CustomerID:     m.CustomerID,
		VendorID:       m.VendorID,
		Subtotal:       m.Subtotal,
		ShippingFee:    m.ShippingFee,
		TrackingNumber: m.TrackingNumber,
		PaymentMethod:  order.PaymentMethod(m.PaymentMethod),
		PaymentStatus:  m.PaymentStatus,
		Status:         status,
		EscrowStatus:   escrowStatus,
		Escrow: order.Escrow{
			HoldReason:        m.HoldReason,
			RefundRequestedBy: m.RefundRequestedBy,
			RefundReason:      m.RefundReason,
			RefundAmount:      m.RefundAmount,
			RefundPaymentID:   m.RefundPaymentID,
			ReleasedAt:        m.ReleasedAt,
			RefundedAt:        m.RefundedAt,
		},
		Commission: order.Commission{
			Amount:     m.CommissionAmount,
			Status:     order.CommissionStatus(m.CommissionStatus),
			RemittedAt: m.CommissionRemittedAt,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		PaymentID: pointers.ValueOr(m.PaymentID, ""),
	}
	if err := json.Unmarshal(m.Items, &o.Items); err != nil {
		return order.Order{}, fmt.Errorf("decode items: %w", err)
	}
	if len(m.Shipping) > 0 {
		if err := json.Unmarshal(m.Shipping, &o.Shipping); err != nil {
			return order.Order{}, fmt.Errorf("decode shipping: %w", err)
		}
	}
	return o, nil
}

func fromDomain(o order.Order) (Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return Order{}, fmt.Errorf("encode items: %w", err)
	}
	shipping, err := json.Marshal(o.Shipping)
	if err != nil {
		return Order{}, fmt.Errorf("encode shipping: %w", err)
	}

	m := Order{
		ID:                   o.ID,
		CustomerID:           o.CustomerID,
		VendorID:             o.VendorID,
		Items:                items,
		Subtotal:             o.Subtotal,
		ShippingFee:          o.ShippingFee,
		Shipping:             shipping,
		TrackingNumber:       o.TrackingNumber,
		PaymentMethod:        string(o.PaymentMethod),
		PaymentStatus:        o.PaymentStatus,
		Status:               string(o.Status),
		EscrowStatus:         string(o.EscrowStatus),
		HoldReason:           o.Escrow.HoldReason,
		RefundRequestedBy:    o.Escrow.RefundRequestedBy,
		RefundReason:         o.Escrow.RefundReason,
		RefundAmount:         o.Escrow.RefundAmount,
		RefundPaymentID:      o.Escrow.RefundPaymentID,
		ReleasedAt:           o.Escrow.ReleasedAt,
		RefundedAt:           o.Escrow.RefundedAt,
		CommissionAmount:     o.Commission.Amount,
		CommissionStatus:     string(o.Commission.Status),
		CommissionRemittedAt: o.Commission.RemittedAt,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
	if o.PaymentID != "" {
		m.PaymentID = &o.PaymentID
	}
	if m.CommissionStatus == "" {
		m.CommissionStatus = string(order.CommissionUnpaid)
	}
	return m, nil
}
