package handlers

import (
	"context"

	"marketplace/internal/domain/commission"
	"marketplace/internal/domain/escrow"
	"marketplace/internal/domain/inventory"
	"marketplace/internal/domain/order"
	"marketplace/internal/domain/payment"
	"marketplace/internal/domain/vendor"
)

//go:generate mockgen -source services.go -destination mock_services.go -package handlers

type PaymentService interface {
	CreateCheckout(ctx context.Context, req payment.CreateCheckoutRequest) (payment.Payment, error)
	AttachMethod(ctx context.Context, paymentID string, req payment.AttachRequest) (payment.AttachResult, error)
	GetStatus(ctx context.Context, ref, ownerID string) (payment.StatusView, error)
	GetPayment(ctx context.Context, id string) (payment.Payment, error)
	Cancel(ctx context.Context, paymentID, actorID string) (payment.Payment, error)
	RecoverMaterialization(ctx context.Context, paymentID string) ([]string, error)
	RequestRefund(ctx context.Context, req payment.RefundRequest) (payment.Payment, error)
	CreateCashIn(ctx context.Context, req payment.CashInRequest) (payment.Payment, error)
	CreateWithdraw(ctx context.Context, req payment.WithdrawRequest) (payment.Payment, error)
}

type OrderService interface {
	GetOrderByID(ctx context.Context, id string) (order.Order, error)
	GetOrders(ctx context.Context, query *order.OrdersQuery) ([]order.Order, error)
}

type EscrowService interface {
	Release(ctx context.Context, orderID, adminID string) (order.Order, error)
	Hold(ctx context.Context, orderID, adminID, reason string) (order.Order, error)
	RequestRefund(ctx context.Context, orderID, customerID, reason string) (order.Order, error)
	CancelRefundRequest(ctx context.Context, orderID, customerID string) (order.Order, error)
	ApproveRefund(ctx context.Context, orderID, adminID string) (order.Order, error)
	RejectRefund(ctx context.Context, orderID, adminID, reason string) (order.Order, error)
	ListEvents(ctx context.Context, query escrow.EventQuery) (escrow.EventPage, error)
	SearchEvents(ctx context.Context, query escrow.EventQuery) (escrow.EventPage, error)
}

type CommissionService interface {
	Remit(ctx context.Context, vendorID, orderID, reference string) (commission.Remittance, error)
	RemitBulk(ctx context.Context, vendorID string, orderIDs []string, reference string) (commission.BulkResult, error)
	Quote(ctx context.Context, vendorID string) (commission.Quote, error)
}

type VendorService interface {
	GetRevenueReport(ctx context.Context, vendorID string, year int) (vendor.RevenueReport, error)
	GetBalance(ctx context.Context, vendorID string) (vendor.Balance, error)
}

type StockService interface {
	AdjustStock(ctx context.Context, adj inventory.Adjustment) error
}

// SignatureVerifier checks the gateway signature header against the raw body.
type SignatureVerifier interface {
	VerifyWebhookSignature(payload []byte, header string) error
}

type WebhookProcessor interface {
	ProcessPaymentEvent(ctx context.Context, event payment.WebhookEvent) error
}
