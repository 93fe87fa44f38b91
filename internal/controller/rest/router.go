package rest

import (
	"marketplace/internal/controller/rest/handlers"
	"marketplace/pkg/health"
	"marketplace/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	payment        handlers.PaymentHandler
	webhook        handlers.WebhookHandler
	order          handlers.OrderHandler
	escrow         handlers.EscrowHandler
	commission     handlers.CommissionHandler
	vendor         handlers.VendorHandler
	inventory      handlers.InventoryHandler
	healthRegistry *health.Registry
}

type Handlers struct {
	Payment    handlers.PaymentHandler
	Webhook    handlers.WebhookHandler
	Order      handlers.OrderHandler
	Escrow     handlers.EscrowHandler
	Commission handlers.CommissionHandler
	Vendor     handlers.VendorHandler
	Inventory  handlers.InventoryHandler
}

func NewRouter(h Handlers, healthRegistry *health.Registry) *Router {
	return &Router{
		payment:        h.Payment,
		webhook:        h.Webhook,
		order:          h.Order,
		escrow:         h.Escrow,
		commission:     h.Commission,
		vendor:         h.Vendor,
		inventory:      h.Inventory,
		healthRegistry: healthRegistry,
	}
}

func (r *Router) SetUp(engine *gin.Engine) {
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(r.healthRegistry, health.DefaultTimeout))
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// Gateway calls are authenticated by signature, not by the proxy headers.
	engine.POST("/webhooks/payments", r.webhook.Payments)

	api := engine.Group("/", handlers.Authenticate())

	api.POST("/checkout", r.payment.Checkout)
	api.GET("/payments/:payment_id/status", r.payment.Status)
	api.POST("/payments/:payment_id/attach", r.payment.Attach)
	api.POST("/payments/:payment_id/cancel", r.payment.Cancel)

	wallet := api.Group("/wallet", handlers.RequireRole(handlers.RoleCustomer))
	wallet.POST("/cash-in", r.payment.CashIn)
	wallet.POST("/withdrawals", r.payment.Withdraw)

	api.GET("/orders", r.order.Filter)
	api.GET("/orders/:order_id", r.order.Get)

	customer := api.Group("/orders/:order_id/escrow", handlers.RequireRole(handlers.RoleCustomer))
	customer.POST("/refund-request", r.escrow.RequestRefund)
	customer.POST("/cancel-refund", r.escrow.CancelRefund)

	vendor := api.Group("/vendor", handlers.RequireRole(handlers.RoleVendor))
	vendor.POST("/commissions/remit", r.commission.Remit)
	vendor.POST("/commissions/remit/bulk", r.commission.RemitBulk)
	vendor.GET("/commissions/outstanding", r.commission.Outstanding)

	vendorOrAdmin := api.Group("/", handlers.RequireRole(handlers.RoleVendor, handlers.RoleAdmin))
	vendorOrAdmin.GET("/vendors/:vendor_id/revenue", r.vendor.Revenue)
	vendorOrAdmin.GET("/vendors/:vendor_id/balance", r.vendor.Balance)
	vendorOrAdmin.POST("/products/:product_id/stock", r.inventory.AdjustStock)

	admin := api.Group("/admin", handlers.RequireRole(handlers.RoleAdmin))
	admin.POST("/payments/:payment_id/recover", r.payment.Recover)
	admin.POST("/payments/:payment_id/refunds", r.payment.Refund)
	admin.POST("/orders/:order_id/escrow/release", r.escrow.Release)
	admin.POST("/orders/:order_id/escrow/hold", r.escrow.Hold)
	admin.POST("/orders/:order_id/escrow/approve-refund", r.escrow.ApproveRefund)
	admin.POST("/orders/:order_id/escrow/reject-refund", r.escrow.RejectRefund)
	admin.GET("/escrow/events", r.escrow.Events)
}
