//go:build integration
// +build integration

package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"marketplace/internal/app"
	"marketplace/internal/domain/commission"
	"marketplace/internal/domain/escrow"
	"marketplace/internal/domain/order"
	"marketplace/internal/domain/payment"
	"marketplace/internal/domain/vendor"
	"marketplace/internal/sweeper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// materializedOrders pays the two-vendor cart and delivers the webhook.
func materializedOrders(t *testing.T, baseURL string, services *app.Services) (payment.StatusView, []order.Order) {
	t.Helper()
	seedTwoVendorProducts(t)

	view := paidCheckout(t, baseURL, twoVendorCart())
	eventBody, sig := suite.Gateway.PaidEvent(view.IntentID)
	require.Equal(t, http.StatusOK, sendWebhook(t, baseURL, eventBody, sig))

	orders := ordersForPayment(t, services, view.PaymentID)
	require.Len(t, orders, 2)
	return view, orders
}

func TestEscrow_ReleaseCreditsVendor(t *testing.T) {
	server, services := setupServer(t)
	_, orders := materializedOrders(t, server.URL, services)
	orderA := orders[0]

	code, body := call(t, server.URL, http.MethodPost, "/admin/orders/"+orderA.ID+"/escrow/release", asAdmin, nil)
	require.Equal(t, http.StatusOK, code, string(body))

	released := decode[order.Order](t, body)
	assert.Equal(t, order.EscrowReleased, released.EscrowStatus)
	assert.NotNil(t, released.Escrow.ReleasedAt)

	code, body = call(t, server.URL, http.MethodGet, "/vendors/"+vendorA+"/balance", asVendorA, nil)
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Equal(t, int64(200), decode[vendor.Balance](t, body).Available)

	t.Run("second release is rejected", func(t *testing.T) {
		code, _ := call(t, server.URL, http.MethodPost, "/admin/orders/"+orderA.ID+"/escrow/release", asAdmin, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, code)

		code, body := call(t, server.URL, http.MethodGet, "/vendors/"+vendorA+"/balance", asVendorA, nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, int64(200), decode[vendor.Balance](t, body).Available)
	})

	t.Run("vendor cannot read another vendor's balance", func(t *testing.T) {
		code, _ := call(t, server.URL, http.MethodGet, "/vendors/"+vendorB+"/balance", asVendorA, nil)
		assert.Equal(t, http.StatusForbidden, code)
	})
}

func TestEscrow_RefundRequestApproved(t *testing.T) {
	server, services := setupServer(t)
	view, orders := materializedOrders(t, server.URL, services)
	orderB := orders[1]
	refundsBefore := suite.Gateway.RefundCalls()

	code, body := call(t, server.URL, http.MethodPost, "/orders/"+orderB.ID+"/escrow/refund-request", asCustomer,
		map[string]string{"reason": "arrived damaged"})
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Equal(t, order.EscrowRefundRequested, decode[order.Order](t, body).EscrowStatus)

	code, body = call(t, server.URL, http.MethodPost, "/admin/orders/"+orderB.ID+"/escrow/approve-refund", asAdmin, nil)
	require.Equal(t, http.StatusOK, code, string(body))

	refunded := decode[order.Order](t, body)
	assert.Equal(t, order.EscrowRefunded, refunded.EscrowStatus)
	assert.Equal(t, int64(50), refunded.Escrow.RefundAmount)
	assert.NotEmpty(t, refunded.Escrow.RefundPaymentID)
	assert.Equal(t, refundsBefore+1, suite.Gateway.RefundCalls())

	assert.Equal(t, 1, countRows(t,
		`SELECT count(*) FROM payments WHERE type = 'refund' AND status = 'succeeded' AND amount = 50`))

	code, body = call(t, server.URL, http.MethodGet, "/payments/"+view.PaymentID+"/status", asCustomer, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, payment.StatusPartiallyRefunded, decode[payment.StatusView](t, body).Status)

	t.Run("approving twice does not refund again", func(t *testing.T) {
		code, _ := call(t, server.URL, http.MethodPost, "/admin/orders/"+orderB.ID+"/escrow/approve-refund", asAdmin, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Equal(t, refundsBefore+1, suite.Gateway.RefundCalls())
	})

	t.Run("escrow history is recorded", func(t *testing.T) {
		code, body := call(t, server.URL, http.MethodGet, "/admin/escrow/events?order_ids="+orderB.ID, asAdmin, nil)
		require.Equal(t, http.StatusOK, code, string(body))

		page := decode[escrow.EventPage](t, body)
		require.Len(t, page.Items, 2)
		kinds := []escrow.EventKind{page.Items[0].Kind, page.Items[1].Kind}
		assert.ElementsMatch(t, []escrow.EventKind{escrow.EventRefundRequested, escrow.EventRefundApproved}, kinds)
	})
}

func TestEscrow_ApproveReusesRefundAlreadyIssuedForOrder(t *testing.T) {
	server, services := setupServer(t)
	view, orders := materializedOrders(t, server.URL, services)
	orderB := orders[1]

	code, body := call(t, server.URL, http.MethodPost, "/orders/"+orderB.ID+"/escrow/refund-request", asCustomer,
		map[string]string{"reason": "never arrived"})
	require.Equal(t, http.StatusOK, code, string(body))

	// a refund that reached the gateway while the escrow write was lost
	issued, err := services.Payment.RequestRefund(context.Background(), payment.RefundRequest{
		PaymentID:   view.PaymentID,
		OrderID:     orderB.ID,
		Amount:      orderB.Subtotal,
		Reason:      "requested_by_customer",
		RequestedBy: adminID,
	})
	require.NoError(t, err)
	refundsBefore := suite.Gateway.RefundCalls()

	code, body = call(t, server.URL, http.MethodPost, "/admin/orders/"+orderB.ID+"/escrow/approve-refund", asAdmin, nil)
	require.Equal(t, http.StatusOK, code, string(body))

	refunded := decode[order.Order](t, body)
	assert.Equal(t, order.EscrowRefunded, refunded.EscrowStatus)
	assert.Equal(t, issued.ID, refunded.Escrow.RefundPaymentID)
	assert.Equal(t, refundsBefore, suite.Gateway.RefundCalls())
	assert.Equal(t, 1, countRows(t,
		`SELECT count(*) FROM payments WHERE type = 'refund' AND details->>'order_id' = $1`, orderB.ID))
}

func TestEscrow_RejectRequiresReason(t *testing.T) {
	server, services := setupServer(t)
	_, orders := materializedOrders(t, server.URL, services)
	orderA := orders[0]

	code, _ := call(t, server.URL, http.MethodPost, "/orders/"+orderA.ID+"/escrow/refund-request", asCustomer,
		map[string]string{"reason": "changed my mind"})
	require.Equal(t, http.StatusOK, code)

	code, _ = call(t, server.URL, http.MethodPost, "/admin/orders/"+orderA.ID+"/escrow/reject-refund", asAdmin,
		map[string]string{"reason": "  "})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, body := call(t, server.URL, http.MethodPost, "/admin/orders/"+orderA.ID+"/escrow/reject-refund", asAdmin,
		map[string]string{"reason": "item was used"})
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Equal(t, order.EscrowHeld, decode[order.Order](t, body).EscrowStatus)
}

func TestRefund_CannotExceedPaidAmount(t *testing.T) {
	server, _ := setupServer(t)
	require.NoError(t, suite.Postgres.SeedProduct(context.Background(), "prod-a", vendorA, 400, 10, ""))

	view := paidCheckout(t, server.URL, snapshot(
		payment.SnapshotItem{VendorID: vendorA, ProductID: "prod-a", Name: "Lamp", UnitPrice: 400, Quantity: 2},
	))
	eventBody, sig := suite.Gateway.PaidEvent(view.IntentID)
	require.Equal(t, http.StatusOK, sendWebhook(t, server.URL, eventBody, sig))
	refundsBefore := suite.Gateway.RefundCalls()

	code, body := call(t, server.URL, http.MethodPost, "/admin/payments/"+view.PaymentID+"/refunds", asAdmin,
		map[string]any{"amount": 1000, "reason": "requested_by_customer"})
	assert.Equal(t, http.StatusUnprocessableEntity, code, string(body))
	assert.Equal(t, refundsBefore, suite.Gateway.RefundCalls())
	assert.Equal(t, 0, countRows(t, `SELECT count(*) FROM payments WHERE type = 'refund'`))

	code, body = call(t, server.URL, http.MethodPost, "/admin/payments/"+view.PaymentID+"/refunds", asAdmin,
		map[string]any{"amount": 800, "reason": "requested_by_customer"})
	require.Equal(t, http.StatusCreated, code, string(body))
	assert.Equal(t, payment.StatusSucceeded, decode[payment.StatusView](t, body).Status)

	code, _ = call(t, server.URL, http.MethodPost, "/admin/payments/"+view.PaymentID+"/refunds", asAdmin,
		map[string]any{"amount": 1, "reason": "requested_by_customer"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestCommission_RemitCashOnDeliveryOrder(t *testing.T) {
	server, services := setupServer(t)
	require.NoError(t, suite.Postgres.SeedProduct(context.Background(), "prod-a", vendorA, 100, 20, ""))

	codView := codCheckout(t, server.URL, snapshot(
		payment.SnapshotItem{VendorID: vendorA, ProductID: "prod-a", Name: "Mug", UnitPrice: 100, Quantity: 10},
	))
	require.Len(t, codView.OrderIDs, 1)
	orderID := codView.OrderIDs[0]
	assert.Equal(t, 10, countRows(t, `SELECT stock FROM products WHERE id = 'prod-a'`))

	codOrders := ordersForPayment(t, services, codView.PaymentID)
	require.Len(t, codOrders, 1)
	assert.Equal(t, order.PaymentMethodCOD, codOrders[0].PaymentMethod)
	assert.Equal(t, order.PaymentStatusPending, codOrders[0].PaymentStatus)

	online := paidCheckout(t, server.URL, snapshot(
		payment.SnapshotItem{VendorID: vendorA, ProductID: "prod-a", Name: "Mug", UnitPrice: 100, Quantity: 5},
	))
	eventBody, sig := suite.Gateway.PaidEvent(online.IntentID)
	require.Equal(t, http.StatusOK, sendWebhook(t, server.URL, eventBody, sig))
	onlineOrders := ordersForPayment(t, services, online.PaymentID)
	require.Len(t, onlineOrders, 1)
	onlineID := onlineOrders[0].ID

	code, body := call(t, server.URL, http.MethodGet, "/vendor/commissions/outstanding", asVendorA, nil)
	require.Equal(t, http.StatusOK, code, string(body))
	quote := decode[commission.Quote](t, body)
	assert.Equal(t, 1, quote.Orders)
	assert.Equal(t, int64(1000), quote.Subtotal)
	assert.Equal(t, int64(50), quote.Commission)

	code, body = call(t, server.URL, http.MethodPost, "/vendor/commissions/remit", asVendorA,
		map[string]string{"order_id": orderID, "reference": "GCASH-123"})
	require.Equal(t, http.StatusCreated, code, string(body))
	assert.Equal(t, int64(50), decode[commission.Remittance](t, body).Amount)

	code, _ = call(t, server.URL, http.MethodPost, "/vendor/commissions/remit", asVendorA,
		map[string]string{"order_id": orderID, "reference": "GCASH-124"})
	assert.Equal(t, http.StatusConflict, code)

	code, body = call(t, server.URL, http.MethodPost, "/vendor/commissions/remit/bulk", asVendorA,
		map[string]any{"order_ids": []string{orderID, onlineID}, "reference": "GCASH-125"})
	require.Equal(t, http.StatusOK, code, string(body))
	bulk := decode[commission.BulkResult](t, body)
	assert.Empty(t, bulk.Succeeded)
	assert.Len(t, bulk.Failed, 2)

	assert.Equal(t, 1, countRows(t, `SELECT count(*) FROM commission_remittances`))
}

func TestSweeper_ExpiresUnpaidCheckout(t *testing.T) {
	server, services := setupServer(t)
	seedTwoVendorProducts(t)

	view := checkout(t, server.URL, twoVendorCart())
	_, err := suite.Postgres.Pool.Pool.Exec(context.Background(),
		`UPDATE payments SET expires_at = $2 WHERE id = $1`, view.PaymentID, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	res, err := sweeper.New(services.Payment, 0).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Expired)

	assert.Equal(t, 1, countRows(t,
		`SELECT count(*) FROM payments WHERE id = $1 AND status = 'cancelled' AND failure_reason = 'expired'`, view.PaymentID))
	assert.Equal(t, "cancelled", suite.Gateway.IntentStatus(view.IntentID))

	t.Run("late capture is recorded without reviving the payment", func(t *testing.T) {
		chargeID := suite.Gateway.MarkPaid(view.IntentID, 25)
		eventBody, sig := suite.Gateway.PaidEvent(view.IntentID)
		require.Equal(t, http.StatusOK, sendWebhook(t, server.URL, eventBody, sig))

		assert.Equal(t, 1, countRows(t,
			`SELECT count(*) FROM payments WHERE id = $1 AND status = 'cancelled' AND charge_id = $2
			AND failure_reason LIKE 'captured after cancelled%'`, view.PaymentID, chargeID))
		assert.Equal(t, 0, countRows(t, `SELECT count(*) FROM orders WHERE payment_id = $1`, view.PaymentID))
	})
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}
