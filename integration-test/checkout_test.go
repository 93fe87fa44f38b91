//go:build integration
// +build integration

package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"marketplace/internal/domain/order"
	"marketplace/internal/domain/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoVendorCart() payment.CheckoutSnapshot {
	return snapshot(
		payment.SnapshotItem{VendorID: vendorA, ProductID: "prod-a", Name: "Mug", UnitPrice: 100, Quantity: 2},
		payment.SnapshotItem{VendorID: vendorB, ProductID: "prod-b", Name: "Tote", UnitPrice: 50, Quantity: 1},
	)
}

func seedTwoVendorProducts(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, suite.Postgres.SeedProduct(ctx, "prod-a", vendorA, 100, 10, ""))
	require.NoError(t, suite.Postgres.SeedProduct(ctx, "prod-b", vendorB, 50, 10, ""))
}

func TestCheckout_WebhookCreatesOrdersPerVendor(t *testing.T) {
	server, services := setupServer(t)
	seedTwoVendorProducts(t)

	// given
	view := checkout(t, server.URL, twoVendorCart())
	assert.Equal(t, payment.StatusAwaitingPayment, view.Status)
	assert.Equal(t, int64(250), view.Amount)

	code, body := call(t, server.URL, http.MethodPost, "/payments/"+view.PaymentID+"/attach", asCustomer, map[string]string{
		"method_id": "pm_card_1", "return_url": "https://shop.test/return",
	})
	require.Equal(t, http.StatusOK, code, string(body))

	// when
	suite.Gateway.MarkPaid(view.IntentID, 25)
	eventBody, sig := suite.Gateway.PaidEvent(view.IntentID)
	require.Equal(t, http.StatusOK, sendWebhook(t, server.URL, eventBody, sig))

	// then
	orders := ordersForPayment(t, services, view.PaymentID)
	require.Len(t, orders, 2)
	assert.Equal(t, vendorA, orders[0].VendorID)
	assert.Equal(t, int64(200), orders[0].Subtotal)
	assert.Equal(t, vendorB, orders[1].VendorID)
	assert.Equal(t, int64(50), orders[1].Subtotal)
	for _, o := range orders {
		assert.Equal(t, order.EscrowHeld, o.EscrowStatus)
		assert.Equal(t, order.PaymentMethodOnline, o.PaymentMethod)
		assert.NotEmpty(t, o.TrackingNumber)
	}

	assert.Equal(t, 8, countRows(t, `SELECT stock FROM products WHERE id = 'prod-a'`))
	assert.Equal(t, 2, countRows(t, `SELECT sold FROM products WHERE id = 'prod-a'`))

	code, body = call(t, server.URL, http.MethodGet, "/payments/"+view.PaymentID+"/status", asCustomer, nil)
	require.Equal(t, http.StatusOK, code)
	var status payment.StatusView
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, payment.StatusSucceeded, status.Status)
	assert.True(t, status.OrdersCreated)
	assert.Len(t, status.OrderIDs, 2)

	t.Run("another customer cannot poll the payment", func(t *testing.T) {
		for _, ref := range []string{view.PaymentID, view.IntentID} {
			code, _ := call(t, server.URL, http.MethodGet, "/payments/"+ref+"/status", asStranger, nil)
			assert.Equal(t, http.StatusNotFound, code, ref)
		}
	})

	t.Run("webhook replay is a no-op", func(t *testing.T) {
		eventBody, sig := suite.Gateway.PaidEvent(view.IntentID)
		require.Equal(t, http.StatusOK, sendWebhook(t, server.URL, eventBody, sig))

		assert.Equal(t, 2, countRows(t, `SELECT count(*) FROM orders WHERE payment_id = $1`, view.PaymentID))
		assert.Equal(t, 8, countRows(t, `SELECT stock FROM products WHERE id = 'prod-a'`))
	})

	t.Run("admin recovery reports already materialized", func(t *testing.T) {
		code, _ := call(t, server.URL, http.MethodPost, "/admin/payments/"+view.PaymentID+"/recover", asAdmin, nil)
		assert.Equal(t, http.StatusConflict, code)
	})
}

func TestCheckout_StatusPollMaterializesWithoutWebhook(t *testing.T) {
	server, services := setupServer(t)
	seedTwoVendorProducts(t)

	view := paidCheckout(t, server.URL, twoVendorCart())

	code, body := call(t, server.URL, http.MethodGet, "/payments/"+view.IntentID+"/status", asCustomer, nil)
	require.Equal(t, http.StatusOK, code, string(body))

	var status payment.StatusView
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, payment.StatusSucceeded, status.Status)
	assert.True(t, status.OrdersCreated)
	assert.Len(t, ordersForPayment(t, services, view.PaymentID), 2)
}

func TestCheckout_ConcurrentTriggersCreateOrdersOnce(t *testing.T) {
	server, services := setupServer(t)
	seedTwoVendorProducts(t)

	view := paidCheckout(t, server.URL, twoVendorCart())

	const triggers = 10
	var wg sync.WaitGroup
	for i := range triggers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				eventBody, sig := suite.Gateway.PaidEvent(view.IntentID)
				sendWebhook(t, server.URL, eventBody, sig)
				return
			}
			call(t, server.URL, http.MethodGet, "/payments/"+view.PaymentID+"/status", asCustomer, nil)
		}()
	}
	wg.Wait()

	// a trigger that lost the lock race returns without orders; a final poll
	// settles anything still pending
	require.Eventually(t, func() bool {
		call(t, server.URL, http.MethodGet, "/payments/"+view.PaymentID+"/status", asCustomer, nil)
		return len(ordersForPayment(t, services, view.PaymentID)) == 2
	}, 5*time.Second, 100*time.Millisecond)

	assert.Equal(t, 2, countRows(t, `SELECT count(*) FROM orders WHERE payment_id = $1`, view.PaymentID))
	assert.Equal(t, 8, countRows(t, `SELECT stock FROM products WHERE id = 'prod-a'`))
	assert.Equal(t, 9, countRows(t, `SELECT stock FROM products WHERE id = 'prod-b'`))
}

func TestCheckout_StaleLockIsReacquired(t *testing.T) {
	server, services := setupServer(t)
	seedTwoVendorProducts(t)
	ctx := context.Background()

	view := paidCheckout(t, server.URL, twoVendorCart())

	// a crashed trigger left the lock behind after marking the payment paid
	_, err := suite.Postgres.Pool.Pool.Exec(ctx, `
		UPDATE payments SET status = 'succeeded', order_creation_error = 'in_progress', updated_at = $2
		WHERE id = $1`, view.PaymentID, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	code, _ := call(t, server.URL, http.MethodPost, "/admin/payments/"+view.PaymentID+"/recover", asAdmin, nil)
	assert.Equal(t, http.StatusConflict, code, "a fresh lock must not be taken over")
	assert.Empty(t, ordersForPayment(t, services, view.PaymentID))

	_, err = suite.Postgres.Pool.Pool.Exec(ctx, `UPDATE payments SET updated_at = $2 WHERE id = $1`,
		view.PaymentID, time.Now().Add(-10*time.Minute-time.Second))
	require.NoError(t, err)

	code, body := call(t, server.URL, http.MethodPost, "/admin/payments/"+view.PaymentID+"/recover", asAdmin, nil)
	require.Equal(t, http.StatusOK, code, string(body))

	var res struct {
		OrderIDs []string `json:"order_ids"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Len(t, res.OrderIDs, 2)
}

func TestCheckout_InsufficientStockSkipsOnlyThatVendor(t *testing.T) {
	server, services := setupServer(t)
	ctx := context.Background()
	require.NoError(t, suite.Postgres.SeedProduct(ctx, "prod-a", vendorA, 100, 1, ""))
	require.NoError(t, suite.Postgres.SeedProduct(ctx, "prod-b", vendorB, 50, 10, ""))

	view := paidCheckout(t, server.URL, twoVendorCart())
	eventBody, sig := suite.Gateway.PaidEvent(view.IntentID)
	require.Equal(t, http.StatusOK, sendWebhook(t, server.URL, eventBody, sig))

	orders := ordersForPayment(t, services, view.PaymentID)
	require.Len(t, orders, 1)
	assert.Equal(t, vendorB, orders[0].VendorID)
	assert.Equal(t, 1, countRows(t, `SELECT stock FROM products WHERE id = 'prod-a'`))
}

func TestWebhook_InvalidSignatureChangesNothing(t *testing.T) {
	server, _ := setupServer(t)
	seedTwoVendorProducts(t)

	view := paidCheckout(t, server.URL, twoVendorCart())
	eventBody, _ := suite.Gateway.PaidEvent(view.IntentID)

	assert.Equal(t, http.StatusUnauthorized, sendWebhook(t, server.URL, eventBody, "t=1,te=deadbeef,li="))
	assert.Equal(t, 0, countRows(t, `SELECT count(*) FROM orders`))
	assert.Equal(t, 1, countRows(t, `SELECT count(*) FROM payments WHERE status = 'awaiting_payment'`))
}

func TestStock_VendorsAdjustOnlyTheirOwnProducts(t *testing.T) {
	server, _ := setupServer(t)
	seedTwoVendorProducts(t)

	code, body := call(t, server.URL, http.MethodPost, "/products/prod-a/stock", asVendorA, map[string]int{"delta": 5})
	require.Equal(t, http.StatusNoContent, code, string(body))
	assert.Equal(t, 15, countRows(t, `SELECT stock FROM products WHERE id = 'prod-a'`))

	code, _ = call(t, server.URL, http.MethodPost, "/products/prod-b/stock", asVendorA, map[string]int{"delta": -10})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, 10, countRows(t, `SELECT stock FROM products WHERE id = 'prod-b'`))

	code, _ = call(t, server.URL, http.MethodPost, "/products/prod-b/stock", asAdmin, map[string]int{"delta": -4})
	assert.Equal(t, http.StatusNoContent, code)
	assert.Equal(t, 6, countRows(t, `SELECT stock FROM products WHERE id = 'prod-b'`))
}
