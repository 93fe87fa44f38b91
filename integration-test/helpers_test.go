//go:build integration
// +build integration

package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"marketplace/internal/app"
	"marketplace/internal/controller/rest/handlers"
	"marketplace/internal/domain/order"
	"marketplace/internal/domain/payment"
	"marketplace/internal/external/gateway"

	"github.com/stretchr/testify/require"
)

const (
	customerID = "cust-1"
	adminID    = "admin-1"
	vendorA    = "vendor-a"
	vendorB    = "vendor-b"
)

type identity struct {
	id   string
	role handlers.Role
}

var (
	asCustomer = identity{customerID, handlers.RoleCustomer}
	asStranger = identity{"cust-2", handlers.RoleCustomer}
	asAdmin    = identity{adminID, handlers.RoleAdmin}
	asVendorA  = identity{vendorA, handlers.RoleVendor}
)

func call(t *testing.T, baseURL, method, path string, who identity, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if who.id != "" {
		req.Header.Set(handlers.HeaderUserID, who.id)
		req.Header.Set(handlers.HeaderUserRole, string(who.role))
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func sendWebhook(t *testing.T, baseURL string, body []byte, signature string) int {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, baseURL+"/webhooks/payments", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(gateway.SignatureHeader, signature)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func snapshot(items ...payment.SnapshotItem) payment.CheckoutSnapshot {
	return payment.CheckoutSnapshot{
		Items: items,
		ShippingAddress: payment.Address{
			Line1:   "12 Mabini St",
			City:    "Makati",
			Country: "PH",
		},
		CustomerName:   "Juan Dela Cruz",
		CustomerPhone:  "+639171234567",
		ShippingMethod: "standard",
	}
}

// checkout creates a checkout payment through the API and returns its view.
func checkout(t *testing.T, baseURL string, snap payment.CheckoutSnapshot) payment.StatusView {
	t.Helper()

	code, body := call(t, baseURL, http.MethodPost, "/checkout", asCustomer, map[string]any{
		"description": "integration order",
		"flow":        payment.FlowCard,
		"snapshot":    snap,
	})
	require.Equal(t, http.StatusCreated, code, string(body))

	var view payment.StatusView
	require.NoError(t, json.Unmarshal(body, &view))
	require.NotEmpty(t, view.IntentID)
	return view
}

// codCheckout places a cash on delivery checkout, which creates its orders
// without a gateway intent.
func codCheckout(t *testing.T, baseURL string, snap payment.CheckoutSnapshot) payment.StatusView {
	t.Helper()

	code, body := call(t, baseURL, http.MethodPost, "/checkout", asCustomer, map[string]any{
		"flow":     payment.FlowCOD,
		"snapshot": snap,
	})
	require.Equal(t, http.StatusCreated, code, string(body))

	var view payment.StatusView
	require.NoError(t, json.Unmarshal(body, &view))
	require.Empty(t, view.IntentID)
	require.True(t, view.OrdersCreated)
	return view
}

// paidCheckout runs checkout and settles the intent at the gateway without
// notifying the service.
func paidCheckout(t *testing.T, baseURL string, snap payment.CheckoutSnapshot) payment.StatusView {
	t.Helper()
	view := checkout(t, baseURL, snap)
	suite.Gateway.MarkPaid(view.IntentID, 25)
	return view
}

func ordersForPayment(t *testing.T, services *app.Services, paymentID string) []order.Order {
	t.Helper()

	query, err := order.NewOrdersQueryBuilder().
		WithPaymentIDs(paymentID).
		WithSort("subtotal", "desc").
		Build()
	require.NoError(t, err)

	orders, err := services.Order.GetOrders(context.Background(), query)
	require.NoError(t, err)
	return orders
}

func countRows(t *testing.T, sql string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, suite.Postgres.Pool.Pool.QueryRow(context.Background(), sql, args...).Scan(&n))
	return n
}
