package handlers

import (
	"net/http"
	"testing"

	"marketplace/internal/domain/commission"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func commissionRouter(h CommissionHandler) http.Handler {
	r := newEngine()
	g := r.Group("/vendor/commissions", Authenticate(), RequireRole(RoleVendor))
	g.POST("/remit", h.Remit)
	g.POST("/remit/bulk", h.RemitBulk)
	g.GET("/outstanding", h.Outstanding)
	return r
}

func TestCommissionHandler_Remit(t *testing.T) {
	t.Run("remitted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockCommissionService(ctrl)
		h := NewCommissionHandler(svc)

		svc.EXPECT().Remit(gomock.Any(), "vendor-a", "o-1", "GCASH-123").
			Return(commission.Remittance{ID: "r-1", OrderID: "o-1", VendorID: "vendor-a", Amount: 10}, nil)

		w := do(t, commissionRouter(h), http.MethodPost, "/vendor/commissions/remit", vendorA, map[string]string{
			"order_id": "o-1", "reference": "GCASH-123",
		})

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, int64(10), decode[commission.Remittance](t, w).Amount)
	})

	t.Run("second remit conflicts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockCommissionService(ctrl)
		h := NewCommissionHandler(svc)

		svc.EXPECT().Remit(gomock.Any(), "vendor-a", "o-1", "GCASH-123").Return(commission.Remittance{}, commission.ErrAlreadyRemitted)

		w := do(t, commissionRouter(h), http.MethodPost, "/vendor/commissions/remit", vendorA, map[string]string{
			"order_id": "o-1", "reference": "GCASH-123",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("customers are forbidden", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := NewCommissionHandler(NewMockCommissionService(ctrl))

		w := do(t, commissionRouter(h), http.MethodPost, "/vendor/commissions/remit", customer, map[string]string{
			"order_id": "o-1", "reference": "x",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCommissionHandler_RemitBulk(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockCommissionService(ctrl)
	h := NewCommissionHandler(svc)

	svc.EXPECT().RemitBulk(gomock.Any(), "vendor-a", []string{"o-1", "o-2"}, "BANK-9").Return(commission.BulkResult{
		Succeeded: []commission.Remittance{{OrderID: "o-1"}},
		Failed:    []commission.BulkFailure{{OrderID: "o-2", Error: "not cod"}},
	}, nil)

	w := do(t, commissionRouter(h), http.MethodPost, "/vendor/commissions/remit/bulk", vendorA, map[string]any{
		"order_ids": []string{"o-1", "o-2"}, "reference": "BANK-9",
	})

	require.Equal(t, http.StatusOK, w.Code)
	res := decode[commission.BulkResult](t, w)
	assert.Len(t, res.Succeeded, 1)
	assert.Len(t, res.Failed, 1)
}

func TestCommissionHandler_Outstanding(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockCommissionService(ctrl)
	h := NewCommissionHandler(svc)

	svc.EXPECT().Quote(gomock.Any(), "vendor-a").Return(commission.Quote{VendorID: "vendor-a", Orders: 3, Subtotal: 3000, Commission: 150}, nil)

	w := do(t, commissionRouter(h), http.MethodGet, "/vendor/commissions/outstanding", vendorA, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(150), decode[commission.Quote](t, w).Commission)
}
