package handlers

import (
	"context"
	"net/http"
	"testing"

	"marketplace/internal/domain/escrow"
	"marketplace/internal/domain/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func escrowRouter(h EscrowHandler) http.Handler {
	r := newEngine()
	r.Use(Authenticate())
	r.POST("/orders/:order_id/escrow/refund-request", RequireRole(RoleCustomer), h.RequestRefund)
	r.POST("/orders/:order_id/escrow/cancel-refund", RequireRole(RoleCustomer), h.CancelRefund)

	adm := r.Group("/admin", RequireRole(RoleAdmin))
	adm.POST("/orders/:order_id/escrow/release", h.Release)
	adm.POST("/orders/:order_id/escrow/hold", h.Hold)
	adm.POST("/orders/:order_id/escrow/approve-refund", h.ApproveRefund)
	adm.POST("/orders/:order_id/escrow/reject-refund", h.RejectRefund)
	adm.GET("/escrow/events", h.Events)
	return r
}

func TestEscrowHandler_RequestRefund(t *testing.T) {
	t.Run("owner requests refund", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockEscrowService(ctrl)
		orders := NewMockOrderService(ctrl)
		h := NewEscrowHandler(svc, orders)

		orders.EXPECT().GetOrderByID(gomock.Any(), "o-1").Return(order.Order{ID: "o-1", CustomerID: "cust-1"}, nil)
		svc.EXPECT().RequestRefund(gomock.Any(), "o-1", "cust-1", "damaged").
			Return(order.Order{ID: "o-1", EscrowStatus: order.EscrowRefundRequested}, nil)

		w := do(t, escrowRouter(h), http.MethodPost, "/orders/o-1/escrow/refund-request", customer, map[string]string{"reason": "damaged"})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, order.EscrowRefundRequested, decode[order.Order](t, w).EscrowStatus)
	})

	t.Run("someone else's order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		orders := NewMockOrderService(ctrl)
		h := NewEscrowHandler(NewMockEscrowService(ctrl), orders)

		orders.EXPECT().GetOrderByID(gomock.Any(), "o-1").Return(order.Order{ID: "o-1", CustomerID: "cust-2"}, nil)

		w := do(t, escrowRouter(h), http.MethodPost, "/orders/o-1/escrow/refund-request", customer, map[string]string{"reason": "damaged"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("escrow not held", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockEscrowService(ctrl)
		orders := NewMockOrderService(ctrl)
		h := NewEscrowHandler(svc, orders)

		orders.EXPECT().GetOrderByID(gomock.Any(), "o-1").Return(order.Order{ID: "o-1", CustomerID: "cust-1"}, nil)
		svc.EXPECT().RequestRefund(gomock.Any(), "o-1", "cust-1", "").Return(order.Order{}, escrow.ErrNotHeld)

		w := do(t, escrowRouter(h), http.MethodPost, "/orders/o-1/escrow/refund-request", customer, map[string]string{})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestEscrowHandler_CancelRefund(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockEscrowService(ctrl)
	orders := NewMockOrderService(ctrl)
	h := NewEscrowHandler(svc, orders)

	orders.EXPECT().GetOrderByID(gomock.Any(), "o-1").Return(order.Order{ID: "o-1", CustomerID: "cust-1"}, nil)
	svc.EXPECT().CancelRefundRequest(gomock.Any(), "o-1", "cust-1").Return(order.Order{ID: "o-1", EscrowStatus: order.EscrowHeld}, nil)

	w := do(t, escrowRouter(h), http.MethodPost, "/orders/o-1/escrow/cancel-refund", customer, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEscrowHandler_AdminTransitions(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockEscrowService(ctrl)
	h := NewEscrowHandler(svc, NewMockOrderService(ctrl))
	r := escrowRouter(h)

	svc.EXPECT().Release(gomock.Any(), "o-1", "admin-1").Return(order.Order{ID: "o-1", EscrowStatus: order.EscrowReleased}, nil)
	svc.EXPECT().Hold(gomock.Any(), "o-2", "admin-1", "fraud check").Return(order.Order{ID: "o-2", EscrowStatus: order.EscrowHeld}, nil)
	svc.EXPECT().ApproveRefund(gomock.Any(), "o-3", "admin-1").Return(order.Order{}, escrow.ErrStatusChanged)
	svc.EXPECT().RejectRefund(gomock.Any(), "o-4", "admin-1", "").Return(order.Order{}, escrow.ErrRejectReasonMissing)

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/admin/orders/o-1/escrow/release", admin, nil).Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/admin/orders/o-2/escrow/hold", admin, map[string]string{"reason": "fraud check"}).Code)
	assert.Equal(t, http.StatusConflict, do(t, r, http.MethodPost, "/admin/orders/o-3/escrow/approve-refund", admin, nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, r, http.MethodPost, "/admin/orders/o-4/escrow/reject-refund", admin, map[string]string{}).Code)

	assert.Equal(t, http.StatusForbidden, do(t, r, http.MethodPost, "/admin/orders/o-1/escrow/release", vendorA, nil).Code)
}

func TestEscrowHandler_Events(t *testing.T) {
	t.Run("lists from postgres", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockEscrowService(ctrl)
		h := NewEscrowHandler(svc, NewMockOrderService(ctrl))

		svc.EXPECT().ListEvents(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, q escrow.EventQuery) (escrow.EventPage, error) {
				assert.Equal(t, []string{"o-1"}, q.OrderIDs)
				assert.Equal(t, 5, q.Limit)
				return escrow.EventPage{Items: []escrow.Event{{EventID: "e-1", NewEvent: escrow.NewEvent{OrderID: "o-1"}}}}, nil
			})

		w := do(t, escrowRouter(h), http.MethodGet, "/admin/escrow/events?order_ids=o-1&limit=5", admin, nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Len(t, decode[escrow.EventPage](t, w).Items, 1)
	})

	t.Run("search goes to the index", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockEscrowService(ctrl)
		h := NewEscrowHandler(svc, NewMockOrderService(ctrl))

		svc.EXPECT().SearchEvents(gomock.Any(), gomock.Any()).Return(escrow.EventPage{Items: []escrow.Event{}}, nil)

		w := do(t, escrowRouter(h), http.MethodGet, "/admin/escrow/events?search=true", admin, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad cursor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockEscrowService(ctrl)
		h := NewEscrowHandler(svc, NewMockOrderService(ctrl))

		svc.EXPECT().ListEvents(gomock.Any(), gomock.Any()).Return(escrow.EventPage{}, escrow.ErrInvalidCursor)

		w := do(t, escrowRouter(h), http.MethodGet, "/admin/escrow/events?cursor=zzz", admin, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
