package handlers

import (
	"net/http"

	"marketplace/internal/domain/escrow"
	"marketplace/internal/domain/order"

	"github.com/gin-gonic/gin"
)

type EscrowHandler struct {
	service EscrowService
	orders  OrderService
}

func NewEscrowHandler(s EscrowService, orders OrderService) EscrowHandler {
	return EscrowHandler{service: s, orders: orders}
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

func (h *EscrowHandler) Release(c *gin.Context) {
	res, err := h.service.Release(c.Request.Context(), c.Param("order_id"), identityFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *EscrowHandler) Hold(c *gin.Context) {
	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.service.Hold(c.Request.Context(), c.Param("order_id"), identityFrom(c).UserID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *EscrowHandler) RequestRefund(c *gin.Context) {
	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	orderID := c.Param("order_id")
	if !h.ownsOrder(c, orderID) {
		return
	}

	res, err := h.service.RequestRefund(c.Request.Context(), orderID, identityFrom(c).UserID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *EscrowHandler) CancelRefund(c *gin.Context) {
	orderID := c.Param("order_id")
	if !h.ownsOrder(c, orderID) {
		return
	}

	res, err := h.service.CancelRefundRequest(c.Request.Context(), orderID, identityFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *EscrowHandler) ApproveRefund(c *gin.Context) {
	res, err := h.service.ApproveRefund(c.Request.Context(), c.Param("order_id"), identityFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *EscrowHandler) RejectRefund(c *gin.Context) {
	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.service.RejectRefund(c.Request.Context(), c.Param("order_id"), identityFrom(c).UserID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Events lists escrow audit events. With search=true the query goes to the
// search index instead of postgres.
func (h *EscrowHandler) Events(c *gin.Context) {
	var query escrow.EventQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list := h.service.ListEvents
	if c.Query("search") == "true" {
		list = h.service.SearchEvents
	}

	res, err := list(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *EscrowHandler) ownsOrder(c *gin.Context, orderID string) bool {
	o, err := h.orders.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if !canSeeOrder(identityFrom(c), o) {
		respondError(c, order.ErrNotFound)
		return false
	}
	return true
}
