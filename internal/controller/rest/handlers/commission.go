package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CommissionHandler struct {
	service CommissionService
}

func NewCommissionHandler(s CommissionService) CommissionHandler {
	return CommissionHandler{service: s}
}

type RemitRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	Reference string `json:"reference" binding:"required"`
}

func (h *CommissionHandler) Remit(c *gin.Context) {
	var req RemitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.service.Remit(c.Request.Context(), identityFrom(c).UserID, req.OrderID, req.Reference)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

type BulkRemitRequest struct {
	OrderIDs  []string `json:"order_ids" binding:"required,min=1,max=100"`
	Reference string   `json:"reference" binding:"required"`
}

// RemitBulk remits each order independently. Partial failures are reported in
// the body with a 200.
func (h *CommissionHandler) RemitBulk(c *gin.Context) {
	var req BulkRemitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.service.RemitBulk(c.Request.Context(), identityFrom(c).UserID, req.OrderIDs, req.Reference)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *CommissionHandler) Outstanding(c *gin.Context) {
	res, err := h.service.Quote(c.Request.Context(), identityFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
