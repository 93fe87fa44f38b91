package handlers

import (
	"net/http"

	"marketplace/internal/domain/inventory"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	service StockService
}

func NewInventoryHandler(s StockService) InventoryHandler {
	return InventoryHandler{service: s}
}

type StockAdjustmentRequest struct {
	OptionID string `json:"option_id"`
	Delta    int    `json:"delta" binding:"required"`
}

func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req StockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id := identityFrom(c)
	adj := inventory.Adjustment{
		ProductID: c.Param("product_id"),
		OptionID:  req.OptionID,
		Delta:     req.Delta,
		ActorID:   id.UserID,
	}
	if id.Role != RoleAdmin {
		adj.VendorID = id.UserID
	}

	err := h.service.AdjustStock(c.Request.Context(), adj)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
