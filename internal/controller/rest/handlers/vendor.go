package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type VendorHandler struct {
	service VendorService
}

func NewVendorHandler(s VendorService) VendorHandler {
	return VendorHandler{service: s}
}

type RevenueParams struct {
	Year int `form:"year" binding:"omitempty,min=2000,max=9999"`
}

func (h *VendorHandler) Revenue(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}

	var params RevenueParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.GetRevenueReport(c.Request.Context(), vendorID, params.Year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *VendorHandler) Balance(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}

	res, err := h.service.GetBalance(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// vendorID resolves the path vendor. Vendors may only read their own figures.
func (h *VendorHandler) vendorID(c *gin.Context) (string, bool) {
	vendorID := c.Param("vendor_id")
	id := identityFrom(c)
	if id.Role == RoleVendor && vendorID != id.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "vendors can only read their own revenue"})
		return "", false
	}
	return vendorID, true
}
