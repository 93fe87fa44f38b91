package handlers

import (
	"net/http"
	"strings"

	"marketplace/internal/domain/order"
	"marketplace/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service OrderService
}

func NewOrderHandler(s OrderService) OrderHandler {
	return OrderHandler{service: s}
}

func (h *OrderHandler) Get(c *gin.Context) {
	res, err := h.service.GetOrderByID(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if !canSeeOrder(identityFrom(c), res) {
		respondError(c, order.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, res)
}

type FilterParams struct {
	EscrowStatus     string `form:"escrow_status"`
	PaymentMethod    string `form:"payment_method"`
	CommissionStatus string `form:"commission_status"`
	PaymentID        string `form:"payment_id"`
	PageSize         int    `form:"limit" binding:"omitempty,min=1,max=1000"`
	PageNumber       int    `form:"page" binding:"omitempty,min=1"`
	SortBy           string `form:"sort_by" binding:"omitempty,oneof=created_at updated_at subtotal"`
	SortOrder        string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// Filter lists orders visible to the caller. Customers see their own orders,
// vendors the orders placed with them, admins everything.
func (h *OrderHandler) Filter(c *gin.Context) {
	query, err := h.createFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.GetOrders(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	if res == nil {
		res = []order.Order{}
	}

	c.JSON(http.StatusOK, res)
}

func (h *OrderHandler) createFilter(c *gin.Context) (*order.OrdersQuery, error) {
	var params FilterParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	b := order.NewOrdersQueryBuilder()

	id := identityFrom(c)
	switch id.Role {
	case RoleCustomer:
		b.WithCustomerIDs(id.UserID)
	case RoleVendor:
		b.WithVendorIDs(id.UserID)
	}

	if params.EscrowStatus != "" {
		var statuses []order.EscrowStatus
		for _, s := range splitList(params.EscrowStatus) {
			statuses = append(statuses, order.EscrowStatus(s))
		}
		b.WithEscrowStatuses(statuses...)
	}
	if params.PaymentMethod != "" {
		var methods []order.PaymentMethod
		for _, m := range splitList(params.PaymentMethod) {
			methods = append(methods, order.PaymentMethod(m))
		}
		b.WithPaymentMethods(methods...)
	}
	if params.CommissionStatus != "" {
		var statuses []order.CommissionStatus
		for _, s := range splitList(params.CommissionStatus) {
			statuses = append(statuses, order.CommissionStatus(s))
		}
		b.WithCommissionStatuses(statuses...)
	}
	if params.PaymentID != "" {
		b.WithPaymentIDs(splitList(params.PaymentID)...)
	}
	if params.PageSize > 0 {
		page := params.PageNumber
		if page == 0 {
			page = 1
		}
		b.WithPagination(params.PageSize, page)
	}
	if params.SortBy != "" {
		sortOrder := params.SortOrder
		if sortOrder == "" {
			sortOrder = "desc"
		}
		b.WithSort(params.SortBy, sortOrder)
	}

	query, err := b.Build()
	if err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, err, "build orders query")
	}
	return query, nil
}

func canSeeOrder(id Identity, o order.Order) bool {
	switch id.Role {
	case RoleAdmin:
		return true
	case RoleVendor:
		return o.VendorID == id.UserID
	default:
		return o.CustomerID == id.UserID
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
