package handlers

import (
	"net/http"

	"marketplace/internal/domain/payment"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service PaymentService
}

func NewPaymentHandler(s PaymentService) PaymentHandler {
	return PaymentHandler{service: s}
}

type CheckoutRequest struct {
	Description string                   `json:"description"`
	Flow        payment.Flow             `json:"flow" binding:"required"`
	Snapshot    payment.CheckoutSnapshot `json:"snapshot"`
}

func (h *PaymentHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.service.CreateCheckout(c.Request.Context(), payment.CreateCheckoutRequest{
		CustomerID:  identityFrom(c).UserID,
		Description: req.Description,
		Flow:        req.Flow,
		Snapshot:    req.Snapshot,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment.NewStatusView(p))
}

type AttachMethodRequest struct {
	MethodID  string `json:"method_id" binding:"required"`
	ReturnURL string `json:"return_url"`
	ClientKey string `json:"client_key"`
}

func (h *PaymentHandler) Attach(c *gin.Context) {
	var req AttachMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if !h.ownsPayment(c, c.Param("payment_id")) {
		return
	}

	res, err := h.service.AttachMethod(c.Request.Context(), c.Param("payment_id"), payment.AttachRequest{
		MethodID:  req.MethodID,
		ReturnURL: req.ReturnURL,
		ClientKey: req.ClientKey,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment":         payment.NewStatusView(res.Payment),
		"next_action_url": res.NextActionURL,
	})
}

// Status is the buyer poll. The path segment may hold the payment ID or the
// gateway intent ID. Only the paying customer and admins may read it.
func (h *PaymentHandler) Status(c *gin.Context) {
	var ownerID string
	if id := identityFrom(c); id.Role != RoleAdmin {
		ownerID = id.UserID
	}

	view, err := h.service.GetStatus(c.Request.Context(), c.Param("payment_id"), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *PaymentHandler) Cancel(c *gin.Context) {
	paymentID := c.Param("payment_id")
	if !h.ownsPayment(c, paymentID) {
		return
	}

	p, err := h.service.Cancel(c.Request.Context(), paymentID, identityFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment.NewStatusView(p))
}

func (h *PaymentHandler) Recover(c *gin.Context) {
	paymentID := c.Param("payment_id")

	orderIDs, err := h.service.RecoverMaterialization(c.Request.Context(), paymentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment_id": paymentID, "order_ids": orderIDs})
}

type RefundRequest struct {
	Amount  int64  `json:"amount" binding:"required,gt=0"`
	Reason  string `json:"reason" binding:"required"`
	Notes   string `json:"notes"`
	OrderID string `json:"order_id"`
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.service.RequestRefund(c.Request.Context(), payment.RefundRequest{
		PaymentID:   c.Param("payment_id"),
		OrderID:     req.OrderID,
		Amount:      req.Amount,
		Reason:      req.Reason,
		Notes:       req.Notes,
		RequestedBy: identityFrom(c).UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment.NewStatusView(p))
}

type CashInRequest struct {
	WalletID string       `json:"wallet_id" binding:"required"`
	Channel  payment.Flow `json:"channel" binding:"required"`
	Amount   int64        `json:"amount" binding:"required,gt=0"`
}

func (h *PaymentHandler) CashIn(c *gin.Context) {
	var req CashInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.service.CreateCashIn(c.Request.Context(), payment.CashInRequest{
		CustomerID: identityFrom(c).UserID,
		WalletID:   req.WalletID,
		Channel:    req.Channel,
		Amount:     req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment.NewStatusView(p))
}

type WithdrawRequest struct {
	WalletID      string `json:"wallet_id" binding:"required"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	BankCode      string `json:"bank_code" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	AccountName   string `json:"account_name" binding:"required"`
}

func (h *PaymentHandler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.service.CreateWithdraw(c.Request.Context(), payment.WithdrawRequest{
		CustomerID:    identityFrom(c).UserID,
		WalletID:      req.WalletID,
		Amount:        req.Amount,
		BankCode:      req.BankCode,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment.NewStatusView(p))
}

// ownsPayment lets admins through and otherwise requires the caller to be the
// payment's customer. It writes the error response itself.
func (h *PaymentHandler) ownsPayment(c *gin.Context, paymentID string) bool {
	id := identityFrom(c)
	if id.Role == RoleAdmin {
		return true
	}

	p, err := h.service.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if p.CustomerID != id.UserID {
		respondError(c, payment.ErrNotFound)
		return false
	}
	return true
}
