package payment

import "time"

// StatusView is what buyers see when polling a payment.
type StatusView struct {
	PaymentID     string     `json:"payment_id"`
	IntentID      string     `json:"intent_id,omitempty"`
	Type          Type       `json:"type"`
	Status        Status     `json:"status"`
	IsFinal       bool       `json:"is_final"`
	Amount        int64      `json:"amount"`
	Fee           int64      `json:"fee"`
	NetAmount     int64      `json:"net_amount"`
	Currency      string     `json:"currency"`
	FailureReason string     `json:"failure_reason,omitempty"`
	OrdersCreated bool       `json:"orders_created"`
	OrderIDs      []string   `json:"order_ids,omitempty"`
	OrderError    string     `json:"order_creation_error,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

func NewStatusView(p Payment) StatusView {
	v := StatusView{
		PaymentID:     p.ID,
		IntentID:      p.IntentID,
		Type:          p.Type,
		Status:        p.Status,
		IsFinal:       p.IsFinal || p.Status.IsFinal(),
		Amount:        p.Amount,
		Fee:           p.Fee,
		NetAmount:     p.NetAmount,
		Currency:      p.Currency,
		FailureReason: p.FailureReason,
		OrdersCreated: p.OrdersCreated,
		OrderIDs:      p.OrderIDs,
		PaidAt:        p.PaidAt,
		ExpiresAt:     p.ExpiresAt,
	}
	// the lock sentinel is internal bookkeeping
	if !p.MaterializationLocked() {
		v.OrderError = p.OrderCreationError
	}
	return v
}
