package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/domain/payment"
)

type eventAttributes struct {
	Type      string                     `json:"type"`
	LiveMode  bool                       `json:"livemode"`
	CreatedAt int64                      `json:"created_at"`
	Data      resource[chargeAttributes] `json:"data"`
}

// ParseEvent decodes a webhook body. Call it only after the signature has
// been verified.
func ParseEvent(body []byte) (payment.WebhookEvent, error) {
	var env envelope[eventAttributes]
	if err := json.Unmarshal(body, &env); err != nil {
		return payment.WebhookEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	a := env.Data.Attributes
	if env.Data.ID == "" || a.Type == "" {
		return payment.WebhookEvent{}, fmt.Errorf("%w: event id and type are required", ErrMalformedEvent)
	}

	charge := a.Data
	ev := payment.WebhookEvent{
		ID:            env.Data.ID,
		Type:          payment.EventType(a.Type),
		IntentID:      charge.Attributes.PaymentIntentID,
		ChargeID:      charge.ID,
		Fee:           charge.Attributes.Fee,
		FailureReason: charge.Attributes.FailedMessage,
		Raw:           json.RawMessage(body),
	}
	if a.CreatedAt > 0 {
		ev.OccurredAt = time.Unix(a.CreatedAt, 0).UTC()
	}
	return ev, nil
}
