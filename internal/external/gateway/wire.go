package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"marketplace/internal/domain/payment"
)

type envelope[T any] struct {
	Data resource[T] `json:"data"`
}

type resource[T any] struct {
	ID         string `json:"id,omitempty"`
	Type       string `json:"type,omitempty"`
	Attributes T      `json:"attributes"`
}

type intentCreateAttributes struct {
	Amount               int64             `json:"amount"`
	Currency             string            `json:"currency"`
	Description          string            `json:"description,omitempty"`
	PaymentMethodAllowed []string          `json:"payment_method_allowed"`
	Metadata             map[string]string `json:"metadata,omitempty"`
	CaptureType          string            `json:"capture_type"`
}

type attachAttributes struct {
	PaymentMethod string `json:"payment_method"`
	ReturnURL     string `json:"return_url,omitempty"`
	ClientKey     string `json:"client_key,omitempty"`
}

type refundAttributes struct {
	Amount    int64             `json:"amount"`
	PaymentID string            `json:"payment_id"`
	Reason    string            `json:"reason"`
	Notes     string            `json:"notes,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Status    string            `json:"status,omitempty"`
}

type intentAttributes struct {
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	Status     string `json:"status"`
	NextAction *struct {
		Type     string `json:"type"`
		Redirect struct {
			URL string `json:"url"`
		} `json:"redirect"`
	} `json:"next_action"`
	Payments         []resource[chargeAttributes] `json:"payments"`
	LastPaymentError *struct {
		FailedCode    string `json:"failed_code"`
		FailedMessage string `json:"failed_message"`
	} `json:"last_payment_error"`
}

type chargeAttributes struct {
	Amount          int64  `json:"amount"`
	Fee             int64  `json:"fee"`
	Status          string `json:"status"`
	PaymentIntentID string `json:"payment_intent_id"`
	FailedMessage   string `json:"failed_message"`
}

func (r resource[T]) raw() json.RawMessage {
	b, _ := json.Marshal(r)
	return b
}

func toIntent(r resource[intentAttributes]) (payment.Intent, error) {
	a := r.Attributes
	status, ok := payment.StatusFromGateway(a.Status)
	if !ok {
		return payment.Intent{}, fmt.Errorf("unknown gateway intent status %q", a.Status)
	}

	intent := payment.Intent{
		ID:        r.ID,
		Status:    status,
		RawStatus: a.Status,
		Raw:       r.raw(),
	}
	if a.NextAction != nil {
		intent.NextActionURL = a.NextAction.Redirect.URL
	}
	if a.LastPaymentError != nil {
		intent.LastError = a.LastPaymentError.FailedMessage
	}
	// the last paid charge carries the ID refunds are issued against
	for _, p := range a.Payments {
		if p.Attributes.Status == "paid" {
			intent.ChargeID = p.ID
			intent.Fee = p.Attributes.Fee
		}
	}
	return intent, nil
}

func errorDetail(body []byte) string {
	var payload struct {
		Errors []struct {
			Code   string `json:"code"`
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Errors) == 0 {
		return strings.TrimSpace(string(body))
	}

	details := make([]string, 0, len(payload.Errors))
	for _, e := range payload.Errors {
		details = append(details, e.Detail)
	}
	return strings.Join(details, "; ")
}
