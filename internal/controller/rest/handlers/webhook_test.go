package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"marketplace/internal/domain/payment"
	"marketplace/internal/external/gateway"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const paidEvent = `{"data":{"id":"evt_1","type":"event","attributes":{"type":"payment.paid","livemode":false,"created_at":1760000000,
"data":{"id":"pay_ch_1","type":"payment","attributes":{"amount":25000,"fee":625,"status":"paid","payment_intent_id":"pi_1"}}}}}`

func webhookRouter(h WebhookHandler) http.Handler {
	r := newEngine()
	r.POST("/webhooks/payments", h.Payments)
	return r
}

func TestWebhookHandler_Payments(t *testing.T) {
	t.Run("invalid signature is rejected before processing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		verifier := NewMockSignatureVerifier(ctrl)
		processor := NewMockWebhookProcessor(ctrl)
		h := NewWebhookHandler(verifier, processor)

		verifier.EXPECT().VerifyWebhookSignature([]byte(paidEvent), "").Return(gateway.ErrInvalidSignature)

		w := do(t, webhookRouter(h), http.MethodPost, "/webhooks/payments", anon, paidEvent)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid event is processed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		verifier := NewMockSignatureVerifier(ctrl)
		processor := NewMockWebhookProcessor(ctrl)
		h := NewWebhookHandler(verifier, processor)

		verifier.EXPECT().VerifyWebhookSignature(gomock.Any(), gomock.Any()).Return(nil)
		processor.EXPECT().ProcessPaymentEvent(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, ev payment.WebhookEvent) error {
				assert.Equal(t, "evt_1", ev.ID)
				assert.Equal(t, payment.EventPaymentPaid, ev.Type)
				assert.Equal(t, "pi_1", ev.IntentID)
				assert.Equal(t, int64(625), ev.Fee)
				return nil
			})

		w := do(t, webhookRouter(h), http.MethodPost, "/webhooks/payments", anon, paidEvent)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("processing failure still acknowledges", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		verifier := NewMockSignatureVerifier(ctrl)
		processor := NewMockWebhookProcessor(ctrl)
		h := NewWebhookHandler(verifier, processor)

		verifier.EXPECT().VerifyWebhookSignature(gomock.Any(), gomock.Any()).Return(nil)
		processor.EXPECT().ProcessPaymentEvent(gomock.Any(), gomock.Any()).Return(errors.New("materialization failed"))

		w := do(t, webhookRouter(h), http.MethodPost, "/webhooks/payments", anon, paidEvent)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed body with valid signature", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		verifier := NewMockSignatureVerifier(ctrl)
		h := NewWebhookHandler(verifier, NewMockWebhookProcessor(ctrl))

		verifier.EXPECT().VerifyWebhookSignature(gomock.Any(), gomock.Any()).Return(nil)

		w := do(t, webhookRouter(h), http.MethodPost, "/webhooks/payments", anon, `{"data":{}}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
