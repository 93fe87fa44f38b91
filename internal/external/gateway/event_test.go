package gateway

import (
	"testing"
	"time"

	"marketplace/internal/domain/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	t.Run("should decode paid event", func(t *testing.T) {
		body := []byte(`{"data":{"id":"evt_1","type":"event","attributes":{
			"type":"payment.paid","livemode":false,"created_at":1772359200,
			"data":{"id":"pay_1","attributes":{"amount":25000,"fee":875,"status":"paid","payment_intent_id":"pi_123"}}}}}`)

		ev, err := ParseEvent(body)

		require.NoError(t, err)
		assert.Equal(t, "evt_1", ev.ID)
		assert.Equal(t, payment.EventPaymentPaid, ev.Type)
		assert.Equal(t, "pi_123", ev.IntentID)
		assert.Equal(t, "pay_1", ev.ChargeID)
		assert.Equal(t, int64(875), ev.Fee)
		assert.Equal(t, time.Unix(1772359200, 0).UTC(), ev.OccurredAt)
	})

	t.Run("should decode failure reason", func(t *testing.T) {
		body := []byte(`{"data":{"id":"evt_2","attributes":{"type":"payment.failed",
			"data":{"id":"pay_2","attributes":{"status":"failed","failed_message":"card declined","payment_intent_id":"pi_9"}}}}}`)

		ev, err := ParseEvent(body)

		require.NoError(t, err)
		assert.Equal(t, payment.EventPaymentFailed, ev.Type)
		assert.Equal(t, "card declined", ev.FailureReason)
	})

	t.Run("should reject malformed body", func(t *testing.T) {
		_, err := ParseEvent([]byte(`{"data":`))
		assert.ErrorIs(t, err, ErrMalformedEvent)

		_, err = ParseEvent([]byte(`{"data":{"attributes":{}}}`))
		assert.ErrorIs(t, err, ErrMalformedEvent)
	})
}
