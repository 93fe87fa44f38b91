package message

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"marketplace/internal/domain/payment"
	"marketplace/internal/messaging"
	"marketplace/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handlerFunc func(ctx context.Context, event payment.WebhookEvent) error

func (f handlerFunc) HandleWebhookEvent(ctx context.Context, event payment.WebhookEvent) error {
	return f(ctx, event)
}

func envelopeBytes(t *testing.T, msgType string, payload any) []byte {
	t.Helper()
	env, err := messaging.NewEnvelope("pi_1", msgType, payload)
	require.NoError(t, err)
	b, err := json.Marshal(env)
	require.NoError(t, err)
	return b
}

func TestPaymentMessageController_HandleMessage(t *testing.T) {
	ctx := context.Background()
	event := payment.WebhookEvent{ID: "evt_1", Type: payment.EventPaymentPaid, IntentID: "pi_1"}

	t.Run("applies decoded event", func(t *testing.T) {
		var got payment.WebhookEvent
		c := NewPaymentMessageController(handlerFunc(func(_ context.Context, e payment.WebhookEvent) error {
			got = e
			return nil
		}))

		err := c.HandleMessage(ctx, []byte("pi_1"), envelopeBytes(t, messaging.TypePaymentWebhook, event))

		require.NoError(t, err)
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, payment.EventPaymentPaid, got.Type)
	})

	t.Run("acknowledges unknown intent", func(t *testing.T) {
		c := NewPaymentMessageController(handlerFunc(func(context.Context, payment.WebhookEvent) error {
			return fmt.Errorf("%w: pi_1", payment.ErrUnknownWebhookIntent)
		}))

		err := c.HandleMessage(ctx, nil, envelopeBytes(t, messaging.TypePaymentWebhook, event))

		assert.NoError(t, err)
	})

	t.Run("returns processing error for retry", func(t *testing.T) {
		c := NewPaymentMessageController(handlerFunc(func(context.Context, payment.WebhookEvent) error {
			return assert.AnError
		}))

		err := c.HandleMessage(ctx, nil, envelopeBytes(t, messaging.TypePaymentWebhook, event))

		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("classifies malformed message as validation", func(t *testing.T) {
		c := NewPaymentMessageController(handlerFunc(func(context.Context, payment.WebhookEvent) error {
			t.Fatal("handler must not be called")
			return nil
		}))

		err := c.HandleMessage(ctx, nil, []byte("{not json"))

		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("skips other message types", func(t *testing.T) {
		c := NewPaymentMessageController(handlerFunc(func(context.Context, payment.WebhookEvent) error {
			t.Fatal("handler must not be called")
			return nil
		}))

		err := c.HandleMessage(ctx, nil, envelopeBytes(t, "order.webhook", event))

		assert.NoError(t, err)
	})
}
