package webhook

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"marketplace/internal/domain/payment"
	"marketplace/internal/messaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPublisher captures the last published envelope for assertions.
type mockPublisher struct {
	lastEnvelope messaging.Envelope
	publishErr   error
}

func (m *mockPublisher) Publish(_ context.Context, env messaging.Envelope) error {
	m.lastEnvelope = env
	return m.publishErr
}

func (m *mockPublisher) Close() error {
	return nil
}

type handlerFunc func(ctx context.Context, event payment.WebhookEvent) error

func (f handlerFunc) HandleWebhookEvent(ctx context.Context, event payment.WebhookEvent) error {
	return f(ctx, event)
}

func TestAsyncProcessor(t *testing.T) {
	event := payment.WebhookEvent{
		ID:         "evt_123",
		Type:       payment.EventPaymentPaid,
		IntentID:   "pi_abc",
		ChargeID:   "ch_1",
		OccurredAt: time.Now().UTC(),
	}

	t.Run("uses intent id as partition key", func(t *testing.T) {
		// given
		pub := &mockPublisher{}
		processor := NewAsyncProcessor(pub)

		// when
		err := processor.ProcessPaymentEvent(context.Background(), event)

		// then
		require.NoError(t, err)
		assert.Equal(t, "pi_abc", pub.lastEnvelope.Key)
		assert.Equal(t, messaging.TypePaymentWebhook, pub.lastEnvelope.Type)

		var decoded payment.WebhookEvent
		require.NoError(t, json.Unmarshal(pub.lastEnvelope.Payload, &decoded))
		assert.Equal(t, event.ID, decoded.ID)
		assert.Equal(t, event.ChargeID, decoded.ChargeID)
	})

	t.Run("returns publish error", func(t *testing.T) {
		pub := &mockPublisher{publishErr: assert.AnError}

		err := NewAsyncProcessor(pub).ProcessPaymentEvent(context.Background(), event)

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestSyncProcessor(t *testing.T) {
	var got payment.WebhookEvent
	processor := NewSyncProcessor(handlerFunc(func(_ context.Context, e payment.WebhookEvent) error {
		got = e
		return nil
	}))

	err := processor.ProcessPaymentEvent(context.Background(), payment.WebhookEvent{ID: "evt_1", IntentID: "pi_1"})

	require.NoError(t, err)
	assert.Equal(t, "evt_1", got.ID)
}
