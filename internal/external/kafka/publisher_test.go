package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"marketplace/internal/messaging"
	"marketplace/pkg/correlation"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublisher_Publish(t *testing.T) {
	t.Run("should key by envelope key and forward correlation id", func(t *testing.T) {
		w := &recordingWriter{}
		env, err := messaging.NewEnvelope("pi_123", messaging.TypePaymentWebhook, map[string]string{"id": "evt_1"})
		require.NoError(t, err)
		ctx := correlation.WithID(context.Background(), "corr-1")

		err = newPublisher(w, "webhooks.payments").Publish(ctx, env)

		require.NoError(t, err)
		require.Len(t, w.msgs, 1)
		assert.Equal(t, "pi_123", string(w.msgs[0].Key))
		assert.Equal(t, "corr-1", header(w.msgs[0], correlation.KafkaHeaderName))
		assert.Equal(t, messaging.TypePaymentWebhook, header(w.msgs[0], "type"))

		var decoded messaging.Envelope
		require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
		assert.Equal(t, env.EventID, decoded.EventID)
	})

	t.Run("should wrap writer errors", func(t *testing.T) {
		w := &recordingWriter{err: errors.New("leader not available")}

		err := newPublisher(w, "webhooks.payments").Publish(context.Background(), messaging.Envelope{Key: "k"})

		assert.EqualError(t, err, "write message: leader not available")
	})
}

func TestDLQPublisher_PublishToDLQ(t *testing.T) {
	w := &recordingWriter{}
	p := newDLQPublisher(w, "webhooks.payments.dlq")
	p.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	err := p.PublishToDLQ(context.Background(), []byte("pi_1"), []byte("{}"), errors.New("boom"))

	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "boom", header(w.msgs[0], "error"))
	assert.Equal(t, "2026-03-01T10:00:00Z", header(w.msgs[0], "failed_at"))
}
