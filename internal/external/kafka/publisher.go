package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"marketplace/internal/messaging"
	"marketplace/pkg/correlation"
	"marketplace/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the publishers use.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements messaging.Publisher. Messages are keyed by the
// envelope key so events for one payment intent stay ordered.
type Publisher struct {
	writer messageWriter
	topic  string
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return newPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}, topic)
}

func newPublisher(w messageWriter, topic string) *Publisher {
	return &Publisher{writer: w, topic: topic}
}

func (p *Publisher) Publish(ctx context.Context, env messaging.Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(env.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(env.Type)},
		},
	}
	if corrID := correlation.FromContext(ctx); corrID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: correlation.KafkaHeaderName, Value: []byte(corrID)})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		metrics.KafkaMessagesPublished.WithLabelValues(p.topic, "error").Inc()
		slog.ErrorContext(ctx, "Failed to publish message",
			"topic", p.topic,
			"key", env.Key,
			slog.Any("error", err))
		return fmt.Errorf("write message: %w", err)
	}

	metrics.KafkaMessagesPublished.WithLabelValues(p.topic, "success").Inc()
	slog.DebugContext(ctx, "Message published",
		"topic", p.topic,
		"key", env.Key,
		"event_id", env.EventID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
