package webhook

import (
	"context"
	"fmt"

	"marketplace/internal/domain/payment"
	"marketplace/internal/messaging"
)

// AsyncProcessor publishes webhooks to Kafka for the payment event consumer.
type AsyncProcessor struct {
	publisher messaging.Publisher
}

func NewAsyncProcessor(publisher messaging.Publisher) *AsyncProcessor {
	return &AsyncProcessor{publisher: publisher}
}

// ProcessPaymentEvent keys the envelope by intent ID so every event of one
// payment lands on the same partition and is applied in order.
func (p *AsyncProcessor) ProcessPaymentEvent(ctx context.Context, event payment.WebhookEvent) error {
	envelope, err := messaging.NewEnvelope(event.IntentID, messaging.TypePaymentWebhook, event)
	if err != nil {
		return fmt.Errorf("create envelope: %w", err)
	}
	return p.publisher.Publish(ctx, envelope)
}
