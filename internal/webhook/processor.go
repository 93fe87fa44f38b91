package webhook

import (
	"context"

	"marketplace/internal/domain/payment"
)

// Processor defines the interface for processing verified gateway webhooks.
// Implementations can handle them synchronously or hand them to Kafka.
type Processor interface {
	ProcessPaymentEvent(ctx context.Context, event payment.WebhookEvent) error
}

// EventHandler applies a webhook event to the payment record.
type EventHandler interface {
	HandleWebhookEvent(ctx context.Context, event payment.WebhookEvent) error
}
