package webhook

import (
	"context"

	"marketplace/internal/domain/payment"
)

// SyncProcessor processes webhooks inline by calling the payment service.
type SyncProcessor struct {
	handler EventHandler
}

func NewSyncProcessor(handler EventHandler) *SyncProcessor {
	return &SyncProcessor{handler: handler}
}

func (p *SyncProcessor) ProcessPaymentEvent(ctx context.Context, event payment.WebhookEvent) error {
	return p.handler.HandleWebhookEvent(ctx, event)
}
