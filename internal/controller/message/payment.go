package message

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"marketplace/internal/domain/payment"
	"marketplace/internal/messaging"
	"marketplace/internal/webhook"
	"marketplace/pkg/apperror"
)

// PaymentMessageController handles payment webhook messages from Kafka.
type PaymentMessageController struct {
	handler webhook.EventHandler
}

func NewPaymentMessageController(handler webhook.EventHandler) *PaymentMessageController {
	return &PaymentMessageController{handler: handler}
}

// HandleMessage processes a single payment webhook message. Undecodable
// messages are classified as validation errors so they skip retries.
func (c *PaymentMessageController) HandleMessage(ctx context.Context, key, value []byte) error {
	var env messaging.Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		slog.ErrorContext(ctx, "Failed to unmarshal envelope", "key", string(key), slog.Any("error", err))
		return apperror.Wrap(apperror.KindValidation, err, "unmarshal envelope")
	}

	if env.Type != messaging.TypePaymentWebhook {
		slog.WarnContext(ctx, "Skipping message of unexpected type", "event_id", env.EventID, "type", env.Type)
		return nil
	}

	var event payment.WebhookEvent
	if err := json.Unmarshal(env.Payload, &event); err != nil {
		slog.ErrorContext(ctx, "Failed to unmarshal webhook payload", "event_id", env.EventID, slog.Any("error", err))
		return apperror.Wrap(apperror.KindValidation, err, "unmarshal webhook")
	}

	if err := c.handler.HandleWebhookEvent(ctx, event); err != nil {
		if errors.Is(err, payment.ErrUnknownWebhookIntent) {
			slog.WarnContext(ctx, "Webhook for unknown intent acknowledged",
				"event_id", env.EventID,
				"intent_id", event.IntentID)
			return nil
		}

		slog.ErrorContext(ctx, "Failed to process payment webhook",
			"event_id", env.EventID,
			"intent_id", event.IntentID,
			slog.Any("error", err))
		return err
	}

	slog.InfoContext(ctx, "Payment webhook processed",
		"event_id", env.EventID,
		"gateway_event_id", event.ID,
		"intent_id", event.IntentID,
		"type", event.Type)
	return nil
}
