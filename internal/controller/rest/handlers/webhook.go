package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"marketplace/internal/external/gateway"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	verifier  SignatureVerifier
	processor WebhookProcessor
}

func NewWebhookHandler(verifier SignatureVerifier, processor WebhookProcessor) WebhookHandler {
	return WebhookHandler{verifier: verifier, processor: processor}
}

// Payments receives gateway notifications. Once the signature checks out the
// gateway always gets a 200; processing failures are logged and left for the
// status poll or admin recovery to pick up.
func (h *WebhookHandler) Payments(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.verifier.VerifyWebhookSignature(body, c.GetHeader(gateway.SignatureHeader)); err != nil {
		slog.WarnContext(ctx, "Rejected webhook with invalid signature", slog.Any("error", err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	event, err := gateway.ParseEvent(body)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to parse webhook event", slog.Any("error", err))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.processor.ProcessPaymentEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to process webhook event",
			"event_id", event.ID,
			"event_type", event.Type,
			"intent_id", event.IntentID,
			slog.Any("error", err))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
