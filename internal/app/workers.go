package app

import (
	"context"
	"log/slog"

	"marketplace/config"
	"marketplace/internal/controller/message"
	"marketplace/internal/external/kafka"
	"marketplace/internal/messaging"
	"marketplace/internal/webhook"
)

// StartWorkers consumes queued webhook events and hands them to the payment
// service. It returns immediately; consumers stop when ctx is cancelled.
func StartWorkers(ctx context.Context, cfg config.Config, payments webhook.EventHandler) {
	dlq := kafka.NewDLQPublisher(cfg.KafkaBrokers, cfg.KafkaPaymentEventsDLQTopic)

	controller := message.NewPaymentMessageController(payments)
	handler := messaging.WithMetrics(
		cfg.KafkaPaymentEventsTopic,
		cfg.KafkaPaymentEventsConsumerGroup,
		messaging.WithDLQ(
			messaging.WithRetry(controller.HandleMessage, messaging.DefaultRetryConfig()),
			dlq,
		),
	)

	consumer := kafka.NewConsumer(
		cfg.KafkaBrokers,
		cfg.KafkaPaymentEventsTopic,
		cfg.KafkaPaymentEventsConsumerGroup,
	)
	runner := messaging.NewRunner([]messaging.Worker{consumer}, handler)

	go func() {
		defer dlq.Close()

		slog.Info("Starting payment webhook consumer",
			"topic", cfg.KafkaPaymentEventsTopic,
			"group", cfg.KafkaPaymentEventsConsumerGroup)
		if err := runner.Start(ctx); err != nil {
			slog.Error("Payment webhook runner failed", slog.Any("error", err))
		}
	}()
}
