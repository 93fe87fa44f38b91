package payment

import (
	"errors"
	"slices"
)

type Status string

const (
	StatusPending           Status = "pending"
	StatusAwaitingPayment   Status = "awaiting_payment"
	StatusProcessing        Status = "processing"
	StatusSucceeded         Status = "succeeded"
	StatusFailed            Status = "failed"
	StatusCancelled         Status = "cancelled"
	StatusRefunded          Status = "refunded"
	StatusPartiallyRefunded Status = "partially_refunded"
)

var AvailableStatuses = []Status{
	StatusPending, StatusAwaitingPayment, StatusProcessing, StatusSucceeded,
	StatusFailed, StatusCancelled, StatusRefunded, StatusPartiallyRefunded,
}

// CancellableStatuses are the only sources a cancellation may start from.
var CancellableStatuses = []Status{StatusPending, StatusAwaitingPayment, StatusProcessing}

// RefundableStatuses are the statuses an original payment must be in to accept a refund.
var RefundableStatuses = []Status{StatusSucceeded, StatusPartiallyRefunded}

func (s Status) CanBeUpdatedTo(newStatus Status) bool {
	switch s {
	case StatusPending:
		return slices.Contains([]Status{StatusAwaitingPayment, StatusProcessing, StatusSucceeded, StatusFailed, StatusCancelled}, newStatus)
	case StatusAwaitingPayment:
		return slices.Contains([]Status{StatusProcessing, StatusSucceeded, StatusFailed, StatusCancelled}, newStatus)
	case StatusProcessing:
		return slices.Contains([]Status{StatusSucceeded, StatusFailed, StatusCancelled}, newStatus)
	case StatusSucceeded:
		return slices.Contains([]Status{StatusPartiallyRefunded, StatusRefunded}, newStatus)
	case StatusPartiallyRefunded:
		return slices.Contains([]Status{StatusPartiallyRefunded, StatusRefunded}, newStatus)
	case StatusFailed, StatusCancelled, StatusRefunded:
		return false
	default:
		return false
	}
}

// IsFinal reports whether the gateway can no longer move the payment.
// Refund states hang off succeeded and are final for the same reason.
func (s Status) IsFinal() bool {
	return slices.Contains([]Status{StatusSucceeded, StatusFailed, StatusCancelled, StatusRefunded, StatusPartiallyRefunded}, s)
}

func NewStatus(raw string) (Status, error) {
	if slices.Contains(AvailableStatuses, Status(raw)) {
		return Status(raw), nil
	}
	return "", errors.New("invalid payment status")
}

// StatusFromGateway maps a gateway intent status onto the payment vocabulary.
func StatusFromGateway(raw string) (Status, bool) {
	switch raw {
	case "awaiting_payment_method":
		return StatusAwaitingPayment, true
	case "awaiting_next_action", "processing":
		return StatusProcessing, true
	case "succeeded", "paid":
		return StatusSucceeded, true
	case "failed", "payment_failed":
		return StatusFailed, true
	case "cancelled", "canceled":
		return StatusCancelled, true
	default:
		return "", false
	}
}
