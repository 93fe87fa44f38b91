package payment

import "marketplace/pkg/apperror"

var (
	ErrNotFound        = apperror.New(apperror.KindNotFound, "payment not found")
	ErrInvalidDetails  = apperror.New(apperror.KindValidation, "invalid payment details")
	ErrDuplicateKey    = apperror.New(apperror.KindConflict, "payment with this idempotency key already exists")
	ErrStatusChanged   = apperror.New(apperror.KindConflict, "payment status changed concurrently")
	ErrInvalidStatus   = apperror.New(apperror.KindConflict, "payment status does not allow this operation")
	ErrNotCancellable  = apperror.New(apperror.KindConflict, "payment is already final and cannot be cancelled")
	ErrExpired         = apperror.New(apperror.KindValidation, "payment has expired")
	ErrUnsupportedType = apperror.New(apperror.KindValidation, "operation is not supported for this payment type")

	ErrNotRefundable        = apperror.New(apperror.KindValidation, "payment has not succeeded and cannot be refunded")
	ErrRefundExceedsAmount  = apperror.New(apperror.KindValidation, "refund amount exceeds the refundable balance")
	ErrMissingCharge        = apperror.New(apperror.KindValidation, "payment has no gateway charge to refund")
	ErrOrderRefundExists    = apperror.New(apperror.KindConflict, "a different refund already exists for this order")
	ErrAlreadyMaterialized  = apperror.New(apperror.KindConflict, "orders were already created for this payment")
	ErrNotSucceeded         = apperror.New(apperror.KindValidation, "payment has not succeeded")
	ErrMaterializationBusy  = apperror.New(apperror.KindConflict, "order creation is already in progress for this payment")
	ErrUnknownWebhookIntent = apperror.New(apperror.KindNotFound, "webhook references an unknown payment intent")
	ErrCapturedAfterClose   = apperror.New(apperror.KindConflict, "gateway captured a payment that was already closed")
)
