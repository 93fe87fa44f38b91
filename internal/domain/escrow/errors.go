package escrow

import "marketplace/pkg/apperror"

var (
	ErrNotHeld             = apperror.New(apperror.KindValidation, "Payment is not held in escrow")
	ErrNoRefundRequest     = apperror.New(apperror.KindValidation, "No pending refund request")
	ErrHoldReasonRequired  = apperror.New(apperror.KindValidation, "hold reason is required")
	ErrRejectReasonMissing = apperror.New(apperror.KindValidation, "rejection reason is required")
	ErrNotRequester        = apperror.New(apperror.KindValidation, "only the customer who requested the refund can cancel it")
	ErrNotHoldable         = apperror.New(apperror.KindValidation, "escrow can only be held from held or refund_requested")
	ErrStatusChanged       = apperror.New(apperror.KindConflict, "escrow status changed concurrently")
	ErrInvalidCursor       = apperror.New(apperror.KindValidation, "invalid cursor")
)
