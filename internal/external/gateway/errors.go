package gateway

import "marketplace/pkg/apperror"

var (
	// ErrUnavailable covers 5xx responses, timeouts and transport failures.
	// Only these are retried.
	ErrUnavailable = apperror.New(apperror.KindExternal, "payment gateway unavailable")

	// ErrRejected is a 4xx answer: the request itself is wrong and retrying will not help.
	ErrRejected = apperror.New(apperror.KindValidation, "payment gateway rejected the request")

	ErrNotFound         = apperror.New(apperror.KindNotFound, "payment gateway resource not found")
	ErrInvalidSignature = apperror.New(apperror.KindValidation, "invalid webhook signature")
	ErrMetadataTooLarge = apperror.New(apperror.KindValidation, "gateway metadata exceeds 50 keys")
	ErrMalformedEvent   = apperror.New(apperror.KindValidation, "malformed webhook event")
)
