package order

import "marketplace/pkg/apperror"

var (
	ErrNotFound          = apperror.New(apperror.KindNotFound, "order not found")
	ErrAlreadyExists     = apperror.New(apperror.KindConflict, "order already exists")
	ErrInvalidQuery      = apperror.New(apperror.KindValidation, "invalid orders query")
	ErrNotMaterializable = apperror.New(apperror.KindValidation, "payment is not a succeeded checkout")
	ErrEmptySnapshot     = apperror.New(apperror.KindValidation, "payment has no checkout items")
	ErrNoVendorGroups    = apperror.New(apperror.KindValidation, "checkout has no items with a vendor")
	ErrNoOrdersCreated   = apperror.New(apperror.KindInternal, "no orders could be created")
)
