package inventory

import (
	"context"
	"errors"
	"testing"

	"marketplace/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestApplyToOptions(t *testing.T) {
	t.Parallel()

	options := []Option{{ID: "red", Stock: 3, Sold: 1}, {ID: "blue", Stock: 0, Sold: 5}}

	testCases := []struct {
		name       string
		optionID   string
		stockDelta int
		soldDelta  int
		expected   []Option
		expectErr  error
	}{
		{
			name:       "should reserve from option",
			optionID:   "red",
			stockDelta: -2,
			soldDelta:  2,
			expected:   []Option{{ID: "red", Stock: 1, Sold: 3}, {ID: "blue", Stock: 0, Sold: 5}},
		},
		{
			name:       "should reserve the last unit",
			optionID:   "red",
			stockDelta: -3,
			soldDelta:  3,
			expected:   []Option{{ID: "red", Stock: 0, Sold: 4}, {ID: "blue", Stock: 0, Sold: 5}},
		},
		{
			name:       "should reject reservation below zero",
			optionID:   "blue",
			stockDelta: -1,
			soldDelta:  1,
			expectErr:  ErrInsufficientStock,
		},
		{
			name:       "should reject unknown option",
			optionID:   "green",
			stockDelta: 1,
			expectErr:  ErrInsufficientStock,
		},
		{
			name:       "should release reservation",
			optionID:   "blue",
			stockDelta: 2,
			soldDelta:  -2,
			expected:   []Option{{ID: "red", Stock: 3, Sold: 1}, {ID: "blue", Stock: 2, Sold: 3}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			got, err := ApplyToOptions(options, tc.optionID, tc.stockDelta, tc.soldDelta)

			// then
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	assert.Equal(t, 3, options[0].Stock, "input must not be mutated")
}

func TestLine_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Line{ProductID: "p1", Quantity: 1}.Validate())
	assert.True(t, apperror.IsKind(Line{ProductID: "p1"}.Validate(), apperror.KindValidation))
	assert.True(t, apperror.IsKind(Line{Quantity: 2}.Validate(), apperror.KindValidation))
}

func TestService_AdjustStock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("should delegate to ledger", func(t *testing.T) {
		ledger := NewMockLedger(gomock.NewController(t))
		ledger.EXPECT().Adjust(ctx, "p1", "red", -2).Return(nil)

		err := NewService(ledger, NewMockOwners(gomock.NewController(t))).AdjustStock(ctx, Adjustment{ProductID: "p1", OptionID: "red", Delta: -2})

		assert.NoError(t, err)
	})

	t.Run("should surface insufficient stock", func(t *testing.T) {
		ledger := NewMockLedger(gomock.NewController(t))
		ledger.EXPECT().Adjust(ctx, "p1", "", -5).Return(ErrInsufficientStock)

		err := NewService(ledger, NewMockOwners(gomock.NewController(t))).AdjustStock(ctx, Adjustment{ProductID: "p1", Delta: -5})

		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("should adjust products sold by the vendor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ledger := NewMockLedger(ctrl)
		owners := NewMockOwners(ctrl)
		owners.EXPECT().ProductVendor(ctx, "p1").Return("vendor-a", nil)
		ledger.EXPECT().Adjust(ctx, "p1", "", 4).Return(nil)

		err := NewService(ledger, owners).AdjustStock(ctx, Adjustment{ProductID: "p1", Delta: 4, ActorID: "vendor-a", VendorID: "vendor-a"})

		assert.NoError(t, err)
	})

	t.Run("should refuse to touch another vendor's product", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ledger := NewMockLedger(ctrl)
		owners := NewMockOwners(ctrl)
		owners.EXPECT().ProductVendor(ctx, "p1").Return("vendor-b", nil)

		err := NewService(ledger, owners).AdjustStock(ctx, Adjustment{ProductID: "p1", Delta: -3, ActorID: "vendor-a", VendorID: "vendor-a"})

		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("should surface unknown products", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ledger := NewMockLedger(ctrl)
		owners := NewMockOwners(ctrl)
		owners.EXPECT().ProductVendor(ctx, "missing").Return("", ErrProductNotFound)

		err := NewService(ledger, owners).AdjustStock(ctx, Adjustment{ProductID: "missing", Delta: 1, VendorID: "vendor-a"})

		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("should reject zero delta", func(t *testing.T) {
		ledger := NewMockLedger(gomock.NewController(t))

		err := NewService(ledger, NewMockOwners(gomock.NewController(t))).AdjustStock(ctx, Adjustment{ProductID: "p1"})

		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
		assert.False(t, errors.Is(err, ErrInsufficientStock))
	})
}
