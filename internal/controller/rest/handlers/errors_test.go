package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"marketplace/internal/domain/commission"
	"marketplace/internal/domain/escrow"
	"marketplace/internal/domain/payment"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{payment.ErrRefundExceedsAmount, http.StatusUnprocessableEntity},
		{escrow.ErrNotHeld, http.StatusUnprocessableEntity},
		{payment.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("remit: %w", commission.ErrAlreadyRemitted), http.StatusConflict},
		{payment.ErrAlreadyMaterialized, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
