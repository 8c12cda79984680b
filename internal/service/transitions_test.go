package service

import (
	"errors"
	"testing"

	"github.com/nvlasov/cottage-booking/internal/apperr"
	"github.com/nvlasov/cottage-booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		current model.BookingStatus
		action  Action
		want    model.BookingStatus
		wantErr string
	}{
		{current: model.BookingStatusPending, action: ActionApprove, want: model.BookingStatusConfirmed},
		{current: model.BookingStatusPending, action: ActionReject, want: model.BookingStatusRejected},
		{current: model.BookingStatusPending, action: ActionCancel, want: model.BookingStatusCancelled},
		{current: model.BookingStatusPending, action: ActionRevoke, want: model.BookingStatusCancelled},

		{current: model.BookingStatusConfirmed, action: ActionCancel, want: model.BookingStatusCancelled},
		{current: model.BookingStatusConfirmed, action: ActionRevoke, want: model.BookingStatusCancelled},
		{current: model.BookingStatusConfirmed, action: ActionApprove, wantErr: apperr.CodeInvalidTransition},
		{current: model.BookingStatusConfirmed, action: ActionReject, wantErr: apperr.CodeInvalidTransition},

		{current: model.BookingStatusRejected, action: ActionRevoke, want: model.BookingStatusCancelled},
		{current: model.BookingStatusRejected, action: ActionApprove, wantErr: apperr.CodeInvalidTransition},
		{current: model.BookingStatusRejected, action: ActionCancel, wantErr: apperr.CodeInvalidTransition},

		{current: model.BookingStatusCancelled, action: ActionApprove, wantErr: apperr.CodeAlreadyCancelled},
		{current: model.BookingStatusCancelled, action: ActionCancel, wantErr: apperr.CodeAlreadyCancelled},
		{current: model.BookingStatusCancelled, action: ActionRevoke, wantErr: apperr.CodeAlreadyCancelled},
	}

	for _, tt := range tests {
		t.Run(string(tt.current)+"/"+string(tt.action), func(t *testing.T) {
			next, err := NextStatus(tt.current, tt.action)
			if tt.wantErr != "" {
				require.Error(t, err)
				var appErr *apperr.Error
				require.True(t, errors.As(err, &appErr))
				assert.Equal(t, tt.wantErr, appErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, next)
		})
	}
}
