package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBookingStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    BookingStatus
		wantErr bool
	}{
		{name: "pending", input: "pending", want: BookingStatusPending},
		{name: "confirmed", input: "confirmed", want: BookingStatusConfirmed},
		{name: "waitlist", input: "waitlist", want: BookingStatusWaitlist},
		{name: "cancelled", input: "cancelled", want: BookingStatusCancelled},
		{name: "unknown rejected", input: "expired", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := ParseBookingStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidBookingStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestBookingStatusIsActive(t *testing.T) {
	assert.True(t, BookingStatusPending.IsActive())
	assert.True(t, BookingStatusConfirmed.IsActive())
	assert.True(t, BookingStatusWaitlist.IsActive())
	assert.False(t, BookingStatusCancelled.IsActive())
}
