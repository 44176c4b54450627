package service

import (
	"context"
	"testing"
	"time"

	"github.com/eventure-dev/eventure-api/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEventFixture(t *testing.T) (*eventService, *bookingFixture) {
	t.Helper()
	f := newBookingFixture(t)
	svc := NewEventService(f.events, f.bookings, f.seats).(*eventService)
	svc.now = f.svc.now
	return svc, f
}

func TestCreateEventValidation(t *testing.T) {
	svc, f := newEventFixture(t)
	future := f.now.Add(200 * time.Hour)

	tests := []struct {
		name    string
		req     *CreateEventRequest
		wantErr error
	}{
		{
			name: "valid event",
			req: &CreateEventRequest{
				Title:          "Conference",
				Date:           future,
				TotalSeats:     100,
				Price:          5000,
				OrganizerEmail: "org@example.com",
			},
		},
		{
			name: "past date rejected",
			req: &CreateEventRequest{
				Title:          "Conference",
				Date:           f.now.Add(-time.Hour),
				TotalSeats:     100,
				OrganizerEmail: "org@example.com",
			},
			wantErr: entity.ErrEventDatePast,
		},
		{
			name: "zero seats rejected",
			req: &CreateEventRequest{
				Title:          "Conference",
				Date:           future,
				TotalSeats:     0,
				OrganizerEmail: "org@example.com",
			},
			wantErr: entity.ErrInvalidSeats,
		},
		{
			name: "negative price rejected",
			req: &CreateEventRequest{
				Title:          "Conference",
				Date:           future,
				TotalSeats:     10,
				Price:          -1,
				OrganizerEmail: "org@example.com",
			},
			wantErr: entity.ErrInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := svc.CreateEvent(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.req.TotalSeats, event.AvailableSeats)
		})
	}
}

func TestGetEventAvailability(t *testing.T) {
	svc, f := newEventFixture(t)
	event := f.addEvent(t, 3, 1000, f.now.Add(200*time.Hour))

	f.checkout(t, event.ID, "alice@example.com")

	available, err := svc.GetEventAvailability(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, available)

	_, err = svc.GetEventAvailability(context.Background(), 999)
	assert.ErrorIs(t, err, entity.ErrEventNotFound)
}

func TestDeleteEventCancelsAllBookings(t *testing.T) {
	svc, f := newEventFixture(t)
	event := f.addEvent(t, 2, 10000, f.now.Add(time.Hour))

	// One confirmed close to the event, one waitlisted, one pending.
	confirmed := f.checkout(t, event.ID, "alice@example.com")
	_, err := f.svc.ConfirmBooking(context.Background(), confirmed.Booking.SessionToken)
	require.NoError(t, err)

	f.checkout(t, event.ID, "bob@example.com")

	waitlisted := f.checkout(t, event.ID, "carol@example.com")
	_, err = f.svc.ConfirmBooking(context.Background(), waitlisted.Booking.SessionToken)
	require.NoError(t, err)

	result, err := svc.DeleteEvent(context.Background(), event.ID)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.CancelledBookings)

	_, err = f.events.GetByID(context.Background(), event.ID)
	assert.ErrorIs(t, err, entity.ErrEventNotFound)

	for _, id := range []int64{confirmed.Booking.ID, waitlisted.Booking.ID} {
		b, err := f.bookings.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusCancelled, b.Status)
	}
}

func TestDeleteEventNotFound(t *testing.T) {
	svc, _ := newEventFixture(t)

	_, err := svc.DeleteEvent(context.Background(), 42)
	assert.ErrorIs(t, err, entity.ErrEventNotFound)
}
