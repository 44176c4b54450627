package entity

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusWaitlist  BookingStatus = "waitlist"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ParseBookingStatus rejects anything outside the closed status set.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusWaitlist, BookingStatusCancelled:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidBookingStatus, s)
	}
}

// IsActive reports whether the booking still occupies a slot in the
// one-active-booking-per-user-per-event rule.
func (s BookingStatus) IsActive() bool {
	return s != BookingStatusCancelled
}

type Booking struct {
	ID           int64         `json:"id" db:"id"`
	EventID      int64         `json:"event_id" db:"event_id"`
	UserEmail    string        `json:"user_email" db:"user_email"`
	Status       BookingStatus `json:"status" db:"status"`
	PricePaid    int64         `json:"price_paid" db:"price_paid"`
	SeatHeld     bool          `json:"-" db:"seat_held"`
	SessionToken string        `json:"-" db:"session_token"`
	ExpiresAt    time.Time     `json:"expires_at" db:"expires_at"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	CancelledAt  *time.Time    `json:"cancelled_at,omitempty" db:"cancelled_at"`
}

// BookingWithEvent is the projection served to a user's bookings page.
type BookingWithEvent struct {
	Booking
	EventTitle string    `json:"event_title"`
	EventDate  time.Time `json:"event_date"`
	EventImage string    `json:"event_image"`
	Location   string    `json:"location"`
}
