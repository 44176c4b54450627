package entity

import "errors"

var (
	// Event errors
	ErrEventNotFound = errors.New("event not found")
	ErrEventDatePast = errors.New("event date cannot be in the past")
	ErrInvalidSeats  = errors.New("total seats must be positive")
	ErrInvalidPrice  = errors.New("price cannot be negative")

	// Booking errors
	ErrBookingNotFound      = errors.New("booking not found")
	ErrDuplicateBooking     = errors.New("user already has an active booking for this event")
	ErrAlreadyCancelled     = errors.New("booking is already cancelled")
	ErrBookingExpired       = errors.New("booking has expired")
	ErrInvalidBookingStatus = errors.New("invalid booking status")
	ErrInvalidEventDate     = errors.New("event date is missing or malformed")

	// User errors
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidRole   = errors.New("invalid user role")
	ErrInvalidStatus = errors.New("invalid user status")

	// General errors
	ErrInvalidInput     = errors.New("invalid input")
	ErrPermissionDenied = errors.New("permission denied")
)
