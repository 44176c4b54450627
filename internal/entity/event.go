package entity

import (
	"time"
)

// Event carries a live seat counter. available_seats is the single
// source of truth for remaining capacity; total_seats never changes
// after creation.
type Event struct {
	ID             int64     `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	Description    string    `json:"description" db:"description"`
	Location       string    `json:"location" db:"location"`
	Category       string    `json:"category" db:"category"`
	Image          string    `json:"image" db:"image"`
	Price          int64     `json:"price" db:"price"`
	Date           time.Time `json:"date" db:"date"`
	TotalSeats     int       `json:"total_seats" db:"total_seats"`
	AvailableSeats int       `json:"available_seats" db:"available_seats"`
	OrganizerName  string    `json:"organizer_name" db:"organizer_name"`
	OrganizerEmail string    `json:"organizer_email" db:"organizer_email"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
