package service

import (
	"context"
	"time"

	"github.com/eventure-dev/eventure-api/internal/entity"
)

// BookingService is the booking lifecycle engine: checkout initiation,
// payment confirmation, cancellation with refund tiering, and expiry
// of abandoned holds.
type BookingService interface {
	CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error)
	ConfirmBooking(ctx context.Context, sessionToken string) (*entity.Booking, error)
	CancelBooking(ctx context.Context, bookingID int64) (*CancellationResult, error)
	GetUserBookings(ctx context.Context, email string) ([]*entity.BookingWithEvent, error)

	// Expiration operations
	ExpireBooking(ctx context.Context, bookingID int64) error
	ReclaimAbandoned(ctx context.Context) (int, error)
}

type EventService interface {
	CreateEvent(ctx context.Context, req *CreateEventRequest) (*entity.Event, error)
	GetEvent(ctx context.Context, id int64) (*entity.Event, error)
	GetAllEvents(ctx context.Context) ([]*entity.Event, error)
	GetEventsByOrganizer(ctx context.Context, email string) ([]*entity.Event, error)
	GetEventAvailability(ctx context.Context, id int64) (int, error)
	DeleteEvent(ctx context.Context, id int64) (*EventDeletionResult, error)
}

// UserService covers login sync and the user→manager promotion
// workflow. RequestManager and ApproveManager return the number of
// rows actually changed so repeated calls read as no-ops.
type UserService interface {
	UpsertUser(ctx context.Context, req *UpsertUserRequest) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetAllUsers(ctx context.Context) ([]*entity.User, error)
	RequestManager(ctx context.Context, email string) (int64, error)
	ApproveManager(ctx context.Context, id int64) (int64, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
}

// TaskPublisher publishes delayed work to the queue.
type TaskPublisher interface {
	Publish(ctx context.Context, task *Task) error
}

// Task is a unit of queued work.
type Task struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	ExecuteAt  time.Time              `json:"execute_at"`
	MaxRetries int                    `json:"max_retries"`
	Attempts   int                    `json:"attempts"`
}

const (
	TaskTypeExpireBooking    = "expire_booking"
	TaskTypeReclaimAbandoned = "reclaim_abandoned"
)
