package repository

import (
	"context"
	"time"

	"github.com/eventure-dev/eventure-api/internal/entity"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id int64) (*entity.Booking, error)
	GetBySessionToken(ctx context.Context, token string) (*entity.Booking, error)
	GetActiveByEventAndUser(ctx context.Context, eventID int64, email string) (*entity.Booking, error)

	// Query operations
	GetByUserEmail(ctx context.Context, email string) ([]*entity.BookingWithEvent, error)
	GetActiveByEvent(ctx context.Context, eventID int64) ([]*entity.Booking, error)
	GetActiveByUser(ctx context.Context, email string) ([]*entity.Booking, error)
	GetOverduePending(ctx context.Context, before time.Time) ([]int64, error)

	// State transitions. All of them are compare-and-set on the current
	// status so concurrent confirm/cancel/expire races resolve to a
	// single winner.
	ConfirmHeld(ctx context.Context, id int64) (bool, error)
	ConfirmWithSeat(ctx context.Context, id int64) (bool, error)
	MoveToWaitlist(ctx context.Context, id int64) (bool, error)
	MarkCancelled(ctx context.Context, id int64, from entity.BookingStatus, at time.Time) (seatHeld bool, ok bool, err error)
	CancelOverduePending(ctx context.Context, id int64, now time.Time) (seatHeld bool, ok bool, err error)
}

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id int64) (*entity.Event, error)
	GetAll(ctx context.Context) ([]*entity.Event, error)
	GetByOrganizer(ctx context.Context, email string) ([]*entity.Event, error)
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	Upsert(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetAll(ctx context.Context) ([]*entity.User, error)

	// Role workflow. Both return the number of rows changed so the
	// caller can report an idempotent no-op as modifiedCount 0.
	RequestManager(ctx context.Context, email string) (int64, error)
	ApproveManager(ctx context.Context, id int64) (int64, error)

	Delete(ctx context.Context, id int64) (bool, error)
}
