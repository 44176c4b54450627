package service

import (
	"context"
	"fmt"
	"time"

	repository "github.com/eventure-dev/eventure-api/internal/database/postgres"
	"github.com/eventure-dev/eventure-api/internal/entity"
	"github.com/eventure-dev/eventure-api/internal/ledger"

	"github.com/sirupsen/logrus"
)

// CreateEventRequest represents the data needed to create an event
type CreateEventRequest struct {
	Title          string    `json:"title" binding:"required,min=1,max=255"`
	Description    string    `json:"description" binding:"max=2000"`
	Location       string    `json:"location" binding:"max=255"`
	Category       string    `json:"category" binding:"max=100"`
	Image          string    `json:"image"`
	Price          int64     `json:"price"`
	Date           time.Time `json:"date" binding:"required"`
	TotalSeats     int       `json:"total_seats" binding:"required,min=1,max=100000"`
	OrganizerName  string    `json:"organizer_name"`
	OrganizerEmail string    `json:"organizer_email" binding:"required,email"`
}

// EventDeletionResult reports what an event deletion actually did so
// the caller can distinguish a clean delete from a cascade.
type EventDeletionResult struct {
	Success           bool `json:"success"`
	CancelledBookings int  `json:"cancelled_bookings"`
}

type eventService struct {
	eventRepo   repository.EventRepository
	bookingRepo repository.BookingRepository
	seats       ledger.SeatLedger
	now         func() time.Time
}

func NewEventService(
	eventRepo repository.EventRepository,
	bookingRepo repository.BookingRepository,
	seats ledger.SeatLedger,
) EventService {
	return &eventService{
		eventRepo:   eventRepo,
		bookingRepo: bookingRepo,
		seats:       seats,
		now:         time.Now,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, req *CreateEventRequest) (*entity.Event, error) {
	if req.Date.Before(s.now()) {
		return nil, entity.ErrEventDatePast
	}
	if req.TotalSeats <= 0 {
		return nil, entity.ErrInvalidSeats
	}
	if req.Price < 0 {
		return nil, entity.ErrInvalidPrice
	}

	event := &entity.Event{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		Category:       req.Category,
		Image:          req.Image,
		Price:          req.Price,
		Date:           req.Date,
		TotalSeats:     req.TotalSeats,
		OrganizerName:  req.OrganizerName,
		OrganizerEmail: req.OrganizerEmail,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event_id":  event.ID,
		"organizer": event.OrganizerEmail,
		"seats":     event.TotalSeats,
	}).Info("Event created")

	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*entity.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) GetAllEvents(ctx context.Context) ([]*entity.Event, error) {
	events, err := s.eventRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all events: %w", err)
	}
	return events, nil
}

func (s *eventService) GetEventsByOrganizer(ctx context.Context, email string) ([]*entity.Event, error) {
	events, err := s.eventRepo.GetByOrganizer(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get events by organizer: %w", err)
	}
	return events, nil
}

// GetEventAvailability reads the live seat counter.
func (s *eventService) GetEventAvailability(ctx context.Context, id int64) (int, error) {
	return s.seats.Peek(ctx, id)
}

// DeleteEvent cancels every remaining booking, then removes the event.
// Confirmed and waitlisted bookings get the full price back regardless
// of the refund window: the operator pulled the event, not the user.
// Seats are not individually released since the counter disappears
// with the event row.
func (s *eventService) DeleteEvent(ctx context.Context, id int64) (*EventDeletionResult, error) {
	if _, err := s.eventRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.GetActiveByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list event bookings: %w", err)
	}

	now := s.now()
	cancelled := 0
	for _, booking := range bookings {
		_, ok, err := s.bookingRepo.MarkCancelled(ctx, booking.ID, booking.Status, now)
		if err != nil {
			return nil, fmt.Errorf("failed to cancel booking %d: %w", booking.ID, err)
		}
		if !ok {
			continue
		}

		if booking.Status == entity.BookingStatusConfirmed || booking.Status == entity.BookingStatusWaitlist {
			refund := entity.FullBreakdown(booking.PricePaid)
			logrus.WithFields(logrus.Fields{
				"booking_id":    booking.ID,
				"user_email":    booking.UserEmail,
				"refund_amount": refund.RefundAmount,
			}).Info("Booking refunded for event deletion")
		}
		cancelled++
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"event_id":           id,
		"cancelled_bookings": cancelled,
	}).Info("Event deleted")

	return &EventDeletionResult{Success: true, CancelledBookings: cancelled}, nil
}
