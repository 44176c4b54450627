package service

import (
	"context"
	"fmt"
	"time"

	repository "github.com/eventure-dev/eventure-api/internal/database/postgres"
	"github.com/eventure-dev/eventure-api/internal/entity"
	"github.com/eventure-dev/eventure-api/internal/ledger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CheckoutSessionRequest is the checkout initiation payload. The event
// fields sent by the client are display data only; price and date are
// always re-read from the stored event.
type CheckoutSessionRequest struct {
	EventID   int64  `json:"eventId" binding:"required"`
	UserEmail string `json:"userEmail" binding:"required,email"`
	UserName  string `json:"userName"`
	EventName string `json:"eventName"`
	Image     string `json:"image"`
	Price     int64  `json:"price"`
}

// CheckoutSession is the payment-initiation descriptor: the booking in
// its pending state plus the redirect URL for the payment round-trip.
type CheckoutSession struct {
	Booking *entity.Booking `json:"booking"`
	URL     string          `json:"url"`
}

// CancellationResult carries the refund breakdown and, when the freed
// seat went to a waitlisted booking, who got it.
type CancellationResult struct {
	Booking  *entity.Booking         `json:"booking"`
	Refund   *entity.RefundBreakdown `json:"refund"`
	Promoted *ledger.Promotion       `json:"-"`
}

type bookingService struct {
	bookingRepo     repository.BookingRepository
	eventRepo       repository.EventRepository
	seats           ledger.SeatLedger
	queue           TaskPublisher
	refundPolicy    entity.RefundPolicy
	holdTimeout     time.Duration
	checkoutBaseURL string
	now             func() time.Time
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	eventRepo repository.EventRepository,
	seats ledger.SeatLedger,
	queue TaskPublisher,
	refundPolicy entity.RefundPolicy,
	holdTimeout time.Duration,
	checkoutBaseURL string,
) BookingService {
	return &bookingService{
		bookingRepo:     bookingRepo,
		eventRepo:       eventRepo,
		seats:           seats,
		queue:           queue,
		refundPolicy:    refundPolicy,
		holdTimeout:     holdTimeout,
		checkoutBaseURL: checkoutBaseURL,
		now:             time.Now,
	}
}

// CreateCheckoutSession reserves a seat (or notes the event full),
// writes a pending booking bound to a fresh session token, and
// schedules the hold expiry. Seat exhaustion is not a failure: the
// booking is created without a hold and resolves toward the waitlist
// at confirmation time.
func (s *bookingService) CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error) {
	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	now := s.now()
	if event.Date.Before(now) {
		return nil, entity.ErrEventDatePast
	}

	existing, err := s.bookingRepo.GetActiveByEventAndUser(ctx, req.EventID, req.UserEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing bookings: %w", err)
	}
	if existing != nil {
		return nil, entity.ErrDuplicateBooking
	}

	outcome, err := s.seats.Reserve(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve seat: %w", err)
	}

	booking := &entity.Booking{
		EventID:      req.EventID,
		UserEmail:    req.UserEmail,
		Status:       entity.BookingStatusPending,
		PricePaid:    event.Price,
		SeatHeld:     outcome == ledger.OutcomeReserved,
		SessionToken: uuid.NewString(),
		ExpiresAt:    now.Add(s.holdTimeout),
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		// Return the seat if another request for the same user slipped in
		// between the duplicate check and the insert.
		if booking.SeatHeld {
			if _, relErr := s.seats.Release(ctx, req.EventID); relErr != nil {
				logrus.Errorf("Failed to release seat after booking insert failure: %v", relErr)
			}
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"event_id":   booking.EventID,
		"user_email": booking.UserEmail,
		"seat_held":  booking.SeatHeld,
	}).Info("Checkout session created")

	if s.queue != nil {
		if err := s.scheduleExpiry(ctx, booking); err != nil {
			logrus.Errorf("Failed to schedule booking expiry: %v", err)
		}
	}

	return &CheckoutSession{
		Booking: booking,
		URL:     fmt.Sprintf("%s?session_id=%s", s.checkoutBaseURL, booking.SessionToken),
	}, nil
}

func (s *bookingService) scheduleExpiry(ctx context.Context, booking *entity.Booking) error {
	task := &Task{
		ID:   fmt.Sprintf("expire_booking_%d_%d", booking.ID, s.now().Unix()),
		Type: TaskTypeExpireBooking,
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"event_id":   booking.EventID,
			"expires_at": booking.ExpiresAt.Format(time.RFC3339),
		},
		ExecuteAt:  booking.ExpiresAt,
		MaxRetries: 3,
	}

	if err := s.queue.Publish(ctx, task); err != nil {
		return fmt.Errorf("failed to publish expiry task: %w", err)
	}
	return nil
}

// ConfirmBooking finalizes the payment round-trip. Idempotent: a
// booking already confirmed or waitlisted is returned as is. Seat
// availability is re-checked at confirmation time, never assumed from
// creation time.
func (s *bookingService) ConfirmBooking(ctx context.Context, sessionToken string) (*entity.Booking, error) {
	booking, err := s.bookingRepo.GetBySessionToken(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case entity.BookingStatusConfirmed, entity.BookingStatusWaitlist:
		return booking, nil
	case entity.BookingStatusCancelled:
		return nil, entity.ErrBookingExpired
	}

	now := s.now()
	if now.After(booking.ExpiresAt) {
		seatHeld, ok, err := s.bookingRepo.CancelOverduePending(ctx, booking.ID, now)
		if err != nil {
			return nil, err
		}
		if ok && seatHeld {
			s.releaseSeat(ctx, booking.EventID)
		}
		return nil, entity.ErrBookingExpired
	}

	if booking.SeatHeld {
		ok, err := s.bookingRepo.ConfirmHeld(ctx, booking.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return s.resolveLostConfirm(ctx, booking.ID)
		}
		booking.Status = entity.BookingStatusConfirmed
		logrus.WithField("booking_id", booking.ID).Info("Booking confirmed")
		return booking, nil
	}

	// No hold: the event was full at creation time. Try again now; a
	// cancellation may have freed a seat in the meantime.
	outcome, err := s.seats.Reserve(ctx, booking.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve seat at confirmation: %w", err)
	}

	if outcome == ledger.OutcomeReserved {
		ok, err := s.bookingRepo.ConfirmWithSeat(ctx, booking.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			// The booking expired under us; give the seat back.
			s.releaseSeat(ctx, booking.EventID)
			return s.resolveLostConfirm(ctx, booking.ID)
		}
		booking.Status = entity.BookingStatusConfirmed
		booking.SeatHeld = true
		logrus.WithField("booking_id", booking.ID).Info("Booking confirmed")
		return booking, nil
	}

	ok, err := s.bookingRepo.MoveToWaitlist(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.resolveLostConfirm(ctx, booking.ID)
	}
	booking.Status = entity.BookingStatusWaitlist
	booking.SeatHeld = false
	logrus.WithField("booking_id", booking.ID).Info("Booking waitlisted")
	return booking, nil
}

// resolveLostConfirm re-reads a booking whose pending transition lost
// a race. A concurrent expiry means the session is gone; anything else
// already settled into a terminal-enough state to hand back.
func (s *bookingService) resolveLostConfirm(ctx context.Context, bookingID int64) (*entity.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == entity.BookingStatusCancelled {
		return nil, entity.ErrBookingExpired
	}
	return booking, nil
}

// CancelBooking transitions a booking to cancelled, computes the
// refund tier, and releases the seat. The seat release and the
// waitlist promotion happen in one ledger transaction, so no reader
// ever sees the freed seat before the waitlist head takes it.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID int64) (*CancellationResult, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status == entity.BookingStatusCancelled {
		return nil, entity.ErrAlreadyCancelled
	}

	now := s.now()

	switch booking.Status {
	case entity.BookingStatusConfirmed:
		event, err := s.eventRepo.GetByID(ctx, booking.EventID)
		if err != nil {
			return nil, fmt.Errorf("failed to load event for refund: %w", err)
		}

		// A refund that cannot be computed aborts the cancellation.
		refund, err := s.refundPolicy.Breakdown(booking.PricePaid, event.Date, now)
		if err != nil {
			return nil, err
		}

		seatHeld, ok, err := s.bookingRepo.MarkCancelled(ctx, bookingID, entity.BookingStatusConfirmed, now)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, entity.ErrAlreadyCancelled
		}

		var promoted *ledger.Promotion
		if seatHeld {
			promoted = s.releaseSeat(ctx, booking.EventID)
		}

		booking.Status = entity.BookingStatusCancelled
		booking.CancelledAt = &now

		logrus.WithFields(logrus.Fields{
			"booking_id":    bookingID,
			"refund_amount": refund.RefundAmount,
			"deduction":     refund.DeductionAmount,
		}).Info("Confirmed booking cancelled")

		return &CancellationResult{Booking: booking, Refund: refund, Promoted: promoted}, nil

	case entity.BookingStatusWaitlist:
		// Nothing was delivered and nothing is released; no refund owed.
		_, ok, err := s.bookingRepo.MarkCancelled(ctx, bookingID, entity.BookingStatusWaitlist, now)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, entity.ErrAlreadyCancelled
		}

		booking.Status = entity.BookingStatusCancelled
		booking.CancelledAt = &now
		return &CancellationResult{
			Booking: booking,
			Refund:  &entity.RefundBreakdown{TotalPaid: booking.PricePaid},
		}, nil

	default: // pending
		seatHeld, ok, err := s.bookingRepo.MarkCancelled(ctx, bookingID, entity.BookingStatusPending, now)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, entity.ErrAlreadyCancelled
		}

		var promoted *ledger.Promotion
		if seatHeld {
			promoted = s.releaseSeat(ctx, booking.EventID)
		}

		booking.Status = entity.BookingStatusCancelled
		booking.CancelledAt = &now
		return &CancellationResult{
			Booking:  booking,
			Refund:   &entity.RefundBreakdown{TotalPaid: booking.PricePaid},
			Promoted: promoted,
		}, nil
	}
}

func (s *bookingService) releaseSeat(ctx context.Context, eventID int64) *ledger.Promotion {
	promoted, err := s.seats.Release(ctx, eventID)
	if err != nil {
		logrus.Errorf("Failed to release seat for event %d: %v", eventID, err)
		return nil
	}
	if promoted != nil {
		logrus.WithFields(logrus.Fields{
			"event_id":   eventID,
			"booking_id": promoted.BookingID,
			"user_email": promoted.UserEmail,
		}).Info("Waitlisted booking promoted")
	}
	return promoted
}

func (s *bookingService) GetUserBookings(ctx context.Context, email string) ([]*entity.BookingWithEvent, error) {
	bookings, err := s.bookingRepo.GetByUserEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user bookings: %w", err)
	}
	return bookings, nil
}

// ExpireBooking cancels a pending booking whose hold deadline passed,
// returning its seat. Both the queue task and the sweep worker funnel
// through here; the compare-and-set in the repository makes double
// delivery harmless.
func (s *bookingService) ExpireBooking(ctx context.Context, bookingID int64) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status != entity.BookingStatusPending {
		return nil
	}

	seatHeld, ok, err := s.bookingRepo.CancelOverduePending(ctx, bookingID, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if seatHeld {
		s.releaseSeat(ctx, booking.EventID)
	}

	logrus.WithField("booking_id", bookingID).Info("Abandoned booking expired")
	return nil
}

// ReclaimAbandoned expires every overdue pending booking. Used by the
// periodic sweep as a backstop when the delayed queue is unavailable.
func (s *bookingService) ReclaimAbandoned(ctx context.Context) (int, error) {
	ids, err := s.bookingRepo.GetOverduePending(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue bookings: %w", err)
	}

	reclaimed := 0
	for _, id := range ids {
		select {
		case <-ctx.Done():
			return reclaimed, ctx.Err()
		default:
		}

		if err := s.ExpireBooking(ctx, id); err != nil {
			logrus.Errorf("Failed to expire booking %d: %v", id, err)
			continue
		}
		reclaimed++
	}

	return reclaimed, nil
}
