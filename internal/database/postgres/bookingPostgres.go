package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eventure-dev/eventure-api/internal/entity"
	"github.com/lib/pq"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create inserts a new booking. The partial unique index on
// (event_id, user_email) rejects a second active booking, which is
// surfaced as ErrDuplicateBooking.
func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (
			event_id, user_email, status, price_paid, seat_held,
			session_token, expires_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		booking.EventID,
		booking.UserEmail,
		booking.Status,
		booking.PricePaid,
		booking.SeatHeld,
		booking.SessionToken,
		booking.ExpiresAt,
		now,
	).Scan(&booking.ID)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return entity.ErrDuplicateBooking
	}
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	booking.CreatedAt = now
	return nil
}

const bookingColumns = `
	id, event_id, user_email, status, price_paid, seat_held,
	session_token, expires_at, created_at, cancelled_at
`

func scanBooking(row interface{ Scan(...interface{}) error }) (*entity.Booking, error) {
	var booking entity.Booking
	var cancelledAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.EventID,
		&booking.UserEmail,
		&booking.Status,
		&booking.PricePaid,
		&booking.SeatHeld,
		&booking.SessionToken,
		&booking.ExpiresAt,
		&booking.CreatedAt,
		&cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	if cancelledAt.Valid {
		booking.CancelledAt = &cancelledAt.Time
	}
	return &booking, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (r *bookingRepository) GetBySessionToken(ctx context.Context, token string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE session_token = $1`

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, token))
	if err == sql.ErrNoRows {
		return nil, entity.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking by session token: %w", err)
	}
	return booking, nil
}

func (r *bookingRepository) GetActiveByEventAndUser(ctx context.Context, eventID int64, email string) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE event_id = $1 AND user_email = $2 AND status != 'cancelled'
		LIMIT 1
	`

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, eventID, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking by event and user: %w", err)
	}
	return booking, nil
}

// GetByUserEmail returns the user's bookings joined with the event
// fields the bookings page renders.
func (r *bookingRepository) GetByUserEmail(ctx context.Context, email string) ([]*entity.BookingWithEvent, error) {
	query := `
		SELECT
			b.id, b.event_id, b.user_email, b.status, b.price_paid, b.seat_held,
			b.session_token, b.expires_at, b.created_at, b.cancelled_at,
			e.title, e.date, e.image, e.location
		FROM bookings b
		JOIN events e ON b.event_id = e.id
		WHERE b.user_email = $1
		ORDER BY b.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings by user: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.BookingWithEvent
	for rows.Next() {
		var b entity.BookingWithEvent
		var cancelledAt sql.NullTime
		err := rows.Scan(
			&b.ID,
			&b.EventID,
			&b.UserEmail,
			&b.Status,
			&b.PricePaid,
			&b.SeatHeld,
			&b.SessionToken,
			&b.ExpiresAt,
			&b.CreatedAt,
			&cancelledAt,
			&b.EventTitle,
			&b.EventDate,
			&b.EventImage,
			&b.Location,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		if cancelledAt.Valid {
			b.CancelledAt = &cancelledAt.Time
		}
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) GetActiveByEvent(ctx context.Context, eventID int64) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE event_id = $1 AND status != 'cancelled'
		ORDER BY created_at ASC
	`
	return r.queryBookings(ctx, query, eventID)
}

func (r *bookingRepository) GetActiveByUser(ctx context.Context, email string) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_email = $1 AND status != 'cancelled'
		ORDER BY created_at ASC
	`
	return r.queryBookings(ctx, query, email)
}

func (r *bookingRepository) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*entity.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, nil
}

// GetOverduePending returns IDs of pending bookings whose hold
// deadline has passed.
func (r *bookingRepository) GetOverduePending(ctx context.Context, before time.Time) ([]int64, error) {
	query := `
		SELECT id FROM bookings
		WHERE status = 'pending' AND expires_at < $1
		ORDER BY expires_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue bookings: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan booking id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overdue bookings: %w", err)
	}

	return ids, nil
}

// ConfirmHeld flips a pending booking that owns a seat to confirmed.
func (r *bookingRepository) ConfirmHeld(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE bookings SET status = 'confirmed'
		WHERE id = $1 AND status = 'pending' AND seat_held
	`
	return r.execTransition(ctx, query, id)
}

// ConfirmWithSeat confirms a pending booking and records the seat it
// just acquired from the ledger.
func (r *bookingRepository) ConfirmWithSeat(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE bookings SET status = 'confirmed', seat_held = TRUE
		WHERE id = $1 AND status = 'pending'
	`
	return r.execTransition(ctx, query, id)
}

func (r *bookingRepository) MoveToWaitlist(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE bookings SET status = 'waitlist', seat_held = FALSE
		WHERE id = $1 AND status = 'pending'
	`
	return r.execTransition(ctx, query, id)
}

func (r *bookingRepository) execTransition(ctx context.Context, query string, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to update booking status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

// MarkCancelled cancels a booking only if it is still in the expected
// status, reporting whether it held a seat at that moment. The CTE
// captures seat_held before the update clears it.
func (r *bookingRepository) MarkCancelled(ctx context.Context, id int64, from entity.BookingStatus, at time.Time) (bool, bool, error) {
	query := `
		WITH prev AS (
			SELECT id, seat_held FROM bookings
			WHERE id = $1 AND status = $2
			FOR UPDATE
		)
		UPDATE bookings b
		SET status = 'cancelled', cancelled_at = $3, seat_held = FALSE
		FROM prev
		WHERE b.id = prev.id
		RETURNING prev.seat_held
	`

	var seatHeld bool
	err := r.db.QueryRowContext(ctx, query, id, from, at).Scan(&seatHeld)
	if err == sql.ErrNoRows {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to cancel booking: %w", err)
	}
	return seatHeld, true, nil
}

// CancelOverduePending is the expiry transition: it only fires for a
// pending booking whose deadline has actually passed, so a racing
// confirmation that already won leaves it untouched.
func (r *bookingRepository) CancelOverduePending(ctx context.Context, id int64, now time.Time) (bool, bool, error) {
	query := `
		WITH prev AS (
			SELECT id, seat_held FROM bookings
			WHERE id = $1 AND status = 'pending' AND expires_at <= $2
			FOR UPDATE
		)
		UPDATE bookings b
		SET status = 'cancelled', cancelled_at = $2, seat_held = FALSE
		FROM prev
		WHERE b.id = prev.id
		RETURNING prev.seat_held
	`

	var seatHeld bool
	err := r.db.QueryRowContext(ctx, query, id, now).Scan(&seatHeld)
	if err == sql.ErrNoRows {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to expire booking: %w", err)
	}
	return seatHeld, true, nil
}
