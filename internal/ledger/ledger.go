// Package ledger owns the per-event seat counter. Every mutation runs
// in a single transaction holding a row lock on the event, so two
// requests for the same event serialize while unrelated events never
// contend. The critical section is just the counter update plus, on
// release, one waitlist lookup.
package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eventure-dev/eventure-api/internal/entity"
	"github.com/sirupsen/logrus"
)

// Outcome of a seat reservation attempt. A sold-out event is not an
// error: the caller routes the booking to the waitlist instead.
type Outcome int

const (
	OutcomeReserved Outcome = iota
	OutcomeWaitlistedFull
)

// Promotion identifies the waitlisted booking that absorbed a
// released seat.
type Promotion struct {
	BookingID int64
	UserEmail string
}

type SeatLedger interface {
	// Reserve debits one seat, or reports the event full.
	Reserve(ctx context.Context, eventID int64) (Outcome, error)

	// Release returns one seat. If a waitlisted booking exists, the
	// oldest one is confirmed in the same transaction and keeps the
	// seat debited; the counter only rises when nobody is waiting.
	Release(ctx context.Context, eventID int64) (*Promotion, error)

	// Peek reads the current available count.
	Peek(ctx context.Context, eventID int64) (int, error)
}

type seatLedger struct {
	db *sql.DB
}

func NewSeatLedger(db *sql.DB) SeatLedger {
	return &seatLedger{db: db}
}

func (l *seatLedger) Reserve(ctx context.Context, eventID int64) (Outcome, error) {
	tx, err := l.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var available int
	query := `SELECT available_seats FROM events WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, query, eventID).Scan(&available)
	if err == sql.ErrNoRows {
		return 0, entity.ErrEventNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to lock event row: %w", err)
	}

	if available == 0 {
		if err := tx.Commit(); err != nil {
			return 0, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return OutcomeWaitlistedFull, nil
	}

	query = `UPDATE events SET available_seats = available_seats - 1, updated_at = NOW() WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, eventID); err != nil {
		return 0, fmt.Errorf("failed to debit seat: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return OutcomeReserved, nil
}

func (l *seatLedger) Release(ctx context.Context, eventID int64) (*Promotion, error) {
	tx, err := l.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var total, available int
	query := `SELECT total_seats, available_seats FROM events WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, query, eventID).Scan(&total, &available)
	if err == sql.ErrNoRows {
		return nil, entity.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock event row: %w", err)
	}

	// Oldest waitlisted booking takes the seat before the counter ever
	// shows it free.
	var promotion Promotion
	query = `
		SELECT id, user_email FROM bookings
		WHERE event_id = $1 AND status = 'waitlist'
		ORDER BY created_at ASC, id ASC
		LIMIT 1
		FOR UPDATE
	`
	err = tx.QueryRowContext(ctx, query, eventID).Scan(&promotion.BookingID, &promotion.UserEmail)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to look up waitlist: %w", err)
	}

	if err == nil {
		query = `UPDATE bookings SET status = 'confirmed', seat_held = TRUE WHERE id = $1`
		if _, err := tx.ExecContext(ctx, query, promotion.BookingID); err != nil {
			return nil, fmt.Errorf("failed to promote waitlisted booking: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return &promotion, nil
	}

	if available >= total {
		// A release that would push the counter past capacity means a
		// seat was double-released somewhere; clamp and keep going.
		logrus.WithFields(logrus.Fields{
			"event_id":  eventID,
			"available": available,
			"total":     total,
		}).Error("Seat release would exceed capacity, counter clamped")
	} else {
		query = `UPDATE events SET available_seats = available_seats + 1, updated_at = NOW() WHERE id = $1`
		if _, err := tx.ExecContext(ctx, query, eventID); err != nil {
			return nil, fmt.Errorf("failed to credit seat: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil, nil
}

func (l *seatLedger) Peek(ctx context.Context, eventID int64) (int, error) {
	var available int
	query := `SELECT available_seats FROM events WHERE id = $1`
	err := l.db.QueryRowContext(ctx, query, eventID).Scan(&available)
	if err == sql.ErrNoRows {
		return 0, entity.ErrEventNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read available seats: %w", err)
	}
	return available, nil
}
