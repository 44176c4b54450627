package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eventure-dev/eventure-api/internal/entity"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `
	id, title, description, location, category, image, price, date,
	total_seats, available_seats, organizer_name, organizer_email,
	created_at, updated_at
`

// Create inserts an event with a full seat counter.
func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (
			title, description, location, category, image, price, date,
			total_seats, available_seats, organizer_name, organizer_email,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8, $9, $10, $11, $11)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		event.Title,
		event.Description,
		event.Location,
		event.Category,
		event.Image,
		event.Price,
		event.Date,
		event.TotalSeats,
		event.OrganizerName,
		event.OrganizerEmail,
		now,
	).Scan(&event.ID)

	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	event.AvailableSeats = event.TotalSeats
	event.CreatedAt = now
	event.UpdatedAt = now
	return nil
}

func scanEvent(row interface{ Scan(...interface{}) error }) (*entity.Event, error) {
	var event entity.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.Category,
		&event.Image,
		&event.Price,
		&event.Date,
		&event.TotalSeats,
		&event.AvailableSeats,
		&event.OrganizerName,
		&event.OrganizerEmail,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (r *eventRepository) GetAll(ctx context.Context) ([]*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY date ASC`
	return r.queryEvents(ctx, query)
}

func (r *eventRepository) GetByOrganizer(ctx context.Context, email string) ([]*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE organizer_email = $1 ORDER BY date ASC`
	return r.queryEvents(ctx, query, email)
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*entity.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// Delete removes the event row; booking rows follow via the cascade.
// Refunds for affected bookings are the service's responsibility and
// happen before this call.
func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrEventNotFound
	}

	return nil
}
