package postgres

import (
	"database/sql"
	"fmt"

	"github.com/eventure-dev/eventure-api/config"
	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Successfully connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id SERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT,
			location VARCHAR(255),
			category VARCHAR(100),
			image TEXT,
			price BIGINT NOT NULL DEFAULT 0 CHECK (price >= 0),
			date TIMESTAMP NOT NULL,
			total_seats INTEGER NOT NULL CHECK (total_seats > 0),
			available_seats INTEGER NOT NULL CHECK (available_seats >= 0 AND available_seats <= total_seats),
			organizer_name VARCHAR(255),
			organizer_email VARCHAR(255),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			photo TEXT,
			role VARCHAR(20) NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'manager', 'admin')),
			status VARCHAR(20) NOT NULL DEFAULT 'verified' CHECK (status IN ('verified', 'requested')),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id SERIAL PRIMARY KEY,
			event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			user_email VARCHAR(255) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending'
				CHECK (status IN ('pending', 'confirmed', 'waitlist', 'cancelled')),
			price_paid BIGINT NOT NULL DEFAULT 0,
			seat_held BOOLEAN NOT NULL DEFAULT FALSE,
			session_token VARCHAR(64) UNIQUE NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			cancelled_at TIMESTAMP
		)`,

		// One live booking per user per event; cancelled rows stay as history.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_unique
			ON bookings(event_id, user_email) WHERE status != 'cancelled'`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_event_id ON bookings(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_user_email ON bookings(user_email)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_expires_at ON bookings(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_event_status ON bookings(event_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_events_organizer_email ON events(organizer_email)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %v", err)
		}
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}
