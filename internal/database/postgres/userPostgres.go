package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eventure-dev/eventure-api/internal/entity"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// Upsert syncs a user on login. A fresh account gets the explicit
// defaults; an existing row keeps its role and status and only
// refreshes the profile fields.
func (r *userRepository) Upsert(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (email, name, photo, role, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name, photo = EXCLUDED.photo
		RETURNING id, role, status, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.Email,
		user.Name,
		user.Photo,
		user.Role,
		user.Status,
		time.Now(),
	).Scan(&user.ID, &user.Role, &user.Status, &user.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

const userColumns = `id, email, name, photo, role, status, created_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Photo,
		&user.Role,
		&user.Status,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// RequestManager flags a verified regular user as requested. A second
// request, or a request from a manager/admin, matches zero rows and is
// reported as such rather than as an error.
func (r *userRepository) RequestManager(ctx context.Context, email string) (int64, error) {
	query := `
		UPDATE users SET status = 'requested'
		WHERE email = $1 AND role = 'user' AND status = 'verified'
	`

	result, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		return 0, fmt.Errorf("failed to request manager role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// ApproveManager promotes a requested user to manager and settles the
// status back to verified.
func (r *userRepository) ApproveManager(ctx context.Context, id int64) (int64, error) {
	query := `
		UPDATE users SET role = 'manager', status = 'verified'
		WHERE id = $1 AND status = 'requested'
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to approve manager role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM users WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}
