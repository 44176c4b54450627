package entity

import (
	"fmt"
	"time"
)

type UserRole string

const (
	RoleUser    UserRole = "user"
	RoleManager UserRole = "manager"
	RoleAdmin   UserRole = "admin"
)

type UserStatus string

const (
	StatusVerified  UserStatus = "verified"
	StatusRequested UserStatus = "requested"
)

// ParseUserRole rejects unknown roles. Callers that want the default
// role for a fresh account use RoleUser explicitly; an unrecognized
// value on the wire is an error, never silently downgraded.
func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case RoleUser, RoleManager, RoleAdmin:
		return UserRole(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

func ParseUserStatus(s string) (UserStatus, error) {
	switch UserStatus(s) {
	case StatusVerified, StatusRequested:
		return UserStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

type User struct {
	ID        int64      `json:"id" db:"id"`
	Email     string     `json:"email" db:"email"`
	Name      string     `json:"name" db:"name"`
	Photo     string     `json:"photo" db:"photo"`
	Role      UserRole   `json:"role" db:"role"`
	Status    UserStatus `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// NewUser builds a fresh account with the explicit defaults.
func NewUser(email, name, photo string) *User {
	return &User{
		Email:  email,
		Name:   name,
		Photo:  photo,
		Role:   RoleUser,
		Status: StatusVerified,
	}
}
