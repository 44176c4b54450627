package service

import (
	"context"
	"errors"
	"fmt"

	repository "github.com/eventure-dev/eventure-api/internal/database/postgres"
	"github.com/eventure-dev/eventure-api/internal/entity"

	"github.com/sirupsen/logrus"
)

// UpsertUserRequest carries the profile fields synced on login.
type UpsertUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"max=255"`
	Photo string `json:"photo"`
}

type userService struct {
	userRepo    repository.UserRepository
	bookingRepo repository.BookingRepository
	bookings    BookingService
}

func NewUserService(
	userRepo repository.UserRepository,
	bookingRepo repository.BookingRepository,
	bookings BookingService,
) UserService {
	return &userService{
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		bookings:    bookings,
	}
}

func (s *userService) UpsertUser(ctx context.Context, req *UpsertUserRequest) (*entity.User, error) {
	user := entity.NewUser(req.Email, req.Name, req.Photo)
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

func (s *userService) RequestManager(ctx context.Context, email string) (int64, error) {
	modified, err := s.userRepo.RequestManager(ctx, email)
	if err != nil {
		return 0, err
	}

	if modified > 0 {
		logrus.WithField("email", email).Info("Manager role requested")
	}
	return modified, nil
}

func (s *userService) ApproveManager(ctx context.Context, id int64) (int64, error) {
	modified, err := s.userRepo.ApproveManager(ctx, id)
	if err != nil {
		return 0, err
	}

	if modified > 0 {
		logrus.WithField("user_id", id).Info("Manager role approved")
	}
	return modified, nil
}

// DeleteUser cancels the user's active bookings through the normal
// cancellation path, so refunds and seat releases apply, then removes
// the account. Cancellation races are tolerated: a booking that got
// cancelled or expired meanwhile is skipped.
func (s *userService) DeleteUser(ctx context.Context, id int64) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	bookings, err := s.bookingRepo.GetActiveByUser(ctx, user.Email)
	if err != nil {
		return false, fmt.Errorf("failed to list user bookings: %w", err)
	}

	for _, booking := range bookings {
		if _, err := s.bookings.CancelBooking(ctx, booking.ID); err != nil {
			if errors.Is(err, entity.ErrAlreadyCancelled) || errors.Is(err, entity.ErrBookingNotFound) {
				continue
			}
			return false, fmt.Errorf("failed to cancel booking %d: %w", booking.ID, err)
		}
	}

	deleted, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if deleted {
		logrus.WithFields(logrus.Fields{
			"user_id":            id,
			"cancelled_bookings": len(bookings),
		}).Info("User deleted")
	}
	return deleted, nil
}
