package service

import (
	"context"
	"testing"
	"time"

	"github.com/eventure-dev/eventure-api/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) (*userService, *fakeUserRepo, *bookingFixture) {
	t.Helper()
	f := newBookingFixture(t)
	users := newFakeUserRepo()
	svc := NewUserService(users, f.bookings, f.svc).(*userService)
	return svc, users, f
}

func TestUpsertUserPreservesRole(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.UpsertUser(ctx, &UpsertUserRequest{Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, user.Role)
	assert.Equal(t, entity.StatusVerified, user.Status)

	// Promote, then log in again: role sticks, profile refreshes.
	_, err = svc.RequestManager(ctx, "alice@example.com")
	require.NoError(t, err)
	_, err = svc.ApproveManager(ctx, user.ID)
	require.NoError(t, err)

	again, err := svc.UpsertUser(ctx, &UpsertUserRequest{Email: "alice@example.com", Name: "Alice B."})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, again.Role)
	assert.Equal(t, "Alice B.", again.Name)
}

func TestRequestManagerIdempotent(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.UpsertUser(ctx, &UpsertUserRequest{Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, err)

	first, err := svc.RequestManager(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := svc.RequestManager(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(0), second)
}

func TestApproveManagerRequiresRequest(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.UpsertUser(ctx, &UpsertUserRequest{Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, err)

	// No pending request yet.
	modified, err := svc.ApproveManager(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), modified)

	_, err = svc.RequestManager(ctx, "alice@example.com")
	require.NoError(t, err)

	modified, err = svc.ApproveManager(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	stored, err := svc.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, stored.Role)
	assert.Equal(t, entity.StatusVerified, stored.Status)
}

func TestDeleteUserCancelsBookings(t *testing.T) {
	svc, _, f := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.UpsertUser(ctx, &UpsertUserRequest{Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, err)

	event := f.addEvent(t, 5, 1000, f.now.Add(200*time.Hour))
	session := f.checkout(t, event.ID, "alice@example.com")

	deleted, err := svc.DeleteUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	booking, err := f.bookings.GetByID(ctx, session.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, booking.Status)
	assert.Equal(t, 5, f.available(t, event.ID))

	_, err = svc.GetUserByEmail(ctx, "alice@example.com")
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}

func TestDeleteUserNotFound(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	_, err := svc.DeleteUser(context.Background(), 42)
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}
