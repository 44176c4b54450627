package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    UserRole
		wantErr bool
	}{
		{name: "user", input: "user", want: RoleUser},
		{name: "manager", input: "manager", want: RoleManager},
		{name: "admin", input: "admin", want: RoleAdmin},
		{name: "unknown role rejected", input: "superuser", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
		{name: "case sensitive", input: "Admin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := ParseUserRole(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, role)
		})
	}
}

func TestParseUserStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    UserStatus
		wantErr bool
	}{
		{name: "verified", input: "verified", want: StatusVerified},
		{name: "requested", input: "requested", want: StatusRequested},
		{name: "unknown status rejected", input: "pending", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := ParseUserStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestNewUserDefaults(t *testing.T) {
	user := NewUser("alice@example.com", "Alice", "photo.png")

	assert.Equal(t, RoleUser, user.Role)
	assert.Equal(t, StatusVerified, user.Status)
	assert.Equal(t, "alice@example.com", user.Email)
}
