package transport

import (
	"errors"
	"net/http"

	"github.com/eventure-dev/eventure-api/internal/entity"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error envelope shared by all endpoints
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// statusFor maps domain errors onto HTTP status codes. Anything not in
// the taxonomy is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrEventNotFound),
		errors.Is(err, entity.ErrBookingNotFound),
		errors.Is(err, entity.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrDuplicateBooking),
		errors.Is(err, entity.ErrAlreadyCancelled):
		return http.StatusConflict
	case errors.Is(err, entity.ErrBookingExpired):
		return http.StatusGone
	case errors.Is(err, entity.ErrEventDatePast),
		errors.Is(err, entity.ErrInvalidSeats),
		errors.Is(err, entity.ErrInvalidPrice),
		errors.Is(err, entity.ErrInvalidEventDate),
		errors.Is(err, entity.ErrInvalidRole),
		errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrInvalidBookingStatus),
		errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrPermissionDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), ErrorResponse{Success: false, Message: err.Error()})
}
