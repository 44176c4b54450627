package transport

import (
	"net/http"
	"strconv"

	"github.com/eventure-dev/eventure-api/internal/service"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// ConfirmBookingRequest carries the session token from the payment
// callback
type ConfirmBookingRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// CancellationResponse reports the refund math of a cancellation
type CancellationResponse struct {
	Success         bool   `json:"success"`
	TotalPaid       int64  `json:"totalPaid"`
	RefundAmount    int64  `json:"refundAmount"`
	DeductionAmount int64  `json:"deductionAmount"`
	Message         string `json:"message"`
}

// CreateCheckoutSession opens a checkout session for an event. The
// seat is held immediately; the client is handed the payment URL.
func (h *BookingHandler) CreateCheckoutSession(c *gin.Context) {
	var req service.CheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: err.Error()})
		return
	}

	session, err := h.bookingService.CreateCheckoutSession(c.Request.Context(), &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": session.URL})
}

// ConfirmBooking is the payment callback. The response carries the
// settled status so the client can tell a confirmed seat from a
// waitlist placement.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	var req ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: err.Error()})
		return
	}

	booking, err := h.bookingService.ConfirmBooking(c.Request.Context(), req.SessionID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  booking.Status,
		"booking": booking,
	})
}

func (h *BookingHandler) GetUserBookings(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: "email is required"})
		return
	}

	bookings, err := h.bookingService.GetUserBookings(c.Request.Context(), email)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: "invalid booking id"})
		return
	}

	result, err := h.bookingService.CancelBooking(c.Request.Context(), bookingID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, CancellationResponse{
		Success:         true,
		TotalPaid:       result.Refund.TotalPaid,
		RefundAmount:    result.Refund.RefundAmount,
		DeductionAmount: result.Refund.DeductionAmount,
		Message:         "Booking cancelled successfully",
	})
}
