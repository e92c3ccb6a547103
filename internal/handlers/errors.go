package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roadlink/booking-backend/internal/database"
	"github.com/roadlink/booking-backend/internal/services"
)

// ErrorResponse is the error body returned by all handlers
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// respondError maps service and repository errors onto HTTP responses.
// Unrecognized errors become an opaque 500; their details stay in the logs.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    "VALIDATION_ERROR",
		})
	case errors.Is(err, services.ErrTripNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Trip not found",
			Code:    "TRIP_NOT_FOUND",
		})
	case errors.Is(err, services.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Booking not found",
			Code:    "BOOKING_NOT_FOUND",
		})
	case errors.Is(err, services.ErrInvalidDate):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "invalid_date",
			Message: "Trip does not run on the requested date",
			Code:    "INVALID_DATE",
		})
	case errors.Is(err, services.ErrSeatConflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "seat_conflict",
			Message: "One or more selected seats are no longer available, please choose different seats",
			Code:    "SEAT_CONFLICT",
		})
	case errors.Is(err, services.ErrSeatOutOfRange):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "capacity_exceeded",
			Message: "Seat number exceeds the bus capacity",
			Code:    "CAPACITY_EXCEEDED",
		})
	case errors.Is(err, services.ErrNotBookingOwner):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "You don't have permission to access this booking",
			Code:    "NOT_BOOKING_OWNER",
		})
	case errors.Is(err, services.ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "already_cancelled",
			Message: "Booking is already cancelled",
			Code:    "ALREADY_CANCELLED",
		})
	case errors.Is(err, services.ErrPastTrip):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "past_trip",
			Message: "Past trips cannot be cancelled",
			Code:    "PAST_TRIP",
		})
	case errors.Is(err, services.ErrBookingNotPayable):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "booking_not_payable",
			Message: "Payment received for a booking that is no longer payable",
			Code:    "BOOKING_NOT_PAYABLE",
		})
	case errors.Is(err, services.ErrPaymentNotSuccessful):
		c.JSON(http.StatusPaymentRequired, ErrorResponse{
			Error:   "payment_failed",
			Message: "Payment was not successful",
			Code:    "PAYMENT_NOT_SUCCESSFUL",
		})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Resource not found",
			Code:    "NOT_FOUND",
		})
	case errors.Is(err, database.ErrReferenced):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "resource_in_use",
			Message: "Resource is referenced by other records and cannot be deleted",
			Code:    "RESOURCE_IN_USE",
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Something went wrong",
			Code:    "INTERNAL_ERROR",
		})
	}
}

// bindError responds to a request body binding failure
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: "Invalid request body: " + err.Error(),
		Code:    "VALIDATION_ERROR",
	})
}
