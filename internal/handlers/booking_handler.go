package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roadlink/booking-backend/internal/database"
	"github.com/roadlink/booking-backend/internal/middleware"
	"github.com/roadlink/booking-backend/internal/models"
	"github.com/roadlink/booking-backend/internal/services"
)

// BookingHandler handles booking-related HTTP requests
type BookingHandler struct {
	bookingSvc    *services.BookingService
	passengerRepo *database.PassengerRepository
	logger        *logrus.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingSvc *services.BookingService, passengerRepo *database.PassengerRepository, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		bookingSvc:    bookingSvc,
		passengerRepo: passengerRepo,
		logger:        logger,
	}
}

// CreateBooking handles POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	booking, err := h.bookingSvc.Create(userCtx.UserID, req)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"user_id": userCtx.UserID,
			"trip_id": req.TripID,
			"date":    req.Date,
		}).Warn("Booking creation failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking created successfully",
		"booking": booking,
	})
}

// GetMyBookings handles GET /api/v1/bookings
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	bookings, err := h.bookingSvc.ListForUser(userCtx.UserID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userCtx.UserID).Error("Failed to list bookings")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    len(bookings),
	})
}

// GetBooking handles GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	booking, err := h.bookingSvc.Get(c.Param("id"), userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	passengers, err := h.passengerRepo.GetByBookingID(booking.ID)
	if err != nil {
		h.logger.WithError(err).WithField("booking_id", booking.ID).Error("Failed to load passenger details")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking":    booking,
		"passengers": passengers,
	})
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	bookingID := c.Param("id")

	cancellation, err := h.bookingSvc.Cancel(bookingID, userCtx.UserID)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":    userCtx.UserID,
			"booking_id": bookingID,
		}).Warn("Booking cancellation failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Booking cancelled successfully",
		"booking_id":    cancellation.BookingID,
		"refund_amount": cancellation.RefundAmount,
		"currency":      cancellation.Currency,
		"refund_status": cancellation.Status,
	})
}

// GetTripBookings handles GET /api/v1/admin/trips/:id/bookings?date=YYYY-MM-DD
func (h *BookingHandler) GetTripBookings(c *gin.Context) {
	tripID := c.Param("id")

	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "date query parameter is required",
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "date must be in YYYY-MM-DD format",
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	bookings, err := h.bookingSvc.ListForTrip(tripID, date)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"trip_id": tripID,
			"date":    dateStr,
		}).Error("Failed to list trip bookings")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    len(bookings),
	})
}
