package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roadlink/booking-backend/internal/services"
)

// AvailabilityHandler handles seat availability HTTP requests
type AvailabilityHandler struct {
	seatSvc *services.SeatInventoryService
	logger  *logrus.Logger
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(seatSvc *services.SeatInventoryService, logger *logrus.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		seatSvc: seatSvc,
		logger:  logger,
	}
}

// GetAvailability handles GET /api/v1/trips/:id/availability?date=YYYY-MM-DD
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
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

	availability, err := h.seatSvc.Availability(tripID, date)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"trip_id": tripID,
			"date":    dateStr,
		}).Debug("Availability lookup failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, availability)
}
