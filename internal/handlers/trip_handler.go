package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roadlink/booking-backend/internal/database"
	"github.com/roadlink/booking-backend/internal/models"
)

// TripHandler handles trip management HTTP requests
type TripHandler struct {
	tripRepo   *database.TripRepository
	busRepo    *database.BusRepository
	routeRepo  *database.RouteRepository
	driverRepo *database.DriverRepository
	logger     *logrus.Logger
}

// NewTripHandler creates a new trip handler
func NewTripHandler(
	tripRepo *database.TripRepository,
	busRepo *database.BusRepository,
	routeRepo *database.RouteRepository,
	driverRepo *database.DriverRepository,
	logger *logrus.Logger,
) *TripHandler {
	return &TripHandler{
		tripRepo:   tripRepo,
		busRepo:    busRepo,
		routeRepo:  routeRepo,
		driverRepo: driverRepo,
		logger:     logger,
	}
}

// CreateTrip handles POST /api/v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	// Referenced resources must exist before a trip can point at them.
	if _, err := h.busRepo.GetByID(req.BusID); err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.routeRepo.GetByID(req.RouteID); err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.driverRepo.GetByID(req.DriverID); err != nil {
		respondError(c, err)
		return
	}

	trip := &models.Trip{
		Recurring:     req.Recurring,
		DaysOfWeek:    models.IntArray(req.DaysOfWeek),
		DepartureTime: req.DepartureTime,
		Price:         req.Price,
		Currency:      req.Currency,
		BusID:         req.BusID,
		RouteID:       req.RouteID,
		DriverID:      req.DriverID,
		BranchID:      req.BranchID,
		IsActive:      true,
	}

	if req.Date != nil {
		date, _ := time.Parse("2006-01-02", *req.Date)
		trip.Date = &date
	}

	if err := h.tripRepo.Create(trip); err != nil {
		h.logger.WithError(err).Error("Failed to create trip")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Trip created successfully",
		"trip":    trip,
	})
}

// GetTrips handles GET /api/v1/trips
// Query params: route_id (string), active (bool)
func (h *TripHandler) GetTrips(c *gin.Context) {
	var trips []models.Trip
	var err error

	switch {
	case c.Query("route_id") != "":
		trips, err = h.tripRepo.GetByRouteID(c.Query("route_id"))
	case c.Query("active") == "true":
		trips, err = h.tripRepo.GetActive()
	default:
		trips, err = h.tripRepo.GetAll()
	}

	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch trips")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trips": trips,
		"total": len(trips),
	})
}

// GetTrip handles GET /api/v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// UpdateTrip handles PUT /api/v1/trips/:id
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	trip, err := h.tripRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "date must be in YYYY-MM-DD format",
				Code:    "VALIDATION_ERROR",
			})
			return
		}
		trip.Date = &date
	}
	if req.Recurring != nil {
		trip.Recurring = *req.Recurring
	}
	if req.DaysOfWeek != nil {
		trip.DaysOfWeek = models.IntArray(req.DaysOfWeek)
	}
	if req.DepartureTime != nil {
		if _, err := time.Parse("15:04", *req.DepartureTime); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "departure_time must be in HH:MM format",
				Code:    "VALIDATION_ERROR",
			})
			return
		}
		trip.DepartureTime = *req.DepartureTime
	}
	if req.Price != nil {
		trip.Price = *req.Price
	}
	if req.Currency != nil {
		trip.Currency = *req.Currency
	}
	if req.BusID != nil {
		if _, err := h.busRepo.GetByID(*req.BusID); err != nil {
			respondError(c, err)
			return
		}
		trip.BusID = *req.BusID
	}
	if req.RouteID != nil {
		if _, err := h.routeRepo.GetByID(*req.RouteID); err != nil {
			respondError(c, err)
			return
		}
		trip.RouteID = *req.RouteID
	}
	if req.DriverID != nil {
		if _, err := h.driverRepo.GetByID(*req.DriverID); err != nil {
			respondError(c, err)
			return
		}
		trip.DriverID = *req.DriverID
	}
	if req.IsActive != nil {
		trip.IsActive = *req.IsActive
	}

	// The merged trip must still describe a runnable schedule.
	if err := trip.ValidateSchedule(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	if err := h.tripRepo.Update(trip); err != nil {
		h.logger.WithError(err).WithField("trip_id", trip.ID).Error("Failed to update trip")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Trip updated successfully",
		"trip":    trip,
	})
}

// DeleteTrip handles DELETE /api/v1/trips/:id
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	if err := h.tripRepo.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Trip deleted successfully",
	})
}
