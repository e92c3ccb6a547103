package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roadlink/booking-backend/internal/database"
	"github.com/roadlink/booking-backend/internal/models"
)

// BusHandler handles fleet bus HTTP requests
type BusHandler struct {
	busRepo *database.BusRepository
	logger  *logrus.Logger
}

// NewBusHandler creates a new bus handler
func NewBusHandler(busRepo *database.BusRepository, logger *logrus.Logger) *BusHandler {
	return &BusHandler{
		busRepo: busRepo,
		logger:  logger,
	}
}

// CreateBus handles POST /api/v1/buses
func (h *BusHandler) CreateBus(c *gin.Context) {
	var req models.CreateBusRequest
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

	bus := &models.Bus{
		PlateNumber: req.PlateNumber,
		Capacity:    req.Capacity,
		OnArrival:   req.OnArrival,
	}

	if err := h.busRepo.Create(bus); err != nil {
		h.logger.WithError(err).Error("Failed to create bus")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Bus created successfully",
		"bus":     bus,
	})
}

// GetBuses handles GET /api/v1/buses
// Query params: status (available|busy)
func (h *BusHandler) GetBuses(c *gin.Context) {
	var buses []models.Bus
	var err error

	if status := c.Query("status"); status != "" {
		buses, err = h.busRepo.GetByStatus(models.BusStatus(status))
	} else {
		buses, err = h.busRepo.GetAll()
	}

	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch buses")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"buses": buses,
		"total": len(buses),
	})
}

// GetBus handles GET /api/v1/buses/:id
func (h *BusHandler) GetBus(c *gin.Context) {
	bus, err := h.busRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bus)
}

// UpdateBus handles PUT /api/v1/buses/:id
func (h *BusHandler) UpdateBus(c *gin.Context) {
	bus, err := h.busRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.UpdateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if req.PlateNumber != nil {
		bus.PlateNumber = *req.PlateNumber
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "capacity must be greater than zero",
				Code:    "VALIDATION_ERROR",
			})
			return
		}
		bus.Capacity = *req.Capacity
	}
	if req.Status != nil {
		bus.Status = *req.Status
	}
	if req.OnArrival != nil {
		bus.OnArrival = *req.OnArrival
	}

	if err := h.busRepo.Update(bus); err != nil {
		h.logger.WithError(err).WithField("bus_id", bus.ID).Error("Failed to update bus")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bus updated successfully",
		"bus":     bus,
	})
}

// DeleteBus handles DELETE /api/v1/buses/:id
func (h *BusHandler) DeleteBus(c *gin.Context) {
	if err := h.busRepo.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bus deleted successfully",
	})
}
