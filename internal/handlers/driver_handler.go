package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roadlink/booking-backend/internal/database"
	"github.com/roadlink/booking-backend/internal/models"
)

// DriverHandler handles driver management HTTP requests
type DriverHandler struct {
	driverRepo *database.DriverRepository
	logger     *logrus.Logger
}

// NewDriverHandler creates a new driver handler
func NewDriverHandler(driverRepo *database.DriverRepository, logger *logrus.Logger) *DriverHandler {
	return &DriverHandler{
		driverRepo: driverRepo,
		logger:     logger,
	}
}

// CreateDriver handles POST /api/v1/drivers
func (h *DriverHandler) CreateDriver(c *gin.Context) {
	var req models.CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	driver := &models.Driver{
		Name:  req.Name,
		Phone: req.Phone,
	}

	if err := h.driverRepo.Create(driver); err != nil {
		h.logger.WithError(err).Error("Failed to create driver")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Driver created successfully",
		"driver":  driver,
	})
}

// GetDrivers handles GET /api/v1/drivers
func (h *DriverHandler) GetDrivers(c *gin.Context) {
	drivers, err := h.driverRepo.GetAll()
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch drivers")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"drivers": drivers,
		"total":   len(drivers),
	})
}

// GetDriver handles GET /api/v1/drivers/:id
func (h *DriverHandler) GetDriver(c *gin.Context) {
	driver, err := h.driverRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, driver)
}

// UpdateDriver handles PUT /api/v1/drivers/:id
func (h *DriverHandler) UpdateDriver(c *gin.Context) {
	driver, err := h.driverRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if req.Name != nil {
		driver.Name = *req.Name
	}
	if req.Phone != nil {
		driver.Phone = *req.Phone
	}
	if req.Status != nil {
		switch *req.Status {
		case models.DriverStatusAvailable, models.DriverStatusBusy, models.DriverStatusLeave:
			driver.Status = *req.Status
		default:
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "status must be one of: available, busy, leave",
				Code:    "VALIDATION_ERROR",
			})
			return
		}
	}

	if err := h.driverRepo.Update(driver); err != nil {
		h.logger.WithError(err).WithField("driver_id", driver.ID).Error("Failed to update driver")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Driver updated successfully",
		"driver":  driver,
	})
}

// DeleteDriver handles DELETE /api/v1/drivers/:id
func (h *DriverHandler) DeleteDriver(c *gin.Context) {
	if err := h.driverRepo.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Driver deleted successfully",
	})
}
