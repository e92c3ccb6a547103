package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roadlink/booking-backend/internal/database"
	"github.com/roadlink/booking-backend/internal/models"
)

// RouteHandler handles route management HTTP requests
type RouteHandler struct {
	routeRepo *database.RouteRepository
	logger    *logrus.Logger
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routeRepo *database.RouteRepository, logger *logrus.Logger) *RouteHandler {
	return &RouteHandler{
		routeRepo: routeRepo,
		logger:    logger,
	}
}

// CreateRoute handles POST /api/v1/routes
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	var req models.CreateRouteRequest
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

	route := &models.Route{
		StartCityID:     req.StartCityID,
		EndCityID:       req.EndCityID,
		DurationMinutes: req.DurationMinutes,
		DistanceKM:      req.DistanceKM,
	}

	if err := h.routeRepo.Create(route); err != nil {
		h.logger.WithError(err).Error("Failed to create route")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Route created successfully",
		"route":   route,
	})
}

// GetRoutes handles GET /api/v1/routes
func (h *RouteHandler) GetRoutes(c *gin.Context) {
	routes, err := h.routeRepo.GetAll()
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch routes")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"routes": routes,
		"total":  len(routes),
	})
}

// GetRoute handles GET /api/v1/routes/:id
func (h *RouteHandler) GetRoute(c *gin.Context) {
	route, err := h.routeRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, route)
}

// UpdateRoute handles PUT /api/v1/routes/:id
func (h *RouteHandler) UpdateRoute(c *gin.Context) {
	route, err := h.routeRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.UpdateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if req.StartCityID != nil {
		route.StartCityID = *req.StartCityID
	}
	if req.EndCityID != nil {
		route.EndCityID = *req.EndCityID
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "duration_minutes must be greater than zero",
				Code:    "VALIDATION_ERROR",
			})
			return
		}
		route.DurationMinutes = *req.DurationMinutes
	}
	if req.DistanceKM != nil {
		route.DistanceKM = *req.DistanceKM
	}

	if route.StartCityID == route.EndCityID {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "start and end city must differ",
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	if err := h.routeRepo.Update(route); err != nil {
		h.logger.WithError(err).WithField("route_id", route.ID).Error("Failed to update route")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Route updated successfully",
		"route":   route,
	})
}

// DeleteRoute handles DELETE /api/v1/routes/:id
func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	if err := h.routeRepo.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Route deleted successfully",
	})
}
