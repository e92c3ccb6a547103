package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roadlink/booking-backend/internal/database"
	"github.com/roadlink/booking-backend/internal/services"
)

// AdminHandler handles operational admin endpoints
type AdminHandler struct {
	cronSvc          *services.CronService
	cancellationRepo *database.CancellationRepository
	logger           *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(cronSvc *services.CronService, cancellationRepo *database.CancellationRepository, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		cronSvc:          cronSvc,
		cancellationRepo: cancellationRepo,
		logger:           logger,
	}
}

// GetJobStatus handles GET /api/v1/admin/jobs
func (h *AdminHandler) GetJobStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.cronSvc.GetJobStatus())
}

// RunStatusSweep handles POST /api/v1/admin/jobs/status-sweep/run
func (h *AdminHandler) RunStatusSweep(c *gin.Context) {
	h.cronSvc.RunStatusSweepNow()
	c.JSON(http.StatusOK, gin.H{
		"message": "Fleet status sweep triggered",
	})
}

// GetPendingCancellations handles GET /api/v1/admin/cancellations.
// Returns refund work not yet processed by the finance team.
func (h *AdminHandler) GetPendingCancellations(c *gin.Context) {
	cancellations, err := h.cancellationRepo.GetPending()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list pending cancellations")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cancellations": cancellations,
		"total":         len(cancellations),
	})
}

// MarkCancellationRefunded handles POST /api/v1/admin/cancellations/:id/refund
func (h *AdminHandler) MarkCancellationRefunded(c *gin.Context) {
	cancellationID := c.Param("id")

	if err := h.cancellationRepo.MarkRefunded(cancellationID); err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithField("cancellation_id", cancellationID).Info("Refund marked processed")
	c.JSON(http.StatusOK, gin.H{
		"message": "Refund marked as processed",
	})
}
