package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roadlink/booking-backend/internal/middleware"
	"github.com/roadlink/booking-backend/internal/models"
	"github.com/roadlink/booking-backend/internal/services"
)

// PaymentHandler handles payment gateway HTTP requests
type PaymentHandler struct {
	paystackSvc *services.PaystackService
	bookingSvc  *services.BookingService
	logger      *logrus.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paystackSvc *services.PaystackService, bookingSvc *services.BookingService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		paystackSvc: paystackSvc,
		bookingSvc:  bookingSvc,
		logger:      logger,
	}
}

// InitializePaymentRequest is the body for payment initialization
type InitializePaymentRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

// InitializePayment handles POST /api/v1/payments/initialize.
// The booking reference doubles as the Paystack charge reference, so webhook
// and verify calls resolve the booking without extra bookkeeping.
func (h *PaymentHandler) InitializePayment(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	var req InitializePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	booking, err := h.bookingSvc.Get(req.BookingID, userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	if booking.Status != models.BookingStatusPending {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "invalid_state",
			Message: "Only pending bookings can be paid for",
			Code:    "BOOKING_NOT_PENDING",
		})
		return
	}

	// Paystack amounts are in the currency's minor unit.
	data, err := h.paystackSvc.InitializeTransaction(services.PaystackInitRequest{
		Email:     req.Email,
		Amount:    int64(booking.TotalAmount * 100),
		Reference: booking.Reference,
		Currency:  booking.Currency,
	})
	if err != nil {
		h.logger.WithError(err).WithField("booking_id", booking.ID).Error("Paystack initialization failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "gateway_error",
			Message: "Failed to initialize transaction with the payment gateway",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authorization_url": data.AuthorizationURL,
		"access_code":       data.AccessCode,
		"reference":         data.Reference,
	})
}

// Webhook handles POST /api/v1/payments/webhook.
// Paystack retries deliveries until it sees a 2xx, so unknown events and
// already-processed charges still return 200. Only a bad signature is
// rejected.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_payload",
			Message: "Failed to read webhook body",
		})
		return
	}

	signature := c.GetHeader("x-paystack-signature")
	if !h.paystackSvc.ValidateWebhookSignature(body, signature) {
		h.logger.WithField("ip", c.ClientIP()).Warn("Webhook signature validation failed")
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_signature",
			Message: "Webhook signature validation failed",
		})
		return
	}

	var event services.PaystackWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_payload",
			Message: "Failed to parse webhook event",
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"event":     event.Event,
		"reference": event.Data.Reference,
	}).Info("Webhook received")

	switch event.Event {
	case "charge.success":
		if _, err := h.bookingSvc.ConfirmPayment(event.Data.Reference); err != nil {
			h.logger.WithError(err).WithField("reference", event.Data.Reference).Error("Failed to confirm payment")
		}
	case "charge.failed":
		if err := h.bookingSvc.FailPayment(event.Data.Reference); err != nil {
			h.logger.WithError(err).WithField("reference", event.Data.Reference).Error("Failed to process failed charge")
		}
	default:
		h.logger.WithField("event", event.Event).Debug("Ignoring unhandled webhook event")
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

// VerifyPayment handles GET /api/v1/payments/verify/:reference.
// Clients call this after returning from the Paystack checkout page; it is
// the synchronous fallback for the webhook and is safe to call repeatedly.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	reference := c.Param("reference")

	result, err := h.paystackSvc.VerifyTransaction(reference)
	if err != nil {
		h.logger.WithError(err).WithField("reference", reference).Error("Paystack verification failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "gateway_error",
			Message: "Failed to verify transaction with the payment gateway",
		})
		return
	}

	switch result.Status {
	case "success":
		booking, err := h.bookingSvc.ConfirmPayment(reference)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Payment verified successfully",
			"booking": booking,
		})

	case "failed", "reversed":
		// Terminal gateway outcomes only. Releasing seats for an
		// in-progress charge would hand them to someone else while the
		// first customer's payment can still succeed.
		if err := h.bookingSvc.FailPayment(reference); err != nil {
			h.logger.WithError(err).WithField("reference", reference).Error("Failed to release seats after unsuccessful payment")
		}
		respondError(c, services.ErrPaymentNotSuccessful)

	default:
		// pending, ongoing, processing, queued, abandoned: not concluded
		// yet. The client retries verification or waits for the webhook.
		c.JSON(http.StatusAccepted, gin.H{
			"message": "Payment is not yet concluded",
			"status":  result.Status,
		})
	}
}
