package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadlink/booking-backend/internal/config"
	"github.com/roadlink/booking-backend/internal/database"
	"github.com/roadlink/booking-backend/internal/models"
	"github.com/roadlink/booking-backend/internal/services"
)

// stubBookingStore is an in-memory services.BookingStore for handler tests.
type stubBookingStore struct {
	byID        map[string]*models.Booking
	byReference map[string]*models.Booking
	failed      []string
	confirmed   []string
}

func (s *stubBookingStore) GenerateReference() (string, error) {
	return "BK-20250601-A1B2C3", nil
}

func (s *stubBookingStore) CreateWithSeats(booking *models.Booking, totalSeats int, passengers []models.PassengerDetail) error {
	return nil
}

func (s *stubBookingStore) CancelWithRelease(booking *models.Booking, cancellation *models.BusCancellation) error {
	booking.Status = models.BookingStatusCancelled
	return nil
}

func (s *stubBookingStore) FailWithRelease(booking *models.Booking) error {
	if booking.Status != models.BookingStatusPending {
		return database.ErrAlreadyCancelled
	}
	booking.Status = models.BookingStatusCancelled
	s.failed = append(s.failed, booking.Reference)
	return nil
}

func (s *stubBookingStore) GetByID(bookingID string) (*models.Booking, error) {
	booking, ok := s.byID[bookingID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return booking, nil
}

func (s *stubBookingStore) GetByReference(reference string) (*models.Booking, error) {
	booking, ok := s.byReference[reference]
	if !ok {
		return nil, database.ErrNotFound
	}
	return booking, nil
}

func (s *stubBookingStore) GetByUserID(userID string) ([]models.Booking, error) {
	return nil, nil
}

func (s *stubBookingStore) GetByTripAndDate(tripID string, date time.Time) ([]models.Booking, error) {
	return nil, nil
}

func (s *stubBookingStore) ConfirmPayment(bookingID, paymentReference string) error {
	booking, ok := s.byID[bookingID]
	if !ok || booking.Status != models.BookingStatusPending {
		// Conditional update matched nothing.
		return database.ErrNotPending
	}
	booking.Status = models.BookingStatusConfirmed
	s.confirmed = append(s.confirmed, bookingID)
	return nil
}

func (s *stubBookingStore) MarkCompleted(before time.Time) (int64, error) {
	return 0, nil
}

func newStubBookingStore(status models.BookingStatus) *stubBookingStore {
	booking := &models.Booking{
		ID:          "booking-1",
		Reference:   "BK-20250601-A1B2C3",
		UserID:      "user-1",
		SeatNumbers: models.IntArray{3, 4},
		TravelDate:  time.Now().AddDate(0, 0, 14),
		TotalAmount: 13000,
		Currency:    "NGN",
		Status:      status,
	}
	return &stubBookingStore{
		byID:        map[string]*models.Booking{booking.ID: booking},
		byReference: map[string]*models.Booking{booking.Reference: booking},
	}
}

// newVerifyGateway serves Paystack verify responses with the given charge
// status.
func newVerifyGateway(chargeStatus string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"status": true,
			"message": "Verification successful",
			"data": {
				"status": %q,
				"reference": "BK-20250601-A1B2C3",
				"amount": 1300000,
				"currency": "NGN"
			}
		}`, chargeStatus)
	}))
}

func newPaymentRouter(store *stubBookingStore, gatewayURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	paystackSvc := services.NewPaystackService(config.PaystackConfig{
		SecretKey: "sk_test_secret",
		BaseURL:   gatewayURL,
	}, newTestLogger())

	bookingSvc := services.NewBookingService(
		store,
		&stubTripStore{},
		&stubBusStore{},
		&stubOccurrenceStore{},
		config.BookingConfig{RefundPercent: 0.90, MaxSeatsPerBooking: 10, DefaultCurrency: "NGN"},
		newTestLogger(),
	)

	handler := NewPaymentHandler(paystackSvc, bookingSvc, newTestLogger())

	router := gin.New()
	router.GET("/api/v1/payments/verify/:reference", handler.VerifyPayment)
	return router
}

func verifyRequest(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/verify/BK-20250601-A1B2C3", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestVerifyPayment(t *testing.T) {
	t.Run("Success Confirms Booking", func(t *testing.T) {
		gateway := newVerifyGateway("success")
		defer gateway.Close()

		store := newStubBookingStore(models.BookingStatusPending)
		router := newPaymentRouter(store, gateway.URL)

		w := verifyRequest(router)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"booking-1"}, store.confirmed)
		assert.Empty(t, store.failed)
	})

	t.Run("Failed Charge Releases Seats", func(t *testing.T) {
		gateway := newVerifyGateway("failed")
		defer gateway.Close()

		store := newStubBookingStore(models.BookingStatusPending)
		router := newPaymentRouter(store, gateway.URL)

		w := verifyRequest(router)

		assert.Equal(t, http.StatusPaymentRequired, w.Code)
		assert.Equal(t, []string{"BK-20250601-A1B2C3"}, store.failed)
	})

	t.Run("In Progress Charge Leaves Booking Untouched", func(t *testing.T) {
		for _, status := range []string{"pending", "ongoing", "abandoned"} {
			gateway := newVerifyGateway(status)

			store := newStubBookingStore(models.BookingStatusPending)
			router := newPaymentRouter(store, gateway.URL)

			w := verifyRequest(router)

			assert.Equal(t, http.StatusAccepted, w.Code, status)
			assert.Empty(t, store.failed, status)
			assert.Empty(t, store.confirmed, status)
			assert.Equal(t, models.BookingStatusPending, store.byID["booking-1"].Status, status)

			gateway.Close()
		}
	})

	t.Run("Success For Cancelled Booking Conflicts", func(t *testing.T) {
		// The user cancelled before the charge settled; the money needs
		// manual reconciliation, not a fabricated confirmation.
		gateway := newVerifyGateway("success")
		defer gateway.Close()

		store := newStubBookingStore(models.BookingStatusCancelled)
		router := newPaymentRouter(store, gateway.URL)

		w := verifyRequest(router)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "BOOKING_NOT_PAYABLE")
		assert.Equal(t, models.BookingStatusCancelled, store.byID["booking-1"].Status)
		assert.Empty(t, store.confirmed)
	})
}
