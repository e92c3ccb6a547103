package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadlink/booking-backend/internal/database"
	"github.com/roadlink/booking-backend/internal/models"
	"github.com/roadlink/booking-backend/internal/services"
)

// Minimal store fakes satisfying the services interfaces.

type stubTripStore struct {
	trip *models.Trip
}

func (s *stubTripStore) GetByID(tripID string) (*models.Trip, error) {
	if s.trip == nil || s.trip.ID != tripID {
		return nil, database.ErrNotFound
	}
	return s.trip, nil
}

func (s *stubTripStore) GetActive() ([]models.Trip, error) {
	if s.trip == nil {
		return nil, nil
	}
	return []models.Trip{*s.trip}, nil
}

type stubBusStore struct {
	bus *models.Bus
}

func (s *stubBusStore) GetByID(busID string) (*models.Bus, error) {
	if s.bus == nil || s.bus.ID != busID {
		return nil, database.ErrNotFound
	}
	return s.bus, nil
}

func (s *stubBusStore) SetStatus(busID string, status models.BusStatus) error {
	return nil
}

type stubOccurrenceStore struct {
	occ *models.TripOccurrence
}

func (s *stubOccurrenceStore) GetByTripAndDate(tripID string, date time.Time) (*models.TripOccurrence, error) {
	if s.occ == nil {
		return nil, database.ErrNotFound
	}
	return s.occ, nil
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newAvailabilityRouter(tripStore *stubTripStore, busStore *stubBusStore, occStore *stubOccurrenceStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := services.NewSeatInventoryService(tripStore, busStore, occStore)
	handler := NewAvailabilityHandler(svc, newTestLogger())

	router := gin.New()
	router.GET("/api/v1/trips/:id/availability", handler.GetAvailability)
	return router
}

func TestGetAvailability(t *testing.T) {
	trip := &models.Trip{
		ID:            "trip-1",
		Recurring:     true,
		DaysOfWeek:    models.IntArray{0, 1, 2, 3, 4, 5, 6},
		DepartureTime: "08:00",
		BusID:         "bus-1",
		IsActive:      true,
	}
	bus := &models.Bus{ID: "bus-1", Capacity: 40}

	t.Run("Success", func(t *testing.T) {
		router := newAvailabilityRouter(
			&stubTripStore{trip: trip},
			&stubBusStore{bus: bus},
			&stubOccurrenceStore{occ: &models.TripOccurrence{
				TripID:      "trip-1",
				TotalSeats:  40,
				BookedSeats: models.IntArray{3, 4},
			}},
		)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/trip-1/availability?date=2025-06-01", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body models.SeatAvailability
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "trip-1", body.TripID)
		assert.Equal(t, 40, body.TotalSeats)
		assert.Len(t, body.AvailableSeats, 38)
		assert.Equal(t, []int64{3, 4}, body.BookedSeats)
	})

	t.Run("Missing Date Param", func(t *testing.T) {
		router := newAvailabilityRouter(&stubTripStore{trip: trip}, &stubBusStore{bus: bus}, &stubOccurrenceStore{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/trip-1/availability", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Malformed Date", func(t *testing.T) {
		router := newAvailabilityRouter(&stubTripStore{trip: trip}, &stubBusStore{bus: bus}, &stubOccurrenceStore{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/trip-1/availability?date=01-06-2025", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown Trip", func(t *testing.T) {
		router := newAvailabilityRouter(&stubTripStore{}, &stubBusStore{bus: bus}, &stubOccurrenceStore{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/trip-404/availability?date=2025-06-01", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "TRIP_NOT_FOUND", body.Code)
	})

	t.Run("Trip Not Running On Date Maps To 422", func(t *testing.T) {
		weekendTrip := &models.Trip{
			ID:            "trip-1",
			Recurring:     true,
			DaysOfWeek:    models.IntArray{0}, // Sunday only
			DepartureTime: "08:00",
			BusID:         "bus-1",
			IsActive:      true,
		}
		router := newAvailabilityRouter(&stubTripStore{trip: weekendTrip}, &stubBusStore{bus: bus}, &stubOccurrenceStore{})

		w := httptest.NewRecorder()
		// Monday 2025-06-02
		req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/trip-1/availability?date=2025-06-02", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "INVALID_DATE", body.Code)
	})
}
