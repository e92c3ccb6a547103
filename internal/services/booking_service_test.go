package services

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadlink/booking-backend/internal/config"
	"github.com/roadlink/booking-backend/internal/database"
	"github.com/roadlink/booking-backend/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testPolicy() config.BookingConfig {
	return config.BookingConfig{
		RefundPercent:      0.90,
		MaxSeatsPerBooking: 10,
		DefaultCurrency:    "NGN",
	}
}

func futureDate() time.Time {
	d := time.Now().AddDate(0, 0, 14)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func recurringTrip() *models.Trip {
	return &models.Trip{
		ID:            "trip-1",
		Recurring:     true,
		DaysOfWeek:    models.IntArray{0, 1, 2, 3, 4, 5, 6},
		DepartureTime: "08:00",
		Price:         6500,
		Currency:      "NGN",
		BusID:         "bus-1",
		RouteID:       "route-1",
		DriverID:      "driver-1",
		IsActive:      true,
	}
}

func TestCreateBooking(t *testing.T) {
	trip := recurringTrip()
	bus := &models.Bus{ID: "bus-1", Capacity: 40}
	date := futureDate()

	newService := func(store *fakeBookingStore) *BookingService {
		return NewBookingService(
			store,
			&fakeTripStore{trips: map[string]*models.Trip{trip.ID: trip}},
			&fakeBusStore{buses: map[string]*models.Bus{bus.ID: bus}},
			&fakeOccurrenceStore{occurrences: map[string]*models.TripOccurrence{}},
			testPolicy(),
			testLogger(),
		)
	}

	t.Run("Success", func(t *testing.T) {
		store := &fakeBookingStore{}
		svc := newService(store)

		booking, err := svc.Create("user-1", models.CreateBookingRequest{
			TripID:      "trip-1",
			Date:        date.Format("2006-01-02"),
			SeatNumbers: []int64{3, 4},
			Passengers: []models.PassengerInput{
				{SeatNumber: 3, Name: "Ada Obi"},
				{SeatNumber: 4, Name: "Chinedu Eze"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusPending, booking.Status)
		assert.Equal(t, "BK-20250601-A1B2C3", booking.Reference)
		assert.Equal(t, 13000.0, booking.TotalAmount) // 2 seats x 6500
		assert.Equal(t, "NGN", booking.Currency)
		assert.Len(t, store.created, 1)
	})

	t.Run("Seat Conflict", func(t *testing.T) {
		store := &fakeBookingStore{createErr: database.ErrSeatConflict}
		svc := newService(store)

		_, err := svc.Create("user-1", models.CreateBookingRequest{
			TripID:      "trip-1",
			Date:        date.Format("2006-01-02"),
			SeatNumbers: []int64{4},
		})
		assert.ErrorIs(t, err, ErrSeatConflict)
	})

	t.Run("Seat Exceeds Capacity", func(t *testing.T) {
		svc := newService(&fakeBookingStore{})

		_, err := svc.Create("user-1", models.CreateBookingRequest{
			TripID:      "trip-1",
			Date:        date.Format("2006-01-02"),
			SeatNumbers: []int64{41},
		})
		assert.ErrorIs(t, err, ErrSeatOutOfRange)
	})

	t.Run("Duplicate Seats Rejected", func(t *testing.T) {
		svc := newService(&fakeBookingStore{})

		_, err := svc.Create("user-1", models.CreateBookingRequest{
			TripID:      "trip-1",
			Date:        date.Format("2006-01-02"),
			SeatNumbers: []int64{3, 3},
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Unknown Trip", func(t *testing.T) {
		svc := newService(&fakeBookingStore{})

		_, err := svc.Create("user-1", models.CreateBookingRequest{
			TripID:      "trip-missing",
			Date:        date.Format("2006-01-02"),
			SeatNumbers: []int64{3},
		})
		assert.ErrorIs(t, err, ErrTripNotFound)
	})

	t.Run("One Off Trip Wrong Date", func(t *testing.T) {
		fixed := futureDate()
		oneOff := &models.Trip{
			ID:            "trip-2",
			Date:          &fixed,
			DepartureTime: "08:00",
			Price:         6500,
			BusID:         "bus-1",
			IsActive:      true,
		}
		svc := NewBookingService(
			&fakeBookingStore{},
			&fakeTripStore{trips: map[string]*models.Trip{oneOff.ID: oneOff}},
			&fakeBusStore{buses: map[string]*models.Bus{bus.ID: bus}},
			&fakeOccurrenceStore{},
			testPolicy(),
			testLogger(),
		)

		_, err := svc.Create("user-1", models.CreateBookingRequest{
			TripID:      "trip-2",
			Date:        fixed.AddDate(0, 0, 1).Format("2006-01-02"),
			SeatNumbers: []int64{3},
		})
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestCancelBooking(t *testing.T) {
	trip := recurringTrip()
	bus := &models.Bus{ID: "bus-1", Capacity: 40}

	newBooking := func(status models.BookingStatus, travelDate time.Time) *models.Booking {
		return &models.Booking{
			ID:          "booking-1",
			Reference:   "BK-20250601-A1B2C3",
			UserID:      "user-1",
			TripID:      trip.ID,
			SeatNumbers: models.IntArray{3, 4},
			TravelDate:  travelDate,
			TotalAmount: 13000,
			Currency:    "NGN",
			Status:      status,
		}
	}

	newService := func(store *fakeBookingStore) *BookingService {
		return NewBookingService(
			store,
			&fakeTripStore{trips: map[string]*models.Trip{trip.ID: trip}},
			&fakeBusStore{buses: map[string]*models.Bus{bus.ID: bus}},
			&fakeOccurrenceStore{},
			testPolicy(),
			testLogger(),
		)
	}

	t.Run("Success With Refund", func(t *testing.T) {
		booking := newBooking(models.BookingStatusConfirmed, futureDate())
		store := &fakeBookingStore{bookings: map[string]*models.Booking{booking.ID: booking}}
		svc := newService(store)

		cancellation, err := svc.Cancel("booking-1", "user-1")
		require.NoError(t, err)
		assert.Equal(t, 11700.0, cancellation.RefundAmount) // 0.9 x 13000
		assert.Equal(t, models.CancellationStatusPending, cancellation.Status)
		assert.Equal(t, models.IntArray{3, 4}, cancellation.SeatNumbers)
		assert.Len(t, store.cancellations, 1)
	})

	t.Run("Not Owner", func(t *testing.T) {
		booking := newBooking(models.BookingStatusConfirmed, futureDate())
		svc := newService(&fakeBookingStore{bookings: map[string]*models.Booking{booking.ID: booking}})

		_, err := svc.Cancel("booking-1", "user-2")
		assert.ErrorIs(t, err, ErrNotBookingOwner)
	})

	t.Run("Already Cancelled", func(t *testing.T) {
		booking := newBooking(models.BookingStatusCancelled, futureDate())
		svc := newService(&fakeBookingStore{bookings: map[string]*models.Booking{booking.ID: booking}})

		_, err := svc.Cancel("booking-1", "user-1")
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
	})

	t.Run("Past Travel Date", func(t *testing.T) {
		booking := newBooking(models.BookingStatusConfirmed, time.Now().AddDate(0, 0, -2))
		svc := newService(&fakeBookingStore{bookings: map[string]*models.Booking{booking.ID: booking}})

		_, err := svc.Cancel("booking-1", "user-1")
		assert.ErrorIs(t, err, ErrPastTrip)
	})

	t.Run("Unknown Booking", func(t *testing.T) {
		svc := newService(&fakeBookingStore{bookings: map[string]*models.Booking{}})

		_, err := svc.Cancel("booking-missing", "user-1")
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestPaymentTransitions(t *testing.T) {
	trip := recurringTrip()
	bus := &models.Bus{ID: "bus-1", Capacity: 40}

	newService := func(store *fakeBookingStore) *BookingService {
		return NewBookingService(
			store,
			&fakeTripStore{trips: map[string]*models.Trip{trip.ID: trip}},
			&fakeBusStore{buses: map[string]*models.Bus{bus.ID: bus}},
			&fakeOccurrenceStore{},
			testPolicy(),
			testLogger(),
		)
	}

	t.Run("Confirm Pending Booking", func(t *testing.T) {
		booking := &models.Booking{
			ID:        "booking-1",
			Reference: "BK-20250601-A1B2C3",
			UserID:    "user-1",
			Status:    models.BookingStatusPending,
		}
		store := &fakeBookingStore{
			bookings:    map[string]*models.Booking{booking.ID: booking},
			byReference: map[string]*models.Booking{booking.Reference: booking},
		}
		svc := newService(store)

		confirmed, err := svc.ConfirmPayment("BK-20250601-A1B2C3")
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusConfirmed, confirmed.Status)
		assert.NotNil(t, confirmed.PaidAt)
		assert.Equal(t, []string{"booking-1"}, store.confirmed)
	})

	t.Run("Confirm Retry Is NoOp", func(t *testing.T) {
		booking := &models.Booking{
			ID:        "booking-1",
			Reference: "BK-20250601-A1B2C3",
			Status:    models.BookingStatusConfirmed,
		}
		store := &fakeBookingStore{
			bookings:    map[string]*models.Booking{booking.ID: booking},
			byReference: map[string]*models.Booking{booking.Reference: booking},
		}
		svc := newService(store)

		confirmed, err := svc.ConfirmPayment("BK-20250601-A1B2C3")
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusConfirmed, confirmed.Status)
		assert.Empty(t, store.confirmed)
	})

	t.Run("Confirm Cancelled Booking Surfaces Error", func(t *testing.T) {
		// User cancelled before the charge settled: the conditional update
		// matches nothing and the charge needs manual reconciliation.
		booking := &models.Booking{
			ID:        "booking-1",
			Reference: "BK-20250601-A1B2C3",
			UserID:    "user-1",
			Status:    models.BookingStatusCancelled,
		}
		store := &fakeBookingStore{
			bookings:    map[string]*models.Booking{booking.ID: booking},
			byReference: map[string]*models.Booking{booking.Reference: booking},
			confirmErr:  database.ErrNotPending,
		}
		svc := newService(store)

		_, err := svc.ConfirmPayment("BK-20250601-A1B2C3")
		assert.ErrorIs(t, err, ErrBookingNotPayable)
		assert.Equal(t, models.BookingStatusCancelled, booking.Status)
		assert.Nil(t, booking.PaidAt)
	})

	t.Run("Failed Charge Releases Seats", func(t *testing.T) {
		booking := &models.Booking{
			ID:          "booking-1",
			Reference:   "BK-20250601-A1B2C3",
			TripID:      trip.ID,
			SeatNumbers: models.IntArray{7},
			TravelDate:  futureDate(),
			Status:      models.BookingStatusPending,
		}
		store := &fakeBookingStore{
			bookings:    map[string]*models.Booking{booking.ID: booking},
			byReference: map[string]*models.Booking{booking.Reference: booking},
		}
		svc := newService(store)

		err := svc.FailPayment("BK-20250601-A1B2C3")
		require.NoError(t, err)
		assert.Len(t, store.failed, 1)
	})

	t.Run("Failed Charge Retry Is NoOp", func(t *testing.T) {
		booking := &models.Booking{
			ID:        "booking-1",
			Reference: "BK-20250601-A1B2C3",
			Status:    models.BookingStatusCancelled,
		}
		store := &fakeBookingStore{
			bookings:    map[string]*models.Booking{booking.ID: booking},
			byReference: map[string]*models.Booking{booking.Reference: booking},
			failErr:     database.ErrAlreadyCancelled,
		}
		svc := newService(store)

		err := svc.FailPayment("BK-20250601-A1B2C3")
		assert.NoError(t, err)
	})

	t.Run("Unknown Reference", func(t *testing.T) {
		store := &fakeBookingStore{byReference: map[string]*models.Booking{}}
		svc := newService(store)

		_, err := svc.ConfirmPayment("BK-20250601-FFFFFF")
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestGetBookingOwnership(t *testing.T) {
	trip := recurringTrip()
	booking := &models.Booking{
		ID:     "booking-1",
		UserID: "user-1",
		Status: models.BookingStatusConfirmed,
	}
	svc := NewBookingService(
		&fakeBookingStore{bookings: map[string]*models.Booking{booking.ID: booking}},
		&fakeTripStore{trips: map[string]*models.Trip{trip.ID: trip}},
		&fakeBusStore{},
		&fakeOccurrenceStore{},
		testPolicy(),
		testLogger(),
	)

	got, err := svc.Get("booking-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "booking-1", got.ID)

	_, err = svc.Get("booking-1", "user-2")
	assert.ErrorIs(t, err, ErrNotBookingOwner)
}

func TestListForTrip(t *testing.T) {
	trip := recurringTrip()
	date := futureDate()
	bookings := map[string]*models.Booking{
		"booking-1": {ID: "booking-1", TripID: trip.ID, UserID: "user-1", TravelDate: date},
		"booking-2": {ID: "booking-2", TripID: trip.ID, UserID: "user-2", TravelDate: date},
		"booking-3": {ID: "booking-3", TripID: trip.ID, UserID: "user-3", TravelDate: date.AddDate(0, 0, 7)},
	}
	svc := NewBookingService(
		&fakeBookingStore{bookings: bookings},
		&fakeTripStore{trips: map[string]*models.Trip{trip.ID: trip}},
		&fakeBusStore{},
		&fakeOccurrenceStore{},
		testPolicy(),
		testLogger(),
	)

	got, err := svc.ListForTrip(trip.ID, date)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = svc.ListForTrip("trip-404", date)
	assert.ErrorIs(t, err, ErrTripNotFound)
}
