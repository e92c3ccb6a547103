package services

import (
	"time"

	"github.com/roadlink/booking-backend/internal/database"
	"github.com/roadlink/booking-backend/internal/models"
)

// In-memory store fakes shared by the service tests.

type fakeTripStore struct {
	trips map[string]*models.Trip
	err   error
}

func (f *fakeTripStore) GetByID(tripID string) (*models.Trip, error) {
	if f.err != nil {
		return nil, f.err
	}
	trip, ok := f.trips[tripID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return trip, nil
}

func (f *fakeTripStore) GetActive() ([]models.Trip, error) {
	if f.err != nil {
		return nil, f.err
	}
	trips := make([]models.Trip, 0, len(f.trips))
	for _, trip := range f.trips {
		if trip.IsActive {
			trips = append(trips, *trip)
		}
	}
	return trips, nil
}

type fakeBusStore struct {
	buses      map[string]*models.Bus
	statusSets map[string]models.BusStatus
	err        error
}

func (f *fakeBusStore) GetByID(busID string) (*models.Bus, error) {
	if f.err != nil {
		return nil, f.err
	}
	bus, ok := f.buses[busID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return bus, nil
}

func (f *fakeBusStore) SetStatus(busID string, status models.BusStatus) error {
	if f.statusSets == nil {
		f.statusSets = make(map[string]models.BusStatus)
	}
	f.statusSets[busID] = status
	if bus, ok := f.buses[busID]; ok {
		bus.Status = status
	}
	return nil
}

type fakeRouteStore struct {
	routes map[string]*models.Route
}

func (f *fakeRouteStore) GetByID(routeID string) (*models.Route, error) {
	route, ok := f.routes[routeID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return route, nil
}

type fakeDriverStore struct {
	statusSets map[string]models.DriverStatus
}

func (f *fakeDriverStore) SetStatus(driverID string, status models.DriverStatus) error {
	if f.statusSets == nil {
		f.statusSets = make(map[string]models.DriverStatus)
	}
	f.statusSets[driverID] = status
	return nil
}

type fakeOccurrenceStore struct {
	occurrences map[string]*models.TripOccurrence // keyed by tripID + "|" + date
	err         error
}

func occKey(tripID string, date time.Time) string {
	return tripID + "|" + date.Format("2006-01-02")
}

func (f *fakeOccurrenceStore) GetByTripAndDate(tripID string, date time.Time) (*models.TripOccurrence, error) {
	if f.err != nil {
		return nil, f.err
	}
	occ, ok := f.occurrences[occKey(tripID, date)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return occ, nil
}

type fakeBookingStore struct {
	bookings      map[string]*models.Booking // by ID
	byReference   map[string]*models.Booking
	created       []*models.Booking
	cancellations []*models.BusCancellation
	failed        []*models.Booking
	confirmed     []string
	completed     int64

	createErr  error
	cancelErr  error
	failErr    error
	confirmErr error
}

func (f *fakeBookingStore) GenerateReference() (string, error) {
	return "BK-20250601-A1B2C3", nil
}

func (f *fakeBookingStore) CreateWithSeats(booking *models.Booking, totalSeats int, passengers []models.PassengerDetail) error {
	if f.createErr != nil {
		return f.createErr
	}
	booking.ID = "booking-" + booking.Reference
	f.created = append(f.created, booking)
	return nil
}

func (f *fakeBookingStore) CancelWithRelease(booking *models.Booking, cancellation *models.BusCancellation) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	booking.Status = models.BookingStatusCancelled
	f.cancellations = append(f.cancellations, cancellation)
	return nil
}

func (f *fakeBookingStore) FailWithRelease(booking *models.Booking) error {
	if f.failErr != nil {
		return f.failErr
	}
	booking.Status = models.BookingStatusCancelled
	f.failed = append(f.failed, booking)
	return nil
}

func (f *fakeBookingStore) GetByID(bookingID string) (*models.Booking, error) {
	booking, ok := f.bookings[bookingID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return booking, nil
}

func (f *fakeBookingStore) GetByReference(reference string) (*models.Booking, error) {
	booking, ok := f.byReference[reference]
	if !ok {
		return nil, database.ErrNotFound
	}
	return booking, nil
}

func (f *fakeBookingStore) GetByUserID(userID string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	for _, b := range f.bookings {
		if b.UserID == userID {
			bookings = append(bookings, *b)
		}
	}
	return bookings, nil
}

func (f *fakeBookingStore) GetByTripAndDate(tripID string, date time.Time) ([]models.Booking, error) {
	bookings := []models.Booking{}
	for _, b := range f.bookings {
		if b.TripID == tripID && b.TravelDate.Format("2006-01-02") == date.Format("2006-01-02") {
			bookings = append(bookings, *b)
		}
	}
	return bookings, nil
}

func (f *fakeBookingStore) ConfirmPayment(bookingID, paymentReference string) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmed = append(f.confirmed, bookingID)
	if b, ok := f.bookings[bookingID]; ok {
		b.Status = models.BookingStatusConfirmed
	}
	return nil
}

func (f *fakeBookingStore) MarkCompleted(before time.Time) (int64, error) {
	return f.completed, nil
}
