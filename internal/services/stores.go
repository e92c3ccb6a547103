package services

import (
	"time"

	"github.com/roadlink/booking-backend/internal/models"
)

// Store interfaces consumed by the services. The database package provides
// the production implementations; tests supply fakes.

// TripStore provides trip lookups
type TripStore interface {
	GetByID(tripID string) (*models.Trip, error)
	GetActive() ([]models.Trip, error)
}

// BusStore provides bus lookups and status updates
type BusStore interface {
	GetByID(busID string) (*models.Bus, error)
	SetStatus(busID string, status models.BusStatus) error
}

// RouteStore provides route lookups
type RouteStore interface {
	GetByID(routeID string) (*models.Route, error)
}

// DriverStore provides driver status updates
type DriverStore interface {
	SetStatus(driverID string, status models.DriverStatus) error
}

// OccurrenceStore provides trip occurrence reads
type OccurrenceStore interface {
	GetByTripAndDate(tripID string, date time.Time) (*models.TripOccurrence, error)
}

// BookingStore provides booking persistence
type BookingStore interface {
	GenerateReference() (string, error)
	CreateWithSeats(booking *models.Booking, totalSeats int, passengers []models.PassengerDetail) error
	CancelWithRelease(booking *models.Booking, cancellation *models.BusCancellation) error
	FailWithRelease(booking *models.Booking) error
	GetByID(bookingID string) (*models.Booking, error)
	GetByReference(reference string) (*models.Booking, error)
	GetByUserID(userID string) ([]models.Booking, error)
	GetByTripAndDate(tripID string, date time.Time) ([]models.Booking, error)
	ConfirmPayment(bookingID, paymentReference string) error
	MarkCompleted(before time.Time) (int64, error)
}
