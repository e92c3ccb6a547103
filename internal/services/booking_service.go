package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roadlink/booking-backend/internal/config"
	"github.com/roadlink/booking-backend/internal/database"
	"github.com/roadlink/booking-backend/internal/models"
)

// BookingService orchestrates booking creation, cancellation and payment
// status transitions.
type BookingService struct {
	bookingRepo BookingStore
	tripRepo    TripStore
	busRepo     BusStore
	occRepo     OccurrenceStore
	policy      config.BookingConfig
	logger      *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo BookingStore,
	tripRepo TripStore,
	busRepo BusStore,
	occRepo OccurrenceStore,
	policy config.BookingConfig,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		tripRepo:    tripRepo,
		busRepo:     busRepo,
		occRepo:     occRepo,
		policy:      policy,
		logger:      logger,
	}
}

// Create reserves the requested seats for the user and stores a pending
// booking. The fare is computed server-side from the trip price. The seat
// claim and booking insert run in one transaction; a losing race on any
// seat returns ErrSeatConflict and leaves no partial state.
func (s *BookingService) Create(userID string, req models.CreateBookingRequest) (*models.Booking, error) {
	if err := req.Validate(s.policy.MaxSeatsPerBooking); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	trip, err := s.tripRepo.GetByID(req.TripID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}

	if !trip.RunsOn(date) {
		return nil, ErrInvalidDate
	}

	bus, err := s.busRepo.GetByID(trip.BusID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}

	for _, seat := range req.SeatNumbers {
		if seat < 1 || seat > int64(bus.Capacity) {
			return nil, ErrSeatOutOfRange
		}
	}

	reference, err := s.bookingRepo.GenerateReference()
	if err != nil {
		return nil, err
	}

	currency := trip.Currency
	if currency == "" {
		currency = s.policy.DefaultCurrency
	}

	booking := &models.Booking{
		Reference:   reference,
		UserID:      userID,
		TripID:      trip.ID,
		SeatNumbers: models.IntArray(req.SeatNumbers),
		TravelDate:  date,
		TotalAmount: trip.Price * float64(len(req.SeatNumbers)),
		Currency:    currency,
		Status:      models.BookingStatusPending,
	}

	passengers := make([]models.PassengerDetail, 0, len(req.Passengers))
	for _, p := range req.Passengers {
		passengers = append(passengers, models.PassengerDetail{
			SeatNumber:     p.SeatNumber,
			Name:           p.Name,
			Phone:          p.Phone,
			Email:          p.Email,
			NextOfKinName:  p.NextOfKinName,
			NextOfKinPhone: p.NextOfKinPhone,
		})
	}

	err = s.bookingRepo.CreateWithSeats(booking, bus.Capacity, passengers)
	if errors.Is(err, database.ErrSeatConflict) {
		return nil, ErrSeatConflict
	}
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"reference":  booking.Reference,
		"trip_id":    booking.TripID,
		"date":       req.Date,
		"seats":      req.SeatNumbers,
	}).Info("Booking created")

	return booking, nil
}

// Cancel transitions the booking to cancelled, releases its seats and writes
// the cancellation audit row with the refund amount. Only the booking owner
// may cancel, and only before the travel date has passed.
func (s *BookingService) Cancel(bookingID, requestingUserID string) (*models.BusCancellation, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	if booking.UserID != requestingUserID {
		return nil, ErrNotBookingOwner
	}

	if booking.Status == models.BookingStatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	if beforeToday(booking.TravelDate) || booking.Status == models.BookingStatusCompleted {
		return nil, ErrPastTrip
	}

	cancellation := &models.BusCancellation{
		BookingID:    booking.ID,
		UserID:       booking.UserID,
		TripID:       booking.TripID,
		BookingDate:  booking.TravelDate,
		SeatNumbers:  booking.SeatNumbers,
		RefundAmount: booking.RefundAmount(s.policy.RefundPercent),
		Currency:     booking.Currency,
		Status:       models.CancellationStatusPending,
	}

	err = s.bookingRepo.CancelWithRelease(booking, cancellation)
	if errors.Is(err, database.ErrAlreadyCancelled) {
		return nil, ErrAlreadyCancelled
	}
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"reference":  booking.Reference,
		"refund":     cancellation.RefundAmount,
	}).Info("Booking cancelled")

	return cancellation, nil
}

// ConfirmPayment marks the booking identified by the gateway charge
// reference as confirmed. Bookings carry their own reference as the charge
// reference, so webhook retries resolve to the same row; confirming twice is
// a no-op success.
func (s *BookingService) ConfirmPayment(reference string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByReference(reference)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	if booking.Status == models.BookingStatusConfirmed {
		return booking, nil
	}

	err = s.bookingRepo.ConfirmPayment(booking.ID, reference)
	if errors.Is(err, database.ErrNotPending) {
		// The row left the pending state between our read and the update.
		// A racing webhook confirming it is fine; anything else (the user
		// cancelled before the charge settled) means we hold money for a
		// booking whose seats are already released.
		current, readErr := s.bookingRepo.GetByReference(reference)
		if readErr == nil && current.Status == models.BookingStatusConfirmed {
			return current, nil
		}

		s.logger.WithFields(logrus.Fields{
			"booking_id": booking.ID,
			"reference":  booking.Reference,
			"status":     booking.Status,
		}).Error("Payment received for a booking that is no longer payable")
		return nil, ErrBookingNotPayable
	}
	if err != nil {
		return nil, err
	}

	booking.Status = models.BookingStatusConfirmed
	now := time.Now()
	booking.PaidAt = &now
	booking.PaymentReference = &reference

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"reference":  booking.Reference,
	}).Info("Payment confirmed")

	return booking, nil
}

// FailPayment cancels the pending booking identified by the charge reference
// and releases its seats. No refund record is written because no charge
// succeeded. Already-resolved bookings are left untouched.
func (s *BookingService) FailPayment(reference string) error {
	booking, err := s.bookingRepo.GetByReference(reference)
	if errors.Is(err, database.ErrNotFound) {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}

	err = s.bookingRepo.FailWithRelease(booking)
	if errors.Is(err, database.ErrAlreadyCancelled) {
		// Webhook retry or racing verify call; nothing left to do.
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"reference":  booking.Reference,
	}).Info("Booking cancelled after failed payment")

	return nil
}

// Get returns the booking, enforcing ownership
func (s *BookingService) Get(bookingID, requestingUserID string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	if booking.UserID != requestingUserID {
		return nil, ErrNotBookingOwner
	}

	return booking, nil
}

// ListForUser returns the user's bookings, newest first
func (s *BookingService) ListForUser(userID string) ([]models.Booking, error) {
	return s.bookingRepo.GetByUserID(userID)
}

// ListForTrip returns all bookings for a trip occurrence. Operator-facing;
// no ownership filter.
func (s *BookingService) ListForTrip(tripID string, date time.Time) ([]models.Booking, error) {
	if _, err := s.tripRepo.GetByID(tripID); errors.Is(err, database.ErrNotFound) {
		return nil, ErrTripNotFound
	} else if err != nil {
		return nil, err
	}
	return s.bookingRepo.GetByTripAndDate(tripID, date)
}

// CompletePastBookings marks confirmed bookings with a past travel date as
// completed. Run daily by the cron service.
func (s *BookingService) CompletePastBookings(now time.Time) (int64, error) {
	return s.bookingRepo.MarkCompleted(now)
}

// beforeToday reports whether the date falls strictly before today's date
// in server-local time.
func beforeToday(date time.Time) bool {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	return d.Before(today)
}
