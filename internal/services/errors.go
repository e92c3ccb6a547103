package services

import "errors"

var (
	// ErrTripNotFound is returned when a trip or its bus cannot be resolved.
	ErrTripNotFound = errors.New("trip not found")

	// ErrBookingNotFound is returned when a booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidDate is returned when the requested date does not match the
	// trip's schedule (wrong weekday for recurring trips, wrong date for
	// one-off trips).
	ErrInvalidDate = errors.New("trip does not run on the requested date")

	// ErrSeatConflict is returned when a requested seat was booked by
	// someone else first.
	ErrSeatConflict = errors.New("selected seats are no longer available")

	// ErrSeatOutOfRange is returned when a seat number falls outside the
	// bus capacity.
	ErrSeatOutOfRange = errors.New("seat number exceeds bus capacity")

	// ErrNotBookingOwner is returned when a user acts on a booking they do
	// not own.
	ErrNotBookingOwner = errors.New("booking belongs to another user")

	// ErrAlreadyCancelled is returned when cancelling a cancelled booking.
	ErrAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrPastTrip is returned when cancelling a booking whose travel date
	// has already passed.
	ErrPastTrip = errors.New("past trips cannot be cancelled")

	// ErrBookingNotPayable is returned when a payment confirmation arrives
	// for a booking that is no longer pending, typically because the user
	// cancelled it before the charge settled. The charge needs manual
	// reconciliation.
	ErrBookingNotPayable = errors.New("booking is no longer payable")

	// ErrValidation wraps request validation failures.
	ErrValidation = errors.New("invalid request")

	// ErrPaymentNotSuccessful is returned when the gateway reports a charge
	// that did not succeed.
	ErrPaymentNotSuccessful = errors.New("payment was not successful")
)
