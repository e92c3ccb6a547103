package database

import "errors"

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrSeatConflict is returned when a seat claim overlaps seats already
	// booked for the same trip occurrence.
	ErrSeatConflict = errors.New("one or more seats already booked")

	// ErrAlreadyCancelled is returned when cancelling a booking whose
	// status is already cancelled.
	ErrAlreadyCancelled = errors.New("booking already cancelled")

	// ErrNotPending is returned when a status transition requires a pending
	// booking but the row has already left that state.
	ErrNotPending = errors.New("booking is not pending")

	// ErrReferenced is returned when a delete is blocked by rows that
	// still reference the record.
	ErrReferenced = errors.New("record is referenced by other rows")
)
