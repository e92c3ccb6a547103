package models

import "time"

// CancellationStatus represents the refund state of a cancellation record
type CancellationStatus string

const (
	CancellationStatusPending  CancellationStatus = "pending"
	CancellationStatusRefunded CancellationStatus = "refunded"
)

// BusCancellation is the audit record written when a booking is cancelled.
// The refund amount is captured at cancellation time so later policy changes
// never rewrite history.
type BusCancellation struct {
	ID           string             `json:"id" db:"id"`
	BookingID    string             `json:"booking_id" db:"booking_id"`
	UserID       string             `json:"user_id" db:"user_id"`
	TripID       string             `json:"trip_id" db:"trip_id"`
	BookingDate  time.Time          `json:"booking_date" db:"booking_date"`
	SeatNumbers  IntArray           `json:"seat_numbers" db:"seat_numbers"`
	RefundAmount float64            `json:"refund_amount" db:"refund_amount"`
	Currency     string             `json:"currency" db:"currency"`
	Status       CancellationStatus `json:"status" db:"status"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
}
