package models

import (
	"errors"
	"time"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking represents a user's reservation of seats on a trip occurrence.
// Bookings are never deleted; cancellation is a status transition.
type Booking struct {
	ID               string        `json:"id" db:"id"`
	Reference        string        `json:"reference" db:"reference"`
	UserID           string        `json:"user_id" db:"user_id"`
	TripID           string        `json:"trip_id" db:"trip_id"`
	SeatNumbers      IntArray      `json:"seat_numbers" db:"seat_numbers"`
	TravelDate       time.Time     `json:"travel_date" db:"travel_date"`
	TotalAmount      float64       `json:"total_amount" db:"total_amount"`
	Currency         string        `json:"currency" db:"currency"`
	Status           BookingStatus `json:"status" db:"status"`
	PaymentReference *string       `json:"payment_reference,omitempty" db:"payment_reference"`
	PaidAt           *time.Time    `json:"paid_at,omitempty" db:"paid_at"`
	CancelledAt      *time.Time    `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

// PassengerInput carries per-seat passenger details on booking creation
type PassengerInput struct {
	SeatNumber     int64  `json:"seat_number" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	NextOfKinName  string `json:"next_of_kin_name"`
	NextOfKinPhone string `json:"next_of_kin_phone"`
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	TripID      string           `json:"trip_id" binding:"required"`
	Date        string           `json:"date" binding:"required"` // "2006-01-02"
	SeatNumbers []int64          `json:"seat_numbers" binding:"required,min=1"`
	Passengers  []PassengerInput `json:"passengers,omitempty"`
}

// Validate validates the create booking request
func (r *CreateBookingRequest) Validate(maxSeats int) error {
	if len(r.SeatNumbers) == 0 {
		return errors.New("at least one seat must be selected")
	}
	if maxSeats > 0 && len(r.SeatNumbers) > maxSeats {
		return errors.New("too many seats requested in a single booking")
	}

	seen := make(map[int64]bool, len(r.SeatNumbers))
	for _, s := range r.SeatNumbers {
		if seen[s] {
			return errors.New("duplicate seat number in request")
		}
		seen[s] = true
	}

	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return errors.New("date must be in YYYY-MM-DD format")
	}

	// Passenger details are optional, but when supplied each must map to a
	// requested seat.
	for _, p := range r.Passengers {
		if !seen[p.SeatNumber] {
			return errors.New("passenger detail refers to a seat not in the request")
		}
	}

	return nil
}

// CanBeCancelled reports whether the booking is in a cancellable state
func (b *Booking) CanBeCancelled() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// IsPaid reports whether payment has been confirmed for the booking
func (b *Booking) IsPaid() bool {
	return b.PaidAt != nil
}

// RefundAmount calculates the refund owed on cancellation. The percentage
// is a business rule owned by the caller's configuration.
func (b *Booking) RefundAmount(percent float64) float64 {
	return b.TotalAmount * percent
}
