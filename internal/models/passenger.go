package models

import "time"

// PassengerDetail holds the passenger and next-of-kin information attached
// to a booked seat. Pure data, no behavior.
type PassengerDetail struct {
	ID             string    `json:"id" db:"id"`
	BookingID      string    `json:"booking_id" db:"booking_id"`
	SeatNumber     int64     `json:"seat_number" db:"seat_number"`
	Name           string    `json:"name" db:"name"`
	Phone          string    `json:"phone" db:"phone"`
	Email          string    `json:"email" db:"email"`
	NextOfKinName  string    `json:"next_of_kin_name" db:"next_of_kin_name"`
	NextOfKinPhone string    `json:"next_of_kin_phone" db:"next_of_kin_phone"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
