package models

import "time"

// TripOccurrence is one concrete dated instance of a trip, holding the seat
// booking state for that date. Rows are created lazily on first booking; a
// missing row means the full bus capacity is available.
type TripOccurrence struct {
	ID             string    `json:"id" db:"id"`
	TripID         string    `json:"trip_id" db:"trip_id"`
	OccurrenceDate time.Time `json:"occurrence_date" db:"occurrence_date"`
	TotalSeats     int       `json:"total_seats" db:"total_seats"`
	AvailableSeats int       `json:"available_seats" db:"available_seats"`
	BookedSeats    IntArray  `json:"booked_seats" db:"booked_seats"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// SeatAvailability is the resolver response for a trip + date query.
// AvailableSeats is ascending; the union of both sets is always 1..TotalSeats.
type SeatAvailability struct {
	TripID         string  `json:"trip_id"`
	Date           string  `json:"date"`
	TotalSeats     int     `json:"total_seats"`
	AvailableSeats []int64 `json:"available_seats"`
	BookedSeats    []int64 `json:"booked_seats"`
}
