package database

import (
	"fmt"

	"github.com/roadlink/booking-backend/internal/models"
)

// PassengerRepository handles reads for the passenger_details table.
// Inserts happen inside the booking creation transaction.
type PassengerRepository struct {
	db DB
}

// NewPassengerRepository creates a new PassengerRepository
func NewPassengerRepository(db DB) *PassengerRepository {
	return &PassengerRepository{db: db}
}

// GetByBookingID retrieves passenger details for a booking, ordered by seat
func (r *PassengerRepository) GetByBookingID(bookingID string) ([]models.PassengerDetail, error) {
	passengers := []models.PassengerDetail{}
	query := `
		SELECT id, booking_id, seat_number, name, phone, email,
			   next_of_kin_name, next_of_kin_phone, created_at
		FROM passenger_details
		WHERE booking_id = $1
		ORDER BY seat_number
	`

	if err := r.db.Select(&passengers, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to fetch passenger details: %w", err)
	}

	return passengers, nil
}
