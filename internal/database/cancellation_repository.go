package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/roadlink/booking-backend/internal/models"
)

// CancellationRepository handles reads and refund-state updates for the
// bus_cancellations audit table. Inserts happen inside the booking
// cancellation transaction (see BookingRepository.CancelWithRelease).
type CancellationRepository struct {
	db DB
}

// NewCancellationRepository creates a new CancellationRepository
func NewCancellationRepository(db DB) *CancellationRepository {
	return &CancellationRepository{db: db}
}

// GetByBookingID retrieves the cancellation record for a booking
func (r *CancellationRepository) GetByBookingID(bookingID string) (*models.BusCancellation, error) {
	c := &models.BusCancellation{}
	query := `
		SELECT id, booking_id, user_id, trip_id, booking_date, seat_numbers,
			   refund_amount, currency, status, created_at
		FROM bus_cancellations
		WHERE booking_id = $1
	`

	err := r.db.QueryRow(query, bookingID).Scan(
		&c.ID, &c.BookingID, &c.UserID, &c.TripID, &c.BookingDate,
		&c.SeatNumbers, &c.RefundAmount, &c.Currency, &c.Status, &c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cancellation: %w", err)
	}

	return c, nil
}

// GetPending retrieves cancellations with refunds not yet processed
func (r *CancellationRepository) GetPending() ([]models.BusCancellation, error) {
	query := `
		SELECT id, booking_id, user_id, trip_id, booking_date, seat_numbers,
			   refund_amount, currency, status, created_at
		FROM bus_cancellations
		WHERE status = 'pending'
		ORDER BY created_at
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending cancellations: %w", err)
	}
	defer rows.Close()

	cancellations := []models.BusCancellation{}
	for rows.Next() {
		var c models.BusCancellation
		err := rows.Scan(
			&c.ID, &c.BookingID, &c.UserID, &c.TripID, &c.BookingDate,
			&c.SeatNumbers, &c.RefundAmount, &c.Currency, &c.Status, &c.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		cancellations = append(cancellations, c)
	}

	return cancellations, rows.Err()
}

// MarkRefunded marks a cancellation's refund as processed
func (r *CancellationRepository) MarkRefunded(cancellationID string) error {
	result, err := r.db.Exec(
		`UPDATE bus_cancellations SET status = 'refunded' WHERE id = $1 AND status = 'pending'`,
		cancellationID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark cancellation refunded: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
