package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/roadlink/booking-backend/internal/models"
)

// BookingRepository handles database operations for bookings and their
// passenger details. It needs *sqlx.DB (not the DB interface) because
// booking creation and cancellation are multi-statement transactions.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, reference, user_id, trip_id, seat_numbers, travel_date,
	total_amount, currency, status, payment_reference, paid_at, cancelled_at,
	created_at, updated_at`

// GenerateReference generates a unique booking reference.
// Format: BK-YYYYMMDD-XXXXXX (6 hex chars). Example: BK-20250601-A1B2C3
func (r *BookingRepository) GenerateReference() (string, error) {
	todayStr := time.Now().Format("20060102")

	for attempts := 0; attempts < 10; attempts++ {
		randomBytes := make([]byte, 3)
		if _, err := rand.Read(randomBytes); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		newRef := fmt.Sprintf("BK-%s-%s", todayStr, strings.ToUpper(hex.EncodeToString(randomBytes)))

		var count int
		if err := r.db.Get(&count, `SELECT COUNT(*) FROM bookings WHERE reference = $1`, newRef); err != nil {
			return "", fmt.Errorf("failed to check reference uniqueness: %w", err)
		}

		if count == 0 {
			return newRef, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique booking reference after 10 attempts")
}

// CreateWithSeats creates a booking, claims its seats on the trip occurrence
// and stores passenger details, all in one transaction. The occurrence claim
// is the conditional upsert from occurrence_repository.go, so a concurrent
// booking racing for the same seat rolls the whole transaction back with
// ErrSeatConflict and leaves no partial state.
func (r *BookingRepository) CreateWithSeats(booking *models.Booking, totalSeats int, passengers []models.PassengerDetail) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}

	if err := claimSeats(tx, booking.TripID, booking.TravelDate, totalSeats, booking.SeatNumbers); err != nil {
		return err
	}

	bookingQuery := `
		INSERT INTO bookings (
			id, reference, user_id, trip_id, seat_numbers, travel_date,
			total_amount, currency, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		RETURNING created_at, updated_at
	`

	err = tx.QueryRow(bookingQuery,
		booking.ID, booking.Reference, booking.UserID, booking.TripID,
		booking.SeatNumbers, booking.TravelDate.Format("2006-01-02"),
		booking.TotalAmount, booking.Currency, booking.Status,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	passengerQuery := `
		INSERT INTO passenger_details (
			id, booking_id, seat_number, name, phone, email,
			next_of_kin_name, next_of_kin_phone
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for i := range passengers {
		passengers[i].ID = uuid.New().String()
		passengers[i].BookingID = booking.ID

		_, err = tx.Exec(passengerQuery,
			passengers[i].ID, passengers[i].BookingID, passengers[i].SeatNumber,
			passengers[i].Name, passengers[i].Phone, passengers[i].Email,
			passengers[i].NextOfKinName, passengers[i].NextOfKinPhone,
		)
		if err != nil {
			return fmt.Errorf("failed to store passenger for seat %d: %w", passengers[i].SeatNumber, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking transaction: %w", err)
	}

	return nil
}

// CancelWithRelease transitions a booking to cancelled, releases its seats
// back to the occurrence and writes the cancellation audit row, atomically.
// The status guard makes retried cancellations report ErrAlreadyCancelled
// without touching state.
func (r *BookingRepository) CancelWithRelease(booking *models.Booking, cancellation *models.BusCancellation) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var cancelledAt time.Time
	err = tx.QueryRow(`
		UPDATE bookings
		SET status = 'cancelled', cancelled_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status != 'cancelled'
		RETURNING cancelled_at
	`, booking.ID).Scan(&cancelledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAlreadyCancelled
	}
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if err := releaseSeats(tx, booking.TripID, booking.TravelDate, booking.SeatNumbers); err != nil {
		return err
	}

	if cancellation.ID == "" {
		cancellation.ID = uuid.New().String()
	}
	err = tx.QueryRow(`
		INSERT INTO bus_cancellations (
			id, booking_id, user_id, trip_id, booking_date, seat_numbers,
			refund_amount, currency, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`,
		cancellation.ID, cancellation.BookingID, cancellation.UserID, cancellation.TripID,
		cancellation.BookingDate.Format("2006-01-02"), cancellation.SeatNumbers,
		cancellation.RefundAmount, cancellation.Currency, cancellation.Status,
	).Scan(&cancellation.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record cancellation: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancellation transaction: %w", err)
	}

	booking.Status = models.BookingStatusCancelled
	booking.CancelledAt = &cancelledAt

	return nil
}

// FailWithRelease cancels an unpaid booking after a failed charge and
// releases its seats. No cancellation audit row is written because nothing
// was charged.
func (r *BookingRepository) FailWithRelease(booking *models.Booking) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE bookings
		SET status = 'cancelled', cancelled_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, booking.ID)
	if err != nil {
		return fmt.Errorf("failed to mark booking failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Already cancelled or confirmed; nothing to release.
		return ErrAlreadyCancelled
	}

	if err := releaseSeats(tx, booking.TripID, booking.TravelDate, booking.SeatNumbers); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit failure transaction: %w", err)
	}

	booking.Status = models.BookingStatusCancelled

	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanBooking(r.db.QueryRow(query, bookingID))
}

// GetByReference retrieves a booking by its external reference
func (r *BookingRepository) GetByReference(reference string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = $1`
	return r.scanBooking(r.db.QueryRow(query, reference))
}

// GetByPaymentReference retrieves a booking by gateway payment reference
func (r *BookingRepository) GetByPaymentReference(paymentRef string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE payment_reference = $1`
	return r.scanBooking(r.db.QueryRow(query, paymentRef))
}

// GetByUserID retrieves all bookings for a user, newest first
func (r *BookingRepository) GetByUserID(userID string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByTripAndDate retrieves non-cancelled bookings for a trip occurrence
func (r *BookingRepository) GetByTripAndDate(tripID string, date time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE trip_id = $1 AND travel_date = $2 AND status != 'cancelled'
		ORDER BY created_at`

	rows, err := r.db.Query(query, tripID, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for trip: %w", err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// ConfirmPayment transitions a pending booking to confirmed and records the
// gateway reference. Returns ErrNotPending when the row has already left the
// pending state (confirmed by a racing webhook, or cancelled by the user
// before the charge landed); the caller decides which of those it is.
func (r *BookingRepository) ConfirmPayment(bookingID, paymentReference string) error {
	result, err := r.db.Exec(`
		UPDATE bookings
		SET status = 'confirmed', payment_reference = $2, paid_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, bookingID, paymentReference)
	if err != nil {
		return fmt.Errorf("failed to confirm payment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotPending
	}

	return nil
}

// MarkCompleted transitions confirmed bookings whose travel date has passed
// to completed. Returns the number of bookings updated.
func (r *BookingRepository) MarkCompleted(before time.Time) (int64, error) {
	result, err := r.db.Exec(`
		UPDATE bookings
		SET status = 'completed', updated_at = NOW()
		WHERE status = 'confirmed' AND travel_date < $1
	`, before.Format("2006-01-02"))
	if err != nil {
		return 0, fmt.Errorf("failed to complete past bookings: %w", err)
	}

	return result.RowsAffected()
}

func (r *BookingRepository) scanBooking(row scanner) (*models.Booking, error) {
	booking := &models.Booking{}
	var paymentReference sql.NullString
	var paidAt sql.NullTime
	var cancelledAt sql.NullTime

	err := row.Scan(
		&booking.ID, &booking.Reference, &booking.UserID, &booking.TripID,
		&booking.SeatNumbers, &booking.TravelDate, &booking.TotalAmount,
		&booking.Currency, &booking.Status, &paymentReference, &paidAt,
		&cancelledAt, &booking.CreatedAt, &booking.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}

	if paymentReference.Valid {
		booking.PaymentReference = &paymentReference.String
	}
	if paidAt.Valid {
		booking.PaidAt = &paidAt.Time
	}
	if cancelledAt.Valid {
		booking.CancelledAt = &cancelledAt.Time
	}

	return booking, nil
}

func (r *BookingRepository) scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	bookings := []models.Booking{}

	for rows.Next() {
		var booking models.Booking
		var paymentReference sql.NullString
		var paidAt sql.NullTime
		var cancelledAt sql.NullTime

		err := rows.Scan(
			&booking.ID, &booking.Reference, &booking.UserID, &booking.TripID,
			&booking.SeatNumbers, &booking.TravelDate, &booking.TotalAmount,
			&booking.Currency, &booking.Status, &paymentReference, &paidAt,
			&cancelledAt, &booking.CreatedAt, &booking.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if paymentReference.Valid {
			booking.PaymentReference = &paymentReference.String
		}
		if paidAt.Valid {
			booking.PaidAt = &paidAt.Time
		}
		if cancelledAt.Valid {
			booking.CancelledAt = &cancelledAt.Time
		}

		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}
