package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/roadlink/booking-backend/internal/models"
)

// execQuerier is the subset of DB needed by the seat accounting statements,
// satisfied by both the connection handle and *sqlx.Tx so booking
// transactions can reuse them.
type execQuerier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// OccurrenceRepository handles database operations for the trip_occurrences
// table. All mutations of booked_seats go through ClaimSeats/ReleaseSeats;
// nothing else may write that column.
type OccurrenceRepository struct {
	db DB
}

// NewOccurrenceRepository creates a new OccurrenceRepository
func NewOccurrenceRepository(db DB) *OccurrenceRepository {
	return &OccurrenceRepository{db: db}
}

// GetByTripAndDate retrieves the occurrence row for a trip on a date.
// Returns ErrNotFound when no row exists yet (lazy initialization: callers
// treat that as full capacity available).
func (r *OccurrenceRepository) GetByTripAndDate(tripID string, date time.Time) (*models.TripOccurrence, error) {
	occ := &models.TripOccurrence{}
	query := `
		SELECT id, trip_id, occurrence_date, total_seats, available_seats,
			   booked_seats, created_at, updated_at
		FROM trip_occurrences
		WHERE trip_id = $1 AND occurrence_date = $2
	`

	err := r.db.QueryRow(query, tripID, date.Format("2006-01-02")).Scan(
		&occ.ID, &occ.TripID, &occ.OccurrenceDate, &occ.TotalSeats,
		&occ.AvailableSeats, &occ.BookedSeats, &occ.CreatedAt, &occ.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trip occurrence: %w", err)
	}

	return occ, nil
}

// ClaimSeats atomically adds seats to the occurrence's booked set, creating
// the row on first booking for the date. Returns ErrSeatConflict when any
// requested seat is already booked.
func (r *OccurrenceRepository) ClaimSeats(tripID string, date time.Time, totalSeats int, seats models.IntArray) error {
	return claimSeats(r.db, tripID, date, totalSeats, seats)
}

// ReleaseSeats atomically removes seats from the occurrence's booked set and
// returns them to the available count.
func (r *OccurrenceRepository) ReleaseSeats(tripID string, date time.Time, seats models.IntArray) error {
	return releaseSeats(r.db, tripID, date, seats)
}

// claimSeats is the single-statement seat claim. The upsert either creates
// the occurrence row or appends to booked_seats, and the WHERE guard on the
// conflict branch rejects any overlap with seats already booked. Concurrent
// claims for the same seat therefore cannot both succeed: the loser's update
// matches no row and the statement returns sql.ErrNoRows.
func claimSeats(q execQuerier, tripID string, date time.Time, totalSeats int, seats models.IntArray) error {
	query := `
		INSERT INTO trip_occurrences (
			id, trip_id, occurrence_date, total_seats, available_seats, booked_seats
		) VALUES (
			$1, $2, $3, $4, $4 - cardinality($5::int[]), $5
		)
		ON CONFLICT (trip_id, occurrence_date) DO UPDATE
		SET booked_seats    = trip_occurrences.booked_seats || EXCLUDED.booked_seats,
			available_seats = trip_occurrences.available_seats - cardinality(EXCLUDED.booked_seats),
			updated_at      = NOW()
		WHERE NOT trip_occurrences.booked_seats && EXCLUDED.booked_seats
		RETURNING id
	`

	var id string
	err := q.QueryRow(
		query,
		uuid.New().String(), tripID, date.Format("2006-01-02"), totalSeats, seats,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSeatConflict
	}
	if err != nil {
		return fmt.Errorf("failed to claim seats: %w", err)
	}

	return nil
}

// releaseSeats removes the given seats from booked_seats and credits
// available_seats, in one statement.
func releaseSeats(q execQuerier, tripID string, date time.Time, seats models.IntArray) error {
	query := `
		UPDATE trip_occurrences
		SET booked_seats    = ARRAY(
				SELECT s FROM unnest(booked_seats) AS s
				WHERE s <> ALL($3::int[])
				ORDER BY s
			),
			available_seats = available_seats + cardinality($3::int[]),
			updated_at      = NOW()
		WHERE trip_id = $1 AND occurrence_date = $2
	`

	result, err := q.Exec(query, tripID, date.Format("2006-01-02"), seats)
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
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
