package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/roadlink/booking-backend/internal/models"
)

// TripRepository handles database operations for the trips table
type TripRepository struct {
	db DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db DB) *TripRepository {
	return &TripRepository{db: db}
}

const tripColumns = `id, date, recurring, days_of_week, departure_time, price, currency,
	bus_id, route_id, driver_id, branch_id, is_active, created_at, updated_at`

// Create creates a new trip
func (r *TripRepository) Create(trip *models.Trip) error {
	query := `
		INSERT INTO trips (
			id, date, recurring, days_of_week, departure_time, price,
			currency, bus_id, route_id, driver_id, branch_id, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		RETURNING created_at, updated_at
	`

	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		trip.ID, trip.Date, trip.Recurring, trip.DaysOfWeek, trip.DepartureTime, trip.Price,
		trip.Currency, trip.BusID, trip.RouteID, trip.DriverID, trip.BranchID, trip.IsActive,
	).Scan(&trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	return nil
}

// GetByID retrieves a trip by ID
func (r *TripRepository) GetByID(tripID string) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	return r.scanTrip(r.db.QueryRow(query, tripID))
}

// GetAll retrieves all trips, newest first
func (r *TripRepository) GetAll() ([]models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trips: %w", err)
	}
	defer rows.Close()

	return r.scanTrips(rows)
}

// GetActive retrieves all active trips
func (r *TripRepository) GetActive() ([]models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE is_active = true ORDER BY departure_time`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active trips: %w", err)
	}
	defer rows.Close()

	return r.scanTrips(rows)
}

// GetByRouteID retrieves trips serving a route
func (r *TripRepository) GetByRouteID(routeID string) ([]models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE route_id = $1 ORDER BY departure_time`

	rows, err := r.db.Query(query, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trips for route: %w", err)
	}
	defer rows.Close()

	return r.scanTrips(rows)
}

// Update updates a trip's mutable fields
func (r *TripRepository) Update(trip *models.Trip) error {
	query := `
		UPDATE trips
		SET date = $2, recurring = $3, days_of_week = $4, departure_time = $5,
			price = $6, currency = $7, bus_id = $8, route_id = $9,
			driver_id = $10, is_active = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		trip.ID, trip.Date, trip.Recurring, trip.DaysOfWeek, trip.DepartureTime,
		trip.Price, trip.Currency, trip.BusID, trip.RouteID, trip.DriverID, trip.IsActive,
	).Scan(&trip.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}

	return nil
}

// Delete deletes a trip. Deletion is blocked when bookings reference it.
func (r *TripRepository) Delete(tripID string) error {
	var bookingCount int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM bookings WHERE trip_id = $1`, tripID).Scan(&bookingCount)
	if err != nil {
		return fmt.Errorf("failed to check trip references: %w", err)
	}
	if bookingCount > 0 {
		return ErrReferenced
	}

	result, err := r.db.Exec(`DELETE FROM trips WHERE id = $1`, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
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

// CountByBusID counts trips assigned to a bus
func (r *TripRepository) CountByBusID(busID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM trips WHERE bus_id = $1`, busID).Scan(&count)
	return count, err
}

// CountByRouteID counts trips serving a route
func (r *TripRepository) CountByRouteID(routeID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM trips WHERE route_id = $1`, routeID).Scan(&count)
	return count, err
}

// CountByDriverID counts trips assigned to a driver
func (r *TripRepository) CountByDriverID(driverID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM trips WHERE driver_id = $1`, driverID).Scan(&count)
	return count, err
}

func (r *TripRepository) scanTrip(row scanner) (*models.Trip, error) {
	trip := &models.Trip{}
	var date sql.NullTime
	var branchID sql.NullString

	err := row.Scan(
		&trip.ID, &date, &trip.Recurring, &trip.DaysOfWeek, &trip.DepartureTime,
		&trip.Price, &trip.Currency, &trip.BusID, &trip.RouteID, &trip.DriverID,
		&branchID, &trip.IsActive, &trip.CreatedAt, &trip.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trip: %w", err)
	}

	if date.Valid {
		trip.Date = &date.Time
	}
	if branchID.Valid {
		trip.BranchID = &branchID.String
	}

	return trip, nil
}

func (r *TripRepository) scanTrips(rows *sql.Rows) ([]models.Trip, error) {
	trips := []models.Trip{}

	for rows.Next() {
		var trip models.Trip
		var date sql.NullTime
		var branchID sql.NullString

		err := rows.Scan(
			&trip.ID, &date, &trip.Recurring, &trip.DaysOfWeek, &trip.DepartureTime,
			&trip.Price, &trip.Currency, &trip.BusID, &trip.RouteID, &trip.DriverID,
			&branchID, &trip.IsActive, &trip.CreatedAt, &trip.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if date.Valid {
			trip.Date = &date.Time
		}
		if branchID.Valid {
			trip.BranchID = &branchID.String
		}

		trips = append(trips, trip)
	}

	return trips, rows.Err()
}
