package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/roadlink/booking-backend/internal/models"
)

// BusRepository handles database operations for the buses table
type BusRepository struct {
	db DB
}

// NewBusRepository creates a new BusRepository
func NewBusRepository(db DB) *BusRepository {
	return &BusRepository{db: db}
}

// Create creates a new bus
func (r *BusRepository) Create(bus *models.Bus) error {
	query := `
		INSERT INTO buses (id, plate_number, capacity, status, on_arrival)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	if bus.ID == "" {
		bus.ID = uuid.New().String()
	}
	if bus.Status == "" {
		bus.Status = models.BusStatusAvailable
	}

	err := r.db.QueryRow(
		query,
		bus.ID, bus.PlateNumber, bus.Capacity, bus.Status, bus.OnArrival,
	).Scan(&bus.CreatedAt, &bus.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bus: %w", err)
	}

	return nil
}

// GetByID retrieves a bus by ID
func (r *BusRepository) GetByID(busID string) (*models.Bus, error) {
	bus := &models.Bus{}
	query := `
		SELECT id, plate_number, capacity, status, on_arrival, created_at, updated_at
		FROM buses
		WHERE id = $1
	`

	err := r.db.Get(bus, query, busID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bus: %w", err)
	}

	return bus, nil
}

// GetAll retrieves all buses
func (r *BusRepository) GetAll() ([]models.Bus, error) {
	buses := []models.Bus{}
	query := `
		SELECT id, plate_number, capacity, status, on_arrival, created_at, updated_at
		FROM buses
		ORDER BY plate_number
	`

	if err := r.db.Select(&buses, query); err != nil {
		return nil, fmt.Errorf("failed to fetch buses: %w", err)
	}

	return buses, nil
}

// GetByStatus retrieves buses with the given status
func (r *BusRepository) GetByStatus(status models.BusStatus) ([]models.Bus, error) {
	buses := []models.Bus{}
	query := `
		SELECT id, plate_number, capacity, status, on_arrival, created_at, updated_at
		FROM buses
		WHERE status = $1
		ORDER BY plate_number
	`

	if err := r.db.Select(&buses, query, status); err != nil {
		return nil, fmt.Errorf("failed to fetch buses by status: %w", err)
	}

	return buses, nil
}

// Update updates a bus
func (r *BusRepository) Update(bus *models.Bus) error {
	query := `
		UPDATE buses
		SET plate_number = $2, capacity = $3, status = $4, on_arrival = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		bus.ID, bus.PlateNumber, bus.Capacity, bus.Status, bus.OnArrival,
	).Scan(&bus.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update bus: %w", err)
	}

	return nil
}

// SetStatus updates only the bus status. No-op rows (status unchanged) still
// count as success so the sweep stays idempotent.
func (r *BusRepository) SetStatus(busID string, status models.BusStatus) error {
	result, err := r.db.Exec(
		`UPDATE buses SET status = $2, updated_at = NOW() WHERE id = $1`,
		busID, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update bus status: %w", err)
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

// Delete deletes a bus unless trips still reference it
func (r *BusRepository) Delete(busID string) error {
	var tripCount int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM trips WHERE bus_id = $1`, busID).Scan(&tripCount)
	if err != nil {
		return fmt.Errorf("failed to check bus references: %w", err)
	}
	if tripCount > 0 {
		return ErrReferenced
	}

	result, err := r.db.Exec(`DELETE FROM buses WHERE id = $1`, busID)
	if err != nil {
		return fmt.Errorf("failed to delete bus: %w", err)
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
