package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/roadlink/booking-backend/internal/models"
)

// DriverRepository handles database operations for the drivers table
type DriverRepository struct {
	db DB
}

// NewDriverRepository creates a new DriverRepository
func NewDriverRepository(db DB) *DriverRepository {
	return &DriverRepository{db: db}
}

// Create creates a new driver
func (r *DriverRepository) Create(driver *models.Driver) error {
	query := `
		INSERT INTO drivers (id, name, phone, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	if driver.ID == "" {
		driver.ID = uuid.New().String()
	}
	if driver.Status == "" {
		driver.Status = models.DriverStatusAvailable
	}

	err := r.db.QueryRow(
		query,
		driver.ID, driver.Name, driver.Phone, driver.Status,
	).Scan(&driver.CreatedAt, &driver.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}

	return nil
}

// GetByID retrieves a driver by ID
func (r *DriverRepository) GetByID(driverID string) (*models.Driver, error) {
	driver := &models.Driver{}
	query := `
		SELECT id, name, phone, status, created_at, updated_at
		FROM drivers
		WHERE id = $1
	`

	err := r.db.Get(driver, query, driverID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch driver: %w", err)
	}

	return driver, nil
}

// GetAll retrieves all drivers
func (r *DriverRepository) GetAll() ([]models.Driver, error) {
	drivers := []models.Driver{}
	query := `
		SELECT id, name, phone, status, created_at, updated_at
		FROM drivers
		ORDER BY name
	`

	if err := r.db.Select(&drivers, query); err != nil {
		return nil, fmt.Errorf("failed to fetch drivers: %w", err)
	}

	return drivers, nil
}

// Update updates a driver
func (r *DriverRepository) Update(driver *models.Driver) error {
	query := `
		UPDATE drivers
		SET name = $2, phone = $3, status = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		driver.ID, driver.Name, driver.Phone, driver.Status,
	).Scan(&driver.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update driver: %w", err)
	}

	return nil
}

// SetStatus updates only the driver status. Drivers on leave are managed
// manually and must not be flipped by the sweep, hence the status guard.
func (r *DriverRepository) SetStatus(driverID string, status models.DriverStatus) error {
	result, err := r.db.Exec(
		`UPDATE drivers SET status = $2, updated_at = NOW() WHERE id = $1 AND status != 'leave'`,
		driverID, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update driver status: %w", err)
	}

	// Zero rows means the driver is missing or on leave; both are fine for
	// an idempotent sweep.
	if _, err := result.RowsAffected(); err != nil {
		return err
	}

	return nil
}

// Delete deletes a driver unless trips still reference them
func (r *DriverRepository) Delete(driverID string) error {
	var tripCount int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM trips WHERE driver_id = $1`, driverID).Scan(&tripCount)
	if err != nil {
		return fmt.Errorf("failed to check driver references: %w", err)
	}
	if tripCount > 0 {
		return ErrReferenced
	}

	result, err := r.db.Exec(`DELETE FROM drivers WHERE id = $1`, driverID)
	if err != nil {
		return fmt.Errorf("failed to delete driver: %w", err)
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
