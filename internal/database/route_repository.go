package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/roadlink/booking-backend/internal/models"
)

// RouteRepository handles database operations for the routes table
type RouteRepository struct {
	db DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create creates a new route
func (r *RouteRepository) Create(route *models.Route) error {
	query := `
		INSERT INTO routes (id, start_city_id, end_city_id, duration_minutes, distance_km)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	if route.ID == "" {
		route.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		route.ID, route.StartCityID, route.EndCityID, route.DurationMinutes, route.DistanceKM,
	).Scan(&route.CreatedAt, &route.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}

	return nil
}

// GetByID retrieves a route by ID
func (r *RouteRepository) GetByID(routeID string) (*models.Route, error) {
	route := &models.Route{}
	query := `
		SELECT id, start_city_id, end_city_id, duration_minutes, distance_km, created_at, updated_at
		FROM routes
		WHERE id = $1
	`

	err := r.db.Get(route, query, routeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch route: %w", err)
	}

	return route, nil
}

// GetAll retrieves all routes
func (r *RouteRepository) GetAll() ([]models.Route, error) {
	routes := []models.Route{}
	query := `
		SELECT id, start_city_id, end_city_id, duration_minutes, distance_km, created_at, updated_at
		FROM routes
		ORDER BY created_at DESC
	`

	if err := r.db.Select(&routes, query); err != nil {
		return nil, fmt.Errorf("failed to fetch routes: %w", err)
	}

	return routes, nil
}

// Update updates a route
func (r *RouteRepository) Update(route *models.Route) error {
	query := `
		UPDATE routes
		SET start_city_id = $2, end_city_id = $3, duration_minutes = $4,
			distance_km = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		route.ID, route.StartCityID, route.EndCityID, route.DurationMinutes, route.DistanceKM,
	).Scan(&route.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update route: %w", err)
	}

	return nil
}

// Delete deletes a route unless trips still reference it
func (r *RouteRepository) Delete(routeID string) error {
	var tripCount int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM trips WHERE route_id = $1`, routeID).Scan(&tripCount)
	if err != nil {
		return fmt.Errorf("failed to check route references: %w", err)
	}
	if tripCount > 0 {
		return ErrReferenced
	}

	result, err := r.db.Exec(`DELETE FROM routes WHERE id = $1`, routeID)
	if err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
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
