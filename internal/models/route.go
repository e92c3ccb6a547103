package models

import (
	"errors"
	"time"
)

// Route represents a start/end city pair served by trips
type Route struct {
	ID              string    `json:"id" db:"id"`
	StartCityID     string    `json:"start_city_id" db:"start_city_id"`
	EndCityID       string    `json:"end_city_id" db:"end_city_id"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	DistanceKM      float64   `json:"distance_km" db:"distance_km"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// CreateRouteRequest represents the request to create a route
type CreateRouteRequest struct {
	StartCityID     string  `json:"start_city_id" binding:"required"`
	EndCityID       string  `json:"end_city_id" binding:"required"`
	DurationMinutes int     `json:"duration_minutes" binding:"required"`
	DistanceKM      float64 `json:"distance_km"`
}

// UpdateRouteRequest represents the request to update a route
type UpdateRouteRequest struct {
	StartCityID     *string  `json:"start_city_id,omitempty"`
	EndCityID       *string  `json:"end_city_id,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
	DistanceKM      *float64 `json:"distance_km,omitempty"`
}

// Validate validates the create route request
func (r *CreateRouteRequest) Validate() error {
	if r.DurationMinutes <= 0 {
		return errors.New("duration_minutes must be greater than zero")
	}
	if r.StartCityID == r.EndCityID {
		return errors.New("start and end city must differ")
	}
	return nil
}
