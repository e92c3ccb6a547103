package models

import (
	"errors"
	"time"
)

// BusStatus represents the operational status of a bus
type BusStatus string

const (
	BusStatusAvailable BusStatus = "available"
	BusStatusBusy      BusStatus = "busy"
)

// Bus represents a vehicle in the fleet
type Bus struct {
	ID          string    `json:"id" db:"id"`
	PlateNumber string    `json:"plate_number" db:"plate_number"`
	Capacity    int       `json:"capacity" db:"capacity"`
	Status      BusStatus `json:"status" db:"status"`
	// OnArrival means the status is managed manually by branch staff;
	// the background sweep forces such buses to "available".
	OnArrival bool      `json:"on_arrival" db:"on_arrival"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateBusRequest represents the request to create a bus
type CreateBusRequest struct {
	PlateNumber string `json:"plate_number" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required"`
	OnArrival   bool   `json:"on_arrival"`
}

// UpdateBusRequest represents the request to update a bus
type UpdateBusRequest struct {
	PlateNumber *string    `json:"plate_number,omitempty"`
	Capacity    *int       `json:"capacity,omitempty"`
	Status      *BusStatus `json:"status,omitempty"`
	OnArrival   *bool      `json:"on_arrival,omitempty"`
}

// Validate validates the create bus request
func (r *CreateBusRequest) Validate() error {
	if r.Capacity <= 0 {
		return errors.New("capacity must be greater than zero")
	}
	return nil
}
