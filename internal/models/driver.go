package models

import "time"

// DriverStatus represents the duty status of a driver
type DriverStatus string

const (
	DriverStatusAvailable DriverStatus = "available"
	DriverStatusBusy      DriverStatus = "busy"
	DriverStatusLeave     DriverStatus = "leave"
)

// Driver represents a bus driver
type Driver struct {
	ID        string       `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	Phone     string       `json:"phone" db:"phone"`
	Status    DriverStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// CreateDriverRequest represents the request to create a driver
type CreateDriverRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// UpdateDriverRequest represents the request to update a driver
type UpdateDriverRequest struct {
	Name   *string       `json:"name,omitempty"`
	Phone  *string       `json:"phone,omitempty"`
	Status *DriverStatus `json:"status,omitempty"`
}
