package models

import (
	"errors"
	"fmt"
	"time"
)

// Trip represents a scheduled bus departure definition: route, bus, driver,
// price and either a fixed date or a weekly recurrence rule.
type Trip struct {
	ID            string     `json:"id" db:"id"`
	Date          *time.Time `json:"date,omitempty" db:"date"`
	Recurring     bool       `json:"recurring" db:"recurring"`
	DaysOfWeek    IntArray   `json:"days_of_week" db:"days_of_week"` // 0=Sunday .. 6=Saturday
	DepartureTime string     `json:"departure_time" db:"departure_time"`
	Price         float64    `json:"price" db:"price"`
	Currency      string     `json:"currency" db:"currency"`
	BusID         string     `json:"bus_id" db:"bus_id"`
	RouteID       string     `json:"route_id" db:"route_id"`
	DriverID      string     `json:"driver_id" db:"driver_id"`
	BranchID      *string    `json:"branch_id,omitempty" db:"branch_id"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateTripRequest represents the request to create a trip
type CreateTripRequest struct {
	Date          *string `json:"date,omitempty"` // "2006-01-02", required for one-off trips
	Recurring     bool    `json:"recurring"`
	DaysOfWeek    []int64 `json:"days_of_week,omitempty"`
	DepartureTime string  `json:"departure_time" binding:"required"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	Currency      string  `json:"currency"`
	BusID         string  `json:"bus_id" binding:"required"`
	RouteID       string  `json:"route_id" binding:"required"`
	DriverID      string  `json:"driver_id" binding:"required"`
	BranchID      *string `json:"branch_id,omitempty"`
}

// UpdateTripRequest represents the request to update a trip
type UpdateTripRequest struct {
	Date          *string  `json:"date,omitempty"`
	Recurring     *bool    `json:"recurring,omitempty"`
	DaysOfWeek    []int64  `json:"days_of_week,omitempty"`
	DepartureTime *string  `json:"departure_time,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Currency      *string  `json:"currency,omitempty"`
	BusID         *string  `json:"bus_id,omitempty"`
	RouteID       *string  `json:"route_id,omitempty"`
	DriverID      *string  `json:"driver_id,omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

// Validate validates the create trip request
func (r *CreateTripRequest) Validate() error {
	if _, err := time.Parse("15:04", r.DepartureTime); err != nil {
		return fmt.Errorf("departure_time must be in HH:MM format: %w", err)
	}

	if r.Recurring {
		if len(r.DaysOfWeek) == 0 {
			return errors.New("days_of_week is required for recurring trips")
		}
		for _, d := range r.DaysOfWeek {
			if d < 0 || d > 6 {
				return fmt.Errorf("invalid day of week: %d", d)
			}
		}
		return nil
	}

	if r.Date == nil {
		return errors.New("date is required for non-recurring trips")
	}
	if _, err := time.Parse("2006-01-02", *r.Date); err != nil {
		return fmt.Errorf("date must be in YYYY-MM-DD format: %w", err)
	}

	return nil
}

// ValidateSchedule checks that the trip's schedule fields are coherent:
// recurring trips need a non-empty weekday set, one-off trips need a fixed
// date. A trip violating this matches no date at all. Updates must re-check
// it after merging partial changes, not just creation.
func (t *Trip) ValidateSchedule() error {
	if t.Recurring {
		if len(t.DaysOfWeek) == 0 {
			return errors.New("days_of_week is required for recurring trips")
		}
		for _, d := range t.DaysOfWeek {
			if d < 0 || d > 6 {
				return fmt.Errorf("invalid day of week: %d", d)
			}
		}
		return nil
	}

	if t.Date == nil {
		return errors.New("date is required for non-recurring trips")
	}

	return nil
}

// RunsOn reports whether the trip operates on the given calendar date.
// Recurring trips match on weekday; one-off trips match on the fixed date.
func (t *Trip) RunsOn(date time.Time) bool {
	if t.Recurring {
		return t.DaysOfWeek.Contains(int64(date.Weekday()))
	}
	if t.Date == nil {
		return false
	}
	return sameDate(*t.Date, date)
}

// DepartureAt returns the departure timestamp anchored to the given date.
func (t *Trip) DepartureAt(date time.Time) time.Time {
	hhmm, err := time.Parse("15:04", t.DepartureTime)
	if err != nil {
		// Malformed departure times anchor to midnight so the trip is
		// treated as already departed rather than never departing.
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hhmm.Hour(), hhmm.Minute(), 0, 0, date.Location())
}

// EndAt returns the estimated trip end timestamp for the given date:
// departure time plus the route duration.
func (t *Trip) EndAt(date time.Time, durationMinutes int) time.Time {
	return t.DepartureAt(date).Add(time.Duration(durationMinutes) * time.Minute)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
