package services

import (
	"errors"
	"sort"
	"time"

	"github.com/roadlink/booking-backend/internal/database"
	"github.com/roadlink/booking-backend/internal/models"
)

// SeatInventoryService resolves booked and free seats for a trip on a date.
// It is a pure read path: no status toggling or other writes happen here.
type SeatInventoryService struct {
	tripRepo TripStore
	busRepo  BusStore
	occRepo  OccurrenceStore
}

// NewSeatInventoryService creates a new SeatInventoryService
func NewSeatInventoryService(tripRepo TripStore, busRepo BusStore, occRepo OccurrenceStore) *SeatInventoryService {
	return &SeatInventoryService{
		tripRepo: tripRepo,
		busRepo:  busRepo,
		occRepo:  occRepo,
	}
}

// Availability returns the seat availability for a trip on the given date.
// A missing occurrence row means nothing has been booked yet, so the full
// bus capacity is reported available.
func (s *SeatInventoryService) Availability(tripID string, date time.Time) (*models.SeatAvailability, error) {
	trip, err := s.tripRepo.GetByID(tripID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}

	if !trip.RunsOn(date) {
		return nil, ErrInvalidDate
	}

	bus, err := s.busRepo.GetByID(trip.BusID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}

	booked := models.IntArray{}
	occ, err := s.occRepo.GetByTripAndDate(tripID, date)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	if occ != nil {
		booked = occ.BookedSeats
	}

	return &models.SeatAvailability{
		TripID:         tripID,
		Date:           date.Format("2006-01-02"),
		TotalSeats:     bus.Capacity,
		AvailableSeats: freeSeats(bus.Capacity, booked),
		BookedSeats:    sortedSeats(booked),
	}, nil
}

// freeSeats returns 1..capacity minus the booked set, ascending.
func freeSeats(capacity int, booked models.IntArray) []int64 {
	taken := make(map[int64]bool, len(booked))
	for _, s := range booked {
		taken[s] = true
	}

	free := make([]int64, 0, capacity-len(booked))
	for n := int64(1); n <= int64(capacity); n++ {
		if !taken[n] {
			free = append(free, n)
		}
	}

	return free
}

// sortedSeats returns the booked set in ascending order without mutating
// the input.
func sortedSeats(booked models.IntArray) []int64 {
	out := make([]int64, len(booked))
	copy(out, booked)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
