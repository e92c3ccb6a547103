package services

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roadlink/booking-backend/internal/models"
)

// FleetStatusService keeps bus and driver statuses in line with trip timing.
// It runs as a periodic background sweep rather than inside read handlers,
// so availability reads stay side-effect free and staleness is bounded by
// the sweep interval instead of client polling.
type FleetStatusService struct {
	tripRepo   TripStore
	routeRepo  RouteStore
	busRepo    BusStore
	driverRepo DriverStore
	logger     *logrus.Logger
}

// NewFleetStatusService creates a new FleetStatusService
func NewFleetStatusService(
	tripRepo TripStore,
	routeRepo RouteStore,
	busRepo BusStore,
	driverRepo DriverStore,
	logger *logrus.Logger,
) *FleetStatusService {
	return &FleetStatusService{
		tripRepo:   tripRepo,
		routeRepo:  routeRepo,
		busRepo:    busRepo,
		driverRepo: driverRepo,
		logger:     logger,
	}
}

// Sweep recomputes bus and driver statuses for all active trips at the
// given instant. Statuses are aggregated per resource first: a bus or
// driver serving several trips is busy while ANY of its trips is in
// flight, so a not-yet-departed trip cannot overwrite the busy state of
// one mid-route. It is idempotent: re-running with the same clock
// produces the same statuses. Buses flagged on_arrival are forced
// available because their status is managed manually at the destination
// branch. Drivers on leave are never touched (guard lives in the driver
// repository).
func (s *FleetStatusService) Sweep(now time.Time) error {
	trips, err := s.tripRepo.GetActive()
	if err != nil {
		return err
	}

	busBusy := make(map[string]bool)
	driverBusy := make(map[string]bool)

	for i := range trips {
		trip := &trips[i]

		// Register both resources so idle ones still get released.
		if _, seen := busBusy[trip.BusID]; !seen {
			busBusy[trip.BusID] = false
		}
		if _, seen := driverBusy[trip.DriverID]; !seen {
			driverBusy[trip.DriverID] = false
		}

		route, err := s.routeRepo.GetByID(trip.RouteID)
		if err != nil {
			s.logger.WithError(err).WithField("trip_id", trip.ID).Warn("Sweep: route lookup failed")
			continue
		}

		if s.inFlight(trip, route, now) {
			busBusy[trip.BusID] = true
			driverBusy[trip.DriverID] = true
		}
	}

	updated := 0
	for busID, busy := range busBusy {
		bus, err := s.busRepo.GetByID(busID)
		if err != nil {
			s.logger.WithError(err).WithField("bus_id", busID).Warn("Sweep: bus lookup failed")
			continue
		}

		status := models.BusStatusAvailable
		if busy && !bus.OnArrival {
			status = models.BusStatusBusy
		}

		if bus.Status != status {
			if err := s.busRepo.SetStatus(bus.ID, status); err != nil {
				s.logger.WithError(err).WithField("bus_id", bus.ID).Warn("Sweep: bus status update failed")
				continue
			}
			updated++
		}
	}

	for driverID, busy := range driverBusy {
		status := models.DriverStatusAvailable
		if busy {
			status = models.DriverStatusBusy
		}
		if err := s.driverRepo.SetStatus(driverID, status); err != nil {
			s.logger.WithError(err).WithField("driver_id", driverID).Warn("Sweep: driver status update failed")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"trips":   len(trips),
		"buses":   len(busBusy),
		"drivers": len(driverBusy),
		"updated": updated,
	}).Debug("Fleet status sweep finished")

	return nil
}

// inFlight reports whether the trip holds its bus and driver at the given
// instant: between departure and departure plus route duration. The window
// anchors to the trip's fixed date, or to today for recurring trips.
func (s *FleetStatusService) inFlight(trip *models.Trip, route *models.Route, now time.Time) bool {
	anchor := now
	if !trip.Recurring {
		if trip.Date == nil {
			return false
		}
		anchor = *trip.Date
	} else if !trip.RunsOn(now) {
		// Recurring trip not operating today: nothing holds its resources.
		return false
	}

	departure := trip.DepartureAt(anchor)
	end := trip.EndAt(anchor, route.DurationMinutes)

	return !now.Before(departure) && now.Before(end)
}
