package services

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"schooltrip_tracker/internal/models"
)

// TripService owns the trip lifecycle: creation from a route/bus/driver
// assignment, status transitions and per-stop tracking. It never reads the
// wall clock; actual times are supplied by the caller so the rules stay
// testable.
type TripService struct {
	db           *gorm.DB
	stopInterval time.Duration
}

// NewTripService builds a TripService. stopInterval is the scheduling gap
// between consecutive sequence numbers on a route.
func NewTripService(db *gorm.DB, stopInterval time.Duration) *TripService {
	return &TripService{db: db, stopInterval: stopInterval}
}

// CreateTripInput carries everything needed to dispatch a route for a day.
type CreateTripInput struct {
	SchoolID       uint
	RouteID        uint
	BusID          uint
	DriverID       *uint
	TripType       string
	ScheduledStart time.Time
	ScheduledEnd   *time.Time
	ActorID        uint
}

// CreateTrip dispatches a route as a SCHEDULED trip and materializes one
// TripStudent per route stop, scheduled at start + (seq-1) * stopInterval.
// Bus, route and driver (if given) must belong to the trip's school. The trip
// and all its stops are written in one transaction; a failure leaves nothing
// behind.
func (s *TripService) CreateTrip(in CreateTripInput) (*models.Trip, error) {
	if !models.ValidTripType(in.TripType) {
		return nil, &ValidationError{Reason: "trip_type must be PICKUP or DROP"}
	}

	var trip models.Trip
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var school models.School
		if err := tx.First(&school, in.SchoolID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("school", in.SchoolID)
			}
			return err
		}
		var bus models.Bus
		if err := tx.First(&bus, in.BusID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("bus", in.BusID)
			}
			return err
		}
		if bus.SchoolID != school.ID {
			return crossSchool("bus")
		}
		var route models.Route
		if err := tx.First(&route, in.RouteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("route", in.RouteID)
			}
			return err
		}
		if route.SchoolID != school.ID {
			return crossSchool("route")
		}
		if in.DriverID != nil {
			var driver models.Driver
			if err := tx.First(&driver, *in.DriverID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFound("driver", *in.DriverID)
				}
				return err
			}
			if driver.SchoolID != school.ID {
				return crossSchool("driver")
			}
		}

		start := in.ScheduledStart
		trip = models.Trip{
			SchoolID:           school.ID,
			RouteID:            route.ID,
			BusID:              bus.ID,
			DriverID:           in.DriverID,
			TripType:           in.TripType,
			Status:             models.TripScheduled,
			ScheduledStartTime: &start,
			ScheduledEndTime:   in.ScheduledEnd,
			Audit:              models.Audit{CreatedByID: &in.ActorID, IsActive: true},
		}
		if err := tx.Create(&trip).Error; err != nil {
			return err
		}

		var stops []models.RouteStudent
		if err := tx.Where("route_id = ?", route.ID).
			Order("sequence_number asc").
			Find(&stops).Error; err != nil {
			return err
		}
		for _, rs := range stops {
			ts := models.TripStudent{
				TripID:         trip.ID,
				RouteStudentID: rs.ID,
				ScheduledTime:  start.Add(time.Duration(rs.SequenceNumber-1) * s.stopInterval),
				Status:         models.StopScheduled,
				Audit:          models.Audit{CreatedByID: &in.ActorID, IsActive: true},
			}
			if err := tx.Create(&ts).Error; err != nil {
				return err
			}
		}

		logrus.WithFields(logrus.Fields{
			"trip_id":   trip.ID,
			"route_id":  route.ID,
			"trip_type": in.TripType,
			"stops":     len(stops),
		}).Info("trip created")
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Students").First(&trip, trip.ID).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// tripTransitions is the trip state graph. COMPLETED and CANCELLED are
// terminal.
var tripTransitions = map[string][]string{
	models.TripScheduled:  {models.TripInProgress, models.TripCancelled},
	models.TripInProgress: {models.TripCompleted, models.TripCancelled},
	models.TripCompleted:  {},
	models.TripCancelled:  {},
}

func tripTransitionAllowed(from, to string) bool {
	for _, next := range tripTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionTo advances a trip through SCHEDULED -> IN_PROGRESS -> COMPLETED
// (CANCELLED reachable from the first two). Leaving SCHEDULED requires a
// driver. `at` is the caller-supplied wall-clock moment; it becomes the
// actual start or end time on the matching transitions.
//
// Completing a trip does not touch its stops: a TripStudent still SCHEDULED
// stays SCHEDULED until someone explicitly marks it. The core never assumes
// a child was dropped off.
func (s *TripService) TransitionTo(tripID uint, newStatus string, actorID uint, at *time.Time) (*models.Trip, error) {
	var trip models.Trip
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&trip, tripID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("trip", tripID)
			}
			return err
		}

		if _, known := tripTransitions[newStatus]; !known {
			return &ValidationError{Reason: "unknown trip status " + newStatus}
		}
		if newStatus != models.TripScheduled && trip.DriverID == nil {
			return ErrDriverRequired
		}
		if !tripTransitionAllowed(trip.Status, newStatus) {
			return invalidTransition("trip", trip.Status, newStatus)
		}

		updates := map[string]interface{}{
			"status":        newStatus,
			"updated_by_id": actorID,
		}
		switch newStatus {
		case models.TripInProgress:
			if at != nil {
				updates["actual_start_time"] = *at
				trip.ActualStartTime = at
			}
		case models.TripCompleted:
			if at != nil {
				updates["actual_end_time"] = *at
				trip.ActualEndTime = at
			}
		}
		if err := tx.Model(&trip).Updates(updates).Error; err != nil {
			return err
		}
		trip.Status = newStatus

		logrus.WithFields(logrus.Fields{
			"trip_id": trip.ID,
			"status":  newStatus,
		}).Info("trip transitioned")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// AssignDriver sets or replaces a trip's driver while it is still SCHEDULED.
// The driver must belong to the trip's school.
func (s *TripService) AssignDriver(tripID, driverID, actorID uint) (*models.Trip, error) {
	var trip models.Trip
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&trip, tripID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("trip", tripID)
			}
			return err
		}
		if trip.Status != models.TripScheduled {
			return &PreconditionError{Reason: "driver can only be assigned while the trip is SCHEDULED"}
		}
		var driver models.Driver
		if err := tx.First(&driver, driverID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("driver", driverID)
			}
			return err
		}
		if driver.SchoolID != trip.SchoolID {
			return crossSchool("driver")
		}
		if err := tx.Model(&trip).Updates(map[string]interface{}{
			"driver_id":     driver.ID,
			"updated_by_id": actorID,
		}).Error; err != nil {
			return err
		}
		trip.DriverID = &driver.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// DeleteTrip removes a trip together with everything it owns: tracked stops,
// location pings and events. Shared entities (students, parents, buses) are
// untouched.
func (s *TripService) DeleteTrip(tripID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var trip models.Trip
		if err := tx.First(&trip, tripID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("trip", tripID)
			}
			return err
		}
		if err := tx.Where("trip_id = ?", trip.ID).Delete(&models.TripStudent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", trip.ID).Delete(&models.TripLocation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", trip.ID).Delete(&models.TripEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&trip).Error
	})
}
