package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"schooltrip_tracker/internal/models"
)

// stopTransitions is the per-stop state graph. Every status is reachable from
// SCHEDULED; a picked-up student can still be dropped off; everything else is
// terminal. Sibling stops are independent: no ordering is enforced between
// them, sequence numbers are for display and planning only.
var stopTransitions = map[string][]string{
	models.StopScheduled:  {models.StopPickedUp, models.StopDroppedOff, models.StopAbsent, models.StopCancelled},
	models.StopPickedUp:   {models.StopDroppedOff},
	models.StopDroppedOff: {},
	models.StopAbsent:     {},
	models.StopCancelled:  {},
}

func stopTransitionAllowed(from, to string) bool {
	for _, next := range stopTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// MarkStopStatus records a pickup/drop/absence for one tracked stop.
// The stop's RouteStudent must belong to the trip's route (guards against
// cross-route contamination during bulk updates). Status, actual time and
// reporter are written in a single update so concurrent reports can never
// interleave a status from one call with a time from another.
func (s *TripService) MarkStopStatus(tripStudentID uint, newStatus string, reporterID uint, actualTime *time.Time) (*models.TripStudent, error) {
	if !models.ValidStopStatus(newStatus) {
		return nil, &ValidationError{Reason: "unknown stop status " + newStatus}
	}

	var ts models.TripStudent
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("RouteStudent").Preload("Trip").First(&ts, tripStudentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("trip student", tripStudentID)
			}
			return err
		}

		if ts.RouteStudent.RouteID != ts.Trip.RouteID {
			return ErrRouteMismatch
		}
		if !stopTransitionAllowed(ts.Status, newStatus) {
			return invalidTransition("stop", ts.Status, newStatus)
		}

		updates := map[string]interface{}{
			"status":         newStatus,
			"reported_by_id": reporterID,
			"updated_by_id":  reporterID,
		}
		if actualTime != nil {
			updates["actual_time"] = *actualTime
		}
		if err := tx.Model(&ts).Updates(updates).Error; err != nil {
			return err
		}

		ts.Status = newStatus
		ts.ReportedByID = &reporterID
		if actualTime != nil {
			ts.ActualTime = actualTime
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
