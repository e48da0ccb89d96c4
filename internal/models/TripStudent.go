package models

import (
	"time"

	"gorm.io/gorm"
)

// TripStudent (stop) status values
const (
	StopScheduled  = "SCHEDULED"
	StopPickedUp   = "PICKED_UP"
	StopDroppedOff = "DROPPED_OFF"
	StopAbsent     = "ABSENT"
	StopCancelled  = "CANCELLED"
)

// TripStudent is the per-trip snapshot of one RouteStudent: "this student is
// expected on this trip at this time". One row exists per (trip, route stop),
// created together with the trip. Each stop advances through its own status
// independently of sibling stops and of the trip's status.
type TripStudent struct {
	gorm.Model
	Audit

	TripID         uint         `json:"trip_id" gorm:"index;uniqueIndex:idx_trip_route_student"`
	Trip           Trip         `gorm:"foreignKey:TripID" json:"trip,omitempty"`
	RouteStudentID uint         `json:"route_student_id" gorm:"uniqueIndex:idx_trip_route_student"`
	RouteStudent   RouteStudent `gorm:"foreignKey:RouteStudentID" json:"route_student,omitempty"`

	ScheduledTime time.Time  `json:"scheduled_time"`
	ActualTime    *time.Time `json:"actual_time"`
	Status        string     `json:"status" gorm:"default:SCHEDULED"`

	ReportedByID *uint `json:"reported_by_id"`
	ReportedBy   *User `gorm:"foreignKey:ReportedByID" json:"reported_by,omitempty"`
}

// ValidStopStatus reports whether s is a recognised stop status.
func ValidStopStatus(s string) bool {
	switch s {
	case StopScheduled, StopPickedUp, StopDroppedOff, StopAbsent, StopCancelled:
		return true
	}
	return false
}
