package models

import (
	"time"

	"gorm.io/gorm"
)

// Trip kinds
const (
	TripPickup = "PICKUP"
	TripDrop   = "DROP"
)

// Trip status values
const (
	TripScheduled  = "SCHEDULED"
	TripInProgress = "IN_PROGRESS"
	TripCompleted  = "COMPLETED"
	TripCancelled  = "CANCELLED"
)

// Trip is one execution of a route on a given day/shift. It exclusively owns
// its TripStudents, locations and events; deleting a trip removes all three.
type Trip struct {
	gorm.Model
	Audit

	SchoolID uint    `json:"school_id" gorm:"index"`
	School   School  `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
	RouteID  uint    `json:"route_id" gorm:"index"`
	Route    Route   `gorm:"foreignKey:RouteID" json:"route,omitempty"`
	BusID    uint    `json:"bus_id" gorm:"index"`
	Bus      Bus     `gorm:"foreignKey:BusID" json:"bus,omitempty"`
	DriverID *uint   `json:"driver_id" gorm:"index"`
	Driver   *Driver `gorm:"foreignKey:DriverID" json:"driver,omitempty"`

	TripType string `json:"trip_type"` // "PICKUP" or "DROP"
	Status   string `json:"status" gorm:"default:SCHEDULED"`

	ScheduledStartTime *time.Time `json:"scheduled_start_time" gorm:"index"`
	ActualStartTime    *time.Time `json:"actual_start_time"`
	ScheduledEndTime   *time.Time `json:"scheduled_end_time"`
	ActualEndTime      *time.Time `json:"actual_end_time"`

	Students  []TripStudent  `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE;" json:"trip_students,omitempty"`
	Locations []TripLocation `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE;" json:"locations,omitempty"`
	Events    []TripEvent    `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE;" json:"events,omitempty"`
}

// ValidTripType reports whether t is PICKUP or DROP.
func ValidTripType(t string) bool {
	return t == TripPickup || t == TripDrop
}
