package models

import (
	"gorm.io/gorm"
)

// RouteStudent is one student's fixed stop assignment on a route.
// Exactly one row may exist per (route, student) pair, and sequence numbers
// are unique within a route. They order stops but are not required to be
// contiguous.
type RouteStudent struct {
	gorm.Model
	Audit

	RouteID   uint    `json:"route_id" gorm:"uniqueIndex:idx_route_student;uniqueIndex:idx_route_seq"`
	Route     Route   `gorm:"foreignKey:RouteID" json:"route,omitempty"`
	StudentID uint    `json:"student_id" gorm:"uniqueIndex:idx_route_student"`
	Student   Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`

	PickupAddress  string `json:"pickup_address"`
	DropAddress    string `json:"drop_address"`
	SequenceNumber int    `json:"sequence_number" gorm:"uniqueIndex:idx_route_seq"`
}
