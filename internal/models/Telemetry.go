package models

import (
	"time"

	"gorm.io/gorm"
)

// Trip event types
const (
	EventStart     = "START"
	EventEnd       = "END"
	EventPickup    = "PICKUP"
	EventDrop      = "DROP"
	EventDelay     = "DELAY"
	EventBreakdown = "BREAKDOWN"
	EventAccident  = "ACCIDENT"
	EventOther     = "OTHER"
)

// TripLocation is one GPS ping from the bus during a trip. Rows are
// append-only; corrections are new rows, never updates.
type TripLocation struct {
	gorm.Model

	TripID    uint      `json:"trip_id" gorm:"index"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Speed     *float64  `json:"speed,omitempty"` // km/h
	Timestamp time.Time `json:"timestamp" gorm:"index"`
}

// TripEvent is a discrete occurrence on a trip (start, delay, breakdown...).
// Append-only, same as TripLocation.
type TripEvent struct {
	gorm.Model

	TripID      uint      `json:"trip_id" gorm:"index"`
	EventType   string    `json:"event_type"`
	Description string    `json:"description"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Timestamp   time.Time `json:"timestamp" gorm:"index"`
}

// ValidEventType reports whether t is a recognised trip event type.
func ValidEventType(t string) bool {
	switch t {
	case EventStart, EventEnd, EventPickup, EventDrop, EventDelay, EventBreakdown, EventAccident, EventOther:
		return true
	}
	return false
}
