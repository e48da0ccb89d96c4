package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"schooltrip_tracker/internal/models"
)

// TelemetryService appends location pings and discrete events to a trip's
// history. Write-only: there is no update or delete. A bad record is
// corrected by appending a corrective event.
type TelemetryService struct {
	db *gorm.DB
}

func NewTelemetryService(db *gorm.DB) *TelemetryService {
	return &TelemetryService{db: db}
}

func validCoords(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// RecordLocation stores one GPS ping for the trip. Coordinates are bounds
// checked; nothing else is validated and nothing is smoothed or derived.
func (s *TelemetryService) RecordLocation(tripID uint, lat, lng float64, speed *float64, ts time.Time) (*models.TripLocation, error) {
	if !validCoords(lat, lng) {
		return nil, &ValidationError{Reason: "coordinates out of range"}
	}
	if err := s.requireTrip(tripID); err != nil {
		return nil, err
	}
	loc := models.TripLocation{
		TripID:    tripID,
		Latitude:  lat,
		Longitude: lng,
		Speed:     speed,
		Timestamp: ts,
	}
	if err := s.db.Create(&loc).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

// RecordEvent stores one discrete trip event (START/END/DELAY/...), with
// optional coordinates.
func (s *TelemetryService) RecordEvent(tripID uint, eventType, description string, lat, lng *float64, ts time.Time) (*models.TripEvent, error) {
	if !models.ValidEventType(eventType) {
		return nil, &ValidationError{Reason: "unknown event type " + eventType}
	}
	if lat != nil || lng != nil {
		if lat == nil || lng == nil || !validCoords(*lat, *lng) {
			return nil, &ValidationError{Reason: "coordinates out of range"}
		}
	}
	if err := s.requireTrip(tripID); err != nil {
		return nil, err
	}
	ev := models.TripEvent{
		TripID:      tripID,
		EventType:   eventType,
		Description: description,
		Latitude:    lat,
		Longitude:   lng,
		Timestamp:   ts,
	}
	if err := s.db.Create(&ev).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *TelemetryService) requireTrip(tripID uint) error {
	var trip models.Trip
	if err := s.db.Select("id").First(&trip, tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("trip", tripID)
		}
		return err
	}
	return nil
}
