package models

import (
	"gorm.io/gorm"
)

// Route represents a service path a school bus runs every day.
// A school can have multiple routes; each route has an ordered set of
// student stops and an optional default bus.
type Route struct {
	gorm.Model
	Audit

	Name     string `json:"name" binding:"required"`
	SchoolID uint   `json:"school_id" gorm:"index"`
	School   School `gorm:"foreignKey:SchoolID" json:"school,omitempty"`

	DefaultBusID *uint `json:"default_bus_id"`
	DefaultBus   *Bus  `gorm:"foreignKey:DefaultBusID" json:"default_bus,omitempty"`

	// Geometry stored as a LINESTRING (SRID 4326) in WKB.
	// API accepts/returns GeoJSON; migrations define the column type appropriately.
	Geometry []byte `gorm:"type:bytea" json:"-"`

	// Associations
	Students []RouteStudent `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"students,omitempty"`
}
