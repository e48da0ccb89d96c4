package models

import (
	"time"

	"gorm.io/gorm"
)

// Fuel types for Bus.FuelType
const (
	FuelDiesel   = "DIESEL"
	FuelCNG      = "CNG"
	FuelElectric = "ELECTRIC"
)

// Bus operational status
const (
	BusActive      = "ACTIVE"
	BusMaintenance = "MAINTENANCE"
	BusInactive    = "INACTIVE"
)

type Bus struct {
	gorm.Model
	Audit

	RegistrationNumber string `json:"registration_number" gorm:"unique"`
	SchoolID           uint   `json:"school_id" gorm:"index"`
	School             School `gorm:"foreignKey:SchoolID" json:"school,omitempty"`

	Capacity  int    `json:"capacity"`
	Make      string `json:"make"` // e.g. Tata, Ashok Leyland
	ModelName string `json:"model" gorm:"column:model"`
	Year      int    `json:"year"`
	FuelType  string `json:"fuel_type"`
	Status    string `json:"status" gorm:"default:ACTIVE"`

	LastMaintenanceDate      *time.Time `json:"last_maintenance_date"`
	NextMaintenanceDue       *time.Time `json:"next_maintenance_due"`
	InsuranceExpiry          *time.Time `json:"insurance_expiry"`
	FitnessCertificateExpiry *time.Time `json:"fitness_certificate_expiry"`
}
