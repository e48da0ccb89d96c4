package models

import (
	"time"

	"gorm.io/gorm"
)

// School is the tenant every bus, driver, route and trip hangs off.
type School struct {
	gorm.Model
	Audit
	Address

	Name            string     `json:"name" binding:"required"`
	ContactNumber   string     `json:"contact_number"`
	Email           string     `json:"email" binding:"omitempty,email"`
	Website         string     `json:"website"`
	EstablishedDate *time.Time `json:"established_date"`

	Buses    []Bus     `gorm:"foreignKey:SchoolID" json:"buses,omitempty"`
	Students []Student `gorm:"foreignKey:SchoolID" json:"students,omitempty"`
	Routes   []Route   `gorm:"foreignKey:SchoolID" json:"routes,omitempty"`
}

// SchoolAdmin ties a school_admin user to the school they manage.
type SchoolAdmin struct {
	gorm.Model
	Audit

	UserID         uint   `json:"user_id" gorm:"uniqueIndex:idx_school_admin_user_school"`
	User           User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	SchoolID       uint   `json:"school_id" gorm:"uniqueIndex:idx_school_admin_user_school"`
	Designation    string `json:"designation"`
	IsPrimaryAdmin bool   `json:"is_primary_admin" gorm:"default:false"`
}
