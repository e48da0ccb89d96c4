package models

import (
	"time"

	"gorm.io/gorm"
)

type Driver struct {
	gorm.Model
	Audit
	UserID   uint   `json:"user_id" gorm:"unique"` // Foreign key to User
	User     User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	SchoolID uint   `json:"school_id" gorm:"index"`
	School   School `gorm:"foreignKey:SchoolID" json:"school,omitempty"`

	Name             string     `json:"name"`  // Driver's specific name (if different from User.Name)
	Phone            string     `json:"phone"` // Driver's specific phone (if different from User.Phone)
	DateOfBirth      *time.Time `json:"date_of_birth"`
	BloodGroup       string     `json:"blood_group"`
	EmergencyContact string     `json:"emergency_contact"`

	LicenseNumber           string     `json:"license_number"`
	LicenseType             string     `json:"license_type"` // "COMMERCIAL", "HEAVY VEHICLE"
	LicenseIssueDate        *time.Time `json:"license_issue_date"`
	LicenseExpiryDate       *time.Time `json:"license_expiry_date"`
	LicenseIssuingAuthority string     `json:"license_issuing_authority"`
	YearsOfExperience       int        `json:"years_of_experience"`
}
