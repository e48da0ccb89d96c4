package models

import (
	"gorm.io/gorm"
)

// Parent wraps a parent-role User account. Students reference it with a
// nullable back-link; deleting a Parent never deletes students.
type Parent struct {
	gorm.Model
	Audit

	UserID            uint   `json:"user_id" gorm:"uniqueIndex"`
	User              User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Occupation        string `json:"occupation"`
	WorkAddress       string `json:"work_address"`
	EmergencyContact  string `json:"emergency_contact"`
	PreferredLanguage string `json:"preferred_language"`
}
