package models

import (
	"time"

	"gorm.io/gorm"
)

// Student enrolls with informal guardian contact details only. The nullable
// ParentID is filled in later when a registered Parent account claims the
// student; after a successful link the guardian_* columns cache the parent's
// verified contact info.
type Student struct {
	gorm.Model
	Audit

	SchoolID    uint       `json:"school_id" gorm:"index;uniqueIndex:idx_school_roll"`
	School      School     `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
	RollNumber  string     `json:"roll_number" gorm:"uniqueIndex:idx_school_roll"`
	StudentID   string     `json:"student_id" gorm:"unique"`
	Name        string     `json:"name"`
	Grade       string     `json:"grade"`
	Section     string     `json:"section"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      string     `json:"gender"`

	// Guardian information (informal until a Parent is linked)
	GuardianName           string `json:"guardian_name"`
	GuardianRelation       string `json:"guardian_relation"`
	GuardianPhone          string `json:"guardian_phone" gorm:"index"`
	GuardianAlternatePhone string `json:"guardian_alternate_phone"`

	HomeAddress  string     `json:"home_address" gorm:"column:home_address"`
	EnrolledDate *time.Time `json:"enrolled_date"`

	ParentID *uint   `json:"parent_id" gorm:"index"`
	Parent   *Parent `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL;" json:"parent,omitempty"`
}
