package models

import "gorm.io/gorm"

// Role values for User.Role
const (
	RoleAdmin       = "admin"
	RoleSchoolAdmin = "school_admin"
	RoleDriver      = "driver"
	RoleParent      = "parent"
)

type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"password"`
	Phone    string `json:"phone" gorm:"index"`
	Role     string `json:"role"` // "admin", "school_admin", "driver", "parent"

	// Actor-specific relations
	Driver *Driver `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"driver,omitempty"`
	Parent *Parent `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"parent,omitempty"`
}

// ValidRole reports whether r is one of the accepted account roles.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleSchoolAdmin, RoleDriver, RoleParent:
		return true
	}
	return false
}
