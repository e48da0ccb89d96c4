package services

import (
	"errors"

	"gorm.io/gorm"

	"schooltrip_tracker/internal/models"
)

// Guardian contact provenance
const (
	GuardianRegistered = "registered"
	GuardianInformal   = "informal"
)

// Guardian is the resolved caregiver contact for a student. Source says
// whether it came from a linked Parent account or from the informal
// enrollment fields, so callers can tell verified from unverified data.
type Guardian struct {
	Source         string `json:"source"`
	Name           string `json:"name"`
	Relation       string `json:"relation"`
	Phone          string `json:"phone"`
	AlternatePhone string `json:"alternate_phone"`
}

// GuardianInfo resolves the authoritative guardian contact for a student:
// the linked Parent when present, the informal enrollment fields otherwise.
func (s *LinkService) GuardianInfo(studentID uint) (*Guardian, error) {
	var student models.Student
	if err := s.db.Preload("Parent.User").First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("student", studentID)
		}
		return nil, err
	}
	return resolveGuardian(&student), nil
}

func resolveGuardian(student *models.Student) *Guardian {
	if student.ParentID != nil && student.Parent != nil {
		return &Guardian{
			Source:         GuardianRegistered,
			Name:           student.Parent.User.Name,
			Relation:       student.GuardianRelation,
			Phone:          student.Parent.User.Phone,
			AlternatePhone: student.Parent.EmergencyContact,
		}
	}
	return &Guardian{
		Source:         GuardianInformal,
		Name:           student.GuardianName,
		Relation:       student.GuardianRelation,
		Phone:          student.GuardianPhone,
		AlternatePhone: student.GuardianAlternatePhone,
	}
}

// UnlinkParent clears every student link pointing at the parent, then removes
// the parent row. Students survive with their cached guardian fields intact.
func (s *LinkService) UnlinkParent(parentID, actorID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var parent models.Parent
		if err := tx.First(&parent, parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("parent", parentID)
			}
			return err
		}
		if err := tx.Model(&models.Student{}).
			Where("parent_id = ?", parent.ID).
			Updates(map[string]interface{}{"parent_id": nil, "updated_by_id": actorID}).Error; err != nil {
			return err
		}
		return tx.Delete(&parent).Error
	})
}
