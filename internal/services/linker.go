package services

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"schooltrip_tracker/internal/models"
)

// LinkService reconciles informal guardian contact records with registered
// Parent accounts. Guardian data predates parent accounts: a school enrolls a
// student with just a phone number, and when that phone later registers as a
// parent the link is established here, never by silently overwriting an
// existing one.
type LinkService struct {
	db *gorm.DB
}

func NewLinkService(db *gorm.DB) *LinkService {
	return &LinkService{db: db}
}

// NormalizePhone strips separators so "+91 11111-11111" and "+911111111111"
// compare equal.
func NormalizePhone(p string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, p)
}

func phonesEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return NormalizePhone(a) == NormalizePhone(b)
}

// VerifyLink reports whether the student's guardian phone or alternate phone
// matches the parent's registered phone or emergency contact. Pure predicate,
// no mutation; the parent's User must be loaded.
func (s *LinkService) VerifyLink(parent *models.Parent, student *models.Student) bool {
	for _, guardian := range []string{student.GuardianPhone, student.GuardianAlternatePhone} {
		if phonesEqual(guardian, parent.User.Phone) || phonesEqual(guardian, parent.EmergencyContact) {
			return true
		}
	}
	return false
}

// LinkStudent makes parent the authoritative guardian of student.
//
// Unless force is set, the guardian phone must match the parent's contact
// numbers (ErrLinkMismatch otherwise). A student already linked to a
// different parent is never re-linked (ErrAlreadyLinked); re-linking to the
// same parent is a no-op success. On success the informal guardian fields
// become a cache of the parent's verified details.
//
// The write is a compare-and-set on parent_id IS NULL inside a transaction,
// so of two concurrent callers exactly one wins; the loser observes either
// the no-op or ErrAlreadyLinked, exactly as if it had run second.
func (s *LinkService) LinkStudent(parentID, studentID uint, force bool, actorID uint) (*models.Student, error) {
	var student models.Student
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var parent models.Parent
		if err := tx.Preload("User").First(&parent, parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("parent", parentID)
			}
			return err
		}
		if err := tx.First(&student, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("student", studentID)
			}
			return err
		}

		if student.ParentID != nil {
			if *student.ParentID == parent.ID {
				return nil // already ours
			}
			return ErrAlreadyLinked
		}

		if !force && !s.VerifyLink(&parent, &student) {
			return ErrLinkMismatch
		}

		return s.claimStudent(tx, &parent, &student, actorID)
	})
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// claimStudent performs the guarded update. The parent_id IS NULL condition
// is the serialization point for concurrent link attempts on one student.
func (s *LinkService) claimStudent(tx *gorm.DB, parent *models.Parent, student *models.Student, actorID uint) error {
	updates := map[string]interface{}{
		"parent_id":                parent.ID,
		"guardian_name":            parent.User.Name,
		"guardian_phone":           parent.User.Phone,
		"guardian_alternate_phone": parent.EmergencyContact,
		"updated_by_id":            actorID,
	}
	res := tx.Model(&models.Student{}).
		Where("id = ? AND parent_id IS NULL", student.ID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race: re-read to decide between no-op and conflict.
		var current models.Student
		if err := tx.First(&current, student.ID).Error; err != nil {
			return err
		}
		if current.ParentID != nil && *current.ParentID == parent.ID {
			*student = current
			return nil
		}
		return ErrAlreadyLinked
	}

	student.ParentID = &parent.ID
	student.GuardianName = parent.User.Name
	student.GuardianPhone = parent.User.Phone
	student.GuardianAlternatePhone = parent.EmergencyContact
	student.UpdatedByID = &actorID
	return nil
}

// LinkChildrenByPhone scans unlinked students whose guardian phone or
// alternate phone equals the parent's registered phone and links each one.
// Returns the number linked. Students with a parent already set are never
// considered, so a second scan can't steal an established link.
func (s *LinkService) LinkChildrenByPhone(parentID, actorID uint) (int, error) {
	linked := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var parent models.Parent
		if err := tx.Preload("User").First(&parent, parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("parent", parentID)
			}
			return err
		}

		phone := NormalizePhone(parent.User.Phone)
		if phone == "" {
			return nil
		}

		var candidates []models.Student
		if err := tx.Where("parent_id IS NULL AND (guardian_phone = ? OR guardian_alternate_phone = ?)", phone, phone).
			Find(&candidates).Error; err != nil {
			return err
		}

		for i := range candidates {
			if err := s.claimStudent(tx, &parent, &candidates[i], actorID); err != nil {
				if errors.Is(err, ErrAlreadyLinked) {
					continue
				}
				return err
			}
			linked++
		}

		logrus.WithFields(logrus.Fields{
			"parent_id": parent.ID,
			"linked":    linked,
		}).Info("linked children by guardian phone")
		return nil
	})
	if err != nil {
		return 0, err
	}
	return linked, nil
}
