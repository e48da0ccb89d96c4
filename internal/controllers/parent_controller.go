package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"schooltrip_tracker/internal/config"
	"schooltrip_tracker/internal/models"
	"schooltrip_tracker/internal/services"
)

// GetParent returns a parent profile with its user account.
func GetParent(c *gin.Context) {
	id := c.Param("id")
	var parent models.Parent
	if err := config.DB.Preload("User").First(&parent, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Parent not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"parent": parent})
}

// ListParentChildren returns the students linked to a parent.
func ListParentChildren(c *gin.Context) {
	id := c.Param("id")
	var students []models.Student
	if err := config.DB.Where("parent_id = ?", id).Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching children"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

// VerifyStudentLink is the read-only phone-match check: would a link between
// this parent and student pass validation?
func VerifyStudentLink(c *gin.Context) {
	parentID, err1 := strconv.ParseUint(c.Param("id"), 10, 32)
	studentID, err2 := strconv.ParseUint(c.Param("studentID"), 10, 32)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent or student ID"})
		return
	}

	var parent models.Parent
	if err := config.DB.Preload("User").First(&parent, uint(parentID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Parent not found"})
		return
	}
	var student models.Student
	if err := config.DB.First(&student, uint(studentID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	svc := services.NewLinkService(config.DB)
	c.JSON(http.StatusOK, gin.H{"verified": svc.VerifyLink(&parent, &student)})
}

// LinkStudent makes the parent the authoritative guardian of the student.
// force=true (admin only path) skips the phone match but never overrides an
// existing link to a different parent.
func LinkStudent(c *gin.Context) {
	parentID, err1 := strconv.ParseUint(c.Param("id"), 10, 32)
	studentID, err2 := strconv.ParseUint(c.Param("studentID"), 10, 32)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent or student ID"})
		return
	}

	var body struct {
		Force bool `json:"force"`
	}
	// Body is optional; absence means force=false.
	_ = c.ShouldBindJSON(&body)

	if body.Force {
		role, _ := c.Get("role")
		if role != models.RoleAdmin && role != models.RoleSchoolAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only school staff may force a link"})
			return
		}
	}

	svc := services.NewLinkService(config.DB)
	student, err := svc.LinkStudent(uint(parentID), uint(studentID), body.Force, actorID(c))
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"parent_id":  parentID,
			"student_id": studentID,
		}).Warn("LinkStudent failed")
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"student": student})
}

// LinkChildrenByPhone scans unlinked students whose guardian phone matches
// the parent's registered phone and links them all. Returns the count.
func LinkChildrenByPhone(c *gin.Context) {
	parentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent ID"})
		return
	}

	svc := services.NewLinkService(config.DB)
	linked, lerr := svc.LinkChildrenByPhone(uint(parentID), actorID(c))
	if lerr != nil {
		respondServiceError(c, lerr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"linked": linked})
}

// DeleteParent removes a parent profile. Student links are nullified first;
// the students keep their cached guardian contact fields.
func DeleteParent(c *gin.Context) {
	parentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent ID"})
		return
	}

	svc := services.NewLinkService(config.DB)
	if derr := svc.UnlinkParent(uint(parentID), actorID(c)); derr != nil {
		respondServiceError(c, derr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Parent deleted"})
}
