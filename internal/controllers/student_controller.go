package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	logrus "github.com/sirupsen/logrus"

	"schooltrip_tracker/internal/config"
	"schooltrip_tracker/internal/models"
	"schooltrip_tracker/internal/services"
)

// CreateStudent enrolls a student with informal guardian contact details.
// A student ID is issued when the school does not supply one.
func CreateStudent(c *gin.Context) {
	var input struct {
		SchoolID    uint       `json:"school_id" binding:"required"`
		RollNumber  string     `json:"roll_number" binding:"required"`
		StudentID   string     `json:"student_id"`
		Name        string     `json:"name" binding:"required"`
		Grade       string     `json:"grade"`
		Section     string     `json:"section"`
		DateOfBirth *time.Time `json:"date_of_birth"`
		Gender      string     `json:"gender"`

		GuardianName           string `json:"guardian_name" binding:"required"`
		GuardianRelation       string `json:"guardian_relation"`
		GuardianPhone          string `json:"guardian_phone" binding:"required"`
		GuardianAlternatePhone string `json:"guardian_alternate_phone"`

		HomeAddress string `json:"home_address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateStudent: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var school models.School
	if err := config.DB.First(&school, input.SchoolID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
		return
	}

	studentID := input.StudentID
	if studentID == "" {
		studentID = uuid.NewString()
	}

	actor := actorID(c)
	now := time.Now()
	student := models.Student{
		SchoolID:               input.SchoolID,
		RollNumber:             input.RollNumber,
		StudentID:              studentID,
		Name:                   input.Name,
		Grade:                  input.Grade,
		Section:                input.Section,
		DateOfBirth:            input.DateOfBirth,
		Gender:                 input.Gender,
		GuardianName:           input.GuardianName,
		GuardianRelation:       input.GuardianRelation,
		GuardianPhone:          services.NormalizePhone(input.GuardianPhone),
		GuardianAlternatePhone: services.NormalizePhone(input.GuardianAlternatePhone),
		HomeAddress:            input.HomeAddress,
		EnrolledDate:           &now,
		Audit:                  models.Audit{CreatedByID: &actor, IsActive: true},
	}
	if err := config.DB.Create(&student).Error; err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "student_id or roll number already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create student: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"student": student})
}

// ListStudentsBySchool returns a school's students.
func ListStudentsBySchool(c *gin.Context) {
	sID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid school ID"})
		return
	}

	var students []models.Student
	if err := config.DB.Where("school_id = ?", uint(sID)).
		Order("grade, section, roll_number").
		Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching students"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

// GetStudent returns one student with their linked parent, if any.
func GetStudent(c *gin.Context) {
	id := c.Param("id")
	var student models.Student
	if err := config.DB.Preload("Parent.User").First(&student, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"student": student})
}

// GetStudentGuardian resolves the authoritative guardian contact for a
// student: the linked parent account when present, the informal enrollment
// fields otherwise. The source field says which one it was.
func GetStudentGuardian(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return
	}

	svc := services.NewLinkService(config.DB)
	guardian, gerr := svc.GuardianInfo(uint(id))
	if gerr != nil {
		respondServiceError(c, gerr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guardian": guardian})
}

// UpdateStudent patches enrollment fields. Guardian contact fields are only
// editable while no parent is linked; after a link the parent record is
// authoritative and changes must go through link operations.
func UpdateStudent(c *gin.Context) {
	id := c.Param("id")
	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	var input struct {
		Name                   *string `json:"name"`
		Grade                  *string `json:"grade"`
		Section                *string `json:"section"`
		GuardianName           *string `json:"guardian_name"`
		GuardianRelation       *string `json:"guardian_relation"`
		GuardianPhone          *string `json:"guardian_phone"`
		GuardianAlternatePhone *string `json:"guardian_alternate_phone"`
		HomeAddress            *string `json:"home_address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guardianEdit := input.GuardianName != nil || input.GuardianPhone != nil || input.GuardianAlternatePhone != nil
	if guardianEdit && student.ParentID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "guardian contact is managed by the linked parent account"})
		return
	}

	if input.Name != nil {
		student.Name = *input.Name
	}
	if input.Grade != nil {
		student.Grade = *input.Grade
	}
	if input.Section != nil {
		student.Section = *input.Section
	}
	if input.GuardianName != nil {
		student.GuardianName = *input.GuardianName
	}
	if input.GuardianRelation != nil {
		student.GuardianRelation = *input.GuardianRelation
	}
	if input.GuardianPhone != nil {
		student.GuardianPhone = services.NormalizePhone(*input.GuardianPhone)
	}
	if input.GuardianAlternatePhone != nil {
		student.GuardianAlternatePhone = services.NormalizePhone(*input.GuardianAlternatePhone)
	}
	if input.HomeAddress != nil {
		student.HomeAddress = *input.HomeAddress
	}
	actor := actorID(c)
	student.UpdatedByID = &actor

	if err := config.DB.Save(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"student": student})
}
