package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"schooltrip_tracker/internal/config"
	"schooltrip_tracker/internal/models"
	"schooltrip_tracker/internal/services"
)

// CreateSchool registers a new School
func CreateSchool(c *gin.Context) {
	var input struct {
		Name            string     `json:"name" binding:"required"`
		ContactNumber   string     `json:"contact_number"`
		Email           string     `json:"email" binding:"omitempty,email"`
		Website         string     `json:"website"`
		EstablishedDate *time.Time `json:"established_date"`
		Address         string     `json:"address"`
		City            string     `json:"city"`
		State           string     `json:"state"`
		ZipCode         string     `json:"zip_code"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorID(c)
	school := models.School{
		Name:            input.Name,
		ContactNumber:   services.NormalizePhone(input.ContactNumber),
		Email:           input.Email,
		Website:         input.Website,
		EstablishedDate: input.EstablishedDate,
		Address: models.Address{
			Address: input.Address,
			City:    input.City,
			State:   input.State,
			ZipCode: input.ZipCode,
		},
		Audit: models.Audit{CreatedByID: &actor, IsActive: true},
	}
	if err := config.DB.Create(&school).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create school: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"school": school})
}

// GetSchool retrieves a School by ID
func GetSchool(c *gin.Context) {
	id := c.Param("id")
	var school models.School
	if err := config.DB.Preload("Buses").Preload("Routes").First(&school, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"school": school})
}

// ListSchools lists all Schools
func ListSchools(c *gin.Context) {
	var schools []models.School
	if err := config.DB.Find(&schools).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch schools"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": schools})
}

// UpdateSchool modifies an existing School
func UpdateSchool(c *gin.Context) {
	id := c.Param("id")
	var school models.School
	if err := config.DB.First(&school, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
		return
	}

	var input struct {
		Name          *string `json:"name"`
		ContactNumber *string `json:"contact_number"`
		Email         *string `json:"email"`
		Website       *string `json:"website"`
		Address       *string `json:"address"`
		City          *string `json:"city"`
		State         *string `json:"state"`
		ZipCode       *string `json:"zip_code"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		school.Name = *input.Name
	}
	if input.ContactNumber != nil {
		school.ContactNumber = services.NormalizePhone(*input.ContactNumber)
	}
	if input.Email != nil {
		school.Email = *input.Email
	}
	if input.Website != nil {
		school.Website = *input.Website
	}
	if input.Address != nil {
		school.Address.Address = *input.Address
	}
	if input.City != nil {
		school.City = *input.City
	}
	if input.State != nil {
		school.State = *input.State
	}
	if input.ZipCode != nil {
		school.ZipCode = *input.ZipCode
	}
	actor := actorID(c)
	school.UpdatedByID = &actor

	config.DB.Save(&school)
	c.JSON(http.StatusOK, gin.H{"school": school})
}

// DeleteSchool removes a School by ID
func DeleteSchool(c *gin.Context) {
	id := c.Param("id")
	if err := config.DB.Delete(&models.School{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete school"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "School deleted"})
}

// AssignSchoolAdmin links a school_admin user to a school.
func AssignSchoolAdmin(c *gin.Context) {
	var input struct {
		UserID         uint   `json:"user_id" binding:"required"`
		SchoolID       uint   `json:"school_id" binding:"required"`
		Designation    string `json:"designation"`
		IsPrimaryAdmin bool   `json:"is_primary_admin"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.First(&user, input.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.Role != models.RoleSchoolAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User must have the school_admin role"})
		return
	}
	var school models.School
	if err := config.DB.First(&school, input.SchoolID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
		return
	}

	actor := actorID(c)
	admin := models.SchoolAdmin{
		UserID:         input.UserID,
		SchoolID:       input.SchoolID,
		Designation:    input.Designation,
		IsPrimaryAdmin: input.IsPrimaryAdmin,
		Audit:          models.Audit{CreatedByID: &actor, IsActive: true},
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Could not assign school admin: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"school_admin": admin})
}
