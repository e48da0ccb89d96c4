package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"schooltrip_tracker/internal/config"
	"schooltrip_tracker/internal/models"
)

// ListDriversBySchool returns drivers registered under a school.
func ListDriversBySchool(c *gin.Context) {
	sID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid school ID"})
		return
	}

	var drivers []models.Driver
	if err := config.DB.Preload("User").Where("school_id = ?", uint(sID)).Find(&drivers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching drivers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": drivers})
}

// GetDriver returns one driver with their user account.
func GetDriver(c *gin.Context) {
	id := c.Param("id")
	var driver models.Driver
	if err := config.DB.Preload("User").Preload("School").First(&driver, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

// UpdateDriver patches license / contact fields on a driver profile.
func UpdateDriver(c *gin.Context) {
	id := c.Param("id")
	var driver models.Driver
	if err := config.DB.First(&driver, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		return
	}

	var input struct {
		Name                    *string `json:"name"`
		Phone                   *string `json:"phone"`
		BloodGroup              *string `json:"blood_group"`
		EmergencyContact        *string `json:"emergency_contact"`
		LicenseNumber           *string `json:"license_number"`
		LicenseType             *string `json:"license_type"`
		LicenseIssuingAuthority *string `json:"license_issuing_authority"`
		YearsOfExperience       *int    `json:"years_of_experience"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("UpdateDriver: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		driver.Name = *input.Name
	}
	if input.Phone != nil {
		driver.Phone = *input.Phone
	}
	if input.BloodGroup != nil {
		driver.BloodGroup = *input.BloodGroup
	}
	if input.EmergencyContact != nil {
		driver.EmergencyContact = *input.EmergencyContact
	}
	if input.LicenseNumber != nil {
		driver.LicenseNumber = *input.LicenseNumber
	}
	if input.LicenseType != nil {
		driver.LicenseType = *input.LicenseType
	}
	if input.LicenseIssuingAuthority != nil {
		driver.LicenseIssuingAuthority = *input.LicenseIssuingAuthority
	}
	if input.YearsOfExperience != nil {
		driver.YearsOfExperience = *input.YearsOfExperience
	}
	actor := actorID(c)
	driver.UpdatedByID = &actor

	if err := config.DB.Save(&driver).Error; err != nil {
		logrus.WithError(err).Error("UpdateDriver: failed to save driver")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

// GetMyDriverProfile returns the driver profile of the authenticated user.
func GetMyDriverProfile(c *gin.Context) {
	userID := actorID(c)
	var driver models.Driver
	if err := config.DB.Preload("User").Preload("School").Where("user_id = ?", userID).First(&driver).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Driver profile not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": driver})
}
