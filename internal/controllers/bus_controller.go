package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"schooltrip_tracker/internal/config"
	"schooltrip_tracker/internal/models"
)

// busStatusPayload defines the expected JSON for updating bus status.
type busStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// CreateBus registers a bus for a school.
func CreateBus(c *gin.Context) {
	var input struct {
		RegistrationNumber string     `json:"registration_number" binding:"required"`
		SchoolID           uint       `json:"school_id" binding:"required"`
		Capacity           int        `json:"capacity"`
		Make               string     `json:"make"`
		Model              string     `json:"model"`
		Year               int        `json:"year"`
		FuelType           string     `json:"fuel_type"`
		InsuranceExpiry    *time.Time `json:"insurance_expiry"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bus input: " + err.Error()})
		return
	}

	switch input.FuelType {
	case "", models.FuelDiesel, models.FuelCNG, models.FuelElectric:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "fuel_type must be DIESEL, CNG or ELECTRIC"})
		return
	}

	var school models.School
	if err := config.DB.First(&school, input.SchoolID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
		return
	}

	actor := actorID(c)
	bus := models.Bus{
		RegistrationNumber: input.RegistrationNumber,
		SchoolID:           input.SchoolID,
		Capacity:           input.Capacity,
		Make:               input.Make,
		ModelName:          input.Model,
		Year:               input.Year,
		FuelType:           input.FuelType,
		Status:             models.BusActive,
		InsuranceExpiry:    input.InsuranceExpiry,
		Audit:              models.Audit{CreatedByID: &actor, IsActive: true},
	}
	if err := config.DB.Create(&bus).Error; err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "registration number already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bus: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bus": bus})
}

// ListBusesBySchool returns a school's buses.
func ListBusesBySchool(c *gin.Context) {
	schoolID := c.Param("id")
	var buses []models.Bus
	if err := config.DB.Where("school_id = ?", schoolID).Find(&buses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching buses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"buses": buses})
}

// ListBuses is for administrative use: all buses, all schools.
func ListBuses(c *gin.Context) {
	var buses []models.Bus
	if err := config.DB.Find(&buses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing buses: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": buses})
}

// UpdateBusStatus flips a bus between ACTIVE / MAINTENANCE / INACTIVE.
func UpdateBusStatus(c *gin.Context) {
	id := c.Param("id")

	var payload busStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status payload"})
		return
	}
	switch payload.Status {
	case models.BusActive, models.BusMaintenance, models.BusInactive:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be ACTIVE, MAINTENANCE or INACTIVE"})
		return
	}

	var bus models.Bus
	if err := config.DB.First(&bus, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
		return
	}

	actor := actorID(c)
	bus.Status = payload.Status
	bus.UpdatedByID = &actor
	config.DB.Save(&bus)
	c.JSON(http.StatusOK, gin.H{"bus": bus})
}

// DeleteBus removes a bus.
func DeleteBus(c *gin.Context) {
	id := c.Param("id")
	var bus models.Bus
	if err := config.DB.First(&bus, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
		return
	}
	config.DB.Delete(&bus)
	c.JSON(http.StatusOK, gin.H{"message": "Bus deleted"})
}
