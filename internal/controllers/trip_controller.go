package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"schooltrip_tracker/internal/config"
	"schooltrip_tracker/internal/models"
	"schooltrip_tracker/internal/services"
)

func tripService() *services.TripService {
	return services.NewTripService(config.DB, config.StopInterval())
}

// CreateTrip dispatches a route for a day: one SCHEDULED trip plus one
// tracked stop per route student.
func CreateTrip(c *gin.Context) {
	var input struct {
		SchoolID       uint       `json:"school_id" binding:"required"`
		RouteID        uint       `json:"route_id" binding:"required"`
		BusID          uint       `json:"bus_id" binding:"required"`
		DriverID       *uint      `json:"driver_id"`
		TripType       string     `json:"trip_type" binding:"required"`
		ScheduledStart time.Time  `json:"scheduled_start_time" binding:"required"`
		ScheduledEnd   *time.Time `json:"scheduled_end_time"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateTrip: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	trip, err := tripService().CreateTrip(services.CreateTripInput{
		SchoolID:       input.SchoolID,
		RouteID:        input.RouteID,
		BusID:          input.BusID,
		DriverID:       input.DriverID,
		TripType:       input.TripType,
		ScheduledStart: input.ScheduledStart,
		ScheduledEnd:   input.ScheduledEnd,
		ActorID:        actorID(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"trip": trip})
}

// TransitionTrip moves a trip to a new status. The actual start/end moment
// comes from the caller, typically the driver's device clock.
func TransitionTrip(c *gin.Context) {
	tripID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}

	var input struct {
		Status string     `json:"status" binding:"required"`
		At     *time.Time `json:"at"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, terr := tripService().TransitionTo(uint(tripID), input.Status, actorID(c), input.At)
	if terr != nil {
		respondServiceError(c, terr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// AssignTripDriver sets the driver on a still-SCHEDULED trip.
func AssignTripDriver(c *gin.Context) {
	tripID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}
	var input struct {
		DriverID uint `json:"driver_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, aerr := tripService().AssignDriver(uint(tripID), input.DriverID, actorID(c))
	if aerr != nil {
		respondServiceError(c, aerr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// MarkStopStatus records a pickup/drop/absence report for one tracked stop.
func MarkStopStatus(c *gin.Context) {
	stopID, err := strconv.ParseUint(c.Param("stopID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stop ID"})
		return
	}

	var input struct {
		Status     string     `json:"status" binding:"required"`
		ActualTime *time.Time `json:"actual_time"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stop, merr := tripService().MarkStopStatus(uint(stopID), input.Status, actorID(c), input.ActualTime)
	if merr != nil {
		respondServiceError(c, merr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip_student": stop})
}

// RecordTripLocation appends one GPS ping to a trip.
func RecordTripLocation(c *gin.Context) {
	tripID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}

	var input struct {
		Latitude  float64   `json:"latitude"`
		Longitude float64   `json:"longitude"`
		Speed     *float64  `json:"speed"`
		Timestamp time.Time `json:"timestamp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewTelemetryService(config.DB)
	loc, lerr := svc.RecordLocation(uint(tripID), input.Latitude, input.Longitude, input.Speed, input.Timestamp)
	if lerr != nil {
		respondServiceError(c, lerr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"location": loc})
}

// RecordTripEvent appends one discrete event (START/DELAY/BREAKDOWN/...) to a
// trip, with optional coordinates.
func RecordTripEvent(c *gin.Context) {
	tripID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}

	var input struct {
		EventType   string    `json:"event_type" binding:"required"`
		Description string    `json:"description"`
		Latitude    *float64  `json:"latitude"`
		Longitude   *float64  `json:"longitude"`
		Timestamp   time.Time `json:"timestamp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewTelemetryService(config.DB)
	ev, eerr := svc.RecordEvent(uint(tripID), input.EventType, input.Description, input.Latitude, input.Longitude, input.Timestamp)
	if eerr != nil {
		respondServiceError(c, eerr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": ev})
}

// GetTrip returns a trip with its stops ordered by route sequence.
func GetTrip(c *gin.Context) {
	id := c.Param("id")
	var trip models.Trip
	if err := config.DB.
		Preload("Students", func(db *gorm.DB) *gorm.DB { return db.Order("scheduled_time asc") }).
		Preload("Students.RouteStudent.Student").
		Preload("Route").
		Preload("Bus").
		Preload("Driver").
		First(&trip, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// ListTripsBySchool returns a school's trips, optionally filtered by status.
func ListTripsBySchool(c *gin.Context) {
	sID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid school ID"})
		return
	}

	query := config.DB.Where("school_id = ?", uint(sID))
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var trips []models.Trip
	if err := query.Order("scheduled_start_time desc").Find(&trips).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching trips"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// ListMyTrips returns the authenticated driver's trips, newest first.
func ListMyTrips(c *gin.Context) {
	userID := actorID(c)
	var driver models.Driver
	if err := config.DB.Where("user_id = ?", userID).First(&driver).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Driver profile not found"})
		return
	}

	query := config.DB.Where("driver_id = ?", driver.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var trips []models.Trip
	if err := query.
		Preload("Route").
		Preload("Bus").
		Preload("Students", func(db *gorm.DB) *gorm.DB { return db.Order("scheduled_time asc") }).
		Preload("Students.RouteStudent.Student").
		Order("scheduled_start_time desc").
		Find(&trips).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching trips"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// DeleteTrip removes a trip and everything it owns (stops, pings, events).
func DeleteTrip(c *gin.Context) {
	tripID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}
	if derr := tripService().DeleteTrip(uint(tripID)); derr != nil {
		respondServiceError(c, derr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}
