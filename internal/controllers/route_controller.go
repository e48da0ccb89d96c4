package controllers

import (
	"encoding/binary"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"schooltrip_tracker/internal/config"
	"schooltrip_tracker/internal/models"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// RouteResponse mirrors models.Route but carries Geometry as a GeoJSON string
// for API output.
type RouteResponse struct {
	ID           uint                  `json:"ID"`
	CreatedAt    time.Time             `json:"CreatedAt"`
	UpdatedAt    time.Time             `json:"UpdatedAt"`
	DeletedAt    gorm.DeletedAt        `json:"DeletedAt,omitempty"`
	Name         string                `json:"name"`
	SchoolID     uint                  `json:"school_id"`
	DefaultBusID *uint                 `json:"default_bus_id"`
	Geometry     string                `json:"geometry"`
	Students     []models.RouteStudent `json:"students"`
}

func toRouteResponse(route models.Route) RouteResponse {
	jsonGeom, _ := convertWKBToGeoJSON(route.Geometry)
	return RouteResponse{
		ID:           route.ID,
		CreatedAt:    route.CreatedAt,
		UpdatedAt:    route.UpdatedAt,
		DeletedAt:    route.DeletedAt,
		Name:         route.Name,
		SchoolID:     route.SchoolID,
		DefaultBusID: route.DefaultBusID,
		Geometry:     jsonGeom,
		Students:     route.Students,
	}
}

// parseAndConvertGeometry parses a GeoJSON string into a geom.T and returns WKB bytes
func parseAndConvertGeometry(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	err := gjson.Unmarshal([]byte(raw), &g)
	if err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// convertWKBToGeoJSON converts WKB bytes into a GeoJSON string
func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type routeStopInput struct {
	StudentID      uint   `json:"student_id" binding:"required"`
	PickupAddress  string `json:"pickup_address"`
	DropAddress    string `json:"drop_address"`
	SequenceNumber int    `json:"sequence_number" binding:"required"`
}

// CreateRoute creates a route with an ordered set of student stops and an
// optional GeoJSON LineString path, all in one transaction.
func CreateRoute(c *gin.Context) {
	var input struct {
		Name         string           `json:"name" binding:"required"`
		SchoolID     uint             `json:"school_id" binding:"required"`
		DefaultBusID *uint            `json:"default_bus_id"`
		Geometry     string           `json:"geometry"` // GeoJSON string
		Students     []routeStopInput `json:"students"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateRoute: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var school models.School
	if err := config.DB.First(&school, input.SchoolID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
		return
	}
	if input.DefaultBusID != nil {
		var bus models.Bus
		if err := config.DB.First(&bus, *input.DefaultBusID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Default bus not found"})
			return
		}
		if bus.SchoolID != school.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Default bus must belong to the route's school"})
			return
		}
	}

	actor := actorID(c)

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	wkbGeom, err := parseAndConvertGeometry(input.Geometry)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid geometry: " + err.Error()})
		return
	}

	route := models.Route{
		Name:         input.Name,
		SchoolID:     school.ID,
		DefaultBusID: input.DefaultBusID,
		Geometry:     wkbGeom,
		Audit:        models.Audit{CreatedByID: &actor, IsActive: true},
	}
	if err := tx.Create(&route).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create route failed: " + err.Error()})
		return
	}

	for _, s := range input.Students {
		var student models.Student
		if err := tx.First(&student, s.StudentID).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found: " + strconv.Itoa(int(s.StudentID))})
			return
		}
		if student.SchoolID != school.ID {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Student must belong to the route's school"})
			return
		}
		stop := models.RouteStudent{
			RouteID:        route.ID,
			StudentID:      s.StudentID,
			PickupAddress:  s.PickupAddress,
			DropAddress:    s.DropAddress,
			SequenceNumber: s.SequenceNumber,
			Audit:          models.Audit{CreatedByID: &actor, IsActive: true},
		}
		if err := tx.Create(&stop).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusConflict, gin.H{"error": "Create route stop failed: " + err.Error()})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed: " + err.Error()})
		return
	}

	config.DB.Preload("Students.Student").First(&route, route.ID)
	c.JSON(http.StatusCreated, gin.H{"route": toRouteResponse(route)})
}

// ReplaceRouteStudents swaps the full stop list of an existing route.
// Rejected while any trip references the route: in-flight trips keep their
// materialized stops, and past trips must stay reconstructible.
func ReplaceRouteStudents(c *gin.Context) {
	rID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var route models.Route
	if err := config.DB.First(&route, rID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	var tripCount int64
	config.DB.Model(&models.Trip{}).Where("route_id = ?", route.ID).Count(&tripCount)
	if tripCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Route has trips; create a new route instead of editing stops"})
		return
	}

	var input struct {
		Students []routeStopInput `json:"students" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorID(c)
	tx := config.DB.Begin()
	if err := tx.Where("route_id = ?", route.ID).Delete(&models.RouteStudent{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace stops: " + err.Error()})
		return
	}
	for _, s := range input.Students {
		stop := models.RouteStudent{
			RouteID:        route.ID,
			StudentID:      s.StudentID,
			PickupAddress:  s.PickupAddress,
			DropAddress:    s.DropAddress,
			SequenceNumber: s.SequenceNumber,
			Audit:          models.Audit{CreatedByID: &actor, IsActive: true},
		}
		if err := tx.Create(&stop).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusConflict, gin.H{"error": "Create route stop failed: " + err.Error()})
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed: " + err.Error()})
		return
	}

	config.DB.Preload("Students.Student").First(&route, route.ID)
	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(route)})
}

// ListRoutesBySchool fetches routes with their stops for a school.
func ListRoutesBySchool(c *gin.Context) {
	sID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid school ID"})
		return
	}

	var routes []models.Route
	config.DB.Preload("Students.Student").Where("school_id = ?", uint(sID)).Find(&routes)

	var routeResponses []RouteResponse
	for _, r := range routes {
		routeResponses = append(routeResponses, toRouteResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"routes": routeResponses})
}

// GetRoute returns a single route with its stops ordered by sequence.
func GetRoute(c *gin.Context) {
	rID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var route models.Route
	if err := config.DB.
		Preload("Students", func(db *gorm.DB) *gorm.DB { return db.Order("sequence_number asc") }).
		Preload("Students.Student").
		First(&route, rID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(route)})
}

// UpdateRoute handles updating route name, default bus or geometry.
func UpdateRoute(c *gin.Context) {
	rID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logrus.WithError(err).Warn("UpdateRoute: Invalid route ID in parameter")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var existingRoute models.Route
	if err := config.DB.First(&existingRoute, rID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		} else {
			logrus.WithError(err).Error("UpdateRoute: Database error fetching route")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var input struct {
		Name         *string `json:"name"`
		DefaultBusID *uint   `json:"default_bus_id"`
		Geometry     *string `json:"geometry"` // GeoJSON string
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("UpdateRoute: Invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		existingRoute.Name = *input.Name
	}
	if input.DefaultBusID != nil {
		var bus models.Bus
		if err := config.DB.First(&bus, *input.DefaultBusID).Error; err != nil || bus.SchoolID != existingRoute.SchoolID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Default bus must belong to the route's school"})
			return
		}
		existingRoute.DefaultBusID = input.DefaultBusID
	}
	if input.Geometry != nil {
		if *input.Geometry == "" {
			existingRoute.Geometry = nil
		} else {
			wkbGeom, gerr := parseAndConvertGeometry(*input.Geometry)
			if gerr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid geometry: " + gerr.Error()})
				return
			}
			existingRoute.Geometry = wkbGeom
		}
	}
	actor := actorID(c)
	existingRoute.UpdatedByID = &actor

	if err := config.DB.Save(&existingRoute).Error; err != nil {
		logrus.WithError(err).Error("UpdateRoute: Failed to save updated route")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(existingRoute)})
}

// DeleteRoute removes a route and its stops. Blocked while trips reference
// the route.
func DeleteRoute(c *gin.Context) {
	rID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var route models.Route
	if err := config.DB.First(&route, rID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var tripCount int64
	config.DB.Model(&models.Trip{}).Where("route_id = ?", route.ID).Count(&tripCount)
	if tripCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Route has trips and cannot be deleted"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	if err := tx.Where("route_id = ?", route.ID).Delete(&models.RouteStudent{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete route stops: " + err.Error()})
		return
	}
	if err := tx.Delete(&route).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete route: " + err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Route deleted successfully"})
}
