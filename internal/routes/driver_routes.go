package routes

import (
	"schooltrip_tracker/internal/controllers"
	"schooltrip_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func DriverRoutes(r *gin.Engine) {
	driver := r.Group("/driver")
	driver.Use(middleware.RequireAuthWithRole("driver"))
	{
		driver.GET("/me", controllers.GetMyDriverProfile)
		driver.GET("/trips", controllers.ListMyTrips)
		driver.GET("/trips/:id", controllers.GetTrip)
		driver.POST("/trips/:id/transition", controllers.TransitionTrip)
		driver.POST("/trips/stops/:stopID/status", controllers.MarkStopStatus)
		driver.POST("/trips/:id/locations", controllers.RecordTripLocation)
		driver.POST("/trips/:id/events", controllers.RecordTripEvent)
	}
}
