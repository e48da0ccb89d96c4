package routes

import (
	"schooltrip_tracker/internal/controllers"
	"schooltrip_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func TripRoutes(r *gin.Engine) {
	trips := r.Group("/trips")
	trips.Use(middleware.RequireAuthWithRole("school_admin", "admin"))
	{
		trips.POST("/", controllers.CreateTrip)
		trips.GET("/:id", controllers.GetTrip)
		trips.POST("/:id/driver", controllers.AssignTripDriver)
		trips.POST("/:id/transition", controllers.TransitionTrip)
		trips.POST("/stops/:stopID/status", controllers.MarkStopStatus)
		trips.POST("/:id/events", controllers.RecordTripEvent)
		trips.DELETE("/:id", controllers.DeleteTrip)
	}
}
