package routes

import (
	"schooltrip_tracker/internal/controllers"
	"schooltrip_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.POST("/schools", controllers.CreateSchool)
		admin.PUT("/schools/:id", controllers.UpdateSchool)
		admin.DELETE("/schools/:id", controllers.DeleteSchool)
		admin.POST("/school-admins", controllers.AssignSchoolAdmin)
		admin.GET("/buses", controllers.ListBuses)
	}
}
