package routes

import (
	"schooltrip_tracker/internal/controllers"
	"schooltrip_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SchoolRoutes(r *gin.Engine) {
	school := r.Group("/schools")
	school.Use(middleware.RequireAuthWithRole("school_admin", "admin"))
	{
		school.GET("/", controllers.ListSchools)
		school.GET("/:id", controllers.GetSchool)
		school.GET("/:id/buses", controllers.ListBusesBySchool)
		school.GET("/:id/drivers", controllers.ListDriversBySchool)
		school.GET("/:id/students", controllers.ListStudentsBySchool)
		school.GET("/:id/routes", controllers.ListRoutesBySchool)
		school.GET("/:id/trips", controllers.ListTripsBySchool)

		school.POST("/buses", controllers.CreateBus)
		school.PATCH("/buses/:id/status", controllers.UpdateBusStatus)
		school.DELETE("/buses/:id", controllers.DeleteBus)

		school.GET("/drivers/:id", controllers.GetDriver)
		school.PUT("/drivers/:id", controllers.UpdateDriver)

		school.POST("/students", controllers.CreateStudent)
		school.GET("/students/:id", controllers.GetStudent)
		school.PUT("/students/:id", controllers.UpdateStudent)
		school.GET("/students/:id/guardian", controllers.GetStudentGuardian)

		school.POST("/routes", controllers.CreateRoute)
		school.GET("/routes/:id", controllers.GetRoute)
		school.PUT("/routes/:id", controllers.UpdateRoute)
		school.PUT("/routes/:id/students", controllers.ReplaceRouteStudents)
		school.DELETE("/routes/:id", controllers.DeleteRoute)

		// Staff-initiated guardian linkage (force requires this role anyway)
		school.POST("/parents/:id/link/:studentID", controllers.LinkStudent)
		school.DELETE("/parents/:id", controllers.DeleteParent)
	}
}
