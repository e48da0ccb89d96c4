package routes

import (
	"schooltrip_tracker/internal/controllers"
	"schooltrip_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func ParentRoutes(r *gin.Engine) {
	parent := r.Group("/parents")
	parent.Use(middleware.RequireAuthWithRole("parent", "school_admin", "admin"))
	{
		parent.GET("/:id", controllers.GetParent)
		parent.GET("/:id/children", controllers.ListParentChildren)
		parent.GET("/:id/verify/:studentID", controllers.VerifyStudentLink)
		parent.POST("/:id/link/:studentID", controllers.LinkStudent)
		parent.POST("/:id/link-children", controllers.LinkChildrenByPhone)
	}
}
