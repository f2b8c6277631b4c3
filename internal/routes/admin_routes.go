package routes

import (
	"loadlink/internal/controllers"
	"loadlink/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole("ADMIN"))
	{
		admin.GET("/trucks", controllers.ListTrucks)
		admin.PATCH("/trucks/:id/approval", controllers.SetTruckApproval)
	}
}
