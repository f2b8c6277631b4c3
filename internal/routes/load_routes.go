package routes

import (
	"loadlink/internal/controllers"
	"loadlink/internal/middleware"

	"github.com/gin-gonic/gin"
)

func LoadRoutes(r *gin.Engine) {
	loads := r.Group("/loads")
	loads.Use(middleware.RequireAuth())
	{
		loads.POST("/", controllers.CreateLoad)
		loads.GET("/", controllers.ListLoads)
		loads.GET("/:id", controllers.GetLoad)
		loads.PATCH("/:id", controllers.UpdateLoad)
		loads.DELETE("/:id", controllers.DeleteLoad)
		loads.PATCH("/:id/status", controllers.UpdateLoadStatus)

		// POD gate endpoints
		loads.POST("/:id/pod", controllers.SubmitPod)
		loads.POST("/:id/pod/verify", controllers.VerifyPod)
	}
}
