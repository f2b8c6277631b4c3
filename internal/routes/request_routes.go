package routes

import (
	"loadlink/internal/controllers"
	"loadlink/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RequestRoutes(r *gin.Engine) {
	requests := r.Group("/requests")
	requests.Use(middleware.RequireAuth())
	{
		requests.GET("/", controllers.ListRequests)
		requests.POST("/load", controllers.CreateLoadRequest)
		requests.POST("/truck", controllers.CreateTruckRequest)
		requests.POST("/:kind/:id/respond", controllers.RespondToRequest)
	}
}
