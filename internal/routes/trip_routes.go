package routes

import (
	"loadlink/internal/controllers"
	"loadlink/internal/middleware"

	"github.com/gin-gonic/gin"
)

func TripRoutes(r *gin.Engine) {
	trips := r.Group("/trips")
	trips.Use(middleware.RequireAuth())
	{
		trips.GET("/", controllers.ListTrips)
		trips.GET("/:id", controllers.GetTrip)
		trips.PATCH("/:id/status", controllers.UpdateTripStatus)
	}
}
