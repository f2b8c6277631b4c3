package routes

import (
	"loadlink/internal/controllers"
	"loadlink/internal/middleware"

	"github.com/gin-gonic/gin"
)

func TruckRoutes(r *gin.Engine) {
	trucks := r.Group("/trucks")
	trucks.Use(middleware.RequireAuth())
	{
		trucks.POST("/", controllers.CreateTruck)
		trucks.GET("/mine", controllers.GetMyTrucks)
	}

	postings := r.Group("/postings")
	postings.Use(middleware.RequireAuth())
	{
		postings.POST("/", controllers.CreatePosting)
		postings.GET("/", controllers.ListPostings)
		postings.PATCH("/:id/unpost", controllers.UnpostPosting)
	}
}
