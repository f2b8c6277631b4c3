package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.New()

	// Engine-level middleware must be installed before any route is
	// registered or gin leaves those routes outside the chain.
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	AuthRoutes(r)
	LoadRoutes(r)
	TruckRoutes(r)
	RequestRoutes(r)
	TripRoutes(r)
	AdminRoutes(r)

	return r
}
