package router

import (
	"github.com/gin-gonic/gin"

	"docinsight/internal/handler"
	"docinsight/internal/middleware"
)

// Setup configures the Gin engine with the status routes and middleware.
func Setup(healthH *handler.HealthHandler) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	v1.GET("/status", healthH.Status)

	r.NoRoute(handler.NotFound)

	return r
}
