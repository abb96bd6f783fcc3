package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler, metrics http.Handler) {
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/reviews/classify", handler.ClassifyReview) // POST /api/v1/reviews/classify
		v1.POST("/intake/classify", handler.ClassifyIntake)  // POST /api/v1/intake/classify
	}
}
