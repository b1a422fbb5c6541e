package http

import (
	"github.com/gin-gonic/gin"
	"github.com/wbfinder/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		products.Use(RateLimitMiddleware(cfg.RateLimit.PerUser))
		{
			products.GET("/:article", handler.GetProduct)
			products.POST("/similar", handler.FindSimilar)
			products.POST("/cheaper", handler.FindCheaper)
		}
	}

	return router
}
