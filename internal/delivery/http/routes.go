package http

import (
	"github.com/gin-gonic/gin"
	"github.com/homekeep/backend/config"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware. The logger wraps recovery so panicking requests
	// still get an access log line with the 500 status.
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(RecoveryMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		packages := v1.Group("/packages")
		{
			packages.POST("/resolve", handler.ResolvePackage)
			packages.GET("/options", handler.PackageOptions)
		}

		v1.GET("/prices", handler.PriceRange)

		lists := v1.Group("/lists")
		{
			lists.GET("", handler.ListShoppingLists)
			lists.POST("", handler.CreateShoppingList)
			lists.POST("/reconcile", handler.ReconcileAllLists)
			lists.GET("/:id", handler.GetShoppingList)
			lists.POST("/:id/items", handler.AddItem)
			lists.POST("/:id/reconcile", handler.ReconcileList)
		}

		items := v1.Group("/items")
		{
			items.PATCH("/:itemId", handler.UpdateItemCost)
			items.DELETE("/:itemId", handler.DeleteItem)
		}
	}

	return router
}
