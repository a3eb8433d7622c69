package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-api/internal/shared/middleware"
	"library-api/internal/shared/permission"
	"library-api/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
		middleware.Caller(c.JWTManager),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthorRoutes(v1, c)
		setupBookRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTHOR ROUTES
// ========================================
// Every route names the capability it requires; the gate decides before the
// handler runs.
func setupAuthorRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authors := v1.Group("/authors")
	{
		authors.GET("", middleware.Permit(c.Gate, permission.CapView), c.AuthorHandler.List)
		authors.POST("", middleware.Permit(c.Gate, permission.CapCreate), c.AuthorHandler.Create)
		authors.GET("/:id", middleware.Permit(c.Gate, permission.CapView), c.AuthorHandler.GetByID)
		authors.PUT("/:id", middleware.Permit(c.Gate, permission.CapEdit), c.AuthorHandler.Update)
		authors.PATCH("/:id", middleware.Permit(c.Gate, permission.CapEdit), c.AuthorHandler.Update)
		authors.DELETE("/:id", middleware.Permit(c.Gate, permission.CapDelete), c.AuthorHandler.Delete)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		books.GET("", middleware.Permit(c.Gate, permission.CapView), c.BookHandler.List)
		books.GET("/statistics", middleware.Permit(c.Gate, permission.CapView), c.BookHandler.Statistics)
		books.GET("/by-author/:author_id", middleware.Permit(c.Gate, permission.CapView), c.BookHandler.ListByAuthor)
		books.POST("", middleware.Permit(c.Gate, permission.CapCreate), c.BookHandler.Create)
		books.GET("/:id", middleware.Permit(c.Gate, permission.CapView), c.BookHandler.GetByID)
		books.PUT("/:id", middleware.Permit(c.Gate, permission.CapEdit), c.BookHandler.Update)
		books.PATCH("/:id", middleware.Permit(c.Gate, permission.CapEdit), c.BookHandler.Update)
		books.DELETE("/:id", middleware.Permit(c.Gate, permission.CapDelete), c.BookHandler.Delete)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		services := gin.H{"store": appCtx.Config.App.StoreDriver}
		statusCode := http.StatusOK

		if appCtx.DB != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				services["database"] = "error"
				health["status"] = "degraded"
				statusCode = http.StatusServiceUnavailable
			} else {
				services["database"] = "ok"
			}
		}

		if appCtx.Cache != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				services["redis"] = "error"
			} else {
				services["redis"] = "ok"
			}
		}

		health["services"] = services
		c.JSON(statusCode, health)
	}
}
