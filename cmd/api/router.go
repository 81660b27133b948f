package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bloglist-backend/internal/shared/middleware"
	"bloglist-backend/internal/shared/response"
	"bloglist-backend/internal/shared/utils"
	"bloglist-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.ClientIPMiddleware(),
		middleware.Logger(),
		middleware.CORS(),
	)

	api := router.Group("/api")
	{
		api.GET("/health", healthCheckHandler(c))

		setupBlogRoutes(api, c)
		setupUserRoutes(api, c)
		setupLoginRoutes(api, c)
	}

	router.NoRoute(func(ctx *gin.Context) {
		response.ErrorResponse(ctx, http.StatusNotFound, "UNKNOWN_ENDPOINT", "unknown endpoint")
	})

	return router
}

// ========================================
// BLOG ROUTES
// ========================================
func setupBlogRoutes(api *gin.RouterGroup, c *container.Container) {
	blogs := api.Group("/blogs")
	{
		blogs.GET("", c.BlogHandler.List)

		authed := blogs.Group("")
		authed.Use(middleware.AuthMiddleware(c.Guard))
		{
			authed.POST("", c.BlogHandler.Create)
			authed.PUT("/:id", c.BlogHandler.Update)
			authed.DELETE("/:id", c.BlogHandler.Delete)
		}
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(api *gin.RouterGroup, c *container.Container) {
	users := api.Group("/users")
	{
		users.GET("", c.UserHandler.List)
		users.POST("", c.UserHandler.Register)
	}
}

// ========================================
// LOGIN ROUTES
// ========================================
func setupLoginRoutes(api *gin.RouterGroup, c *container.Container) {
	api.POST("/login", c.UserHandler.Login)
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"store":     appCtx.Config.Store.Driver,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		// Error details and pool internals are only shown to callers on the
		// private network.
		private := utils.IsPrivateIP(c.GetString("client_ip"))
		failure := func(err error) string {
			if private {
				return "error: " + err.Error()
			}
			return "error"
		}

		dbStatus := "ok"
		if err := appCtx.PingStore(ctx); err != nil {
			dbStatus = failure(err)
			health["status"] = "degraded"
		}

		cacheStatus := "ok"
		if err := appCtx.Cache.Ping(ctx); err != nil {
			cacheStatus = failure(err)
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"cache":    cacheStatus,
		}

		if appCtx.DB != nil && private {
			if stats, err := appCtx.DB.Stats(); err == nil {
				health["pool"] = stats
			}
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, health)
	}
}
