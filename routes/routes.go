package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/fms-tools/calendly-insights/config"
	"github.com/fms-tools/calendly-insights/internal/auth"
	"github.com/fms-tools/calendly-insights/internal/event"
	"github.com/fms-tools/calendly-insights/internal/reports"
	"github.com/fms-tools/calendly-insights/internal/sync"
	"github.com/fms-tools/calendly-insights/internal/synclog"
	"github.com/fms-tools/calendly-insights/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth    *auth.Handler
	AuthSvc auth.Service
	Events  *event.Handler
	Reports *reports.Handler
	Sync    *sync.Handler
	SyncLog *synclog.Handler
}

// Setup mounts all routes on the engine.
func Setup(r *gin.Engine, cfg *config.Config, h Handlers) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())
	api.Use(middleware.RequestID())

	api.POST("/auth/login", h.Auth.Login)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(h.AuthSvc))

	eventRoutes := protected.Group("/events")
	{
		eventRoutes.GET("", h.Events.List)
		eventRoutes.GET("/stats", h.Events.Stats)
	}

	reportRoutes := protected.Group("/reports")
	{
		reportRoutes.GET("/summary", h.Reports.Summary)
		reportRoutes.GET("/events", h.Reports.Export)
	}

	syncRoutes := protected.Group("/sync")
	{
		syncRoutes.POST("", h.Sync.Trigger)
		syncRoutes.GET("/status", h.SyncLog.Latest)
		syncRoutes.GET("/logs", h.SyncLog.List)
	}
}
