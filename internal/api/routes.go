package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/flickfog/internal/admin"
	"github.com/playmatatu/flickfog/internal/api/handlers"
	"github.com/playmatatu/flickfog/internal/config"
	"github.com/playmatatu/flickfog/internal/middleware"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] Aggressive no-cache headers enabled for all routes")
	}

	router.GET("/health", handlers.HealthCheck)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)
		v1.GET("/board", handlers.GetBoard)

		// Match endpoints
		v1.POST("/match", handlers.CreateMatch(cfg))
		m := v1.Group("/match")
		{
			m.GET("/:id", handlers.GetMatchState(cfg))
			m.GET("/:id/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleMatchWebSocket())
		}

		// Player endpoints
		player := v1.Group("/player")
		{
			player.GET("/:id/results", handlers.GetPlayerResults(db))
		}

		// Admin endpoints
		adm := v1.Group("/admin", admin.AdminAuth(cfg))
		{
			adm.GET("/matches", handlers.GetAdminMatches())
			adm.DELETE("/matches/:id", handlers.EndAdminMatch(db))
			adm.GET("/config", handlers.GetAdminConfig(db))
			adm.PUT("/config/:key", handlers.UpdateAdminConfig(db))
			adm.GET("/audit", handlers.GetAdminAudit(db))
		}
	}
}
