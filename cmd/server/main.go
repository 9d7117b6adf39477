package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/playmatatu/flickfog/internal/admin"
	"github.com/playmatatu/flickfog/internal/api"
	"github.com/playmatatu/flickfog/internal/config"
	"github.com/playmatatu/flickfog/internal/database"
	"github.com/playmatatu/flickfog/internal/match"
	"github.com/playmatatu/flickfog/internal/migrations"
	"github.com/playmatatu/flickfog/internal/redis"
	"github.com/playmatatu/flickfog/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if cfg.MigrateOnStart {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Operator overrides stored in runtime_config
	if err := admin.ApplyRuntimeConfigToConfig(db, cfg); err != nil {
		log.Printf("[CONFIG] Runtime config not applied: %v", err)
	}

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	tuning, err := config.LoadBotTuning(cfg.BotTuningFile)
	if err != nil {
		log.Fatalf("Failed to load bot tuning: %v", err)
	}

	// Initialize Match Manager; views are pushed through the websocket hub
	match.InitializeManager(db, rdb, cfg, tuning, ws.GameHub)

	// Wire Redis and start match event subscriber in WS layer
	ws.SetRedisClient(rdb, cfg)
	ws.StartMatchEventSubscriber(context.Background())

	// Start idle worker (inactive seats forfeit)
	match.Manager.StartIdleWorker(context.Background())

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Initialize API handlers
	api.SetupRoutes(router, db, rdb, cfg)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Flickfog server on port %s (tick rate %d Hz)", port, cfg.TickRateHz)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
