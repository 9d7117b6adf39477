package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// MaxTickRateHz keeps a tick at least one game-clock millisecond long.
const MaxTickRateHz = 1000

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Match Settings
	TickRateHz             int
	MatchExpiryMinutes     int
	SnapshotTTLMinutes     int
	IdleForfeitSeconds     int
	IdleWorkerPollInterval int
	BotTuningFile          string

	// Security
	JWTSecret           string
	SeatTokenTTLMinutes int
	AdminTokenHash      string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/flickfog?sslmode=disable"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Match Settings
		TickRateHz:             getEnvIntRange("TICK_RATE_HZ", 60, 1, MaxTickRateHz),
		MatchExpiryMinutes:     getEnvInt("MATCH_EXPIRY_MINUTES", 10),
		SnapshotTTLMinutes:     getEnvInt("SNAPSHOT_TTL_MINUTES", 60),
		IdleForfeitSeconds:     getEnvInt("IDLE_FORFEIT_SECONDS", 90),
		IdleWorkerPollInterval: getEnvInt("IDLE_WORKER_POLL_SECONDS", 5),
		BotTuningFile:          getEnv("BOT_TUNING_FILE", ""),

		// Security
		JWTSecret:           getEnv("JWT_SECRET", "change-me-in-production"),
		SeatTokenTTLMinutes: getEnvInt("SEAT_TOKEN_TTL_MINUTES", 120),
		AdminTokenHash:      getEnv("ADMIN_TOKEN_HASH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvIntRange falls back to defaultValue when the value is outside [lo, hi].
func getEnvIntRange(key string, defaultValue, lo, hi int) int {
	v := getEnvInt(key, defaultValue)
	if v < lo || v > hi {
		log.Printf("[CONFIG] %s=%d outside [%d, %d], using %d", key, v, lo, hi, defaultValue)
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
