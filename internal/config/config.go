package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port    int
	DevMode bool

	// Database
	DatabasePath string

	// Horizon Gateway
	HorizonBaseURL     string
	HorizonOrderbookTO time.Duration
	HorizonPathTO      time.Duration

	// Pathfinder / Resolver defaults
	MaxHops          int
	MaxRoutesPerDest int
	MaxRoutesGlobal  int
	GraceTimeoutSec  int

	// Edge Discovery
	OrderbookConcurrency int
	OrderbookMinDepth    float64

	// Scheduler intervals
	FullRebuildCron  string
	LightRefreshCron string
	CachePurgeCron   string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnvAsInt("PORT", 8080),
		DevMode:              getEnvAsBool("DEV_MODE", false),
		DatabasePath:         getEnv("DATABASE_PATH", "./data/route_engine.db"),
		HorizonBaseURL:       getEnv("HORIZON_BASE_URL", "https://horizon.stellar.org"),
		HorizonOrderbookTO:   getEnvAsDuration("HORIZON_ORDERBOOK_TIMEOUT", 8*time.Second),
		HorizonPathTO:        getEnvAsDuration("HORIZON_PATH_TIMEOUT", 10*time.Second),
		MaxHops:              getEnvAsInt("MAX_HOPS", 4),
		MaxRoutesPerDest:     getEnvAsInt("MAX_ROUTES_PER_DEST", 5),
		MaxRoutesGlobal:      getEnvAsInt("MAX_ROUTES_GLOBAL", 20),
		GraceTimeoutSec:      getEnvAsInt("GRAPH_GRACE_TIMEOUT_SEC", 40),
		OrderbookConcurrency: getEnvAsInt("ORDERBOOK_CONCURRENCY", 3),
		OrderbookMinDepth:    getEnvAsFloat("ORDERBOOK_MIN_DEPTH", 0.01),
		FullRebuildCron:      getEnv("FULL_REBUILD_CRON", "0 */30 * * * *"),
		LightRefreshCron:     getEnv("LIGHT_REFRESH_CRON", "0 */5 * * * *"),
		CachePurgeCron:       getEnv("CACHE_PURGE_CRON", "0 */15 * * * *"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.HorizonBaseURL == "" {
		return fmt.Errorf("HORIZON_BASE_URL is required")
	}
	if c.MaxHops <= 0 {
		return fmt.Errorf("MAX_HOPS must be positive")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
