// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Webhook gateway
	WebhookPath      string
	WebhookToken     string
	StoreTimeout     time.Duration
	DeliveryCacheTTL time.Duration

	// MongoDB
	MongoURI string
	MongoDB  string

	// PostgreSQL (reference data)
	PostgresURI string

	// Redis (delivery cache, optional)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// FL3XX roster source
	Fl3xxBaseURL string
	Fl3xxToken   string

	// Periodic tasks
	ReconcileInterval time.Duration
	PruneInterval     time.Duration
	EventTTL          time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		WebhookPath:      getEnv("WEBHOOK_PATH", "/webhooks/flight-events"),
		WebhookToken:     getEnv("WEBHOOK_TOKEN", ""),
		StoreTimeout:     time.Duration(getEnvAsInt("STORE_TIMEOUT", 5)) * time.Second,
		DeliveryCacheTTL: time.Duration(getEnvAsInt("DELIVERY_CACHE_TTL", 300)) * time.Second,

		MongoURI: getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "flightwatch"),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		Fl3xxBaseURL: getEnv("FL3XX_BASE_URL", "https://app.fl3xx.us/api/external/flight/flights"),
		Fl3xxToken:   getEnv("FL3XX_API_TOKEN", ""),

		ReconcileInterval: time.Duration(getEnvAsInt("RECONCILE_INTERVAL", 10)) * time.Second,
		PruneInterval:     time.Duration(getEnvAsInt("PRUNE_INTERVAL", 3600)) * time.Second,
		EventTTL:          time.Duration(getEnvAsInt("EVENT_TTL_HOURS", 72)) * time.Hour,
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
