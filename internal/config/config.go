package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	Port        string
	Environment string

	DatabaseURL string
	RedisURL    string

	JWTSecret        string
	JWTExpiry        time.Duration
	RefreshExpiry    time.Duration
	InvitationExpiry time.Duration

	SeedData bool
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		JWTSecret:        getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTExpiry:        time.Duration(getEnvInt("JWT_EXPIRY_MINUTES", 15)) * time.Minute,
		RefreshExpiry:    time.Duration(getEnvInt("REFRESH_EXPIRY_DAYS", 14)) * 24 * time.Hour,
		InvitationExpiry: time.Duration(getEnvInt("INVITATION_EXPIRY_DAYS", 30)) * 24 * time.Hour,

		SeedData: getEnvBool("SEED_DATA", true),
	}

	if cfg.Environment == "production" && cfg.JWTSecret == "dev-secret-change-me" {
		log.Fatal("[Config] JWT_SECRET must be set in production")
	}

	return cfg
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("[Config] invalid int for %s, using default %d", key, fallback)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		log.Printf("[Config] invalid bool for %s, using default %v", key, fallback)
	}
	return fallback
}
