// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Token lifetimes and the
// bcrypt cost are policy values with defaults rather than hard requirements;
// note that access tokens cannot be revoked before their natural expiry, so
// shortening ACCESS_TOKEN_TTL_HOURS is the only lever against stolen tokens.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	DBUser          string        // database username
	DBPass          string        // database password (optional)
	DBHost          string        // database host address
	DBPort          string        // database port number
	DBName          string        // database name
	JWTSecret       string        // secret used to sign access tokens
	AccessTokenTTL  time.Duration // access token lifetime (default 168h = 7 days)
	RefreshTokenTTL time.Duration // refresh token lifetime (default 30 days)
	BcryptCost      int           // bcrypt cost for password hashing
	AMQPURL         string        // RabbitMQ URL; empty disables event publishing
}

// Load reads configuration from the environment, after loading a .env file
// when one is present. Missing required variables are fatal.
func Load() Config {
	// Best effort: a missing .env file is fine in containerized deployments
	// where the environment is injected directly.
	_ = godotenv.Load()

	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"),
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		JWTSecret:       must("JWT_SECRET"),
		AccessTokenTTL:  time.Duration(envInt("ACCESS_TOKEN_TTL_HOURS", 168)) * time.Hour,
		RefreshTokenTTL: time.Duration(envInt("REFRESH_TOKEN_TTL_DAYS", 30)) * 24 * time.Hour,
		BcryptCost:      envInt("BCRYPT_COST", 12),
		AMQPURL:         os.Getenv("RABBITMQ_URL"),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// envInt reads an integer variable, falling back to a default when the
// variable is unset or malformed.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}
