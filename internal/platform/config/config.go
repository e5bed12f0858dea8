// Package config builds all runtime configuration from environment variables
// so main stays lean. A local .env file is honored in development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration for the gateway.
type Config struct {
	Addr            string
	PostgresURL     string
	RedisURL        string
	CookieSecure    bool
	SessionTTL      time.Duration
	OCRWorkers      int
	OCRQueueSize    int
	OCRTimeout      time.Duration
	BCryptCost      int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// FromEnv reads configuration from the environment. Defaults suit local
// development; production overrides everything via env.
func FromEnv() Config {
	// Best effort: a missing .env is not an error.
	_ = godotenv.Load()

	return Config{
		Addr:            envString("BHULEKH_ADDR", ":8080"),
		PostgresURL:     envString("BHULEKH_POSTGRES_URL", ""),
		RedisURL:        envString("BHULEKH_REDIS_URL", ""),
		CookieSecure:    envBool("BHULEKH_COOKIE_SECURE", false),
		SessionTTL:      envDuration("BHULEKH_SESSION_TTL", 24*time.Hour),
		OCRWorkers:      envInt("BHULEKH_OCR_WORKERS", 2),
		OCRQueueSize:    envInt("BHULEKH_OCR_QUEUE_SIZE", 64),
		OCRTimeout:      envDuration("BHULEKH_OCR_TIMEOUT", 60*time.Second),
		BCryptCost:      envInt("BHULEKH_BCRYPT_COST", 10),
		RequestTimeout:  envDuration("BHULEKH_REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: envDuration("BHULEKH_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
