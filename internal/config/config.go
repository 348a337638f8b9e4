// Package config centralizes the tunables of the bargaining marketplace.
// Values come from the environment (loaded from .env in cmd/main.go) with
// sane defaults for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultMaxDiscount is the deepest discount a buyer may ask for,
	// as a fraction of the listed price.
	DefaultMaxDiscount = 0.05
	// DefaultMaxTurns is how many messages each participant may contribute
	// to one session.
	DefaultMaxTurns = 2
	// DefaultSessionTTL is how long a session stays open before it expires.
	DefaultSessionTTL = 24 * time.Hour

	// TokenTTL is the lifetime of issued JWTs.
	TokenTTL = 72 * time.Hour
	// TokenIssuer is the iss claim on issued JWTs.
	TokenIssuer = "bargainhub-service"
)

// Config holds everything cmd/main.go needs to wire the service together.
type Config struct {
	Port      string
	JWTSecret string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisAddr     string
	RedisPassword string

	TelegramBotToken string

	MaxDiscount float64
	MaxTurns    int
	SessionTTL  time.Duration
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Port:      envOr("PORT", "8080"),
		JWTSecret: envOr("JWT_SECRET", "dev-secret-change-me"),

		DBHost:     envOr("DB_HOST", "localhost"),
		DBUser:     envOr("DB_USER", "user"),
		DBPassword: envOr("DB_PASSWORD", "password"),
		DBName:     envOr("DB_NAME", "bargainhubdb"),
		DBPort:     envOr("DB_PORT", "5432"),

		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		MaxDiscount: envFloatOr("BARGAIN_MAX_DISCOUNT", DefaultMaxDiscount),
		MaxTurns:    envIntOr("BARGAIN_MAX_TURNS", DefaultMaxTurns),
		SessionTTL:  time.Duration(envIntOr("BARGAIN_SESSION_TTL_HOURS", int(DefaultSessionTTL/time.Hour))) * time.Hour,
	}
}

// DSN builds the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
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

func envFloatOr(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
