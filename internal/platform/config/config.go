package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration for the admission server.
type Server struct {
	Addr        string
	MetricsAddr string

	// DatabaseURL selects the postgres-backed stores; empty means the
	// in-memory stores (dev and test runs).
	DatabaseURL string

	// RedisURL enables the rate limit middleware; empty disables it.
	RedisURL string

	AuthSigningKey        string
	AntiForgerySigningKey string
	AntiForgeryTTL        time.Duration

	RateLimitWindow time.Duration
	RateLimitMax    int
}

// RedisConfig tunes the shared redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("AFFILIA_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	metricsAddr := os.Getenv("AFFILIA_METRICS_ADDR")
	if metricsAddr == "" {
		metricsAddr = ":9090"
	}

	authKey := os.Getenv("AFFILIA_AUTH_SIGNING_KEY")
	if authKey == "" {
		// Use a default for development - should be overridden in production
		authKey = "dev-secret-key-change-in-production"
	}
	antiForgeryKey := os.Getenv("AFFILIA_ANTIFORGERY_SIGNING_KEY")
	if antiForgeryKey == "" {
		antiForgeryKey = authKey
	}

	return Server{
		Addr:                  addr,
		MetricsAddr:           metricsAddr,
		DatabaseURL:           os.Getenv("AFFILIA_DATABASE_URL"),
		RedisURL:              os.Getenv("AFFILIA_REDIS_URL"),
		AuthSigningKey:        authKey,
		AntiForgerySigningKey: antiForgeryKey,
		AntiForgeryTTL:        durationFromEnv("AFFILIA_ANTIFORGERY_TTL", 12*time.Hour),
		RateLimitWindow:       durationFromEnv("AFFILIA_RATELIMIT_WINDOW", time.Minute),
		RateLimitMax:          intFromEnv("AFFILIA_RATELIMIT_MAX", 120),
	}
}

// Redis derives a RedisConfig with pool defaults from the server config.
func (s Server) Redis() RedisConfig {
	return RedisConfig{
		URL:          s.RedisURL,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}
	return fallback
}

func intFromEnv(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return fallback
}
