package server

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by [ConfigFromEnv].
const (
	EnvAddr      = "G6VIZ_ADDR"
	EnvRedisURL  = "G6VIZ_REDIS_URL"
	EnvMongoURI  = "G6VIZ_MONGO_URI"
	EnvMongoDB   = "G6VIZ_MONGO_DB"
	EnvRateLimit = "G6VIZ_RATE_LIMIT"
	EnvCacheDir  = "G6VIZ_CACHE_DIR"
)

// Defaults for the HTTP service.
const (
	DefaultAddr           = ":8080"
	DefaultRateLimit      = 10.0
	DefaultBurst          = 20
	DefaultRequestTimeout = 30 * time.Second
	DefaultShutdownGrace  = 10 * time.Second
	DefaultMaxBodyBytes   = 2 << 20
)

// Config configures the HTTP service.
type Config struct {
	// Addr is the listen address.
	Addr string

	// RedisURL selects the Redis cache. Empty falls back to CacheDir.
	RedisURL string

	// CacheDir selects a file cache when RedisURL is empty. Empty disables caching.
	CacheDir string

	// MongoURI selects the Mongo archive. Empty keeps an in-memory archive.
	MongoURI string
	MongoDB  string

	// RateLimit is the sustained per-client request rate. Zero disables limiting.
	RateLimit float64
	Burst     int

	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// DefaultConfig returns a config with every field at its default.
func DefaultConfig() Config {
	return Config{
		Addr:           DefaultAddr,
		RateLimit:      DefaultRateLimit,
		Burst:          DefaultBurst,
		RequestTimeout: DefaultRequestTimeout,
		MaxBodyBytes:   DefaultMaxBodyBytes,
	}
}

// ConfigFromEnv loads a .env file if present, then overlays environment
// variables on [DefaultConfig]. Flags are expected to override the result.
func ConfigFromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	cfg.RedisURL = os.Getenv(EnvRedisURL)
	cfg.MongoURI = os.Getenv(EnvMongoURI)
	cfg.MongoDB = os.Getenv(EnvMongoDB)
	cfg.CacheDir = os.Getenv(EnvCacheDir)
	if v := os.Getenv(EnvRateLimit); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvRateLimit, err)
		}
		cfg.RateLimit = rps
	}
	return cfg, cfg.Validate()
}

// Validate checks the config for values the server cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("listen address is required")
	case c.RateLimit < 0:
		return fmt.Errorf("rate limit must not be negative, got %g", c.RateLimit)
	case c.RateLimit > 0 && c.Burst < 1:
		return fmt.Errorf("burst must be at least 1 when rate limiting, got %d", c.Burst)
	}
	return nil
}
