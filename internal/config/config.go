// Package config provides configuration management for the dealflow ingestion
// service. It handles loading configuration from environment variables with
// sensible defaults and validates the configuration so the service starts safely.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - ENVIRONMENT: "development" or "production" (default: development)
//   - LOG_LEVEL: Logging level (default: info)
//
// Inbound Webhook Verification:
//   - INBOUND_PUBLIC_KEY: PEM-encoded public key for webhook signature
//     verification. Optional in development (requests are accepted with a
//     warning); required in production.
//   - SIGNATURE_MAX_AGE_SECONDS: Maximum accepted signature age (default: 300)
//   - SIGNATURE_CLOCK_SKEW_SECONDS: Allowance for sender clocks running ahead
//     (default: 30)
//
// Extraction:
//   - EXTRACTION_DEADLINE_MS: Wall-clock budget for the enrichment step
//     (default: 25000)
//
// Cache:
//   - CACHE_TTL_SECONDS: Default TTL for market data lookups (default: 3600)
//   - CACHE_BACKEND: "redis", "memory", or "auto" (default: auto — redis when
//     REDIS_ADDRESS is set)
//
// Redis Configuration:
//   - REDIS_ADDRESS: Redis server address (empty disables redis)
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 0)
//   - REDIS_POOL_SIZE: Redis connection pool size (default: 10)
//
// Database Configuration:
//   - DATABASE_TYPE: "sqlite", "postgres", or "memory" (default: sqlite)
//   - DATABASE_PATH: SQLite database file path (default: ./dealflow.db)
//   - POSTGRES_HOST/PORT/DB/USER/PASSWORD/SSL_MODE: PostgreSQL settings
//
// Rate Limiting:
//   - RATE_LIMIT_ENABLED: Enable rate limiting (default: true)
//   - RATE_LIMIT_DEFAULT: Requests per window (default: 100)
//   - RATE_LIMIT_WINDOW: Window duration (default: 60s)
//
// Market Data API:
//   - MARKET_API_URL: Base URL of the metered market data API
//   - MARKET_API_KEY: API key for the market data API
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the dealflow service.
type Config struct {
	// Application settings
	Port        string
	Environment string
	LogLevel    string

	// Inbound webhook signature verification
	InboundPublicKey          string
	SignatureMaxAgeSeconds    int
	SignatureClockSkewSeconds int

	// Bounded extraction
	ExtractionDeadlineMS int

	// Coalescing cache
	CacheTTLSeconds int
	CacheBackend    string

	// Redis configuration
	RedisAddress  string
	RedisPassword string
	RedisDB       string
	RedisPoolSize string

	// Database configuration
	DatabaseType     string
	DatabasePath     string
	PostgresHost     string
	PostgresPort     string
	PostgresDB       string
	PostgresUser     string
	PostgresPassword string
	PostgresSSLMode  string

	// Rate limiting
	RateLimitEnabled bool
	RateLimitDefault string
	RateLimitWindow  string

	// Market data API
	MarketAPIURL string
	MarketAPIKey string
}

// Load creates a new Config with values from environment variables, falling
// back to defaults. Call Validate before use.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		InboundPublicKey:          getEnv("INBOUND_PUBLIC_KEY", ""),
		SignatureMaxAgeSeconds:    getIntEnv("SIGNATURE_MAX_AGE_SECONDS", 300),
		SignatureClockSkewSeconds: getIntEnv("SIGNATURE_CLOCK_SKEW_SECONDS", 30),

		ExtractionDeadlineMS: getIntEnv("EXTRACTION_DEADLINE_MS", 25000),

		CacheTTLSeconds: getIntEnv("CACHE_TTL_SECONDS", 3600),
		CacheBackend:    getEnv("CACHE_BACKEND", "auto"),

		RedisAddress:  getEnv("REDIS_ADDRESS", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),
		RedisPoolSize: getEnv("REDIS_POOL_SIZE", "10"),

		DatabaseType:     getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:     getEnv("DATABASE_PATH", "./dealflow.db"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresDB:       getEnv("POSTGRES_DB", "dealflow"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresSSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),

		RateLimitEnabled: getBoolEnv("RATE_LIMIT_ENABLED", true),
		RateLimitDefault: getEnv("RATE_LIMIT_DEFAULT", "100"),
		RateLimitWindow:  getEnv("RATE_LIMIT_WINDOW", "60s"),

		MarketAPIURL: getEnv("MARKET_API_URL", ""),
		MarketAPIKey: getEnv("MARKET_API_KEY", ""),
	}
}

// IsProduction reports whether the service runs with production safety rules.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SignatureMaxAge returns the signature freshness window as a duration.
func (c *Config) SignatureMaxAge() time.Duration {
	return time.Duration(c.SignatureMaxAgeSeconds) * time.Second
}

// SignatureClockSkew returns the forward clock-skew allowance as a duration.
func (c *Config) SignatureClockSkew() time.Duration {
	return time.Duration(c.SignatureClockSkewSeconds) * time.Second
}

// ExtractionDeadline returns the extraction budget as a duration.
func (c *Config) ExtractionDeadline() time.Duration {
	return time.Duration(c.ExtractionDeadlineMS) * time.Millisecond
}

// CacheTTL returns the default cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate checks required fields, value ranges, and cross-field dependencies.
// The application should call this after Load and before starting.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	switch c.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be 'development' or 'production'")
	}

	// Verification must fail closed in production, so the key is mandatory there
	if c.IsProduction() && c.InboundPublicKey == "" {
		return fmt.Errorf("INBOUND_PUBLIC_KEY is required in production")
	}

	if c.SignatureMaxAgeSeconds < 1 {
		return fmt.Errorf("SIGNATURE_MAX_AGE_SECONDS must be a positive number")
	}
	if c.SignatureClockSkewSeconds < 0 {
		return fmt.Errorf("SIGNATURE_CLOCK_SKEW_SECONDS must not be negative")
	}
	if c.ExtractionDeadlineMS < 1 {
		return fmt.Errorf("EXTRACTION_DEADLINE_MS must be a positive number")
	}
	if c.CacheTTLSeconds < 1 {
		return fmt.Errorf("CACHE_TTL_SECONDS must be a positive number")
	}

	switch c.CacheBackend {
	case "auto", "redis", "memory":
	default:
		return fmt.Errorf("CACHE_BACKEND must be 'auto', 'redis', or 'memory'")
	}
	if c.CacheBackend == "redis" && c.RedisAddress == "" {
		return fmt.Errorf("REDIS_ADDRESS is required when CACHE_BACKEND is 'redis'")
	}

	switch c.DatabaseType {
	case "sqlite", "postgres", "postgresql", "memory":
	default:
		return fmt.Errorf("DATABASE_TYPE must be 'sqlite', 'postgres', or 'memory'")
	}

	if c.DatabaseType == "postgres" || c.DatabaseType == "postgresql" {
		if c.PostgresHost == "" {
			return fmt.Errorf("POSTGRES_HOST is required when using PostgreSQL")
		}
		if c.PostgresDB == "" {
			return fmt.Errorf("POSTGRES_DB is required when using PostgreSQL")
		}
		if c.PostgresUser == "" {
			return fmt.Errorf("POSTGRES_USER is required when using PostgreSQL")
		}
		if port, err := strconv.Atoi(c.PostgresPort); err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("POSTGRES_PORT must be a valid port number")
		}
	}

	if c.RedisAddress != "" {
		if db, err := strconv.Atoi(c.RedisDB); err != nil || db < 0 || db > 15 {
			return fmt.Errorf("REDIS_DB must be a number between 0 and 15")
		}
		if poolSize, err := strconv.Atoi(c.RedisPoolSize); err != nil || poolSize < 1 {
			return fmt.Errorf("REDIS_POOL_SIZE must be a positive number")
		}
	}

	if c.RateLimitEnabled {
		if limit, err := strconv.Atoi(c.RateLimitDefault); err != nil || limit < 1 {
			return fmt.Errorf("RATE_LIMIT_DEFAULT must be a positive number")
		}
		if _, err := time.ParseDuration(c.RateLimitWindow); err != nil {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be a valid duration (e.g., '60s', '1m')")
		}
	}

	return nil
}
