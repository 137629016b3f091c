package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIKeyHeader is the request header carrying the shared API config key.
const DefaultAPIKeyHeader = "x-thats-my-college-api-config-key"

var (
	ErrMissingJWTSecret = errors.New("JWT_SECRET environment variable is not set")
	ErrMissingAPIKey    = errors.New("API_CONFIG_KEY environment variable is not set")
)

// LoadENV loads variables from .env unless GO_ENV says we are running in production
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	return nil
}

// Config is the process configuration. It is read once at startup and handed
// to every constructor that needs it.
type Config struct {
	GoEnv    string
	Port     int
	LogLevel string

	// Database
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUserName  string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// JWT
	JWTSecret string
	JWTIssuer string
	JWTExpiry time.Duration

	// API key gate
	APIKey       string
	APIKeyHeader string

	// Callback requests
	CallbackRequestLimit       int
	CallbackRequestExpiryHours int

	// Infrastructure
	RedisURL       string
	KafkaBrokers   []string
	KafkaTopic     string
	AllowedOrigins string
	CronEnabled    bool

	// Per-IP request limiter; zero disables it
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Seed
	SuperAdminEmail    string
	SuperAdminPassword string
}

// IsProduction reports whether GO_ENV is production
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// CallbackRequestTTL is how long a callback request counts against the limit
func (c *Config) CallbackRequestTTL() time.Duration {
	return time.Duration(c.CallbackRequestExpiryHours) * time.Hour
}

// DSN builds the Postgres connection string, preferring DATABASE_URL
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	sslMode := c.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost,
		c.DBUserName,
		c.DBPassword,
		c.DBName,
		c.DBPort,
		sslMode,
	)
}

// Get reads the environment into a Config and checks required keys
func Get() (*Config, error) {
	cfg := &Config{
		GoEnv:    os.Getenv("GO_ENV"),
		Port:     intEnv("PORT", 4000),
		LogLevel: stringEnv("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      stringEnv("DB_HOST", "localhost"),
		DBPort:      stringEnv("DB_PORT", "5432"),
		DBUserName:  os.Getenv("DB_USER_NAME"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),
		DBSSLMode:   os.Getenv("DB_SSL_MODE"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTIssuer: stringEnv("JWT_ISSUER", "thats-my-college-api"),
		JWTExpiry: durationEnv("JWT_EXPIRY", 24*time.Hour),

		APIKey:       os.Getenv("API_CONFIG_KEY"),
		APIKeyHeader: stringEnv("API_CONFIG_KEY_HEADER", DefaultAPIKeyHeader),

		CallbackRequestLimit:       intEnv("CALLBACK_REQUEST_LIMIT", 3),
		CallbackRequestExpiryHours: intEnv("CALLBACK_REQUEST_EXPIRY_HOURS", 24),

		RedisURL:       os.Getenv("REDIS_URL"),
		KafkaBrokers:   listEnv("KAFKA_BROKERS"),
		KafkaTopic:     stringEnv("KAFKA_TOPIC", "college-events"),
		AllowedOrigins: stringEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001"),
		CronEnabled:    os.Getenv("CRON_ENABLED") != "false",

		RateLimitRequests: intEnv("RATE_LIMIT_REQUESTS", 120),
		RateLimitWindow:   durationEnv("RATE_LIMIT_WINDOW", time.Minute),

		SuperAdminEmail:    os.Getenv("SUPER_ADMIN_EMAIL"),
		SuperAdminPassword: os.Getenv("SUPER_ADMIN_PASSWORD"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the keys the server cannot start without
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.CallbackRequestLimit < 1 {
		return fmt.Errorf("CALLBACK_REQUEST_LIMIT must be positive, got %d", c.CallbackRequestLimit)
	}
	if c.CallbackRequestExpiryHours < 1 {
		return fmt.Errorf("CALLBACK_REQUEST_EXPIRY_HOURS must be positive, got %d", c.CallbackRequestExpiryHours)
	}
	return nil
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func listEnv(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
