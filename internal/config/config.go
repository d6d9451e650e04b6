// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	Sources  SourcesConfig
	Cache    CacheConfig
	Supabase SupabaseConfig
	APIKey   string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig holds Redis connection settings.
// An empty Host means the JSON cache is kept in process memory.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// SourcesConfig holds the upstream endpoints resources are aggregated from
type SourcesConfig struct {
	SiteBaseURL  string
	WorkerAPIURL string
	MCIAPIURL    string
	FetchTimeout time.Duration
}

// CacheConfig holds cache lifetimes and sizes
type CacheConfig struct {
	ResourceTTL     time.Duration
	APITTL          time.Duration
	BinaryTTL       time.Duration
	BinaryMaxBytes  int64
	RefreshSchedule string
}

// SupabaseConfig holds the settings needed to verify user sessions and manage accounts
type SupabaseConfig struct {
	URL            string
	JWTSecret      string
	ServiceRoleKey string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Database configuration
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPort, err := intFromEnv("DB_PORT", "")
	if err != nil {
		return nil, err
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	// Server configuration
	serverPort, err := intFromEnv("SERVER_PORT", "8080")
	if err != nil {
		return nil, err
	}
	cfg.Server.Port = serverPort

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	cfg.Logging.Level = logLevel

	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// API Key configuration (optional, protects cache maintenance endpoints)
	cfg.APIKey = os.Getenv("API_KEY")

	// Redis configuration (optional, memory cache is used without it)
	cfg.Redis.Host = os.Getenv("REDIS_HOST")
	redisPort, err := intFromEnv("REDIS_PORT", "6379")
	if err != nil {
		return nil, err
	}
	cfg.Redis.Port = redisPort
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	redisDB, err := intFromEnv("REDIS_DB", "0")
	if err != nil {
		return nil, err
	}
	cfg.Redis.DB = redisDB

	// Upstream sources
	siteBaseURL := os.Getenv("SITE_BASE_URL")
	if siteBaseURL == "" {
		return nil, fmt.Errorf("SITE_BASE_URL is required")
	}
	cfg.Sources.SiteBaseURL = strings.TrimRight(siteBaseURL, "/")
	cfg.Sources.WorkerAPIURL = strings.TrimRight(os.Getenv("WORKER_API_URL"), "/")
	cfg.Sources.MCIAPIURL = os.Getenv("MCI_API_URL")

	fetchTimeout, err := durationFromEnv("FETCH_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	cfg.Sources.FetchTimeout = fetchTimeout

	// Cache configuration
	resourceTTL, err := durationFromEnv("RESOURCE_CACHE_TTL", "6h")
	if err != nil {
		return nil, err
	}
	cfg.Cache.ResourceTTL = resourceTTL

	apiTTL, err := durationFromEnv("API_CACHE_TTL", "1h")
	if err != nil {
		return nil, err
	}
	cfg.Cache.APITTL = apiTTL

	binaryTTL, err := durationFromEnv("BINARY_CACHE_TTL", "1h")
	if err != nil {
		return nil, err
	}
	cfg.Cache.BinaryTTL = binaryTTL

	binaryMaxBytes, err := intFromEnv("BINARY_CACHE_MAX_BYTES", "268435456") // 256MB
	if err != nil {
		return nil, err
	}
	cfg.Cache.BinaryMaxBytes = int64(binaryMaxBytes)

	cfg.Cache.RefreshSchedule = os.Getenv("CACHE_REFRESH_SCHEDULE")

	// Supabase configuration (favorites and account endpoints are disabled without a JWT secret)
	cfg.Supabase.URL = strings.TrimRight(os.Getenv("SUPABASE_URL"), "/")
	cfg.Supabase.JWTSecret = os.Getenv("SUPABASE_JWT_SECRET")
	cfg.Supabase.ServiceRoleKey = firstNonEmpty(
		os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		os.Getenv("SUPABASE_SECRET_KEY"),
	)

	return cfg, nil
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// RedisAddr returns the Redis address, or empty string if Redis is not configured
func (c *Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// intFromEnv parses an integer variable, falling back to def when unset.
// An empty def makes the variable required.
func intFromEnv(key, def string) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		if def == "" {
			return 0, fmt.Errorf("%s is required", key)
		}
		raw = def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func durationFromEnv(key, def string) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		raw = def
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

// parseOrigins parses comma-separated origins, allowing all origins when none are given
func parseOrigins(raw string) []string {
	if raw == "" {
		return []string{"*"}
	}
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
