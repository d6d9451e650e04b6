package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the database settings used by integration tests from TEST_* variables.
// Missing variables leave the fields empty so tests can fall back to a local default DSN.
func LoadTestConfig() (*Config, error) {
	// Try loading from project root
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Database.Host = os.Getenv("TEST_DB_HOST")
	if cfg.Database.Host == "" {
		return cfg, nil
	}

	port, err := intFromEnv("TEST_DB_PORT", "3306")
	if err != nil {
		return nil, err
	}
	cfg.Database.Port = port
	cfg.Database.User = os.Getenv("TEST_DB_USER")
	cfg.Database.Password = os.Getenv("TEST_DB_PASSWORD")
	cfg.Database.DBName = os.Getenv("TEST_DB_NAME")

	cfg.APIKey = os.Getenv("TEST_API_KEY")
	cfg.Supabase.JWTSecret = os.Getenv("TEST_SUPABASE_JWT_SECRET")

	return cfg, nil
}
