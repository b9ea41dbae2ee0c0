package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds the process configuration read from the environment.
type Config struct {
	HTTPAddr       string
	Storage        string
	DB             DBConfig
	RedisAddr      string
	RedisChannel   string
	CloserSchedule string
	// SeedFile optionally points at a JSON file with collections and auctions to load at startup.
	SeedFile string
}

// DBConfig holds the postgres connection settings.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Load reads an optional .env file and then the environment.
// Variables already set in the environment win over .env entries.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":9000"),
		Storage:        strings.ToLower(getEnv("STORAGE", StorageMemory)),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisChannel:   getEnv("REDIS_CHANNEL", "auction_notifications"),
		CloserSchedule: getEnv("CLOSER_SCHEDULE", "@every 1m"),
		SeedFile:       os.Getenv("SEED_FILE"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
	}

	switch cfg.Storage {
	case StorageMemory, StoragePostgres:
	default:
		return Config{}, fmt.Errorf("config: unknown STORAGE %q, want %q or %q", cfg.Storage, StorageMemory, StoragePostgres)
	}
	if cfg.Storage == StoragePostgres && cfg.DB.Name == "" {
		return Config{}, fmt.Errorf("config: DB_NAME is required when STORAGE=%s", StoragePostgres)
	}
	return cfg, nil
}

// PostgresDSN builds the connection url used by pgx and golang-migrate.
func (c DBConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
