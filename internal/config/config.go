package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config contains runtime configuration required by the service.
type Config struct {
	Storage string
	DBURL   string

	// IngestToken is the shared secret for POST /data/outcome.
	// Empty disables the check.
	IngestToken string

	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	LogLevel    string
	Development bool
}

// Load reads values from environment variables.
// DATABASE_URL (or DB_URL) is required unless STORAGE=memory.
func Load() (Config, error) {
	cfg := Config{
		Storage:         strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		DBURL:           getEnv("DATABASE_URL", getEnv("DB_URL", "")),
		IngestToken:     getEnv("DASH_TOKEN", ""),
		Port:            getEnv("PORT", "8080"),
		ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Development:     strings.EqualFold(getEnv("ENV", ""), "development"),
	}

	switch cfg.Storage {
	case StoragePostgres:
		if cfg.DBURL == "" {
			return Config{}, errors.New("DATABASE_URL required")
		}
	case StorageMemory:
	default:
		return Config{}, fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, cfg.Storage)
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
