// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultAddr            = ":8080"
	DefaultDBPath          = "./data/groupcal.db"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultTokenDuration   = 24 * time.Hour
)

// Storage backends.
const (
	BackendSQLite    = "sqlite"
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
)

// Config holds everything cmd/server needs to wire the application.
type Config struct {
	Addr               string
	StoreBackend       string
	DBPath             string
	DatabaseURL        string
	FirestoreProjectID string
	NATSURL            string
	JWTSecret          string
	GroupNameCollision string
	StaticPath         string
	ShutdownTimeout    time.Duration
	LogLevel           string
	LogFormat          string
}

// Load reads the configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		Addr:               String("ADDR", DefaultAddr),
		StoreBackend:       strings.ToLower(String("STORE_BACKEND", BackendSQLite)),
		DBPath:             String("DB_PATH", DefaultDBPath),
		DatabaseURL:        String("DATABASE_URL", ""),
		FirestoreProjectID: String("FIRESTORE_PROJECT_ID", ""),
		NATSURL:            String("NATS_URL", ""),
		JWTSecret:          String("JWT_SECRET", ""),
		GroupNameCollision: strings.ToLower(String("GROUP_NAME_COLLISION", "reuse")),
		StaticPath:         String("STATIC_PATH", ""),
		ShutdownTimeout:    Duration("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout),
		LogLevel:           String("LOG_LEVEL", "info"),
		LogFormat:          strings.ToLower(String("LOG_FORMAT", "text")),
	}
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	switch c.StoreBackend {
	case BackendSQLite:
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	case BackendFirestore:
		if c.FirestoreProjectID == "" {
			return errors.New("FIRESTORE_PROJECT_ID is required for the firestore backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.GroupNameCollision {
	case "reuse", "suffix":
	default:
		return fmt.Errorf("unknown GROUP_NAME_COLLISION %q", c.GroupNameCollision)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

func String(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func Int(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func Duration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
