package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/studydeck/internal/logger"
)

type Config struct {
	Addr              string
	DBPath            string
	LogLevel          string
	Timezone          string
	ImportWorkerCount int
	ImportQueueSize   int
	MaxImportRows     int
	SessionLimit      int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:studydeck.db"),
		LogLevel:          strings.ToUpper(envOr("LOG_LEVEL", "INFO")),
		Timezone:          envOr("TIMEZONE", "UTC"),
		ImportWorkerCount: envIntOr("IMPORT_WORKER_COUNT", 2),
		ImportQueueSize:   envIntOr("IMPORT_QUEUE_SIZE", 16),
		MaxImportRows:     envIntOr("MAX_IMPORT_ROWS", 500),
		SessionLimit:      envIntOr("SESSION_LIMIT", 0),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if _, ok := logger.LookupLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil || c.Timezone == "" {
		errs = append(errs, fmt.Errorf("TIMEZONE %q is not a known IANA zone", c.Timezone))
	}
	if c.ImportWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("IMPORT_WORKER_COUNT must be at least 1, got %d", c.ImportWorkerCount))
	}
	if c.ImportQueueSize < 1 {
		errs = append(errs, fmt.Errorf("IMPORT_QUEUE_SIZE must be at least 1, got %d", c.ImportQueueSize))
	}
	if c.MaxImportRows < 1 {
		errs = append(errs, fmt.Errorf("MAX_IMPORT_ROWS must be at least 1, got %d", c.MaxImportRows))
	}
	if c.SessionLimit < 0 {
		errs = append(errs, fmt.Errorf("SESSION_LIMIT cannot be negative, got %d", c.SessionLimit))
	}

	return errors.Join(errs...)
}

// Location resolves Timezone, falling back to UTC. Call Validate first to
// surface a bad value.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
