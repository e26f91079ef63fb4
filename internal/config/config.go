package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/resumelang/internal/parser"
)

type Config struct {
	Port string

	// Documents served by /api/documents and used to resolve @import.
	RootDir string

	// Auth. Empty disables the API key check.
	APIKey string

	// Request limits
	MaxSourceBytes int64

	// Parser
	MaxImportDepth int
	ParseMode      string

	ShutdownTimeout time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		RootDir: envOr("RESUME_ROOT_DIR", "."),

		APIKey: os.Getenv("RESUMELANG_API_KEY"),

		MaxSourceBytes: envInt64("MAX_SOURCE_BYTES", 1048576), // 1MB

		MaxImportDepth: envInt("MAX_IMPORT_DEPTH", parser.DefaultMaxImportDepth),
		ParseMode:      envOr("PARSE_MODE", "strict"),

		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.MaxSourceBytes <= 0 {
		cfg.MaxSourceBytes = 1048576
	}
	if cfg.MaxImportDepth <= 0 {
		cfg.MaxImportDepth = parser.DefaultMaxImportDepth
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if _, err := parser.ParseMode(c.ParseMode); err != nil {
		return fmt.Errorf("PARSE_MODE: %w", err)
	}
	info, err := os.Stat(c.RootDir)
	if err != nil {
		return fmt.Errorf("RESUME_ROOT_DIR: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("RESUME_ROOT_DIR %s is not a directory", c.RootDir)
	}
	return nil
}

// Mode returns the configured parse mode. Call Validate first.
func (c Config) Mode() parser.Mode {
	m, _ := parser.ParseMode(c.ParseMode)
	return m
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
