package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	// Storage
	StorageBackend string
	PostgresDSN    string

	// Cache
	CacheEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Telegram, empty token disables notifications
	TelegramToken string

	// Matching
	MatchTTL      time.Duration
	SweepInterval time.Duration

	// Logging
	LogLevel string
}

func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		StorageBackend: BackendMemory,
		RedisAddr:      "localhost:6379",
		RedisDB:        0,
		CacheTTL:       10 * time.Minute,
		MatchTTL:       72 * time.Hour,
		SweepInterval:  5 * time.Minute,
		LogLevel:       "info",
	}

	if backend := os.Getenv("STORAGE_BACKEND"); backend != "" {
		cfg.StorageBackend = backend
	}

	cfg.PostgresDSN = os.Getenv("POSTGRES_DSN")
	if cfg.StorageBackend == BackendPostgres && cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required for the postgres backend")
	}

	if enabled := os.Getenv("CACHE_ENABLED"); enabled != "" {
		b, err := strconv.ParseBool(enabled)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_ENABLED: %w", err)
		}
		cfg.CacheEnabled = b
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.RedisAddr = addr
	}

	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		db, err := strconv.Atoi(redisDB)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	if ttl := os.Getenv("CACHE_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = d
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")

	if ttl := os.Getenv("MATCH_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid MATCH_TTL: %w", err)
		}
		cfg.MatchTTL = d
	}

	if interval := os.Getenv("SWEEP_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return nil, fmt.Errorf("invalid SWEEP_INTERVAL: %w", err)
		}
		cfg.SweepInterval = d
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres DSN is empty")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", c.StorageBackend)
	}

	if c.CacheEnabled && c.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive: %v", c.CacheTTL)
	}

	if c.MatchTTL <= 0 {
		return fmt.Errorf("match TTL must be positive: %v", c.MatchTTL)
	}

	if c.SweepInterval < time.Second {
		return fmt.Errorf("sweep interval too small: %v", c.SweepInterval)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}
