// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment
// variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"HCMS_DB_PATH" envDefault:"./data/hcms.db"`
	ServerHost string `env:"HCMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"HCMS_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"HCMS_ENV" envDefault:"development"`
	LogLevel   string `env:"HCMS_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"HCMS_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"HCMS_CACHE_PREFIX" envDefault:"hcms:"`   // Redis key prefix
	CacheTTL     int    `env:"HCMS_CACHE_TTL" envDefault:"300"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"HCMS_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// API rate limiting
	RateLimitRPS   float64 `env:"HCMS_RATE_LIMIT_RPS" envDefault:"10"`  // Sustained requests per second per client
	RateLimitBurst int     `env:"HCMS_RATE_LIMIT_BURST" envDefault:"30"`

	// Scheduler
	PublisherSpec string `env:"HCMS_PUBLISHER_SPEC" envDefault:"@every 1m"` // Cron spec for the scheduled-entry publisher

	// Seeding configuration
	DoSeed bool `env:"HCMS_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.RateLimitRPS <= 0 {
		return nil, fmt.Errorf("HCMS_RATE_LIMIT_RPS must be positive, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst < 1 {
		return nil, fmt.Errorf("HCMS_RATE_LIMIT_BURST must be at least 1, got %d", cfg.RateLimitBurst)
	}

	return cfg, nil
}
