// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Postgres PostgresConfig `koanf:"postgres"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Images   ImagesConfig   `koanf:"images"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// Supported values for DatabaseConfig.Driver.
const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// DatabaseConfig selects the catalog store and tunes the embedded DuckDB engine.
type DatabaseConfig struct {
	Driver                 string        `koanf:"driver"`
	Path                   string        `koanf:"path"`
	MaxMemory              string        `koanf:"max_memory"`
	Threads                int           `koanf:"threads"`
	PreserveInsertionOrder bool          `koanf:"preserve_insertion_order"`
	MergeMaxAttempts       int           `koanf:"merge_max_attempts"`
	MergeRetryBackoff      time.Duration `koanf:"merge_retry_backoff"`
	CheckpointInterval     time.Duration `koanf:"checkpoint_interval"`
}

// PostgresConfig is used when DatabaseConfig.Driver is postgres.
type PostgresConfig struct {
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// APIConfig holds listing and ranking defaults.
type APIConfig struct {
	DefaultPageSize      int           `koanf:"default_page_size"`
	MaxPageSize          int           `koanf:"max_page_size"`
	TrendingLimit        int           `koanf:"trending_limit"`
	TopContributorsLimit int           `koanf:"top_contributors_limit"`
	RankingCacheTTL      time.Duration `koanf:"ranking_cache_ttl"`
}

// Supported values for SecurityConfig.AuthMode.
const (
	AuthModeJWT   = "jwt"
	AuthModeProxy = "proxy"
)

// SecurityConfig holds authentication, rate limiting, and CORS settings.
type SecurityConfig struct {
	AuthMode           string        `koanf:"auth_mode"`
	JWTSecret          string        `koanf:"jwt_secret"`
	JWTIssuer          string        `koanf:"jwt_issuer"`
	SessionTimeout     time.Duration `koanf:"session_timeout"`
	ProxyUserHeader    string        `koanf:"proxy_user_header"`
	RateLimitReqs      int           `koanf:"rate_limit_reqs"`
	RateLimitWindow    time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled  bool          `koanf:"rate_limit_disabled"`
	WriteRateLimitReqs int           `koanf:"write_rate_limit_reqs"`
	CORSOrigins        []string      `koanf:"cors_origins"`
}

// ImagesConfig holds product image storage settings.
type ImagesConfig struct {
	Path           string        `koanf:"path"`
	InMemory       bool          `koanf:"in_memory"`
	MaxUploadBytes int64         `koanf:"max_upload_bytes"`
	GCInterval     time.Duration `koanf:"gc_interval"`
	PublicBaseURL  string        `koanf:"public_base_url"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, an optional config file, and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
