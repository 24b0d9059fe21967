// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/pantryrank/config.yaml",
	"/etc/pantryrank/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvFile is loaded into the environment if it exists.
var DotEnvFile = ".env"

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:                 DriverDuckDB,
			Path:                   "/data/pantryrank.duckdb",
			MaxMemory:              "1GB",
			Threads:                runtime.NumCPU(),
			PreserveInsertionOrder: true,
			MergeMaxAttempts:       3,
			MergeRetryBackoff:      time.Millisecond,
			CheckpointInterval:     5 * time.Minute,
		},
		Postgres: PostgresConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Hour,
		},
		Server: ServerConfig{
			Port:        3857,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		API: APIConfig{
			DefaultPageSize:      100,
			MaxPageSize:          1000,
			TrendingLimit:        20,
			TopContributorsLimit: 10,
			RankingCacheTTL:      30 * time.Second,
		},
		Security: SecurityConfig{
			AuthMode:           AuthModeJWT,
			JWTIssuer:          "pantryrank",
			SessionTimeout:     24 * time.Hour,
			ProxyUserHeader:    "X-Forwarded-User",
			RateLimitReqs:      100,
			RateLimitWindow:    time.Minute,
			WriteRateLimitReqs: 20,
			CORSOrigins:        []string{},
		},
		Images: ImagesConfig{
			Path:           "/data/images",
			MaxUploadBytes: 5 << 20,
			GCInterval:     10 * time.Minute,
			PublicBaseURL:  "/api/v1/images",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf builds a Config from all layers and validates it.
func LoadWithKoanf() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// Layer 1: struct defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadDotEnv never overrides variables already present in the environment.
func loadDotEnv() error {
	if DotEnvFile == "" {
		return nil
	}
	err := godotenv.Load(DotEnvFile)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as a single string
// from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	// Database
	"db_driver":                       "database.driver",
	"duckdb_path":                     "database.path",
	"duckdb_max_memory":               "database.max_memory",
	"duckdb_threads":                  "database.threads",
	"duckdb_preserve_insertion_order": "database.preserve_insertion_order",
	"merge_max_attempts":              "database.merge_max_attempts",
	"merge_retry_backoff":             "database.merge_retry_backoff",
	"duckdb_checkpoint_interval":      "database.checkpoint_interval",

	// Postgres
	"postgres_dsn":               "postgres.dsn",
	"postgres_max_open_conns":    "postgres.max_open_conns",
	"postgres_max_idle_conns":    "postgres.max_idle_conns",
	"postgres_conn_max_lifetime": "postgres.conn_max_lifetime",

	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// API
	"api_default_page_size":  "api.default_page_size",
	"api_max_page_size":      "api.max_page_size",
	"trending_limit":         "api.trending_limit",
	"top_contributors_limit": "api.top_contributors_limit",
	"ranking_cache_ttl":      "api.ranking_cache_ttl",

	// Security
	"auth_mode":                 "security.auth_mode",
	"jwt_secret":                "security.jwt_secret",
	"jwt_issuer":                "security.jwt_issuer",
	"session_timeout":           "security.session_timeout",
	"proxy_user_header":         "security.proxy_user_header",
	"rate_limit_requests":       "security.rate_limit_reqs",
	"rate_limit_window":         "security.rate_limit_window",
	"disable_rate_limit":        "security.rate_limit_disabled",
	"write_rate_limit_requests": "security.write_rate_limit_reqs",
	"cors_origins":              "security.cors_origins",

	// Images
	"images_path":        "images.path",
	"images_in_memory":   "images.in_memory",
	"max_upload_bytes":   "images.max_upload_bytes",
	"images_gc_interval": "images.gc_interval",
	"public_base_url":    "images.public_base_url",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable to its koanf path.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
