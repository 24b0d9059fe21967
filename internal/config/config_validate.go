// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/pantryrank/internal/logging"
)

const minJWTSecretLength = 32

// Validate checks that required configuration is present and consistent.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateImages(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case DriverDuckDB:
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when DB_DRIVER=duckdb")
		}
		if c.Database.Threads < 1 {
			return fmt.Errorf("DUCKDB_THREADS must be at least 1, got %d", c.Database.Threads)
		}
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverDuckDB, DriverPostgres, c.Database.Driver)
	}

	if c.Database.MergeMaxAttempts < 1 || c.Database.MergeMaxAttempts > 10 {
		return fmt.Errorf("MERGE_MAX_ATTEMPTS must be between 1 and 10, got %d", c.Database.MergeMaxAttempts)
	}
	if c.Database.MergeRetryBackoff < 0 {
		return fmt.Errorf("MERGE_RETRY_BACKOFF must not be negative")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be between 1 and API_MAX_PAGE_SIZE (%d), got %d",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if c.API.TrendingLimit < 1 {
		return fmt.Errorf("TRENDING_LIMIT must be positive, got %d", c.API.TrendingLimit)
	}
	if c.API.TopContributorsLimit < 1 {
		return fmt.Errorf("TOP_CONTRIBUTORS_LIMIT must be positive, got %d", c.API.TopContributorsLimit)
	}
	if c.API.RankingCacheTTL < 0 {
		return fmt.Errorf("RANKING_CACHE_TTL must not be negative")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case AuthModeJWT:
		if len(c.Security.JWTSecret) < minJWTSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d characters when AUTH_MODE=jwt", minJWTSecretLength)
		}
	case AuthModeProxy:
		if strings.TrimSpace(c.Security.ProxyUserHeader) == "" {
			return fmt.Errorf("PROXY_USER_HEADER is required when AUTH_MODE=proxy")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeJWT, AuthModeProxy, c.Security.AuthMode)
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.WriteRateLimitReqs < 1 {
			return fmt.Errorf("WRITE_RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.WriteRateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}

	if c.IsProduction() {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain * when ENVIRONMENT=production")
			}
		}
	}
	return nil
}

func (c *Config) validateImages() error {
	if !c.Images.InMemory && c.Images.Path == "" {
		return fmt.Errorf("IMAGES_PATH is required unless IMAGES_IN_MEMORY=true")
	}
	if c.Images.MaxUploadBytes < 1 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.Images.MaxUploadBytes)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
