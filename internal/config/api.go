package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/stepwise/pkg/middleware"
	"github.com/JaimeStill/stepwise/pkg/pagination"
)

const defaultMaxBodySize = 10 * 1024 * 1024

var corsEnv = &middleware.CORSEnv{
	Enabled:          "STEPWISE_CORS_ENABLED",
	Origins:          "STEPWISE_CORS_ORIGINS",
	AllowedMethods:   "STEPWISE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "STEPWISE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "STEPWISE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "STEPWISE_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "STEPWISE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "STEPWISE_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, request limits, CORS, and pagination settings.
// Routes are served under BasePath followed by VersionPath, e.g. /api/v1.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	VersionPath string                `toml:"version_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Pagination  pagination.Config     `toml:"pagination"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := parseByteSize(c.MaxBodySize)
	if err != nil {
		return defaultMaxBodySize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.VersionPath != "" {
		c.VersionPath = overlay.VersionPath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.VersionPath == "" {
		c.VersionPath = "/v1"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "10MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("STEPWISE_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("STEPWISE_API_VERSION_PATH"); v != "" {
		c.VersionPath = v
	}
	if v := os.Getenv("STEPWISE_API_MAX_BODY_SIZE"); v != "" {
		c.MaxBodySize = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.VersionPath, "/") {
		return fmt.Errorf("version_path must start with /: %s", c.VersionPath)
	}
	if _, err := parseByteSize(c.MaxBodySize); err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	return nil
}
