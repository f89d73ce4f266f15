package config

import (
	"fmt"
	"os"

	"github.com/skillforge/fitscore/pkg/formatting"
	"github.com/skillforge/fitscore/pkg/middleware"
	"github.com/skillforge/fitscore/pkg/openapi"
	"github.com/skillforge/fitscore/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "FITSCORE_CORS_ENABLED",
	Origins:          "FITSCORE_CORS_ORIGINS",
	AllowedMethods:   "FITSCORE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "FITSCORE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "FITSCORE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "FITSCORE_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "FITSCORE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "FITSCORE_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "FITSCORE_OPENAPI_TITLE",
	Description: "FITSCORE_OPENAPI_DESCRIPTION",
}

// APIConfig holds API routing, body limit, CORS, pagination, and
// OpenAPI settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Pagination  pagination.Config     `toml:"pagination"`
	OpenAPI     openapi.Config        `toml:"openapi"`
}

// MaxBodySizeBytes returns the request body limit as a byte count.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return 10 * 1024 * 1024 // 10MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS, pagination, and OpenAPI configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "10MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("FITSCORE_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("FITSCORE_API_MAX_BODY_SIZE"); v != "" {
		c.MaxBodySize = v
	}
}
