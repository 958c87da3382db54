package config

import (
	"fmt"
	"os"

	"github.com/atelier-studio/provenance/pkg/formatting"
	"github.com/atelier-studio/provenance/pkg/middleware"
	"github.com/atelier-studio/provenance/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "PROVENANCE_CORS_ENABLED",
	Origins:          "PROVENANCE_CORS_ORIGINS",
	AllowedMethods:   "PROVENANCE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "PROVENANCE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "PROVENANCE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "PROVENANCE_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "PROVENANCE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "PROVENANCE_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, upload limit, CORS, and pagination settings.
// MaxUploadSize caps the whole multipart request; MaxPhotoSize caps each
// individual photo during intake screening.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	MaxPhotoSize  string                `toml:"max_photo_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
}

func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 50 * 1024 * 1024 // 50MB fallback
	}
	return size
}

func (c *APIConfig) MaxPhotoSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxPhotoSize)
	if err != nil {
		return 10 * 1024 * 1024 // 10MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

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
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.MaxPhotoSize != "" {
		c.MaxPhotoSize = overlay.MaxPhotoSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
	if c.MaxPhotoSize == "" {
		c.MaxPhotoSize = "10MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("PROVENANCE_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("PROVENANCE_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
	if v := os.Getenv("PROVENANCE_API_MAX_PHOTO_SIZE"); v != "" {
		c.MaxPhotoSize = v
	}
}
