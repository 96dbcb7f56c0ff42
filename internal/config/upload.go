package config

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
)

// EnvUploadMaxSize overrides the client-side upload size limit.
const EnvUploadMaxSize = "UPLOAD_MAX_SIZE"

// UploadConfig bounds files accepted by the upload flow before they reach the backend.
type UploadConfig struct {
	MaxUploadSize    string `toml:"max_upload_size"`
	maxUploadSizeVal int64
}

// MaxUploadSizeBytes returns the parsed size limit. It is zero until Finalize succeeds.
func (c *UploadConfig) MaxUploadSizeBytes() int64 {
	return c.maxUploadSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *UploadConfig) Finalize() error {
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "16MB"
	}
	if v := os.Getenv(EnvUploadMaxSize); v != "" {
		c.MaxUploadSize = v
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *UploadConfig) Merge(overlay *UploadConfig) {
	if size, err := units.FromHumanSize(overlay.MaxUploadSize); err == nil {
		c.MaxUploadSize = overlay.MaxUploadSize
		c.maxUploadSizeVal = size
	}
}

func (c *UploadConfig) validate() error {
	size, err := units.FromHumanSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	c.maxUploadSizeVal = size
	return nil
}
