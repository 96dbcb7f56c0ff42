package storage

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
)

// Config contains local file storage configuration.
type Config struct {
	// BasePath is the root directory for downloaded documents.
	// Default: ".data/downloads"
	BasePath       string `toml:"base_path"`
	MaxFileSize    string `toml:"max_file_size"`
	maxFileSizeVal int64
}

// Env maps environment variable names for storage configuration.
type Env struct {
	BasePath    string
	MaxFileSize string
}

// MaxFileSizeBytes returns the parsed file size limit. It is zero until Finalize succeeds.
func (c *Config) MaxFileSizeBytes() int64 {
	return c.maxFileSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}

	if size, err := units.FromHumanSize(overlay.MaxFileSize); err == nil {
		c.MaxFileSize = overlay.MaxFileSize
		c.maxFileSizeVal = size
	}
}

func (c *Config) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = ".data/downloads"
	}
	if c.MaxFileSize == "" {
		c.MaxFileSize = "256MB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BasePath != "" {
		if v := os.Getenv(env.BasePath); v != "" {
			c.BasePath = v
		}
	}
	if env.MaxFileSize != "" {
		if v := os.Getenv(env.MaxFileSize); v != "" {
			c.MaxFileSize = v
		}
	}
}

func (c *Config) validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path required")
	}

	size, err := units.FromHumanSize(c.MaxFileSize)
	if err != nil {
		return fmt.Errorf("invalid max_file_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_file_size must be positive")
	}
	c.maxFileSizeVal = size

	return nil
}
