package config

import (
	"fmt"
	"os"
	"strconv"
)

// EnvViewDescriptionWidth overrides the card description truncation width.
const EnvViewDescriptionWidth = "VIEW_DESCRIPTION_WIDTH"

// ViewConfig tunes library rendering.
type ViewConfig struct {
	// DescriptionWidth is the display width, in terminal cells, at which
	// card descriptions are truncated.
	DescriptionWidth int `toml:"description_width"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *ViewConfig) Finalize() error {
	if c.DescriptionWidth == 0 {
		c.DescriptionWidth = 140
	}
	if v := os.Getenv(EnvViewDescriptionWidth); v != "" {
		if w, err := strconv.Atoi(v); err == nil {
			c.DescriptionWidth = w
		}
	}
	if c.DescriptionWidth < 8 {
		return fmt.Errorf("description_width must be at least 8")
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *ViewConfig) Merge(overlay *ViewConfig) {
	if overlay.DescriptionWidth != 0 {
		c.DescriptionWidth = overlay.DescriptionWidth
	}
}
