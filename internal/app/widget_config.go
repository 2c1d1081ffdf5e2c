package app

import (
	"fmt"
	"time"
)

const (
	defaultWidgetWidth  = 300
	defaultWidgetHeight = 100

	maxWidgetDimension = 4096
)

// WidgetConfig describes one overlay widget session.
type WidgetConfig struct {
	// PlayerName is the player to track, by nickname or UUID. Required.
	PlayerName string

	// Reference is the instant statistics are counted from. Nil means the
	// session counts from the moment it successfully initializes.
	Reference *time.Time

	// Width and Height are the widget canvas dimensions in pixels.
	// Zero values take the defaults (300x100).
	Width  int
	Height int
}

// Validate checks the config and fills in defaulted dimensions.
func (c *WidgetConfig) Validate() error {
	if c.PlayerName == "" {
		return fmt.Errorf("player name is required")
	}

	if c.Width == 0 {
		c.Width = defaultWidgetWidth
	}
	if c.Height == 0 {
		c.Height = defaultWidgetHeight
	}

	if c.Width < 0 || c.Width > maxWidgetDimension {
		return fmt.Errorf("width must be between 1 and %d", maxWidgetDimension)
	}
	if c.Height < 0 || c.Height > maxWidgetDimension {
		return fmt.Errorf("height must be between 1 and %d", maxWidgetDimension)
	}

	return nil
}
