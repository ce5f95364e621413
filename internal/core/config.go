package core

import (
	"fmt"
	"time"
)

// GameConfig contains the settings the scene and render loop read at
// construction. It is not synchronized; do not mutate it while a loop runs.
type GameConfig struct {
	Width         int    // Frame buffer width in pixels
	Height        int    // Frame buffer height in pixels
	TargetFPS     int    // Target frames per second (default 60)
	AntiAlias     bool   // Smooth interpolation for scaled/rotated blits
	LockFrameRate bool   // Sleep out the remaining frame budget each tick
	Background    string // Colour name or #rrggbb used to clear the visible surface
}

// DefaultConfig returns a GameConfig with sensible defaults.
func DefaultConfig() GameConfig {
	return GameConfig{
		Width:         160,
		Height:        96,
		TargetFPS:     60,
		AntiAlias:     false,
		LockFrameRate: true,
		Background:    "black",
	}
}

// Validate checks the resolution and frame rate.
func (c GameConfig) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("config: negative resolution %dx%d: %w", c.Width, c.Height, ErrInvalidArgument)
	}
	if c.TargetFPS <= 0 {
		return fmt.Errorf("config: target fps must be positive, got %d: %w", c.TargetFPS, ErrInvalidArgument)
	}
	if _, err := ParseColor(c.Background); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// FrameInterval returns the target time budget of one tick (1000/fps ms).
func (c GameConfig) FrameInterval() time.Duration {
	if c.TargetFPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.TargetFPS)
}
