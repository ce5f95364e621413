// Package config provides YAML-based engine configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vovakirdan/tui-engine/internal/core"
)

// EngineConfig contains all configuration for the engine binary.
type EngineConfig struct {
	Display DisplayConfig `yaml:"display"`
	Timing  TimingConfig  `yaml:"timing"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Assets  AssetsConfig  `yaml:"assets"`
}

// DisplayConfig defines the frame buffer and visible surface.
type DisplayConfig struct {
	Width      int    `yaml:"width"`  // 0 fits the host
	Height     int    `yaml:"height"` // 0 fits the host
	AntiAlias  bool   `yaml:"anti_alias"`
	Background string `yaml:"background"`
}

// TimingConfig defines render loop pacing and input timing.
type TimingConfig struct {
	FPS           int  `yaml:"fps"`
	LockFrameRate bool `yaml:"lock_frame_rate"`
	HoldWindowMS  int  `yaml:"hold_window_ms"`
}

// LogConfig defines log level and destination.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// StorageConfig defines the statistics database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// AssetsConfig defines optional image assets and output directories.
type AssetsConfig struct {
	Sprite      string `yaml:"sprite"`
	Screenshots string `yaml:"screenshots"`
}

// Game returns the core configuration for a game.
func (c EngineConfig) Game() core.GameConfig {
	return core.GameConfig{
		Width:         c.Display.Width,
		Height:        c.Display.Height,
		TargetFPS:     c.Timing.FPS,
		AntiAlias:     c.Display.AntiAlias,
		LockFrameRate: c.Timing.LockFrameRate,
		Background:    c.Display.Background,
	}
}

// HoldWindow returns how long a key counts as held after a press.
func (c EngineConfig) HoldWindow() time.Duration {
	return time.Duration(c.Timing.HoldWindowMS) * time.Millisecond
}

// Validate checks the values a game is built from. A zero resolution is
// allowed and means the host picks one.
func (c EngineConfig) Validate() error {
	if err := c.Game().Validate(); err != nil {
		return err
	}
	if c.Timing.HoldWindowMS < 0 {
		return fmt.Errorf("config: negative hold window %dms: %w", c.Timing.HoldWindowMS, core.ErrInvalidArgument)
	}
	return nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
