package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/tui-engine/internal/core"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

// DefaultEngineConfig returns the hardcoded engine configuration.
func DefaultEngineConfig() EngineConfig {
	game := core.DefaultConfig()
	return EngineConfig{
		Display: DisplayConfig{
			Width:      0,
			Height:     0,
			AntiAlias:  game.AntiAlias,
			Background: game.Background,
		},
		Timing: TimingConfig{
			FPS:           game.TargetFPS,
			LockFrameRate: game.LockFrameRate,
			HoldWindowMS:  int(core.DefaultHoldWindow / time.Millisecond),
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.tui-engine/engine.log",
		},
		Storage: StorageConfig{
			Path: "~/.tui-engine/engine.db",
		},
		Assets: AssetsConfig{
			Screenshots: "~/.tui-engine/screenshots",
		},
	}
}
