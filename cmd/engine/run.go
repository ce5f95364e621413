package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-engine/internal/platform/tui"
	"github.com/vovakirdan/tui-engine/internal/registry"
)

var (
	flagSprite string
	flagWidth  int
	flagHeight int
)

var runCmd = &cobra.Command{
	Use:   "run <scene>",
	Short: "Run a scene",
	Long: `Start the render loop for the specified scene.

Controls:
  Space      - Play/pause
  Arrows     - Scene input
  T          - Tilt (spinner)
  Ctrl+S     - Screenshot
  Q/Ctrl+C   - Quit

Resolution defaults to the terminal size (two pixel rows per text row)
unless display.width/height are set in the config or by flags.

Examples:
  engine run spinner
  engine run spinner --sprite ./gopher.png
  engine run orbit --width 120 --height 60
  engine run orbit --fps 30 --config ./engine.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runScene,
}

func init() {
	runCmd.Flags().StringVar(&flagSprite, "sprite", "", "Image for sprite scenes (PNG, JPEG, GIF or BMP)")
	runCmd.Flags().IntVar(&flagWidth, "width", 0, "Frame buffer width in pixels (0 = from config)")
	runCmd.Flags().IntVar(&flagHeight, "height", 0, "Frame buffer height in pixels (0 = from config)")
}

func runScene(_ *cobra.Command, args []string) {
	sceneID := args[0]

	// Check if scene exists
	if !registry.Exists(sceneID) {
		exitErr("unknown scene %q\nRun 'engine list' to see available scenes.", sceneID)
	}

	cfg, err := loadConfig()
	if err != nil {
		exitErr("%v", err)
	}
	if flagSprite != "" {
		cfg.Assets.Sprite = flagSprite
	}
	if flagWidth > 0 {
		cfg.Display.Width = flagWidth
	}
	if flagHeight > 0 {
		cfg.Display.Height = flagHeight
	}

	logger, closeLog, err := fileLogger(cfg)
	if err != nil {
		exitErr("%v", err)
	}
	defer closeLog()

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	width, height := terminalSize()
	if err := tui.Run(sceneID, hostOptions(cfg, store, logger), width, height); err != nil {
		logger.Error("run failed", "scene", sceneID, "error", err)
		exitErr("%v", err)
	}
}
