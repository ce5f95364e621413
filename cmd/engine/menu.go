package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-engine/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive scene picker",
	Long: `Launch an interactive menu to pick and run scenes.

Navigation:
  Up/Down or j/k  - Move selection
  Enter           - Run the selected scene
  Tab             - Recorded sessions
  Esc/B           - Back to the menu from a scene
  Q/Ctrl+C        - Quit`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("%v", err)
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
	if err := tui.RunSession(hostOptions(cfg, store, logger), width, height); err != nil {
		exitErr("%v", err)
	}
}
