// engine hosts 2D scenes rendered by a frame-paced loop in the terminal.
//
// Usage:
//
//	engine list              - List available scenes
//	engine run <scene>       - Run a scene
//	engine menu              - Start menu to pick scenes interactively
//	engine serve             - Start SSH server for remote viewing
//	engine stats [scene]     - Show recorded render sessions
//
// Global flags:
//
//	--fps <rate>         - Override the target frame rate
//	--config <path>      - Use a specific engine.yaml
//	--db <path>          - Override the statistics database path
//	--log-level <level>  - Override the log level (debug, info, warn, error)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import scenes to register them
	_ "github.com/vovakirdan/tui-engine/internal/scenes/orbit"
	_ "github.com/vovakirdan/tui-engine/internal/scenes/spinner"
)

var (
	// Global flags
	flagFPS      int
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "engine",
	Short: "TUI Engine - 2D scenes rendered in your terminal",
	Long: `TUI Engine drives 2D scenes with a frame-paced render loop and draws
them in the terminal as true-colour half blocks.

Available commands:
  list     - Show all available scenes
  run      - Run a specific scene directly
  menu     - Interactive scene picker menu
  serve    - Start SSH server for remote viewing
  stats    - View recorded render sessions

Examples:
  engine list
  engine run spinner
  engine run orbit --fps 30
  engine menu
  engine serve --ssh :2222
  engine stats spinner`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags; zero values keep the configured ones
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Target frame rate (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to engine config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to statistics database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
}
