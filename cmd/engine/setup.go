package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-engine/internal/config"
	"github.com/vovakirdan/tui-engine/internal/platform/tui"
	"github.com/vovakirdan/tui-engine/internal/storage"
)

// overrides holds the global flag values that replace configured ones.
type overrides struct {
	fps      int
	dbPath   string
	logLevel string
}

func flagOverrides() overrides {
	return overrides{fps: flagFPS, dbPath: flagDBPath, logLevel: flagLogLevel}
}

// apply copies non-zero flag values into cfg and revalidates it.
func (o overrides) apply(cfg config.EngineConfig) (config.EngineConfig, error) {
	if o.fps != 0 {
		cfg.Timing.FPS = o.fps
	}
	if o.dbPath != "" {
		cfg.Storage.Path = o.dbPath
	}
	if o.logLevel != "" {
		if _, err := log.ParseLevel(o.logLevel); err != nil {
			return cfg, fmt.Errorf("invalid --log-level %q: %w", o.logLevel, err)
		}
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadConfig loads the engine config and applies the global flags.
func loadConfig() (config.EngineConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	return flagOverrides().apply(cfg)
}

// newLogger builds a logger writing to w at the configured level.
func newLogger(w io.Writer, cfg config.EngineConfig, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// fileLogger opens the configured log file so interactive runs keep the
// alternate screen clean. The returned closer is never nil.
func fileLogger(cfg config.EngineConfig) (*log.Logger, func(), error) {
	if cfg.Log.File == "" {
		return log.New(io.Discard), func() {}, nil
	}
	path, err := config.ExpandPath(cfg.Log.File)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return newLogger(f, cfg, "engine"), func() { f.Close() }, nil
}

// openStore opens the statistics database. Failure is logged and yields a
// nil store so scenes still run without recording.
func openStore(cfg config.EngineConfig, logger *log.Logger) *storage.Store {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		logger.Warn("could not open statistics database", "path", cfg.Storage.Path, "error", err)
		return nil
	}
	return store
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}

// hostOptions bundles what the TUI host needs from config, store and logger.
func hostOptions(cfg config.EngineConfig, store *storage.Store, logger *log.Logger) tui.Options {
	return tui.Options{
		Config: cfg,
		Store:  store,
		Logger: logger,
	}
}

func exitErr(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
