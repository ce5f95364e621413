package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-engine/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the engine SSH server",
	Long: `Start an SSH server that lets users connect and run scenes.

Each SSH connection gets its own session with a scene picker menu and its
own render loop. Sessions are recorded in the shared statistics database.

The host key is generated on first start when the --host-key file does
not exist yet.

Examples:
  engine serve                           # Listen on :23235 with auto-generated key
  engine serve --ssh :2222               # Listen on port 2222
  engine serve --host-key ./my_host_key  # Use specific host key
  engine serve --db ./engine.db          # Use specific database

Users can connect with:
  ssh localhost -p 23235`,
	Run: runServe,
}

func init() {
	defaults := tui.DefaultSSHServerConfig()
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", defaults.Address, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", defaults.HostKeyPath, "Path to host key file (generated if missing)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", int(defaults.IdleTimeout/time.Minute), "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("%v", err)
	}

	logger := newLogger(os.Stderr, cfg, "engine-ssh")
	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	serverCfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}

	server, err := tui.NewSSHServer(serverCfg, hostOptions(cfg, store, logger))
	if err != nil {
		exitErr("creating server: %v", err)
	}

	fmt.Printf("Starting engine SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx); err != nil {
		exitErr("server: %v", err)
	}
}
