package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-engine/internal/config"
)

// shutdownTimeout bounds how long Serve waits for open sessions on exit.
const shutdownTimeout = 10 * time.Second

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Address     string        // host:port, e.g. ":23235"
	HostKeyPath string        // Generated on first start; "" means ~/.tui-engine/host_key
	IdleTimeout time.Duration // Zero disables the idle timeout
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23235",
		HostKeyPath: "~/.tui-engine/host_key",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer serves a scene session to every SSH connection. Each
// connection runs its own render loops; the statistics store is shared.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	opts     Options
	logger   *log.Logger
	sessions atomic.Int32
}

// NewSSHServer creates the server. The store in opts stays owned by the
// caller and must outlive Serve.
func NewSSHServer(cfg SSHServerConfig, opts Options) (*SSHServer, error) {
	if cfg.HostKeyPath == "" {
		cfg.HostKeyPath = DefaultSSHServerConfig().HostKeyPath
	}
	keyPath, err := config.ExpandPath(cfg.HostKeyPath)
	if err != nil {
		return nil, fmt.Errorf("ssh: host key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(keyPath), 0o700); err != nil {
		return nil, fmt.Errorf("ssh: cannot create host key directory: %w", err)
	}

	srv := &SSHServer{
		config: cfg,
		opts:   opts,
		logger: opts.logger(),
	}

	// Middlewares run last to first: terminal check, logging, then the program.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.programFor),
			srv.trackSessions,
			activeterm.Middleware(),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("ssh: cannot create server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// programFor builds the Bubble Tea model of one connection. The model
// renders through a renderer bound to the client's terminal so colours
// match what the client supports.
func (s *SSHServer) programFor(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()

	opts := s.opts
	opts.User = sess.User()
	opts.Renderer = bubbletea.MakeRenderer(sess)
	opts.Logger = s.logger.With("user", opts.User)

	model := NewSessionModel(opts, pty.Window.Width, pty.Window.Height)
	go func() {
		// A dropped connection never delivers a quit key.
		<-sess.Context().Done()
		model.Close()
	}()

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// trackSessions logs connections and keeps the open session count.
func (s *SSHServer) trackSessions(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		open := s.sessions.Add(1)
		s.logger.Info("session opened",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"open", open,
		)

		next(sess)

		open = s.sessions.Add(-1)
		s.logger.Info("session closed",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
			"open", open,
		)
	}
}

// Sessions returns the number of open connections.
func (s *SSHServer) Sessions() int {
	return int(s.sessions.Load())
}

// Serve accepts connections until ctx is done, then shuts down gracefully.
func (s *SSHServer) Serve(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errc := make(chan error, 1)
	go func() {
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("ssh: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "open", s.Sessions())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
