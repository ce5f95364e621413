package tui

import (
	"fmt"
	"image"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-engine/internal/config"
	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/game"
	"github.com/vovakirdan/tui-engine/internal/loop"
	"github.com/vovakirdan/tui-engine/internal/registry"
	"github.com/vovakirdan/tui-engine/internal/storage"
)

// chromeRows is the number of text rows below the picture: status and help.
const chromeRows = 2

// Options carries what every hosted scene needs.
type Options struct {
	Config   config.EngineConfig
	Store    *storage.Store     // May be nil; sessions are then not recorded
	Logger   *log.Logger        // May be nil
	User     string             // Recorded with sessions; "local" when empty
	Renderer *lipgloss.Renderer // Per-session renderer over SSH; nil locally
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}

// FitResolution resolves a zero configured width or height from the terminal
// size, leaving room for the status lines.
func FitResolution(cfg config.EngineConfig, cols, rows int) (int, int) {
	w, h := cfg.Display.Width, cfg.Display.Height
	if w == 0 {
		w = max(cols, 1)
	}
	if h == 0 {
		h = max(PixelRows(rows-chromeRows), 2)
	}
	return w, h
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the Bubble Tea model hosting one running scene.
type Model struct {
	sceneID  string
	title    string
	opts     Options
	game     *game.Game
	held     *core.HeldKeys
	recorder *loop.Recorder
	once     *sync.Once // Shared by copies; the session is recorded once
	keys     KeyMap
	help     help.Model

	status     string
	width      int
	height     int
	standalone bool // Back quits the program
	finished   bool
	quitting   bool
	backToMenu bool
}

// NewModel builds the game for sceneID sized to the terminal.
func NewModel(sceneID string, opts Options, cols, rows int) (Model, error) {
	gc := opts.Config.Game()
	gc.Width, gc.Height = FitResolution(opts.Config, cols, rows)

	held := core.NewHeldKeys(opts.Config.HoldWindow())
	hooks, err := registry.Create(sceneID, registry.Env{
		Config: gc,
		Input:  held,
		Sprite: opts.Config.Assets.Sprite,
	})
	if err != nil {
		return Model{}, err
	}

	recorder := loop.NewRecorder()
	g, err := game.New(gc, hooks, game.Options{
		Logger:   opts.logger().With("scene", sceneID),
		Observer: recorder,
	})
	if err != nil {
		return Model{}, err
	}

	h := help.New()
	h.Width = cols

	return Model{
		sceneID:  sceneID,
		title:    registry.Title(sceneID),
		opts:     opts,
		game:     g,
		held:     held,
		recorder: recorder,
		once:     new(sync.Once),
		keys:     DefaultKeyMap(),
		help:     h,
		width:    cols,
		height:   rows,
	}, nil
}

// Game returns the hosted game.
func (m Model) Game() *game.Game {
	return m.game
}

// Init starts the render loop and waits for its first frame.
func (m Model) Init() tea.Cmd {
	m.game.Play()
	return waitForFrame(m.game.Frames())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		if m.finished {
			return m, nil
		}
		return m, waitForFrame(m.game.Frames())

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.finish()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.finish()
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		m.game.Toggle()
		return m, nil

	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	}

	if k, ok := m.keys.HeldKey(msg); ok {
		m.held.Press(k)
	}
	return m, nil
}

// saveScreenshot writes the visible surface as a PNG.
func (m *Model) saveScreenshot() {
	path, err := SaveScreenshot(m.opts.Config.Assets.Screenshots, m.sceneID, m.game.Surface().Snapshot(), time.Now())
	if err != nil {
		m.opts.logger().Warn("screenshot failed", "error", err)
		m.status = "screenshot failed"
		return
	}
	m.opts.logger().Info("screenshot saved", "path", path)
	m.status = "saved " + path
}

// finish stops the loop and records the session once.
func (m *Model) finish() {
	m.finished = true
	m.once.Do(m.record)
}

func (m *Model) record() {
	m.game.Stop()
	m.held.Clear()

	sum := m.recorder.Summary()
	logger := m.opts.logger()
	logger.Info("session finished",
		"scene", m.sceneID,
		"frames", sum.Frames,
		"faults", sum.Faults,
		"avg_fps", fmt.Sprintf("%.1f", sum.AvgFPS()),
	)

	if m.opts.Store == nil || sum.Frames == 0 {
		return
	}
	gc := m.game.Config()
	sess := storage.SessionFromSummary(m.sceneID, m.opts.User, gc.Width, gc.Height, gc.TargetFPS, sum)
	if _, err := m.opts.Store.SaveSession(sess); err != nil {
		logger.Warn("could not save session", "error", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	var b strings.Builder
	m.game.Surface().View(func(img *image.RGBA) {
		b.WriteString(RenderImage(m.opts.Renderer, img))
	})
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) statusLine() string {
	st := m.game.Stats()
	line := fmt.Sprintf(" %s  %5.1f fps  frame %d", st.State, st.FPS(), st.Frames)
	if st.Faults > 0 {
		line += fmt.Sprintf("  faults %d", st.Faults)
	}
	if m.status != "" {
		line += "  " + m.status
	}
	return titleStyle.Render(m.title) + statusStyle.Render(line)
}

// IsQuitting returns true if user requested to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user asked to return to the picker.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program hosting sceneID in the local terminal.
func Run(sceneID string, opts Options, cols, rows int) error {
	model, err := NewModel(sceneID, opts, cols, rows)
	if err != nil {
		return err
	}
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if m, ok := final.(Model); ok {
		// Interrupted programs never saw a quit key.
		m.finish()
	}
	return err
}
