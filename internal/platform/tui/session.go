package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenMenu screen = iota
	screenScene
	screenStats
)

// SessionModel manages the full session flow: menu -> scene -> menu, with
// the stats screen one key away. It is the top-level model for SSH sessions
// and the local menu command.
type SessionModel struct {
	opts     Options
	width    int
	height   int
	screen   screen
	menu     MenuModel
	scene    *Model
	stats    StatsModel
	active   *activeScene
	lastID   string
	status   string
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts Options, width, height int) SessionModel {
	return SessionModel{
		opts:   opts,
		width:  width,
		height: height,
		menu:   NewMenuModel(width, height),
		active: &activeScene{},
	}
}

// activeScene tracks the running scene across model copies so a dropped
// connection can still stop it.
type activeScene struct {
	mu    sync.Mutex
	scene *Model
}

func (a *activeScene) set(scene *Model) {
	a.mu.Lock()
	a.scene = scene
	a.mu.Unlock()
}

func (a *activeScene) close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.scene != nil {
		a.scene.finish()
		a.scene = nil
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenScene:
		return m.updateScene(msg)
	case screenStats:
		return m.updateStats(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsStats() {
		m.screen = screenStats
		m.stats = NewStatsModel(m.opts.Store, m.lastID, m.width, m.height)
		m.menu = NewMenuModel(m.width, m.height)
		return m, m.stats.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		scene, err := NewModel(selected.ID, m.opts, m.width, m.height)
		if err != nil {
			m.opts.logger().Warn("could not start scene", "scene", selected.ID, "error", err)
			m.menu = NewMenuModel(m.width, m.height)
			m.status = err.Error()
			return m, nil
		}
		m.scene = &scene
		m.active.set(m.scene)
		m.lastID = selected.ID
		m.status = ""
		m.screen = screenScene
		return m, m.scene.Init()
	}

	return m, cmd
}

// updateScene handles updates while a scene runs.
func (m SessionModel) updateScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scene.Update(msg)
	if sceneModel, ok := newModel.(Model); ok {
		m.scene = &sceneModel
	}

	if m.scene.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.scene.BackToMenu() {
		m.active.set(nil)
		m.scene = nil
		m.screen = screenMenu
		m.menu = NewMenuModel(m.width, m.height)
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateStats handles updates on the stats screen.
func (m SessionModel) updateStats(msg tea.Msg) (tea.Model, tea.Cmd) {
	newStats, cmd := m.stats.Update(msg)
	if statsModel, ok := newStats.(StatsModel); ok {
		m.stats = statsModel
	}

	if m.stats.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.stats.IsGoingBack() {
		m.screen = screenMenu
		m.menu = NewMenuModel(m.width, m.height)
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenScene:
		return m.scene.View()
	case screenStats:
		return m.stats.View()
	}

	view := m.menu.View()
	if m.status != "" {
		view += centerText(statusStyle.Render(m.status), m.width) + "\n"
	}
	return view
}

// Close stops a scene left running, recording its session. It is safe to
// call from another goroutine and more than once.
func (m SessionModel) Close() {
	m.active.close()
}

// RunSession runs the full session flow in the local terminal.
func RunSession(opts Options, width, height int) error {
	p := tea.NewProgram(
		NewSessionModel(opts, width, height),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if m, ok := final.(SessionModel); ok {
		m.Close()
	}
	return err
}
