package tui

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-engine/internal/registry"
	"github.com/vovakirdan/tui-engine/internal/storage"
)

const (
	minWidthForSidebar = 90  // narrower terminals get a one-line scene selector
	sidebarWidth       = 20
	maxSessions        = 100 // rows loaded per scene
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	chipStyle   = activeStyle.Background(lipgloss.Color("57")).Padding(0, 1)
)

// sessionOrder is the sort applied to the session table.
type sessionOrder int

const (
	byNewest sessionOrder = iota
	byFPS
)

func (o sessionOrder) String() string {
	if o == byFPS {
		return "avg fps"
	}
	return "newest"
}

// StatsKeyMap defines the key bindings for the stats screen.
type StatsKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PrevScene key.Binding
	NextScene key.Binding
	Sort      key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k StatsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextScene, k.Sort, k.Back}
}

// FullHelp returns keybindings for the expanded help view.
func (k StatsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevScene, k.NextScene},
		{k.Sort, k.Back, k.Quit},
	}
}

// DefaultStatsKeyMap returns the default stats bindings.
func DefaultStatsKeyMap() StatsKeyMap {
	return StatsKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll")),
		PrevScene: key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "prev scene")),
		NextScene: key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/tab", "next scene")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Back:      key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// StatsModel browses recorded render sessions one scene at a time.
type StatsModel struct {
	store    *storage.Store // nil shows an empty screen
	scenes   []registry.SceneInfo
	current  int
	order    sessionOrder
	sessions []storage.Session
	summary  *storage.SceneStats
	table    table.Model
	help     help.Model
	keys     StatsKeyMap
	width    int
	height   int
	quitting bool
	back     bool
}

// NewStatsModel opens on sceneID, or on the first scene when it is not
// registered.
func NewStatsModel(store *storage.Store, sceneID string, width, height int) StatsModel {
	m := StatsModel{
		store:  store,
		scenes: registry.List(),
		help:   help.New(),
		keys:   DefaultStatsKeyMap(),
		width:  width,
		height: height,
	}
	m.current = max(slices.IndexFunc(m.scenes, func(s registry.SceneInfo) bool {
		return s.ID == sceneID
	}), 0)
	m.table = newSessionTable(height)
	m.reload()
	return m
}

func newSessionTable(height int) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Started", Width: 12},
			{Title: "User", Width: 10},
			{Title: "Size", Width: 9},
			{Title: "Frames", Width: 8},
			{Title: "Avg FPS", Width: 8},
			{Title: "Max ms", Width: 7},
			{Title: "Faults", Width: 6},
		}),
		table.WithFocused(true),
		table.WithHeight(max(height-10, 3)), // title, summary, selector and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// sceneID returns the selected scene, or "" when none is registered.
func (m StatsModel) sceneID() string {
	if len(m.scenes) == 0 {
		return ""
	}
	return m.scenes[m.current].ID
}

// reload fetches sessions and the aggregate of the selected scene.
func (m *StatsModel) reload() {
	m.sessions, m.summary = nil, nil
	if id := m.sceneID(); m.store != nil && id != "" {
		if sessions, err := m.store.RecentSessions(id, maxSessions); err == nil {
			m.sessions = sessions
		}
		if summary, err := m.store.GetSceneStats(id); err == nil {
			m.summary = summary
		}
	}
	m.refreshRows()
}

// refreshRows sorts the loaded sessions and rebuilds the table.
func (m *StatsModel) refreshRows() {
	if m.order == byFPS {
		slices.SortStableFunc(m.sessions, func(a, b storage.Session) int {
			return cmp.Compare(b.AvgFPS(), a.AvgFPS())
		})
	} else {
		slices.SortStableFunc(m.sessions, func(a, b storage.Session) int {
			return b.StartedAt.Compare(a.StartedAt)
		})
	}

	rows := make([]table.Row, 0, len(m.sessions))
	for _, s := range m.sessions {
		rows = append(rows, table.Row{
			s.StartedAt.Format("Jan 02 15:04"),
			s.User,
			fmt.Sprintf("%dx%d", s.Width, s.Height),
			strconv.Itoa(s.Frames),
			fmt.Sprintf("%.1f", s.AvgFPS()),
			fmt.Sprintf("%.1f", float64(s.MaxFrame)/float64(time.Millisecond)),
			strconv.Itoa(s.Faults),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// step moves the scene selection by delta, wrapping around.
func (m *StatsModel) step(delta int) {
	if n := len(m.scenes); n > 0 {
		m.current = (m.current + delta + n) % n
		m.reload()
	}
}

// Init implements tea.Model.
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.back = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextScene):
			m.step(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevScene):
			m.step(-1)
			return m, nil
		case key.Matches(msg, m.keys.Sort):
			m.order = (m.order + 1) % 2
			m.refreshRows()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(msg.Height-10, 3))
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m StatsModel) View() string {
	if m.quitting || m.back {
		return ""
	}

	title := "SESSIONS"
	if id := m.sceneID(); id != "" {
		title += " - " + m.scenes[m.current].Title
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.summaryLine(), m.width))
	b.WriteString("\n\n")
	b.WriteString(m.body())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// body lays out the scene selector beside the table on wide terminals and
// above it otherwise.
func (m StatsModel) body() string {
	panel := panelStyle.Render(m.tableView())
	if m.wide() {
		return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar(), "  ", panel)
	}
	return centerText(m.tabs(), m.width) + "\n\n" + panel
}

func (m StatsModel) wide() bool {
	return m.width >= minWidthForSidebar
}

func (m StatsModel) sidebar() string {
	lines := []string{"Scenes", strings.Repeat("─", sidebarWidth-4)}
	for i, s := range m.scenes {
		name := s.Title
		if limit := sidebarWidth - 6; lipgloss.Width(name) > limit {
			name = name[:limit-1] + "…"
		}
		if i == m.current {
			lines = append(lines, activeStyle.Render("▸ "+name))
		} else {
			lines = append(lines, "  "+name)
		}
	}
	lines = append(lines, "", dimStyle.Render("sort: "+m.order.String()))
	return panelStyle.Width(sidebarWidth).Render(strings.Join(lines, "\n"))
}

func (m StatsModel) tabs() string {
	parts := make([]string, 0, len(m.scenes)+1)
	for i, s := range m.scenes {
		if i == m.current {
			parts = append(parts, chipStyle.Render(s.Title))
		} else {
			parts = append(parts, dimStyle.Render(" "+s.Title+" "))
		}
	}
	line := strings.Join(parts, " ")
	if lipgloss.Width(line) > m.width-4 && len(m.scenes) > 0 {
		line = "‹ " + m.scenes[m.current].Title + " ›"
	}
	return line + dimStyle.Render("  sort: "+m.order.String())
}

func (m StatsModel) tableView() string {
	if len(m.sessions) == 0 {
		return dimStyle.Italic(true).Padding(2, 4).
			Render("No sessions recorded yet.\nRun a scene to record one.")
	}
	return m.table.View()
}

// summaryLine describes the aggregate of the selected scene.
func (m StatsModel) summaryLine() string {
	s := m.summary
	if s == nil || s.Sessions == 0 {
		return statusStyle.Render("no sessions")
	}
	fps := 0.0
	if s.AvgFrame > 0 {
		fps = float64(time.Second) / float64(s.AvgFrame)
	}
	return statusStyle.Render(fmt.Sprintf(
		"%d sessions  %d frames  %.1f avg fps  %s played  %d faults",
		s.Sessions, s.TotalFrames, fps, s.PlayTime.Round(time.Second), s.TotalFaults,
	))
}

// Sessions returns the loaded sessions of the selected scene in table order.
func (m StatsModel) Sessions() []storage.Session {
	return m.sessions
}

// IsGoingBack reports whether the user asked to return to the menu.
func (m StatsModel) IsGoingBack() bool {
	return m.back
}

// IsQuitting reports whether the user quit.
func (m StatsModel) IsQuitting() bool {
	return m.quitting
}

// RunStats runs the stats screen on its own. It reports whether the user
// went back rather than quitting.
func RunStats(store *storage.Store, sceneID string, width, height int) (bool, error) {
	final, err := tea.NewProgram(
		NewStatsModel(store, sceneID, width, height),
		tea.WithAltScreen(),
	).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(StatsModel)
	return ok && m.IsGoingBack(), nil
}
