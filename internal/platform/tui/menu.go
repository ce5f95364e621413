package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-engine/internal/registry"
)

var (
	menuBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 3)
	menuItemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	menuActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuIDStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel picks a registered scene. Number keys jump straight to an entry.
type MenuModel struct {
	items     []registry.SceneInfo
	cursor    int
	width     int
	height    int
	keys      MenuKeyMap
	help      help.Model
	quitting  bool
	selected  *registry.SceneInfo
	openStats bool
}

// NewMenuModel lists the registered scenes.
func NewMenuModel(width, height int) MenuModel {
	h := help.New()
	h.Width = width
	return MenuModel{
		items:  registry.List(),
		width:  width,
		height: height,
		keys:   DefaultMenuKeyMap(),
		help:   h,
	}
}

// Init implements tea.Model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Stats):
		m.openStats = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor = max(min(m.cursor+1, len(m.items)-1), 0)
	case key.Matches(msg, m.keys.Select):
		return m.choose(m.cursor)
	default:
		// 1-9 choose by position.
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 {
			return m.choose(n - 1)
		}
	}
	return m, nil
}

// choose selects item i and ends the menu program.
func (m MenuModel) choose(i int) (tea.Model, tea.Cmd) {
	if i < 0 || i >= len(m.items) {
		return m, nil
	}
	m.cursor = i
	item := m.items[i]
	m.selected = &item
	return m, tea.Quit
}

// View implements tea.Model.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var list strings.Builder
	if len(m.items) == 0 {
		list.WriteString(menuIDStyle.Render("no scenes registered"))
	}
	for i, item := range m.items {
		if i > 0 {
			list.WriteString("\n")
		}
		style, marker := menuItemStyle, "  "
		if i == m.cursor {
			style, marker = menuActiveStyle, "▸ "
		}
		list.WriteString(style.Render(fmt.Sprintf("%s%d  %-12s", marker, i+1, item.Title)))
		list.WriteString(menuIDStyle.Render(item.ID))
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("T U I   E N G I N E"),
		"",
		menuBoxStyle.Render(list.String()),
		"",
		helpStyle.Render(m.help.View(m.keys)),
	)
	if m.width <= 0 || m.height <= 0 {
		return body + "\n"
	}
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, body) + "\n"
}

// Selected returns the chosen scene, or nil.
func (m MenuModel) Selected() *registry.SceneInfo {
	return m.selected
}

// IsQuitting reports whether the user quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsStats reports whether the user asked for the stats screen.
func (m MenuModel) WantsStats() bool {
	return m.openStats
}

// Size returns the last known terminal size.
func (m MenuModel) Size() (int, int) {
	return m.width, m.height
}

// centerText left-pads text to center it within width cells.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
