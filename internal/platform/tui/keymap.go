package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-engine/internal/core"
)

// KeyMap defines the key bindings of a running scene.
type KeyMap struct {
	Toggle     key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Tilt       key.Binding
	Screenshot key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Left, k.Right, k.Tilt, k.Screenshot, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Toggle, k.Tilt, k.Screenshot},
		{k.Back, k.Quit},
	}
}

// DefaultKeyMap returns the default scene bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "right"),
		),
		Tilt: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tilt"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HeldKey maps a key message to the input code a scene sees. Arrows map to
// the core direction keys and any other single printable key maps to
// itself. Host bindings never reach scenes.
func (k KeyMap) HeldKey(msg tea.KeyMsg) (core.Key, bool) {
	switch {
	case key.Matches(msg, k.Toggle), key.Matches(msg, k.Screenshot),
		key.Matches(msg, k.Back), key.Matches(msg, k.Quit):
		return "", false
	case key.Matches(msg, k.Up):
		return core.KeyUp, true
	case key.Matches(msg, k.Down):
		return core.KeyDown, true
	case key.Matches(msg, k.Left):
		return core.KeyLeft, true
	case key.Matches(msg, k.Right):
		return core.KeyRight, true
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && !msg.Alt {
		return core.Key(msg.String()), true
	}
	return "", false
}

// MenuKeyMap defines the key bindings of the scene picker.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Stats  key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Stats, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultMenuKeyMap returns the default picker bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "run"),
		),
		Stats: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "stats"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
