// Package tui provides the Bubble Tea host for the engine. The render loop
// runs on its own goroutine; the host waits for presented frames, forwards
// keys to the held-key bridge and draws the visible surface as half-block
// text, locally or over SSH.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg is sent when the game has presented a new frame.
type FrameMsg struct{}

// waitForFrame returns a command that blocks until the next frame signal.
// A closed channel ends the wait without a message.
func waitForFrame(frames <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-frames; !ok {
			return nil
		}
		return FrameMsg{}
	}
}
