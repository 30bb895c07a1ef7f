// Package tui provides the primary terminal user interface implementation.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the playback heartbeat and begins listening for track ends.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(b.syncState(), b.tick(), b.waitForEndOfMedia())
}
