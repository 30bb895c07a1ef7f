// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/plplayer/plplayer/internal/ui"
	"github.com/plplayer/plplayer/session"
)

type (
	tickMsg       time.Time
	endOfMediaMsg session.EndOfMedia
)

// tick schedules the next playback sample.
func (b *statefulBubble) tick() tea.Cmd {
	return tea.Tick(b.tickEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEndOfMedia blocks until the engine reports that a track ended.
// The event is handed back to Update, so the engine never touches the session itself.
func (b *statefulBubble) waitForEndOfMedia() tea.Cmd {
	events := b.session.Events()
	return func() tea.Msg {
		return endOfMediaMsg(<-events)
	}
}

// seekBy moves the playhead relative to the last sampled position.
func (b *statefulBubble) seekBy(delta float64) error {
	target := b.session.Position() + delta
	if length := b.session.Length(); length > 0 && target > length {
		target = length
	}
	return b.session.Seek(target)
}

func (b *statefulBubble) togglePause() error {
	if b.session.Paused() || b.session.Halted() {
		return b.session.Play()
	}
	return b.session.Pause()
}

// cycleOutput switches to the next audio output mode in the rotation.
func (b *statefulBubble) cycleOutput() (tea.Cmd, error) {
	if err := b.session.SetOutput(b.session.Output().Next()); err != nil {
		return nil, err
	}
	return ui.Notify("output: " + b.session.Output().String()), nil
}
