// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/plplayer/plplayer/session"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Session must already have a playlist loaded. The interface owns it until Run returns.
	Session *session.Session
}

// Run executes the player view until the user quits. The session is closed on the way out.
func Run(options *Options) error {
	if options == nil || options.Session == nil {
		return errors.New("tui: no session")
	}

	bubble := newBubble(options)

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return errors.Join(err, bubble.close())
}
