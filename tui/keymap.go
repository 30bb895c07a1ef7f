// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/plplayer/plplayer/color"
	"github.com/plplayer/plplayer/style"
)

// statefulKeymap defines the keyboard interactions available within various application states.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	playPause,
	seekBack, seekForward,
	nudgeBack, nudgeForward,
	next, prev,
	output,
	dismiss,
	showHelp key.Binding
}

// setState updates the active keymap configuration to match the specified application state.
func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp(style.Fg(color.Orange)("space"), style.Fg(color.Orange)("play/pause")),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "-5s"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "+5s"),
		),
		nudgeBack: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("shift+←", "-1s"),
		),
		nudgeForward: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("shift+→", "+1s"),
		),
		next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next track"),
		),
		prev: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "prev track"),
		),
		output: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "output"),
		),
		dismiss: key.NewBinding(
			key.WithKeys("esc", "enter"),
			key.WithHelp("esc", "back"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	switch k.state {
	case playingState:
		return h(k.playPause, k.seekBack, k.seekForward, k.next, k.prev, k.showHelp, k.quit),
			h(k.playPause, k.seekBack, k.seekForward, k.nudgeBack, k.nudgeForward, k.next, k.prev, k.output, k.quit)
	case haltedState:
		return h(k.playPause, k.prev, k.quit), h(k.playPause, k.prev, k.output, k.quit)
	case errorState:
		return h(k.dismiss, k.quit), h(k.dismiss, k.quit)
	default:
		return h(k.quit), h(k.quit)
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}
