// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/plplayer/plplayer/config"
	"github.com/plplayer/plplayer/internal/ui"
	"github.com/plplayer/plplayer/session"
	"github.com/plplayer/plplayer/style"
	"github.com/plplayer/plplayer/util"
)

// statefulBubble is the player view. It is the owning context of the session:
// every session call happens inside Update.
type statefulBubble struct {
	state     state
	keymap    *statefulKeymap
	session   *session.Session
	tickEvery time.Duration

	progressC progress.Model
	helpC     help.Model
	notifier  *ui.Model

	lastError error
	closed    bool

	width, height int
}

// raiseError shows err until the user dismisses it. Playback continues underneath.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.setState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// syncState follows the session between the playing and halted views.
// It announces the end of the playlist when playback has just halted.
func (b *statefulBubble) syncState() tea.Cmd {
	if b.state == errorState {
		return nil
	}

	if !b.session.Halted() {
		b.setState(playingState)
		return nil
	}

	if b.state == haltedState {
		return nil
	}
	b.setState(haltedState)
	return ui.Notify(b.session.Handle().String() + " finished")
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y
	b.progressC.Width = util.Max(b.width-lipglossWidthOfTimes, 10)
	b.helpC.Width = b.width
}

// close ends the session once. It is safe to call after the program exits.
func (b *statefulBubble) close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	return b.session.Close()
}

func newBubble(options *Options) *statefulBubble {
	bubble := statefulBubble{
		keymap:    newStatefulKeymap(),
		session:   options.Session,
		tickEvery: config.TickPeriod(),
		notifier:  &ui.Model{},
	}

	bubble.helpC = help.New()
	bubble.progressC = progress.New(
		progress.WithSolidFill(string(style.AccentColor)),
		progress.WithoutPercentage(),
	)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return &bubble
}
