// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/plplayer/plplayer/log"
	"github.com/plplayer/plplayer/session"
	"github.com/samber/lo"
)

const (
	seekStep  = 5.0
	nudgeStep = 1.0
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	notice := b.notifier.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)

	case tickMsg:
		if b.closed {
			return b, nil
		}
		b.session.Tick()
		return b, tea.Batch(notice, b.syncState(), b.tick())

	case endOfMediaMsg:
		if b.closed {
			return b, nil
		}
		if b.session.HandleEndOfMedia(session.EndOfMedia(msg)) {
			log.Debugf("tui: advanced to track %d", b.session.Index()+1)
		}
		return b, tea.Batch(notice, b.syncState(), b.waitForEndOfMedia())

	case tea.KeyMsg:
		return b, b.handleKey(msg)
	}

	return b, notice
}

func (b *statefulBubble) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, b.keymap.forceQuit), key.Matches(msg, b.keymap.quit):
		if err := b.close(); err != nil {
			log.Error(err)
		}
		return tea.Quit
	case key.Matches(msg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
		return nil
	}

	if b.state == errorState {
		if key.Matches(msg, b.keymap.dismiss) {
			b.lastError = nil
			b.setState(lo.Ternary(b.session.Halted(), haltedState, playingState))
		}
		return nil
	}

	var (
		cmd tea.Cmd
		err error
	)
	switch {
	case key.Matches(msg, b.keymap.playPause):
		err = b.togglePause()
	case key.Matches(msg, b.keymap.nudgeBack):
		err = b.seekBy(-nudgeStep)
	case key.Matches(msg, b.keymap.nudgeForward):
		err = b.seekBy(nudgeStep)
	case key.Matches(msg, b.keymap.seekBack):
		err = b.seekBy(-seekStep)
	case key.Matches(msg, b.keymap.seekForward):
		err = b.seekBy(seekStep)
	case key.Matches(msg, b.keymap.next):
		err = b.session.NextTrack()
	case key.Matches(msg, b.keymap.prev):
		err = b.session.PrevTrack()
	case key.Matches(msg, b.keymap.output):
		cmd, err = b.cycleOutput()
	default:
		return nil
	}

	if err != nil {
		log.Warn(err)
		b.raiseError(err)
		return nil
	}

	return tea.Batch(cmd, b.syncState())
}
