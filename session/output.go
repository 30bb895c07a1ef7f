package session

import (
	"errors"
	"fmt"

	"github.com/plplayer/plplayer/log"
	"github.com/plplayer/plplayer/player"
)

// SetOutput rebuilds the engine for another output mode and restores the current track and position.
// Unknown modes are rejected without touching the session. If the new engine cannot be built, reopen the
// track or restore the paused state, it is released,
// the previous mode is restored and ErrOutputRebuild is returned.
func (s *Session) SetOutput(mode player.OutputMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", player.ErrUnknownOutput, mode)
	}
	if s.state == Closed {
		return ErrClosed
	}
	if mode == s.output && s.engine != nil {
		return nil
	}

	previous := s.output
	position := s.currentPosition()
	paused := s.paused

	s.teardown()

	err := s.rebuild(mode, position, paused)
	if err == nil {
		log.Infof("session: output switched from %s to %s", previous, mode)
		return nil
	}
	log.Errorf("session: output %s failed, rolling back to %s: %s", mode, previous, err)

	if rollbackErr := s.rebuild(previous, position, paused); rollbackErr != nil {
		log.Errorf("session: rollback to %s failed: %s", previous, rollbackErr)
		return errors.Join(fmt.Errorf("%w: %s", ErrOutputRebuild, err), rollbackErr)
	}
	return fmt.Errorf("%w: %s", ErrOutputRebuild, err)
}

// teardown stops and releases the current engine.
func (s *Session) teardown() {
	if s.engine == nil {
		return
	}
	if err := s.engine.Stop(); err != nil {
		log.Debugf("session: stop engine: %s", err)
	}
	if err := s.engine.Close(); err != nil {
		log.Warnf("session: close engine: %s", err)
	}
	s.engine = nil
}

// rebuild builds an engine for mode and reopens the current track at position. On failure no engine
// is left installed.
func (s *Session) rebuild(mode player.OutputMode, position float64, paused bool) error {
	engine, err := s.factory(mode)
	if err != nil {
		return err
	}
	s.install(engine)
	s.output = mode

	if s.state == Empty || s.halted {
		return nil
	}

	index := s.index
	if err := s.open(index, position); err != nil {
		s.teardown()
		return fmt.Errorf("reopen %s: %w", s.handle.Tracks[index], err)
	}
	if paused {
		if err := s.engine.Pause(); err != nil {
			s.teardown()
			return fmt.Errorf("pause %s: %w", s.handle.Tracks[index], err)
		}
		s.paused = true
	}
	return nil
}
