package session

import (
	"github.com/plplayer/plplayer/log"
)

// open loads the track at index and, for a resume, seeks once the engine knows the track length.
// Every open starts a new generation, which makes end-of-media events for earlier opens stale.
func (s *Session) open(index int, position float64) error {
	s.generation.Add(1)
	s.index = index
	s.position = 0
	s.length = 0
	s.paused = false

	if err := s.engine.Open(s.handle.Tracks[index]); err != nil {
		return err
	}

	if position > 0 {
		s.resumeSeek(position)
	}
	return nil
}

// resumeSeek waits a bounded number of short intervals for the length, then seeks regardless.
func (s *Session) resumeSeek(position float64) {
	for i := 0; i < s.resumeRetries; i++ {
		if length, err := s.engine.Length(); err == nil && length > 0 {
			s.length = length
			break
		}
		s.clock.Sleep(s.resumeDelay)
	}

	if err := s.engine.Seek(position); err != nil {
		log.Warnf("session: resume seek to %.1fs: %s", position, err)
		return
	}
	s.position = position
}

// scanFrom opens the first playable track at or after start. Tracks that fail to open are marked
// finished and skipped. When none remain, playback halts on the current index.
func (s *Session) scanFrom(start int) {
	s.state = Advancing
	defer func() { s.state = Ready }()

	last := s.index
	for i := start; i < len(s.handle.Tracks); i++ {
		if err := s.open(i, 0); err != nil {
			log.Warnf("session: skipping %s: %s", s.handle.Tracks[i], err)
			s.markFinished(s.handle.Tracks[i])
			continue
		}

		s.halted = false
		s.writer.MarkForced(s.snapshot(0))
		s.notify()
		return
	}

	s.index = min(last, len(s.handle.Tracks)-1)
	if err := s.engine.Stop(); err != nil {
		log.Warnf("session: stop at end of playlist: %s", err)
	}
	s.halted = true
	s.position = 0
	s.writer.MarkForced(s.snapshot(0))
	log.Infof("session: reached the end of %s", s.handle.Path)
	s.notify()
}

// NextTrack marks the current track finished and advances to the next playable one.
func (s *Session) NextTrack() error {
	if err := s.usable(); err != nil {
		return err
	}

	s.markFinished(s.current())
	s.scanFrom(s.index + 1)
	return nil
}

// PrevTrack restarts the current track once it has played past the threshold; below it, it moves to
// the previous track. On the first track it always restarts.
func (s *Session) PrevTrack() error {
	if err := s.usable(); err != nil {
		return err
	}

	if s.currentPosition() > s.prevThreshold || s.index == 0 {
		return s.restart()
	}

	s.state = Advancing
	target := s.index - 1
	if err := s.open(target, 0); err != nil {
		log.Warnf("session: previous track %s failed: %s", s.handle.Tracks[target], err)
		s.markFinished(s.handle.Tracks[target])
		s.scanFrom(target + 1)
		return nil
	}

	s.state = Ready
	s.halted = false
	s.writer.MarkForced(s.snapshot(0))
	s.notify()
	return nil
}

// restart plays the current track from the beginning.
func (s *Session) restart() error {
	if s.halted {
		if err := s.open(s.index, 0); err != nil {
			return err
		}
		s.halted = false
	} else {
		if err := s.engine.Seek(0); err != nil {
			return err
		}
		s.position = 0
	}

	s.writer.MarkForced(s.snapshot(0))
	return nil
}

// HandleEndOfMedia advances past the track that ended. It must run on the owning context.
// It reports whether the event was current; stale events are ignored.
func (s *Session) HandleEndOfMedia(ev EndOfMedia) bool {
	if s.state != Ready || s.halted || s.engine == nil {
		return false
	}
	if ev.Generation != s.generation.Load() || ev.Locator != s.current() {
		log.Debugf("session: ignoring stale end of media for %s", ev.Locator)
		return false
	}

	s.markFinished(ev.Locator)
	s.scanFrom(s.index + 1)
	return true
}
