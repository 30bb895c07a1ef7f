// Package session implements the playback session: a state machine that drives a media engine through
// a playlist, resumes where the previous run stopped and feeds resume snapshots to a debounced writer.
//
// A Session is owned by a single execution context (the TUI update loop or a Loop). The engine's
// end-of-media callback never touches session state; it posts an EndOfMedia event on Events, which the
// owning context hands back to HandleEndOfMedia.
package session

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/plplayer/plplayer/history"
	"github.com/plplayer/plplayer/log"
	"github.com/plplayer/plplayer/player"
	"github.com/plplayer/plplayer/playlist"
	"github.com/plplayer/plplayer/writer"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

var (
	ErrClosed        = errors.New("session is closed")
	ErrNoPlaylist    = errors.New("no playlist loaded")
	ErrEmptyPlaylist = errors.New("playlist has no tracks")
	ErrOutputRebuild = errors.New("output rebuild failed")
	ErrNoEngine      = errors.New("no media engine available")
)

// Store is the part of the history store a session reads from.
type Store interface {
	Load(h playlist.Handle) history.Record
	EnsureName(playlistPath, name string) error
}

// Writer is the part of the debounced writer a session feeds.
type Writer interface {
	Mark(s writer.Snapshot)
	MarkForced(s writer.Snapshot)
	Flush() error
}

// EndOfMedia is posted when the engine finished playing a track. Generation identifies the open
// that produced it, so events outliving their track are recognised as stale.
type EndOfMedia struct {
	Locator    string
	Generation uint64
}

const (
	DefaultPrevThreshold = 5.0
	defaultResumeRetries = 10
	defaultResumeDelay   = 50 * time.Millisecond
	eventBuffer          = 4
)

// Session orchestrates the media engine for one playlist at a time.
type Session struct {
	store   Store
	writer  Writer
	factory player.Factory
	clock   clockwork.Clock

	prevThreshold float64
	resumeRetries int
	resumeDelay   time.Duration
	onTrackChange func(index int)

	engine player.Engine
	output player.OutputMode

	state    State
	handle   playlist.Handle
	index    int
	finished map[string]struct{}
	halted   bool
	paused   bool
	position float64
	length   float64

	generation atomic.Uint64
	events     chan EndOfMedia
}

// Option configures a Session.
type Option func(*Session)

// WithOutput selects the initial output mode.
func WithOutput(mode player.OutputMode) Option {
	return func(s *Session) {
		s.output = mode
	}
}

// WithPrevThreshold sets the position in seconds past which PrevTrack restarts the current track.
func WithPrevThreshold(seconds float64) Option {
	return func(s *Session) {
		if seconds >= 0 {
			s.prevThreshold = seconds
		}
	}
}

// WithResumeWait bounds how long a resume seek waits for the engine to know the track length.
func WithResumeWait(retries int, delay time.Duration) Option {
	return func(s *Session) {
		if retries >= 0 {
			s.resumeRetries = retries
		}
		if delay >= 0 {
			s.resumeDelay = delay
		}
	}
}

// WithClock replaces the clock used for resume waits.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// OnTrackChange registers a callback invoked on the owning context whenever the current track changes.
func OnTrackChange(callback func(index int)) Option {
	return func(s *Session) {
		s.onTrackChange = callback
	}
}

// New creates an empty session and builds its engine.
func New(store Store, w Writer, factory player.Factory, opts ...Option) (*Session, error) {
	s := &Session{
		store:         store,
		writer:        w,
		factory:       factory,
		clock:         clockwork.NewRealClock(),
		prevThreshold: DefaultPrevThreshold,
		resumeRetries: defaultResumeRetries,
		resumeDelay:   defaultResumeDelay,
		output:        player.OutputDefault,
		finished:      make(map[string]struct{}),
		events:        make(chan EndOfMedia, eventBuffer),
	}
	for _, opt := range opts {
		opt(s)
	}

	if !s.output.Valid() {
		return nil, fmt.Errorf("%w: %q", player.ErrUnknownOutput, s.output)
	}

	engine, err := factory(s.output)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	s.install(engine)

	return s, nil
}

// install makes engine the session's engine and routes its end-of-media notifications to Events.
func (s *Session) install(engine player.Engine) {
	engine.OnEndOfMedia(s.postEndOfMedia)
	s.engine = engine
}

// postEndOfMedia runs on the engine's goroutine. It must not block or touch session state.
func (s *Session) postEndOfMedia(locator string) {
	ev := EndOfMedia{Locator: locator, Generation: s.generation.Load()}
	select {
	case s.events <- ev:
	default:
		log.Warnf("session: dropping end of media for %s, queue full", locator)
	}
}

// Events delivers end-of-media notifications to the owning context.
func (s *Session) Events() <-chan EndOfMedia {
	return s.events
}

// usable reports why the session cannot take a playback command, if it cannot.
func (s *Session) usable() error {
	switch {
	case s.state == Closed:
		return ErrClosed
	case s.state == Empty:
		return ErrNoPlaylist
	case s.engine == nil:
		return ErrNoEngine
	}
	return nil
}

// LoadPlaylist flushes the previous playlist's state, then resumes h from its history.
func (s *Session) LoadPlaylist(h playlist.Handle) error {
	if s.state == Closed {
		return ErrClosed
	}
	if s.engine == nil {
		return ErrNoEngine
	}

	if s.state != Empty {
		s.writer.MarkForced(s.snapshot(s.currentPosition()))
		if err := s.writer.Flush(); err != nil {
			log.Errorf("session: flush %s before switching: %s", s.handle.Path, err)
		}
	}

	if len(h.Tracks) == 0 {
		if err := s.engine.Stop(); err != nil {
			log.Warnf("session: stop engine: %s", err)
		}
		s.reset()
		return ErrEmptyPlaylist
	}

	record := s.store.Load(h)
	if h.Name != "" {
		if err := s.store.EnsureName(h.Path, h.Name); err != nil {
			log.Warnf("session: store display name for %s: %s", h.Path, err)
		}
	}

	s.handle = playlist.Handle{Path: h.Path, Name: h.Name, Tracks: slices.Clone(h.Tracks)}
	s.index = record.Clamp(len(h.Tracks)).TrackIndex
	s.finished = lo.SliceToMap(record.Finished, func(locator string) (string, struct{}) {
		return locator, struct{}{}
	})
	s.halted = false
	s.state = Advancing

	log.Infof("session: loaded %s, resuming track %d at %.1fs", h.Path, s.index+1, record.Position)

	if err := s.open(s.index, record.Position); err != nil {
		log.Warnf("session: resume track %s failed: %s", s.current(), err)
		s.markFinished(s.current())
		s.scanFrom(s.index + 1)
		return nil
	}

	s.state = Ready
	s.writer.MarkForced(s.snapshot(s.position))
	s.notify()
	return nil
}

// reset returns the session to the empty state, keeping the engine.
func (s *Session) reset() {
	s.state = Empty
	s.handle = playlist.Handle{}
	s.index = 0
	s.finished = make(map[string]struct{})
	s.halted = false
	s.paused = false
	s.position = 0
	s.length = 0
}

// Play resumes playback. When playback halted at the end of the playlist the current track is reopened.
func (s *Session) Play() error {
	if err := s.usable(); err != nil {
		return err
	}

	if s.halted {
		if err := s.open(s.index, 0); err != nil {
			return fmt.Errorf("reopen %s: %w", s.current(), err)
		}
		s.halted = false
		s.writer.MarkForced(s.snapshot(0))
		return nil
	}

	if err := s.engine.Play(); err != nil {
		return err
	}
	s.paused = false
	return nil
}

// Pause suspends playback and marks a forced save point.
func (s *Session) Pause() error {
	if err := s.usable(); err != nil {
		return err
	}

	if err := s.engine.Pause(); err != nil {
		return err
	}
	s.paused = true

	s.writer.MarkForced(s.snapshot(s.currentPosition()))
	return nil
}

// Seek jumps to an absolute position and persists it before returning.
func (s *Session) Seek(seconds float64) error {
	if err := s.usable(); err != nil {
		return err
	}
	if s.halted {
		return nil
	}

	seconds = max(seconds, 0)
	if err := s.engine.Seek(seconds); err != nil {
		return err
	}
	s.position = seconds

	s.writer.MarkForced(s.snapshot(seconds))
	if err := s.writer.Flush(); err != nil {
		log.Errorf("session: persist seek: %s", err)
	}
	return nil
}

// Tick samples the engine position and softly marks a snapshot. Call it on a short fixed period.
func (s *Session) Tick() {
	if s.state != Ready || s.halted || s.engine == nil {
		return
	}

	if pos, err := s.engine.Position(); err == nil {
		s.position = pos
	}
	if length, err := s.engine.Length(); err == nil && length > 0 {
		s.length = length
	}

	s.writer.Mark(s.snapshot(s.position))
}

// Close persists the final position, stops the engine and ends the session. It is idempotent.
func (s *Session) Close() error {
	if s.state == Closed {
		return nil
	}

	var errs []error
	if s.state != Empty {
		s.writer.MarkForced(s.snapshot(s.currentPosition()))
		if err := s.writer.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("flush: %w", err))
		}
	}

	if s.engine != nil {
		if err := s.engine.Stop(); err != nil {
			log.Debugf("session: stop engine: %s", err)
		}
		if err := s.engine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close engine: %w", err))
		}
		s.engine = nil
	}

	s.state = Closed
	log.Infof("session: closed %s", s.handle.Path)
	return errors.Join(errs...)
}

// currentPosition asks the engine for the position, falling back to the last known one.
func (s *Session) currentPosition() float64 {
	if s.engine == nil || s.halted {
		return s.position
	}
	if pos, err := s.engine.Position(); err == nil {
		s.position = pos
	}
	return s.position
}

// snapshot captures the resume state at position.
func (s *Session) snapshot(position float64) writer.Snapshot {
	return writer.NewSnapshot(s.handle.Path, s.index, position, lo.Keys(s.finished))
}

func (s *Session) current() string {
	if s.index < 0 || s.index >= len(s.handle.Tracks) {
		return ""
	}
	return s.handle.Tracks[s.index]
}

func (s *Session) markFinished(locator string) {
	if locator != "" {
		s.finished[locator] = struct{}{}
	}
}

func (s *Session) notify() {
	if s.onTrackChange != nil {
		s.onTrackChange(s.index)
	}
}
