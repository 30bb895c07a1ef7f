package session

import (
	"github.com/plplayer/plplayer/player"
	"github.com/plplayer/plplayer/playlist"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Index returns the current track index.
func (s *Session) Index() int {
	return s.index
}

// Position returns the last sampled position in seconds. It does not query the engine.
func (s *Session) Position() float64 {
	return s.position
}

// Length returns the last known length of the current track in seconds, 0 while unknown.
func (s *Session) Length() float64 {
	return s.length
}

// Finished returns the sorted finished set.
func (s *Session) Finished() []string {
	finished := lo.Keys(s.finished)
	slices.Sort(finished)
	return finished
}

// IsFinished reports whether locator is in the finished set.
func (s *Session) IsFinished(locator string) bool {
	_, ok := s.finished[locator]
	return ok
}

// Tracks returns a copy of the track list.
func (s *Session) Tracks() []string {
	return slices.Clone(s.handle.Tracks)
}

// Current returns the locator of the current track, or "" without a playlist.
func (s *Session) Current() string {
	return s.current()
}

// Handle returns the loaded playlist.
func (s *Session) Handle() playlist.Handle {
	return s.handle
}

// Output returns the active output mode.
func (s *Session) Output() player.OutputMode {
	return s.output
}

// State reports the lifecycle state of the session.
func (s *Session) State() State {
	return s.state
}

// Halted reports whether playback stopped because the playlist ran out of playable tracks.
func (s *Session) Halted() bool {
	return s.halted
}

// Paused reports whether playback is paused.
func (s *Session) Paused() bool {
	return s.paused
}
