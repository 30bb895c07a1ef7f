// Package player defines the media engine abstraction driven by a playback session,
// with the primary implementation targeting 'mpv' via its JSON-IPC interface.
package player

import "errors"

var (
	// ErrUnknownOutput is returned for output modes that have no engine configuration.
	ErrUnknownOutput = errors.New("unknown output mode")

	// ErrEngineExited is returned when the engine process went away underneath a command.
	ErrEngineExited = errors.New("media engine exited")
)

// Engine encapsulates the capabilities a playback session needs from a media backend.
type Engine interface {
	// Open loads the locator and starts playing it. It fails if the media cannot be loaded.
	Open(locator string) error

	// Play resumes playback of the loaded media.
	Play() error

	// Pause suspends playback of the loaded media.
	Pause() error

	// Stop halts playback and unloads the media.
	Stop() error

	// Seek moves playback to an absolute position in seconds.
	Seek(seconds float64) error

	// Position returns the current playback position in seconds.
	Position() (float64, error)

	// Length returns the duration of the loaded media in seconds, or an error while it is unknown.
	Length() (float64, error)

	// OnEndOfMedia registers the callback invoked when the loaded media plays to its end or fails
	// mid-playback. It runs on the engine's own event goroutine.
	OnEndOfMedia(callback func(locator string))

	// Close terminates the engine and releases its resources.
	Close() error
}

// Factory builds an engine configured for an output mode.
type Factory func(mode OutputMode) (Engine, error)

// NewMPVFactory returns a factory launching the given mpv binary.
func NewMPVFactory(binary string) Factory {
	return func(mode OutputMode) (Engine, error) {
		return NewMPV(binary, mode)
	}
}
