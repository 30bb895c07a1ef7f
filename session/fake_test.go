package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/plplayer/plplayer/player"
)

// fakeEngine is an in-memory media engine. Tracks listed in failing refuse to open.
type fakeEngine struct {
	mu       sync.Mutex
	mode     player.OutputMode
	failing  map[string]bool
	opened   []string
	current  string
	position float64
	length   float64
	paused   bool
	stopped  bool
	closed   bool
	seeks    []float64
	onEnd    func(locator string)
	pauseErr error
	lengths  int
}

func (f *fakeEngine) Open(locator string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return player.ErrEngineExited
	}
	if f.failing[locator] {
		return fmt.Errorf("cannot decode %s", locator)
	}
	f.opened = append(f.opened, locator)
	f.current = locator
	f.position = 0
	f.paused = false
	f.stopped = false
	return nil
}

func (f *fakeEngine) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = false
	return nil
}

func (f *fakeEngine) Pause() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pauseErr != nil {
		return f.pauseErr
	}
	f.paused = true
	return nil
}

func (f *fakeEngine) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	f.current = ""
	return nil
}

func (f *fakeEngine) Seek(seconds float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seeks = append(f.seeks, seconds)
	f.position = seconds
	return nil
}

func (f *fakeEngine) Position() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == "" {
		return 0, errors.New("property unavailable")
	}
	return f.position, nil
}

func (f *fakeEngine) Length() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lengths++
	if f.current == "" || f.length == 0 {
		return 0, errors.New("property unavailable")
	}
	return f.length, nil
}

func (f *fakeEngine) OnEndOfMedia(callback func(locator string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onEnd = callback
}

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// finish simulates the current track playing to its end, as the engine's own goroutine would.
func (f *fakeEngine) finish() {
	f.mu.Lock()
	callback, locator := f.onEnd, f.current
	f.mu.Unlock()
	callback(locator)
}

// setPosition simulates playback progress.
func (f *fakeEngine) setPosition(seconds float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = seconds
}

// fakeFactory hands out fake engines and remembers them. Modes in broken fail to build,
// engines for modes in unpausable refuse to pause.
type fakeFactory struct {
	engines    []*fakeEngine
	broken     map[player.OutputMode]bool
	unpausable map[player.OutputMode]bool
	failing map[string]bool
	length  float64
}

func newFakeFactory(failing ...string) *fakeFactory {
	f := &fakeFactory{
		broken:     make(map[player.OutputMode]bool),
		unpausable: make(map[player.OutputMode]bool),
		failing:    make(map[string]bool),
		length:     300,
	}
	for _, locator := range failing {
		f.failing[locator] = true
	}
	return f
}

func (f *fakeFactory) build(mode player.OutputMode) (player.Engine, error) {
	if f.broken[mode] {
		return nil, fmt.Errorf("device busy for %s", mode)
	}
	engine := &fakeEngine{mode: mode, failing: f.failing, length: f.length}
	if f.unpausable[mode] {
		engine.pauseErr = errors.New("device refuses pause")
	}
	f.engines = append(f.engines, engine)
	return engine, nil
}

func (f *fakeFactory) last() *fakeEngine {
	return f.engines[len(f.engines)-1]
}
