package session

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/plplayer/plplayer/log"
)

// ErrLoopStopped is returned by Do once the loop is no longer running.
var ErrLoopStopped = errors.New("session loop stopped")

// DefaultTickPeriod is how often the loop samples the playback position.
const DefaultTickPeriod = 100 * time.Millisecond

// command is a unit of work posted to the loop together with the channel receiving its result.
type command struct {
	fn     func(*Session) error
	result chan error
}

// Loop is the owning execution context of a session for headless playback. Run is the only goroutine
// touching the session; other goroutines go through Do.
type Loop struct {
	session   *Session
	commands  chan command
	tick      time.Duration
	clock     clockwork.Clock
	stopAtEnd bool
	done      chan struct{}
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithTickPeriod sets how often the loop calls Session.Tick.
func WithTickPeriod(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.tick = d
		}
	}
}

// WithLoopClock replaces the clock driving the tick.
func WithLoopClock(clock clockwork.Clock) LoopOption {
	return func(l *Loop) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// StopAtEnd makes Run return once playback halts at the end of the playlist.
func StopAtEnd() LoopOption {
	return func(l *Loop) {
		l.stopAtEnd = true
	}
}

// NewLoop returns a loop for s. Call Run to start it.
func NewLoop(s *Session, opts ...LoopOption) *Loop {
	l := &Loop{
		session:  s,
		commands: make(chan command),
		tick:     DefaultTickPeriod,
		clock:    clockwork.NewRealClock(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run serves commands, end-of-media events and ticks until ctx is done, or with StopAtEnd until
// playback halts. It returns nil when stopping at the end and ctx.Err() otherwise.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	ticker := l.clock.NewTicker(l.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case cmd := <-l.commands:
			cmd.result <- cmd.fn(l.session)

		case ev := <-l.session.Events():
			if l.session.HandleEndOfMedia(ev) {
				log.Debugf("session loop: advanced to track %d", l.session.Index()+1)
			}

		case <-ticker.Chan():
			l.session.Tick()
		}

		if l.stopAtEnd && l.session.Halted() {
			log.Infof("session loop: playlist finished")
			return nil
		}
	}
}

// Do runs fn on the loop goroutine and returns its error.
func (l *Loop) Do(ctx context.Context, fn func(*Session) error) error {
	cmd := command{fn: fn, result: make(chan error, 1)}

	select {
	case l.commands <- cmd:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-cmd.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
