// Package writer coalesces a high-frequency stream of resume snapshots into rate-limited saves.
//
// A single pending slot holds the latest snapshot (last write wins). A soft mark is written once the
// debounce interval has passed since the previous write; a forced mark is written on the next wake.
package writer

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/plplayer/plplayer/log"
)

// Saver persists a snapshot. *history.Store satisfies it.
type Saver interface {
	Save(path string, index int, position float64, finished []string) error
}

// DefaultInterval is the minimum time between two background writes.
const DefaultInterval = 2 * time.Second

// Writer owns the pending snapshot slot and the background loop that drains it.
type Writer struct {
	saver    Saver
	interval time.Duration
	wake     time.Duration
	clock    clockwork.Clock

	// mu guards the slot and its bookkeeping.
	mu         sync.Mutex
	pending    Snapshot
	dirty      bool
	lastWrite  time.Time
	written    Snapshot
	hasWritten bool

	// writeMu spans taking the pending snapshot and saving it, so saves land in mark order.
	writeMu sync.Mutex

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// Option configures a Writer.
type Option func(*Writer)

// WithInterval sets the minimum time between two soft writes.
func WithInterval(d time.Duration) Option {
	return func(w *Writer) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithWake sets how often the background loop checks the slot. It must be shorter than the interval;
// other values fall back to half the interval.
func WithWake(d time.Duration) Option {
	return func(w *Writer) {
		w.wake = d
	}
}

// WithClock replaces the real clock, e.g. with a fake one in tests.
func WithClock(clock clockwork.Clock) Option {
	return func(w *Writer) {
		if clock != nil {
			w.clock = clock
		}
	}
}

// New returns a writer saving through saver. Call Start to run the background loop.
func New(saver Saver, opts ...Option) *Writer {
	w := &Writer{
		saver:    saver,
		interval: DefaultInterval,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.wake <= 0 || w.wake >= w.interval {
		w.wake = w.interval / 2
	}
	w.lastWrite = w.clock.Now()

	return w
}

// Interval returns the debounce interval.
func (w *Writer) Interval() time.Duration {
	return w.interval
}

// Wake returns the background loop period.
func (w *Writer) Wake() time.Duration {
	return w.wake
}

// Mark stores s as the pending snapshot. It becomes eligible for writing once the
// debounce interval has elapsed since the last write.
func (w *Writer) Mark(s Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = s
	w.dirty = true
}

// MarkForced stores s and resets the debounce timer, so the next wake writes it.
func (w *Writer) MarkForced(s Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = s
	w.dirty = true
	w.lastWrite = time.Time{}
}

// Pending returns the current pending snapshot and whether it still needs writing.
func (w *Writer) Pending() (Snapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.pending, w.dirty
}

// Flush writes the pending snapshot, if any, before returning.
func (w *Writer) Flush() error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	snapshot, ok := w.take(false)
	if !ok {
		return nil
	}
	return w.save(snapshot)
}

// Start runs the background loop until ctx is done or Close is called. Further calls are no-ops.
func (w *Writer) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		ctx, w.cancel = context.WithCancel(ctx)
		w.done = make(chan struct{})
		go w.run(ctx)
	})
}

// Close stops the background loop, waits for it to exit and flushes whatever is pending.
func (w *Writer) Close() error {
	w.startOnce.Do(func() {})
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
	return w.Flush()
}

func (w *Writer) run(ctx context.Context) {
	defer close(w.done)

	ticker := w.clock.NewTicker(w.wake)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			w.step()
		}
	}
}

// step is one wake of the background loop. It reports whether a save was attempted.
// Failures are logged and left for the next cycle.
func (w *Writer) step() bool {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	snapshot, ok := w.take(true)
	if !ok {
		return false
	}

	if err := w.save(snapshot); err != nil {
		log.Errorf("writer: save %s: %s", snapshot.Path, err)
	}
	return true
}

// take removes the pending snapshot from the slot. With debounce set it only does so
// once the interval has elapsed since the last write.
func (w *Writer) take(debounce bool) (Snapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.dirty {
		return Snapshot{}, false
	}

	now := w.clock.Now()
	if debounce && now.Sub(w.lastWrite) < w.interval {
		return Snapshot{}, false
	}

	w.dirty = false
	w.lastWrite = now
	return w.pending, true
}

// save persists snapshot unless it equals the last written one. On failure the snapshot is
// put back unless something newer was marked in the meantime.
func (w *Writer) save(snapshot Snapshot) error {
	w.mu.Lock()
	redundant := w.hasWritten && w.written.Equal(snapshot)
	w.mu.Unlock()

	if redundant || snapshot.IsZero() {
		return nil
	}

	log.Debugf("writer: saving %s at track %d, %.1fs", snapshot.Path, snapshot.Index, snapshot.Position)
	err := w.saver.Save(snapshot.Path, snapshot.Index, snapshot.Position, snapshot.Finished)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		if !w.dirty {
			w.pending = snapshot
			w.dirty = true
		}
		return err
	}

	w.written = snapshot
	w.hasWritten = true
	return nil
}
