package writer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

type call struct {
	path     string
	index    int
	position float64
	finished []string
}

// recordingSaver remembers every save and can be told to fail.
type recordingSaver struct {
	mu    sync.Mutex
	calls []call
	err   error
	saved chan call
}

func newRecordingSaver() *recordingSaver {
	return &recordingSaver{saved: make(chan call, 64)}
}

func (r *recordingSaver) Save(path string, index int, position float64, finished []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	c := call{path: path, index: index, position: position, finished: finished}
	r.calls = append(r.calls, c)
	r.saved <- c
	return nil
}

func (r *recordingSaver) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *recordingSaver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *recordingSaver) last() call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[len(r.calls)-1]
}

func snap(position float64) Snapshot {
	return NewSnapshot("/music/mix.m3u8", 1, position, []string{"/a.flac"})
}

func TestSnapshot(t *testing.T) {
	Convey("Snapshots compare by value", t, func() {
		a := NewSnapshot("/p", 1, 2.5, []string{"/b", "/a", "/a"})
		b := NewSnapshot("/p", 1, 2.5, []string{"/a", "/b"})

		So(a.Finished, ShouldResemble, []string{"/a", "/b"})
		So(a.Equal(b), ShouldBeTrue)
		So(a.Equal(NewSnapshot("/p", 1, 2.6, []string{"/a", "/b"})), ShouldBeFalse)
		So(a.Equal(NewSnapshot("/p", 2, 2.5, []string{"/a", "/b"})), ShouldBeFalse)
		So(a.Equal(NewSnapshot("/q", 1, 2.5, []string{"/a", "/b"})), ShouldBeFalse)
		So(a.Equal(NewSnapshot("/p", 1, 2.5, []string{"/a"})), ShouldBeFalse)
		So(NewSnapshot("/p", 0, 0, nil).Equal(NewSnapshot("/p", 0, 0, []string{})), ShouldBeTrue)
	})

	Convey("NewSnapshot copies its input", t, func() {
		finished := []string{"/b", "/a"}
		s := NewSnapshot("/p", 0, 0, finished)
		finished[0] = "/z"
		So(s.Finished, ShouldResemble, []string{"/a", "/b"})
	})
}

func TestDefaults(t *testing.T) {
	Convey("The wake period defaults to half the interval", t, func() {
		w := New(newRecordingSaver(), WithInterval(4*time.Second))
		So(w.Interval(), ShouldEqual, 4*time.Second)
		So(w.Wake(), ShouldEqual, 2*time.Second)

		w = New(newRecordingSaver(), WithInterval(time.Second), WithWake(5*time.Second))
		So(w.Wake(), ShouldEqual, 500*time.Millisecond)

		w = New(newRecordingSaver(), WithInterval(time.Second), WithWake(100*time.Millisecond))
		So(w.Wake(), ShouldEqual, 100*time.Millisecond)
	})
}

func TestDebounce(t *testing.T) {
	Convey("Given a writer on a fake clock", t, func() {
		clock := clockwork.NewFakeClock()
		saver := newRecordingSaver()
		w := New(saver, WithInterval(2*time.Second), WithClock(clock))

		Convey("Soft marks wait for the interval", func() {
			w.Mark(snap(1))
			clock.Advance(time.Second)
			So(w.step(), ShouldBeFalse)
			So(saver.count(), ShouldEqual, 0)

			clock.Advance(time.Second)
			So(w.step(), ShouldBeTrue)
			So(saver.count(), ShouldEqual, 1)
		})

		Convey("N soft marks within one interval yield exactly one write of the latest", func() {
			for i := 1; i <= 10; i++ {
				w.Mark(snap(float64(i)))
				clock.Advance(100 * time.Millisecond)
				w.step()
			}
			clock.Advance(2 * time.Second)
			w.step()
			w.step()

			So(saver.count(), ShouldEqual, 1)
			So(saver.last().position, ShouldEqual, 10.0)
		})

		Convey("A forced mark is written on the next wake regardless of elapsed time", func() {
			w.Mark(snap(1))
			clock.Advance(2 * time.Second)
			So(w.step(), ShouldBeTrue)
			So(saver.count(), ShouldEqual, 1)

			w.MarkForced(snap(2))
			So(w.step(), ShouldBeTrue)
			So(saver.count(), ShouldEqual, 2)
			So(saver.last().position, ShouldEqual, 2.0)

			Convey("And soft marks after it wait a full interval again", func() {
				w.Mark(snap(3))
				clock.Advance(time.Second)
				So(w.step(), ShouldBeFalse)
				So(saver.count(), ShouldEqual, 2)
			})
		})

		Convey("Pending always reflects the latest mark", func() {
			w.Mark(snap(1))
			w.Mark(snap(2))
			pending, dirty := w.Pending()
			So(dirty, ShouldBeTrue)
			So(pending.Position, ShouldEqual, 2.0)
		})

		Convey("A snapshot equal to the last written one does not touch disk", func() {
			w.MarkForced(snap(5))
			w.step()
			So(saver.count(), ShouldEqual, 1)

			w.MarkForced(snap(5))
			So(w.step(), ShouldBeTrue)
			So(saver.count(), ShouldEqual, 1)

			_, dirty := w.Pending()
			So(dirty, ShouldBeFalse)
		})

		Convey("A failed save is retried on the next cycle", func() {
			saver.fail(errors.New("disk full"))
			w.MarkForced(snap(7))
			So(w.step(), ShouldBeTrue)
			So(saver.count(), ShouldEqual, 0)

			pending, dirty := w.Pending()
			So(dirty, ShouldBeTrue)
			So(pending.Position, ShouldEqual, 7.0)

			saver.fail(nil)
			clock.Advance(2 * time.Second)
			So(w.step(), ShouldBeTrue)
			So(saver.count(), ShouldEqual, 1)
			So(saver.last().position, ShouldEqual, 7.0)
		})

		Convey("A failed save does not clobber a newer mark", func() {
			saver.fail(errors.New("disk full"))
			w.MarkForced(snap(7))
			w.step()
			w.Mark(snap(8))
			saver.fail(nil)

			So(w.Flush(), ShouldBeNil)
			So(saver.last().position, ShouldEqual, 8.0)
		})
	})
}

func TestFlush(t *testing.T) {
	Convey("Given a writer", t, func() {
		clock := clockwork.NewFakeClock()
		saver := newRecordingSaver()
		w := New(saver, WithClock(clock))

		Convey("Flush with nothing pending performs no write", func() {
			So(w.Flush(), ShouldBeNil)
			So(saver.count(), ShouldEqual, 0)
		})

		Convey("Flush writes a soft mark immediately", func() {
			w.Mark(snap(3))
			So(w.Flush(), ShouldBeNil)
			So(saver.count(), ShouldEqual, 1)

			_, dirty := w.Pending()
			So(dirty, ShouldBeFalse)
		})

		Convey("Flush reports save failures and keeps the snapshot", func() {
			saver.fail(errors.New("read-only filesystem"))
			w.Mark(snap(3))
			So(w.Flush(), ShouldNotBeNil)

			_, dirty := w.Pending()
			So(dirty, ShouldBeTrue)
		})

		Convey("Flush passes the snapshot fields through", func() {
			w.Mark(NewSnapshot("/lists/x.m3u", 4, 12.5, []string{"/b", "/a"}))
			So(w.Flush(), ShouldBeNil)
			So(saver.last(), ShouldResemble, call{path: "/lists/x.m3u", index: 4, position: 12.5, finished: []string{"/a", "/b"}})
		})
	})
}

func TestLoop(t *testing.T) {
	Convey("Given a started writer", t, func() {
		defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

		clock := clockwork.NewFakeClock()
		saver := newRecordingSaver()
		w := New(saver, WithInterval(2*time.Second), WithClock(clock))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		w.Start(ctx)
		w.Start(ctx)
		So(clock.BlockUntilContext(ctx, 1), ShouldBeNil)

		Convey("A forced mark is written on the next tick", func() {
			w.MarkForced(snap(9))
			clock.Advance(w.Wake())

			select {
			case c := <-saver.saved:
				So(c.position, ShouldEqual, 9.0)
			case <-ctx.Done():
				So(ctx.Err(), ShouldBeNil)
			}

			So(w.Close(), ShouldBeNil)
		})

		Convey("Close flushes what the loop has not written", func() {
			w.Mark(snap(4))
			So(w.Close(), ShouldBeNil)
			So(saver.count(), ShouldEqual, 1)
			So(saver.last().position, ShouldEqual, 4.0)

			Convey("And a second Close is harmless", func() {
				So(w.Close(), ShouldBeNil)
				So(saver.count(), ShouldEqual, 1)
			})
		})
	})

	Convey("Close without Start only flushes", t, func() {
		saver := newRecordingSaver()
		w := New(saver)
		w.Mark(snap(1))
		So(w.Close(), ShouldBeNil)
		So(saver.count(), ShouldEqual, 1)
	})
}
