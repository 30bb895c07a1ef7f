package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestLoop(t *testing.T) {
	Convey("Given a loop owning a loaded session", t, func() {
		defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

		f := newFixture()
		So(f.session.LoadPlaylist(mix), ShouldBeNil)

		clock := clockwork.NewFakeClock()
		loop := NewLoop(f.session, WithLoopClock(clock), WithTickPeriod(100*time.Millisecond), StopAtEnd())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		result := make(chan error, 1)
		go func() { result <- loop.Run(ctx) }()

		Convey("Commands run on the loop and return their result", func() {
			var index int
			So(loop.Do(ctx, func(s *Session) error {
				index = s.Index()
				return nil
			}), ShouldBeNil)
			So(index, ShouldEqual, 0)

			boom := errors.New("boom")
			So(loop.Do(ctx, func(*Session) error { return boom }), ShouldEqual, boom)

			cancel()
			So(errors.Is(<-result, context.Canceled), ShouldBeTrue)

			Convey("And Do fails once the loop stopped", func() {
				err := loop.Do(context.Background(), func(*Session) error { return nil })
				So(errors.Is(err, ErrLoopStopped), ShouldBeTrue)
			})
		})

		// poll queries the session through the loop until check holds or two seconds pass.
		poll := func(check func(s *Session) bool) bool {
			deadline := time.Now().Add(2 * time.Second)
			for {
				var ok bool
				if err := loop.Do(ctx, func(s *Session) error { ok = check(s); return nil }); err != nil {
					return false
				}
				if ok || time.Now().After(deadline) {
					return ok
				}
				time.Sleep(time.Millisecond)
			}
		}

		Convey("Ticks sample the session", func() {
			So(clock.BlockUntilContext(ctx, 1), ShouldBeNil)
			f.engine().setPosition(8)
			clock.Advance(100 * time.Millisecond)

			So(poll(func(s *Session) bool { return s.Position() == 8 }), ShouldBeTrue)

			cancel()
			<-result
		})

		Convey("End of media advances and the loop stops after the last track", func() {
			f.engine().finish()
			So(poll(func(s *Session) bool { return s.Index() == 1 }), ShouldBeTrue)

			f.engine().finish()
			So(poll(func(s *Session) bool { return s.Index() == 2 }), ShouldBeTrue)

			f.engine().finish()
			select {
			case err := <-result:
				So(err, ShouldBeNil)
			case <-ctx.Done():
				So(ctx.Err(), ShouldBeNil)
			}
			So(f.session.Halted(), ShouldBeTrue)
			So(f.session.Finished(), ShouldResemble, []string{"/a.flac", "/b.flac", "/c.flac"})
		})
	})
}
