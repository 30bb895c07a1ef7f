package sweep

import (
	"testing"
	"time"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestStale(t *testing.T) {
	Convey("Given a temp directory with engine sockets", t, func() {
		fs := afero.NewMemMapFs()
		now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

		touch := func(path string, age time.Duration) {
			lo.Must0(afero.WriteFile(fs, path, nil, 0o600))
			lo.Must0(fs.Chtimes(path, now.Add(-age), now.Add(-age)))
		}

		touch("/tmp/plplayer/old.sock", time.Hour)
		touch("/tmp/plplayer/live.sock", time.Hour)
		touch("/tmp/plplayer/young.sock", time.Second)
		touch("/tmp/plplayer/notes.txt", time.Hour)

		original := alive
		alive = func(path string) bool { return path == "/tmp/plplayer/live.sock" }
		Reset(func() { alive = original })

		Convey("Only old sockets without a listener are removed", func() {
			So(Stale(fs, "/tmp/plplayer", now), ShouldEqual, 1)

			exists := func(path string) bool { return lo.Must(afero.Exists(fs, path)) }
			So(exists("/tmp/plplayer/old.sock"), ShouldBeFalse)
			So(exists("/tmp/plplayer/live.sock"), ShouldBeTrue)
			So(exists("/tmp/plplayer/young.sock"), ShouldBeTrue)
			So(exists("/tmp/plplayer/notes.txt"), ShouldBeTrue)
		})

		Convey("A missing directory is fine", func() {
			So(Stale(fs, "/nowhere", now), ShouldEqual, 0)
		})
	})
}
