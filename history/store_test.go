package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/plplayer/plplayer/playlist"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

// failingRenameFs behaves like its embedded filesystem but can never rename.
type failingRenameFs struct {
	afero.Fs
}

func (failingRenameFs) Rename(_, _ string) error {
	return errors.New("simulated crash before rename")
}

func handle(tracks ...string) playlist.Handle {
	return playlist.Handle{Path: "/music/mix.m3u8", Name: "mix", Tracks: tracks}
}

func read(fs afero.Fs, path string) string {
	return string(lo.Must(afero.ReadFile(fs, path)))
}

func TestPaths(t *testing.T) {
	Convey("Paths are a pure function of the playlist path", t, func() {
		store := NewStore(afero.NewMemMapFs())

		paths := store.Paths("/music/mix.m3u8")
		So(paths.Primary, ShouldEqual, "/music/mix.m3u8.history.json")
		So(paths.Backup, ShouldEqual, "/music/mix.m3u8.history.json.bak")

		So(store.Paths("/music/mix.m3u8"), ShouldResemble, paths)
		So(store.Paths("/other/a.m3u").Primary, ShouldEqual, "/other/a.m3u.history.json")

		custom := NewStore(afero.NewMemMapFs(), WithSuffix(".resume"), WithBackupSuffix(".old"))
		So(custom.Paths("/x.m3u"), ShouldResemble, Paths{Primary: "/x.m3u.resume", Backup: "/x.m3u.resume.old"})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a store", t, func() {
		fs := afero.NewMemMapFs()
		store := NewStore(fs)
		paths := store.Paths("/music/mix.m3u8")
		h := handle("/a.flac", "/b.flac", "/c.flac")

		Convey("Without history the defaults are returned", func() {
			record := store.Load(h)
			So(record.TrackIndex, ShouldEqual, 0)
			So(record.Position, ShouldEqual, 0)
			So(record.Finished, ShouldBeEmpty)
			So(record.Finished, ShouldNotBeNil)
		})

		Convey("A valid primary is returned", func() {
			lo.Must0(afero.WriteFile(fs, paths.Primary, []byte(`{"track_index":1,"position":42.0,"finished":["/a.flac"]}`), 0644))

			record := store.Load(h)
			So(record.TrackIndex, ShouldEqual, 1)
			So(record.Position, ShouldEqual, 42.0)
			So(record.Finished, ShouldResemble, []string{"/a.flac"})
			So(record.IsFinished("/a.flac"), ShouldBeTrue)
			So(record.IsFinished("/b.flac"), ShouldBeFalse)
		})

		Convey("The index is clamped against a shorter track list", func() {
			lo.Must0(afero.WriteFile(fs, paths.Primary, []byte(`{"track_index":7,"position":3,"finished":[]}`), 0644))
			So(store.Load(h).TrackIndex, ShouldEqual, 2)
			So(store.Load(handle()).TrackIndex, ShouldEqual, 0)
		})

		Convey("Negative values are clamped to zero", func() {
			lo.Must0(afero.WriteFile(fs, paths.Primary, []byte(`{"track_index":-3,"position":-1.5,"finished":[]}`), 0644))
			record := store.Load(h)
			So(record.TrackIndex, ShouldEqual, 0)
			So(record.Position, ShouldEqual, 0)
		})

		Convey("A corrupt primary is recovered from a valid backup", func() {
			backup := `{"display_name":"Mix","track_index":2,"position":7.5,"finished":["/a.flac","/b.flac"]}`
			lo.Must0(afero.WriteFile(fs, paths.Primary, []byte(`{"track_index":`), 0644))
			lo.Must0(afero.WriteFile(fs, paths.Backup, []byte(backup), 0644))

			record := store.Load(h)
			So(record.DisplayName, ShouldEqual, "Mix")
			So(record.TrackIndex, ShouldEqual, 2)
			So(record.Position, ShouldEqual, 7.5)
			So(record.Finished, ShouldResemble, []string{"/a.flac", "/b.flac"})

			Convey("And the primary is repaired to match the backup", func() {
				So(read(fs, paths.Primary), ShouldEqual, backup)
				So(read(fs, paths.Backup), ShouldEqual, backup)
			})
		})

		Convey("A missing primary is recovered from the backup", func() {
			lo.Must0(afero.WriteFile(fs, paths.Backup, []byte(`{"track_index":1,"position":1,"finished":[]}`), 0644))
			So(store.Load(h).TrackIndex, ShouldEqual, 1)
			So(lo.Must(afero.Exists(fs, paths.Primary)), ShouldBeTrue)
		})

		Convey("Corrupt primary and backup degrade to the defaults", func() {
			lo.Must0(afero.WriteFile(fs, paths.Primary, []byte(`nope`), 0644))
			lo.Must0(afero.WriteFile(fs, paths.Backup, []byte(`[1,2]`), 0644))

			record := store.Load(h)
			So(record.TrackIndex, ShouldEqual, 0)
			So(record.Position, ShouldEqual, 0)
		})

		Convey("A JSON value that is not an object is corrupt", func() {
			lo.Must0(afero.WriteFile(fs, paths.Primary, []byte(`null`), 0644))
			So(store.Load(h).TrackIndex, ShouldEqual, 0)

			_, err := store.Read("/music/mix.m3u8")
			So(errors.Is(err, ErrCorrupt), ShouldBeTrue)
		})
	})
}

func TestSave(t *testing.T) {
	Convey("Given a store", t, func() {
		fs := afero.NewMemMapFs()
		lo.Must0(fs.MkdirAll("/music", os.ModePerm))
		store := NewStore(fs)
		paths := store.Paths("/music/mix.m3u8")

		Convey("Saving writes a deterministic document", func() {
			So(store.Save("/music/mix.m3u8", 1, 42.5, []string{"/b.flac", "/a.flac", "/a.flac"}), ShouldBeNil)
			So(read(fs, paths.Primary), ShouldEqual, "{\n  \"finished\": [\n    \"/a.flac\",\n    \"/b.flac\"\n  ],\n  \"position\": 42.5,\n  \"track_index\": 1\n}\n")

			Convey("And identical saves produce byte-identical files", func() {
				first := read(fs, paths.Primary)
				So(store.Save("/music/mix.m3u8", 1, 42.5, []string{"/a.flac", "/b.flac"}), ShouldBeNil)
				So(read(fs, paths.Primary), ShouldEqual, first)
			})
		})

		Convey("Nil finished sets are stored as empty arrays", func() {
			So(store.Save("/music/mix.m3u8", 0, 0, nil), ShouldBeNil)
			So(read(fs, paths.Primary), ShouldContainSubstring, `"finished": []`)
		})

		Convey("The previous generation becomes the backup", func() {
			So(store.Save("/music/mix.m3u8", 0, 1, nil), ShouldBeNil)
			first := read(fs, paths.Primary)
			So(lo.Must(afero.Exists(fs, paths.Backup)), ShouldBeFalse)

			So(store.Save("/music/mix.m3u8", 1, 2, nil), ShouldBeNil)
			So(read(fs, paths.Backup), ShouldEqual, first)
		})

		Convey("Unrelated fields are preserved", func() {
			lo.Must0(afero.WriteFile(fs, paths.Primary, []byte(`{"display_name":"Mix","volume":{"level":80},"track_index":0,"position":0,"finished":[]}`), 0644))

			So(store.Save("/music/mix.m3u8", 2, 3, []string{"/a.flac"}), ShouldBeNil)

			var doc map[string]any
			lo.Must0(json.Unmarshal([]byte(read(fs, paths.Primary)), &doc))
			So(doc["display_name"], ShouldEqual, "Mix")
			So(doc["volume"], ShouldResemble, map[string]any{"level": float64(80)})
			So(doc["track_index"], ShouldEqual, float64(2))
		})

		Convey("A corrupt primary never replaces a good backup", func() {
			good := `{"display_name":"Mix","track_index":1,"position":5,"finished":[]}`
			lo.Must0(afero.WriteFile(fs, paths.Primary, []byte(`{{{`), 0644))
			lo.Must0(afero.WriteFile(fs, paths.Backup, []byte(good), 0644))

			So(store.Save("/music/mix.m3u8", 2, 9, nil), ShouldBeNil)
			So(read(fs, paths.Backup), ShouldEqual, good)

			Convey("And the merge starts from the backup's fields", func() {
				record, err := store.Read("/music/mix.m3u8")
				So(err, ShouldBeNil)
				So(record.DisplayName, ShouldEqual, "Mix")
				So(record.TrackIndex, ShouldEqual, 2)
			})
		})

		Convey("Temp files do not linger", func() {
			So(store.Save("/music/mix.m3u8", 0, 0, nil), ShouldBeNil)
			entries := lo.Must(afero.ReadDir(fs, "/music"))
			names := lo.Map(entries, func(e os.FileInfo, _ int) string { return e.Name() })
			So(lo.ContainsBy(names, func(name string) bool { return strings.Contains(name, ".tmp-") }), ShouldBeFalse)
		})
	})
}

func TestSaveRejectsNonFinitePositions(t *testing.T) {
	Convey("Given an existing history", t, func() {
		fs := afero.NewMemMapFs()
		store := NewStore(fs)
		So(store.Save("/music/mix.m3u8", 1, 10, []string{"/a.flac"}), ShouldBeNil)
		before := read(fs, store.Paths("/music/mix.m3u8").Primary)

		for _, position := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			Convey(fmt.Sprintf("Saving position %v fails as a commit failure and keeps the primary", position), func() {
				err := store.Save("/music/mix.m3u8", 2, position, nil)
				So(errors.Is(err, ErrCommit), ShouldBeTrue)
				So(read(fs, store.Paths("/music/mix.m3u8").Primary), ShouldEqual, before)
			})
		}
	})
}

func TestCrashSimulation(t *testing.T) {
	Convey("Given an existing history", t, func() {
		base := afero.NewMemMapFs()
		healthy := NewStore(base)
		So(healthy.Save("/music/mix.m3u8", 1, 10, []string{"/a.flac"}), ShouldBeNil)
		paths := healthy.Paths("/music/mix.m3u8")
		before := read(base, paths.Primary)

		Convey("When the process dies between temp write and rename", func() {
			crashing := NewStore(failingRenameFs{Fs: base})
			err := crashing.Save("/music/mix.m3u8", 2, 99, []string{"/a.flac", "/b.flac"})

			Convey("Then the error is a commit failure", func() {
				So(errors.Is(err, ErrCommit), ShouldBeTrue)
			})

			Convey("Then the primary is byte-identical to its previous state", func() {
				So(read(base, paths.Primary), ShouldEqual, before)
			})

			Convey("Then no temp file is left behind", func() {
				entries := lo.Must(afero.ReadDir(base, "/music"))
				So(entries, ShouldHaveLength, 2)
			})
		})
	})
}

func TestEnsureName(t *testing.T) {
	Convey("Given a store", t, func() {
		fs := afero.NewMemMapFs()
		store := NewStore(fs)
		paths := store.Paths("/music/mix.m3u8")

		Convey("The name is stored alongside the resume fields", func() {
			So(store.Save("/music/mix.m3u8", 1, 4, nil), ShouldBeNil)
			So(store.EnsureName("/music/mix.m3u8", "Road Trip"), ShouldBeNil)

			record, err := store.Read("/music/mix.m3u8")
			So(err, ShouldBeNil)
			So(record.DisplayName, ShouldEqual, "Road Trip")
			So(record.TrackIndex, ShouldEqual, 1)
			So(record.Position, ShouldEqual, 4)
		})

		Convey("An unchanged name does not write", func() {
			So(store.EnsureName("/music/mix.m3u8", "Road Trip"), ShouldBeNil)
			stat := lo.Must(fs.Stat(paths.Primary))

			So(store.EnsureName("/music/mix.m3u8", "Road Trip"), ShouldBeNil)
			So(lo.Must(afero.Exists(fs, paths.Backup)), ShouldBeFalse)
			So(lo.Must(fs.Stat(paths.Primary)).ModTime().Equal(stat.ModTime()), ShouldBeTrue)
		})
	})
}

func TestReadAndReset(t *testing.T) {
	Convey("Given a saved history", t, func() {
		fs := afero.NewMemMapFs()
		store := NewStore(fs)
		So(store.Save("/music/mix.m3u8", 0, 1, nil), ShouldBeNil)
		So(store.Save("/music/mix.m3u8", 0, 2, nil), ShouldBeNil)

		Convey("Reset removes primary and backup", func() {
			So(store.Reset("/music/mix.m3u8"), ShouldBeNil)
			paths := store.Paths("/music/mix.m3u8")
			So(lo.Must(afero.Exists(fs, paths.Primary)), ShouldBeFalse)
			So(lo.Must(afero.Exists(fs, paths.Backup)), ShouldBeFalse)

			Convey("And a second reset is harmless", func() {
				So(store.Reset("/music/mix.m3u8"), ShouldBeNil)
			})

			Convey("And Read reports the missing document", func() {
				_, err := store.Read("/music/mix.m3u8")
				So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
			})
		})
	})
}
