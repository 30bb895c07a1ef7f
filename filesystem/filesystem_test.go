package filesystem

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "MemMapFS")
			So(Fs().Name(), ShouldEqual, "MemMapFS")
		})

		Convey("Should accept a custom backend", func() {
			Set(afero.NewReadOnlyFs(afero.NewMemMapFs()))
			So(API().WriteFile("/x", []byte("y"), 0644), ShouldNotBeNil)
			SetMemMapFs()
		})
	})
}

func TestGacheFs(t *testing.T) {
	Convey("GacheFs routes through the active backend", t, func() {
		SetMemMapFs()
		var g GacheFs

		So(g.MkdirAll("/cfg", os.ModePerm), ShouldBeNil)
		f, err := g.OpenFile("/cfg/playlists.json", os.O_CREATE|os.O_WRONLY, 0644)
		So(err, ShouldBeNil)
		_, err = f.Write([]byte("{}"))
		So(err, ShouldBeNil)
		So(f.Close(), ShouldBeNil)

		data, err := API().ReadFile("/cfg/playlists.json")
		So(err, ShouldBeNil)
		So(string(data), ShouldEqual, "{}")
	})
}
