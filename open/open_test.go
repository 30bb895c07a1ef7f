package open

import (
	"testing"

	"github.com/plplayer/plplayer/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHandlerArgs(t *testing.T) {
	Convey("Default handlers are chosen per platform", t, func() {
		args, ok := handlerArgs(constant.Linux, "/music/mix.m3u8")
		So(ok, ShouldBeTrue)
		So(args, ShouldResemble, []string{"xdg-open", "/music/mix.m3u8"})

		args, ok = handlerArgs(constant.Darwin, "/music/mix.m3u8")
		So(ok, ShouldBeTrue)
		So(args[0], ShouldEqual, "open")

		_, ok = handlerArgs("plan9", "/music/mix.m3u8")
		So(ok, ShouldBeFalse)
	})
}

func TestEditorArgs(t *testing.T) {
	Convey("Given editor variables", t, func() {
		Convey("VISUAL wins over EDITOR and keeps its flags", func() {
			t.Setenv("VISUAL", "code -w")
			t.Setenv("EDITOR", "vi")
			args, ok := editorArgs("/config/plplayer.toml")
			So(ok, ShouldBeTrue)
			So(args, ShouldResemble, []string{"code", "-w", "/config/plplayer.toml"})
		})

		Convey("EDITOR is used alone", func() {
			t.Setenv("VISUAL", "")
			t.Setenv("EDITOR", "nano")
			args, ok := editorArgs("/config/plplayer.toml")
			So(ok, ShouldBeTrue)
			So(args, ShouldResemble, []string{"nano", "/config/plplayer.toml"})
		})

		Convey("Without either there is no editor", func() {
			t.Setenv("VISUAL", "")
			t.Setenv("EDITOR", "")
			_, ok := editorArgs("/config/plplayer.toml")
			So(ok, ShouldBeFalse)
		})
	})
}
