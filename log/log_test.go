package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plplayer/plplayer/filesystem"
	"github.com/plplayer/plplayer/key"
	"github.com/plplayer/plplayer/where"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	lo.Must0(os.Setenv(where.EnvConfigPath, "/config"))
}

func TestSetup(t *testing.T) {
	Convey("Given the logging configuration", t, func() {
		Reset(func() {
			viper.Set(key.LogsWrite, false)
			lo.Must0(Setup())
		})

		Convey("Disabled logging writes nothing", func() {
			viper.Set(key.LogsWrite, false)
			So(Setup(), ShouldBeNil)
			Errorf("dropped %d", 1)

			exists := lo.Must(afero.DirExists(filesystem.API(), "/config/logs"))
			if exists {
				entries := lo.Must(afero.ReadDir(filesystem.API(), "/config/logs"))
				So(entries, ShouldBeEmpty)
			}
		})

		Convey("Enabled logging appends to today's file at the configured level", func() {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsLevel, "warn")
			viper.Set(key.LogsJson, false)
			So(Setup(), ShouldBeNil)

			Warnf("history: recovered %s from backup", "mix.m3u8")
			Debugf("not at this level")

			path := filepath.Join("/config/logs", time.Now().Format("2006-01-02")+".log")
			content := string(lo.Must(afero.ReadFile(filesystem.API(), path)))
			So(content, ShouldContainSubstring, "recovered mix.m3u8 from backup")
			So(content, ShouldNotContainSubstring, "not at this level")
		})
	})
}
