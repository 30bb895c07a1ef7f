package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/plplayer/plplayer/filesystem"
	"github.com/plplayer/plplayer/key"
	"github.com/plplayer/plplayer/player"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("Should register every defined key", func() {
			So(len(Default), ShouldEqual, key.DefinedFieldsCount)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("writer.debounce_ms")
			So(result, ShouldEqual, "writer_debounce_ms")
		})

		Convey("Env should carry the application prefix", func() {
			field := Default[key.SessionTickMs]
			So(field.Env(), ShouldEqual, "PLPLAYER_SESSION_TICK_MS")
		})
	})
}

func TestTiming(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		So(Setup(), ShouldBeNil)

		Convey("The wake period is half the debounce interval", func() {
			So(DebounceInterval(), ShouldEqual, 2*time.Second)
			So(WakePeriod(), ShouldEqual, time.Second)
		})

		Convey("An explicit wake period is honoured", func() {
			viper.Set(key.WriterWakeMs, 250)
			defer viper.Set(key.WriterWakeMs, 0)
			So(WakePeriod(), ShouldEqual, 250*time.Millisecond)
		})

		Convey("A wake period longer than the debounce interval is capped", func() {
			viper.Set(key.WriterWakeMs, 5000)
			defer viper.Set(key.WriterWakeMs, 0)
			So(WakePeriod(), ShouldEqual, time.Second)
		})

		Convey("Previous restarts past five seconds", func() {
			So(PrevRestartThreshold(), ShouldEqual, 5.0)
		})

		Convey("Resume waits are bounded", func() {
			retries, delay := ResumeWait()
			So(retries, ShouldEqual, 10)
			So(delay, ShouldEqual, 50*time.Millisecond)
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given the output field", t, func() {
		field := Default[key.PlayerOutput]

		Convey("Every engine output mode is an option", func() {
			for _, mode := range player.Outputs() {
				So(field.Accepts(mode.String()), ShouldBeNil)
			}
		})

		Convey("Unknown modes are rejected with the list of options", func() {
			err := field.Accepts("jack")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "pulse")
		})

		Convey("Its type is string", func() {
			So(field.Type(), ShouldEqual, "string")
		})
	})

	Convey("Fields without options accept anything", t, func() {
		So(Default[key.PlayerBinary].Accepts("/opt/mpv/bin/mpv"), ShouldBeNil)
	})

	Convey("Pretty and JSON renderings carry the key", t, func() {
		So(Setup(), ShouldBeNil)
		field := Default[key.SessionTickMs]
		So(field.Pretty(), ShouldContainSubstring, key.SessionTickMs)

		data, err := json.Marshal(field)
		So(err, ShouldBeNil)
		So(string(data), ShouldContainSubstring, `"default":100`)
		So(string(data), ShouldContainSubstring, `"env":"PLPLAYER_SESSION_TICK_MS"`)
	})
}

func TestValidate(t *testing.T) {
	Convey("Given an output mode the engine does not know", t, func() {
		So(Setup(), ShouldBeNil)
		viper.Set(key.PlayerOutput, "jack")
		defer viper.Set(key.PlayerOutput, "default")

		Convey("Validation names the offending key", func() {
			err := Validate()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, key.PlayerOutput)
		})
	})
}
