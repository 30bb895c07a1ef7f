package config

import (
	"github.com/plplayer/plplayer/constant"
	"github.com/plplayer/plplayer/icon"
	"github.com/plplayer/plplayer/key"
	"github.com/plplayer/plplayer/player"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Default maps every registered key to its field.
var Default = make(map[string]Field)

// EnvExposed lists the registered keys in registration order; each is bound to an environment variable.
var EnvExposed []string

var fields = []Field{
	{Key: key.HistorySuffix, Value: constant.HistorySuffix, Description: "Suffix appended to a playlist path to name its history file"},
	{Key: key.HistoryBackupSuffix, Value: constant.HistoryBackupSuffix, Description: "Suffix appended to a history file to name its previous generation"},

	{Key: key.WriterDebounceMs, Value: 2000, Description: "Minimum milliseconds between two background history writes"},
	{Key: key.WriterWakeMs, Value: 0, Description: "Milliseconds between writer wake-ups.\n0 means half of writer.debounce_ms"},

	{Key: key.SessionTickMs, Value: 100, Description: "Milliseconds between two playback position samples"},
	{Key: key.SessionPrevRestartSeconds, Value: 5, Description: "Past this many seconds, \"previous\" restarts the current track instead of moving back"},
	{Key: key.SessionResumeWaitRetries, Value: 10, Description: "How many times to wait for the track length before seeking to a resume position"},
	{Key: key.SessionResumeWaitMs, Value: 50, Description: "Milliseconds of each resume wait"},

	{Key: key.PlayerBinary, Value: "mpv", Description: "Media engine executable"},
	{
		Key:         key.PlayerOutput,
		Value:       player.OutputDefault.String(),
		Description: "Audio output mode",
		Options:     lo.Map(player.Outputs(), func(m player.OutputMode, _ int) string { return m.String() }),
	},

	{Key: key.LibraryRecursiveScan, Value: true, Description: "Descend into sub-directories when scanning for playlists"},

	{Key: key.IconsVariant, Value: icon.Plain, Description: "Icons variant (nerd requires a nerd font)", Options: icon.AvailableVariants()},

	{Key: key.LogsWrite, Value: false, Description: "Write logs"},
	{
		Key:         key.LogsLevel,
		Value:       logrus.InfoLevel.String(),
		Description: "Log verbosity, from least to most verbose",
		Options:     lo.Map(logrus.AllLevels, func(l logrus.Level, _ int) string { return l.String() }),
	},
	{Key: key.LogsJson, Value: false, Description: "Use json format for logs"},

	{Key: key.CliColored, Value: true, Description: "Enable colored CLI output"},
}

func init() {
	for _, f := range fields {
		if _, dup := Default[f.Key]; dup {
			panic("config: duplicate key " + f.Key)
		}
		Default[f.Key] = f
		EnvExposed = append(EnvExposed, f.Key)
	}
}
