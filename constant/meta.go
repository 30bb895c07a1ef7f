// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Plplayer is the canonical application identifier used for filesystem paths and CLI branding.
	Plplayer = "plplayer"

	// Version is the current application semantic version string.
	Version = "0.3.1"
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// Playlist file extensions recognised by the scanner.
const (
	ExtM3U    = ".m3u"
	ExtM3U8   = ".m3u8"
	ExtFPLite = ".fplite"
)

// History file naming. The history document lives beside its playlist.
const (
	HistorySuffix       = ".history.json"
	HistoryBackupSuffix = ".bak"
)

// MinimumMPV is the oldest mpv release whose JSON IPC echoes request_id in replies.
const MinimumMPV = "0.29.0"
