// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 16

// History Persistence - these keys control where resume state is written beside each playlist.
const (
	HistorySuffix       = "history.suffix"
	HistoryBackupSuffix = "history.backup_suffix"
)

// Debounced Writer - these keys bound how often playback position reaches the disk.
const (
	WriterDebounceMs = "writer.debounce_ms"
	WriterWakeMs     = "writer.wake_ms"
)

// Playback Session - these keys tune the session heartbeat and navigation ergonomics.
const (
	SessionTickMs             = "session.tick_ms"
	SessionPrevRestartSeconds = "session.prev_restart_seconds"
	SessionResumeWaitRetries  = "session.resume_wait_retries"
	SessionResumeWaitMs       = "session.resume_wait_ms"
)

// Media Playback - these keys select the engine binary and its audio output.
const (
	PlayerBinary = "player.binary"
	PlayerOutput = "player.output"
)

// Playlist Library - these keys configure discovery of playlist files.
const (
	LibraryRecursiveScan = "library.recursive_scan"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)
