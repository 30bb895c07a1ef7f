// Package color names the terminal colors used by CLI output.
package color

import "github.com/charmbracelet/lipgloss"

// New initializes a lipgloss.Color from an ANSI index or hex value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// ANSI colors. They follow the user's terminal theme.
var (
	Red      = New("1")
	Green    = New("2")
	Yellow   = New("3")
	Blue     = New("4")
	Purple   = New("5")
	Cyan     = New("6")
	HiRed    = New("9")
	HiPurple = New("13")
)

// Orange highlights the primary key binding in help lines.
var Orange = New("#ffb703")

// Playback state colors used by the player view and CLI summaries.
var (
	Playing  = Green
	Paused   = Yellow
	Finished = New("#808080")
	Halted   = Red
)
