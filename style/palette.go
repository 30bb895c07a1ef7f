package style

import "github.com/charmbracelet/lipgloss"

// Palette of the player interface. Hex values, so they look the same on every terminal theme.
var (
	Text    = lipgloss.Color("#cdd6f4")
	Overlay = lipgloss.Color("#6c7086")
	Mauve   = lipgloss.Color("#cba6f7")
	Red     = lipgloss.Color("#f38ba8")

	AccentColor = Mauve
	ErrorColor  = Red
	HiRed       = Red
	FaintColor  = Overlay
)
