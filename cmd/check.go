// Package cmd implements the command-line interface for plplayer.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/plplayer/plplayer/constant"
	"github.com/plplayer/plplayer/icon"
	"github.com/plplayer/plplayer/log"
	"github.com/plplayer/plplayer/style"
	"github.com/plplayer/plplayer/version"
)

// CheckDependencies exits with installation hints unless binary is a usable mpv.
func CheckDependencies(binary string) {
	v, err := version.Check(binary)
	switch {
	case err == nil:
		log.Debugf("using %s %s", binary, v)
	case errors.Is(err, version.ErrUnknown):
		log.Warnf("could not determine the version of %s, assuming it is recent", binary)
	case errors.Is(err, version.ErrNotInstalled):
		printDependencyError(binary, fmt.Sprintf("The required dependency '%s' was not found in your PATH.", binary))
		os.Exit(1)
	case errors.Is(err, version.ErrTooOld):
		printDependencyError(binary, fmt.Sprintf("'%s' is version %s, but at least %s is required.", binary, v, constant.MinimumMPV))
		os.Exit(1)
	default:
		handleErr(err)
	}
}

func printDependencyError(dep, reason string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install mpv"
	case constant.Linux:
		installCmd = "sudo apt install mpv"
	case constant.Windows:
		installCmd = "scoop install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Unusable Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(reason)

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install or upgrade it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
	log.Errorf("dependency %s unusable: %s", dep, reason)
}
