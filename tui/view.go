// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
	"github.com/plplayer/plplayer/color"
	"github.com/plplayer/plplayer/icon"
	"github.com/plplayer/plplayer/style"
	"github.com/plplayer/plplayer/util"
)

// lipglossWidthOfTimes is the room kept beside the progress bar for "h:mm:ss / h:mm:ss".
const lipglossWidthOfTimes = 20

// trackWindow is how many neighbouring tracks are listed on each side of the current one.
const trackWindow = 3

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case playingState, haltedState:
		output = b.viewPlayer()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewPlayer() string {
	s := b.session
	handle := s.Handle()

	header := style.Title(icon.Get(icon.Playlist) + " " + handle.String())

	counter := fmt.Sprintf(
		"%s %d/%d  %s",
		icon.Get(icon.Track),
		s.Index()+1,
		handle.Len(),
		style.Faint(util.Quantify(len(s.Finished()), "finished", "finished")),
	)

	lines := []string{
		header,
		"",
		counter,
		b.truncate(style.Bold(trackTitle(s.Current()))),
		"",
		b.viewProgress(),
		"",
		b.viewStatus(),
		"",
	}
	lines = append(lines, b.viewTracks()...)

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewProgress() string {
	position, length := b.session.Position(), b.session.Length()

	var percent float64
	if length > 0 {
		percent = util.Clamp(position/length, 0, 1)
	}

	return fmt.Sprintf(
		"%s %s / %s",
		b.progressC.ViewAs(percent),
		util.FormatSeconds(position),
		util.FormatSeconds(length),
	)
}

func (b *statefulBubble) viewStatus() string {
	var status string
	switch {
	case b.session.Halted():
		status = style.Fg(color.Halted)(icon.Get(icon.Stop) + " end of playlist")
	case b.session.Paused():
		status = style.Fg(color.Paused)(icon.Get(icon.Pause) + " paused")
	default:
		status = style.Fg(color.Playing)(icon.Get(icon.Play) + " playing")
	}

	return status + "  " + style.Faint(icon.Get(icon.Speaker)+" "+b.session.Output().String())
}

// viewTracks lists the tracks around the current one.
func (b *statefulBubble) viewTracks() []string {
	tracks := b.session.Tracks()
	current := b.session.Index()

	from := util.Max(current-trackWindow, 0)
	to := util.Min(current+trackWindow+1, len(tracks))

	lines := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		lines = append(lines, b.truncate(b.trackLine(i, tracks[i], i == current)))
	}
	return lines
}

func (b *statefulBubble) trackLine(index int, locator string, current bool) string {
	line := fmt.Sprintf("%3d. %s", index+1, trackTitle(locator))

	switch {
	case current:
		return style.Current(icon.Get(icon.Play) + " " + line)
	case b.session.IsFinished(locator):
		return "  " + style.Done(line)
	default:
		return "  " + line
	}
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(b.lastError.Error()), b.width)

	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " " + errorMsg,
		},
	)
}

func (b *statefulBubble) truncate(s string) string {
	if b.width <= 0 {
		return s
	}
	return truncate.StringWithTail(s, uint(b.width), "…")
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h+1 {
			l += strings.Repeat("\n", b.height-h-1)
		}
		l += "\n" + b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}

// trackTitle renders a locator for humans: the file stem for local files, the unescaped URL otherwise.
func trackTitle(locator string) string {
	if locator == "" {
		return ""
	}

	if u, err := url.Parse(locator); err == nil && u.Scheme != "" && u.Host != "" {
		if unescaped, err := url.PathUnescape(locator); err == nil {
			return unescaped
		}
		return locator
	}

	return util.FileStem(locator)
}
