// Package ui provides short-lived status notices for the terminal interface.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/plplayer/plplayer/style"
)

// Lifetime is how long a notice stays on screen.
const Lifetime = 3 * time.Second

// Model holds the notice currently shown, if any.
type Model struct {
	notice string
	serial int
}

// NoticeMsg asks the model to show Text.
type NoticeMsg struct {
	Text string
}

// clearMsg hides the notice with the given serial. Newer notices are left alone.
type clearMsg struct {
	serial int
}

// Notify returns a tea.Cmd that shows text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg{Text: text}
	}
}

// Update shows or expires notices. Other messages are ignored.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NoticeMsg:
		m.serial++
		m.notice = msg.Text
		serial := m.serial
		return tea.Tick(Lifetime, func(time.Time) tea.Msg {
			return clearMsg{serial: serial}
		})
	case clearMsg:
		if msg.serial == m.serial {
			m.notice = ""
		}
	}
	return nil
}

// Notice returns the text currently shown.
func (m *Model) Notice() string {
	return m.notice
}

// View appends the notice to the last line of content.
func (m *Model) View(content string) string {
	if m.notice == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + style.Faint(m.notice)
	return strings.Join(lines, "\n")
}
