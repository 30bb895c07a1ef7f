// Package util holds small helpers shared by the CLI and the player interface.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/plplayer/plplayer/filesystem"
	"github.com/samber/lo"
	"golang.org/x/exp/constraints"
	"golang.org/x/term"
)

// Quantify formats count followed by the matching noun form, e.g. "1 track" or "3 tracks".
func Quantify(count int, singular, plural string) string {
	return fmt.Sprintf("%d %s", count, lo.Ternary(count == 1, singular, plural))
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// TerminalSize reports the size of the terminal attached to stdout.
func TerminalSize() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// FileStem is the base name of path without its last extension.
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReGroups returns the named groups of the first match of pattern in s.
// A non-matching input yields an empty map.
func ReGroups(pattern *regexp.Regexp, s string) map[string]string {
	match := pattern.FindStringSubmatch(s)
	groups := make(map[string]string, len(match))
	for i, name := range pattern.SubexpNames() {
		if name == "" || i >= len(match) {
			continue
		}
		groups[name] = match[i]
	}
	return groups
}

// PrintErasable writes msg on the current line; the returned func blanks it again.
func PrintErasable(msg string) (erase func()) {
	fmt.Fprint(os.Stdout, "\r"+msg)
	return func() {
		fmt.Fprint(os.Stdout, "\r"+strings.Repeat(" ", utf8.RuneCountInString(msg))+"\r")
	}
}

// Max is the largest argument, or the zero value when called without any.
func Max[T constraints.Ordered](items ...T) T {
	return lo.Max(items)
}

// Min is the smallest argument, or the zero value when called without any.
func Min[T constraints.Ordered](items ...T) T {
	return lo.Min(items)
}

// Clamp limits value to [low, high].
func Clamp[T constraints.Ordered](value, low, high T) T {
	return Min(Max(value, low), high)
}

// FormatSeconds renders seconds as m:ss, or h:mm:ss from one hour on. Negative input renders as 0:00.
func FormatSeconds(seconds float64) string {
	total := int(Max(seconds, 0))
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Delete removes path, recursing into directories. A missing path is an error.
func Delete(path string) error {
	fs := filesystem.API()
	if _, err := fs.Stat(path); err != nil {
		return err
	}
	return fs.RemoveAll(path)
}
