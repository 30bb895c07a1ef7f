// Package playlist reads playlist files (.m3u, .m3u8, .fplite) into ordered, immutable track lists.
package playlist

import (
	"bufio"
	"bytes"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/plplayer/plplayer/constant"
	"github.com/plplayer/plplayer/util"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/charmap"
)

// Handle identifies a playlist by its storage path together with its ordered track locators.
// Tracks must not be modified once the handle is handed to a session.
type Handle struct {
	Path   string
	Name   string
	Tracks []string
}

// String returns the display name of the playlist.
func (h Handle) String() string {
	return h.Name
}

// Len returns the number of tracks.
func (h Handle) Len() int {
	return len(h.Tracks)
}

// uriPrefixes are matched case-insensitively, longest first.
var uriPrefixes = []string{"file:///", "file://", `file:\\`, `file:\`}

var (
	bom            = []byte{0xEF, 0xBB, 0xBF}
	titleDirective = regexp.MustCompile(`^#PLAYLIST:\s*(?P<title>.+)$`)
	windowsDrive   = regexp.MustCompile(`^[A-Za-z]:[\\/]`)
)

// IsPlaylist reports whether path has one of the recognised playlist extensions.
func IsPlaylist(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return lo.Contains([]string{constant.ExtM3U, constant.ExtM3U8, constant.ExtFPLite}, ext)
}

// Read parses the playlist at path. Blank lines and comments are skipped, file URIs are unwrapped
// and percent-decoded, and relative entries are resolved against the playlist's directory.
func Read(fs afero.Fs, path string) (Handle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Handle{}, fmt.Errorf("resolve playlist path: %w", err)
	}

	data, err := afero.ReadFile(fs, abs)
	if err != nil {
		return Handle{}, fmt.Errorf("read playlist: %w", err)
	}

	text, err := decode(data)
	if err != nil {
		return Handle{}, fmt.Errorf("decode playlist: %w", err)
	}

	handle := Handle{
		Path:   abs,
		Name:   util.FileStem(abs),
		Tracks: make([]string, 0),
	}

	base := filepath.Dir(abs)
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			if title := util.ReGroups(titleDirective, line)["title"]; title != "" {
				handle.Name = strings.TrimSpace(title)
			}
			continue
		}

		handle.Tracks = append(handle.Tracks, parseLine(line, base))
	}

	if err := scanner.Err(); err != nil {
		return Handle{}, fmt.Errorf("scan playlist: %w", err)
	}

	return handle, nil
}

// decode returns data as UTF-8 text, falling back to latin-1 for files that are not valid UTF-8.
func decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, bom)
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// parseLine converts a single playlist entry into a track locator.
func parseLine(line, base string) string {
	rest := stripPrefix(line)
	if unescaped, err := url.PathUnescape(rest); err == nil {
		rest = unescaped
	}

	// Drive-letter paths are absolute even on hosts that do not know about drives.
	if windowsDrive.MatchString(rest) {
		return rest
	}

	rest = filepath.FromSlash(rest)
	if filepath.IsAbs(rest) {
		return filepath.Clean(rest)
	}

	return filepath.Join(base, rest)
}

func stripPrefix(line string) string {
	lower := strings.ToLower(line)
	for _, prefix := range uriPrefixes {
		if strings.HasPrefix(lower, prefix) {
			rest := line[len(prefix):]
			// file:///home/x keeps its leading slash, file:///C:/x does not
			if prefix == "file:///" && !windowsDrive.MatchString(rest) {
				return "/" + rest
			}
			return rest
		}
	}
	return line
}
