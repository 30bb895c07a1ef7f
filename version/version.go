package version

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/plplayer/plplayer/constant"
	"github.com/plplayer/plplayer/util"
)

var (
	// ErrNotInstalled means the engine binary could not be found in PATH.
	ErrNotInstalled = errors.New("media engine not installed")

	// ErrTooOld means the engine predates the IPC features the player relies on.
	ErrTooOld = errors.New("media engine too old")

	// ErrUnknown means the engine did not report a release version, as development builds do.
	ErrUnknown = errors.New("media engine version unknown")
)

var mpvVersionPattern = regexp.MustCompile(`(?m)^mpv\s+v?(?P<version>\d+\.\d+(?:\.\d+)?)`)

// Parse extracts the release version from the output of "mpv --version".
func Parse(output string) (string, error) {
	v, ok := util.ReGroups(mpvVersionPattern, output)["version"]
	if !ok || v == "" {
		return "", ErrUnknown
	}
	return v, nil
}

// MPV reports the version of the mpv executable named binary.
func MPV(binary string) (string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotInstalled, binary)
	}

	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("run %s --version: %w", binary, err)
	}

	return Parse(string(out))
}

// Check verifies that binary is installed and at least constant.MinimumMPV.
// Development builds without a release number pass with ErrUnknown so callers can warn.
func Check(binary string) (string, error) {
	v, err := MPV(binary)
	if err != nil {
		return v, err
	}

	cmp, err := Compare(v, constant.MinimumMPV)
	if err != nil {
		return v, err
	}
	if cmp < 0 {
		return v, fmt.Errorf("%w: %s is older than %s", ErrTooOld, strings.TrimSpace(v), constant.MinimumMPV)
	}
	return v, nil
}
