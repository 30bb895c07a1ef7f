// Package open launches files with the user's editor or the system's default handler.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/plplayer/plplayer/constant"
)

// handlerArgs returns the default-handler command line for path on goos.
func handlerArgs(goos, path string) ([]string, bool) {
	switch goos {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return []string{rundll, "url.dll,FileProtocolHandler", path}, true
	case constant.Darwin:
		return []string{"open", path}, true
	case constant.Linux:
		return []string{"xdg-open", path}, true
	case constant.Android:
		return []string{"termux-open", path}, true
	default:
		return nil, false
	}
}

// editorArgs returns the command line of $VISUAL or $EDITOR for path. Editors may carry flags, as in "code -w".
func editorArgs(path string) ([]string, bool) {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return append(fields, path), true
		}
	}
	return nil, false
}

// Start opens path with the default handler and returns without waiting.
func Start(path string) error {
	args, ok := handlerArgs(runtime.GOOS, path)
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return exec.Command(args[0], args[1:]...).Start()
}

// Edit opens path in the user's editor attached to the terminal and waits for it to exit.
// Without an editor configured it falls back to Start.
func Edit(path string) error {
	args, ok := editorArgs(path)
	if !ok {
		return Start(path)
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	return cmd.Run()
}
