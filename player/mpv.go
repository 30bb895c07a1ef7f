package player

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/plplayer/plplayer/filesystem"
	"github.com/plplayer/plplayer/log"
	"github.com/plplayer/plplayer/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	defaultLoadWait   = 5 * time.Second
	quitWait          = 3 * time.Second
)

// mpv end-file reasons that mean the media will not continue.
const (
	reasonEOF   = "eof"
	reasonError = "error"
)

// MPV implements Engine on top of a long-lived, idle mpv process controlled over JSON-IPC.
type MPV struct {
	binary     string
	mode       OutputMode
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	mu         sync.Mutex    // serialises socket commands
	listener   *EventListener
	loadWait   time.Duration

	// state guards the fields below, which the listener goroutine reads.
	state   sync.Mutex
	current string
	loading chan error
	onEnd   func(locator string)
}

// NewMPV launches mpv with the given output mode and connects to its IPC socket.
func NewMPV(binary string, mode OutputMode) (*MPV, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutput, mode)
	}

	socketPath, err := newSocketPath()
	if err != nil {
		return nil, err
	}

	m := &MPV{
		binary:     binary,
		mode:       mode,
		socketPath: socketPath,
		exited:     make(chan struct{}),
		loadWait:   defaultLoadWait,
	}

	if err := m.start(); err != nil {
		return nil, err
	}
	return m, nil
}

// newSocketPath returns a random socket path in the application temp directory.
func newSocketPath() (string, error) {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("generate socket name: %w", err)
	}
	return filepath.Join(where.Temp(), fmt.Sprintf("mpv-%x.sock", randomBytes)), nil
}

// args builds the mpv command line. The user's mpv.conf is respected beyond what playback needs.
func (m *MPV) args() []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--idle=yes",
		"--no-video",
		"--keep-open=no",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
	}
	return append(args, m.mode.Args()...)
}

func (m *MPV) start() error {
	m.cmd = exec.Command(m.binary, m.args()...)

	// Detach from parent process group so terminal signals reach us first.
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", m.binary, err)
	}

	// Reap the process to prevent zombies.
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		m.kill()
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.listener = NewEventListener(m.socketPath, m.handleEvent)
	if err := m.listener.Start(); err != nil {
		m.kill()
		return err
	}

	log.Infof("mpv started with output %s on %s", m.mode, m.socketPath)
	return nil
}

func (m *MPV) kill() {
	select {
	case <-m.exited:
	default:
		log.Warnf("killing mpv")
		_ = killProcess(m.cmd)
	}
	_ = os.Remove(m.socketPath)
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Open replaces the loaded media with locator and waits, bounded, until mpv has loaded it.
func (m *MPV) Open(locator string) error {
	target, err := sanitizeMediaTarget(locator)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	result := make(chan error, 1)
	m.state.Lock()
	m.current = locator
	m.loading = result
	m.state.Unlock()

	defer func() {
		m.state.Lock()
		if m.loading == result {
			m.loading = nil
		}
		m.state.Unlock()
	}()

	if _, err := m.sendCommand("set_property", "pause", false); err != nil {
		return err
	}
	if _, err := m.sendCommand("loadfile", target, "replace"); err != nil {
		return err
	}

	timeout := time.NewTimer(m.loadWait)
	defer timeout.Stop()

	select {
	case err := <-result:
		return err
	case <-m.exited:
		return ErrEngineExited
	case <-timeout.C:
		return fmt.Errorf("load %s: no response within %s", locator, m.loadWait)
	}
}

// handleEvent runs on the listener goroutine.
func (m *MPV) handleEvent(event string, data map[string]any) {
	m.state.Lock()

	switch event {
	case "file-loaded":
		if m.loading != nil {
			m.loading <- nil
			m.loading = nil
		}
		m.state.Unlock()

	case "end-file":
		reason, _ := data["reason"].(string)

		if m.loading != nil {
			// The replaced file ends with "stop"; only a load failure matters here.
			if reason == reasonError {
				fileErr, _ := data["file_error"].(string)
				m.loading <- fmt.Errorf("load %s: %s", m.current, fileErr)
				m.loading = nil
			}
			m.state.Unlock()
			return
		}

		callback, locator := m.onEnd, m.current
		m.state.Unlock()

		if (reason == reasonEOF || reason == reasonError) && callback != nil && locator != "" {
			callback(locator)
		}

	default:
		m.state.Unlock()
	}
}

// OnEndOfMedia registers the end-of-media callback.
func (m *MPV) OnEndOfMedia(callback func(locator string)) {
	m.state.Lock()
	defer m.state.Unlock()

	m.onEnd = callback
}

// Play resumes playback.
func (m *MPV) Play() error {
	_, err := m.sendCommand("set_property", "pause", false)
	return err
}

// Pause suspends playback.
func (m *MPV) Pause() error {
	_, err := m.sendCommand("set_property", "pause", true)
	return err
}

// Stop unloads the current media and returns mpv to idle.
func (m *MPV) Stop() error {
	m.state.Lock()
	m.current = ""
	m.state.Unlock()

	_, err := m.sendCommand("stop")
	return err
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand("seek", seconds, "absolute")
	return err
}

// Position returns the current playback position in seconds.
func (m *MPV) Position() (float64, error) {
	return m.getFloatProperty("time-pos")
}

// Length returns the total duration of the current media in seconds.
func (m *MPV) Length() (float64, error) {
	return m.getFloatProperty("duration")
}

// Output returns the output mode the process was started with.
func (m *MPV) Output() OutputMode {
	return m.mode
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	if m.listener != nil {
		m.listener.Stop()
	}

	// Try graceful quit via IPC
	if _, err := m.sendCommand("quit"); err != nil && !errors.Is(err, ErrEngineExited) {
		log.Debugf("mpv quit: %s", err)
	}

	select {
	case <-m.exited:
	case <-time.After(quitWait):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// getFloatProperty is a helper to retrieve a float64 mpv property via IPC.
func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand("get_property", name)
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeMediaTarget validates that a locator is safe to pass to mpv.
// Remote locators must be http(s); local ones must exist.
func sanitizeMediaTarget(locator string) (string, error) {
	l := strings.TrimSpace(locator)
	if l == "" {
		return "", fmt.Errorf("empty locator")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in locator")
	}

	// Prevent flag injection
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("locator must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	path := filepath.Clean(l)
	exists, err := filesystem.API().Exists(path)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}

	return path, nil
}
