// Package sweep removes engine sockets left behind by player processes that are gone.
package sweep

import (
	"net"
	"os"
	"strings"
	"time"

	"github.com/plplayer/plplayer/log"
	"github.com/spf13/afero"
)

// MinAge protects sockets of engines that are still starting up.
const MinAge = time.Minute

// dialTimeout bounds the liveness check of a single socket.
const dialTimeout = 200 * time.Millisecond

// alive reports whether something still listens on the unix socket at path.
var alive = func(path string) bool {
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Stale removes "*.sock" files under dir that are older than MinAge and have no listener.
// It returns how many were removed.
func Stale(fs afero.Fs, dir string, now time.Time) int {
	var removed int

	_ = afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || !strings.HasSuffix(path, ".sock") {
			return nil
		}
		if now.Sub(info.ModTime()) < MinAge || alive(path) {
			return nil
		}

		if err := fs.Remove(path); err != nil {
			log.Debugf("sweep: remove %s: %s", path, err)
			return nil
		}
		removed++
		return nil
	})

	if removed > 0 {
		log.Debugf("sweep: removed %d stale sockets from %s", removed, dir)
	}
	return removed
}
