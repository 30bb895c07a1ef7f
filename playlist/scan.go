package playlist

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/plplayer/plplayer/log"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"golang.org/x/exp/slices"
)

// Scan looks for playlist files under root. Without recursive only the top level is inspected.
// Unreadable playlists are logged and skipped. A missing root yields no playlists.
func Scan(fs afero.Fs, root string, recursive bool) ([]Handle, error) {
	exists, err := afero.DirExists(fs, root)
	if err != nil {
		return nil, fmt.Errorf("stat scan root: %w", err)
	}
	if !exists {
		return nil, nil
	}

	var paths []string
	err = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if IsPlaylist(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	slices.Sort(paths)

	handles := lo.FilterMap(paths, func(path string, _ int) (Handle, bool) {
		h, err := Read(fs, path)
		if err != nil {
			log.Warnf("skipping playlist %s: %s", path, err)
			return Handle{}, false
		}
		return h, true
	})

	return handles, nil
}
