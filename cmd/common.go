// Package cmd implements the command-line interface for plplayer.
package cmd

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/plplayer/plplayer/color"
	"github.com/plplayer/plplayer/filesystem"
	"github.com/plplayer/plplayer/history"
	"github.com/plplayer/plplayer/key"
	"github.com/plplayer/plplayer/library"
	"github.com/plplayer/plplayer/playlist"
	"github.com/plplayer/plplayer/style"
	"github.com/plplayer/plplayer/where"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newStore() *history.Store {
	return history.NewStore(
		filesystem.API(),
		history.WithSuffix(viper.GetString(key.HistorySuffix)),
		history.WithBackupSuffix(viper.GetString(key.HistoryBackupSuffix)),
	)
}

func newLibrary() *library.Library {
	return library.New(where.Library())
}

// resolvePlaylist reads the playlist named by arg: a playlist file on disk,
// or the name of a playlist registered in the library.
func resolvePlaylist(arg string) (playlist.Handle, error) {
	fs := filesystem.API()
	lib := newLibrary()

	if playlist.IsPlaylist(arg) {
		if exists, _ := afero.Exists(fs, arg); exists {
			return readRegistered(fs, lib, arg)
		}
	}

	if entry, ok := lib.Find(arg).Get(); ok {
		return readRegistered(fs, lib, entry.Path)
	}

	if closest, ok := lib.Closest(arg).Get(); ok {
		return playlist.Handle{}, fmt.Errorf(
			"no playlist matches %s, did you mean %s?",
			style.Fg(color.Red)(arg),
			style.Fg(color.Yellow)(closest.Name),
		)
	}

	return playlist.Handle{}, errors.New("no playlist matches " + arg)
}

// readRegistered reads the playlist at path. A name given to it in the library replaces the one from the file.
func readRegistered(fs afero.Fs, lib *library.Library, path string) (playlist.Handle, error) {
	handle, err := playlist.Read(fs, path)
	if err != nil {
		return playlist.Handle{}, err
	}
	if entry, ok := lib.Lookup(path).Get(); ok {
		handle.Name = entry.Name
	}
	return handle, nil
}

// pickPlaylist asks the user to choose one of the registered playlists and returns its path.
func pickPlaylist() (string, error) {
	entries, err := newLibrary().List()
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.New("the library is empty, add playlists with `plplayer playlists add`")
	}

	var index int
	err = survey.AskOne(&survey.Select{
		Message: "Play",
		Options: lo.Map(entries, func(e library.Entry, _ int) string { return e.Name }),
		Description: func(_ string, i int) string {
			return entries[i].Path
		},
	}, &index)
	if err != nil {
		return "", err
	}

	return entries[index].Path, nil
}

func completionPlaylists(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	entries, err := newLibrary().List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}

	return lo.Map(entries, func(e library.Entry, _ int) string { return e.Name }), cobra.ShellCompDirectiveDefault
}
