// Package cmd implements the command-line interface for plplayer.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/plplayer/plplayer/color"
	"github.com/plplayer/plplayer/filesystem"
	"github.com/plplayer/plplayer/history"
	"github.com/plplayer/plplayer/icon"
	"github.com/plplayer/plplayer/key"
	"github.com/plplayer/plplayer/library"
	"github.com/plplayer/plplayer/playlist"
	"github.com/plplayer/plplayer/style"
	"github.com/plplayer/plplayer/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playlistsCmd)
}

// playlistsCmd manages the library of known playlists.
var playlistsCmd = &cobra.Command{
	Use:     "playlists",
	Aliases: []string{"library", "ls"},
	Short:   "Manage the library of known playlists",
}

func init() {
	playlistsCmd.AddCommand(playlistsAddCmd)
}

var playlistsAddCmd = &cobra.Command{
	Use:   "add <file>...",
	Short: "Register playlist files so they can be played by name",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lib := newLibrary()

		for _, path := range args {
			if !playlist.IsPlaylist(path) {
				handleErr(fmt.Errorf("%s is not a playlist file", path))
			}

			handle, err := playlist.Read(filesystem.API(), path)
			handleErr(err)

			entry, err := lib.Add(handle)
			handleErr(err)

			fmt.Printf(
				"%s added %s %s\n",
				style.Fg(color.Green)(icon.Get(icon.Check)),
				style.Fg(color.Purple)(entry.Name),
				style.Faint(util.Quantify(handle.Len(), "track", "tracks")),
			)
		}
	},
}

func init() {
	playlistsCmd.AddCommand(playlistsListCmd)
	playlistsListCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	playlistsListCmd.SetOut(os.Stdout)
}

var playlistsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered playlists",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := newLibrary().List()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(entries))
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("no playlists yet, add some with `plplayer playlists add` or `plplayer playlists scan`"))
			return
		}

		store := newStore()
		for _, entry := range entries {
			line := fmt.Sprintf("%s %s", icon.Get(icon.Playlist), style.Bold(entry.Name))
			if record, err := store.Read(entry.Path); err == nil {
				line += " " + style.Faint(fmt.Sprintf("track %d at %s", record.TrackIndex+1, util.FormatSeconds(record.Position)))
			}
			cmd.Println(line)
			cmd.Println("  " + style.Faint(entry.Path))
		}
	},
}

func init() {
	playlistsCmd.AddCommand(playlistsRenameCmd)
}

var playlistsRenameCmd = &cobra.Command{
	Use:               "rename <playlist> <name>",
	Short:             "Change the name a playlist is shown and found by",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completionPlaylists,
	Example:           "  plplayer playlists rename ~/Music/mix.m3u8 \"Road Trip\"",
	Run: func(cmd *cobra.Command, args []string) {
		handle, err := resolvePlaylist(args[0])
		handleErr(err)

		entry, err := renamePlaylist(newLibrary(), newStore(), handle, args[1])
		handleErr(err)

		fmt.Printf(
			"%s renamed %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Check)),
			style.Faint(handle.Name),
			style.Fg(color.Purple)(entry.Name),
		)
	},
}

// renamePlaylist registers the playlist if needed, renames it in the library and stores the
// new name as the display name of its history.
func renamePlaylist(lib *library.Library, store *history.Store, handle playlist.Handle, name string) (library.Entry, error) {
	if lib.Lookup(handle.Path).IsAbsent() {
		if _, err := lib.Add(handle); err != nil {
			return library.Entry{}, err
		}
	}

	entry, err := lib.Rename(handle.Path, name)
	if err != nil {
		return library.Entry{}, err
	}

	if err := store.EnsureName(handle.Path, entry.Name); err != nil {
		return entry, fmt.Errorf("store display name: %w", err)
	}
	return entry, nil
}

func init() {
	playlistsCmd.AddCommand(playlistsRemoveCmd)
	playlistsRemoveCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

var playlistsRemoveCmd = &cobra.Command{
	Use:               "remove <playlist>",
	Aliases:           []string{"rm"},
	Short:             "Unregister a playlist. The file and its history are kept",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionPlaylists,
	Run: func(cmd *cobra.Command, args []string) {
		lib := newLibrary()

		entry, ok := lib.Find(args[0]).Get()
		if !ok {
			handleErr(fmt.Errorf("%w: %s", library.ErrNotFound, args[0]))
		}

		if !lo.Must(cmd.Flags().GetBool("yes")) {
			var confirmed bool
			handleErr(survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf("Remove %s from the library?", entry.Name),
				Default: true,
			}, &confirmed))

			if !confirmed {
				return
			}
		}

		handleErr(lib.Remove(entry.Path))
		fmt.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.Check)), style.Fg(color.Purple)(entry.Name))
	},
}

func init() {
	playlistsCmd.AddCommand(playlistsScanCmd)
	playlistsScanCmd.Flags().BoolP("recursive", "r", true, "Descend into sub-directories")
	lo.Must0(viper.BindPFlag(key.LibraryRecursiveScan, playlistsScanCmd.Flags().Lookup("recursive")))
}

var playlistsScanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Find playlist files in a directory and register them",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		handles, err := playlist.Scan(filesystem.API(), root, viper.GetBool(key.LibraryRecursiveScan))
		handleErr(err)

		lib := newLibrary()
		for _, handle := range handles {
			_, err := lib.Add(handle)
			handleErr(err)
			fmt.Printf("%s %s\n", icon.Get(icon.Playlist), handle.String())
		}

		fmt.Printf(
			"%s found %s in %s\n",
			style.Fg(color.Green)(icon.Get(icon.Check)),
			util.Quantify(len(handles), "playlist", "playlists"),
			root,
		)
	},
}
