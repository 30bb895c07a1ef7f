// Package cmd implements the command-line interface for plplayer.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/muesli/reflow/truncate"
	"github.com/plplayer/plplayer/color"
	"github.com/plplayer/plplayer/filesystem"
	"github.com/plplayer/plplayer/history"
	"github.com/plplayer/plplayer/icon"
	"github.com/plplayer/plplayer/style"
	"github.com/plplayer/plplayer/util"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
}

// historyCmd groups commands that inspect the resume state kept beside each playlist.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or reset the resume state of a playlist",
}

func init() {
	historyCmd.AddCommand(historyShowCmd)
	historyShowCmd.Flags().BoolP("json", "j", false, "Print the stored record as JSON")
	historyShowCmd.SetOut(os.Stdout)
}

var historyShowCmd = &cobra.Command{
	Use:               "show <playlist>",
	Short:             "Show where a playlist will resume",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionPlaylists,
	Run: func(cmd *cobra.Command, args []string) {
		handle, err := resolvePlaylist(args[0])
		handleErr(err)

		store := newStore()
		paths := store.Paths(handle.Path)

		record, err := store.Read(handle.Path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			cmd.Printf("%s %s has no history yet\n", icon.Get(icon.Playlist), style.Fg(color.Purple)(handle.String()))
			return
		case errors.Is(err, history.ErrCorrupt):
			cmd.Printf("%s %s is corrupt, the backup will be used\n", style.Fg(color.Yellow)(icon.Get(icon.Fail)), paths.Primary)
			record = readBackup(paths)
		default:
			handleErr(err)
		}

		record = record.Clamp(handle.Len())

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(record))
			return
		}

		width := 80
		if w, _, err := util.TerminalSize(); err == nil && w > 0 {
			width = w
		}

		var track string
		if handle.Len() > 0 {
			track = handle.Tracks[record.TrackIndex]
		}

		cmd.Printf("%s %s\n", icon.Get(icon.Playlist), style.Bold(handle.String()))
		cmd.Printf("  %s %s\n", style.Faint("file    "), truncate.StringWithTail(paths.Primary, uint(util.Max(width-12, 10)), "…"))
		cmd.Printf("  %s %d/%d %s\n", style.Faint("track   "), record.TrackIndex+1, handle.Len(), truncate.StringWithTail(util.FileStem(track), uint(util.Max(width-20, 10)), "…"))
		cmd.Printf("  %s %s\n", style.Faint("position"), util.FormatSeconds(record.Position))
		cmd.Printf("  %s %s\n", style.Faint("finished"), util.Quantify(len(record.Finished), "track", "tracks"))
	},
}

// readBackup parses the previous generation directly, without repairing the primary.
func readBackup(paths history.Paths) history.Record {
	raw, err := afero.ReadFile(filesystem.API(), paths.Backup)
	if err != nil {
		return history.Default()
	}

	record := history.Default()
	if err := json.Unmarshal(raw, &record); err != nil {
		return history.Default()
	}
	return record
}

func init() {
	historyCmd.AddCommand(historyResetCmd)
}

var historyResetCmd = &cobra.Command{
	Use:               "reset <playlist>",
	Short:             "Forget the resume state of a playlist so it starts from the top",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionPlaylists,
	Run: func(cmd *cobra.Command, args []string) {
		handle, err := resolvePlaylist(args[0])
		handleErr(err)

		handleErr(newStore().Reset(handle.Path))
		fmt.Printf("%s reset %s\n", style.Fg(color.Green)(icon.Get(icon.Check)), style.Fg(color.Purple)(handle.String()))
	},
}

func init() {
	historyCmd.AddCommand(historySchemaCmd)
	historySchemaCmd.SetOut(os.Stdout)
}

var historySchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of history files",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(history.Schema()))
	},
}
