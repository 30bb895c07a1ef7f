package cmd

import (
	"os"

	"github.com/plplayer/plplayer/color"
	"github.com/plplayer/plplayer/style"
	"github.com/plplayer/plplayer/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

type whereTarget struct {
	pathTarget
	hidden bool
}

// History files are not listed here; `where --history` resolves them per playlist.
var whereTargets = []whereTarget{
	{pathTarget{"Config", "config", mo.Some("c"), where.Config}, false},
	{pathTarget{"Library", "library", mo.Some("p"), where.Library}, false},
	{pathTarget{"Logs", "logs", mo.Some("l"), where.Logs}, false},
	{pathTarget{"Temp", "temp", mo.None[string](), where.Temp}, true},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, t := range whereTargets {
		t.bind(whereCmd, t.name+" path")
		if t.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(t.long))
		}
	}

	whereCmd.Flags().String("history", "", "History file of the given playlist")
	lo.Must0(whereCmd.RegisterFlagCompletionFunc("history", completionPlaylists))

	exclusive := lo.Map(whereTargets, func(t whereTarget, _ int) string { return t.long })
	whereCmd.MarkFlagsMutuallyExclusive(append(exclusive, "history")...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where plplayer keeps its files",
	Run: func(cmd *cobra.Command, args []string) {
		if name := lo.Must(cmd.Flags().GetString("history")); name != "" {
			handle, err := resolvePlaylist(name)
			handleErr(err)

			paths := newStore().Paths(handle.Path)
			cmd.Println(paths.Primary)
			cmd.Println(paths.Backup)
			return
		}

		if t, ok := lo.Find(whereTargets, func(t whereTarget) bool { return t.selected(cmd) }); ok {
			cmd.Println(t.path())
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		visible := lo.Reject(whereTargets, func(t whereTarget, _ int) bool { return t.hidden })
		for i, t := range visible {
			if i > 0 {
				cmd.Println()
			}
			cmd.Printf("%s %s\n", header(t.name+"?"), style.Fg(color.Yellow)("--"+t.long))
			cmd.Println(t.path())
		}
	},
}
