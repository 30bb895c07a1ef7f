package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/plplayer/plplayer/filesystem"
	"github.com/plplayer/plplayer/icon"
	"github.com/plplayer/plplayer/internal/sweep"
	"github.com/plplayer/plplayer/util"
	"github.com/plplayer/plplayer/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

type clearTarget struct {
	pathTarget
	confirm bool
	clear   func(path string) error
}

// clearSockets removes every engine socket under dir that no running engine listens on.
func clearSockets(dir string) error {
	sweep.Stale(filesystem.API(), dir, time.Now().Add(sweep.MinAge))
	return nil
}

// History files beside playlists are never a clear target.
var clearTargets = []clearTarget{
	{pathTarget{"playlist library", "library", mo.Some("p"), where.Library}, true, util.Delete},
	{pathTarget{"log files", "logs", mo.Some("l"), where.Logs}, false, util.Delete},
	{pathTarget{"temporary files", "temp", mo.Some("t"), where.Temp}, false, clearSockets},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, t := range clearTargets {
		t.bind(clearCmd, "clear "+t.name)
	}
	clearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the library, logs or temporary files",
	Run: func(cmd *cobra.Command, args []string) {
		selected := lo.Filter(clearTargets, func(t clearTarget, _ int) bool { return t.selected(cmd) })
		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		yes := lo.Must(cmd.Flags().GetBool("yes"))
		for _, t := range selected {
			if t.confirm && !yes && !confirm(fmt.Sprintf("Clear the %s?", t.name)) {
				continue
			}

			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Stop), t.name))
			err := t.clear(t.path())
			erase()
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				handleErr(err)
			}
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Check), util.Capitalize(t.name))
		}
	},
}

func confirm(message string) bool {
	var ok bool
	handleErr(survey.AskOne(&survey.Confirm{Message: message}, &ok))
	return ok
}
