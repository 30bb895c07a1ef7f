// Package cmd implements the command-line interface for plplayer.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/plplayer/plplayer/color"
	"github.com/plplayer/plplayer/config"
	"github.com/plplayer/plplayer/icon"
	"github.com/plplayer/plplayer/key"
	"github.com/plplayer/plplayer/log"
	"github.com/plplayer/plplayer/player"
	"github.com/plplayer/plplayer/playlist"
	"github.com/plplayer/plplayer/session"
	"github.com/plplayer/plplayer/style"
	"github.com/plplayer/plplayer/tui"
	"github.com/plplayer/plplayer/util"
	"github.com/plplayer/plplayer/writer"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("output", "o", "", "Audio output mode")
	lo.Must0(playCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(player.Outputs(), func(m player.OutputMode, _ int) string { return m.String() }), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.PlayerOutput, playCmd.Flags().Lookup("output")))

	playCmd.Flags().Bool("headless", false, "Play without the interface until the playlist ends or the process is interrupted")
}

// playCmd resumes a playlist where it was left off.
var playCmd = &cobra.Command{
	Use:               "play [playlist]",
	Short:             "Play a playlist, resuming from its history",
	Long:              "Play a playlist file or a playlist registered in the library, resuming at the saved track and position.\nWithout an argument, pick one from the library.",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionPlaylists,
	Example:           "  plplayer play ~/Music/road-trip.m3u8\n  plplayer play \"road trip\" --output pulse",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(config.Validate())

		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			picked, err := pickPlaylist()
			handleErr(err)
			name = picked
		}

		handle, err := resolvePlaylist(name)
		handleErr(err)

		mode, err := player.ParseOutput(viper.GetString(key.PlayerOutput))
		handleErr(err)

		binary := viper.GetString(key.PlayerBinary)
		CheckDependencies(binary)

		if _, err := newLibrary().Add(handle); err != nil {
			log.Warnf("library: register %s: %s", handle.Path, err)
		}

		handleErr(play(handle, mode, binary, lo.Must(cmd.Flags().GetBool("headless"))))
	},
}

func play(handle playlist.Handle, mode player.OutputMode, binary string, headless bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := newStore()
	w := writer.New(store,
		writer.WithInterval(config.DebounceInterval()),
		writer.WithWake(config.WakePeriod()),
	)
	w.Start(ctx)

	retries, delay := config.ResumeWait()
	options := []session.Option{
		session.WithOutput(mode),
		session.WithPrevThreshold(config.PrevRestartThreshold()),
		session.WithResumeWait(retries, delay),
	}
	if headless {
		options = append(options, session.OnTrackChange(func(index int) {
			announce(handle, index)
		}))
	}

	s, err := session.New(store, w, player.NewMPVFactory(binary), options...)
	if err != nil {
		return errors.Join(err, w.Close())
	}

	if err := s.LoadPlaylist(handle); err != nil {
		return errors.Join(err, s.Close(), w.Close())
	}

	if headless {
		announce(handle, s.Index())
		err = runHeadless(ctx, s)
	} else {
		err = tui.Run(&tui.Options{Session: s})
	}

	return errors.Join(err, w.Close())
}

// runHeadless drives the session until the playlist ends or ctx is cancelled, then closes it.
func runHeadless(ctx context.Context, s *session.Session) error {
	loop := session.NewLoop(s,
		session.WithTickPeriod(config.TickPeriod()),
		session.StopAtEnd(),
	)

	err := loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	if s.Halted() {
		fmt.Printf("%s %s finished\n", style.Fg(color.Finished)(icon.Get(icon.Check)), playlistLabel(s))
	}

	return errors.Join(err, s.Close())
}

func playlistLabel(s *session.Session) string {
	return style.Fg(color.Purple)(s.Handle().String())
}

func announce(h playlist.Handle, index int) {
	if index < 0 || index >= h.Len() {
		return
	}

	fmt.Printf(
		"%s %s %s %s\n",
		style.Fg(color.Playing)(icon.Get(icon.Play)),
		style.Faint(fmt.Sprintf("%d/%d", index+1, h.Len())),
		util.FileStem(h.Tracks[index]),
		style.Faint(h.String()),
	)
}
