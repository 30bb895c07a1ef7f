// Package cmd implements the command-line interface for plplayer.
package cmd

import (
	"errors"
	"os"
	"runtime"
	"strings"
	"text/template"

	"github.com/plplayer/plplayer/color"
	"github.com/plplayer/plplayer/constant"
	"github.com/plplayer/plplayer/key"
	"github.com/plplayer/plplayer/style"
	"github.com/plplayer/plplayer/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Display only the version string without metadata")
}

var versionTemplate = lo.Must(template.New("version").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"bold":    style.Bold,
	"magenta": style.Fg(color.Purple),
	"red":     style.Fg(color.Red),
}).Parse(`{{ magenta "▇▇▇" }} {{ magenta .App }}

  {{ faint "Version" }}         {{ bold .Version }}
  {{ faint "Git Commit" }}      {{ bold .Revision }}
  {{ faint "Build Date" }}      {{ bold .BuiltAt }}
  {{ faint "Built By" }}        {{ bold .BuiltBy }}
  {{ faint "Platform" }}        {{ bold .OS }}/{{ bold .Arch }}
  {{ faint "Engine" }}          {{ if .EngineErr }}{{ red .EngineErr }}{{ else }}{{ bold .Engine }}{{ end }}
`))

// versionCmd displays application version and build metadata.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version and build metadata",
	Long:  "Display the application version, build revision, platform and the version of the media engine in use.",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		binary := viper.GetString(key.PlayerBinary)
		engine, err := version.MPV(binary)

		var engineErr string
		switch {
		case errors.Is(err, version.ErrUnknown):
			engine = binary + " (development build)"
		case err != nil:
			engineErr = err.Error()
		default:
			engine = binary + " " + engine
		}

		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), struct {
			App, Version, Revision, BuiltAt, BuiltBy string
			OS, Arch                                 string
			Engine, EngineErr                        string
		}{
			App:       constant.Plplayer,
			Version:   constant.Version,
			Revision:  constant.Revision,
			BuiltAt:   strings.TrimSpace(constant.BuiltAt),
			BuiltBy:   constant.BuiltBy,
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			Engine:    engine,
			EngineErr: engineErr,
		}))
	},
}
