package cmd

import (
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// pathTarget is an application path that a command can select with a boolean flag.
type pathTarget struct {
	name  string
	long  string
	short mo.Option[string]
	path  func() string
}

// bind registers the target's flag on cmd.
func (t pathTarget) bind(cmd *cobra.Command, usage string) {
	short, ok := t.short.Get()
	if ok {
		cmd.Flags().BoolP(t.long, short, false, usage)
		return
	}
	cmd.Flags().Bool(t.long, false, usage)
}

// selected reports whether the target's flag was set on cmd.
func (t pathTarget) selected(cmd *cobra.Command) bool {
	return lo.Must(cmd.Flags().GetBool(t.long))
}
