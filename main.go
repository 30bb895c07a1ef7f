// Package main is the entry point for plplayer.
package main

import (
	"github.com/plplayer/plplayer/cmd"
	"github.com/plplayer/plplayer/config"
	"github.com/plplayer/plplayer/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
