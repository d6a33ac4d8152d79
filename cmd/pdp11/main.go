// cmd/pdp11 is the command-line interface to pdp11, a PDP-11-class
// minicomputer simulator and tool suite.
package main

import (
	"context"
	"os"

	"github.com/maximot/pdp11/internal/cli"
	"github.com/maximot/pdp11/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Executor(),
	cmd.Demo(),
}

// Entry point.
func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
