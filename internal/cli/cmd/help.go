package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/maximot/pdp11/internal/cli"
	"github.com/maximot/pdp11/internal/log"
)

// progName and tagline identify the binary in generated usage text; both
// come from a single place so the banner, the invocation line, and every
// per-command usage prefix stay in sync.
const (
	progName = "pdp11"
	tagline  = "an emulator for a PDP-11-class minicomputer"
)

type help struct {
	cmd []cli.Command
}

var _ cli.Command = (*help)(nil)

func (help) Description() string {
	return "display help for commands"
}

func (h help) FlagSet() *cli.FlagSet {
	return flag.NewFlagSet("help", flag.ExitOnError)
}

func (h help) Run(_ context.Context, args []string, out io.Writer, log *log.Logger) int {
	if len(args) == 1 {
		for _, cmd := range h.cmd {
			if args[0] == cmd.FlagSet().Name() {
				h.printCommandHelp(cmd)
			}
		}
	} else {
		out := flag.CommandLine.Output()
		if err := h.Usage(out); err != nil {
			return 1
		}
	}

	return 0
}

func (h *help) Usage(out io.Writer) error {
	fmt.Fprintf(out, "\n%s is %s.\n\nUsage:\n\n        %s <command> [option]... [arg]...\n\nCommands:\n",
		progName, tagline, progName)

	for _, cmd := range h.commands() {
		fs := cmd.FlagSet()
		fmt.Fprintf(out, "  %-20s %s\n", fs.Name(), cmd.Description())
	}

	_, err := fmt.Fprintf(out, "\nUse `%s help <command>` to get help for a command.\n", progName)

	return err
}

// commands returns every registered sub-command plus help itself, so Usage
// doesn't special-case its own entry separately from the rest.
func (h *help) commands() []cli.Command {
	return append(append([]cli.Command(nil), h.cmd...), h)
}

func (h *help) printCommandHelp(cmd cli.Command) {
	out := flag.CommandLine.Output()
	_ = cmd.FlagSet().Parse(nil)

	fmt.Fprintf(out, "Usage:\n\n        %s ", progName)

	if err := cmd.Usage(out); err != nil {
		return
	}

	fmt.Fprintln(out, "\nOptions:")
	cmd.FlagSet().PrintDefaults()
}

func Help(cmd []cli.Command) *help {
	return &help{
		cmd: cmd,
	}
}
