package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/maximot/pdp11/internal/cli"
	"github.com/maximot/pdp11/internal/log"
	"github.com/maximot/pdp11/internal/vm"
)

// Demo is a demonstration command.
func Demo() cli.Command {
	return new(demo)
}

type demo struct {
	debug bool
	quiet bool
}

func (demo) Description() string {
	return "run demo program"
}

func (d demo) Usage(out io.Writer) error {
	var err error
	_, err = fmt.Fprintln(out, `
demo [ -debug | -quiet ]

Run a short demonstration program that writes a greeting to the console and
halts.`)

	return err
}

func (d *demo) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)

	fs.BoolVar(&d.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&d.quiet, "quiet", false, "enable quiet output, console output only")

	return fs
}

func (d demo) Run(ctx context.Context, args []string, out io.Writer, _ *log.Logger) int {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if d.quiet {
		log.LogLevel.Set(log.Error)
	}

	if d.debug {
		log.LogLevel.Set(log.Debug)
	}

	logger := log.NewFormattedLogger(os.Stdout)
	log.SetDefault(logger)
	log.DefaultLogger = func() *log.Logger { return logger }

	logger.Info("Initializing machine")

	machine := vm.New()

	logger.Info("Loading program")

	// MOV #char,@#0xFF76 writes one byte to the transmit buffer; repeated
	// for each character of the greeting, then HALT.
	const greeting = "PDP11\r\n"

	code := []vm.Word{}
	for _, c := range greeting {
		code = append(code,
			0x15DF,           // MOV (PC)+,@(PC)+ (immediate source, absolute destination)
			vm.Word(c),       // the character, as the MOV immediate operand
			vm.XBUFAddr,      // the absolute destination address
		)
	}

	code = append(code, 0x0000) // HALT

	obj := vm.ObjectCode{Orig: 0x0200, Code: code}

	if err := machine.Load(obj); err != nil {
		logger.Error("error loading code", "err", err)
		return 2
	}

	logger.Info("Starting machine")

	err := machine.Run(ctx, os.Stdin, out)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("Demo timeout")
	case err != nil:
		logger.Error(err.Error())
	}

	logger.Info("Demo completed")

	return 0
}
