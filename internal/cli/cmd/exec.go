package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/maximot/pdp11/internal/cli"
	"github.com/maximot/pdp11/internal/log"
	"github.com/maximot/pdp11/internal/tty"
	"github.com/maximot/pdp11/internal/vm"
)

func Executor() cli.Command {
	exec := &executor{log: log.DefaultLogger()}
	return exec
}

type executor struct {
	logLevel slog.Level
	log      *log.Logger
}

func (executor) Description() string {
	return "run a program"
}

func (executor) Usage(out io.Writer) error {
	var err error
	_, err = fmt.Fprintln(out, `run program.bin

Runs an executable in the emulator.`)

	return err
}

func (ex *executor) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.Func("loglevel", "set log `level`", func(s string) error {
		return ex.logLevel.UnmarshalText([]byte(s))
	})

	return fs
}

// Run executes the program named by args[0].
func (ex *executor) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger,
) int {
	log.LogLevel.Set(ex.logLevel)

	if len(args) == 0 {
		logger.Error("no program given")
		return -1
	}

	obj, err := ex.loadCode(args[0])
	if err != nil {
		logger.Error("Error loading code", "err", err)
		return -1
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(context.Canceled)

	ctx, cancelTimeout := context.WithTimeout(ctx, 30*time.Second)
	defer cancelTimeout()

	logger.Debug("Initializing machine")

	machine := vm.New()

	if err := machine.Load(obj); err != nil {
		logger.Error(err.Error())
		return 1
	}

	logger.Debug("Loaded program", "file", args[0], "orig", obj.Orig, "words", len(obj.Code))

	var in io.Reader = os.Stdin
	var out io.Writer = stdout

	if console, err := tty.NewConsole(os.Stdin, stdout); err == nil {
		logger.Debug("Using raw terminal console")

		in, out = console, console

		defer func() {
			if err := console.Restore(); err != nil {
				logger.Error("Restoring terminal", "ERR", err)
			}
		}()
	} else if !errors.Is(err, tty.ErrNoTTY) {
		logger.Error("Opening console", "ERR", err)
	}

	go func(cancel context.CancelCauseFunc) {
		logger.Info("Starting machine")

		err := machine.Run(ctx, in, out)

		switch {
		case errors.Is(err, context.DeadlineExceeded):
			logger.Warn("Run timeout")
			return
		case err != nil:
			cancel(err)
			return
		default:
			cancel(context.Canceled)
		}
	}(cancel)

	<-ctx.Done()

	if err := context.Cause(ctx); errors.Is(err, context.DeadlineExceeded) {
		logger.Error("Run timeout!")
		return 2
	} else if errors.Is(err, context.Canceled) {
		logger.Info("Program completed")
		return 0
	} else if err != nil {
		logger.Error("Program error", "ERR", err)
		return 2
	}

	return 0
}

func (ex executor) loadCode(fn string) (vm.ObjectCode, error) {
	ex.log.Debug("Loading executable", "file", fn)

	file, err := os.Open(fn)
	if err != nil {
		return vm.ObjectCode{}, err
	}
	defer file.Close()

	obj, err := vm.ReadObjectCode(file)
	if err != nil {
		ex.log.Error(err.Error())
		return vm.ObjectCode{}, err
	}

	ex.log.Debug("Loaded file", "orig", obj.Orig, "words", len(obj.Code))

	return obj, nil
}
