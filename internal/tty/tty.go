// Package tty adapts a host terminal to the machine's console, putting the
// terminal in raw mode so the DL11 emulation sees one byte per keystroke and
// restoring it on exit.
package tty

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Console is a raw-mode terminal wired directly to the machine's console as
// an io.Reader and io.Writer: keystrokes pass through to the receiver
// register untranslated, and transmitted bytes are written straight to the
// terminal.
type Console struct {
	in    *os.File
	out   io.Writer
	fd    int
	state *term.State
}

// ErrNoTTY is returned if standard input is not a terminal. In this case, the
// caller should fall back to unadorned stdin/stdout.
var ErrNoTTY error = errors.New("console: not a TTY")

// NewConsole puts sin into raw mode and returns a Console reading from sin
// and writing to sout. Callers are responsible for calling Restore to return
// the terminal to its initial state.
func NewConsole(sin *os.File, sout io.Writer) (*Console, error) {
	fd := int(sin.Fd())

	if !term.IsTerminal(fd) {
		return nil, ErrNoTTY
	}

	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoTTY, err)
	}

	return &Console{in: sin, out: sout, fd: fd, state: saved}, nil
}

// Read reads raw keystrokes from the terminal.
func (c *Console) Read(p []byte) (int, error) {
	return c.in.Read(p)
}

// Write writes transmitted bytes to the terminal.
func (c *Console) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

// Restore returns the terminal to the state it was in before NewConsole.
func (c *Console) Restore() error {
	return term.Restore(c.fd, c.state)
}
