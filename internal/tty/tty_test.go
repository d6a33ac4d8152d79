// Package tty_test tries to test ttys.
//
// The test is skipped when stdin is not a terminal (ErrNoTTY). Notably, this includes when run with
// "go test" because it redirects tests' standard input/output streams. You can test it by building
// a test binary and running it directly:
//
//	$ go test -c && ./tty.test
package tty_test

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/maximot/pdp11/internal/tty"
)

func TestConsole(t *testing.T) {
	var out bytes.Buffer

	console, err := tty.NewConsole(os.Stdin, &out)
	if errors.Is(err, tty.ErrNoTTY) {
		t.Skipf("error: %s", err)
	} else if err != nil {
		t.Fatalf("error: %s", err)
	}

	defer func() {
		if err := console.Restore(); err != nil {
			t.Errorf("restore: %s", err)
		}
	}()

	n, err := console.Write([]byte("ELSIE\r\n"))
	if err != nil {
		t.Fatalf("write: %s", err)
	}

	if n != len("ELSIE\r\n") {
		t.Errorf("wrote %d bytes, want %d", n, len("ELSIE\r\n"))
	}

	if out.String() != "ELSIE\r\n" {
		t.Errorf("wrote %q, want %q", out.String(), "ELSIE\r\n")
	}
}
