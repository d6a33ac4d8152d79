package vm

// loader.go holds the minimal object loader: a program is a contiguous run
// of words and the address at which to place them. Callers supply words
// directly, or read them with ReadObjectCode from its minimal origin-plus-words
// stream; there is no assembler here.

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/maximot/pdp11/internal/log"
)

// ObjectCode is a sequence of words and the address at which to load them.
type ObjectCode struct {
	Orig Word
	Code []Word
}

// ErrObjectLoader is wrapped by errors the loader returns.
var ErrObjectLoader = errors.New("loader error")

// Loader stores object code into a machine's memory.
type Loader struct {
	mem *Memory
	log *log.Logger
}

// NewLoader creates a loader bound to mem.
func NewLoader(mem *Memory) *Loader {
	return &Loader{mem: mem, log: log.DefaultLogger()}
}

// Load stores obj.Code into memory starting at obj.Orig.
func (l *Loader) Load(obj ObjectCode) error {
	if len(obj.Code) == 0 {
		return fmt.Errorf("%w: object is empty", ErrObjectLoader)
	}

	addr := obj.Orig

	for _, word := range obj.Code {
		if err := l.mem.WriteWord(addr, word); err != nil {
			return fmt.Errorf("%w: %w", ErrObjectLoader, err)
		}

		addr += 2
	}

	l.log.Debug("loaded object", "orig", obj.Orig, "words", len(obj.Code))

	return nil
}

// LoadVector stores obj and points the interrupt/trap vector at vector to
// its origin address.
func (l *Loader) LoadVector(vector Word, obj ObjectCode) error {
	if err := l.Load(obj); err != nil {
		return err
	}

	if err := l.mem.WriteWord(vector, obj.Orig); err != nil {
		return fmt.Errorf("%w: %w", ErrObjectLoader, err)
	}

	return nil
}

// ReadObjectCode reads an object from r: a big-endian origin word followed
// by the words to load there. This is the emulator's only container format;
// it is not an assembler output format or a recognized binary standard.
func ReadObjectCode(r io.Reader) (ObjectCode, error) {
	var obj ObjectCode

	if err := binary.Read(r, binary.BigEndian, &obj.Orig); err != nil {
		return obj, fmt.Errorf("%w: reading origin: %w", ErrObjectLoader, err)
	}

	rest, err := io.ReadAll(r)
	if err != nil {
		return obj, fmt.Errorf("%w: %w", ErrObjectLoader, err)
	}

	if len(rest)%2 != 0 {
		return obj, fmt.Errorf("%w: odd number of code bytes", ErrObjectLoader)
	}

	obj.Code = make([]Word, len(rest)/2)
	if err := binary.Read(bytes.NewReader(rest), binary.BigEndian, obj.Code); err != nil {
		return obj, fmt.Errorf("%w: reading code: %w", ErrObjectLoader, err)
	}

	return obj, nil
}
