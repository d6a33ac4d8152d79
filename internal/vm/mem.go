package vm

// mem.go is the machine's 64 KiB address space, including the mapped-cell
// mechanism that lets devices and the PSW expose registers as ordinary memory
// locations.

import (
	"errors"
	"fmt"
	"sync"

	"github.com/maximot/pdp11/internal/log"
)

// AddrSpace is the size of the logical address space in bytes.
const AddrSpace = 1 << 16

// Memory is the machine's byte-addressable address space. It multiplexes
// plain storage with mapped cells bound by devices and the CPU's own status
// register.
//
// Memory is shared by the CPU thread, the console device thread, and the
// keyboard reader thread. All entry points take the memory lock; mapped
// cells carry their own interior lock so devices can update their registers
// without contending with the CPU on every tick. Lock order is always memory
// then cell, never the reverse.
type Memory struct {
	mu   sync.Mutex
	cell [AddrSpace]byte

	mapped map[Word]MappedCell

	log *log.Logger
}

// MappedCell is an externally owned word-sized register bound to an address.
// Binding a cell at an even address overrides the backing byte array for
// reads and writes at that address (and, for byte accesses, its odd
// sibling).
type MappedCell interface {
	ReadWord() Word
	WriteWord(Word)
}

// NewMemory creates an empty 64 KiB address space.
func NewMemory() *Memory {
	return &Memory{
		mapped: make(map[Word]MappedCell),
		log:    log.DefaultLogger(),
	}
}

// ErrAddress is returned for an out-of-range or misaligned address.
var ErrAddress = errors.New("memory: invalid address")

// ReadByte returns the byte at addr.
func (m *Memory) ReadByte(addr Word) Byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.readByteLocked(addr)
}

func (m *Memory) readByteLocked(addr Word) Byte {
	if cell, base, ok := m.cellForLocked(addr); ok {
		word := cell.ReadWord()
		if addr == base {
			return word.Low()
		}

		return word.High()
	}

	return Byte(m.cell[addr])
}

// WriteByte writes a byte at addr, preserving the other half of any mapped
// word at that address.
func (m *Memory) WriteByte(addr Word, val Byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cell[addr] = byte(val)

	if cell, base, ok := m.cellForLocked(addr); ok {
		word := cell.ReadWord()
		if addr == base {
			word = WordFromBytes(val, word.High())
		} else {
			word = WordFromBytes(word.Low(), val)
		}

		cell.WriteWord(word)
	}
}

// ReadWord returns the word at the even address addr.
func (m *Memory) ReadWord(addr Word) (Word, error) {
	if addr&1 != 0 {
		return 0, fmt.Errorf("%w: odd address %s", ErrAddress, addr)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if cell, ok := m.mapped[addr]; ok {
		return cell.ReadWord(), nil
	}

	return WordFromBytes(Byte(m.cell[addr]), Byte(m.cell[addr+1])), nil
}

// WriteWord writes a word at the even address addr.
func (m *Memory) WriteWord(addr Word, val Word) error {
	if addr&1 != 0 {
		return fmt.Errorf("%w: odd address %s", ErrAddress, addr)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.cell[addr] = byte(val.Low())
	m.cell[addr+1] = byte(val.High())

	if cell, ok := m.mapped[addr]; ok {
		cell.WriteWord(val)
	}

	return nil
}

// MapWord binds a mapped cell at the even address addr, replacing any prior
// binding.
func (m *Memory) MapWord(addr Word, cell MappedCell) error {
	if addr&1 != 0 {
		return fmt.Errorf("%w: odd address %s", ErrAddress, addr)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.mapped[addr] = cell

	m.log.Debug("mapped cell", "addr", addr)

	return nil
}

// UnmapWord releases the binding at addr, materializing the cell's last
// value into the backing array so future plain reads observe it.
func (m *Memory) UnmapWord(addr Word) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cell, ok := m.mapped[addr]; ok {
		val := cell.ReadWord()
		m.cell[addr] = byte(val.Low())
		m.cell[addr+1] = byte(val.High())
		delete(m.mapped, addr)
	}

	m.log.Debug("unmapped cell", "addr", addr)
}

// cellForLocked returns the mapped cell that covers addr (either bound there
// directly or at its even/odd sibling) along with the address it is bound at.
func (m *Memory) cellForLocked(addr Word) (MappedCell, Word, bool) {
	base := addr &^ 1
	if cell, ok := m.mapped[base]; ok {
		return cell, base, true
	}

	return nil, 0, false
}

// RegisterCell adapts a PSW variable to the MappedCell interface. It is
// used to mirror the PSW into the address space.
type RegisterCell struct {
	Reg *PSW
}

// ReadWord returns the current register value.
func (c RegisterCell) ReadWord() Word { return Word(*c.Reg) }

// WriteWord sets the register value.
func (c RegisterCell) WriteWord(w Word) { *c.Reg = PSW(w) }
