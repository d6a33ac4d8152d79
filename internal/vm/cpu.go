package vm

// cpu.go defines the CPU: registers, the processor status word, the
// addressing-mode evaluator, and the stack and trap/interrupt sequencing that
// every instruction family builds on.

import (
	"errors"
	"fmt"

	"github.com/maximot/pdp11/internal/log"
)

// CPU is the processor: eight general registers, a status word, an
// instruction register, and the memory and interrupt bus it operates on.
type CPU struct {
	Reg RegisterFile
	PSW PSW
	IR  Instruction

	running bool
	waiting bool

	// deferTrace postpones T-bit trap recognition for one instruction after
	// RTT, per the architecture's RTT semantics (distinct from RTI).
	deferTrace bool

	Mem *Memory
	INT *InterruptBus

	log *log.Logger
}

// NewCPU creates a CPU bound to the given memory and interrupt bus. The PSW
// is mirrored into memory at PSWAddr for the lifetime of the CPU; call Reset
// to bind it and Halt to release it.
func NewCPU(mem *Memory, bus *InterruptBus) *CPU {
	return &CPU{
		Mem: mem,
		INT: bus,
		log: log.DefaultLogger(),
	}
}

// PSWAddr is the address at which the PSW is mirrored into memory.
const PSWAddr Word = 0xFFFE

// Reset initializes registers to their power-on state, starting PC and SP at
// ResetPC/ResetSP and binding the PSW into the address space.
func (cpu *CPU) Reset() {
	cpu.Reg = RegisterFile{}
	cpu.Reg[SP] = Register(ResetSP)
	cpu.Reg[PC] = Register(ResetPC)
	cpu.PSW = 0
	cpu.running = true
	cpu.waiting = false

	_ = cpu.Mem.MapWord(PSWAddr, RegisterCell{Reg: &cpu.PSW})

	cpu.log.Info("cpu reset", "PC", cpu.Reg[PC], "SP", cpu.Reg[SP])
}

// Halt releases the PSW binding and stops the instruction loop.
func (cpu *CPU) Halt() {
	cpu.running = false
	cpu.Mem.UnmapWord(PSWAddr)

	cpu.log.Info("cpu halted")
}

// Running reports whether the CPU's instruction loop should continue.
func (cpu *CPU) Running() bool { return cpu.running }

// Push decrements SP by two and stores val at the new SP.
func (cpu *CPU) Push(val Word) error {
	cpu.Reg[SP] -= 2
	return cpu.Mem.WriteWord(Word(cpu.Reg[SP]), val)
}

// Pop loads the word at SP and increments SP by two.
func (cpu *CPU) Pop() (Word, error) {
	val, err := cpu.Mem.ReadWord(Word(cpu.Reg[SP]))
	if err != nil {
		return 0, err
	}

	cpu.Reg[SP] += 2

	return val, nil
}

// ErrHalted is returned by Step when called on a halted CPU.
var ErrHalted = errors.New("cpu: halted")

// Trap performs the common trap/interrupt sequence: push the current PSW and
// PC, then load the new PC and PSW from the vector pair at vector.
func (cpu *CPU) Trap(vector Word) error {
	oldPSW := cpu.PSW
	oldPC := Word(cpu.Reg[PC])

	newPC, err := cpu.Mem.ReadWord(vector)
	if err != nil {
		return fmt.Errorf("trap: %w", err)
	}

	newPSW, err := cpu.Mem.ReadWord(vector + 2)
	if err != nil {
		return fmt.Errorf("trap: %w", err)
	}

	if err := cpu.Push(Word(oldPSW)); err != nil {
		return fmt.Errorf("trap: %w", err)
	}

	if err := cpu.Push(oldPC); err != nil {
		return fmt.Errorf("trap: %w", err)
	}

	cpu.Reg[PC] = Register(newPC)
	cpu.PSW = PSW(newPSW)
	cpu.waiting = false

	cpu.log.Debug("trap", "vector", vector, "PC", cpu.Reg[PC], "PSW", cpu.PSW)

	return nil
}

// Return reverses Trap: it pops PC then PSW, as used by RTI and RTT.
func (cpu *CPU) Return() error {
	newPC, err := cpu.Pop()
	if err != nil {
		return fmt.Errorf("rti: %w", err)
	}

	newPSW, err := cpu.Pop()
	if err != nil {
		return fmt.Errorf("rti: %w", err)
	}

	cpu.Reg[PC] = Register(newPC)
	cpu.PSW = PSW(newPSW)

	return nil
}

// addressingMode and register fields of a six-bit operand specifier.
type addressingMode uint8

const (
	modeRegister addressingMode = iota
	modeRegisterDeferred
	modeAutoincrement
	modeAutoincrementDeferred
	modeAutodecrement
	modeAutodecrementDeferred
	modeIndex
	modeIndexDeferred
)

// Operand is the result of evaluating an operand specifier: either a direct
// register reference or a resolved effective address.
type Operand struct {
	reg    GPR
	isReg  bool
	addr   Word
}

// ReadWord returns the operand's word value.
func (o Operand) ReadWord(cpu *CPU) Word {
	if o.isReg {
		return Word(cpu.Reg[o.reg])
	}

	w, err := cpu.Mem.ReadWord(o.addr)
	if err != nil {
		cpu.log.Error("operand read fault", "addr", o.addr, "err", err)
	}

	return w
}

// WriteWord stores val into the operand.
func (o Operand) WriteWord(cpu *CPU, val Word) {
	if o.isReg {
		cpu.Reg[o.reg] = Register(val)
		return
	}

	if err := cpu.Mem.WriteWord(o.addr, val); err != nil {
		cpu.log.Error("operand write fault", "addr", o.addr, "err", err)
	}
}

// ReadByte returns the operand's byte value. Register operands yield their
// low byte.
func (o Operand) ReadByte(cpu *CPU) Byte {
	if o.isReg {
		return Word(cpu.Reg[o.reg]).Low()
	}

	return cpu.Mem.ReadByte(o.addr)
}

// WriteByte stores val into the operand. Per the architecture, a byte
// written to a register operand is sign-extended across the full register;
// a byte written to a memory operand leaves its sibling byte untouched.
func (o Operand) WriteByte(cpu *CPU, val Byte) {
	if o.isReg {
		cpu.Reg[o.reg] = Register(val.Register())
		return
	}

	cpu.Mem.WriteByte(o.addr, val)
}

// Addr returns the effective address of a memory operand. It panics if the
// operand is a register; callers (JSR, the one-operand address-only forms)
// must ensure the operand is not register mode first.
func (o Operand) Addr() Word {
	if o.isReg {
		panic("vm: operand is a register, has no address")
	}

	return o.addr
}

// IsRegister reports whether the operand addresses a register directly.
func (o Operand) IsRegister() bool { return o.isReg }

// EvalOperand decodes a six-bit operand specifier (three mode bits, three
// register bits) and evaluates it against the current register file and
// memory, per the addressing-mode table. width is the access width in bytes
// (1 or 2) and governs the autoincrement/autodecrement step, except for the
// always-word-stepped deferred and PC-relative forms.
func (cpu *CPU) EvalOperand(field Byte, width Word) Operand {
	mode := addressingMode(field >> 3 & 0x07)
	reg := GPR(field & 0x07)

	if mode == modeRegister {
		return Operand{isReg: true, reg: reg}
	}

	pcSpecial := reg == PC && (mode == modeAutoincrement || mode == modeAutoincrementDeferred ||
		mode == modeIndex || mode == modeIndexDeferred)

	step := width
	if pcSpecial || mode == modeAutoincrementDeferred || mode == modeAutodecrementDeferred {
		step = 2
	}

	switch mode {
	case modeRegisterDeferred:
		return Operand{addr: Word(cpu.Reg[reg])}

	case modeAutoincrement:
		addr := Word(cpu.Reg[reg])
		cpu.Reg[reg] += Register(step)

		return Operand{addr: addr}

	case modeAutoincrementDeferred:
		ptr := Word(cpu.Reg[reg])
		cpu.Reg[reg] += Register(step)

		addr, _ := cpu.Mem.ReadWord(ptr)

		return Operand{addr: addr}

	case modeAutodecrement:
		cpu.Reg[reg] -= Register(step)
		return Operand{addr: Word(cpu.Reg[reg])}

	case modeAutodecrementDeferred:
		cpu.Reg[reg] -= Register(step)
		addr, _ := cpu.Mem.ReadWord(Word(cpu.Reg[reg]))

		return Operand{addr: addr}

	case modeIndex:
		x, _ := cpu.Mem.ReadWord(Word(cpu.Reg[PC]))
		cpu.Reg[PC] += 2

		return Operand{addr: Word(cpu.Reg[reg]) + x}

	case modeIndexDeferred:
		x, _ := cpu.Mem.ReadWord(Word(cpu.Reg[PC]))
		cpu.Reg[PC] += 2

		ptr := Word(cpu.Reg[reg]) + x
		addr, _ := cpu.Mem.ReadWord(ptr)

		return Operand{addr: addr}
	}

	panic(fmt.Sprintf("vm: unreachable addressing mode %d", mode))
}
