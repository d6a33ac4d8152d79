package vm

// psw.go defines the processor status word and the general register file.

import "fmt"

// PSW is the 16-bit processor status word: condition codes, the trap-trace
// bit, and the processor priority.
//
// | PRIORITY | 00000 | T | N | Z | V | C |
// +----------+-------+---+---+---+---+---+
// |   7  5   | 15  8 | 4 | 3 | 2 | 1 | 0 |
type PSW Word

// Condition and control bits in the PSW.
const (
	FlagC PSW = 1 << 0 // carry
	FlagV PSW = 1 << 1 // overflow
	FlagZ PSW = 1 << 2 // zero
	FlagN PSW = 1 << 3 // negative
	FlagT PSW = 1 << 4 // trace trap

	priorityShift = 5
	priorityMask  = PSW(0x07) << priorityShift
)

func (p PSW) String() string {
	return fmt.Sprintf(
		"%s (C:%t V:%t Z:%t N:%t T:%t PRI:%d)",
		Word(p), p.Carry(), p.Overflow(), p.Zero(), p.Negative(), p.Trace(), p.Priority(),
	)
}

// Carry reports the C flag.
func (p PSW) Carry() bool { return p&FlagC != 0 }

// Overflow reports the V flag.
func (p PSW) Overflow() bool { return p&FlagV != 0 }

// Zero reports the Z flag.
func (p PSW) Zero() bool { return p&FlagZ != 0 }

// Negative reports the N flag.
func (p PSW) Negative() bool { return p&FlagN != 0 }

// Trace reports the T flag.
func (p PSW) Trace() bool { return p&FlagT != 0 }

// Priority returns the current processor priority level, 0-7.
func (p PSW) Priority() Priority {
	return Priority(p & priorityMask >> priorityShift)
}

// WithPriority returns p with the priority field replaced.
func (p PSW) WithPriority(pl Priority) PSW {
	return p&^priorityMask | PSW(pl)<<priorityShift
}

// setFlag returns p with the named flag set to val.
func (p PSW) setFlag(flag PSW, val bool) PSW {
	if val {
		return p | flag
	}

	return p &^ flag
}

// setNZ sets N and Z from a word result, leaving C and V untouched. This is
// the "bitwise result" flag discipline: callers that also need V cleared
// (logical instructions) do so explicitly.
func (p PSW) setNZ(result Word) PSW {
	p = p.setFlag(FlagZ, result == 0)
	p = p.setFlag(FlagN, result.IsNegative())

	return p
}

// setNZByte is setNZ for byte-width results.
func (p PSW) setNZByte(result Byte) PSW {
	p = p.setFlag(FlagZ, result == 0)
	p = p.setFlag(FlagN, result.IsNegative())

	return p
}

// Priority represents an interrupt or processor priority level, 0 (lowest) to
// 7 (highest).
type Priority uint8

// Bus request levels. Devices may only request interrupts at BR4 through
// BR7; the processor itself may run at any of the eight priorities.
const (
	PL0 Priority = iota
	PL1
	PL2
	PL3
	BR4
	BR5
	BR6
	BR7

	NumPriority
)

func (p Priority) String() string {
	return fmt.Sprintf("PL%d", uint8(p))
}

// Register is a 16-bit general-purpose register value.
type Register Word

func (r Register) String() string { return Word(r).String() }

// GPR identifies one of the eight general registers.
type GPR uint8

// General-purpose register numbers. R6 is conventionally the stack pointer
// and R7 the program counter; R5 is used by MARK as the frame pointer.
const (
	R0 GPR = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7

	NumGPR

	SP  GPR = R6
	PC  GPR = R7
	FPR GPR = R5 // mark pointer
)

func (g GPR) String() string {
	return fmt.Sprintf("R%d", uint8(g))
}

// RegisterFile holds the eight general registers.
type RegisterFile [NumGPR]Register

func (rf RegisterFile) String() string {
	return fmt.Sprintf(
		"R0:%s R1:%s R2:%s R3:%s R4:%s R5:%s SP:%s PC:%s",
		rf[R0], rf[R1], rf[R2], rf[R3], rf[R4], rf[R5], rf[R6], rf[R7],
	)
}
