package vm

// ops_zero.go implements the zero-operand instructions: HALT, WAIT, RESET,
// NOP, RTI, BPT, IOT, RTT.

// Zero-operand opcodes, matched by exact equality (mask 0xFFFF).
const (
	opHALT  Word = 0x0000
	opWAIT  Word = 0x0001
	opRTI   Word = 0x0002
	opBPT   Word = 0x0003
	opIOT   Word = 0x0004
	opRESET Word = 0x0005
	opRTT   Word = 0x0006
	opNOP   Word = 0x00A0
)

func decodeZeroOperand(ir Instruction) (operation, bool) {
	switch Word(ir) {
	case opHALT:
		return opHalt, true
	case opWAIT:
		return opWait, true
	case opRTI:
		return opRti, true
	case opBPT:
		return opBpt, true
	case opIOT:
		return opIot, true
	case opRESET:
		return opReset, true
	case opRTT:
		return opRtt, true
	case opNOP:
		return opNopFn, true
	}

	return nil, false
}

func opHalt(cpu *CPU) error {
	cpu.Halt()
	return nil
}

func opWait(cpu *CPU) error {
	cpu.waiting = true
	return nil
}

func opNopFn(_ *CPU) error {
	return nil
}

// opReset is treated as a no-op: the device reset it would otherwise trigger
// is out of scope (no MMU, no peripheral reset lines beyond the console).
func opReset(_ *CPU) error {
	return nil
}

func opRti(cpu *CPU) error {
	return cpu.Return()
}

// opRtt is like RTI but defers recognition of a newly set T bit until after
// the instruction that follows it, rather than trapping immediately. The
// deferral is tracked on the CPU and consulted by the fetch-execute loop.
func opRtt(cpu *CPU) error {
	if err := cpu.Return(); err != nil {
		return err
	}

	cpu.deferTrace = true

	return nil
}

func opBpt(cpu *CPU) error {
	return cpu.Trap(VectorBPT)
}

func opIot(cpu *CPU) error {
	return cpu.Trap(VectorIOT)
}
