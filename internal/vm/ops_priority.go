package vm

// ops_priority.go implements the priority/RTS/floating-point family: mask
// 0xFFF8, register or priority value in the low three bits.

const (
	opSPL  Word = 0x0098
	opRTS  Word = 0x0080
	opFADD Word = 0x7A00
	opFSUB Word = 0x7A08
	opFMUL Word = 0x7A10
	opFDIV Word = 0x7A18
)

func decodePriority(ir Instruction) (operation, bool) {
	base := Word(ir) & maskPriority

	switch base {
	case opSPL:
		pl := Priority(ir.LowReg())
		return func(cpu *CPU) error {
			cpu.PSW = cpu.PSW.WithPriority(pl)
			return nil
		}, true

	case opRTS:
		reg := ir.LowReg()
		return func(cpu *CPU) error {
			cpu.Reg[PC] = cpu.Reg[reg]

			val, err := cpu.Pop()
			if err != nil {
				return err
			}

			cpu.Reg[reg] = Register(val)

			return nil
		}, true

	case opFADD, opFSUB, opFMUL, opFDIV:
		// The floating-point extension is named but not implemented; these
		// opcodes decode correctly (so disassembly and the decoder stay
		// total over the opcode space) but trap as reserved instructions.
		return func(cpu *CPU) error {
			return cpu.Trap(VectorIOT)
		}, true
	}

	return nil, false
}
