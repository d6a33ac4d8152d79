package vm

// ops_one.go implements the one-operand family: mask 0xFFC0. A byte variant
// is signalled by opcode bit 15; JMP, SWAB, SXT, and MARK have no byte form.

const (
	opJMP  Word = 0x0040
	opCLR  Word = 0x0A00
	opCLRB Word = 0x8A00
	opINC  Word = 0x0A80
	opINCB Word = 0x8A80
	opDEC  Word = 0x0AC0
	opDECB Word = 0x8AC0
	opADC  Word = 0x0B40
	opADCB Word = 0x8B40
	opSBC  Word = 0x0B80
	opSBCB Word = 0x8B80
	opTST  Word = 0x0BC0
	opTSTB Word = 0x8BC0
	opNEG  Word = 0x0B00
	opNEGB Word = 0x8B00
	opCOM  Word = 0x0A40
	opCOMB Word = 0x8A40
	opROR  Word = 0x0C00
	opRORB Word = 0x8C00
	opROL  Word = 0x0C40
	opROLB Word = 0x8C40
	opASR  Word = 0x0C80
	opASRB Word = 0x8C80
	opASL  Word = 0x0CC0
	opASLB Word = 0x8CC0
	opSWAB Word = 0x00C0
	opSXT  Word = 0x0DC0
	opMARK Word = 0x0D00
)

func decodeOneOperand(ir Instruction) (operation, bool) {
	base := Word(ir) & maskOneOperand
	dst := ir.Dst()

	switch base {
	case opJMP:
		return func(cpu *CPU) error {
			o := cpu.EvalOperand(dst, 2)
			if o.IsRegister() {
				return ErrRegisterOperand
			}

			cpu.Reg[PC] = Register(o.Addr())

			return nil
		}, true

	case opMARK:
		n := Word(ir.Dst())
		return func(cpu *CPU) error {
			cpu.Reg[SP] = Register(Word(cpu.Reg[PC]) + 2*n)
			cpu.Reg[PC] = cpu.Reg[FPR]

			val, err := cpu.Pop()
			if err != nil {
				return err
			}

			cpu.Reg[FPR] = Register(val)

			return nil
		}, true

	case opSWAB:
		return func(cpu *CPU) error {
			o := cpu.EvalOperand(dst, 2)
			w := o.ReadWord(cpu)
			result := WordFromBytes(w.High(), w.Low())
			o.WriteWord(cpu, result)

			cpu.PSW = cpu.PSW.setNZByte(result.Low())
			cpu.PSW &^= FlagV | FlagC

			return nil
		}, true

	case opSXT:
		return func(cpu *CPU) error {
			o := cpu.EvalOperand(dst, 2)

			var result Word
			if cpu.PSW.Negative() {
				result = 0xFFFF
			}

			o.WriteWord(cpu, result)
			cpu.PSW = cpu.PSW.setFlag(FlagZ, result == 0)
			cpu.PSW &^= FlagV

			return nil
		}, true
	}

	byteOp := Word(ir)&0x8000 != 0

	switch base {
	case opCLR, opCLRB:
		return oneOperandOp(dst, byteOp, func(cpu *CPU, o Operand) {
			if byteOp {
				o.WriteByte(cpu, 0)
			} else {
				o.WriteWord(cpu, 0)
			}

			cpu.PSW = cpu.PSW.setFlag(FlagZ, true).setFlag(FlagN, false)
			cpu.PSW &^= FlagV | FlagC
		}), true

	case opINC, opINCB:
		return oneOperandOp(dst, byteOp, func(cpu *CPU, o Operand) {
			if byteOp {
				result, _, ovf := addByte(o.ReadByte(cpu), 1)
				o.WriteByte(cpu, result)
				cpu.PSW = cpu.PSW.setNZByte(result).setFlag(FlagV, ovf)
			} else {
				result, _, ovf := addWord(o.ReadWord(cpu), 1)
				o.WriteWord(cpu, result)
				cpu.PSW = cpu.PSW.setNZ(result).setFlag(FlagV, ovf)
			}
		}), true

	case opDEC, opDECB:
		return oneOperandOp(dst, byteOp, func(cpu *CPU, o Operand) {
			if byteOp {
				result, _, ovf := subByte(o.ReadByte(cpu), 1)
				o.WriteByte(cpu, result)
				cpu.PSW = cpu.PSW.setNZByte(result).setFlag(FlagV, ovf)
			} else {
				result, _, ovf := subWord(o.ReadWord(cpu), 1)
				o.WriteWord(cpu, result)
				cpu.PSW = cpu.PSW.setNZ(result).setFlag(FlagV, ovf)
			}
		}), true

	case opADC, opADCB:
		return oneOperandOp(dst, byteOp, func(cpu *CPU, o Operand) {
			carryIn := Word(0)
			if cpu.PSW.Carry() {
				carryIn = 1
			}

			if byteOp {
				result, carry, ovf := addByte(o.ReadByte(cpu), Byte(carryIn))
				o.WriteByte(cpu, result)
				cpu.PSW = cpu.PSW.setNZByte(result).setFlag(FlagC, carry).setFlag(FlagV, ovf)
			} else {
				result, carry, ovf := addWord(o.ReadWord(cpu), carryIn)
				o.WriteWord(cpu, result)
				cpu.PSW = cpu.PSW.setNZ(result).setFlag(FlagC, carry).setFlag(FlagV, ovf)
			}
		}), true

	case opSBC, opSBCB:
		return oneOperandOp(dst, byteOp, func(cpu *CPU, o Operand) {
			carryIn := Word(0)
			if cpu.PSW.Carry() {
				carryIn = 1
			}

			if byteOp {
				result, carry, ovf := subByte(o.ReadByte(cpu), Byte(carryIn))
				o.WriteByte(cpu, result)
				cpu.PSW = cpu.PSW.setNZByte(result).setFlag(FlagC, carry).setFlag(FlagV, ovf)
			} else {
				result, carry, ovf := subWord(o.ReadWord(cpu), carryIn)
				o.WriteWord(cpu, result)
				cpu.PSW = cpu.PSW.setNZ(result).setFlag(FlagC, carry).setFlag(FlagV, ovf)
			}
		}), true

	case opTST, opTSTB:
		return oneOperandOp(dst, byteOp, func(cpu *CPU, o Operand) {
			if byteOp {
				result := o.ReadByte(cpu)
				cpu.PSW = cpu.PSW.setNZByte(result)
			} else {
				result := o.ReadWord(cpu)
				cpu.PSW = cpu.PSW.setNZ(result)
			}

			cpu.PSW &^= FlagV | FlagC
		}), true

	case opNEG, opNEGB:
		return oneOperandOp(dst, byteOp, func(cpu *CPU, o Operand) {
			if byteOp {
				result, _, ovf := subByte(0, o.ReadByte(cpu))
				o.WriteByte(cpu, result)
				cpu.PSW = cpu.PSW.setNZByte(result).setFlag(FlagV, ovf).setFlag(FlagC, result != 0)
			} else {
				result, _, ovf := subWord(0, o.ReadWord(cpu))
				o.WriteWord(cpu, result)
				cpu.PSW = cpu.PSW.setNZ(result).setFlag(FlagV, ovf).setFlag(FlagC, result != 0)
			}
		}), true

	case opCOM, opCOMB:
		return oneOperandOp(dst, byteOp, func(cpu *CPU, o Operand) {
			if byteOp {
				result := ^o.ReadByte(cpu)
				o.WriteByte(cpu, result)
				cpu.PSW = cpu.PSW.setNZByte(result)
			} else {
				result := ^o.ReadWord(cpu)
				o.WriteWord(cpu, result)
				cpu.PSW = cpu.PSW.setNZ(result)
			}

			cpu.PSW &^= FlagV
			cpu.PSW |= FlagC
		}), true

	case opROR, opRORB:
		return oneOperandOp(dst, byteOp, func(cpu *CPU, o Operand) {
			carryIn := cpu.PSW.Carry()

			if byteOp {
				v := o.ReadByte(cpu)
				out := v&1 != 0
				result := v >> 1
				if carryIn {
					result |= 0x80
				}

				o.WriteByte(cpu, result)
				cpu.PSW = cpu.PSW.setNZByte(result).setFlag(FlagC, out).
					setFlag(FlagV, shiftFlagsByte(out, result))
			} else {
				v := o.ReadWord(cpu)
				out := v&1 != 0
				result := v >> 1
				if carryIn {
					result |= 0x8000
				}

				o.WriteWord(cpu, result)
				cpu.PSW = cpu.PSW.setNZ(result).setFlag(FlagC, out).
					setFlag(FlagV, shiftFlagsWord(out, result))
			}
		}), true

	case opROL, opROLB:
		return oneOperandOp(dst, byteOp, func(cpu *CPU, o Operand) {
			carryIn := cpu.PSW.Carry()

			if byteOp {
				v := o.ReadByte(cpu)
				out := v&0x80 != 0
				result := v << 1
				if carryIn {
					result |= 0x01
				}

				o.WriteByte(cpu, result)
				cpu.PSW = cpu.PSW.setNZByte(result).setFlag(FlagC, out).
					setFlag(FlagV, shiftFlagsByte(out, result))
			} else {
				v := o.ReadWord(cpu)
				out := v&0x8000 != 0
				result := v << 1
				if carryIn {
					result |= 0x0001
				}

				o.WriteWord(cpu, result)
				cpu.PSW = cpu.PSW.setNZ(result).setFlag(FlagC, out).
					setFlag(FlagV, shiftFlagsWord(out, result))
			}
		}), true

	case opASR, opASRB:
		return oneOperandOp(dst, byteOp, func(cpu *CPU, o Operand) {
			if byteOp {
				v := o.ReadByte(cpu)
				out := v&1 != 0
				result := Byte(int8(v) >> 1)
				o.WriteByte(cpu, result)
				cpu.PSW = cpu.PSW.setNZByte(result).setFlag(FlagC, out).
					setFlag(FlagV, shiftFlagsByte(out, result))
			} else {
				v := o.ReadWord(cpu)
				out := v&1 != 0
				result := Word(int16(v) >> 1)
				o.WriteWord(cpu, result)
				cpu.PSW = cpu.PSW.setNZ(result).setFlag(FlagC, out).
					setFlag(FlagV, shiftFlagsWord(out, result))
			}
		}), true

	case opASL, opASLB:
		return oneOperandOp(dst, byteOp, func(cpu *CPU, o Operand) {
			if byteOp {
				v := o.ReadByte(cpu)
				out := v&0x80 != 0
				result := v << 1
				o.WriteByte(cpu, result)
				cpu.PSW = cpu.PSW.setNZByte(result).setFlag(FlagC, out).
					setFlag(FlagV, shiftFlagsByte(out, result))
			} else {
				v := o.ReadWord(cpu)
				out := v&0x8000 != 0
				result := v << 1
				o.WriteWord(cpu, result)
				cpu.PSW = cpu.PSW.setNZ(result).setFlag(FlagC, out).
					setFlag(FlagV, shiftFlagsWord(out, result))
			}
		}), true
	}

	return nil, false
}

// oneOperandOp evaluates the destination operand at the instruction's width
// and applies fn, which performs the instruction's arithmetic and sets
// flags.
func oneOperandOp(dst Byte, byteOp bool, fn func(cpu *CPU, o Operand)) operation {
	width := Word(2)
	if byteOp {
		width = 1
	}

	return func(cpu *CPU) error {
		o := cpu.EvalOperand(dst, width)
		fn(cpu, o)

		return nil
	}
}
