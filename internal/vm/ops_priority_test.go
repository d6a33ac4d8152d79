package vm

import "testing"

func TestPriority_Spl(tt *testing.T) {
	tt.Parallel()

	cpu := newTestCPU()
	cpu.PSW = cpu.PSW.WithPriority(PL0)

	cpu.IR = Instruction(opSPL) | Instruction(BR6)

	op := cpu.Decode()
	if err := op(cpu); err != nil {
		tt.Fatalf("exec: %s", err)
	}

	if cpu.PSW.Priority() != BR6 {
		tt.Errorf("want priority BR6, got %s", cpu.PSW.Priority())
	}
}

func TestPriority_Rts(tt *testing.T) {
	tt.Parallel()

	cpu := newTestCPU()
	cpu.Reg[R0] = 0x4000 // return address, placed in the link register

	if err := cpu.Push(0x1111); err != nil { // caller's saved R0
		tt.Fatalf("push: %s", err)
	}

	cpu.IR = Instruction(opRTS) | Instruction(R0)

	op := cpu.Decode()
	if err := op(cpu); err != nil {
		tt.Fatalf("exec: %s", err)
	}

	if Word(cpu.Reg[PC]) != 0x4000 {
		tt.Errorf("PC: want 0x4000, got %s", Word(cpu.Reg[PC]))
	}

	if Word(cpu.Reg[R0]) != 0x1111 {
		tt.Errorf("R0: want restored to 0x1111, got %s", Word(cpu.Reg[R0]))
	}
}

func TestPriority_FloatingPointTrapsReserved(tt *testing.T) {
	tt.Parallel()

	tcs := []Word{opFADD, opFSUB, opFMUL, opFDIV}

	for _, opcode := range tcs {
		cpu := newTestCPU()
		_ = cpu.Mem.WriteWord(VectorIOT, 0x7000)
		_ = cpu.Mem.WriteWord(VectorIOT+2, 0)

		cpu.IR = Instruction(opcode)

		op := cpu.Decode()
		if err := op(cpu); err != nil {
			tt.Fatalf("exec %s: %s", Word(opcode), err)
		}

		if Word(cpu.Reg[PC]) != 0x7000 {
			tt.Errorf("opcode %s: want trap to 0x7000, got %s", Word(opcode), Word(cpu.Reg[PC]))
		}
	}
}
