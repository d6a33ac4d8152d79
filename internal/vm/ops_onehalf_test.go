package vm

import "testing"

func TestOneAndHalf_Mul(tt *testing.T) {
	tt.Parallel()

	cpu := newTestCPU()
	cpu.Reg[R0] = 6
	cpu.Reg[R1] = 7

	cpu.IR = Instruction(opMUL) | Instruction(R0)<<6 | Instruction(regField(R1))

	op := cpu.Decode()
	if err := op(cpu); err != nil {
		tt.Fatalf("exec: %s", err)
	}

	if cpu.Reg[R0] != 0 || cpu.Reg[R1] != 42 {
		tt.Errorf("want R0:R1 = 0:42, got %s:%s", cpu.Reg[R0], cpu.Reg[R1])
	}

	if cpu.PSW.Zero() || cpu.PSW.Negative() || cpu.PSW.Carry() {
		tt.Error("want no flags set for a small positive product")
	}
}

func TestOneAndHalf_Div(tt *testing.T) {
	tt.Parallel()

	cpu := newTestCPU()
	cpu.Reg[R0] = 0 // high word of dividend
	cpu.Reg[R1] = 7 // low word of dividend
	cpu.Reg[R2] = 2 // divisor

	cpu.IR = Instruction(opDIV) | Instruction(R0)<<6 | Instruction(regField(R2))

	op := cpu.Decode()
	if err := op(cpu); err != nil {
		tt.Fatalf("exec: %s", err)
	}

	if cpu.Reg[R0] != 3 {
		tt.Errorf("quotient: want 3, got %s", cpu.Reg[R0])
	}

	if cpu.Reg[R1] != 1 {
		tt.Errorf("remainder: want 1, got %s", cpu.Reg[R1])
	}
}

func TestOneAndHalf_DivByZero(tt *testing.T) {
	tt.Parallel()

	cpu := newTestCPU()
	cpu.Reg[R0] = 0
	cpu.Reg[R1] = 7
	cpu.Reg[R2] = 0

	cpu.IR = Instruction(opDIV) | Instruction(R0)<<6 | Instruction(regField(R2))

	op := cpu.Decode()
	if err := op(cpu); err != nil {
		tt.Fatalf("exec: %s", err)
	}

	if cpu.Reg[R0] != 0 || cpu.Reg[R1] != 7 {
		tt.Error("want dividend registers untouched on division by zero")
	}

	if !cpu.PSW.Carry() || !cpu.PSW.Overflow() {
		tt.Error("want carry and overflow set on division by zero")
	}
}

func TestOneAndHalf_Ash(tt *testing.T) {
	tt.Parallel()

	cpu := newTestCPU()
	cpu.Reg[R0] = 1
	cpu.Reg[R1] = 3 // shift left by 3

	cpu.IR = Instruction(opASH) | Instruction(R0)<<6 | Instruction(regField(R1))

	op := cpu.Decode()
	if err := op(cpu); err != nil {
		tt.Fatalf("exec: %s", err)
	}

	if cpu.Reg[R0] != 8 {
		tt.Errorf("want 8, got %s", cpu.Reg[R0])
	}
}

func TestOneAndHalf_Xor(tt *testing.T) {
	tt.Parallel()

	cpu := newTestCPU()
	cpu.Reg[R0] = 0x0F0F
	cpu.Reg[R1] = 0xFF00

	cpu.IR = Instruction(opXOR) | Instruction(R0)<<6 | Instruction(regField(R1))

	op := cpu.Decode()
	if err := op(cpu); err != nil {
		tt.Fatalf("exec: %s", err)
	}

	if cpu.Reg[R1] != 0xF00F {
		tt.Errorf("want 0xF00F, got %s", cpu.Reg[R1])
	}
}

func TestOneAndHalf_Sob(tt *testing.T) {
	tt.Parallel()

	cpu := newTestCPU()
	cpu.Reg[R0] = 2
	cpu.Reg[PC] = 0x1010

	cpu.IR = Instruction(opSOB) | Instruction(R0)<<6 | 0x03 // offset of 3 words

	op := cpu.Decode()
	if err := op(cpu); err != nil {
		tt.Fatalf("exec: %s", err)
	}

	if cpu.Reg[R0] != 1 {
		tt.Errorf("want R0 decremented to 1, got %s", cpu.Reg[R0])
	}

	if Word(cpu.Reg[PC]) != 0x1010-6 {
		tt.Errorf("want PC branched back 6 bytes, got %s", Word(cpu.Reg[PC]))
	}
}

func TestOneAndHalf_SobStopsAtZero(tt *testing.T) {
	tt.Parallel()

	cpu := newTestCPU()
	cpu.Reg[R0] = 1
	cpu.Reg[PC] = 0x1010

	cpu.IR = Instruction(opSOB) | Instruction(R0)<<6 | 0x03

	op := cpu.Decode()
	if err := op(cpu); err != nil {
		tt.Fatalf("exec: %s", err)
	}

	if cpu.Reg[R0] != 0 {
		tt.Errorf("want R0 decremented to 0, got %s", cpu.Reg[R0])
	}

	if Word(cpu.Reg[PC]) != 0x1010 {
		tt.Errorf("want PC unchanged once the counter reaches 0, got %s", Word(cpu.Reg[PC]))
	}
}

func TestOneAndHalf_JsrPushesLinkAndCalls(tt *testing.T) {
	tt.Parallel()

	cpu := newTestCPU()
	cpu.Reg[PC] = 0x1234
	cpu.Reg[R5] = 0x3000 // will hold the call target's address after deferred eval
	sp := cpu.Reg[SP]

	cpu.IR = Instruction(opJSR) | Instruction(R0)<<6 | Instruction(modeRegisterDeferred)<<3 | Instruction(R5)

	op := cpu.Decode()
	if err := op(cpu); err != nil {
		tt.Fatalf("exec: %s", err)
	}

	if Word(cpu.Reg[PC]) != 0x3000 {
		tt.Errorf("PC: want 0x3000, got %s", Word(cpu.Reg[PC]))
	}

	if Word(cpu.Reg[R0]) != 0x1234 {
		tt.Errorf("link register: want 0x1234, got %s", Word(cpu.Reg[R0]))
	}

	if cpu.Reg[SP] != sp-2 {
		tt.Errorf("SP: want decremented by 2, got %s", cpu.Reg[SP])
	}
}

func TestOneAndHalf_JsrRejectsRegisterOperand(tt *testing.T) {
	tt.Parallel()

	cpu := newTestCPU()
	cpu.IR = Instruction(opJSR) | Instruction(R0)<<6 | Instruction(regField(R1))

	op := cpu.Decode()
	if err := op(cpu); err == nil {
		tt.Error("want an error calling JSR with a register-mode operand")
	}
}
