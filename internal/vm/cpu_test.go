package vm

import "testing"

func newTestCPU() *CPU {
	mem := NewMemory()
	bus := NewInterruptBus()
	cpu := NewCPU(mem, bus)
	cpu.Reset()

	return cpu
}

func TestCPU_ResetHalt(tt *testing.T) {
	tt.Parallel()

	cpu := newTestCPU()

	if !cpu.Running() {
		tt.Fatal("want running after Reset")
	}

	if Word(cpu.Reg[PC]) != ResetPC {
		tt.Errorf("PC: want %s, got %s", ResetPC, Word(cpu.Reg[PC]))
	}

	if Word(cpu.Reg[SP]) != ResetSP {
		tt.Errorf("SP: want %s, got %s", ResetSP, Word(cpu.Reg[SP]))
	}

	cpu.Halt()

	if cpu.Running() {
		tt.Error("want not running after Halt")
	}
}

func TestCPU_PushPop(tt *testing.T) {
	tt.Parallel()

	cpu := newTestCPU()
	sp := cpu.Reg[SP]

	if err := cpu.Push(0xBEEF); err != nil {
		tt.Fatalf("push: %s", err)
	}

	if cpu.Reg[SP] != sp-2 {
		tt.Errorf("SP after push: want %s, got %s", sp-2, cpu.Reg[SP])
	}

	val, err := cpu.Pop()
	if err != nil {
		tt.Fatalf("pop: %s", err)
	}

	if val != 0xBEEF {
		tt.Errorf("popped value: want 0xBEEF, got %s", val)
	}

	if cpu.Reg[SP] != sp {
		tt.Errorf("SP after pop: want %s, got %s", sp, cpu.Reg[SP])
	}
}

func TestCPU_TrapAndReturn(tt *testing.T) {
	tt.Parallel()

	cpu := newTestCPU()

	const vector = VectorEMT

	_ = cpu.Mem.WriteWord(vector, 0x4000)
	_ = cpu.Mem.WriteWord(vector+2, Word(PSW(0).WithPriority(BR5)))

	cpu.Reg[PC] = 0x1234
	cpu.PSW = PSW(0).WithPriority(PL2)

	if err := cpu.Trap(vector); err != nil {
		tt.Fatalf("trap: %s", err)
	}

	if Word(cpu.Reg[PC]) != 0x4000 {
		tt.Errorf("PC after trap: want 0x4000, got %s", Word(cpu.Reg[PC]))
	}

	if cpu.PSW.Priority() != BR5 {
		tt.Errorf("priority after trap: want %s, got %s", BR5, cpu.PSW.Priority())
	}

	if err := cpu.Return(); err != nil {
		tt.Fatalf("return: %s", err)
	}

	if Word(cpu.Reg[PC]) != 0x1234 {
		tt.Errorf("PC after return: want 0x1234, got %s", Word(cpu.Reg[PC]))
	}

	if cpu.PSW.Priority() != PL2 {
		tt.Errorf("priority after return: want %s, got %s", PL2, cpu.PSW.Priority())
	}

	if cpu.Reg[SP] != Register(ResetSP) {
		tt.Errorf("SP not restored: want %s, got %s", Word(ResetSP), cpu.Reg[SP])
	}
}

func TestCPU_EvalOperand(tt *testing.T) {
	tt.Parallel()

	tcs := []struct {
		name    string
		mode    addressingMode
		reg     GPR
		setup   func(cpu *CPU)
		wantReg bool
		wantVal Word // for memory operands, the value found at the resolved address
	}{
		{
			name:    "register direct",
			mode:    modeRegister,
			reg:     R1,
			setup:   func(cpu *CPU) { cpu.Reg[R1] = 0x0042 },
			wantReg: true,
		},
		{
			name: "register deferred",
			mode: modeRegisterDeferred,
			reg:  R2,
			setup: func(cpu *CPU) {
				cpu.Reg[R2] = 0x1000
				_ = cpu.Mem.WriteWord(0x1000, 0x00AA)
			},
			wantVal: 0x00AA,
		},
		{
			name: "autoincrement",
			mode: modeAutoincrement,
			reg:  R3,
			setup: func(cpu *CPU) {
				cpu.Reg[R3] = 0x1000
				_ = cpu.Mem.WriteWord(0x1000, 0x00BB)
			},
			wantVal: 0x00BB,
		},
		{
			name: "autodecrement",
			mode: modeAutodecrement,
			reg:  R4,
			setup: func(cpu *CPU) {
				cpu.Reg[R4] = 0x1002
				_ = cpu.Mem.WriteWord(0x1000, 0x00CC)
			},
			wantVal: 0x00CC,
		},
	}

	for _, tc := range tcs {
		tc := tc

		tt.Run(tc.name, func(tt *testing.T) {
			tt.Parallel()

			cpu := newTestCPU()
			tc.setup(cpu)

			field := Byte(tc.mode)<<3 | Byte(tc.reg)
			op := cpu.EvalOperand(field, 2)

			if op.IsRegister() != tc.wantReg {
				tt.Fatalf("IsRegister: want %t, got %t", tc.wantReg, op.IsRegister())
			}

			if tc.wantReg {
				if op.ReadWord(cpu) != 0x0042 {
					tt.Errorf("register value: want 0x0042, got %s", op.ReadWord(cpu))
				}

				return
			}

			if op.ReadWord(cpu) != tc.wantVal {
				tt.Errorf("memory value: want %s, got %s", tc.wantVal, op.ReadWord(cpu))
			}
		})
	}

	tt.Run("autoincrement advances by width", func(tt *testing.T) {
		tt.Parallel()

		cpu := newTestCPU()
		cpu.Reg[R1] = 0x1000

		field := Byte(modeAutoincrement)<<3 | Byte(R1)
		_ = cpu.EvalOperand(field, 2)

		if cpu.Reg[R1] != 0x1002 {
			tt.Errorf("R1 after word autoincrement: want 0x1002, got %s", cpu.Reg[R1])
		}

		cpu.Reg[R1] = 0x1000
		_ = cpu.EvalOperand(field, 1)

		if cpu.Reg[R1] != 0x1001 {
			tt.Errorf("R1 after byte autoincrement: want 0x1001, got %s", cpu.Reg[R1])
		}
	})

	tt.Run("autodecrement retreats by width", func(tt *testing.T) {
		tt.Parallel()

		cpu := newTestCPU()
		cpu.Reg[R1] = 0x1002

		field := Byte(modeAutodecrement)<<3 | Byte(R1)
		_ = cpu.EvalOperand(field, 2)

		if cpu.Reg[R1] != 0x1000 {
			tt.Errorf("R1 after word autodecrement: want 0x1000, got %s", cpu.Reg[R1])
		}
	})
}
