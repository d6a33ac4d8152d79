package vm

// log.go wires CPU state into structured log records via slog.LogValuer, the
// way the teacher's state dump works: one group attribute per Step/Run entry.

import (
	"github.com/maximot/pdp11/internal/log"
)

// LogValue renders the CPU's architecturally visible state as a log group.
func (cpu *CPU) LogValue() log.Value {
	return log.GroupValue(
		log.String("PC", cpu.Reg[PC].String()),
		log.String("IR", cpu.IR.String()),
		log.String("PSW", cpu.PSW.String()),
		log.Any("REG", cpu.Reg),
	)
}

// LogValue renders the register file as a log group.
func (rf RegisterFile) LogValue() log.Value {
	return log.GroupValue(
		log.String("R0", rf[R0].String()),
		log.String("R1", rf[R1].String()),
		log.String("R2", rf[R2].String()),
		log.String("R3", rf[R3].String()),
		log.String("R4", rf[R4].String()),
		log.String("R5", rf[R5].String()),
		log.String("SP", rf[R6].String()),
		log.String("PC", rf[R7].String()),
	)
}
