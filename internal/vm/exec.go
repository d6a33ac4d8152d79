package vm

// exec.go defines the CPU's instruction cycle: fetch, decode, execute, then
// service a pending interrupt or a deferred trace trap before looping.

import (
	"context"
	"fmt"

	"github.com/maximot/pdp11/internal/log"
)

// Run executes the instruction cycle until the program halts, an
// unrecoverable error occurs, or ctx is cancelled.
func (cpu *CPU) Run(ctx context.Context) error {
	var err error

	cpu.log.Info("START", log.Group("STATE", cpu))

	for cpu.Running() {
		select {
		case <-ctx.Done():
			cpu.log.Warn("CANCELLED")
			return ctx.Err()
		default:
		}

		if err = cpu.Step(); err != nil {
			break
		}
	}

	if err != nil {
		cpu.log.Error("HALTED (fault)", "ERR", err, log.Group("STATE", cpu))
	} else {
		cpu.log.Info("HALTED", log.Group("STATE", cpu))
	}

	return err
}

// Step runs a single instruction to completion: fetch, decode, execute, then
// service at most one pending interrupt or deferred trace trap.
func (cpu *CPU) Step() error {
	if !cpu.Running() {
		return fmt.Errorf("step: %w", ErrHalted)
	}

	if cpu.waiting {
		cpu.serviceInterrupt()
		return nil
	}

	if err := cpu.Fetch(); err != nil {
		return fmt.Errorf("step: %w", err)
	}

	traceArmed := cpu.PSW.Trace() && !cpu.deferTrace
	cpu.deferTrace = false

	op := cpu.Decode()
	if err := op(cpu); err != nil {
		cpu.log.Error("instruction error", "IR", cpu.IR, "ERR", err)
		return fmt.Errorf("step: %w", err)
	}

	cpu.log.Debug("executed", "IR", cpu.IR, log.Group("STATE", cpu))

	if traceArmed {
		if err := cpu.Trap(VectorBPT); err != nil {
			return fmt.Errorf("step: trace trap: %w", err)
		}

		return nil
	}

	cpu.serviceInterrupt()

	return nil
}

// Fetch loads the word addressed by PC into IR and advances PC.
func (cpu *CPU) Fetch() error {
	w, err := cpu.Mem.ReadWord(Word(cpu.Reg[PC]))
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	cpu.IR = Instruction(w)
	cpu.Reg[PC] += 2

	cpu.log.Debug("fetched", "IR", cpu.IR, "PC", cpu.Reg[PC])

	return nil
}

// serviceInterrupt delivers the highest-priority pending interrupt above the
// CPU's current priority, if any.
func (cpu *CPU) serviceInterrupt() {
	vector, ok := cpu.INT.Poll(cpu.PSW.Priority())
	if !ok {
		return
	}

	cpu.log.Debug("interrupt", "vector", vector)

	if err := cpu.Trap(vector); err != nil {
		cpu.log.Error("interrupt trap failed", "vector", vector, "ERR", err)
	}
}
