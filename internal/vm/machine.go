package vm

// machine.go assembles memory, the CPU, the interrupt bus, and the console
// into a runnable machine, and owns their shared lifecycle.

import (
	"context"
	"io"

	"github.com/maximot/pdp11/internal/log"
)

// Machine is a complete, runnable PDP-11: the address space, the processor,
// the interrupt bus that connects them to the console, and the console
// itself.
type Machine struct {
	Mem     *Memory
	CPU     *CPU
	INT     *InterruptBus
	Console *Console

	log *log.Logger
}

// New assembles a machine. Call Run to reset the CPU and start executing.
func New() *Machine {
	mem := NewMemory()
	bus := NewInterruptBus()

	return &Machine{
		Mem:     mem,
		CPU:     NewCPU(mem, bus),
		INT:     bus,
		Console: NewConsole(mem, bus),
		log:     log.DefaultLogger(),
	}
}

// Run resets the CPU, spawns the console device on a background goroutine,
// and runs the CPU on the current goroutine until it halts, faults, or ctx
// is cancelled. It then signals the console to stop, waits for its poll loop
// to return, and unbinds the console's registers before returning.
func (m *Machine) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	m.CPU.Reset()
	m.Console.Bind()

	done := make(chan struct{})

	go func() {
		defer close(done)

		if err := m.Console.Run(ctx, m.CPU.Running, in, out); err != nil {
			m.log.Debug("console stopped", "ERR", err)
		}
	}()

	err := m.CPU.Run(ctx)

	m.CPU.Halt()
	<-done
	m.Console.Unbind()

	return err
}

// Load stores obj in memory starting at its origin address.
func (m *Machine) Load(obj ObjectCode) error {
	loader := NewLoader(m.Mem)
	return loader.Load(obj)
}
