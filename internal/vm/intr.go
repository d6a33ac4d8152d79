package vm

// intr.go implements the interrupt bus: four FIFO queues of pending trap
// vectors, keyed by bus request level, brokering asynchronous device
// notifications into the CPU's synchronous instruction loop.

import (
	"sync"

	"github.com/maximot/pdp11/internal/log"
)

// InterruptBus holds pending interrupt requests at bus levels BR4 through
// BR7. Devices call Interrupt to raise a request; the CPU calls Poll once per
// instruction to check for and accept the highest pending request above its
// current priority.
type InterruptBus struct {
	mu    sync.Mutex
	queue [NumPriority][]Word

	log *log.Logger
}

// NewInterruptBus creates an empty interrupt bus.
func NewInterruptBus() *InterruptBus {
	return &InterruptBus{log: log.DefaultLogger()}
}

// Interrupt enqueues a pending request for the trap vector at the given
// priority level. Only BR4 through BR7 are valid device request levels.
func (b *InterruptBus) Interrupt(vector Word, level Priority) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.queue[level] = append(b.queue[level], vector)

	b.log.Debug("interrupt raised", "vector", vector, "level", level)
}

// Poll returns the vector of the highest-priority pending request strictly
// above current, popping it from its queue. Requests within a level are
// delivered FIFO. If current is already at the highest priority, or no
// request is pending above it, ok is false.
func (b *InterruptBus) Poll(current Priority) (vector Word, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for level := NumPriority - 1; level > current; level-- {
		q := b.queue[level]
		if len(q) == 0 {
			continue
		}

		vector, q = q[0], q[1:]
		b.queue[level] = q

		return vector, true
	}

	return 0, false
}
