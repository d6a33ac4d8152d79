package vm

// console.go implements the DL11 serial line console: four memory-mapped
// registers polled on a fixed tick by a device goroutine, fed by a separate
// goroutine that blocks on host input.

import (
	"bufio"
	"context"
	"io"
	"sync"
	"time"

	"github.com/maximot/pdp11/internal/log"
)

// DL11 register addresses.
const (
	RCSRAddr Word = 0xFF70
	RBUFAddr Word = 0xFF72
	XCSRAddr Word = 0xFF74
	XBUFAddr Word = 0xFF76
)

// Status bits shared by RCSR and XCSR.
const (
	csrRDY Word = 1 << 7 // RDY on RCSR, XRDY on XCSR; device-maintained
	csrIE  Word = 1 << 6 // RIE on RCSR, TIE on XCSR; the only program-writable bit
)

// pollInterval is the device thread's tick rate. 30 Hz is adequate for a
// character device whose consumer is a PDP-11 program, not a human typist.
const pollInterval = time.Second / 30

// devReg is a mutex-guarded word register, mapped into the address space
// directly (RBUF, XBUF) or wrapped by csrCell (RCSR, XCSR). It tracks whether
// it has been written since the device last consumed it.
type devReg struct {
	mu    sync.Mutex
	value Word
	dirty bool
}

func (r *devReg) ReadWord() Word {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.value
}

func (r *devReg) WriteWord(w Word) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.value = w
	r.dirty = true
}

// get reads the register without affecting its dirty bit, for the device's
// own bookkeeping reads.
func (r *devReg) get() Word {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.value
}

// set updates the register as the device itself does (to maintain RDY/XRDY),
// which must not look like a program write.
func (r *devReg) set(w Word) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.value = w
}

// takeDirty returns the register's value and whether it has been written
// since the last call, clearing the dirty bit.
func (r *devReg) takeDirty() (Word, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dirty := r.dirty
	r.dirty = false

	return r.value, dirty
}

// csrCell adapts a devReg to MappedCell for RCSR and XCSR, restricting
// program writes to the interrupt-enable bit: RDY/XRDY are device-maintained
// and a program write must not clobber them.
type csrCell struct {
	reg *devReg
}

func (c csrCell) ReadWord() Word { return c.reg.get() }

func (c csrCell) WriteWord(w Word) {
	c.reg.mu.Lock()
	defer c.reg.mu.Unlock()

	c.reg.value = c.reg.value&^csrIE | w&csrIE
}

// rbufCell adapts RBUF's devReg to MappedCell. Reading RBUF clears RDY on
// RCSR, the hardware's clear-on-read convention for the receive buffer.
type rbufCell struct {
	reg  *devReg
	rcsr *devReg
}

func (c rbufCell) ReadWord() Word {
	val := c.reg.get()

	c.rcsr.mu.Lock()
	c.rcsr.value &^= csrRDY
	c.rcsr.mu.Unlock()

	return val
}

func (c rbufCell) WriteWord(w Word) { c.reg.set(w) }

// Console is the machine's DL11 serial console: receiver and transmitter
// register pairs, a keystroke queue fed by a host-input reader, and the
// device poll loop that moves bytes between them.
type Console struct {
	mem *Memory
	bus *InterruptBus

	rcsr, rbuf, xcsr, xbuf *devReg

	keys chan byte

	prevRIE     bool
	rxAnnounced bool

	log *log.Logger
}

// NewConsole creates a console bound to mem and bus. Call Run to bind its
// registers and begin polling.
func NewConsole(mem *Memory, bus *InterruptBus) *Console {
	return &Console{
		mem:  mem,
		bus:  bus,
		rcsr: &devReg{},
		rbuf: &devReg{},
		xcsr: &devReg{},
		xbuf: &devReg{},
		keys: make(chan byte, 16),
		log:  log.DefaultLogger(),
	}
}

// Bind maps the console's registers into memory and resets their power-on
// state. Callers must call Bind before the CPU starts executing, so that a
// program's first register access observes the device rather than plain
// memory, and must call Unbind once the device loop has stopped.
func (c *Console) Bind() {
	_ = c.mem.MapWord(RCSRAddr, csrCell{reg: c.rcsr})
	_ = c.mem.MapWord(RBUFAddr, rbufCell{reg: c.rbuf, rcsr: c.rcsr})
	_ = c.mem.MapWord(XCSRAddr, csrCell{reg: c.xcsr})
	_ = c.mem.MapWord(XBUFAddr, c.xbuf)

	c.xcsr.set(csrRDY) // transmitter idle at reset
	c.rcsr.set(0)
}

// Unbind releases the console's registers, materializing their last values
// into plain memory.
func (c *Console) Unbind() {
	c.mem.UnmapWord(RCSRAddr)
	c.mem.UnmapWord(RBUFAddr)
	c.mem.UnmapWord(XCSRAddr)
	c.mem.UnmapWord(XBUFAddr)
}

// Run spawns the host-input reader and polls the registers on a fixed tick
// until running returns false or ctx is cancelled. The caller must Bind
// before calling Run and Unbind after it returns.
func (c *Console) Run(ctx context.Context, running func() bool, in io.Reader, out io.Writer) error {
	go c.readInput(ctx, in)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for running() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.pollTransmitter(out)
			c.pollReceiver()
		}
	}

	return nil
}

// readInput reads bytes from in and queues them for the receiver, until ctx
// is cancelled or the read fails. Per the architecture's shutdown model,
// this goroutine is not joined: a blocked read is left to die with the
// process.
func (c *Console) readInput(ctx context.Context, in io.Reader) {
	r := bufio.NewReader(in)

	for {
		b, err := r.ReadByte()
		if err != nil {
			c.log.Debug("console input closed", "ERR", err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case c.keys <- b:
		}
	}
}

// pollTransmitter emits a byte written to XBUF since the last tick and
// raises the transmitter interrupt if armed.
func (c *Console) pollTransmitter(out io.Writer) {
	val, dirty := c.xbuf.takeDirty()
	if !dirty {
		return
	}

	c.xcsr.set(c.xcsr.get() &^ csrRDY)

	if _, err := out.Write([]byte{byte(val.Low())}); err != nil {
		c.log.Error("console write failed", "ERR", err)
	}

	xcsr := c.xcsr.get() | csrRDY
	c.xcsr.set(xcsr)

	if xcsr&csrIE != 0 {
		c.bus.Interrupt(VectorTXINT, BR4)
	}
}

// pollReceiver announces a pending byte in RBUF, or else drains one byte
// from the keyboard queue into RBUF.
func (c *Console) pollReceiver() {
	rcsr := c.rcsr.get()
	rie := rcsr&csrIE != 0
	rdy := rcsr&csrRDY != 0

	newlyEnabled := rie && !c.prevRIE
	c.prevRIE = rie

	if rdy {
		if rie && (newlyEnabled || !c.rxAnnounced) {
			c.bus.Interrupt(VectorRXINT, BR4)
			c.rxAnnounced = true
		}

		return
	}

	select {
	case b := <-c.keys:
		c.rbuf.set(Word(b))
		c.rcsr.set(rcsr | csrRDY)
		c.rxAnnounced = false

		if rie {
			c.bus.Interrupt(VectorRXINT, BR4)
			c.rxAnnounced = true
		}
	default:
	}
}
