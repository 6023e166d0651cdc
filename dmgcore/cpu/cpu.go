// Package cpu implements the Sharp LR35902 instruction interpreter: the
// register file, flag semantics, base and CB-prefixed opcode tables, and
// interrupt servicing. It knows nothing about timing peripherals or video;
// it only reads and writes bytes through the Bus it is given each Step.
package cpu

import "github.com/silverfir/go-dmgcore/dmgcore/addr"

// Bus is the narrow memory/interrupt surface the CPU needs. The MMU
// implements it; the CPU never imports the memory package, avoiding a
// cyclic dependency between the two.
type Bus interface {
	ReadByte(address uint16) uint8
	WriteByte(address uint16, value uint8)
	// PendingInterrupts reports whether any enabled interrupt is latched,
	// used to decide HALT wake-up independent of IME.
	PendingInterrupts() bool
	// ConsumeInterrupt returns the highest-priority pending interrupt and
	// clears its IF bit, or ok=false if none is pending.
	ConsumeInterrupt() (source addr.Interrupt, ok bool)
}

// IllegalOpcode is panicked by the CPU when it decodes one of the eleven
// undefined LR35902 opcodes. Gameboy.Step recovers it at the façade boundary.
type IllegalOpcode struct {
	PC   uint16
	Byte uint8
}

func (e *IllegalOpcode) Error() string {
	return "cpu: illegal opcode"
}

// CPU holds the register file and the handful of latched CPU-only states
// that opcodes and interrupt servicing mutate.
type CPU struct {
	Regs Registers

	halted   bool
	haltBug  bool
	stopped  bool
	ime      bool
	imePend  bool // EI was executed; IME takes effect after the next Step
}

// New returns a CPU with the documented post-boot-ROM register state.
func New() *CPU {
	c := &CPU{}
	c.Regs.SetAF(0x01B0)
	c.Regs.SetBC(0x0013)
	c.Regs.SetDE(0x00D8)
	c.Regs.SetHL(0x014D)
	c.Regs.SP = 0xFFFE
	c.Regs.PC = 0x0100
	return c
}

// Halted reports whether the CPU is currently in the HALT state.
func (c *CPU) Halted() bool { return c.halted }

// IME reports the current Interrupt Master Enable state.
func (c *CPU) IME() bool { return c.ime }

const interruptServiceCycles uint8 = 5

// Step executes exactly one instruction (or one idle cycle while halted/
// stopped) and returns its cost in machine cycles (1 M-cycle = 4 clock
// cycles), per the fixed per-step contract: HALT wake check, interrupt
// service, then fetch/decode/execute.
func (c *CPU) Step(bus Bus) uint8 {
	if c.stopped {
		return 1
	}

	if c.halted {
		if !bus.PendingInterrupts() {
			return 1
		}
		c.halted = false
	}

	if c.ime {
		if src, ok := bus.ConsumeInterrupt(); ok {
			return c.serviceInterrupt(bus, src)
		}
	}

	eiPending := c.imePend
	opcode := c.fetch(bus)
	if c.haltBug {
		// HALT executed while IME was false and an interrupt was already
		// pending: the PC increment for the opcode fetch is skipped once.
		c.Regs.PC--
		c.haltBug = false
	}
	cycles := c.execute(bus, opcode)
	if eiPending && c.imePend {
		// The instruction after EI has completed (and was not DI).
		c.imePend = false
		c.ime = true
	}
	return cycles
}

func (c *CPU) serviceInterrupt(bus Bus, src addr.Interrupt) uint8 {
	c.ime = false
	c.pushStack(bus, c.Regs.PC)
	c.Regs.PC = src.Vector()
	c.halted = false
	return interruptServiceCycles
}

func (c *CPU) fetch(bus Bus) uint8 {
	v := bus.ReadByte(c.Regs.PC)
	c.Regs.PC++
	return v
}

func (c *CPU) fetch16(bus Bus) uint16 {
	lo := c.fetch(bus)
	hi := c.fetch(bus)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) execute(bus Bus, opcode uint8) uint8 {
	if opcode == 0xCB {
		cb := c.fetch(bus)
		return c.executeCB(bus, cb)
	}
	fn := baseOpcodes[opcode]
	if fn == nil {
		panic(&IllegalOpcode{PC: c.Regs.PC - 1, Byte: opcode})
	}
	return fn(c, bus)
}
