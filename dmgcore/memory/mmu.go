// Package memory implements the 16-bit address bus: cartridge routing,
// VRAM/WRAM/OAM/HRAM storage, the interrupt controller, the timer,
// joypad latch, and a serial-port stub, tied together behind a single
// Read/Write surface.
package memory

import (
	"log/slog"

	"github.com/silverfir/go-dmgcore/dmgcore/addr"
)

// Sound is the narrow surface the MMU uses to route 0xFF10-0xFF3F register
// accesses to the audio component, without the memory package importing it.
type Sound interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// MMU is the Gameboy façade's single owner of every memory region except
// cartridge ROM/RAM, which lives inside the Cartridge it routes to.
type MMU struct {
	cart *Cartridge

	vram [0x2000]uint8
	wram [0x2000]uint8
	oam  [0xA0]uint8
	hram [0x7F]uint8

	ie    uint8
	ifReg uint8

	timer  Timer
	joypad Joypad
	serial SerialPort
	sound  Sound

	lcdc, stat             uint8
	scy, scx               uint8
	ly, lyc                uint8
	bgp, obp0, obp1        uint8
	wy, wx                 uint8
	dma                    uint8

	bootROM        [256]byte
	bootROMEnabled bool

	statWriteHook func()
}

// New constructs an MMU around an already-parsed cartridge. bootROM may be
// nil, in which case the boot ROM is treated as already disabled.
func New(cart *Cartridge, bootROM []byte) *MMU {
	m := &MMU{cart: cart}
	if len(bootROM) > 0 {
		copy(m.bootROM[:], bootROM)
		m.bootROMEnabled = true
	}
	m.stat = 0x80
	return m
}

// AttachSound wires the audio component's register file into the bus.
func (m *MMU) AttachSound(s Sound) { m.sound = s }

// Timer/Joypad/Serial expose the owned components so the façade can step
// them in the fixed per-step order without the MMU doing it itself.
func (m *MMU) Timer() *Timer       { return &m.timer }
func (m *MMU) Joypad() *Joypad     { return &m.joypad }
func (m *MMU) Serial() *SerialPort { return &m.serial }
func (m *MMU) Cartridge() *Cartridge { return m.cart }

// ReadByte implements the full memory map with its documented side effects.
func (m *MMU) ReadByte(address uint16) uint8 {
	switch {
	case address <= 0x00FF && m.bootROMEnabled:
		return m.bootROM[address]
	case address < 0x8000:
		return m.cart.Read(address)
	case address < 0xA000:
		return m.vram[address-0x8000]
	case address < 0xC000:
		return m.cart.Read(address)
	case address < 0xE000:
		return m.wram[address-0xC000]
	case address < 0xFE00:
		return m.wram[address-0xE000] // echo of 0xC000-0xDDFF
	case address <= 0xFE9F:
		return m.oam[address-0xFE00]
	case address <= 0xFEFF:
		return 0xFF // unusable region
	case address <= 0xFF7F:
		return m.readIO(address)
	case address <= 0xFFFE:
		return m.hram[address-0xFF80]
	default: // 0xFFFF
		return m.ie
	}
}

// WriteByte implements the full memory map with its documented side effects.
func (m *MMU) WriteByte(address uint16, v uint8) {
	switch {
	case address <= 0x00FF && m.bootROMEnabled:
		// boot ROM is not writable; real hardware ignores this too.
	case address < 0x8000:
		m.cart.Write(address, v)
	case address < 0xA000:
		m.vram[address-0x8000] = v
	case address < 0xC000:
		m.cart.Write(address, v)
	case address < 0xE000:
		m.wram[address-0xC000] = v
	case address < 0xFE00:
		m.wram[address-0xE000] = v
	case address <= 0xFE9F:
		m.oam[address-0xFE00] = v
	case address <= 0xFEFF:
		// unusable region: writes silently dropped.
	case address <= 0xFF7F:
		m.writeIO(address, v)
	case address <= 0xFFFE:
		m.hram[address-0xFF80] = v
	default: // 0xFFFF
		m.ie = v & 0x1F
	}
}

// ReadWord / WriteWord are little-endian 16-bit helpers. Nothing in the
// core calls them: the PPU never needs these, and the CPU's own fetch16
// duplicates this logic against its Bus interface instead.
func (m *MMU) ReadWord(address uint16) uint16 {
	return uint16(m.ReadByte(address+1))<<8 | uint16(m.ReadByte(address))
}

func (m *MMU) WriteWord(address uint16, v uint16) {
	m.WriteByte(address, uint8(v))
	m.WriteByte(address+1, uint8(v>>8))
}

func (m *MMU) readIO(address uint16) uint8 {
	switch {
	case address == addr.P1:
		return m.joypad.Read()
	case address == addr.SB:
		return m.serial.ReadSB()
	case address == addr.SC:
		return m.serial.ReadSC()
	case address == addr.DIV:
		return m.timer.DIV()
	case address == addr.TIMA:
		return m.timer.TIMA()
	case address == addr.TMA:
		return m.timer.TMA()
	case address == addr.TAC:
		return m.timer.TAC()
	case address == addr.IF:
		return m.ifReg
	case address >= addr.NR10 && address <= addr.WaveRAMEnd && m.sound != nil:
		return m.sound.ReadRegister(address)
	case address == addr.LCDC:
		return m.lcdc
	case address == addr.STAT:
		return m.stat | 0x80
	case address == addr.SCY:
		return m.scy
	case address == addr.SCX:
		return m.scx
	case address == addr.LY:
		return m.ly
	case address == addr.LYC:
		return m.lyc
	case address == addr.DMA:
		return m.dma
	case address == addr.BGP:
		return m.bgp
	case address == addr.OBP0:
		return m.obp0
	case address == addr.OBP1:
		return m.obp1
	case address == addr.WY:
		return m.wy
	case address == addr.WX:
		return m.wx
	default:
		return 0xFF
	}
}

func (m *MMU) writeIO(address uint16, v uint8) {
	switch {
	case address == addr.P1:
		m.joypad.WriteSelect(v)
	case address == addr.SB:
		m.serial.WriteSB(v)
	case address == addr.SC:
		m.serial.WriteSC(v)
	case address == addr.DIV:
		m.timer.ResetDIV()
	case address == addr.TIMA:
		m.timer.SetTIMA(v)
	case address == addr.TMA:
		m.timer.SetTMA(v)
	case address == addr.TAC:
		m.timer.SetTAC(v)
	case address == addr.IF:
		m.ifReg = v & 0x1F
	case address >= addr.NR10 && address <= addr.WaveRAMEnd && m.sound != nil:
		m.sound.WriteRegister(address, v)
	case address == addr.LCDC:
		m.lcdc = v
	case address == addr.STAT:
		m.stat = (m.stat & 0x07) | (v & 0x78) | 0x80
		// A write that newly enables a source the PPU's mode/LYC state
		// already satisfies must retrigger the irq48 union immediately,
		// not wait for the next mode transition.
		if m.statWriteHook != nil {
			m.statWriteHook()
		}
	case address == addr.SCY:
		m.scy = v
	case address == addr.SCX:
		m.scx = v
	case address == addr.LY:
		// writes are ignored; LY is driven exclusively by the PPU.
	case address == addr.LYC:
		m.lyc = v
		m.SetCoincidenceFlag(m.ly == m.lyc)
	case address == addr.DMA:
		m.runDMA(v)
	case address == addr.BGP:
		m.bgp = v
	case address == addr.OBP0:
		m.obp0 = v
	case address == addr.OBP1:
		m.obp1 = v
	case address == addr.WY:
		m.wy = v
	case address == addr.WX:
		m.wx = v
	case address == addr.BootROMDisable:
		if v != 0 {
			m.bootROMEnabled = false
		}
	default:
		// unmapped I/O register: write silently dropped.
	}
}

func (m *MMU) runDMA(v uint8) {
	m.dma = v
	src := uint16(v) << 8
	for i := uint16(0); i < 0xA0; i++ {
		m.oam[i] = m.ReadByte(src + i)
	}
}

// --- Interrupt controller (C3) ------------------------------------------

// RequestInterrupt sets bit k in IF.
func (m *MMU) RequestInterrupt(i addr.Interrupt) {
	m.ifReg |= 1 << i.Bit()
	m.ifReg &= 0x1F
}

// RemoveInterrupt clears bit k in IF.
func (m *MMU) RemoveInterrupt(i addr.Interrupt) {
	m.ifReg &^= 1 << i.Bit()
}

// PendingInterrupts reports whether IE&IF has any of the five bits set,
// satisfying cpu.Bus's HALT-wake check independent of IME.
func (m *MMU) PendingInterrupts() bool {
	return m.ie&m.ifReg&0x1F != 0
}

// ConsumeInterrupt returns the highest-priority pending interrupt and
// clears its IF bit, satisfying cpu.Bus.
func (m *MMU) ConsumeInterrupt() (addr.Interrupt, bool) {
	pending := m.ie & m.ifReg & 0x1F
	for _, src := range addr.Priority {
		if pending&(1<<src.Bit()) != 0 {
			m.ifReg &^= 1 << src.Bit()
			return src, true
		}
	}
	return 0, false
}

// --- PPU-facing register surface ----------------------------------------
// The PPU owns its mode state machine but not memory (per the ownership
// model); it pushes every observable register change through these
// setters so CPU reads of LY/STAT stay truthful without the MMU knowing
// anything about scanline timing.

func (m *MMU) LCDC() uint8 { return m.lcdc }
func (m *MMU) SCY() uint8  { return m.scy }
func (m *MMU) SCX() uint8  { return m.scx }
func (m *MMU) LY() uint8   { return m.ly }
func (m *MMU) LYC() uint8  { return m.lyc }
func (m *MMU) BGP() uint8  { return m.bgp }
func (m *MMU) OBP0() uint8 { return m.obp0 }
func (m *MMU) OBP1() uint8 { return m.obp1 }
func (m *MMU) WY() uint8   { return m.wy }
func (m *MMU) WX() uint8   { return m.wx }
func (m *MMU) STAT() uint8 { return m.stat }

func (m *MMU) SetLY(v uint8) { m.ly = v }

func (m *MMU) SetSTATMode(mode uint8) {
	m.stat = (m.stat &^ 0x03) | (mode & 0x03)
}

func (m *MMU) SetCoincidenceFlag(v bool) {
	if v {
		m.stat |= 0x04
	} else {
		m.stat &^= 0x04
	}
}

// SetSTATWriteHook registers the callback invoked whenever the CPU writes
// the STAT register, so the PPU can recompute its irq48 union against the
// new select bits without waiting for its own next mode transition.
func (m *MMU) SetSTATWriteHook(fn func()) { m.statWriteHook = fn }

func (m *MMU) ReadOAM(index uint16) uint8 { return m.oam[index] }
func (m *MMU) ReadVRAM(offset uint16) uint8 { return m.vram[offset] }

// --- Per-step peripheral drive --------------------------------------------

// StepTimer advances the timer and requests a Timer interrupt on overflow.
// cycles is in clock cycles (the CPU's machine-cycle return value times 4),
// matching the well-known DIV/TIMA thresholds this component is built from.
func (m *MMU) StepTimer(cycles int) {
	m.timer.Update(cycles, func() { m.RequestInterrupt(addr.Timer) })
}

// StepSerial advances the serial stub transfer (cycles in clock cycles)
// and logs completed bytes.
func (m *MMU) StepSerial(cycles int) {
	m.serial.Update(cycles, func() {
		m.RequestInterrupt(addr.Serial)
	})
}

// StepJoypad checks for newly-pressed buttons in the selected column and
// requests a Joypad interrupt, per §4.8.
func (m *MMU) StepJoypad() {
	if m.joypad.Update() {
		m.RequestInterrupt(addr.Joypad)
	}
}

// LogUnmappedRead is available to callers that want to flag reads from
// regions without real backing storage; the MMU's own ReadByte does not
// call this (0xFF is a well-defined, silent fallback per §7), and nothing
// else in the core calls it either.
func LogUnmappedRead(address uint16) {
	slog.Debug("read from unmapped region", "address", address)
}
