// Package dmgcore wires the CPU, memory bus, PPU, and APU together into a
// single stepping façade: the only thing a host front-end needs to drive a
// Game Boy ROM.
package dmgcore

import (
	"fmt"

	"github.com/silverfir/go-dmgcore/dmgcore/audio"
	"github.com/silverfir/go-dmgcore/dmgcore/cpu"
	"github.com/silverfir/go-dmgcore/dmgcore/memory"
	"github.com/silverfir/go-dmgcore/dmgcore/video"
)

// PixelSink receives rendered frames; re-exported so callers need only
// import this package.
type PixelSink = video.PixelSink

// Color is one of the four DMG shades a PixelSink receives.
type Color = video.Color

// PixelIndex maps screen coordinates to a PixelSink's flipped-scanline index.
func PixelIndex(x, y int) int { return video.PixelIndex(x, y) }

// Button re-exports the joypad's eight physical inputs.
type Button = memory.Button

// WallClockSource supplies monotonic seconds since an arbitrary epoch,
// consulted only by an MBC3 cartridge's RTC latch write.
type WallClockSource = memory.WallClockSource

const (
	Right  = memory.Right
	Left   = memory.Left
	Up     = memory.Up
	Down   = memory.Down
	A      = memory.A
	B      = memory.B
	Select = memory.Select
	Start  = memory.Start
)

// Gameboy is the complete emulated system: one CPU, one memory bus, one
// PPU, one APU, stepped together in the fixed order real hardware drives
// them in.
type Gameboy struct {
	cpu *cpu.CPU
	mmu *memory.MMU
	ppu *video.PPU
	apu *audio.APU
}

// FromROM constructs a Gameboy from raw cartridge ROM bytes. bootROM may
// be nil to skip straight to the post-boot CPU/register state. clock may
// be nil for cartridges without an RTC, or hosts that never latch one.
func FromROM(rom []byte, bootROM []byte, clock WallClockSource) (*Gameboy, error) {
	cart, err := memory.NewCartridge(rom, clock)
	if err != nil {
		return nil, fmt.Errorf("dmgcore: %w", err)
	}

	mmu := memory.New(cart, bootROM)
	apu := audio.New()
	mmu.AttachSound(apu)

	gb := &Gameboy{
		cpu: cpu.New(),
		mmu: mmu,
		ppu: video.NewPPU(),
		apu: apu,
	}
	mmu.SetSTATWriteHook(func() { gb.ppu.NotifySTATWrite(mmu) })
	if bootROM != nil {
		// Boot ROM starts execution at 0x0000 with a zeroed register file;
		// cpu.New()'s post-boot defaults only apply when skipping it.
		gb.cpu.Regs.SetAF(0)
		gb.cpu.Regs.SetBC(0)
		gb.cpu.Regs.SetDE(0)
		gb.cpu.Regs.SetHL(0)
		gb.cpu.Regs.SP = 0
		gb.cpu.Regs.PC = 0
	}
	return gb, nil
}

// StepResult reports what became observable during one CPU instruction's
// worth of Step, so hosts know when to pull a frame or drain audio.
type StepResult struct {
	VBlank          bool
	AudioBufferFull bool
}

// Step executes exactly one CPU instruction (or HALT/STOP no-op, or a
// pending interrupt's service routine) and drives every other component
// by the equivalent number of clock cycles, in the fixed order: CPU,
// timer, PPU, sound, serial, joypad; interrupt dispatch is folded into the next
// CPU.Step call. An illegal opcode panics inside cpu.CPU.Step; it is
// recovered here and returned as err rather than crashing the host.
func (g *Gameboy) Step(sink PixelSink) (result StepResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			if illegal, ok := r.(*cpu.IllegalOpcode); ok {
				err = fmt.Errorf("dmgcore: illegal opcode 0x%02X at 0x%04X", illegal.Byte, illegal.PC)
				return
			}
			panic(r)
		}
	}()

	mCycles := g.cpu.Step(g.mmu)
	clockCycles := int(mCycles) * 4

	g.mmu.StepTimer(clockCycles)
	vblank := g.ppu.Step(clockCycles, g.mmu, sink)
	bufferFull := g.apu.Step(clockCycles)
	g.mmu.StepSerial(clockCycles)
	g.mmu.StepJoypad()

	return StepResult{VBlank: vblank, AudioBufferFull: bufferFull}, nil
}

// PressButton/ReleaseButton feed joypad input; the next StepJoypad call
// (inside Step) detects any newly-pressed button in the selected column
// and requests the Joypad interrupt.
func (g *Gameboy) PressButton(b Button)   { g.mmu.Joypad().Press(b) }
func (g *Gameboy) ReleaseButton(b Button) { g.mmu.Joypad().Release(b) }

// AudioBuffer drains the interleaved stereo float sample buffer built up
// since the last call.
func (g *Gameboy) AudioBuffer() []float32 { return g.apu.TakeBuffer() }

// CartridgeRAM/SetCartridgeRAM expose the battery-backed save RAM.
func (g *Gameboy) CartridgeRAM() []byte          { return g.mmu.Cartridge().RAM() }
func (g *Gameboy) SetCartridgeRAM(data []byte)   { g.mmu.Cartridge().SetRAM(data) }
func (g *Gameboy) CartridgeName() string         { return g.mmu.Cartridge().Name() }
func (g *Gameboy) HasBattery() bool              { return g.mmu.Cartridge().HasBattery() }
func (g *Gameboy) HasRTC() bool                  { return g.mmu.Cartridge().HasRTC() }
func (g *Gameboy) RTCSnapshot() memory.Snapshot  { return g.mmu.Cartridge().RTCSnapshot() }
func (g *Gameboy) SetRTCSnapshot(s memory.Snapshot) {
	g.mmu.Cartridge().SetRTCSnapshot(s)
}

// SetRAMWriteObserver is notified of every cartridge RAM write, letting a
// host debounce save-file writes instead of hitting disk on every byte.
func (g *Gameboy) SetRAMWriteObserver(fn func(address int, value uint8)) {
	g.mmu.Cartridge().SetRAMWriteObserver(fn)
}
