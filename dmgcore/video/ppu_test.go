package video

import (
	"testing"

	"github.com/silverfir/go-dmgcore/dmgcore/addr"
	"github.com/stretchr/testify/assert"
)

type fakeBus struct {
	lcdc, stat, scy, scx, ly, lyc, bgp, obp0, obp1, wy, wx uint8
	vram                                                   [0x2000]uint8
	oam                                                    [0xA0]uint8
	interrupts                                             []addr.Interrupt
}

func (b *fakeBus) LCDC() uint8                       { return b.lcdc }
func (b *fakeBus) STAT() uint8                       { return b.stat }
func (b *fakeBus) SCY() uint8                        { return b.scy }
func (b *fakeBus) SCX() uint8                        { return b.scx }
func (b *fakeBus) LYC() uint8                        { return b.lyc }
func (b *fakeBus) BGP() uint8                        { return b.bgp }
func (b *fakeBus) OBP0() uint8                       { return b.obp0 }
func (b *fakeBus) OBP1() uint8                       { return b.obp1 }
func (b *fakeBus) WY() uint8                         { return b.wy }
func (b *fakeBus) WX() uint8                         { return b.wx }
func (b *fakeBus) ReadVRAM(offset uint16) uint8       { return b.vram[offset] }
func (b *fakeBus) ReadOAM(index uint16) uint8         { return b.oam[index] }
func (b *fakeBus) SetLY(v uint8)                      { b.ly = v }
func (b *fakeBus) SetSTATMode(mode uint8)             { b.stat = (b.stat &^ 0x03) | mode }
func (b *fakeBus) SetCoincidenceFlag(v bool) {
	if v {
		b.stat |= 0x04
	} else {
		b.stat &^= 0x04
	}
}
func (b *fakeBus) RequestInterrupt(i addr.Interrupt) { b.interrupts = append(b.interrupts, i) }

func newFakeBus() *fakeBus {
	return &fakeBus{lcdc: 0x91, bgp: 0xE4} // display+unsigned-tile-data+BG defaults, identity palette
}

type discardSink struct{}

func (discardSink) MapPixel(int, Color) {}

func TestFrameProducesExactlyOneVBlankAndLYWraps(t *testing.T) {
	bus := newFakeBus()
	p := NewPPU()
	sink := discardSink{}

	// Burn through the LCD-enable warm-up first so the frame below is clean.
	p.Step(warmupCycles, bus, sink)

	vblanks := 0
	maxLY := uint8(0)
	const cyclesPerFrame = 70224
	spent := 0
	for spent < cyclesPerFrame {
		if p.Step(1, bus, sink) {
			vblanks++
		}
		if p.LY() > maxLY {
			maxLY = p.LY()
		}
		spent++
	}

	assert.Equal(t, 1, vblanks)
	assert.Equal(t, uint8(153), maxLY)
	assert.Equal(t, uint8(0), p.LY())
}

func TestDisplayDisableParksLYAtZero(t *testing.T) {
	bus := newFakeBus()
	bus.lcdc = 0 // display off from the start
	p := NewPPU()
	sink := discardSink{}

	for i := 0; i < 100000; i++ {
		p.Step(1, bus, sink)
	}
	assert.Equal(t, uint8(0), p.LY())
}

func TestLYHoldsZeroDuringWarmup(t *testing.T) {
	bus := newFakeBus()
	p := NewPPU()
	sink := discardSink{}

	p.Step(warmupCycles-1, bus, sink)
	assert.Equal(t, uint8(0), p.LY())
}

func TestSTATInterruptFiresOnceOnUnionRisingEdge(t *testing.T) {
	bus := newFakeBus()
	bus.stat = 0x20 // OAM-scan STAT select enabled
	p := NewPPU()
	sink := discardSink{}

	p.Step(warmupCycles, bus, sink)
	bus.interrupts = nil

	// Run through one full scanline so HBlank->OAMScan happens at least once;
	// OAMScan's STAT select should fire exactly once per such transition.
	for i := 0; i < oamScanCycles+pixelTransferCycles+hblankCycles+1; i++ {
		p.Step(1, bus, sink)
	}
	count := 0
	for _, src := range bus.interrupts {
		if src == addr.LCDStat {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestNotifySTATWriteRetriggersWithoutModeTransition(t *testing.T) {
	bus := newFakeBus()
	p := NewPPU()
	sink := discardSink{}

	p.Step(warmupCycles, bus, sink)
	for p.CurrentMode() != HBlank {
		p.Step(1, bus, sink)
	}
	bus.interrupts = nil

	// HBlank-select is off, so no STAT interrupt pending; a write that turns
	// it on while still parked in HBlank must retrigger immediately, per the
	// irq48 union's 0->nonzero rule, without waiting for the next mode change.
	bus.stat |= 0x08
	p.NotifySTATWrite(bus)

	count := 0
	for _, src := range bus.interrupts {
		if src == addr.LCDStat {
			count++
		}
	}
	assert.Equal(t, 1, count)

	// A second notify with nothing newly enabled must not refire.
	p.NotifySTATWrite(bus)
	count = 0
	for _, src := range bus.interrupts {
		if src == addr.LCDStat {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
