package audio

import (
	"testing"

	"github.com/silverfir/go-dmgcore/dmgcore/addr"
	"github.com/stretchr/testify/assert"
)

func TestPowerOffZeroesRegistersExceptNR52(t *testing.T) {
	a := New()
	a.WriteRegister(addr.NR52, 0x80)
	a.WriteRegister(addr.NR10, 0x12)
	a.WriteRegister(addr.NR11, 0x34)

	assert.Equal(t, uint8((0x12&0x7F)|0x80), a.ReadRegister(addr.NR10))

	a.WriteRegister(addr.NR52, 0x00)

	assert.Equal(t, uint8(0x80), a.ReadRegister(addr.NR10))
	assert.Equal(t, uint8(0x3F), a.ReadRegister(addr.NR11))
	assert.Equal(t, uint8(0x70), a.ReadRegister(addr.NR52))
}

func TestFrameSequencerAdvancesEvery8192Cycles(t *testing.T) {
	a := New()
	a.WriteRegister(addr.NR52, 0x80)
	initial := a.step

	a.Step(8191)
	assert.Equal(t, initial, a.step)

	a.Step(1)
	assert.Equal(t, (initial+1)&7, a.step)

	for i := 0; i < 7; i++ {
		a.Step(8192)
	}
	assert.Equal(t, initial, a.step)
}

func TestTriggerEnablesChannelWithDACOn(t *testing.T) {
	a := New()
	a.WriteRegister(addr.NR52, 0x80)
	a.WriteRegister(addr.NR12, 0xF0) // initial volume 15, DAC on
	a.WriteRegister(addr.NR11, 0x80)
	a.WriteRegister(addr.NR13, 0x00)
	a.WriteRegister(addr.NR14, 0x87) // trigger + high freq bits

	ch1, _, _, _ := a.ChannelStatus()
	assert.True(t, ch1)
}

func TestBufferFillsToCapacityAndDrains(t *testing.T) {
	a := New()
	a.WriteRegister(addr.NR52, 0x80)
	a.WriteRegister(addr.NR51, 0xFF) // pan everything to both sides
	a.WriteRegister(addr.NR50, 0x77)
	a.WriteRegister(addr.NR12, 0xF0)
	a.WriteRegister(addr.NR11, 0x80)
	a.WriteRegister(addr.NR13, 0x00)
	a.WriteRegister(addr.NR14, 0x87)

	full := false
	for i := 0; i < bufferFrames*2 && !full; i++ {
		full = a.Step(int(a.cyclesPerSample) + 1)
	}
	assert.True(t, full)

	samples := a.TakeBuffer()
	assert.Equal(t, bufferFrames*2, len(samples))
	assert.Equal(t, 0, a.bufLen)
	assert.False(t, a.full)
}

func TestLengthCounterDisablesChannelAtZero(t *testing.T) {
	a := New()
	a.WriteRegister(addr.NR52, 0x80)
	a.WriteRegister(addr.NR12, 0xF0)
	a.WriteRegister(addr.NR11, 0x3F) // length = 64-63 = 1
	a.WriteRegister(addr.NR14, 0xC0) // trigger + length enable, freq bits 0

	ch1, _, _, _ := a.ChannelStatus()
	assert.True(t, ch1)

	for i := 0; i < 8; i++ {
		a.Step(cyclesPerStep)
	}
	ch1, _, _, _ = a.ChannelStatus()
	assert.False(t, ch1)
}

func TestWaveRAMReadsThroughWhenChannelInactive(t *testing.T) {
	a := New()
	a.WriteRegister(addr.NR52, 0x80)
	a.WriteRegister(addr.WaveRAMStart, 0xAB)
	assert.Equal(t, uint8(0xAB), a.ReadRegister(addr.WaveRAMStart))
}
