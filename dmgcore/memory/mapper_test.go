package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMBC1(romBanks int) *Mapper {
	return &Mapper{
		Kind:         MBC1,
		ROM:          make([]byte, romBanks*0x4000),
		RAM:          make([]byte, 4*0x2000),
		romBankCount: romBanks,
		ramBankCount: 4,
		romBank:      1,
	}
}

func TestMBC1BankZeroFixed(t *testing.T) {
	m := newMBC1(32)
	m.ROM[0x0000] = 0xAA
	assert.Equal(t, uint8(0xAA), m.Read(0x0000))
}

func TestMBC1BankSelect(t *testing.T) {
	m := newMBC1(32)
	m.ROM[2*0x4000] = 0xCC
	m.Write(0x2100, 0x02)
	assert.Equal(t, uint8(0xCC), m.Read(0x4000))
}

func TestMBC1BankZeroAutoIncrementsToOne(t *testing.T) {
	m := newMBC1(32)
	m.ROM[1*0x4000] = 0xDD
	m.Write(0x2100, 0x00)
	assert.Equal(t, uint8(0xDD), m.Read(0x4000))
}

func TestMBC1BankZeroWriteIncrementsFullByte(t *testing.T) {
	m := newMBC1(64)
	m.ROM[0x21*0x4000] = 0xEE
	m.Write(0x2100, 0x20) // low 5 bits are 0, so 0x20 -> bank 0x21
	assert.Equal(t, uint8(0xEE), m.Read(0x4000))
}

func TestMBC1RAMDisabledReadsFF(t *testing.T) {
	m := newMBC1(32)
	assert.Equal(t, uint8(0xFF), m.Read(0xA000))
}

func TestMBC1RAMEnableAndBank(t *testing.T) {
	m := newMBC1(32)
	m.Write(0x0000, 0x0A) // enable RAM
	m.Write(0x6000, 0x01) // RAM banking mode
	m.Write(0x4000, 0x03) // select RAM bank 3
	m.Write(0xA000, 0x42)
	require.Equal(t, uint8(0x42), m.Read(0xA000))

	m.Write(0x4000, 0x00)
	assert.NotEqual(t, uint8(0x42), m.Read(0xA000))
}

func TestMBC2RAMNibbleOnly(t *testing.T) {
	m := &Mapper{Kind: MBC2, ROM: make([]byte, 4*0x4000), RAM: make([]byte, 512), romBankCount: 4, romBank: 1}
	m.Write(0x0000, 0x0A) // RAM enable (bit 8 of address clear)
	m.Write(0xA000, 0xF7)
	assert.Equal(t, uint8(0xF7), m.Read(0xA000)) // low nibble 0x7, high nibble forced to 1s
}

func TestMBC2IgnoresRAMEnableWhenBit8Set(t *testing.T) {
	m := &Mapper{Kind: MBC2, ROM: make([]byte, 4*0x4000), RAM: make([]byte, 512), romBankCount: 4, romBank: 1}
	m.Write(0x0100, 0x0A) // bit 8 set: ROM bank select, not RAM enable
	assert.Equal(t, uint8(0xFF), m.Read(0xA000))
}

func TestMBC3RTCLatchAndReadback(t *testing.T) {
	m := &Mapper{Kind: MBC3, ROM: make([]byte, 4*0x4000), RAM: make([]byte, 2*0x2000), romBankCount: 4, ramBankCount: 2, romBank: 1}
	m.Write(0x0000, 0x0A) // RAM enable
	m.mapperRTCSet(12, 30, 5, 1, 0)

	m.Write(0x6000, 0x00)
	m.Write(0x6000, 0x01) // 0->1 edge latches

	m.Write(0x4000, 0x08) // select seconds register
	assert.Equal(t, uint8(12), m.Read(0xA000))
}

func (m *Mapper) mapperRTCSet(s, min, h, dl, dh uint8) {
	m.rtc.seconds, m.rtc.minutes, m.rtc.hours = s, min, h
	m.rtc.dayLow, m.rtc.dayHigh = dl, dh
}

func TestMBC5NineBitBank(t *testing.T) {
	m := &Mapper{Kind: MBC5, ROM: make([]byte, 512*0x4000), RAM: make([]byte, 0x2000), romBankCount: 512, ramBankCount: 1, romBank: 1}
	m.ROM[0x1FF*0x4000] = 0x99
	m.Write(0x2000, 0xFF) // low 8 bits
	m.Write(0x3000, 0x01) // bit 8
	assert.Equal(t, uint8(0x99), m.Read(0x4000))
}
