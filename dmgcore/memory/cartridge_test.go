package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeROM(cartType, romSizeCode, ramSizeCode uint8, title string) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[headerTitleStart:headerTitleEnd+1], title)
	rom[headerCartType] = cartType
	rom[headerROMSize] = romSizeCode
	rom[headerRAMSize] = ramSizeCode
	return rom
}

func TestNewCartridgeParsesHeader(t *testing.T) {
	rom := makeROM(0x03, 0x00, 0x02, "TESTGAME")
	c, err := NewCartridge(rom, nil)
	require.NoError(t, err)
	assert.Equal(t, "TESTGAME", c.Name())
	assert.True(t, c.HasBattery())
	assert.False(t, c.HasRTC())
	assert.Equal(t, MBC1, c.mapper.Kind)
	assert.Equal(t, 2, c.mapper.romBankCount)
}

func TestNewCartridgeUnknownMapper(t *testing.T) {
	rom := makeROM(0xFE, 0x00, 0x00, "X")
	_, err := NewCartridge(rom, nil)
	var target *UnknownMapperError
	require.ErrorAs(t, err, &target)
}

func TestNewCartridgeUnknownROMSize(t *testing.T) {
	rom := makeROM(0x00, 0x09, 0x00, "X")
	_, err := NewCartridge(rom, nil)
	var target *UnknownROMSizeError
	require.ErrorAs(t, err, &target)
}

func TestCartridgeRAMRoundTrip(t *testing.T) {
	rom := makeROM(0x03, 0x00, 0x02, "RAMTEST")
	c, err := NewCartridge(rom, nil)
	require.NoError(t, err)

	data := make([]byte, len(c.RAM()))
	for i := range data {
		data[i] = uint8(i)
	}
	c.SetRAM(data)
	assert.Equal(t, data, c.RAM())
}

func TestCartridgeRAMWriteObserverInvokedExactlyOnce(t *testing.T) {
	rom := makeROM(0x03, 0x00, 0x02, "OBS")
	c, err := NewCartridge(rom, nil)
	require.NoError(t, err)

	calls := 0
	var gotAddr int
	var gotVal uint8
	c.SetRAMWriteObserver(func(address int, value uint8) {
		calls++
		gotAddr, gotVal = address, value
	})

	c.mapper.ramEnabled = true
	c.Write(0xA010, 0x77)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0x10, gotAddr)
	assert.Equal(t, uint8(0x77), gotVal)
}

func TestCleanTitleReplacesNonPrintable(t *testing.T) {
	raw := []byte{'H', 'I', 0x00, 0x00, 0x01, 0x00}
	assert.Equal(t, "HI  ?", cleanTitle(raw))
}
