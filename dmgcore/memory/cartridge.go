package memory

import "strings"

const (
	headerTitleStart  = 0x0134
	headerTitleEnd    = 0x0143
	headerCartType    = 0x0147
	headerROMSize     = 0x0148
	headerRAMSize     = 0x0149
)

// cartType describes one cartridge-type byte's (0x147) decoded meaning.
type cartType struct {
	kind       MapperKind
	hasBattery bool
	hasRTC     bool
}

var cartTypeTable = map[uint8]cartType{
	0x00: {NoMBC, false, false},
	0x08: {NoMBC, false, false},
	0x09: {NoMBC, true, false},
	0x01: {MBC1, false, false},
	0x02: {MBC1, false, false},
	0x03: {MBC1, true, false},
	0x05: {MBC2, false, false},
	0x06: {MBC2, true, false},
	0x0F: {MBC3, true, true},
	0x10: {MBC3, true, true},
	0x11: {MBC3, false, false},
	0x12: {MBC3, false, false},
	0x13: {MBC3, true, false},
	0x19: {MBC5, false, false},
	0x1A: {MBC5, false, false},
	0x1B: {MBC5, true, false},
	0x1C: {MBC5, false, false},
	0x1D: {MBC5, false, false},
	0x1E: {MBC5, true, false},
}

// ramBankCounts maps header byte 0x149 to a bank count (each bank 8 KiB).
var ramBankCounts = map[uint8]int{
	0x00: 0,
	0x01: 1,
	0x02: 1,
	0x03: 4,
	0x04: 16,
	0x05: 8,
}

// Cartridge owns the ROM image, cartridge RAM, and mapper state, and
// exposes the name/battery/RTC metadata the façade surfaces to the host.
type Cartridge struct {
	mapper     Mapper
	title      string
	hasBattery bool
	hasRTC     bool
}

// NewCartridge parses the ROM header and constructs the matching mapper.
// clock is consulted only by an MBC3 cartridge's RTC latch write; it may
// be nil for cartridges without an RTC, or in tests that never latch.
func NewCartridge(rom []byte, clock WallClockSource) (*Cartridge, error) {
	if len(rom) < 0x150 {
		padded := make([]byte, 0x150)
		copy(padded, rom)
		rom = padded
	}

	typeCode := rom[headerCartType]
	ct, ok := cartTypeTable[typeCode]
	if !ok {
		return nil, &UnknownMapperError{Code: typeCode}
	}

	romSizeCode := rom[headerROMSize]
	if romSizeCode > 8 {
		return nil, &UnknownROMSizeError{Code: romSizeCode}
	}
	romBankCount := 2 << romSizeCode

	ramSizeCode := rom[headerRAMSize]
	ramBankCount, ok := ramBankCounts[ramSizeCode]
	if !ok {
		return nil, &UnknownRAMSizeError{Code: ramSizeCode}
	}

	var ramSize int
	switch ct.kind {
	case MBC2:
		ramSize = 512 // 512 x 4-bit nibbles, one byte each, low nibble used
		ramBankCount = 1
	default:
		ramSize = ramBankCount * 0x2000
	}

	c := &Cartridge{
		title:      cleanTitle(rom[headerTitleStart : headerTitleEnd+1]),
		hasBattery: ct.hasBattery,
		hasRTC:     ct.hasRTC,
	}
	c.mapper = Mapper{
		Kind:         ct.kind,
		ROM:          rom,
		RAM:          make([]byte, ramSize),
		romBankCount: romBankCount,
		ramBankCount: ramBankCount,
		romBank:      1,
		clock:        clock,
	}
	return c, nil
}

// cleanTitle replaces the NUL padding most ROMs use with spaces and any
// other non-printable byte with '?', then trims the result.
func cleanTitle(raw []byte) string {
	var b strings.Builder
	for _, v := range raw {
		switch {
		case v == 0:
			b.WriteByte(' ')
		case v < 0x20 || v > 0x7E:
			b.WriteByte('?')
		default:
			b.WriteByte(v)
		}
	}
	return strings.TrimSpace(b.String())
}

func (c *Cartridge) Name() string     { return c.title }
func (c *Cartridge) HasBattery() bool { return c.hasBattery }
func (c *Cartridge) HasRTC() bool     { return c.hasRTC }

func (c *Cartridge) Read(address uint16) uint8    { return c.mapper.Read(address) }
func (c *Cartridge) Write(address uint16, v uint8) { c.mapper.Write(address, v) }

// RAM returns the raw battery-backed cartridge RAM for save-file persistence.
func (c *Cartridge) RAM() []byte { return c.mapper.RAM }

// SetRAM overwrites the cartridge RAM, e.g. when loading a save file.
func (c *Cartridge) SetRAM(data []byte) {
	n := copy(c.mapper.RAM, data)
	_ = n
}

func (c *Cartridge) SetRAMWriteObserver(fn func(address int, value uint8)) {
	c.mapper.SetRAMWriteObserver(fn)
}

// RTCSnapshot/SetRTCSnapshot expose the MBC3 real-time-clock state for
// save-file round-tripping. For mappers without an RTC the state is still
// stored and returned, but nothing reads or advances it. The clock itself
// only ever advances at the mapper's own latch write (see
// Mapper.writeMBC3), never from a host-driven call.
func (c *Cartridge) RTCSnapshot() Snapshot { return c.mapper.rtc.Snapshot() }
func (c *Cartridge) SetRTCSnapshot(s Snapshot) {
	c.mapper.rtc.SetSnapshot(s)
}
