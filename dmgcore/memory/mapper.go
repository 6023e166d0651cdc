package memory

// MapperKind is the closed set of cartridge mapper variants. A tagged sum
// over this small set is simpler than per-access interface dispatch and
// matches the enumerated cartridge types a real Game Boy header can name.
type MapperKind uint8

const (
	NoMBC MapperKind = iota
	MBC1
	MBC2
	MBC3
	MBC5
)

// Mapper is the tagged-union bank-switching state shared by all five
// variants; Read/Write switch on Kind rather than dispatching through an
// interface.
type Mapper struct {
	Kind MapperKind

	ROM []byte
	RAM []byte

	romBankCount int
	ramBankCount int

	ramEnabled bool

	romBank   uint16 // MBC1/MBC2/MBC3: low bits; MBC5: full 9 bits across two writes
	ramBank   uint8  // RAM bank, or MBC3 RTC-register select (0x08-0x0C)
	bankMode  uint8  // MBC1 only: 0 = ROM banking mode, 1 = RAM banking mode
	romBankHi uint8  // MBC1 only: bits 5-6 of the extended ROM bank

	rtc   RTC
	clock WallClockSource // MBC3 only; consulted at the latch write edge

	onRAMWrite func(address int, value uint8)
}

// SetRAMWriteObserver registers the host callback invoked on every
// successful cartridge-RAM write, carrying the address within RAM.
func (m *Mapper) SetRAMWriteObserver(fn func(address int, value uint8)) {
	m.onRAMWrite = fn
}

func (m *Mapper) notifyRAMWrite(addr int, v uint8) {
	if m.onRAMWrite != nil {
		m.onRAMWrite(addr, v)
	}
}

// Read dispatches a cartridge-space read (0x0000-0x7FFF ROM, 0xA000-0xBFFF RAM).
func (m *Mapper) Read(address uint16) uint8 {
	switch m.Kind {
	case NoMBC:
		return m.readNoMBC(address)
	case MBC1:
		return m.readMBC1(address)
	case MBC2:
		return m.readMBC2(address)
	case MBC3:
		return m.readMBC3(address)
	case MBC5:
		return m.readMBC5(address)
	default:
		return 0xFF
	}
}

// Write dispatches a cartridge-space write.
func (m *Mapper) Write(address uint16, v uint8) {
	switch m.Kind {
	case NoMBC:
		// ignored: no registers, no switchable banks, no RAM control.
	case MBC1:
		m.writeMBC1(address, v)
	case MBC2:
		m.writeMBC2(address, v)
	case MBC3:
		m.writeMBC3(address, v)
	case MBC5:
		m.writeMBC5(address, v)
	}
}

func (m *Mapper) romBankAt(bank int) []byte {
	bank %= m.romBankCount
	if bank < 0 {
		bank = 0
	}
	start := bank * 0x4000
	end := start + 0x4000
	if end > len(m.ROM) {
		end = len(m.ROM)
	}
	if start >= len(m.ROM) {
		return nil
	}
	return m.ROM[start:end]
}

func readBank(bank []byte, offset uint16) uint8 {
	if bank == nil || int(offset) >= len(bank) {
		return 0xFF
	}
	return bank[offset]
}

// --- NoMBC -----------------------------------------------------------

func (m *Mapper) readNoMBC(address uint16) uint8 {
	switch {
	case address < 0x8000:
		return readBank(m.ROM, address)
	case address >= 0xA000 && address < 0xC000:
		offset := address - 0xA000
		if int(offset) < len(m.RAM) {
			return m.RAM[offset]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

// --- MBC1 --------------------------------------------------------------

func (m *Mapper) readMBC1(address uint16) uint8 {
	switch {
	case address < 0x4000:
		if m.bankMode == 1 {
			return readBank(m.romBankAt(int(m.romBankHi)<<5), address)
		}
		return readBank(m.romBankAt(0), address)
	case address < 0x8000:
		bank := int(m.romBank) | int(m.romBankHi)<<5
		return readBank(m.romBankAt(bank), address-0x4000)
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled || m.ramBankCount == 0 {
			return 0xFF
		}
		bank := 0
		if m.bankMode == 1 {
			bank = int(m.romBankHi) % m.ramBankCount
		}
		offset := bank*0x2000 + int(address-0xA000)
		if offset < len(m.RAM) {
			return m.RAM[offset]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *Mapper) writeMBC1(address uint16, v uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = v&0x0F == 0x0A
	case address < 0x4000:
		// The low 5 bits select the bank; bank 0 auto-increments. When
		// the low 5 bits alone are zero, the increment is applied to the
		// full written byte (not the masked value) so a write of 0x20
		// selects bank 0x21, matching the documented hardware quirk.
		bank := v & 0x1F
		if bank == 0 {
			bank = v + 1
		}
		m.romBank = uint16(bank)
	case address < 0x6000:
		m.romBankHi = v & 0x03
	case address < 0x8000:
		m.bankMode = v & 0x01
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled || m.ramBankCount == 0 {
			return
		}
		bank := 0
		if m.bankMode == 1 {
			bank = int(m.romBankHi) % m.ramBankCount
		}
		offset := bank*0x2000 + int(address-0xA000)
		if offset < len(m.RAM) {
			m.RAM[offset] = v
			m.notifyRAMWrite(offset, v)
		}
	}
}

// --- MBC2 ----------------------------------------------------------------
// MBC2 has a fixed 512 x 4-bit internal RAM; only the low nibble of each
// byte is meaningful and address bit 8 of the write address selects
// between the RAM-enable and ROM-bank registers in the 0x0000-0x3FFF range.

func (m *Mapper) readMBC2(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return readBank(m.romBankAt(0), address)
	case address < 0x8000:
		bank := int(m.romBank)
		if bank == 0 {
			bank = 1
		}
		return readBank(m.romBankAt(bank), address-0x4000)
	case address >= 0xA000 && address < 0xA200:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.RAM[address-0xA000] | 0xF0
	default:
		return 0x00
	}
}

func (m *Mapper) writeMBC2(address uint16, v uint8) {
	switch {
	case address < 0x4000:
		if address&0x0100 == 0 {
			m.ramEnabled = v&0x0F == 0x0A
		} else {
			bank := v & 0x0F
			if bank == 0 {
				bank = 1
			}
			m.romBank = uint16(bank)
		}
	case address >= 0xA000 && address < 0xA200:
		if !m.ramEnabled {
			return
		}
		nibble := v & 0x0F
		m.RAM[address-0xA000] = nibble
		m.notifyRAMWrite(int(address-0xA000), nibble)
	}
}

// --- MBC3 (+RTC) -----------------------------------------------------

func (m *Mapper) readMBC3(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return readBank(m.romBankAt(0), address)
	case address < 0x8000:
		bank := int(m.romBank & 0x7F)
		if bank == 0 {
			bank = 1
		}
		return readBank(m.romBankAt(bank), address-0x4000)
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.ramBank >= 0x08 {
			return m.rtc.ReadRegister(m.ramBank)
		}
		if m.ramBankCount == 0 {
			return 0xFF
		}
		offset := int(m.ramBank)%m.ramBankCount*0x2000 + int(address-0xA000)
		if offset < len(m.RAM) {
			return m.RAM[offset]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *Mapper) writeMBC3(address uint16, v uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = v&0x0F == 0x0A
	case address < 0x4000:
		bank := v & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = uint16(bank)
	case address < 0x6000:
		m.ramBank = v
	case address < 0x8000:
		if m.clock != nil && m.rtc.prevLatchByte == 0 && v&0x01 == 1 {
			m.rtc.Advance(m.clock.Now())
		}
		m.rtc.Latch(v & 0x01)
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled {
			return
		}
		if m.ramBank >= 0x08 {
			m.rtc.WriteRegister(m.ramBank, v)
			return
		}
		if m.ramBankCount == 0 {
			return
		}
		offset := int(m.ramBank)%m.ramBankCount*0x2000 + int(address-0xA000)
		if offset < len(m.RAM) {
			m.RAM[offset] = v
			m.notifyRAMWrite(offset, v)
		}
	}
}

// --- MBC5 --------------------------------------------------------------

func (m *Mapper) readMBC5(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return readBank(m.romBankAt(0), address)
	case address < 0x8000:
		return readBank(m.romBankAt(int(m.romBank)), address-0x4000)
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled || m.ramBankCount == 0 {
			return 0xFF
		}
		offset := int(m.ramBank)%m.ramBankCount*0x2000 + int(address-0xA000)
		if offset < len(m.RAM) {
			return m.RAM[offset]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *Mapper) writeMBC5(address uint16, v uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = v&0x0F == 0x0A
	case address < 0x3000:
		m.romBank = (m.romBank & 0x100) | uint16(v)
	case address < 0x4000:
		m.romBank = (m.romBank & 0x0FF) | uint16(v&0x01)<<8
	case address < 0x6000:
		m.ramBank = v & 0x0F
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled || m.ramBankCount == 0 {
			return
		}
		offset := int(m.ramBank)%m.ramBankCount*0x2000 + int(address-0xA000)
		if offset < len(m.RAM) {
			m.RAM[offset] = v
			m.notifyRAMWrite(offset, v)
		}
	}
}
