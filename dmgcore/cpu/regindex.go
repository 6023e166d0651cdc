package cpu

// The base LD r,r'/ALU-A,r grids and the CB grid both index registers in
// the same order: B, C, D, E, H, L, (HL), A. These two helpers centralize
// that decoding so the (HL) case (one extra machine cycle of bus traffic)
// is handled once.

func (c *CPU) readRegIndex(bus Bus, i uint8) uint8 {
	switch i {
	case 0:
		return c.Regs.B
	case 1:
		return c.Regs.C
	case 2:
		return c.Regs.D
	case 3:
		return c.Regs.E
	case 4:
		return c.Regs.H
	case 5:
		return c.Regs.L
	case 6:
		return bus.ReadByte(c.Regs.HL())
	default:
		return c.Regs.A
	}
}

func (c *CPU) writeRegIndex(bus Bus, i uint8, v uint8) {
	switch i {
	case 0:
		c.Regs.B = v
	case 1:
		c.Regs.C = v
	case 2:
		c.Regs.D = v
	case 3:
		c.Regs.E = v
	case 4:
		c.Regs.H = v
	case 5:
		c.Regs.L = v
	case 6:
		bus.WriteByte(c.Regs.HL(), v)
	default:
		c.Regs.A = v
	}
}

// regIndexIsIndirect reports whether the index addresses (HL), which costs
// an extra machine cycle over a plain register.
func regIndexIsIndirect(i uint8) bool { return i == 6 }
