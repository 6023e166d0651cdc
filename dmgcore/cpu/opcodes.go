package cpu

// opcodeFunc executes one base (non-CB) opcode and returns its cost in
// machine cycles, taken (branch) cost included where relevant.
type opcodeFunc func(c *CPU, bus Bus) uint8

// baseOpcodes is indexed by the raw opcode byte. Entries left nil are the
// eleven undefined LR35902 opcodes and panic with IllegalOpcode.
var baseOpcodes [256]opcodeFunc

func init() {
	// 0x40-0x7F: LD r,r' over the 8x8 register grid, except 0x76 (HALT).
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x40 + dst*8 + src
			if opcode == 0x76 {
				continue
			}
			d, s := dst, src
			cycles := uint8(1)
			if regIndexIsIndirect(d) || regIndexIsIndirect(s) {
				cycles = 2
			}
			baseOpcodes[opcode] = func(c *CPU, bus Bus) uint8 {
				c.writeRegIndex(bus, d, c.readRegIndex(bus, s))
				return cycles
			}
		}
	}
	baseOpcodes[0x76] = func(c *CPU, bus Bus) uint8 {
		c.halted = true
		if !c.ime && bus.PendingInterrupts() {
			c.haltBug = true
		}
		return 1
	}

	// 0x80-0xBF: ALU A,r over the 8-operation x 8-register grid.
	alu := []func(c *CPU, n uint8){
		func(c *CPU, n uint8) { c.addA(n) },
		func(c *CPU, n uint8) { c.adcA(n) },
		func(c *CPU, n uint8) { c.sub(n) },
		func(c *CPU, n uint8) { c.sbcA(n) },
		func(c *CPU, n uint8) { c.andA(n) },
		func(c *CPU, n uint8) { c.xorA(n) },
		func(c *CPU, n uint8) { c.orA(n) },
		func(c *CPU, n uint8) { c.cp(n) },
	}
	for op := uint8(0); op < 8; op++ {
		for reg := uint8(0); reg < 8; reg++ {
			opcode := 0x80 + op*8 + reg
			fn := alu[op]
			r := reg
			cycles := uint8(1)
			if regIndexIsIndirect(r) {
				cycles = 2
			}
			baseOpcodes[opcode] = func(c *CPU, bus Bus) uint8 {
				fn(c, c.readRegIndex(bus, r))
				return cycles
			}
		}
	}

	registerMiscOpcodes()
}

func registerMiscOpcodes() {
	o := &baseOpcodes

	o[0x00] = func(c *CPU, bus Bus) uint8 { return 1 } // NOP

	o[0x01] = func(c *CPU, bus Bus) uint8 { c.Regs.SetBC(c.fetch16(bus)); return 3 }
	o[0x11] = func(c *CPU, bus Bus) uint8 { c.Regs.SetDE(c.fetch16(bus)); return 3 }
	o[0x21] = func(c *CPU, bus Bus) uint8 { c.Regs.SetHL(c.fetch16(bus)); return 3 }
	o[0x31] = func(c *CPU, bus Bus) uint8 { c.Regs.SP = c.fetch16(bus); return 3 }

	o[0x02] = func(c *CPU, bus Bus) uint8 { bus.WriteByte(c.Regs.BC(), c.Regs.A); return 2 }
	o[0x12] = func(c *CPU, bus Bus) uint8 { bus.WriteByte(c.Regs.DE(), c.Regs.A); return 2 }
	o[0x22] = func(c *CPU, bus Bus) uint8 {
		hl := c.Regs.HL()
		bus.WriteByte(hl, c.Regs.A)
		c.Regs.SetHL(hl + 1)
		return 2
	}
	o[0x32] = func(c *CPU, bus Bus) uint8 {
		hl := c.Regs.HL()
		bus.WriteByte(hl, c.Regs.A)
		c.Regs.SetHL(hl - 1)
		return 2
	}

	o[0x0A] = func(c *CPU, bus Bus) uint8 { c.Regs.A = bus.ReadByte(c.Regs.BC()); return 2 }
	o[0x1A] = func(c *CPU, bus Bus) uint8 { c.Regs.A = bus.ReadByte(c.Regs.DE()); return 2 }
	o[0x2A] = func(c *CPU, bus Bus) uint8 {
		hl := c.Regs.HL()
		c.Regs.A = bus.ReadByte(hl)
		c.Regs.SetHL(hl + 1)
		return 2
	}
	o[0x3A] = func(c *CPU, bus Bus) uint8 {
		hl := c.Regs.HL()
		c.Regs.A = bus.ReadByte(hl)
		c.Regs.SetHL(hl - 1)
		return 2
	}

	o[0x03] = func(c *CPU, bus Bus) uint8 { c.Regs.SetBC(c.Regs.BC() + 1); return 2 }
	o[0x13] = func(c *CPU, bus Bus) uint8 { c.Regs.SetDE(c.Regs.DE() + 1); return 2 }
	o[0x23] = func(c *CPU, bus Bus) uint8 { c.Regs.SetHL(c.Regs.HL() + 1); return 2 }
	o[0x33] = func(c *CPU, bus Bus) uint8 { c.Regs.SP++; return 2 }
	o[0x0B] = func(c *CPU, bus Bus) uint8 { c.Regs.SetBC(c.Regs.BC() - 1); return 2 }
	o[0x1B] = func(c *CPU, bus Bus) uint8 { c.Regs.SetDE(c.Regs.DE() - 1); return 2 }
	o[0x2B] = func(c *CPU, bus Bus) uint8 { c.Regs.SetHL(c.Regs.HL() - 1); return 2 }
	o[0x3B] = func(c *CPU, bus Bus) uint8 { c.Regs.SP--; return 2 }

	o[0x09] = func(c *CPU, bus Bus) uint8 { c.addHL(c.Regs.BC()); return 2 }
	o[0x19] = func(c *CPU, bus Bus) uint8 { c.addHL(c.Regs.DE()); return 2 }
	o[0x29] = func(c *CPU, bus Bus) uint8 { c.addHL(c.Regs.HL()); return 2 }
	o[0x39] = func(c *CPU, bus Bus) uint8 { c.addHL(c.Regs.SP); return 2 }

	// INC/DEC/LD r,d8 for each 8-bit register (plus (HL)).
	regSetups := []struct {
		idx            uint8
		inc, dec, ldN  uint8
	}{
		{0, 0x04, 0x05, 0x06},
		{1, 0x0C, 0x0D, 0x0E},
		{2, 0x14, 0x15, 0x16},
		{3, 0x1C, 0x1D, 0x1E},
		{4, 0x24, 0x25, 0x26},
		{5, 0x2C, 0x2D, 0x2E},
		{6, 0x34, 0x35, 0x36},
		{7, 0x3C, 0x3D, 0x3E},
	}
	for _, rs := range regSetups {
		idx := rs.idx
		incCycles, decCycles, ldCycles := uint8(1), uint8(1), uint8(2)
		if regIndexIsIndirect(idx) {
			incCycles, decCycles, ldCycles = 3, 3, 3
		}
		o[rs.inc] = func(c *CPU, bus Bus) uint8 {
			c.writeRegIndex(bus, idx, c.inc(c.readRegIndex(bus, idx)))
			return incCycles
		}
		o[rs.dec] = func(c *CPU, bus Bus) uint8 {
			c.writeRegIndex(bus, idx, c.dec(c.readRegIndex(bus, idx)))
			return decCycles
		}
		o[rs.ldN] = func(c *CPU, bus Bus) uint8 {
			c.writeRegIndex(bus, idx, c.fetch(bus))
			return ldCycles
		}
	}

	o[0x07] = func(c *CPU, bus Bus) uint8 { c.rlca(); return 1 }
	o[0x0F] = func(c *CPU, bus Bus) uint8 { c.rrca(); return 1 }
	o[0x17] = func(c *CPU, bus Bus) uint8 { c.rla(); return 1 }
	o[0x1F] = func(c *CPU, bus Bus) uint8 { c.rra(); return 1 }
	o[0x27] = func(c *CPU, bus Bus) uint8 { c.daa(); return 1 }
	o[0x2F] = func(c *CPU, bus Bus) uint8 { c.cpl(); return 1 }
	o[0x37] = func(c *CPU, bus Bus) uint8 { c.scf(); return 1 }
	o[0x3F] = func(c *CPU, bus Bus) uint8 { c.ccf(); return 1 }

	o[0x08] = func(c *CPU, bus Bus) uint8 {
		addr := c.fetch16(bus)
		bus.WriteByte(addr, uint8(c.Regs.SP))
		bus.WriteByte(addr+1, uint8(c.Regs.SP>>8))
		return 5
	}

	o[0x10] = func(c *CPU, bus Bus) uint8 { c.stopped = true; return 1 } // STOP

	o[0x18] = func(c *CPU, bus Bus) uint8 {
		e := int8(c.fetch(bus))
		c.Regs.PC = uint16(int32(c.Regs.PC) + int32(e))
		return 3
	}
	jrCond := []struct {
		opcode uint8
		cond   func(c *CPU) bool
	}{
		{0x20, func(c *CPU) bool { return !c.Regs.FlagZ() }},
		{0x28, func(c *CPU) bool { return c.Regs.FlagZ() }},
		{0x30, func(c *CPU) bool { return !c.Regs.FlagC() }},
		{0x38, func(c *CPU) bool { return c.Regs.FlagC() }},
	}
	for _, jc := range jrCond {
		cond := jc.cond
		o[jc.opcode] = func(c *CPU, bus Bus) uint8 {
			e := int8(c.fetch(bus))
			if cond(c) {
				c.Regs.PC = uint16(int32(c.Regs.PC) + int32(e))
				return 3
			}
			return 2
		}
	}

	o[0xE9] = func(c *CPU, bus Bus) uint8 { c.Regs.PC = c.Regs.HL(); return 1 }
	o[0xC3] = func(c *CPU, bus Bus) uint8 { c.Regs.PC = c.fetch16(bus); return 4 }
	jpCond := []struct {
		opcode uint8
		cond   func(c *CPU) bool
	}{
		{0xC2, func(c *CPU) bool { return !c.Regs.FlagZ() }},
		{0xCA, func(c *CPU) bool { return c.Regs.FlagZ() }},
		{0xD2, func(c *CPU) bool { return !c.Regs.FlagC() }},
		{0xDA, func(c *CPU) bool { return c.Regs.FlagC() }},
	}
	for _, jc := range jpCond {
		cond := jc.cond
		o[jc.opcode] = func(c *CPU, bus Bus) uint8 {
			target := c.fetch16(bus)
			if cond(c) {
				c.Regs.PC = target
				return 4
			}
			return 3
		}
	}

	o[0xCD] = func(c *CPU, bus Bus) uint8 {
		target := c.fetch16(bus)
		c.pushStack(bus, c.Regs.PC)
		c.Regs.PC = target
		return 6
	}
	callCond := []struct {
		opcode uint8
		cond   func(c *CPU) bool
	}{
		{0xC4, func(c *CPU) bool { return !c.Regs.FlagZ() }},
		{0xCC, func(c *CPU) bool { return c.Regs.FlagZ() }},
		{0xD4, func(c *CPU) bool { return !c.Regs.FlagC() }},
		{0xDC, func(c *CPU) bool { return c.Regs.FlagC() }},
	}
	for _, cc := range callCond {
		cond := cc.cond
		o[cc.opcode] = func(c *CPU, bus Bus) uint8 {
			target := c.fetch16(bus)
			if cond(c) {
				c.pushStack(bus, c.Regs.PC)
				c.Regs.PC = target
				return 6
			}
			return 3
		}
	}

	o[0xC9] = func(c *CPU, bus Bus) uint8 { c.Regs.PC = c.popStack(bus); return 4 }
	o[0xD9] = func(c *CPU, bus Bus) uint8 {
		c.Regs.PC = c.popStack(bus)
		c.ime = true
		return 4
	}
	retCond := []struct {
		opcode uint8
		cond   func(c *CPU) bool
	}{
		{0xC0, func(c *CPU) bool { return !c.Regs.FlagZ() }},
		{0xC8, func(c *CPU) bool { return c.Regs.FlagZ() }},
		{0xD0, func(c *CPU) bool { return !c.Regs.FlagC() }},
		{0xD8, func(c *CPU) bool { return c.Regs.FlagC() }},
	}
	for _, rc := range retCond {
		cond := rc.cond
		o[rc.opcode] = func(c *CPU, bus Bus) uint8 {
			if cond(c) {
				c.Regs.PC = c.popStack(bus)
				return 5
			}
			return 2
		}
	}

	rstTargets := map[uint8]uint16{
		0xC7: 0x00, 0xCF: 0x08, 0xD7: 0x10, 0xDF: 0x18,
		0xE7: 0x20, 0xEF: 0x28, 0xF7: 0x30, 0xFF: 0x38,
	}
	for opcode, target := range rstTargets {
		t := target
		o[opcode] = func(c *CPU, bus Bus) uint8 {
			c.pushStack(bus, c.Regs.PC)
			c.Regs.PC = t
			return 4
		}
	}

	o[0xC1] = func(c *CPU, bus Bus) uint8 { c.Regs.SetBC(c.popStack(bus)); return 3 }
	o[0xD1] = func(c *CPU, bus Bus) uint8 { c.Regs.SetDE(c.popStack(bus)); return 3 }
	o[0xE1] = func(c *CPU, bus Bus) uint8 { c.Regs.SetHL(c.popStack(bus)); return 3 }
	o[0xF1] = func(c *CPU, bus Bus) uint8 { c.Regs.SetAF(c.popStack(bus)); return 3 }
	o[0xC5] = func(c *CPU, bus Bus) uint8 { c.pushStack(bus, c.Regs.BC()); return 4 }
	o[0xD5] = func(c *CPU, bus Bus) uint8 { c.pushStack(bus, c.Regs.DE()); return 4 }
	o[0xE5] = func(c *CPU, bus Bus) uint8 { c.pushStack(bus, c.Regs.HL()); return 4 }
	o[0xF5] = func(c *CPU, bus Bus) uint8 { c.pushStack(bus, c.Regs.AF()); return 4 }

	o[0xC6] = func(c *CPU, bus Bus) uint8 { c.addA(c.fetch(bus)); return 2 }
	o[0xCE] = func(c *CPU, bus Bus) uint8 { c.adcA(c.fetch(bus)); return 2 }
	o[0xD6] = func(c *CPU, bus Bus) uint8 { c.sub(c.fetch(bus)); return 2 }
	o[0xDE] = func(c *CPU, bus Bus) uint8 { c.sbcA(c.fetch(bus)); return 2 }
	o[0xE6] = func(c *CPU, bus Bus) uint8 { c.andA(c.fetch(bus)); return 2 }
	o[0xEE] = func(c *CPU, bus Bus) uint8 { c.xorA(c.fetch(bus)); return 2 }
	o[0xF6] = func(c *CPU, bus Bus) uint8 { c.orA(c.fetch(bus)); return 2 }
	o[0xFE] = func(c *CPU, bus Bus) uint8 { c.cp(c.fetch(bus)); return 2 }

	o[0xE0] = func(c *CPU, bus Bus) uint8 {
		offset := c.fetch(bus)
		bus.WriteByte(0xFF00+uint16(offset), c.Regs.A)
		return 3
	}
	o[0xF0] = func(c *CPU, bus Bus) uint8 {
		offset := c.fetch(bus)
		c.Regs.A = bus.ReadByte(0xFF00 + uint16(offset))
		return 3
	}
	o[0xE2] = func(c *CPU, bus Bus) uint8 {
		bus.WriteByte(0xFF00+uint16(c.Regs.C), c.Regs.A)
		return 2
	}
	o[0xF2] = func(c *CPU, bus Bus) uint8 {
		c.Regs.A = bus.ReadByte(0xFF00 + uint16(c.Regs.C))
		return 2
	}
	o[0xEA] = func(c *CPU, bus Bus) uint8 { bus.WriteByte(c.fetch16(bus), c.Regs.A); return 4 }
	o[0xFA] = func(c *CPU, bus Bus) uint8 { c.Regs.A = bus.ReadByte(c.fetch16(bus)); return 4 }

	o[0xE8] = func(c *CPU, bus Bus) uint8 {
		e := int8(c.fetch(bus))
		c.Regs.SP = c.addSPSigned(e)
		return 4
	}
	o[0xF8] = func(c *CPU, bus Bus) uint8 {
		e := int8(c.fetch(bus))
		c.Regs.SetHL(c.addSPSigned(e))
		return 3
	}
	o[0xF9] = func(c *CPU, bus Bus) uint8 { c.Regs.SP = c.Regs.HL(); return 2 }

	o[0xF3] = func(c *CPU, bus Bus) uint8 { c.ime = false; c.imePend = false; return 1 } // DI
	o[0xFB] = func(c *CPU, bus Bus) uint8 { c.imePend = true; return 1 }                 // EI

	for _, illegal := range []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		o[illegal] = nil
	}
}
