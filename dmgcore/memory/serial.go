package memory

import "log/slog"

// transferCycles is the fixed duration of a stubbed serial transfer at the
// internal 8192 Hz clock (4194304 / 512), matching the teacher's LogSink
// fixed-timing mode since no link-cable peer exists in this core.
const transferCycles = 4096

// SerialPort is a link-cable stub: it accepts writes to SB/SC, times out a
// transfer as if clocked internally, and logs the byte that would have
// been transmitted instead of exchanging it with a peer (explicitly out of
// scope per the Non-goals).
type SerialPort struct {
	sb, sc          uint8
	cyclesRemaining int
}

func (s *SerialPort) ReadSB() uint8 { return s.sb }
func (s *SerialPort) ReadSC() uint8 { return s.sc | 0x7E }

func (s *SerialPort) WriteSB(v uint8) { s.sb = v }

func (s *SerialPort) WriteSC(v uint8) {
	s.sc = v
	if v&0x81 == 0x81 { // transfer start, internal clock
		s.cyclesRemaining = transferCycles
	}
}

// Update advances the stub's transfer timer (cycles in clock cycles); on
// completion it logs the byte and invokes requestSerialInterrupt.
func (s *SerialPort) Update(cycles int, requestSerialInterrupt func()) {
	if s.cyclesRemaining <= 0 {
		return
	}
	s.cyclesRemaining -= cycles
	if s.cyclesRemaining > 0 {
		return
	}
	slog.Debug("serial transfer complete", "byte", s.sb)
	s.sc &^= 0x80
	s.sb = 0xFF // no peer pulls the line low
	requestSerialInterrupt()
}
