package memory

// Button identifies one of the eight physical inputs. The bit position
// matches where each button's pressed-state lives in Joypad.pressed.
type Button uint8

const (
	Right Button = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// Joypad is the column-multiplexed 8-button latch: two columns (d-pad,
// buttons), selected via 0xFF00 bits 4-5 (active-low), each exposing its
// four buttons on bits 0-3 (also active-low: 0 = pressed).
type Joypad struct {
	pressed uint8 // positive logic, one bit per Button

	selectDpad    bool // P14 (bit4) driven low: d-pad column enabled
	selectButtons bool // P15 (bit5) driven low: button column enabled

	prevPressed uint8 // previously observed pressed bits (positive logic), for edge detection
}

func (j *Joypad) Press(b Button)   { j.pressed |= 1 << b }
func (j *Joypad) Release(b Button) { j.pressed &^= 1 << b }

// WriteSelect stores the two column-select bits written to 0xFF00; bits
// 0-3 of that register are never software-writable.
func (j *Joypad) WriteSelect(v uint8) {
	j.selectDpad = v&0x10 == 0
	j.selectButtons = v&0x20 == 0
}

func (j *Joypad) selectedNibble() uint8 {
	nibble := uint8(0x0F)
	if j.selectDpad {
		nibble &^= j.pressed & 0x0F
	}
	if j.selectButtons {
		nibble &^= (j.pressed >> 4) & 0x0F
	}
	return nibble
}

// Read composes the full 0xFF00 register value as CPU reads observe it.
func (j *Joypad) Read() uint8 {
	top := uint8(0xC0)
	if !j.selectDpad {
		top |= 0x10
	}
	if !j.selectButtons {
		top |= 0x20
	}
	return top | j.selectedNibble()
}

// Update reports whether any bit in the currently-selected column(s) just
// transitioned from released (1) to pressed (0), which should raise a
// Joypad interrupt on the caller's next interrupt-dispatch phase.
func (j *Joypad) Update() bool {
	cur := ^j.selectedNibble() & 0x0F
	transitioned := cur&^j.prevPressed != 0
	j.prevPressed = cur
	return transitioned
}
