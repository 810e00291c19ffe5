// Package keypad assembles numeric values from on-screen keypad
// events. Kiosk terminals have no hardware keyboard; gallons and area
// figures arrive one key at a time, and the assembly rules (single
// decimal point, never negative) have to hold regardless of what the
// screen disables.
package keypad

import (
	"strconv"
	"strings"
)

// Keypad accumulates digit, decimal point, backspace, and clear
// presses into a non-negative value. The zero value is ready to use.
type Keypad struct {
	buf strings.Builder
}

// PressDigit appends a digit key. Non-digit runes are ignored.
func (k *Keypad) PressDigit(digit rune) {
	if digit < '0' || digit > '9' {
		return
	}
	k.buf.WriteRune(digit)
}

// PressDecimal appends the decimal point. A second point is rejected;
// the entry keeps its current state.
func (k *Keypad) PressDecimal() {
	if strings.ContainsRune(k.buf.String(), '.') {
		return
	}
	k.buf.WriteByte('.')
}

// PressBackspace removes the last key. Backspacing an empty entry
// leaves it empty, which reads as zero.
func (k *Keypad) PressBackspace() {
	current := k.buf.String()
	if current == "" {
		return
	}
	k.buf.Reset()
	k.buf.WriteString(current[:len(current)-1])
}

// PressClear resets the entry to zero.
func (k *Keypad) PressClear() {
	k.buf.Reset()
}

// String returns the raw entry as typed so far.
func (k *Keypad) String() string {
	return k.buf.String()
}

// Value returns the assembled number. An empty or bare-point entry is
// zero; the value can never be negative because there is no sign key.
func (k *Keypad) Value() float64 {
	s := k.buf.String()
	if s == "" || s == "." {
		return 0
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return value
}
