package keypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeypad_DecimalEntry(t *testing.T) {
	var k Keypad

	k.PressDigit('1')
	k.PressDecimal()
	k.PressDecimal() // second point rejected
	k.PressDigit('5')

	assert.Equal(t, "1.5", k.String())
	assert.InDelta(t, 1.5, k.Value(), 1e-9)
}

func TestKeypad_IgnoresNonDigits(t *testing.T) {
	var k Keypad

	k.PressDigit('4')
	k.PressDigit('-')
	k.PressDigit('x')
	k.PressDigit('2')

	assert.Equal(t, "42", k.String())
	assert.InDelta(t, 42.0, k.Value(), 1e-9)
}

func TestKeypad_Backspace(t *testing.T) {
	var k Keypad

	k.PressDigit('7')
	k.PressDecimal()
	k.PressDigit('5')
	k.PressBackspace()

	assert.Equal(t, "7.", k.String())
	assert.InDelta(t, 7.0, k.Value(), 1e-9)

	k.PressBackspace()
	k.PressBackspace()
	assert.Equal(t, "", k.String())
	assert.Zero(t, k.Value())

	// Backspacing an empty entry stays empty.
	k.PressBackspace()
	assert.Equal(t, "", k.String())
	assert.Zero(t, k.Value())
}

func TestKeypad_Clear(t *testing.T) {
	var k Keypad

	k.PressDigit('9')
	k.PressDigit('9')
	k.PressClear()

	assert.Equal(t, "", k.String())
	assert.Zero(t, k.Value())

	// Still usable after a clear.
	k.PressDigit('3')
	assert.InDelta(t, 3.0, k.Value(), 1e-9)
}

func TestKeypad_BarePointIsZero(t *testing.T) {
	var k Keypad

	k.PressDecimal()

	assert.Equal(t, ".", k.String())
	assert.Zero(t, k.Value())
}

func TestKeypad_LeadingPoint(t *testing.T) {
	var k Keypad

	k.PressDecimal()
	k.PressDigit('2')
	k.PressDigit('5')

	assert.InDelta(t, 0.25, k.Value(), 1e-9)
}

func TestKeypad_ZeroValueReady(t *testing.T) {
	var k Keypad
	assert.Zero(t, k.Value())
	assert.Equal(t, "", k.String())
}
