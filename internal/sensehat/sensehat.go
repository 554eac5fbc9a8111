// Package sensehat drives the Raspberry Pi Sense HAT LED matrix and joystick,
// either through the kernel drivers (framebuffer and evdev) or directly over
// I2C.
package sensehat

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/j-veylop/pihole-sense/internal/input"
	"github.com/j-veylop/pihole-sense/internal/matrix"
)

// ErrNotFound is returned when the HAT device cannot be located.
var ErrNotFound = errors.New("sense hat not found")

// Device names reported by the kernel drivers.
const (
	FramebufferName = "RPi-Sense FB"
	JoystickName    = "Raspberry Pi Sense HAT Joystick"
)

// Linux input key codes of the joystick.
const (
	keyEnter = 28
	keyUp    = 103
	keyLeft  = 105
	keyRight = 106
	keyDown  = 108
)

const evKey = 1

// Gamma tables map a 5-bit channel to LED drive levels.
var (
	defaultGamma = [32]byte{
		0, 0, 0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 5, 6, 7,
		8, 9, 10, 11, 12, 14, 15, 17, 18, 20, 21, 23, 25, 27, 29, 31,
	}
	lowLightGamma = [32]byte{
		0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 2, 2,
		2, 3, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 10,
	}
)

// rgb565 packs a color the way the framebuffer stores it.
func rgb565(c matrix.RGB) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}

// encodeFramebuffer lays out g as 64 little-endian RGB565 pixels, row major.
func encodeFramebuffer(g matrix.Grid) []byte {
	buf := make([]byte, matrix.Size*matrix.Size*2)
	for y := range matrix.Size {
		for x := range matrix.Size {
			binary.LittleEndian.PutUint16(buf[(y*matrix.Size+x)*2:], rgb565(g[y][x]))
		}
	}
	return buf
}

// encodeLEDs lays out g as the 192 LED registers: per row eight red, eight
// green and eight blue gamma-corrected levels.
func encodeLEDs(g matrix.Grid, lowLight bool) []byte {
	gamma := &defaultGamma
	if lowLight {
		gamma = &lowLightGamma
	}
	buf := make([]byte, matrix.Size*3*matrix.Size)
	for y := range matrix.Size {
		row := buf[y*3*matrix.Size:]
		for x := range matrix.Size {
			c := g[y][x]
			row[x] = gamma[c.R>>3]
			row[matrix.Size+x] = gamma[c.G>>3]
			row[2*matrix.Size+x] = gamma[c.B>>3]
		}
	}
	return buf
}

func keyDirection(code uint16) (input.Direction, bool) {
	switch code {
	case keyUp:
		return input.Up, true
	case keyDown:
		return input.Down, true
	case keyLeft:
		return input.Left, true
	case keyRight:
		return input.Right, true
	case keyEnter:
		return input.Middle, true
	default:
		return 0, false
	}
}

// decodeKeyEvent converts the type, code and value of an input_event.
func decodeKeyEvent(typ, code uint16, value int32) (input.Event, bool) {
	if typ != evKey {
		return input.Event{}, false
	}
	dir, ok := keyDirection(code)
	if !ok {
		return input.Event{}, false
	}
	var action input.Action
	switch value {
	case 0:
		action = input.Released
	case 1:
		action = input.Pressed
	case 2:
		action = input.Held
	default:
		return input.Event{}, false
	}
	return input.Event{Direction: dir, Action: action}, true
}

// Joystick register bits, lowest first.
var stickBits = [...]input.Direction{input.Down, input.Right, input.Up, input.Middle, input.Left}

// Hold timing of the I2C joystick, matching the kernel autorepeat.
const (
	holdDelay  = 250 * time.Millisecond
	holdRepeat = 33 * time.Millisecond
)

// stickState turns successive joystick register reads into events.
type stickState struct {
	pressedAt [len(stickBits)]time.Time
	lastHeld  [len(stickBits)]time.Time
}

func (s *stickState) update(reg byte, now time.Time) []input.Event {
	var events []input.Event
	for i, dir := range stickBits {
		down := reg&(1<<i) != 0
		switch {
		case down && s.pressedAt[i].IsZero():
			s.pressedAt[i] = now
			s.lastHeld[i] = time.Time{}
			events = append(events, input.Event{Direction: dir, Action: input.Pressed})
		case down:
			if now.Sub(s.pressedAt[i]) < holdDelay {
				continue
			}
			if s.lastHeld[i].IsZero() || now.Sub(s.lastHeld[i]) >= holdRepeat {
				s.lastHeld[i] = now
				events = append(events, input.Event{Direction: dir, Action: input.Held})
			}
		case !s.pressedAt[i].IsZero():
			s.pressedAt[i] = time.Time{}
			events = append(events, input.Event{Direction: dir, Action: input.Released})
		}
	}
	return events
}
