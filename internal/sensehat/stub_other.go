//go:build !linux

package sensehat

import (
	"fmt"
	"runtime"

	"github.com/j-veylop/pihole-sense/internal/input"
	"github.com/j-veylop/pihole-sense/internal/matrix"
)

// Framebuffer is only available on Linux.
type Framebuffer struct{}

// OpenFramebuffer always fails off Linux.
func OpenFramebuffer() (*Framebuffer, error) {
	return nil, fmt.Errorf("%w: framebuffer unsupported on %s", ErrNotFound, runtime.GOOS)
}

// Flush is a no-op.
func (*Framebuffer) Flush(matrix.Grid, bool) error { return nil }

// Close is a no-op.
func (*Framebuffer) Close() error { return nil }

// Joystick is only available on Linux.
type Joystick struct{}

// OpenJoystick always fails off Linux.
func OpenJoystick() (*Joystick, error) {
	return nil, fmt.Errorf("%w: evdev unsupported on %s", ErrNotFound, runtime.GOOS)
}

// PollEvents returns nothing.
func (*Joystick) PollEvents() []input.Event { return nil }

// Close is a no-op.
func (*Joystick) Close() error { return nil }
