// Package matrix models the 8x8 RGB LED matrix the charts are drawn on.
package matrix

import (
	"fmt"
	"sync"
)

// Size is the width and height of the matrix.
const Size = 8

// RGB is a 24-bit pixel color.
type RGB struct {
	R, G, B uint8
}

// Common colors.
var (
	Off   = RGB{}
	Red   = RGB{R: 255}
	Green = RGB{G: 255}
	Blue  = RGB{B: 255}
)

// Hex returns the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Grid is a full frame indexed as Grid[y][x].
type Grid [Size][Size]RGB

// Lit returns the number of pixels that are not Off.
func (g Grid) Lit() int {
	n := 0
	for y := range Size {
		for x := range Size {
			if g[y][x] != Off {
				n++
			}
		}
	}
	return n
}

// Matrix is the display sink the charts are painted on.
type Matrix interface {
	Clear() error
	SetRotation(degrees int) error
	SetLowLight(enabled bool) error
	SetPixel(x, y int, c RGB) error
}

// Panel is a physical output that can show a whole grid at once.
type Panel interface {
	Flush(g Grid, lowLight bool) error
}

// Device implements Matrix on top of a Panel. Rotation is done in software:
// pixels are stored in logical coordinates and mapped when flushed.
type Device struct {
	mu       sync.Mutex
	panel    Panel
	logical  Grid
	rotation int
	lowLight bool
}

// NewDevice wraps a panel.
func NewDevice(p Panel) *Device {
	return &Device{panel: p}
}

// Clear turns every pixel off.
func (d *Device) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logical = Grid{}
	return d.flushLocked()
}

// SetRotation rotates the picture clockwise by 0, 90, 180 or 270 degrees and
// redraws it.
func (d *Device) SetRotation(degrees int) error {
	switch degrees {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("rotation must be 0, 90, 180 or 270 degrees, got %d", degrees)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rotation == degrees {
		return nil
	}
	d.rotation = degrees
	return d.flushLocked()
}

// SetLowLight dims the panel for dark rooms.
func (d *Device) SetLowLight(enabled bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lowLight == enabled {
		return nil
	}
	d.lowLight = enabled
	return d.flushLocked()
}

// SetPixel sets a single pixel in logical coordinates.
func (d *Device) SetPixel(x, y int, c RGB) error {
	if x < 0 || x >= Size || y < 0 || y >= Size {
		return fmt.Errorf("pixel (%d,%d) outside %dx%d matrix", x, y, Size, Size)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logical[y][x] = c
	return d.flushLocked()
}

// Logical returns the current picture before rotation.
func (d *Device) Logical() Grid {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.logical
}

func (d *Device) flushLocked() error {
	return d.panel.Flush(Rotate(d.logical, d.rotation), d.lowLight)
}

// Rotate maps a logical grid onto the physical panel turned clockwise by
// degrees.
func Rotate(g Grid, degrees int) Grid {
	var out Grid
	for y := range Size {
		for x := range Size {
			px, py := RotatePoint(x, y, degrees)
			out[py][px] = g[y][x]
		}
	}
	return out
}

// RotatePoint maps a single logical coordinate.
func RotatePoint(x, y, degrees int) (int, int) {
	switch degrees {
	case 90:
		return Size - 1 - y, x
	case 180:
		return Size - 1 - x, Size - 1 - y
	case 270:
		return y, Size - 1 - x
	default:
		return x, y
	}
}
