//go:build linux

package sensehat

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/j-veylop/pihole-sense/internal/matrix"
)

// Gamma reset ioctl of the framebuffer driver.
const (
	fbioResetGamma = 0xF102
	gammaDefault   = 0
	gammaLow       = 1
)

// Framebuffer is a matrix.Panel backed by the LED matrix framebuffer.
type Framebuffer struct {
	mu       sync.Mutex
	f        *os.File
	lowLight bool
}

// OpenFramebuffer locates and opens the LED matrix framebuffer.
func OpenFramebuffer() (*Framebuffer, error) {
	path, err := FindFramebuffer()
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	fb := &Framebuffer{f: f}
	if err := fb.setGamma(false); err != nil {
		_ = f.Close()
		return nil, err
	}
	return fb, nil
}

func (fb *Framebuffer) setGamma(lowLight bool) error {
	value := gammaDefault
	if lowLight {
		value = gammaLow
	}
	if err := unix.IoctlSetInt(int(fb.f.Fd()), fbioResetGamma, value); err != nil {
		return fmt.Errorf("failed to set gamma: %w", err)
	}
	fb.lowLight = lowLight
	return nil
}

// Flush writes g to the framebuffer, switching gamma tables when needed.
func (fb *Framebuffer) Flush(g matrix.Grid, lowLight bool) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	if lowLight != fb.lowLight {
		if err := fb.setGamma(lowLight); err != nil {
			return err
		}
	}
	if _, err := fb.f.WriteAt(encodeFramebuffer(g), 0); err != nil {
		return fmt.Errorf("failed to write framebuffer: %w", err)
	}
	return nil
}

// Close blanks the matrix and closes the device.
func (fb *Framebuffer) Close() error {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	_, _ = fb.f.WriteAt(encodeFramebuffer(matrix.Grid{}), 0)
	return fb.f.Close()
}
