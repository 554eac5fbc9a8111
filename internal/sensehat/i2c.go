package sensehat

import (
	"fmt"
	"io"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/j-veylop/pihole-sense/internal/input"
	"github.com/j-veylop/pihole-sense/internal/logger"
	"github.com/j-veylop/pihole-sense/internal/matrix"
)

// Microcontroller registers.
const (
	i2cAddr     = 0x46
	regLEDs     = 0x00
	regWhoAmI   = 0xF0
	regJoystick = 0xF2
	whoAmI      = 's'
)

// DefaultStickPoll is how often the I2C joystick register is read.
const DefaultStickPoll = 20 * time.Millisecond

type conn interface {
	Tx(w, r []byte) error
}

// I2C drives the HAT microcontroller directly, without the kernel drivers.
// It is both a matrix.Panel and an input.Source.
type I2C struct {
	mu     sync.Mutex
	dev    conn
	closer io.Closer
	queue  input.Queue
	stick  stickState
	stop   chan struct{}
	done   chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// OpenI2C opens the HAT on the named bus ("" picks the first one) and starts
// polling the joystick.
func OpenI2C(busName string, poll time.Duration) (*I2C, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open i2c bus %q: %v", ErrNotFound, busName, err)
	}
	h, err := newI2C(&i2c.Dev{Bus: bus, Addr: i2cAddr}, bus, poll)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	return h, nil
}

func newI2C(dev conn, closer io.Closer, poll time.Duration) (*I2C, error) {
	id := make([]byte, 1)
	if err := dev.Tx([]byte{regWhoAmI}, id); err != nil {
		return nil, fmt.Errorf("%w: no reply at 0x%02x: %v", ErrNotFound, i2cAddr, err)
	}
	if id[0] != whoAmI {
		return nil, fmt.Errorf("%w: unexpected id 0x%02x", ErrNotFound, id[0])
	}

	h := &I2C{
		dev:    dev,
		closer: closer,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	if poll <= 0 {
		poll = DefaultStickPoll
	}
	go h.pollLoop(poll)
	return h, nil
}

// Flush writes g to the LED registers using the gamma table for lowLight.
func (h *I2C) Flush(g matrix.Grid, lowLight bool) error {
	w := append([]byte{regLEDs}, encodeLEDs(g, lowLight)...)
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.dev.Tx(w, nil); err != nil {
		return fmt.Errorf("failed to write leds: %w", err)
	}
	return nil
}

func (h *I2C) pollLoop(every time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	reg := make([]byte, 1)
	for {
		select {
		case <-h.stop:
			return
		case now := <-ticker.C:
			h.mu.Lock()
			err := h.dev.Tx([]byte{regJoystick}, reg)
			h.mu.Unlock()
			if err != nil {
				logger.Debug("joystick read failed", "error", err)
				continue
			}
			if events := h.stick.update(reg[0], now); len(events) > 0 {
				h.queue.Push(events...)
			}
		}
	}
}

// PollEvents returns the joystick events seen since the last call.
func (h *I2C) PollEvents() []input.Event {
	return h.queue.PollEvents()
}

// Close stops polling, blanks the matrix and releases the bus. Later calls
// return the first result.
func (h *I2C) Close() error {
	h.closeOnce.Do(func() {
		close(h.stop)
		<-h.done
		_ = h.Flush(matrix.Grid{}, false)
		if h.closer != nil {
			h.closeErr = h.closer.Close()
		}
	})
	return h.closeErr
}
