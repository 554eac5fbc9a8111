//go:build linux

package sensehat

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/j-veylop/pihole-sense/internal/input"
	"github.com/j-veylop/pihole-sense/internal/logger"
)

// eventSize is sizeof(struct input_event): a timeval, type, code and value.
var eventSize = int(unsafe.Sizeof(unix.Timeval{})) + 8

// Joystick reads joystick events from evdev in the background.
type Joystick struct {
	f     *os.File
	queue input.Queue
}

// OpenJoystick locates the joystick device and starts reading it.
func OpenJoystick() (*Joystick, error) {
	path, err := FindJoystick()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	j := &Joystick{f: f}
	go j.readLoop(f)
	return j, nil
}

func (j *Joystick) readLoop(r io.Reader) {
	buf := make([]byte, eventSize)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			if !errors.Is(err, os.ErrClosed) && !errors.Is(err, io.EOF) {
				logger.Error("joystick read failed", "error", err)
			}
			return
		}
		if ev, ok := parseEvent(buf); ok {
			j.queue.Push(ev)
		}
	}
}

func parseEvent(buf []byte) (input.Event, bool) {
	off := eventSize - 8
	typ := binary.NativeEndian.Uint16(buf[off:])
	code := binary.NativeEndian.Uint16(buf[off+2:])
	value := int32(binary.NativeEndian.Uint32(buf[off+4:]))
	return decodeKeyEvent(typ, code, value)
}

// PollEvents returns the events read since the last call.
func (j *Joystick) PollEvents() []input.Event {
	return j.queue.PollEvents()
}

// Close stops the reader.
func (j *Joystick) Close() error {
	return j.f.Close()
}
